package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/crosscast/crosscast-api/internal/models"
)

// PostedContentRepository is an append-only execution log: rows are
// created once per (rule, target platform) attempt and never mutated.
type PostedContentRepository interface {
	Create(ctx context.Context, pc *models.PostedContent) (int64, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.PostedContent, error)
	ListByRuleID(ctx context.Context, ruleID, userID int64) ([]*models.PostedContent, error)
}

type postedContentRepository struct {
	db *sql.DB
}

func NewPostedContentRepository(db *sql.DB) PostedContentRepository {
	return &postedContentRepository{db: db}
}

func (r *postedContentRepository) Create(ctx context.Context, pc *models.PostedContent) (int64, error) {
	query := `
		INSERT INTO posted_content (
			automation_rule_id,
			user_id,
			source_platform,
			source_video_id,
			source_video_url,
			source_video_title,
			target_platform,
			caption,
			status,
			target_post_id,
			target_post_url,
			error_message,
			posted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		pc.AutomationRuleID,
		pc.UserID,
		pc.SourcePlatform,
		pc.SourceVideoID,
		pc.SourceVideoURL,
		pc.SourceVideoTitle,
		pc.TargetPlatform,
		pc.Caption,
		pc.Status,
		pc.TargetPostID,
		pc.TargetPostURL,
		pc.ErrorMessage,
		pc.PostedAt,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postedContentRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.PostedContent, error) {
	query := `
		SELECT id, automation_rule_id, user_id, source_platform, source_video_id,
			source_video_url, source_video_title, target_platform, caption,
			status, target_post_id, target_post_url, error_message, posted_at, created_at
		FROM posted_content
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *postedContentRepository) ListByRuleID(ctx context.Context, ruleID, userID int64) ([]*models.PostedContent, error) {
	query := `
		SELECT id, automation_rule_id, user_id, source_platform, source_video_id,
			source_video_url, source_video_title, target_platform, caption,
			status, target_post_id, target_post_url, error_message, posted_at, created_at
		FROM posted_content
		WHERE automation_rule_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, ruleID, userID)
}

func (r *postedContentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.PostedContent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var contents []*models.PostedContent
	for rows.Next() {
		var pc models.PostedContent
		err := rows.Scan(&pc.ID, &pc.AutomationRuleID, &pc.UserID, &pc.SourcePlatform, &pc.SourceVideoID,
			&pc.SourceVideoURL, &pc.SourceVideoTitle, &pc.TargetPlatform, &pc.Caption,
			&pc.Status, &pc.TargetPostID, &pc.TargetPostURL, &pc.ErrorMessage, &pc.PostedAt, &pc.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		contents = append(contents, &pc)
	}
	return contents, rows.Err()
}
