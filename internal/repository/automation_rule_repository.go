package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/lib/pq"
)

type AutomationRuleRepository interface {
	Create(ctx context.Context, rule *models.AutomationRule) (int64, error)
	GetByIDAndUserID(ctx context.Context, ruleID, userID int64) (*models.AutomationRule, bool, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.AutomationRule, error)
	UpdateStatus(ctx context.Context, ruleID int64, status string) error
	SetLastRun(ctx context.Context, ruleID int64, lastRun time.Time) error
	Remove(ctx context.Context, ruleID int64) error
}

type automationRuleRepository struct {
	db *sql.DB
}

func NewAutomationRuleRepository(db *sql.DB) AutomationRuleRepository {
	return &automationRuleRepository{db: db}
}

func (r *automationRuleRepository) Create(ctx context.Context, rule *models.AutomationRule) (int64, error) {
	query := `
		INSERT INTO automation_rules (
			user_id,
			name,
			source_platform,
			source_identifier,
			target_platforms,
			use_ai_captions,
			caption_template,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		rule.UserID,
		rule.Name,
		rule.SourcePlatform,
		rule.SourceIdentifier,
		pq.Array(rule.TargetPlatforms),
		rule.UseAICaptions,
		rule.CaptionTemplate,
		rule.Status,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *automationRuleRepository) GetByIDAndUserID(ctx context.Context, ruleID, userID int64) (*models.AutomationRule, bool, error) {
	query := `
		SELECT id, user_id, name, source_platform, source_identifier,
			target_platforms, use_ai_captions, caption_template, status,
			last_run_at, created_at, updated_at
		FROM automation_rules
		WHERE id = $1 AND user_id = $2
	`
	row := r.db.QueryRowContext(ctx, query, ruleID, userID)

	var rule models.AutomationRule
	err := row.Scan(&rule.ID, &rule.UserID, &rule.Name, &rule.SourcePlatform, &rule.SourceIdentifier,
		pq.Array(&rule.TargetPlatforms), &rule.UseAICaptions, &rule.CaptionTemplate, &rule.Status,
		&rule.LastRunAt, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &rule, true, nil
}

func (r *automationRuleRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.AutomationRule, error) {
	query := `
		SELECT id, user_id, name, source_platform, source_identifier,
			target_platforms, use_ai_captions, caption_template, status,
			last_run_at, created_at, updated_at
		FROM automation_rules
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var rules []*models.AutomationRule
	for rows.Next() {
		var rule models.AutomationRule
		err := rows.Scan(&rule.ID, &rule.UserID, &rule.Name, &rule.SourcePlatform, &rule.SourceIdentifier,
			pq.Array(&rule.TargetPlatforms), &rule.UseAICaptions, &rule.CaptionTemplate, &rule.Status,
			&rule.LastRunAt, &rule.CreatedAt, &rule.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		rules = append(rules, &rule)
	}
	return rules, rows.Err()
}

func (r *automationRuleRepository) UpdateStatus(ctx context.Context, ruleID int64, status string) error {
	query := `UPDATE automation_rules SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, ruleID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *automationRuleRepository) SetLastRun(ctx context.Context, ruleID int64, lastRun time.Time) error {
	query := `UPDATE automation_rules SET last_run_at = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, lastRun, ruleID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *automationRuleRepository) Remove(ctx context.Context, ruleID int64) error {
	query := `DELETE FROM automation_rules WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, ruleID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
