package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/crosscast/crosscast-api/internal/models"
)

type ConnectedAccountRepository interface {
	Upsert(ctx context.Context, account *models.ConnectedAccount) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ConnectedAccount, error)
	GetActive(ctx context.Context, userID int64, platform string) (*models.ConnectedAccount, bool, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.ConnectedAccount, error)
	ListExpiringBefore(ctx context.Context, deadline time.Time) ([]*models.ConnectedAccount, error)
	CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error)
	SetToken(ctx context.Context, userID int64, platform string, account *models.ConnectedAccount) error
	Deactivate(ctx context.Context, id int64) error
}

type connectedAccountRepository struct {
	db *sql.DB
}

func NewConnectedAccountRepository(db *sql.DB) ConnectedAccountRepository {
	return &connectedAccountRepository{db: db}
}

// Upsert keys on (user_id, platform): re-running an OAuth exchange
// replaces the stored token and reactivates the account instead of
// creating a duplicate row.
func (r *connectedAccountRepository) Upsert(ctx context.Context, account *models.ConnectedAccount) (int64, error) {
	query := `
		INSERT INTO connected_accounts (
			user_id,
			platform,
			platform_user_id,
			platform_username,
			access_token,
			refresh_token,
			token_expires_at,
			is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		ON CONFLICT (user_id, platform) DO UPDATE
		SET platform_user_id = EXCLUDED.platform_user_id,
			platform_username = EXCLUDED.platform_username,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			is_active = TRUE,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		account.UserID,
		account.Platform,
		account.PlatformUserID,
		account.PlatformUsername,
		account.AccessToken,
		account.RefreshToken,
		account.TokenExpiresAt,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *connectedAccountRepository) GetByID(ctx context.Context, id int64) (*models.ConnectedAccount, error) {
	query := `
		SELECT id, user_id, platform, platform_user_id, platform_username,
			access_token, refresh_token, token_expires_at, is_active,
			connected_at, updated_at
		FROM connected_accounts WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var ca models.ConnectedAccount
	err := row.Scan(&ca.ID, &ca.UserID, &ca.Platform, &ca.PlatformUserID, &ca.PlatformUsername,
		&ca.AccessToken, &ca.RefreshToken, &ca.TokenExpiresAt, &ca.IsActive,
		&ca.ConnectedAt, &ca.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &ca, nil
}

// GetActive ignores soft-deleted rows, so a disconnected platform looks
// the same as one that was never connected.
func (r *connectedAccountRepository) GetActive(ctx context.Context, userID int64, platform string) (*models.ConnectedAccount, bool, error) {
	query := `
		SELECT id, user_id, platform, platform_user_id, platform_username,
			access_token, refresh_token, token_expires_at, is_active,
			connected_at, updated_at
		FROM connected_accounts
		WHERE user_id = $1 AND platform = $2 AND is_active = TRUE
	`
	row := r.db.QueryRowContext(ctx, query, userID, platform)

	var ca models.ConnectedAccount
	err := row.Scan(&ca.ID, &ca.UserID, &ca.Platform, &ca.PlatformUserID, &ca.PlatformUsername,
		&ca.AccessToken, &ca.RefreshToken, &ca.TokenExpiresAt, &ca.IsActive,
		&ca.ConnectedAt, &ca.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &ca, true, nil
}

func (r *connectedAccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.ConnectedAccount, error) {
	query := `
		SELECT id, platform, platform_username, is_active, connected_at
		FROM connected_accounts WHERE user_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.ConnectedAccount
	for rows.Next() {
		var ca models.ConnectedAccount
		err := rows.Scan(&ca.ID, &ca.Platform, &ca.PlatformUsername, &ca.IsActive, &ca.ConnectedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &ca)
	}
	return accounts, rows.Err()
}

func (r *connectedAccountRepository) ListExpiringBefore(ctx context.Context, deadline time.Time) ([]*models.ConnectedAccount, error) {
	query := `
		SELECT id, user_id, platform, access_token, refresh_token, token_expires_at
		FROM connected_accounts
		WHERE is_active = TRUE AND token_expires_at IS NOT NULL AND token_expires_at < $1
	`
	rows, err := r.db.QueryContext(ctx, query, deadline)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.ConnectedAccount
	for rows.Next() {
		var ca models.ConnectedAccount
		err := rows.Scan(&ca.ID, &ca.UserID, &ca.Platform, &ca.AccessToken, &ca.RefreshToken, &ca.TokenExpiresAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &ca)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return accounts, nil
}

func (r *connectedAccountRepository) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	query := "SELECT 1 FROM connected_accounts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, accountID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *connectedAccountRepository) SetToken(ctx context.Context, userID int64, platform string, account *models.ConnectedAccount) error {
	query := `
		UPDATE connected_accounts
		SET access_token = COALESCE(NULLIF($3, ''), access_token),
			refresh_token = COALESCE(NULLIF($4, ''), refresh_token),
			token_expires_at = COALESCE($5, token_expires_at),
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND platform = $2 AND is_active = TRUE
	`
	_, err := r.db.ExecContext(ctx, query, userID, platform, account.AccessToken, account.RefreshToken, account.TokenExpiresAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// Deactivate soft-deletes: the row survives for history, but GetActive
// no longer returns it.
func (r *connectedAccountRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE connected_accounts SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
