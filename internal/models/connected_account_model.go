package models

import (
	"database/sql"
	"time"
)

// ConnectedAccount is one user's authorization to act on one platform.
// At most one row exists per (user_id, platform); the OAuth callback
// upserts on that pair. Disconnecting clears is_active instead of
// deleting the row.
type ConnectedAccount struct {
	ID               int64        `db:"id" json:"id"`
	UserID           int64        `db:"user_id" json:"user_id"`
	Platform         string       `db:"platform" json:"platform"`
	PlatformUserID   string       `db:"platform_user_id" json:"platform_user_id"`
	PlatformUsername string       `db:"platform_username" json:"platform_username"`
	AccessToken      string       `db:"access_token" json:"-"`
	RefreshToken     string       `db:"refresh_token" json:"-"`
	TokenExpiresAt   sql.NullTime `db:"token_expires_at" json:"token_expires_at"`
	IsActive         bool         `db:"is_active" json:"is_active"`
	ConnectedAt      time.Time    `db:"connected_at" json:"connected_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
}
