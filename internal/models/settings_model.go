package models

import "time"

// Settings holds per-user posting preferences. Empty board/page ids
// mean the adapter picks the first one the platform returns.
type Settings struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	PinterestBoardID string    `db:"pinterest_board_id" json:"pinterest_board_id"`
	FacebookPageID   string    `db:"facebook_page_id" json:"facebook_page_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
