package models

import (
	"database/sql"
	"time"
)

// PostedContent is the outcome of one (rule, target platform) posting
// attempt. Rows are append-only; an execution with N targets writes N
// of them, each succeeding or failing on its own.
type PostedContent struct {
	ID               int64         `db:"id" json:"id"`
	AutomationRuleID sql.NullInt64 `db:"automation_rule_id" json:"automation_rule_id"`
	UserID           int64         `db:"user_id" json:"user_id"`
	SourcePlatform   string        `db:"source_platform" json:"source_platform"`
	SourceVideoID    string        `db:"source_video_id" json:"source_video_id"`
	SourceVideoURL   string        `db:"source_video_url" json:"source_video_url"`
	SourceVideoTitle string        `db:"source_video_title" json:"source_video_title"`
	TargetPlatform   string        `db:"target_platform" json:"target_platform"`
	Caption          string        `db:"caption" json:"caption"`
	Status           string        `db:"status" json:"status"`
	TargetPostID     string        `db:"target_post_id" json:"target_post_id"`
	TargetPostURL    string        `db:"target_post_url" json:"target_post_url"`
	ErrorMessage     string        `db:"error_message" json:"error_message"`
	PostedAt         sql.NullTime  `db:"posted_at" json:"posted_at"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
}

const (
	PostStatusPending    = "pending"
	PostStatusProcessing = "processing"
	PostStatusPosted     = "posted"
	PostStatusFailed     = "failed"
)
