package models

import (
	"database/sql"
	"time"
)

type AutomationRule struct {
	ID               int64        `db:"id" json:"id"`
	UserID           int64        `db:"user_id" json:"user_id"`
	Name             string       `db:"name" json:"name"`
	SourcePlatform   string       `db:"source_platform" json:"source_platform"`
	SourceIdentifier string       `db:"source_identifier" json:"source_identifier"`
	TargetPlatforms  []string     `db:"target_platforms" json:"target_platforms"`
	UseAICaptions    bool         `db:"use_ai_captions" json:"use_ai_captions"`
	CaptionTemplate  string       `db:"caption_template" json:"caption_template"`
	Status           string       `db:"status" json:"status"`
	LastRunAt        sql.NullTime `db:"last_run_at" json:"last_run_at"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
}

const (
	RuleStatusActive = "active"
	RuleStatusPaused = "paused"
	RuleStatusError  = "error"
)
