package transfer

import "time"

type AutomationRuleCreation struct {
	Name             string   `json:"name"`
	SourcePlatform   string   `json:"source_platform"`
	SourceIdentifier string   `json:"source_identifier"`
	TargetPlatforms  []string `json:"target_platforms"`
	UseAICaptions    bool     `json:"use_ai_captions"`
	CaptionTemplate  string   `json:"caption_template"`
}

type RuleStatusUpdate struct {
	Status string `json:"status"`
}

type ScheduleRequest struct {
	AutomationID int64     `json:"automation_id"`
	RunAt        time.Time `json:"run_at"`
}
