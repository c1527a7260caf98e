package queue

import (
	"github.com/crosscast/crosscast-api/internal/service"
)

type Queue struct {
	as service.AutomationService
}

func NewQueue(as service.AutomationService) *Queue {
	return &Queue{
		as: as,
	}
}

const TaskTypeExecuteAutomation = "automation:execute"

type ExecuteAutomationPayload struct {
	AutomationID int64 `json:"automation_id"`
	UserID       int64 `json:"user_id"`
}
