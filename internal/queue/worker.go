package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandleExecuteAutomationTask(ctx context.Context, task *asynq.Task) error {
	var payload ExecuteAutomationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	results, err := q.as.Execute(ctx, payload.UserID, payload.AutomationID)
	if err != nil {
		log.Printf("Error executing automation %d for user %d: %v", payload.AutomationID, payload.UserID, err)
		return err
	}

	log.Printf("Automation %d executed: %d outcome rows", payload.AutomationID, len(results))
	return nil
}
