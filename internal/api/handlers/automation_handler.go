package handlers

import (
	"time"

	"github.com/crosscast/crosscast-api/internal/queue"
	"github.com/crosscast/crosscast-api/internal/service"
	"github.com/crosscast/crosscast-api/internal/transfer"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

type AutomationHandler struct {
	s           service.AutomationService
	AsynqClient *asynq.Client
}

func NewAutomationHandler(service service.AutomationService, asynqClient *asynq.Client) *AutomationHandler {
	return &AutomationHandler{s: service, AsynqClient: asynqClient}
}

func (h *AutomationHandler) CreateRule(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var rc transfer.AutomationRuleCreation
	err := c.BodyParser(&rc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	ruleID, err := h.s.Create(c.Context(), userID, &rc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id": ruleID,
	})
}

func (h *AutomationHandler) ListRules(c *fiber.Ctx) error {
	userID := GetUserID(c)
	ruleId := c.QueryInt("id", 0)

	if ruleId != 0 {
		rule, err := h.s.GetRuleInfo(c.Context(), userID, int64(ruleId))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to find automation rule",
			})
		}
		return c.Status(fiber.StatusOK).JSON(rule)
	}

	rules, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list automation rules",
		})
	}

	return c.Status(fiber.StatusOK).JSON(rules)
}

func (h *AutomationHandler) UpdateRuleStatus(c *fiber.Ctx) error {
	userID := GetUserID(c)
	ruleId := c.QueryInt("id", 0)

	var su transfer.RuleStatusUpdate
	err := c.BodyParser(&su)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	err = h.s.UpdateStatus(c.Context(), userID, int64(ruleId), su.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to update automation rule",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *AutomationHandler) RemoveRule(c *fiber.Ctx) error {
	userID := GetUserID(c)
	ruleId := c.QueryInt("id", 0)

	err := h.s.Remove(c.Context(), userID, int64(ruleId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to delete automation rule",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// ExecuteRule runs an automation synchronously and returns one outcome
// row per target platform.
func (h *AutomationHandler) ExecuteRule(c *fiber.Ctx) error {
	userID := GetUserID(c)
	ruleId := c.QueryInt("id", 0)

	results, err := h.s.Execute(c.Context(), userID, int64(ruleId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(results)
}

// ScheduleRule queues an automation run for later instead of executing
// it inline.
func (h *AutomationHandler) ScheduleRule(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var sr transfer.ScheduleRequest
	err := c.BodyParser(&sr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	// Make sure the rule exists and belongs to the caller before
	// anything lands on the queue.
	_, err = h.s.GetRuleInfo(c.Context(), userID, sr.AutomationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to find automation rule",
		})
	}

	delay := time.Until(sr.RunAt)
	if delay < 0 {
		delay = 0
	}

	err = queue.EnqueueExecution(h.AsynqClient, queue.ExecuteAutomationPayload{
		AutomationID: sr.AutomationID,
		UserID:       userID,
	}, delay)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling automation",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Automation scheduled successfully",
	})
}
