package handlers

import (
	"github.com/crosscast/crosscast-api/internal/service"
	"github.com/crosscast/crosscast-api/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type ContentHandler struct {
	s service.ContentService
}

func NewContentHandler(service service.ContentService) *ContentHandler {
	return &ContentHandler{s: service}
}

func (h *ContentHandler) ListContent(c *fiber.Ctx) error {
	userID := GetUserID(c)
	ruleId := c.QueryInt("rule_id", 0)

	if ruleId != 0 {
		contents, err := h.s.ListByRule(c.Context(), userID, int64(ruleId))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to list posted content",
			})
		}
		return c.Status(fiber.StatusOK).JSON(contents)
	}

	contents, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list posted content",
		})
	}

	return c.Status(fiber.StatusOK).JSON(contents)
}

func (h *ContentHandler) CreateManualPost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var mp transfer.ManualPostRequest
	err := c.BodyParser(&mp)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	results, err := h.s.ManualPost(c.Context(), userID, &mp)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(results)
}
