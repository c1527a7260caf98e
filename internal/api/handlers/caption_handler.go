package handlers

import (
	"github.com/crosscast/crosscast-api/internal/service"
	"github.com/crosscast/crosscast-api/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type CaptionHandler struct {
	s service.CaptionService
}

func NewCaptionHandler(service service.CaptionService) *CaptionHandler {
	return &CaptionHandler{s: service}
}

func (h *CaptionHandler) GenerateCaption(c *fiber.Ctx) error {
	var cr transfer.CaptionRequest
	err := c.BodyParser(&cr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	caption, err := h.s.Generate(c.Context(), &cr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"caption": caption,
	})
}
