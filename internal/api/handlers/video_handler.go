package handlers

import (
	"github.com/crosscast/crosscast-api/internal/service"
	"github.com/gofiber/fiber/v2"
)

type VideoHandler struct {
	s service.VideoService
}

func NewVideoHandler(service service.VideoService) *VideoHandler {
	return &VideoHandler{s: service}
}

func (h *VideoHandler) GetVideoInfo(c *fiber.Ctx) error {
	videoURL := c.Query("url")
	if videoURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "url query parameter is required",
		})
	}

	video, err := h.s.GetVideoInfo(c.Context(), videoURL)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(video)
}

func (h *VideoHandler) SearchVideos(c *fiber.Ctx) error {
	query := c.Query("q")
	maxResults := c.QueryInt("max_results", 10)

	videos, err := h.s.Search(c.Context(), query, int64(maxResults))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(videos)
}
