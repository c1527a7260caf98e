package handlers

import (
	"io"
	"log/slog"

	"github.com/crosscast/crosscast-api/internal/service"
	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	s service.UploadService
}

func NewUploadHandler(service service.UploadService) *UploadHandler {
	return &UploadHandler{s: service}
}

func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	userID := GetUserID(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No image file provided",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read image file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read image file",
		})
	}

	upload, err := h.s.UploadImage(c.Context(), userID, data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(upload)
}
