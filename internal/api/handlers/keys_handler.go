package handlers

import (
	"github.com/crosscast/crosscast-api/internal/service"
	"github.com/crosscast/crosscast-api/internal/transfer"
	"github.com/gofiber/fiber/v2"
)

type ApiKeyHandler struct {
	s service.ApiKeyService
}

func NewApiKeyHandler(service service.ApiKeyService) *ApiKeyHandler {
	return &ApiKeyHandler{s: service}
}

func (h *ApiKeyHandler) CreateApiKey(c *fiber.Ctx) error {
	userId := GetUserID(c)

	err := h.s.Create(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to crete API Key",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ApiKeyHandler) ListKeys(c *fiber.Ctx) error {
	userId := GetUserID(c)

	keys, err := h.s.List(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list api keys",
		})
	}

	return c.Status(fiber.StatusOK).JSON(keys)
}

func (h *ApiKeyHandler) RemoveAPIKey(c *fiber.Ctx) error {
	userId := GetUserID(c)
	keyId := c.QueryInt("id", 0)

	err := h.s.RemoveAPIKey(c.Context(), userId, int64(keyId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to delete API Key",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

type ServiceKeyHandler struct {
	s service.ServiceKeyService
}

func NewServiceKeyHandler(service service.ServiceKeyService) *ServiceKeyHandler {
	return &ServiceKeyHandler{s: service}
}

func (h *ServiceKeyHandler) SaveServiceKey(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var sk transfer.ServiceKeyRequest
	err := c.BodyParser(&sk)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	err = h.s.Save(c.Context(), userId, &sk)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ServiceKeyHandler) ListServiceKeys(c *fiber.Ctx) error {
	userId := GetUserID(c)

	keys, err := h.s.List(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list service keys",
		})
	}

	return c.Status(fiber.StatusOK).JSON(keys)
}

func (h *ServiceKeyHandler) RemoveServiceKey(c *fiber.Ctx) error {
	userId := GetUserID(c)
	serviceName := c.Query("service")

	err := h.s.Remove(c.Context(), userId, serviceName)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to delete service key",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
