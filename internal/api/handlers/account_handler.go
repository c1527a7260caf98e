package handlers

import (
	"fmt"

	config "github.com/crosscast/crosscast-api/configs"
	"github.com/crosscast/crosscast-api/internal/service"
	"github.com/gofiber/fiber/v2"
)

type AccountHandler struct {
	s   service.AccountService
	cfg config.Config
}

func NewAccountHandler(cfg config.Config, service service.AccountService) *AccountHandler {
	return &AccountHandler{s: service, cfg: cfg}
}

func (h *AccountHandler) ConnectAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	platform := c.Params("platform")

	authURL, err := h.s.GetAuthURL(c.Context(), userID, platform)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Redirect(authURL)
}

func (h *AccountHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	platform := c.Params("platform")

	_, err := h.s.HandleCallback(c.Context(), platform, code, state)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	redirectURL := fmt.Sprintf("%s/dashboard/accounts", h.cfg.FrontendURL)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountList, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch connected accounts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(accountList)
}

func (h *AccountHandler) DisconnectAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)
	accountId := c.QueryInt("id", 0)

	err := h.s.Disconnect(c.Context(), userID, int64(accountId))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to disconnect account",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
