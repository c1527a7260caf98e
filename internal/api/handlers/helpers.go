package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GetUserID reads the user id the auth middleware stored on the request.
// The middleware guarantees the local is set on every /api route.
func GetUserID(c *fiber.Ctx) int64 {
	raw, _ := c.Locals("user_id").(string)
	userID, _ := strconv.ParseInt(raw, 10, 64)
	return userID
}
