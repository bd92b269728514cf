package admin

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireAdminKey gates admin routes on the X-Admin-Key header matching
// ADMIN_KEY. An unset key hard-fails rather than accidentally opening up.
func RequireAdminKey() fiber.Handler {
	key := strings.TrimSpace(os.Getenv("ADMIN_KEY"))
	if key == "" {
		return func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusInternalServerError, "ADMIN_KEY not set")
		}
	}

	return func(c *fiber.Ctx) error {
		got := strings.TrimSpace(c.Get("X-Admin-Key"))
		if got == "" || got != key {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid admin key")
		}
		return c.Next()
	}
}
