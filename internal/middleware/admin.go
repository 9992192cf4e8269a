package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/unlatch-ai/poke-daddy/internal/config"
	"github.com/unlatch-ai/poke-daddy/internal/dto"
)

// AdminGate protects the email-keyed admin surface. The surface is
// deliberately unauthenticated at the user level: it exists for one
// internal caller, the tool gateway. When ADMIN_TOKEN is configured the
// gateway must present it in X-Admin-Token; when it is empty the surface
// stays wire-open, matching the original deployment behind network-level
// restriction.
func AdminGate(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminToken == "" {
			return c.Next()
		}
		got := c.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(cfg.AdminToken)) == 1 {
			return c.Next()
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
}
