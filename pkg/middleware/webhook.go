package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebhookAuth gates webhook routes with the shared token configured on the
// chat platform, accepted either as a "token" query parameter or an
// X-Access-Token header. Payload signature verification is delegated to the
// platform; an empty configured token disables the check.
func WebhookAuth(token string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Next()
		}

		provided := c.Query("token")
		if provided == "" {
			provided = c.Get("X-Access-Token")
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			logger.Warn("Webhook request with invalid token",
				zap.String("ip", c.IP()),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid webhook token",
			})
		}

		return c.Next()
	}
}
