// Package middleware contains the fiber middleware used by the API routes.
package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trafficlens/internal/users"
)

// APIKeyAuth guards the ingestion endpoints with a Bearer API key checked
// against the stored keys.
func APIKeyAuth(db *gorm.DB, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return unauthorized(c, "missing Authorization header")
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return unauthorized(c, "invalid Authorization header format")
		}

		valid, err := users.ValidateAPIKey(db, strings.TrimSpace(token))
		if err != nil {
			logger.Error("API key validation failed", slog.Any("error", err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "authorization check failed",
			})
		}
		if !valid {
			logger.Warn("Rejected request with invalid API key", slog.String("path", c.Path()))
			return unauthorized(c, "invalid API key")
		}

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
