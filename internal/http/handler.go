// Package http contains the JSON API handlers.
package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trafficlens/internal/config"
	"trafficlens/internal/pkg/geoip"
)

// Handler bundles the dependencies shared by all API handlers.
type Handler struct {
	DB       *gorm.DB
	Logger   *slog.Logger
	Config   *config.Config
	Resolver *geoip.Resolver
}

// NewHandler creates the API handler set.
func NewHandler(db *gorm.DB, logger *slog.Logger, cfg *config.Config, resolver *geoip.Resolver) *Handler {
	return &Handler{
		DB:       db,
		Logger:   logger,
		Config:   cfg,
		Resolver: resolver,
	}
}

func successResponse(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
