package http

import "github.com/gofiber/fiber/v2"

// HealthAction reports service liveness.
func (h *Handler) HealthAction(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
