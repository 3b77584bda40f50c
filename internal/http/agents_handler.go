package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"trafficlens/internal/agents"
)

// AgentsRecentAction serves the most recent detected AI agent visits plus
// per-category hit counts over the retention window.
func (h *Handler) AgentsRecentAction(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	hits, err := agents.RecentHits(h.DB, limit)
	if err != nil {
		h.Logger.Error("Failed to load agent hits", slog.Any("error", err))
		return errorResponse(c, fiber.StatusInternalServerError, "failed to load agent hits")
	}

	since := time.Now().UTC().AddDate(0, 0, -h.Config.AgentHitsRetentionDays)
	counts, err := agents.HitCountsByCategory(h.DB, since)
	if err != nil {
		h.Logger.Error("Failed to aggregate agent hits", slog.Any("error", err))
		return errorResponse(c, fiber.StatusInternalServerError, "failed to aggregate agent hits")
	}

	return successResponse(c, fiber.Map{
		"hits":             hits,
		"countsByCategory": counts,
	})
}
