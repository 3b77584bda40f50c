package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"trafficlens/internal/aisources"
	"trafficlens/internal/sessions"
	"trafficlens/internal/snapshots"
)

// AIAnalyticsAction serves the AI-traffic analytics computed from the
// latest traffic snapshot.
func (h *Handler) AIAnalyticsAction(c *fiber.Ctx) error {
	rows, err := snapshots.LatestTraffic(h.DB)
	if err != nil {
		return h.dataSourceError(c, err)
	}

	collection := sessions.Normalize(rows)
	analytics := aisources.ProcessTraffic(collection)

	h.Logger.Info("AI analytics processed",
		slog.Int("total_sessions", analytics.TotalSessions),
		slog.Int("ai_sessions", analytics.AISessions),
		slog.Int("non_ai_sessions", analytics.NonAISessions))

	return successResponse(c, analytics)
}
