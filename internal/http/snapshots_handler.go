package http

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"trafficlens/internal/searchconsole"
	"trafficlens/internal/sessions"
	"trafficlens/internal/snapshots"
)

// IngestTrafficAction accepts a raw traffic payload from a reporting API
// export and stores it as the newest traffic snapshot. Rows are stored as
// received; malformed cells are tolerated at normalization time, not here.
func (h *Handler) IngestTrafficAction(c *fiber.Ctx) error {
	var rows []sessions.RawRow
	if err := c.BodyParser(&rows); err != nil {
		h.Logger.Warn("Invalid traffic payload", slog.Any("error", err))
		return errorResponse(c, fiber.StatusBadRequest, "invalid traffic payload")
	}

	if err := snapshots.SaveTraffic(h.DB, rows, time.Now().UTC()); err != nil {
		h.Logger.Error("Failed to save traffic snapshot", slog.Any("error", err))
		return errorResponse(c, fiber.StatusInternalServerError, "failed to save traffic snapshot")
	}

	h.Logger.Info("Traffic snapshot ingested", slog.Int("rows", len(rows)))
	return successResponse(c, fiber.Map{"rows": len(rows)})
}

// IngestSearchConsoleAction accepts a search-performance dataset and stores
// it as the newest search-console snapshot. Structurally incomplete payloads
// are rejected.
func (h *Handler) IngestSearchConsoleAction(c *fiber.Ctx) error {
	var data searchconsole.Data
	if err := c.BodyParser(&data); err != nil {
		h.Logger.Warn("Invalid search console payload", slog.Any("error", err))
		return errorResponse(c, fiber.StatusBadRequest, "invalid search console payload")
	}

	if err := snapshots.SaveSearchConsole(h.DB, &data, time.Now().UTC()); err != nil {
		if errors.Is(err, searchconsole.ErrMissingData) {
			return errorResponse(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		h.Logger.Error("Failed to save search console snapshot", slog.Any("error", err))
		return errorResponse(c, fiber.StatusInternalServerError, "failed to save search console snapshot")
	}

	h.Logger.Info("Search console snapshot ingested",
		slog.Int("queries", len(data.Performance.Queries)),
		slog.Int("dates", len(data.Performance.Dates)),
		slog.Int("countries", len(data.Performance.Countries)))
	return successResponse(c, fiber.Map{"queries": len(data.Performance.Queries)})
}
