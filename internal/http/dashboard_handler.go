package http

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"trafficlens/internal/dashboard"
	"trafficlens/internal/daterange"
	"trafficlens/internal/pkg/async"
	"trafficlens/internal/searchconsole"
	"trafficlens/internal/sessions"
	"trafficlens/internal/snapshots"
)

// DashboardAction serves the combined dashboard view-model. The traffic and
// search-performance sources are independent and fetched concurrently;
// aggregation only starts once both completed.
func (h *Handler) DashboardAction(c *fiber.Ctx) error {
	window := daterange.Parse(c.Query("from"), c.Query("to"))

	tasks := []async.Task{
		{
			Name: "traffic",
			Execute: func() (interface{}, error) {
				return snapshots.LatestTraffic(h.DB)
			},
		},
		{
			Name: "searchConsole",
			Execute: func() (interface{}, error) {
				return snapshots.LatestSearchConsole(h.DB)
			},
		},
	}

	pool := async.NewPool(2)
	results := pool.Execute(c.UserContext(), tasks)

	for name, result := range results {
		if result.Err != nil {
			return h.dataSourceError(c, fmt.Errorf("error fetching %s: %w", name, result.Err))
		}
	}
	if len(results) < len(tasks) {
		// Context cancelled before both sources completed.
		return errorResponse(c, fiber.StatusRequestTimeout, "request cancelled")
	}

	rows := results["traffic"].Data.([]sessions.RawRow)
	searchData := results["searchConsole"].Data.(*searchconsole.Data)

	collection := sessions.Normalize(rows)
	report, err := dashboard.Aggregate(collection, searchData, window, h.Config.BrandKeywords)
	if err != nil {
		return h.dataSourceError(c, err)
	}

	return successResponse(c, report)
}

func (h *Handler) dataSourceError(c *fiber.Ctx, err error) error {
	h.Logger.Error("Failed to build dashboard data", slog.Any("error", err))

	if errors.Is(err, snapshots.ErrNoSnapshot) {
		return errorResponse(c, fiber.StatusNotFound, err.Error())
	}
	if errors.Is(err, searchconsole.ErrMissingData) || errors.Is(err, dashboard.ErrMissingTrafficData) {
		return errorResponse(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	return errorResponse(c, fiber.StatusInternalServerError, "failed to build dashboard data")
}
