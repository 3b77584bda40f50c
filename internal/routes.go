package internal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"trafficlens/internal/http"
	"trafficlens/internal/http/middleware"
)

// MountRoutes mounts all API routes on the fiber app.
func MountRoutes(app *fiber.App, handler *http.Handler) {
	cfg := handler.Config

	// Rate limiting only applies in production: in development and test it
	// would interfere with local iteration and the test suite.
	conditionalRateLimiter := func(rl fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if cfg.IsProduction() {
				return rl(c)
			}
			return c.Next()
		}
	}

	// Ingestion is called by export scripts on a schedule, not by browsers,
	// so a modest per-minute budget is plenty.
	ingestRateLimiter := conditionalRateLimiter(limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
	}))

	publicCORS := cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST,GET,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, User-Agent",
	})

	agentDetection := middleware.AgentDetection(handler.DB, handler.Resolver, handler.Logger)
	apiKeyAuth := middleware.APIKeyAuth(handler.DB, handler.Logger)

	// Agent detection runs globally so crawler visits are captured on every
	// path, including 404s.
	app.Use(agentDetection)

	// Health check endpoint
	app.Get("/_health", handler.HealthAction)
	app.Head("/_health", handler.HealthAction)

	// Public ingestion API
	ingest := app.Group("/x/api/v1/snapshots", publicCORS, ingestRateLimiter, apiKeyAuth)
	ingest.Post("/traffic", handler.IngestTrafficAction)
	ingest.Post("/search-console", handler.IngestSearchConsoleAction)

	// Admin read API
	admin := app.Group("/admin/api")
	admin.Get("/dashboard", handler.DashboardAction)
	admin.Get("/ai-analytics", handler.AIAnalyticsAction)
	admin.Get("/agents/recent", handler.AgentsRecentAction)
}
