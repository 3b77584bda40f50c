package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"trafficlens/internal/agents"
	"trafficlens/internal/pkg/geoip"
)

// AgentDetection records requests made by known AI crawlers. Detection never
// blocks the request: a hit is persisted as a side effect and the chain
// continues either way.
func AgentDetection(db *gorm.DB, resolver *geoip.Resolver, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userAgent := c.Get("User-Agent")

		match, detected := agents.Detect(userAgent)
		if detected {
			hit := &agents.AgentHit{
				Agent:      match.Name,
				Category:   match.Category,
				Path:       c.Path(),
				UserAgent:  userAgent,
				Country:    resolver.CountryCode(c.IP()),
				OccurredAt: time.Now().UTC(),
			}
			if err := agents.RecordHit(db, hit); err != nil {
				logger.Warn("Failed to record agent hit",
					slog.String("agent", match.Name),
					slog.Any("error", err))
			}
		}

		return c.Next()
	}
}
