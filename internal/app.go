// Package internal wires the application components together.
package internal

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"trafficlens/internal/config"
	"trafficlens/internal/database"
	"trafficlens/internal/http"
	"trafficlens/internal/jobs"
	"trafficlens/internal/logging"
	"trafficlens/internal/pkg/geoip"
)

// Application holds the long-lived components of the service.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	DBManager *database.DBManager
	Resolver  *geoip.Resolver
	Scheduler *jobs.Scheduler
	Fiber     *fiber.App
}

// NewApp builds the application from the environment configuration.
func NewApp() (*Application, error) {
	cfg := config.GetConfig()
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig builds the application with the provided config.
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	logger := logging.NewLogger(cfg)

	dbManager := database.NewDBManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	resolver := geoip.NewResolver(cfg.GeoDBPath, logger)
	scheduler := jobs.NewScheduler(dbManager, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: cfg.IsTest(),
	})

	handler := http.NewHandler(dbManager.GetConnection(), logger, cfg, resolver)
	MountRoutes(app, handler)

	return &Application{
		Config:    cfg,
		Logger:    logger,
		DBManager: dbManager,
		Resolver:  resolver,
		Scheduler: scheduler,
		Fiber:     app,
	}, nil
}

// Start runs the background jobs and blocks serving HTTP.
func (a *Application) Start() error {
	if err := a.Scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start background jobs: %w", err)
	}

	addr := ":" + a.Config.AppPort
	a.Logger.Info("Starting server", slog.String("addr", addr), slog.String("env", a.Config.Environment))
	return a.Fiber.Listen(addr)
}

// Shutdown stops the server and releases held resources.
func (a *Application) Shutdown() error {
	a.Logger.Info("Shutting down...")

	a.Scheduler.Stop()

	if err := a.Fiber.Shutdown(); err != nil {
		a.Logger.Error("Error shutting down server", slog.Any("error", err))
	}
	if err := a.Resolver.Close(); err != nil {
		a.Logger.Warn("Error closing GeoIP resolver", slog.Any("error", err))
	}
	return a.DBManager.Close()
}
