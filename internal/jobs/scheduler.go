// Package jobs runs the background maintenance jobs.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"trafficlens/internal/config"
	"trafficlens/internal/database"
)

// Scheduler is responsible for running background jobs
type Scheduler struct {
	dbManager *database.DBManager
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       *config.Config
	isRunning bool

	// Mutex to prevent concurrent job executions
	processingMutex sync.Mutex
	isProcessing    bool

	cleanupJob *CleanupJob

	cleanupTicker *time.Ticker
}

// NewScheduler creates the job scheduler.
func NewScheduler(dbManager *database.DBManager, logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := config.GetConfig()

	return &Scheduler{
		dbManager:  dbManager,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		cfg:        cfg,
		cleanupJob: NewCleanupJob(dbManager, logger, cfg),
	}
}

// executeJobSafely runs a job only if no other job is currently executing
func (s *Scheduler) executeJobSafely(jobName string, jobFunc func() error) {
	s.processingMutex.Lock()
	if s.isProcessing {
		s.logger.Debug("Skipping job execution - previous job still running", slog.String("job", jobName))
		s.processingMutex.Unlock()
		return
	}
	s.isProcessing = true
	s.processingMutex.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Panic recovered in background job",
				slog.String("job", jobName),
				slog.Any("panic", r))
		}

		s.processingMutex.Lock()
		s.isProcessing = false
		s.processingMutex.Unlock()
	}()

	if err := jobFunc(); err != nil {
		s.logger.Error("Error executing job", slog.String("job", jobName), slog.Any("error", err))
	}
}

// Start begins all background jobs
func (s *Scheduler) Start() error {
	if s.isRunning {
		s.logger.Info("Background jobs already running.")
		return nil
	}

	s.logger.Info("Starting background jobs...")
	s.isRunning = true

	interval := time.Duration(s.cfg.JobIntervalSeconds) * time.Second
	s.cleanupTicker = time.NewTicker(interval)
	s.logger.Info("Starting retention cleanup job", slog.Duration("interval", interval))

	go func() {
		for {
			select {
			case <-s.cleanupTicker.C:
				s.executeJobSafely("cleanup", s.cleanupJob.Run)
			case <-s.ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop halts all background jobs.
func (s *Scheduler) Stop() {
	if !s.isRunning {
		return
	}
	s.logger.Info("Stopping background jobs...")
	if s.cleanupTicker != nil {
		s.cleanupTicker.Stop()
	}
	s.cancel()
	s.isRunning = false
}
