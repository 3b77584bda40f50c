package jobs

import (
	"log/slog"
	"time"

	"trafficlens/internal/agents"
	"trafficlens/internal/config"
	"trafficlens/internal/database"
	"trafficlens/internal/snapshots"
)

// CleanupJob enforces the data retention windows for stored snapshots and
// recorded agent hits.
type CleanupJob struct {
	dbManager *database.DBManager
	logger    *slog.Logger
	cfg       *config.Config
}

// NewCleanupJob creates the retention cleanup job.
func NewCleanupJob(dbManager *database.DBManager, logger *slog.Logger, cfg *config.Config) *CleanupJob {
	return &CleanupJob{
		dbManager: dbManager,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run deletes expired snapshots and agent hits.
func (j *CleanupJob) Run() error {
	db := j.dbManager.GetConnection()
	now := time.Now().UTC()

	snapshotCutoff := now.AddDate(0, 0, -j.cfg.SnapshotRetentionDays)
	removedSnapshots, err := snapshots.DeleteOlderThan(db, snapshotCutoff)
	if err != nil {
		return err
	}

	hitsCutoff := now.AddDate(0, 0, -j.cfg.AgentHitsRetentionDays)
	removedHits, err := agents.DeleteOlderThan(db, hitsCutoff)
	if err != nil {
		return err
	}

	if removedSnapshots > 0 || removedHits > 0 {
		j.logger.Info("Retention cleanup completed",
			slog.Int64("snapshots_removed", removedSnapshots),
			slog.Int64("agent_hits_removed", removedHits))
	}
	return nil
}
