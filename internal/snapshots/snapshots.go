// Package snapshots persists raw provider payloads so the dashboard can be
// recomputed without refetching from the reporting APIs.
package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"trafficlens/internal/searchconsole"
	"trafficlens/internal/sessions"
)

// Snapshot kinds.
const (
	KindTraffic       = "traffic"
	KindSearchConsole = "search_console"
)

// ErrNoSnapshot is returned when no snapshot of the requested kind exists.
var ErrNoSnapshot = errors.New("no snapshot available")

// Snapshot is one captured provider payload.
type Snapshot struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	Kind       string    `gorm:"index:idx_kind_captured;not null"`
	Payload    string    `gorm:"type:text;not null"`
	RowCount   int       `gorm:"not null;default:0"`
	CapturedAt time.Time `gorm:"index:idx_kind_captured;type:datetime;not null"`
	CreatedAt  time.Time
}

// SaveTraffic stores a raw traffic row payload.
func SaveTraffic(db *gorm.DB, rows []sessions.RawRow, capturedAt time.Time) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode traffic snapshot: %w", err)
	}
	snapshot := Snapshot{
		Kind:       KindTraffic,
		Payload:    string(payload),
		RowCount:   len(rows),
		CapturedAt: capturedAt.UTC(),
	}
	if err := db.Create(&snapshot).Error; err != nil {
		return fmt.Errorf("save traffic snapshot: %w", err)
	}
	return nil
}

// SaveSearchConsole stores a search-performance dataset after validating
// its structure.
func SaveSearchConsole(db *gorm.DB, data *searchconsole.Data, capturedAt time.Time) error {
	if err := data.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode search console snapshot: %w", err)
	}
	snapshot := Snapshot{
		Kind:       KindSearchConsole,
		Payload:    string(payload),
		RowCount:   len(data.Performance.Queries),
		CapturedAt: capturedAt.UTC(),
	}
	if err := db.Create(&snapshot).Error; err != nil {
		return fmt.Errorf("save search console snapshot: %w", err)
	}
	return nil
}

// LatestTraffic loads the most recent traffic snapshot and decodes its
// rows. Returns ErrNoSnapshot when nothing has been ingested yet.
func LatestTraffic(db *gorm.DB) ([]sessions.RawRow, error) {
	snapshot, err := latest(db, KindTraffic)
	if err != nil {
		return nil, err
	}
	var rows []sessions.RawRow
	if err := json.Unmarshal([]byte(snapshot.Payload), &rows); err != nil {
		return nil, fmt.Errorf("decode traffic snapshot %d: %w", snapshot.ID, err)
	}
	return rows, nil
}

// LatestSearchConsole loads the most recent search-performance snapshot.
func LatestSearchConsole(db *gorm.DB) (*searchconsole.Data, error) {
	snapshot, err := latest(db, KindSearchConsole)
	if err != nil {
		return nil, err
	}
	var data searchconsole.Data
	if err := json.Unmarshal([]byte(snapshot.Payload), &data); err != nil {
		return nil, fmt.Errorf("decode search console snapshot %d: %w", snapshot.ID, err)
	}
	return &data, nil
}

func latest(db *gorm.DB, kind string) (*Snapshot, error) {
	var snapshot Snapshot
	err := db.Where("kind = ?", kind).
		Order("captured_at DESC, id DESC").
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("load latest %s snapshot: %w", kind, err)
	}
	return &snapshot, nil
}

// DeleteOlderThan removes snapshots captured before the cutoff, keeping the
// most recent snapshot of each kind regardless of age.
func DeleteOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Exec(`
        DELETE FROM snapshots
        WHERE captured_at < ?
        AND id NOT IN (
            SELECT MAX(id) FROM snapshots GROUP BY kind
        )
    `, cutoff.UTC())
	if result.Error != nil {
		return 0, fmt.Errorf("delete old snapshots: %w", result.Error)
	}
	return result.RowsAffected, nil
}
