package agents

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// AgentHit records one request made by a detected AI agent.
type AgentHit struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	Agent      string    `gorm:"index;not null"`
	Category   string    `gorm:"index;not null"`
	Path       string    `gorm:"not null"`
	UserAgent  string    `gorm:"type:text"`
	Country    string    `gorm:"index"`
	OccurredAt time.Time `gorm:"index;type:datetime;not null"`
	CreatedAt  time.Time
}

// RecordHit persists one detected agent visit.
func RecordHit(db *gorm.DB, hit *AgentHit) error {
	if hit.OccurredAt.IsZero() {
		hit.OccurredAt = time.Now().UTC()
	}
	if err := db.Create(hit).Error; err != nil {
		return fmt.Errorf("record agent hit: %w", err)
	}
	return nil
}

// RecentHits returns the most recent agent visits, newest first.
func RecentHits(db *gorm.DB, limit int) ([]AgentHit, error) {
	if limit <= 0 {
		limit = 50
	}
	var hits []AgentHit
	err := db.Order("occurred_at DESC, id DESC").Limit(limit).Find(&hits).Error
	if err != nil {
		return nil, fmt.Errorf("load recent agent hits: %w", err)
	}
	return hits, nil
}

// HitCountsByCategory aggregates hit counts per taxonomy category since the
// given time.
func HitCountsByCategory(db *gorm.DB, since time.Time) (map[string]int64, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	err := db.Model(&AgentHit{}).
		Select("category, COUNT(*) as count").
		Where("occurred_at >= ?", since.UTC()).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate agent hits: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

// DeleteOlderThan removes hits recorded before the cutoff.
func DeleteOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("occurred_at < ?", cutoff.UTC()).Delete(&AgentHit{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete old agent hits: %w", result.Error)
	}
	return result.RowsAffected, nil
}
