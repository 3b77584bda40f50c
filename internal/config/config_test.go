// Package config_test contains tests for the config package
package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trafficlens/internal/config"
)

func freshConfig(t *testing.T) *config.Config {
	t.Helper()
	config.Reset()
	t.Cleanup(config.Reset)
	return config.GetConfig()
}

func TestDefaults(t *testing.T) {
	t.Setenv("TRAFFICLENS_ENV", "test")
	cfg := freshConfig(t)

	assert.Equal(t, "trafficlens", cfg.AppName)
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, 3600, cfg.JobIntervalSeconds)
	assert.Equal(t, 90, cfg.SnapshotRetentionDays)
	assert.Equal(t, 30, cfg.AgentHitsRetentionDays)
	assert.Equal(t, []string{"globalvets", "global vets", "vet"}, cfg.BrandKeywords)
}

func TestEnvironmentHelpers(t *testing.T) {
	t.Setenv("TRAFFICLENS_ENV", "test")
	cfg := freshConfig(t)

	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestBrandKeywordsOverride(t *testing.T) {
	t.Setenv("TRAFFICLENS_ENV", "test")
	t.Setenv("TRAFFICLENS_BRAND_KEYWORDS", "acme, acme corp ,,")
	cfg := freshConfig(t)

	assert.Equal(t, []string{"acme", "acme corp"}, cfg.BrandKeywords)
}

func TestConnectionPoolDefaultsPerEnvironment(t *testing.T) {
	t.Setenv("TRAFFICLENS_ENV", "test")
	cfg := freshConfig(t)
	assert.Equal(t, 1, cfg.GetMaxOpenConns(), "tests run on a single connection")
	assert.Equal(t, 1, cfg.GetMaxIdleConns())

	t.Setenv("TRAFFICLENS_ENV", "development")
	config.Reset()
	cfg = config.GetConfig()
	assert.Equal(t, 10, cfg.GetMaxOpenConns())
	assert.Equal(t, 5, cfg.GetMaxIdleConns())
}

func TestExplicitPoolSizesWin(t *testing.T) {
	t.Setenv("TRAFFICLENS_ENV", "test")
	t.Setenv("TRAFFICLENS_DB_MAX_OPEN_CONNS", "7")
	cfg := freshConfig(t)
	assert.Equal(t, 7, cfg.GetMaxOpenConns())
}

func TestDatabasePathDerivedFromEnvironment(t *testing.T) {
	t.Setenv("TRAFFICLENS_ENV", "test")
	cfg := freshConfig(t)
	assert.Equal(t, "storage/trafficlens-test.db", cfg.GetDatabasePath())
}
