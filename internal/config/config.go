// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`
	AdminEmail  string   `mapstructure:"adminemail"`

	// File paths
	StoragePath  string `mapstructure:"storagepath"`
	DatabaseName string `mapstructure:"-"` // Derived from other settings
	GeoDBPath    string `mapstructure:"geodbpath"`

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Database settings
	DatabaseMaxOpenConns int `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int `mapstructure:"dbmaxidleconns"`

	// Job scheduling settings
	JobIntervalSeconds int `mapstructure:"jobintervalseconds"`

	// Data retention settings
	SnapshotRetentionDays  int `mapstructure:"snapshotretentiondays"`
	AgentHitsRetentionDays int `mapstructure:"agenthitsretentiondays"`

	// Dashboard settings
	RawBrandKeywords string   `mapstructure:"brandkeywords"`
	BrandKeywords    []string `mapstructure:"-"` // Derived from brandkeywords
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		// Set defaults
		v.SetDefault("appname", "trafficlens")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("storagepath", "storage")
		v.SetDefault("geodbpath", "storage/GeoLite2-City.mmdb")
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)
		v.SetDefault("jobintervalseconds", 3600)
		v.SetDefault("snapshotretentiondays", 90)
		v.SetDefault("agenthitsretentiondays", 30)
		v.SetDefault("brandkeywords", "globalvets,global vets,vet")

		// Bind environment variables
		v.BindEnv("appname", "TRAFFICLENS_APP_NAME")
		v.BindEnv("appport", "TRAFFICLENS_APP_PORT")
		v.BindEnv("environment", "TRAFFICLENS_ENV")
		v.BindEnv("loglevel", "TRAFFICLENS_LOG_LEVEL")
		v.BindEnv("adminemail", "TRAFFICLENS_ADMIN_EMAIL")
		v.BindEnv("storagepath", "TRAFFICLENS_STORAGE_PATH")
		v.BindEnv("geodbpath", "TRAFFICLENS_GEO_DB_PATH")
		v.BindEnv("logsdir", "TRAFFICLENS_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "TRAFFICLENS_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "TRAFFICLENS_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "TRAFFICLENS_LOGS_MAX_AGE_IN_DAYS")
		v.BindEnv("dbmaxopenconns", "TRAFFICLENS_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "TRAFFICLENS_DB_MAX_IDLE_CONNS")
		v.BindEnv("jobintervalseconds", "TRAFFICLENS_JOB_INTERVAL_SECONDS")
		v.BindEnv("snapshotretentiondays", "TRAFFICLENS_SNAPSHOT_RETENTION_DAYS")
		v.BindEnv("agenthitsretentiondays", "TRAFFICLENS_AGENT_HITS_RETENTION_DAYS")
		v.BindEnv("brandkeywords", "TRAFFICLENS_BRAND_KEYWORDS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		// Validate
		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		// Set derived values
		cfg.DatabaseName = cfg.GetDatabasePath()
		cfg.BrandKeywords = splitCommaList(cfg.RawBrandKeywords)
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validLevels := map[LogLevel]bool{
		LogLevelDebug: true,
		LogLevelInfo:  true,
		LogLevelWarn:  true,
		LogLevelError: true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}

// GetDatabasePath returns the appropriate database path based on environment
func (c *Config) GetDatabasePath() string {
	if c.DatabaseName == "" {
		c.DatabaseName = filepath.Join(c.StoragePath,
			fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
	}
	return c.DatabaseName
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetMaxOpenConns returns the appropriate MaxOpenConns value based on environment.
// If explicitly set via env var, uses that value. Otherwise:
// - Test: 1 (required for test stability)
// - Development/Production: 10 (allows concurrent reads for parallel dashboard queries)
func (c *Config) GetMaxOpenConns() int {
	if c.DatabaseMaxOpenConns > 0 {
		return c.DatabaseMaxOpenConns
	}

	if c.Environment == Test {
		return 1
	}

	return 10
}

// GetMaxIdleConns returns the appropriate MaxIdleConns value based on environment.
func (c *Config) GetMaxIdleConns() int {
	if c.DatabaseMaxIdleConns > 0 {
		return c.DatabaseMaxIdleConns
	}

	if c.Environment == Test {
		return 1
	}

	return 5
}

func splitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
