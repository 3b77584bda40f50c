// Package geoip resolves client IP addresses to countries using a local
// GeoLite2 database. GeoIP is optional: a missing database disables
// resolution without failing the application.
package geoip

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/oschwald/geoip2-golang"
)

// Resolver wraps an optional GeoLite2 reader.
type Resolver struct {
	reader *geoip2.Reader
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewResolver opens the GeoLite2 database at the given path. A blank path
// or a missing file yields a resolver that always returns the unknown
// country.
func NewResolver(path string, logger *slog.Logger) *Resolver {
	r := &Resolver{logger: logger}

	if path == "" {
		logger.Debug("GeoIP database path not configured - country resolution disabled")
		return r
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("GeoLite2 database not found - country resolution disabled",
			slog.String("path", path),
			slog.String("hint", "Download from https://www.maxmind.com/en/geolite2/signup"))
		return r
	}

	reader, err := geoip2.Open(path)
	if err != nil {
		logger.Warn("Failed to open GeoLite2 database",
			slog.String("path", path),
			slog.Any("error", err))
		return r
	}

	logger.Info("GeoLite2 database loaded", slog.String("path", path))
	r.reader = reader
	return r
}

// CountryCode returns the ISO country code for an IP address, or "" when
// resolution is unavailable or the address is unknown.
func (r *Resolver) CountryCode(ip string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.reader == nil {
		return ""
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}

	record, err := r.reader.Country(parsed)
	if err != nil {
		r.logger.Debug("GeoIP lookup failed", slog.String("ip", ip), slog.Any("error", err))
		return ""
	}
	return record.Country.IsoCode
}

// Close releases the underlying reader.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.reader == nil {
		return nil
	}
	err := r.reader.Close()
	r.reader = nil
	return err
}
