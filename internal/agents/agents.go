// Package agents detects AI crawlers and assistant user-agents hitting the
// tracked site and records their visits as an input signal for the AI
// traffic dashboard.
package agents

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"go.elara.ws/pcre"
	"gopkg.in/yaml.v3"
)

//go:embed database/agents.yml
var databaseFiles embed.FS

// AgentEntry is one known AI crawler pattern.
type AgentEntry struct {
	Regex    string `yaml:"regex"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	URL      string `yaml:"url"`
}

// Match is the detection result for a user-agent string.
type Match struct {
	Name     string
	Category string
}

// regexCache compiles patterns lazily and caches them.
type regexCache struct {
	compiled map[string]*pcre.Regexp
	mutex    sync.RWMutex
}

func newRegexCache() *regexCache {
	return &regexCache{
		compiled: make(map[string]*pcre.Regexp),
	}
}

func (rc *regexCache) get(pattern string) (*pcre.Regexp, error) {
	rc.mutex.RLock()
	if regex, exists := rc.compiled[pattern]; exists {
		rc.mutex.RUnlock()
		return regex, nil
	}
	rc.mutex.RUnlock()

	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	// Double-check pattern
	if regex, exists := rc.compiled[pattern]; exists {
		return regex, nil
	}

	regex, err := pcre.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	rc.compiled[pattern] = regex
	return regex, nil
}

type detector struct {
	entries []AgentEntry
	cache   *regexCache
}

var (
	instance *detector
	once     sync.Once
	initErr  error
)

func getDetector() (*detector, error) {
	once.Do(func() {
		raw, err := databaseFiles.ReadFile("database/agents.yml")
		if err != nil {
			initErr = fmt.Errorf("read agents database: %w", err)
			return
		}
		var entries []AgentEntry
		if err := yaml.Unmarshal(raw, &entries); err != nil {
			initErr = fmt.Errorf("parse agents database: %w", err)
			return
		}
		instance = &detector{
			entries: entries,
			cache:   newRegexCache(),
		}
	})
	return instance, initErr
}

// Detect matches a raw User-Agent header against the known AI crawler
// patterns. The second return value reports whether a match was found.
func Detect(userAgent string) (Match, bool) {
	if strings.TrimSpace(userAgent) == "" {
		return Match{}, false
	}

	d, err := getDetector()
	if err != nil {
		return Match{}, false
	}

	for _, entry := range d.entries {
		regex, err := d.cache.get(entry.Regex)
		if err != nil {
			continue
		}
		if regex.MatchString(userAgent) {
			return Match{Name: entry.Name, Category: entry.Category}, true
		}
	}
	return Match{}, false
}

// KnownAgents returns the configured pattern entries.
func KnownAgents() ([]AgentEntry, error) {
	d, err := getDetector()
	if err != nil {
		return nil, err
	}
	return d.entries, nil
}
