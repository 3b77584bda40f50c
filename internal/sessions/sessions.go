// Package sessions normalizes raw provider report rows into canonical
// Session records keyed by a dimension-derived identity.
//
// Providers deliver rows in a fixed positional layout (8 dimensions,
// 9 metrics). Rows sharing the same identity are merged into a single
// Session: count metrics are summed, rate metrics take the latest observed
// value, and event names accumulate as an insertion-ordered set.
package sessions

import (
	"sort"
	"strconv"
	"strings"
)

// MissingValue is the sentinel used for absent dimension values.
const MissingValue = "N/A"

// identityDelimiter joins the identity dimensions into the dedup key.
const identityDelimiter = "-"

// Dimension positions in a raw provider row.
const (
	DimDate = iota
	DimCity
	DimCountry
	DimBrowser
	DimEventName
	DimSearchTerm
	DimSource
	DimMedium
)

// Metric positions in a raw provider row.
const (
	MetTotalUsers = iota
	MetNewUsers
	MetSessions
	MetCheckouts
	MetBounceRate
	MetAddsToCart
	MetEngagementRate
	MetEngagedSessions
	MetAvgSessionDuration
)

// RawRow is one report row as delivered by a provider: positional dimension
// and metric values, all strings. Short or missing slices are tolerated.
type RawRow struct {
	Dimensions []string `json:"dimensions"`
	Metrics    []string `json:"metrics"`
}

// Metrics holds the numeric measurements of a Session.
type Metrics struct {
	TotalUsers         int     `json:"totalUsers"`
	NewUsers           int     `json:"newUsers"`
	Sessions           int     `json:"sessions"`
	Checkouts          int     `json:"checkouts"`
	BounceRate         float64 `json:"bounceRate"`
	AddsToCart         int     `json:"addsToCart"`
	EngagementRate     float64 `json:"engagementRate"`
	EngagedSessions    int     `json:"engagedSessions"`
	AvgSessionDuration float64 `json:"avgSessionDuration"`
}

// Session is one normalized unit of traffic activity.
type Session struct {
	Date       string   `json:"date"`
	City       string   `json:"city"`
	Country    string   `json:"country"`
	Browser    string   `json:"browser"`
	Events     []string `json:"events"`
	SearchTerm string   `json:"searchTerm"`
	Source     string   `json:"sessionSource"`
	Medium     string   `json:"sessionMedium"`
	Metrics    Metrics  `json:"metrics"`
}

// dimension returns the dimension at position i, or the missing-value
// sentinel when the row is too short or the value is blank.
func (r RawRow) dimension(i int) string {
	if i >= len(r.Dimensions) {
		return MissingValue
	}
	if v := strings.TrimSpace(r.Dimensions[i]); v != "" {
		return v
	}
	return MissingValue
}

// metric returns the raw metric string at position i, or "" when absent.
func (r RawRow) metric(i int) string {
	if i >= len(r.Metrics) {
		return ""
	}
	return r.Metrics[i]
}

// Identity derives the composite dedup key for a row.
func (r RawRow) Identity() string {
	return strings.Join([]string{
		r.dimension(DimDate),
		r.dimension(DimCity),
		r.dimension(DimCountry),
		r.dimension(DimBrowser),
		r.dimension(DimSource),
		r.dimension(DimMedium),
	}, identityDelimiter)
}

// Normalize folds an ordered sequence of raw rows into a mapping from
// identity key to Session. A nil or empty row slice yields an empty map,
// never an error: upstream providers legitimately return sparse data.
func Normalize(rows []RawRow) map[string]*Session {
	result := make(map[string]*Session, len(rows))

	for _, row := range rows {
		id := row.Identity()
		session, seen := result[id]
		if !seen {
			session = &Session{
				Date:       row.dimension(DimDate),
				City:       row.dimension(DimCity),
				Country:    row.dimension(DimCountry),
				Browser:    row.dimension(DimBrowser),
				Events:     []string{},
				SearchTerm: row.dimension(DimSearchTerm),
				Source:     row.dimension(DimSource),
				Medium:     row.dimension(DimMedium),
			}
			result[id] = session
		}

		// Count metrics sum across merged rows.
		session.Metrics.TotalUsers += parseIntOrZero(row.metric(MetTotalUsers))
		session.Metrics.NewUsers += parseIntOrZero(row.metric(MetNewUsers))
		session.Metrics.Sessions += parseIntOrZero(row.metric(MetSessions))
		session.Metrics.Checkouts += parseIntOrZero(row.metric(MetCheckouts))
		session.Metrics.AddsToCart += parseIntOrZero(row.metric(MetAddsToCart))
		session.Metrics.EngagedSessions += parseIntOrZero(row.metric(MetEngagedSessions))

		// Rate metrics are last-write-wins: the most recent row is the
		// source of truth, downstream aggregation re-averages separately.
		session.Metrics.BounceRate = parseFloatOrZero(row.metric(MetBounceRate))
		session.Metrics.EngagementRate = parseFloatOrZero(row.metric(MetEngagementRate))
		session.Metrics.AvgSessionDuration = parseFloatOrZero(row.metric(MetAvgSessionDuration))

		appendEvent(session, row)
	}

	return result
}

// appendEvent adds the row's event name to the session's event set,
// preserving first-seen order.
func appendEvent(session *Session, row RawRow) {
	name := row.dimension(DimEventName)
	if name == MissingValue {
		return
	}
	for _, existing := range session.Events {
		if existing == name {
			return
		}
	}
	session.Events = append(session.Events, name)
}

// Ordered returns the sessions of a normalized collection as a slice in
// stable time order: ascending by date, ties broken by identity key. The
// positional trend split downstream depends on this ordering being
// deterministic.
func Ordered(collection map[string]*Session) []*Session {
	keys := make([]string, 0, len(collection))
	for key := range collection {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := collection[keys[i]], collection[keys[j]]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return keys[i] < keys[j]
	})

	ordered := make([]*Session, len(keys))
	for i, key := range keys {
		ordered[i] = collection[key]
	}
	return ordered
}

// parseIntOrZero parses a base-10 integer metric, defaulting to 0 on
// malformed or missing input. The normalizer never fails on a bad value.
func parseIntOrZero(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}

// parseFloatOrZero parses a floating point metric, defaulting to 0.
func parseFloatOrZero(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}
