// Package dashboard combines the normalized traffic collection and the
// search-performance dataset into the combined dashboard view-model.
package dashboard

import (
	"errors"
	"sort"

	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trafficlens/internal/daterange"
	"trafficlens/internal/searchconsole"
	"trafficlens/internal/sessions"
)

// ErrMissingTrafficData is returned when the traffic collection is
// structurally absent. The aggregator does not substitute defaults for a
// missing dataset.
var ErrMissingTrafficData = errors.New("traffic data missing")

// MetricWithTrend pairs an overview metric value with its period-over-period
// trend percentage.
type MetricWithTrend struct {
	Value float64 `json:"value"`
	Trend float64 `json:"trend"`
}

// OverviewMetrics are the headline dashboard figures.
type OverviewMetrics struct {
	TotalTraffic       MetricWithTrend `json:"totalTraffic"`
	ConversionRate     MetricWithTrend `json:"conversionRate"`
	EngagementRate     MetricWithTrend `json:"engagementRate"`
	AvgSessionDuration MetricWithTrend `json:"avgSessionDuration"`
}

// TrafficSource aggregates the sessions sharing one raw source label.
type TrafficSource struct {
	Source      string  `json:"source"`
	Sessions    int     `json:"sessions"`
	Conversions int     `json:"conversions"`
	Engagement  float64 `json:"engagement"`
}

// KeywordStat is one query row of the keyword breakdown.
type KeywordStat struct {
	Keyword     string  `json:"keyword"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// KeywordBreakdown partitions queries into branded and non-branded lists.
type KeywordBreakdown struct {
	Branded    []KeywordStat `json:"branded"`
	NonBranded []KeywordStat `json:"nonBranded"`
}

// PerformancePoint is one point of the search-performance time series.
type PerformancePoint struct {
	Date        string  `json:"date"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// GeoPoint is the search performance attributed to one country.
type GeoPoint struct {
	Country     string  `json:"country"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// AIPlatform is one row of the AI-platform panel.
type AIPlatform struct {
	Platform    string `json:"platform"`
	Traffic     int    `json:"traffic"`
	Engagement  int    `json:"engagement"`
	Conversions int    `json:"conversions"`
}

// Report is the combined dashboard view-model consumed by the presentation
// layer.
type Report struct {
	Overview          OverviewMetrics    `json:"overview"`
	TrafficSources    []TrafficSource    `json:"trafficSources"`
	Keywords          KeywordBreakdown   `json:"keywords"`
	SearchPerformance []PerformancePoint `json:"searchPerformance"`
	Geographic        []GeoPoint         `json:"geographicData"`
	AIPlatforms       []AIPlatform       `json:"aiPlatforms"`
}

// Aggregate merges the traffic collection with the search-performance
// dataset into the dashboard view-model, optionally restricted to the given
// date window. Both inputs are required: an absent dataset fails fast
// instead of producing a zero-filled dashboard.
func Aggregate(collection map[string]*sessions.Session, search *searchconsole.Data, window daterange.Range, brandKeywords []string) (*Report, error) {
	if collection == nil {
		return nil, ErrMissingTrafficData
	}
	if err := search.Validate(); err != nil {
		return nil, err
	}

	filtered := filterSessions(sessions.Ordered(collection), window)

	return &Report{
		Overview:          buildOverview(filtered),
		TrafficSources:    buildTrafficSources(filtered),
		Keywords:          buildKeywordBreakdown(search.Performance.Queries, brandKeywords),
		SearchPerformance: buildPerformanceSeries(search.Performance.Dates, window),
		Geographic:        buildGeographic(search.Performance.Countries),
		AIPlatforms:       staticAIPlatforms(),
	}, nil
}

func filterSessions(ordered []*sessions.Session, window daterange.Range) []*sessions.Session {
	if window.Unbounded() {
		return ordered
	}
	filtered := make([]*sessions.Session, 0, len(ordered))
	for _, session := range ordered {
		if window.Contains(session.Date) {
			filtered = append(filtered, session)
		}
	}
	return filtered
}

// aggregateFunc computes one overview figure over a session slice.
type aggregateFunc func([]*sessions.Session) float64

func buildOverview(filtered []*sessions.Session) OverviewMetrics {
	return OverviewMetrics{
		TotalTraffic:       metricWithTrend(filtered, totalTraffic),
		ConversionRate:     metricWithTrend(filtered, conversionRate),
		EngagementRate:     metricWithTrend(filtered, meanEngagementRate),
		AvgSessionDuration: metricWithTrend(filtered, meanSessionDuration),
	}
}

// metricWithTrend computes an aggregate plus its trend. The trend splits
// the time-ordered collection at the midpoint index into a previous and a
// current half and recomputes the same aggregate over each. This is a
// positional split, not a calendar-period comparison, and is kept that way
// deliberately.
func metricWithTrend(filtered []*sessions.Session, aggregate aggregateFunc) MetricWithTrend {
	mid := len(filtered) / 2
	previous := aggregate(filtered[:mid])
	current := aggregate(filtered[mid:])

	trend := 0.0
	if previous != 0 {
		trend = (current - previous) / previous * 100
	}

	return MetricWithTrend{
		Value: aggregate(filtered),
		Trend: trend,
	}
}

func totalTraffic(items []*sessions.Session) float64 {
	total := 0
	for _, s := range items {
		total += s.Metrics.TotalUsers
	}
	return float64(total)
}

func conversionRate(items []*sessions.Session) float64 {
	traffic := totalTraffic(items)
	if traffic == 0 {
		return 0
	}
	conversions := 0
	for _, s := range items {
		conversions += s.Metrics.Checkouts
	}
	return float64(conversions) / traffic * 100
}

// meanEngagementRate is a simple unweighted mean across sessions, not a
// session-count-weighted one.
func meanEngagementRate(items []*sessions.Session) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range items {
		sum += s.Metrics.EngagementRate
	}
	return sum / float64(len(items))
}

func meanSessionDuration(items []*sessions.Session) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range items {
		sum += s.Metrics.AvgSessionDuration
	}
	return sum / float64(len(items))
}

// buildTrafficSources groups sessions by their raw source label, not by AI
// category.
func buildTrafficSources(filtered []*sessions.Session) []TrafficSource {
	grouped := make(map[string]*TrafficSource)
	for _, session := range filtered {
		entry, ok := grouped[session.Source]
		if !ok {
			entry = &TrafficSource{Source: session.Source}
			grouped[session.Source] = entry
		}
		entry.Sessions += session.Metrics.Sessions
		entry.Conversions += session.Metrics.Checkouts
		entry.Engagement += session.Metrics.EngagementRate
	}

	result := make([]TrafficSource, 0, len(grouped))
	for _, entry := range grouped {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Sessions != result[j].Sessions {
			return result[i].Sessions > result[j].Sessions
		}
		return result[i].Source < result[j].Source
	})
	return result
}

func buildPerformanceSeries(dates []searchconsole.DateStat, window daterange.Range) []PerformancePoint {
	series := make([]PerformancePoint, 0, len(dates))
	for _, point := range dates {
		if !window.Contains(point.Date) {
			continue
		}
		series = append(series, PerformancePoint{
			Date:        point.Date,
			Clicks:      point.Clicks,
			Impressions: point.Impressions,
			CTR:         point.CTR,
			Position:    point.Position,
		})
	}
	return series
}

func buildGeographic(countries []searchconsole.CountryStat) []GeoPoint {
	caser := cases.Title(language.AmericanEnglish)
	lookup := gountries.New()

	result := make([]GeoPoint, 0, len(countries))
	for _, stat := range countries {
		name := stat.Country
		if country, err := lookup.FindCountryByAlpha(name); err == nil {
			name = country.Name.Common
		} else {
			name = caser.String(name)
		}
		result = append(result, GeoPoint{
			Country:     name,
			Clicks:      stat.Clicks,
			Impressions: stat.Impressions,
			CTR:         stat.CTR,
			Position:    stat.Position,
		})
	}
	return result
}

// staticAIPlatforms returns the placeholder AI-platform panel. The panel is
// mock data until a real per-platform data source is wired in; it must not
// be mistaken for computed output.
func staticAIPlatforms() []AIPlatform {
	return []AIPlatform{
		{Platform: "ChatGPT", Traffic: 450, Engagement: 65, Conversions: 23},
		{Platform: "Google SGE", Traffic: 320, Engagement: 58, Conversions: 18},
		{Platform: "Perplexity", Traffic: 180, Engagement: 72, Conversions: 12},
		{Platform: "Claude", Traffic: 150, Engagement: 68, Conversions: 8},
	}
}
