package aisources

import (
	"trafficlens/internal/sessions"
)

// CategoryMetrics aggregates the sessions folded into one taxonomy label.
// Rates and durations are running means over the folded sessions.
type CategoryMetrics struct {
	Sessions           int     `json:"sessions"`
	Users              int     `json:"users"`
	NewUsers           int     `json:"newUsers"`
	BounceRate         float64 `json:"bounceRate"`
	EngagementRate     float64 `json:"engagementRate"`
	AvgSessionDuration float64 `json:"avgSessionDuration"`
}

// ConversionMetrics aggregates conversion counts. Checkouts are the sole
// conversion proxy metric.
type ConversionMetrics struct {
	TotalConversions       int                    `json:"totalConversions"`
	AIConversions          int                    `json:"aiConversions"`
	NonAIConversions       int                    `json:"nonAiConversions"`
	ConversionRateBySource map[SourceType]float64 `json:"conversionRateBySource"`
}

// AIAnalytics is the global AI-traffic aggregate over a session collection.
// AISessions + NonAISessions always equals TotalSessions, and the breakdown
// contains every taxonomy label even when zero sessions mapped to it.
type AIAnalytics struct {
	TotalSessions     int                             `json:"totalSessions"`
	AISessions        int                             `json:"aiSessions"`
	NonAISessions     int                             `json:"nonAiSessions"`
	SourceBreakdown   map[SourceType]*CategoryMetrics `json:"sourceBreakdown"`
	ConversionMetrics ConversionMetrics               `json:"conversionMetrics"`
}

// runningMean accumulates a simple incremental mean:
// mean_n = (mean_(n-1)*(n-1) + value_n) / n. The final value equals the
// plain average of all folded values regardless of fold order.
type runningMean struct {
	mean  float64
	count int
}

func (m *runningMean) add(value float64) {
	m.count++
	m.mean = (m.mean*float64(m.count-1) + value) / float64(m.count)
}

// categoryAccumulator carries the per-category fold state.
type categoryAccumulator struct {
	sessions           int
	users              int
	newUsers           int
	bounceRate         runningMean
	engagementRate     runningMean
	avgSessionDuration runningMean
}

func (a *categoryAccumulator) fold(s *sessions.Session) {
	a.sessions++
	a.users += s.Metrics.TotalUsers
	a.newUsers += s.Metrics.NewUsers
	a.bounceRate.add(s.Metrics.BounceRate)
	a.engagementRate.add(s.Metrics.EngagementRate)
	a.avgSessionDuration.add(s.Metrics.AvgSessionDuration)
}

func (a *categoryAccumulator) metrics() *CategoryMetrics {
	return &CategoryMetrics{
		Sessions:           a.sessions,
		Users:              a.users,
		NewUsers:           a.newUsers,
		BounceRate:         a.bounceRate.mean,
		EngagementRate:     a.engagementRate.mean,
		AvgSessionDuration: a.avgSessionDuration.mean,
	}
}

// ProcessTraffic folds a normalized session collection into the global
// AI-traffic analytics. It is a total function: given well-formed sessions
// it never fails.
func ProcessTraffic(collection map[string]*sessions.Session) *AIAnalytics {
	accumulators := make(map[SourceType]*categoryAccumulator, len(taxonomy))
	for _, sourceType := range AllSourceTypes() {
		accumulators[sourceType] = &categoryAccumulator{}
	}

	analytics := &AIAnalytics{
		SourceBreakdown: make(map[SourceType]*CategoryMetrics, len(taxonomy)),
		ConversionMetrics: ConversionMetrics{
			ConversionRateBySource: make(map[SourceType]float64, len(taxonomy)),
		},
	}

	for _, session := range sessions.Ordered(collection) {
		sourceType := Classify(session.Source)

		analytics.TotalSessions++
		if sourceType.IsAI() {
			analytics.AISessions++
		} else {
			analytics.NonAISessions++
		}

		accumulators[sourceType].fold(session)

		conversions := session.Metrics.Checkouts
		analytics.ConversionMetrics.TotalConversions += conversions
		if sourceType.IsAI() {
			analytics.ConversionMetrics.AIConversions += conversions
		} else {
			analytics.ConversionMetrics.NonAIConversions += conversions
		}
	}

	for _, sourceType := range AllSourceTypes() {
		accumulator := accumulators[sourceType]
		analytics.SourceBreakdown[sourceType] = accumulator.metrics()

		// The numerator is deliberately the global conversion total, not
		// the per-category one. See DESIGN.md before changing this.
		rate := 0.0
		if accumulator.sessions > 0 {
			rate = float64(analytics.ConversionMetrics.TotalConversions) / float64(accumulator.sessions)
		}
		analytics.ConversionMetrics.ConversionRateBySource[sourceType] = rate
	}

	return analytics
}
