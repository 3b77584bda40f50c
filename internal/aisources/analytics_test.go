// Package aisources_test contains tests for the aisources package
package aisources_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficlens/internal/aisources"
	"trafficlens/internal/sessions"
)

func makeSession(date, source string, metrics sessions.Metrics) *sessions.Session {
	return &sessions.Session{
		Date:    date,
		City:    "Madrid",
		Country: "ES",
		Browser: "Chrome",
		Events:  []string{},
		Source:  source,
		Medium:  "referral",
		Metrics: metrics,
	}
}

func collectionOf(items ...*sessions.Session) map[string]*sessions.Session {
	collection := make(map[string]*sessions.Session, len(items))
	for i, s := range items {
		key := fmt.Sprintf("%s-%s-%d", s.Date, s.Source, i)
		collection[key] = s
	}
	return collection
}

func TestProcessTrafficEmptyCollection(t *testing.T) {
	analytics := aisources.ProcessTraffic(map[string]*sessions.Session{})

	assert.Zero(t, analytics.TotalSessions)
	assert.Zero(t, analytics.AISessions)
	assert.Zero(t, analytics.NonAISessions)
	assert.Zero(t, analytics.ConversionMetrics.TotalConversions)

	// Every taxonomy label is present even with no traffic.
	require.Len(t, analytics.SourceBreakdown, len(aisources.AllSourceTypes()))
	require.Len(t, analytics.ConversionMetrics.ConversionRateBySource, len(aisources.AllSourceTypes()))
	for _, sourceType := range aisources.AllSourceTypes() {
		metrics, ok := analytics.SourceBreakdown[sourceType]
		require.True(t, ok, "missing breakdown for %s", sourceType)
		assert.Zero(t, metrics.Sessions)
		assert.Zero(t, analytics.ConversionMetrics.ConversionRateBySource[sourceType])
	}
}

func TestProcessTrafficSessionConservation(t *testing.T) {
	collection := collectionOf(
		makeSession("2025-03-01", "chatgpt.com", sessions.Metrics{TotalUsers: 3}),
		makeSession("2025-03-01", "perplexity.ai", sessions.Metrics{TotalUsers: 2}),
		makeSession("2025-03-02", "facebook", sessions.Metrics{TotalUsers: 10}),
		makeSession("2025-03-02", "(direct)", sessions.Metrics{TotalUsers: 4}),
	)

	analytics := aisources.ProcessTraffic(collection)

	assert.Equal(t, 4, analytics.TotalSessions)
	assert.Equal(t, 2, analytics.AISessions)
	assert.Equal(t, 2, analytics.NonAISessions)
	assert.Equal(t, analytics.TotalSessions, analytics.AISessions+analytics.NonAISessions)

	breakdownTotal := 0
	for _, metrics := range analytics.SourceBreakdown {
		breakdownTotal += metrics.Sessions
	}
	assert.Equal(t, analytics.TotalSessions, breakdownTotal,
		"per-category session counts must sum to the total")
}

func TestProcessTrafficRunningMeansEqualPlainAverages(t *testing.T) {
	collection := collectionOf(
		makeSession("2025-03-01", "chatgpt.com", sessions.Metrics{BounceRate: 0.2, EngagementRate: 0.6, AvgSessionDuration: 100}),
		makeSession("2025-03-02", "chatgpt.com", sessions.Metrics{BounceRate: 0.4, EngagementRate: 0.8, AvgSessionDuration: 200}),
		makeSession("2025-03-03", "ChatGPT-User", sessions.Metrics{BounceRate: 0.6, EngagementRate: 0.1, AvgSessionDuration: 300}),
	)

	analytics := aisources.ProcessTraffic(collection)
	chatgpt := analytics.SourceBreakdown[aisources.SourceChatGPT]

	require.Equal(t, 3, chatgpt.Sessions)
	assert.InDelta(t, 0.4, chatgpt.BounceRate, 1e-9)
	assert.InDelta(t, 0.5, chatgpt.EngagementRate, 1e-9)
	assert.InDelta(t, 200, chatgpt.AvgSessionDuration, 1e-9)
}

func TestProcessTrafficConversionSplit(t *testing.T) {
	collection := collectionOf(
		makeSession("2025-03-01", "chatgpt.com", sessions.Metrics{Checkouts: 2}),
		makeSession("2025-03-01", "perplexity.ai", sessions.Metrics{Checkouts: 1}),
		makeSession("2025-03-02", "facebook", sessions.Metrics{Checkouts: 5}),
	)

	analytics := aisources.ProcessTraffic(collection)

	assert.Equal(t, 8, analytics.ConversionMetrics.TotalConversions)
	assert.Equal(t, 3, analytics.ConversionMetrics.AIConversions)
	assert.Equal(t, 5, analytics.ConversionMetrics.NonAIConversions)
}

// The per-source conversion rate divides the global conversion total by the
// category's session count, so a category's rate can exceed what its own
// conversions alone would produce. The behavior is intentional and relied on
// by the dashboard.
func TestProcessTrafficConversionRateUsesGlobalNumerator(t *testing.T) {
	collection := collectionOf(
		makeSession("2025-03-01", "chatgpt.com", sessions.Metrics{Checkouts: 0}),
		makeSession("2025-03-01", "chatgpt.com", sessions.Metrics{Checkouts: 0}),
		makeSession("2025-03-02", "facebook", sessions.Metrics{Checkouts: 6}),
	)

	analytics := aisources.ProcessTraffic(collection)
	rates := analytics.ConversionMetrics.ConversionRateBySource

	// CHATGPT had zero conversions of its own, yet its rate reflects the
	// global total of 6 over its 2 sessions.
	assert.InDelta(t, 3.0, rates[aisources.SourceChatGPT], 1e-9)
	assert.InDelta(t, 6.0, rates[aisources.SourceNonAI], 1e-9)
	assert.Zero(t, rates[aisources.SourcePerplexity], "empty categories stay at zero")
}

func TestProcessTrafficEndToEnd(t *testing.T) {
	rows := []sessions.RawRow{
		{
			Dimensions: []string{"2025-03-01", "Madrid", "ES", "Chrome", "page_view", "", "chatgpt.com", "referral"},
			Metrics:    []string{"5", "2", "6", "1", "0.3", "0", "0.7", "4", "90"},
		},
		{
			Dimensions: []string{"2025-03-01", "Madrid", "ES", "Chrome", "purchase", "", "chatgpt.com", "referral"},
			Metrics:    []string{"3", "1", "2", "1", "0.5", "0", "0.5", "1", "110"},
		},
		{
			Dimensions: []string{"2025-03-02", "Paris", "FR", "Safari", "page_view", "", "facebook", "social"},
			Metrics:    []string{"10", "4", "12", "2", "0.6", "0", "0.4", "5", "60"},
		},
	}

	analytics := aisources.ProcessTraffic(sessions.Normalize(rows))

	// The two chatgpt.com rows merged into one session.
	require.Equal(t, 2, analytics.TotalSessions)
	assert.Equal(t, 1, analytics.AISessions)
	assert.Equal(t, 1, analytics.NonAISessions)

	chatgpt := analytics.SourceBreakdown[aisources.SourceChatGPT]
	assert.Equal(t, 1, chatgpt.Sessions)
	assert.Equal(t, 8, chatgpt.Users, "merged rows sum their user counts")
	assert.Equal(t, 3, chatgpt.NewUsers)

	assert.Equal(t, 4, analytics.ConversionMetrics.TotalConversions)
	assert.Equal(t, 2, analytics.ConversionMetrics.AIConversions)
	assert.Equal(t, 2, analytics.ConversionMetrics.NonAIConversions)
}
