// Package dashboard_test contains tests for the dashboard package
package dashboard_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficlens/internal/dashboard"
	"trafficlens/internal/daterange"
	"trafficlens/internal/searchconsole"
	"trafficlens/internal/sessions"
)

func aggregateKeywords(t *testing.T, queries []searchconsole.QueryStat, brands []string) dashboard.KeywordBreakdown {
	t.Helper()
	search := emptySearchData()
	search.Performance.Queries = queries
	collection := collectionOf(makeSession("2025-03-01", "google", sessions.Metrics{TotalUsers: 1}))

	report, err := dashboard.Aggregate(collection, search, daterange.Range{}, brands)
	require.NoError(t, err)
	return report.Keywords
}

func TestKeywordBreakdownPartition(t *testing.T) {
	queries := []searchconsole.QueryStat{
		{Query: "global vets clinic", Clicks: 10, Impressions: 200, CTR: 0.05, Position: 2.1},
		{Query: "vet near me", Clicks: 8, Impressions: 150, CTR: 0.053, Position: 3.4},
		{Query: "pet food", Clicks: 5, Impressions: 90, CTR: 0.055, Position: 5.0},
	}

	keywords := aggregateKeywords(t, queries, defaultBrands)

	require.Len(t, keywords.Branded, 2)
	assert.Equal(t, "global vets clinic", keywords.Branded[0].Keyword)
	assert.Equal(t, "vet near me", keywords.Branded[1].Keyword)

	require.Len(t, keywords.NonBranded, 1)
	assert.Equal(t, "pet food", keywords.NonBranded[0].Keyword)
}

func TestKeywordBreakdownCaseInsensitive(t *testing.T) {
	queries := []searchconsole.QueryStat{
		{Query: "GlobalVets opening hours", Clicks: 3},
		{Query: "VET emergency", Clicks: 2},
	}

	keywords := aggregateKeywords(t, queries, defaultBrands)
	assert.Len(t, keywords.Branded, 2)
	assert.Empty(t, keywords.NonBranded)
}

func TestKeywordBreakdownSortsByClicksAndTruncates(t *testing.T) {
	queries := make([]searchconsole.QueryStat, 0, 15)
	for i := 1; i <= 15; i++ {
		queries = append(queries, searchconsole.QueryStat{
			Query:  fmt.Sprintf("dog toys %d", i),
			Clicks: i,
		})
	}

	keywords := aggregateKeywords(t, queries, defaultBrands)

	assert.Empty(t, keywords.Branded)
	require.Len(t, keywords.NonBranded, 10, "each side is capped at the top 10")
	assert.Equal(t, 15, keywords.NonBranded[0].Clicks, "sorted by clicks descending")
	assert.Equal(t, 6, keywords.NonBranded[9].Clicks)
}

func TestKeywordBreakdownNoBrandKeywords(t *testing.T) {
	queries := []searchconsole.QueryStat{
		{Query: "global vets clinic", Clicks: 10},
	}

	keywords := aggregateKeywords(t, queries, nil)
	assert.Empty(t, keywords.Branded)
	assert.Len(t, keywords.NonBranded, 1, "with no brand list every query is non-branded")
}
