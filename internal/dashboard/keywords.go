package dashboard

import (
	"sort"
	"strings"

	"trafficlens/internal/searchconsole"
)

// topKeywordsLimit caps each side of the keyword breakdown.
const topKeywordsLimit = 10

// buildKeywordBreakdown partitions queries into branded and non-branded
// lists. A query is branded when it contains any brand keyword,
// case-insensitive. Each list is sorted by clicks descending and truncated
// to the top entries.
func buildKeywordBreakdown(queries []searchconsole.QueryStat, brandKeywords []string) KeywordBreakdown {
	branded := make([]KeywordStat, 0, len(queries))
	nonBranded := make([]KeywordStat, 0, len(queries))

	for _, query := range queries {
		stat := KeywordStat{
			Keyword:     query.Query,
			Clicks:      query.Clicks,
			Impressions: query.Impressions,
			CTR:         query.CTR,
			Position:    query.Position,
		}
		if isBranded(query.Query, brandKeywords) {
			branded = append(branded, stat)
		} else {
			nonBranded = append(nonBranded, stat)
		}
	}

	return KeywordBreakdown{
		Branded:    topByClicks(branded),
		NonBranded: topByClicks(nonBranded),
	}
}

func isBranded(query string, brandKeywords []string) bool {
	lowered := strings.ToLower(query)
	for _, brand := range brandKeywords {
		if strings.Contains(lowered, strings.ToLower(brand)) {
			return true
		}
	}
	return false
}

func topByClicks(stats []KeywordStat) []KeywordStat {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Clicks > stats[j].Clicks
	})
	if len(stats) > topKeywordsLimit {
		stats = stats[:topKeywordsLimit]
	}
	return stats
}
