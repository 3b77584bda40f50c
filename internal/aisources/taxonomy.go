// Package aisources classifies traffic sources against a fixed taxonomy of
// AI platforms and folds classified sessions into aggregate AI-traffic
// analytics.
package aisources

// SourceType is one label in the closed AI-source taxonomy.
type SourceType string

const (
	SourceChatGPT    SourceType = "CHATGPT"
	SourcePerplexity SourceType = "PERPLEXITY"
	SourceGoogleAI   SourceType = "GOOGLE_AI"
	SourceBing       SourceType = "BING"
	SourceAnthropic  SourceType = "ANTHROPIC"
	SourceYou        SourceType = "YOU"
	SourcePhind      SourceType = "PHIND"
	SourcePoe        SourceType = "POE"
	SourceOtherAI    SourceType = "OTHER_AI"
	SourceNonAI      SourceType = "NON_AI"
)

// categoryPatterns associates a taxonomy label with its known substring
// patterns (domains, crawler user-agent tokens).
type categoryPatterns struct {
	Type     SourceType
	Patterns []string
}

// taxonomy declares the categories in matching precedence order. The
// declaration order is load-bearing: classification is first-match-wins.
// SourceNonAI carries no patterns; it is the implicit fallback bucket.
var taxonomy = []categoryPatterns{
	{SourceChatGPT, []string{"chatgpt.com", "ChatGPT-User", "chat.openai.com"}},
	{SourcePerplexity, []string{"perplexity.ai", "perplexity", "PerplexityBot"}},
	{SourceGoogleAI, []string{"gemini.google.com", "Google-Extended", "bard.google.com"}},
	{SourceBing, []string{"BingBot", "bing.com/chat"}},
	{SourceAnthropic, []string{"ClaudeBot", "claude.ai"}},
	{SourceYou, []string{"YouBot", "you.com"}},
	{SourcePhind, []string{"PhindBot", "phind.com", "fahnd.com"}},
	{SourcePoe, []string{"poe.com"}},
	{SourceOtherAI, []string{"CCBot", "AndiBot", "ExaBot", "FirecrawlAgent"}},
	{SourceNonAI, []string{}},
}

// AllSourceTypes returns every taxonomy label in declaration order.
func AllSourceTypes() []SourceType {
	types := make([]SourceType, len(taxonomy))
	for i, category := range taxonomy {
		types[i] = category.Type
	}
	return types
}

// IsAI reports whether a source type belongs to an AI category.
func (s SourceType) IsAI() bool {
	return s != SourceNonAI
}
