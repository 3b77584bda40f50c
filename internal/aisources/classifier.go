package aisources

import "strings"

// Classify maps a raw traffic-source label to exactly one taxonomy label.
// Matching is bidirectional substring containment against each category's
// patterns, in taxonomy declaration order, first match wins. Unmatched or
// empty sources fall back to SourceNonAI. Classify is a pure function and
// has no error path.
func Classify(source string) SourceType {
	normalized := strings.ToLower(strings.TrimSpace(source))
	if normalized == "" {
		// An empty searched string would trivially satisfy the
		// pattern-contains-source direction for every pattern.
		return SourceNonAI
	}

	for _, category := range taxonomy {
		for _, pattern := range category.Patterns {
			lowered := strings.ToLower(pattern)
			if strings.Contains(normalized, lowered) || strings.Contains(lowered, normalized) {
				return category.Type
			}
		}
	}

	return SourceNonAI
}
