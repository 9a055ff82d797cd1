package extract

import (
	"regexp"
	"strings"
)

// opinionMarkers short-circuit classification: sentences carrying them
// are never treated as checkable claims.
var opinionMarkers = []string{
	"i think", "i believe", "in my opinion", "maybe", "perhaps",
}

// Factual indicator patterns, all case-insensitive and word-boundary
// anchored. Matching any one of them accepts the sentence.
var (
	digitPattern       = regexp.MustCompile(`\b\d+\b`)
	factualVerbPattern = regexp.MustCompile(`\b(is|are|was|were|has|have|will|can|cannot)\b`)
	unitPattern        = regexp.MustCompile(`\b(percent|million|billion|degrees|miles|kilometers)\b`)
	citationPattern    = regexp.MustCompile(`\b(studies show|research indicates|data shows|according to)\b`)
)

// IsFactualClaim reports whether a sentence states a checkable fact.
//
// Rejection runs first: opinion markers and interrogatives are never
// claims regardless of other content. Acceptance then requires at least
// one factual indicator. The heuristic is precision-biased: missed
// claims are preferred over flagging opinions as fact.
func IsFactualClaim(sentence string) bool {
	lower := strings.ToLower(sentence)

	for _, marker := range opinionMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}

	if strings.HasSuffix(strings.TrimSpace(sentence), "?") {
		return false
	}

	return digitPattern.MatchString(lower) ||
		factualVerbPattern.MatchString(lower) ||
		unitPattern.MatchString(lower) ||
		citationPattern.MatchString(lower)
}
