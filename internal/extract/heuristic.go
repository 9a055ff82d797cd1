package extract

import (
	"strings"

	"github.com/vidfact/vidfact/internal/model"
)

// claimSpacingSeconds is the fixed per-sentence timestamp estimate.
// It is a rough approximation, not audio alignment: without word-level
// timing data there is nothing better to anchor to.
const claimSpacingSeconds = 2.0

// HeuristicExtractor detects checkable claims with no network calls
type HeuristicExtractor struct{}

// NewHeuristicExtractor creates a new heuristic extractor
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Extract segments the transcript and classifies each sentence in order.
// The accepted sentence at segment index i is stamped
// base + i*2.0 seconds. Deterministic for identical inputs; an empty
// slice is a valid outcome, never an error.
func (e *HeuristicExtractor) Extract(transcript string, baseTimestamp float64) []model.Claim {
	sentences := SplitSentences(transcript)

	var claims []model.Claim
	for i, sentence := range sentences {
		if !IsFactualClaim(sentence) {
			continue
		}
		claims = append(claims, model.Claim{
			Text:      TrimTerminators(sentence),
			Timestamp: baseTimestamp + float64(i)*claimSpacingSeconds,
		})
	}

	return dedupeClaims(claims)
}

// dedupeClaims removes case-insensitive duplicate claims, keeping the
// first occurrence so repeated sentences do not double-bill verification
func dedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool)
	var unique []model.Claim

	for _, claim := range claims {
		key := strings.ToLower(strings.TrimSpace(claim.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, claim)
		}
	}

	return unique
}
