package model

// Claim represents a factual assertion extracted from a transcript chunk
type Claim struct {
	Text      string  `json:"claim"`     // The claim text itself, trimmed
	Timestamp float64 `json:"timestamp"` // Seconds from the start of the video
}

// VerdictLabel categorizes the outcome of checking a claim
type VerdictLabel string

const (
	VerdictTrue       VerdictLabel = "TRUE"
	VerdictFalse      VerdictLabel = "FALSE"
	VerdictMixed      VerdictLabel = "MIXED"
	VerdictUnverified VerdictLabel = "UNVERIFIED"
	VerdictError      VerdictLabel = "ERROR"
)

// Verdict is the verification provider's assessment of a single claim
type Verdict struct {
	Label      VerdictLabel `json:"verdict"`
	Confidence int          `json:"confidence"` // 0-100
	Sources    []string     `json:"sources"`    // URLs or citations, provider order preserved
}

// ErrorVerdict returns the sentinel verdict recorded when a verification
// call fails. The claim stays in the batch; the failure never aborts the
// remaining claims of the chunk.
func ErrorVerdict() Verdict {
	return Verdict{
		Label:      VerdictError,
		Confidence: 0,
		Sources:    []string{},
	}
}

// ParseVerdictLabel maps provider output onto a known label. Anything
// outside the known set becomes UNVERIFIED.
func ParseVerdictLabel(s string) VerdictLabel {
	switch VerdictLabel(s) {
	case VerdictTrue, VerdictFalse, VerdictMixed, VerdictUnverified, VerdictError:
		return VerdictLabel(s)
	default:
		return VerdictUnverified
	}
}

// SourceStatus is the result of validating one cited source link
type SourceStatus struct {
	URL        string `json:"url"`
	Accessible bool   `json:"accessible"`
	StatusCode int    `json:"status_code,omitempty"`
	Title      string `json:"title,omitempty"`
	Error      string `json:"error,omitempty"`
}

// VerifiedClaim is the unit persisted in the result store: a claim
// joined with its verdict, plus optional source link checks.
type VerifiedClaim struct {
	Claim
	Verdict
	SourceChecks []SourceStatus `json:"source_checks,omitempty"`
}

// ChunkContext carries correlation metadata for one audio chunk through
// the pipeline. It is not persisted beyond a single pipeline run.
type ChunkContext struct {
	VideoID       string  `json:"video_id"`
	BaseTimestamp float64 `json:"base_timestamp"` // Chunk start within the video, seconds
	Duration      float64 `json:"duration"`       // Chunk length, seconds
}
