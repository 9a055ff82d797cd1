package store

import "github.com/vidfact/vidfact/internal/model"

// Store accumulates verified claims per video. Appends for the same
// video preserve completion order; Get never exposes internal slices.
type Store interface {
	// Append adds claims to the video's result list
	Append(videoID string, claims []model.VerifiedClaim)
	// Get returns all claims stored for the video, oldest first
	Get(videoID string) []model.VerifiedClaim
	// Clear removes all claims for the video. Clearing an unknown
	// video is a no-op.
	Clear(videoID string)
}
