package model

import (
	"errors"
	"fmt"
	"strings"
)

// minAPIKeyLength is a coarse sanity check, not real authentication.
const minAPIKeyLength = 10

var (
	// ErrAudioNotFound indicates the audio source for a chunk is missing.
	// Fatal for the chunk.
	ErrAudioNotFound = errors.New("audio file not found")

	// ErrInvalidCredential indicates a missing or implausibly short API key.
	// Rejected at the boundary before any pipeline stage runs.
	ErrInvalidCredential = errors.New("missing or invalid API key")
)

// ProviderError wraps an error reported by an external provider.
// Fatal for the chunk when returned by transcription; recovered
// per-claim when returned by verification.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ValidateAPIKey applies the boundary credential check.
func ValidateAPIKey(key string) error {
	if len(strings.TrimSpace(key)) < minAPIKeyLength {
		return ErrInvalidCredential
	}
	return nil
}
