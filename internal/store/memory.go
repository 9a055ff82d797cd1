package store

import (
	"sync"

	"github.com/vidfact/vidfact/internal/model"
)

// MemoryStore keeps verified claims in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	claims map[string][]model.VerifiedClaim
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		claims: make(map[string][]model.VerifiedClaim),
	}
}

// Append adds claims under the video ID
func (s *MemoryStore) Append(videoID string, claims []model.VerifiedClaim) {
	if len(claims) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[videoID] = append(s.claims[videoID], claims...)
}

// Get returns a copy of the video's claims in append order
func (s *MemoryStore) Get(videoID string) []model.VerifiedClaim {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.claims[videoID]
	out := make([]model.VerifiedClaim, len(stored))
	copy(out, stored)
	return out
}

// Clear removes all claims for the video
func (s *MemoryStore) Clear(videoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, videoID)
}
