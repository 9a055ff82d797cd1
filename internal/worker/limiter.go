package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// ProviderLimiter rate-limits outbound calls per provider name, so
// transcription, extraction and verification traffic to one provider
// share a single budget.
type ProviderLimiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewProviderLimiter creates a limiter with the given default rate
func NewProviderLimiter(requestsPerSecond float64, burst int) *ProviderLimiter {
	if burst <= 0 {
		burst = 5
	}

	return &ProviderLimiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the provider's limiter admits a call
func (l *ProviderLimiter) Wait(ctx context.Context, provider string) error {
	return l.getLimiter(provider).Wait(ctx)
}

// Allow reports whether a call may proceed without waiting
func (l *ProviderLimiter) Allow(provider string) bool {
	return l.getLimiter(provider).Allow()
}

func (l *ProviderLimiter) getLimiter(provider string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[provider]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[provider]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[provider] = limiter

	return limiter
}

// SetProviderRate overrides the rate for one provider
func (l *ProviderLimiter) SetProviderRate(provider string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[provider] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}
