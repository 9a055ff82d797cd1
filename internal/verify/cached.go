package verify

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vidfact/vidfact/internal/cache"
	"github.com/vidfact/vidfact/internal/model"
)

// CachedVerifier wraps a Verifier with a verdict cache keyed by
// normalized claim text, so the same claim repeated across chunks or
// videos does not re-bill the provider. Failed checks are never cached.
type CachedVerifier struct {
	inner Verifier
	cache cache.Cache
	ttl   time.Duration
	log   *logrus.Entry
}

// NewCachedVerifier wraps inner with the given cache
func NewCachedVerifier(inner Verifier, c cache.Cache, ttl time.Duration, log *logrus.Entry) *CachedVerifier {
	return &CachedVerifier{inner: inner, cache: c, ttl: ttl, log: log}
}

// Check returns a cached verdict when available, otherwise delegates
func (v *CachedVerifier) Check(ctx context.Context, claim string) (model.Verdict, error) {
	key := cache.Key(strings.ToLower(strings.TrimSpace(claim)))

	if data, found := v.cache.Get(key); found {
		var verdict model.Verdict
		if err := json.Unmarshal(data, &verdict); err == nil {
			return verdict, nil
		}
		// Corrupt entry: drop it and re-verify
		_ = v.cache.Delete(key)
	}

	verdict, err := v.inner.Check(ctx, claim)
	if err != nil {
		return verdict, err
	}

	if data, err := json.Marshal(verdict); err == nil {
		if err := v.cache.Set(key, data, v.ttl); err != nil {
			v.log.WithError(err).Warn("failed to cache verdict")
		}
	}

	return verdict, nil
}
