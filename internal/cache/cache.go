package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-oriented cache with per-entry TTL
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from arbitrary input (normalized claim text).
// Hashing keeps keys filesystem-safe for the disk tier.
func Key(input string) string {
	sum := sha256.Sum256([]byte(input))
	return "vidfact:v1:" + hex.EncodeToString(sum[:])
}
