// Package cache provides a minimal get/set-with-expiry contract used by the
// resume extraction adapter. The cache is an optimization, never a source of
// truth: a nil or failing cache must not break extraction.
package cache

import (
	"context"
	"time"
)

// Cache is a string key/value store with per-entry expiry.
type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key for at most ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
