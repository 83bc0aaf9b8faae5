// Package cache provides a key/value cache with per-entry expiry and a
// get-or-compute helper. Caches are owned by whoever constructs them.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrCacheMiss indicates the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the cache interface.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key joins key parts with ":".
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
