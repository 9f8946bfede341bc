// Package cache holds the derived-data cache for per-user contact counts:
// a generic key/value store abstraction, its Redis and noop backends, the
// read-through count cache, and the invalidation coordinator that contact
// mutations report to.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store.Get when the key is absent or expired.
// An absent key always means "must recompute", never "value is zero".
var ErrNotFound = errors.New("cache: key not found")

// Store is a minimal key/value cache backend. Implementations must treat
// a delete of a missing key as a no-op. Any other error from Get or Set
// is interpreted by callers as the store being degraded, not as a request
// failure.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
