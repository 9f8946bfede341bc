package cache

import (
	"context"
	"time"
)

// noopStore is the backend used when caching is disabled. Get always
// misses; Set and Delete succeed without doing anything, so callers run
// permanently in the read-through fallback path.
type noopStore struct{}

// NewNoopStore returns a Store that never holds data. It avoids nil
// checks when cache is not configured.
func NewNoopStore() Store {
	return noopStore{}
}

func (noopStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrNotFound
}

func (noopStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (noopStore) Delete(ctx context.Context, key string) error {
	return nil
}
