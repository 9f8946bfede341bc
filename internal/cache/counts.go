package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"contactManagement/internal/logger"
)

// DefaultContactsCountTTL matches the original deployment default.
const DefaultContactsCountTTL = 60 * time.Second

// ContactCounter is the authoritative counting capability, supplied by
// the contact repository.
type ContactCounter interface {
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}

// ContactsCounts is a read-through cache of one derived integer per user:
// the number of contacts that user owns.
//
// Consistency contract: entries are written only by Get on a miss, never
// by mutation paths; mutations go through Invalidate (see Invalidator).
// Concurrent misses for the same user may both recompute and both write;
// the last write wins, which is acceptable because both read the same
// authoritative source. A store outage degrades Get to the authoritative
// count and is never surfaced to the caller.
type ContactsCounts struct {
	store   Store
	counter ContactCounter
	ttl     time.Duration
	log     *logger.Logger
}

func NewContactsCounts(store Store, counter ContactCounter, ttl time.Duration, log *logger.Logger) *ContactsCounts {
	if ttl <= 0 {
		ttl = DefaultContactsCountTTL
	}
	return &ContactsCounts{
		store:   store,
		counter: counter,
		ttl:     ttl,
		log:     log.With("component", "contacts_counts"),
	}
}

func countKey(userID int64) string {
	return fmt.Sprintf("user:%d:contacts-count", userID)
}

// Get returns the contact count for userID: from cache on a hit, from the
// authoritative store on a miss (populating the cache with the fixed TTL).
// The only error it can return comes from the authoritative counter.
func (c *ContactsCounts) Get(ctx context.Context, userID int64) (int64, error) {
	key := countKey(userID)

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		if n, perr := strconv.ParseInt(string(raw), 10, 64); perr == nil {
			c.log.Debug("contacts count cache hit", "user_id", userID)
			return n, nil
		}
		// Unparseable entry: drop it and fall through to recompute.
		c.log.Warn("contacts count cache entry corrupt", "user_id", userID)
		if derr := c.store.Delete(ctx, key); derr != nil {
			c.log.Warn("failed to drop corrupt cache entry", "user_id", userID, "error", derr)
		}
	case errors.Is(err, ErrNotFound):
		c.log.Debug("contacts count cache miss", "user_id", userID)
	default:
		// Store unreachable: degraded mode, serve the authoritative
		// count and skip the write-back.
		c.log.Warn("contacts count cache unavailable", "user_id", userID, "error", err)
		return c.counter.CountByOwner(ctx, userID)
	}

	n, err := c.counter.CountByOwner(ctx, userID)
	if err != nil {
		return 0, err
	}

	if serr := c.store.Set(ctx, key, []byte(strconv.FormatInt(n, 10)), c.ttl); serr != nil {
		c.log.Warn("failed to populate contacts count cache", "user_id", userID, "error", serr)
	}
	return n, nil
}

// Invalidate removes the cached count for userID. Deleting a missing key
// is not an error; the operation is idempotent.
func (c *ContactsCounts) Invalidate(ctx context.Context, userID int64) error {
	if err := c.store.Delete(ctx, countKey(userID)); err != nil {
		return err
	}
	c.log.Debug("contacts count invalidated", "user_id", userID)
	return nil
}
