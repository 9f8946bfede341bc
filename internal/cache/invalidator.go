package cache

import (
	"context"

	"contactManagement/internal/logger"
)

// Invalidator glues contact mutations to count-cache eviction. Mutation
// handlers call OnContactMutated after the write has been durably applied,
// never before, so a racing read-through cannot repopulate the key with
// the pre-mutation count and keep it for a full TTL.
type Invalidator struct {
	counts *ContactsCounts
	log    *logger.Logger
}

func NewInvalidator(counts *ContactsCounts, log *logger.Logger) *Invalidator {
	return &Invalidator{counts: counts, log: log.With("component", "invalidator")}
}

// OnContactMutated evicts the owner's cached contact count. Eviction
// failures are non-fatal: TTL expiry self-heals staleness, so the error
// is logged and swallowed.
func (i *Invalidator) OnContactMutated(ctx context.Context, ownerID int64) {
	if err := i.counts.Invalidate(ctx, ownerID); err != nil {
		i.log.Warn("contact count eviction failed", "owner_id", ownerID, "error", err)
	}
}
