// Package requests – cache store.
//
// The cache store holds the last authoritative snapshot of a hotel's request
// list. It is refreshed on a fixed interval and on demand; every realtime
// event marks it stale so the next read reconciles any drift the incremental
// path may have accumulated (missed events, out-of-band writes).
package requests

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
)

// Cache holds the last fetched snapshot for one hotel. Snapshots are fetched
// unfiltered; status/department filtering is applied by the reconciliation
// layer on read, so a single cache serves every dashboard filter.
//
// Fetches carry a monotonically increasing ticket. A fetch whose ticket is
// not newer than the last applied one resolved after being superseded by a
// later fetch; its result is discarded so stale data never clobbers newer
// state ("latest fetch wins").
type Cache struct {
	backend Backend
	hotelID string
	log     zerolog.Logger

	mu       sync.Mutex
	snapshot []domain.StaffNote
	fetched  bool
	stale    bool
	next     uint64
	applied  uint64
}

// NewCache constructs a cache store for one hotel.
func NewCache(b Backend, hotelID string, log zerolog.Logger) *Cache {
	return &Cache{
		backend: b,
		hotelID: hotelID,
		log:     log.With().Str("component", "cache").Str("hotel_id", hotelID).Logger(),
	}
}

// Fetch queries the authoritative request list. It returns the fetched notes,
// the fetch's ticket, and whether the result was applied to the snapshot;
// applied is false when a newer fetch already resolved (the caller must not
// use the result to update derived state). Callers that fold applied results
// into derived state must order their folds by ticket, since two applied
// results can race between Fetch returning and the fold running.
//
// Fails with BackendError on downstream failure.
func (c *Cache) Fetch(ctx context.Context) (notes []domain.StaffNote, ticket uint64, applied bool, err error) {
	c.mu.Lock()
	c.next++
	ticket = c.next
	c.mu.Unlock()

	notes, err = c.backend.QueryRequests(ctx, c.hotelID, Filter{})
	if err != nil {
		snapshotFetches.WithLabelValues("error").Inc()
		return nil, ticket, false, &BackendError{Op: "query_requests", Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket <= c.applied {
		// A later fetch resolved first; this result is stale.
		snapshotFetches.WithLabelValues("superseded").Inc()
		c.log.Debug().Uint64("ticket", ticket).Uint64("applied", c.applied).
			Msg("stale fetch result discarded")
		return notes, ticket, false, nil
	}
	c.applied = ticket
	c.snapshot = notes
	c.fetched = true
	c.stale = false
	snapshotFetches.WithLabelValues("applied").Inc()
	return notes, ticket, true, nil
}

// Snapshot returns a copy of the current snapshot and whether a fetch has
// ever completed.
func (c *Cache) Snapshot() ([]domain.StaffNote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.StaffNote, len(c.snapshot))
	copy(out, c.snapshot)
	return out, c.fetched
}

// Invalidate marks the snapshot stale. The next read through the
// reconciliation layer triggers a re-fetch.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

// Stale reports whether the snapshot has been invalidated since the last
// applied fetch.
func (c *Cache) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}
