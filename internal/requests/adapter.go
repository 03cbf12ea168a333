// Package requests – realtime feed adapter.
//
// The adapter maintains a live subscription to change events for one hotel's
// requests and forwards them, in delivery order, to the reconciliation layer
// through a single ingestion goroutine. Subscription setup is idempotent per
// topic: concurrent consumers attach to the existing subscription instead of
// creating duplicates, which would double-count events.
package requests

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
	"github.com/velin-hotels/hotel-sync-backend/internal/feed"
)

// AdapterState is the lifecycle state of a feed adapter.
type AdapterState int32

// Adapter lifecycle. CONNECTED is the happy terminal state; FAILED leaves the
// topic lock released so a later attempt can succeed; CLOSED is final.
const (
	StateUninitialized AdapterState = iota
	StateResolvingHotel
	StateAcquiringLock
	StateSubscribing
	StateConnected
	StateFailed
	StateClosed
)

// String returns the state name for logs.
func (s AdapterState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateResolvingHotel:
		return "resolving_hotel"
	case StateAcquiringLock:
		return "acquiring_lock"
	case StateSubscribing:
		return "subscribing"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// EventSink receives ordered change notifications from the adapter. The
// reconciliation layer implements it.
type EventSink interface {
	// UpsertRemote inserts or replaces the full denormalized record for a
	// remote INSERT (or a confirmation echo).
	UpsertRemote(note domain.StaffNote)
	// MergeRemote merges a remote UPDATE payload into the matching record,
	// preserving fields the payload does not carry (the guest join).
	MergeRemote(note domain.StaffNote)
	// RemoveRemote drops the record for a remote DELETE.
	RemoveRemote(id string)
}

// ErrAdapterClosed is returned when EnsureSubscribed is called after Close.
var ErrAdapterClosed = errors.New("feed adapter closed")

// FeedAdapter owns the subscription lifecycle for one hotel topic.
type FeedAdapter struct {
	backend  Backend
	registry *TopicRegistry
	cache    *Cache
	sink     EventSink
	log      zerolog.Logger

	mu      sync.Mutex
	state   AdapterState
	topic   string
	hotelID string
	sub     *feed.Subscription
	owner   bool
	done    chan struct{}
}

// NewFeedAdapter constructs an adapter. The registry must be the process-wide
// instance so topic claims are visible across adapters.
func NewFeedAdapter(b Backend, reg *TopicRegistry, cache *Cache, sink EventSink, log zerolog.Logger) *FeedAdapter {
	return &FeedAdapter{
		backend:  b,
		registry: reg,
		cache:    cache,
		sink:     sink,
		log:      log.With().Str("component", "feed_adapter").Logger(),
	}
}

// EnsureSubscribed establishes the realtime subscription for the caller's
// hotel, or attaches to an existing one. It is safe to call concurrently and
// repeatedly: exactly one underlying subscription is created per topic.
//
// Setup failures (identity or profile resolution, subscription establishment)
// release the topic lock, leave the adapter disconnected, and are returned
// for logging; they must not crash the caller, which keeps functioning on
// polled data alone.
func (a *FeedAdapter) EnsureSubscribed(ctx context.Context) error {
	a.mu.Lock()
	switch a.state {
	case StateConnected, StateSubscribing:
		a.mu.Unlock()
		return nil
	case StateClosed:
		a.mu.Unlock()
		return ErrAdapterClosed
	}
	a.state = StateResolvingHotel
	a.mu.Unlock()

	userID, err := a.backend.CurrentUser(ctx)
	if err != nil {
		a.fail(err)
		return err
	}
	profile, err := a.backend.StaffProfile(ctx, userID)
	if err != nil {
		a.fail(err)
		return err
	}
	topic := feed.Topic(profile.HotelID)

	a.mu.Lock()
	// A concurrent caller may have raced ahead while we resolved the hotel.
	switch a.state {
	case StateConnected, StateSubscribing:
		a.mu.Unlock()
		return nil
	case StateClosed:
		a.mu.Unlock()
		return ErrAdapterClosed
	}
	a.state = StateAcquiringLock
	a.topic = topic
	a.hotelID = profile.HotelID
	if !a.registry.Claim(topic) {
		// Another adapter owns the live subscription for this topic. Attach
		// without creating a duplicate; we are not the owner and must not
		// tear the topic down on Close.
		a.state = StateConnected
		a.owner = false
		a.mu.Unlock()
		a.log.Info().Str("topic", topic).Msg("attached to existing subscription")
		return nil
	}
	a.state = StateSubscribing
	a.mu.Unlock()

	sub, err := a.backend.Subscribe(topic)
	if err != nil {
		// Release the lock so a future attempt is not permanently blocked.
		a.registry.Release(topic)
		a.fail(err)
		return &BackendError{Op: "subscribe", Err: err}
	}

	a.mu.Lock()
	if a.state == StateClosed {
		a.mu.Unlock()
		a.backend.Unsubscribe(sub)
		a.registry.Release(topic)
		return ErrAdapterClosed
	}
	a.sub = sub
	a.owner = true
	a.done = make(chan struct{})
	a.state = StateConnected
	done := a.done
	a.mu.Unlock()

	go a.consume(sub, done)
	a.log.Info().Str("topic", topic).Msg("realtime subscription established")
	return nil
}

// fail transitions to FAILED (unless already connected or closed) and logs.
func (a *FeedAdapter) fail(err error) {
	a.mu.Lock()
	if a.state != StateConnected && a.state != StateClosed {
		a.state = StateFailed
	}
	state := a.state
	a.mu.Unlock()
	a.log.Warn().Err(err).Stringer("state", state).Msg("realtime setup failed")
}

// consume is the single ingestion loop. Events are applied strictly in the
// order the feed delivers them; there is no reordering or parallel apply.
func (a *FeedAdapter) consume(sub *feed.Subscription, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			a.apply(ev)
		}
	}
}

// apply translates one change event into a mutation of the merged view and
// signals the cache store to reconcile drift on its next read.
func (a *FeedAdapter) apply(ev feed.Event) {
	switch ev.Op {
	case feed.OpInsert:
		// The event payload has no guest join; re-read the full record.
		full, err := a.backend.GetRequest(context.Background(), a.hotelID, ev.NoteID)
		if err != nil {
			// The row may already be gone again; the snapshot refresh will
			// settle the view.
			a.log.Warn().Err(err).Str("note_id", ev.NoteID).Msg("insert event refetch failed")
		} else {
			a.sink.UpsertRemote(*full)
			feedEventsApplied.WithLabelValues(string(feed.OpInsert)).Inc()
		}
	case feed.OpUpdate:
		if ev.Note != nil {
			a.sink.MergeRemote(*ev.Note)
			feedEventsApplied.WithLabelValues(string(feed.OpUpdate)).Inc()
		}
	case feed.OpDelete:
		a.sink.RemoveRemote(ev.NoteID)
		feedEventsApplied.WithLabelValues(string(feed.OpDelete)).Inc()
	}
	a.cache.Invalidate()
}

// IsConnected reports whether the adapter is in the CONNECTED state.
func (a *FeedAdapter) IsConnected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == StateConnected
}

// State returns the current lifecycle state.
func (a *FeedAdapter) State() AdapterState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Close tears down the subscription. Only the adapter instance that
// established the subscription releases it and the topic lock; attached
// consumers leave the topic alone. Close is idempotent.
func (a *FeedAdapter) Close() {
	a.mu.Lock()
	if a.state == StateClosed {
		a.mu.Unlock()
		return
	}
	sub, owner, topic, done := a.sub, a.owner, a.topic, a.done
	a.sub = nil
	a.state = StateClosed
	a.mu.Unlock()

	if done != nil {
		close(done)
	}
	if owner {
		if sub != nil {
			a.backend.Unsubscribe(sub)
		}
		if topic != "" {
			a.registry.Release(topic)
		}
		a.log.Info().Str("topic", topic).Msg("realtime subscription released")
	}
}
