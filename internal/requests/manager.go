// Package requests – session manager.
//
// The manager owns one synchronization session (cache store, reconciler,
// feed adapter, refresh loop) per hotel, created lazily on first use by an
// authenticated staff member of that hotel. All dashboard operations resolve
// their session through here, which is exactly where concurrent
// ensure-subscribed calls for one topic occur.
package requests

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
)

// DefaultRefreshInterval is the fallback periodic snapshot refresh cadence.
const DefaultRefreshInterval = 30 * time.Second

// SyncStatus describes the synchronization state of one hotel session.
type SyncStatus struct {
	HotelID   string `json:"hotel_id"`
	Connected bool   `json:"connected"`
	ViewSize  int    `json:"view_size"`
}

// Session bundles the per-hotel synchronization components.
type Session struct {
	HotelID    string
	Cache      *Cache
	Reconciler *Reconciler
	Adapter    *FeedAdapter

	stop context.CancelFunc
}

// ManagerOptions tunes session behavior.
type ManagerOptions struct {
	// RefreshInterval is the periodic snapshot refresh cadence; <= 0 falls
	// back to DefaultRefreshInterval.
	RefreshInterval time.Duration
	// NotifySuppress is the window after a local creation during which
	// new-request notifications are muted; <= 0 falls back to
	// DefaultNotifySuppress.
	NotifySuppress time.Duration
	// Notify observes confirmed remote insertions. Optional.
	Notify NotifyFunc
}

// Manager creates and caches per-hotel sessions.
type Manager struct {
	backend  Backend
	registry *TopicRegistry
	opts     ManagerOptions
	log      zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager constructs a Manager. The registry should be shared process-wide.
func NewManager(b Backend, reg *TopicRegistry, opts ManagerOptions, log zerolog.Logger) *Manager {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	return &Manager{
		backend:  b,
		registry: reg,
		opts:     opts,
		log:      log.With().Str("component", "sync_manager").Logger(),
		sessions: make(map[string]*Session),
	}
}

// Session resolves the caller's hotel session, creating it on first use.
// Fails with ErrNotAuthenticated or ErrProfileNotFound when the caller's
// identity cannot be resolved to a hotel. Subscription setup failures do not
// fail the call: the session then serves polled data only, and each
// subsequent access retries the subscription.
func (m *Manager) Session(ctx context.Context) (*Session, error) {
	userID, err := m.backend.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := m.backend.StaffProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if s, ok := m.sessions[profile.HotelID]; ok {
		m.mu.Unlock()
		// A previously failed setup may succeed now (idempotent per topic).
		if !s.Adapter.IsConnected() {
			if err := s.Adapter.EnsureSubscribed(ctx); err != nil {
				m.log.Warn().Err(err).Str("hotel_id", s.HotelID).Msg("realtime resubscribe attempt failed")
			}
		}
		return s, nil
	}

	cache := NewCache(m.backend, profile.HotelID, m.log)
	rec := NewReconciler(m.backend, cache, profile.HotelID, m.opts.NotifySuppress, m.log)
	rec.SetNotify(m.opts.Notify)
	adapter := NewFeedAdapter(m.backend, m.registry, cache, rec, m.log)

	runCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		HotelID:    profile.HotelID,
		Cache:      cache,
		Reconciler: rec,
		Adapter:    adapter,
		stop:       cancel,
	}
	m.sessions[profile.HotelID] = s
	m.mu.Unlock()

	if err := adapter.EnsureSubscribed(ctx); err != nil {
		m.log.Warn().Err(err).Str("hotel_id", s.HotelID).Msg("realtime setup failed, session is polling-only")
	}
	if err := rec.Refresh(runCtx); err != nil {
		m.log.Warn().Err(err).Str("hotel_id", s.HotelID).Msg("initial snapshot fetch failed")
	}
	go m.refreshLoop(runCtx, s)

	m.log.Info().Str("hotel_id", s.HotelID).Msg("sync session started")
	return s, nil
}

// refreshLoop re-fetches the snapshot on a fixed interval as the fallback
// reconciliation path for missed events.
func (m *Manager) refreshLoop(ctx context.Context, s *Session) {
	t := time.NewTicker(m.opts.RefreshInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.Reconciler.Refresh(ctx); err != nil {
				m.log.Warn().Err(err).Str("hotel_id", s.HotelID).Msg("scheduled snapshot refresh failed")
			}
		}
	}
}

// List returns the caller's merged request view for a filter. A stale cache
// (any realtime event since the last fetch) triggers a re-fetch before the
// read, mirroring revalidate-on-demand semantics.
func (m *Manager) List(ctx context.Context, f Filter) ([]domain.StaffNote, error) {
	s, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}
	if s.Cache.Stale() {
		if err := s.Reconciler.Refresh(ctx); err != nil {
			m.log.Warn().Err(err).Str("hotel_id", s.HotelID).Msg("on-demand refresh failed, serving merged view as-is")
		}
	}
	return s.Reconciler.View(f), nil
}

// Create files a new request through the caller's session.
func (m *Manager) Create(ctx context.Context, in CreateRequestInput) (*domain.StaffNote, error) {
	s, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}
	return s.Reconciler.CreateRequest(ctx, in)
}

// Update applies column updates to a request in the caller's hotel.
func (m *Manager) Update(ctx context.Context, id string, fields map[string]any) error {
	s, err := m.Session(ctx)
	if err != nil {
		return err
	}
	return s.Reconciler.UpdateRequest(ctx, id, fields)
}

// Delete removes a request from the caller's hotel.
func (m *Manager) Delete(ctx context.Context, id string) error {
	s, err := m.Session(ctx)
	if err != nil {
		return err
	}
	return s.Reconciler.DeleteRequest(ctx, id)
}

// Reactivate moves a request back to in_progress and clears its fulfillment
// timestamp.
func (m *Manager) Reactivate(ctx context.Context, id string) error {
	s, err := m.Session(ctx)
	if err != nil {
		return err
	}
	return s.Reconciler.ReactivateRequest(ctx, id)
}

// Status reports the synchronization state of the caller's session.
func (m *Manager) Status(ctx context.Context) (SyncStatus, error) {
	s, err := m.Session(ctx)
	if err != nil {
		return SyncStatus{}, err
	}
	return SyncStatus{
		HotelID:   s.HotelID,
		Connected: s.Adapter.IsConnected(),
		ViewSize:  s.Reconciler.Size(),
	}, nil
}

// Close stops every session's refresh loop and tears down subscriptions.
// Safe to call once at shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.stop()
		s.Adapter.Close()
	}
}
