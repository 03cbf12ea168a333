// Package requests – reconciliation layer.
//
// The reconciler owns the merged view: a single authoritative in-memory table
// keyed by request id, updated by snapshot fetch results and realtime events
// through the same upsert path. The dashboard never mutates the view
// directly; it issues intents (create, update, reactivate) that flow through
// here. Optimistic creations are matched to their confirmations by a
// client-generated correlation token carried through the mutation, so
// concurrent creations can never claim each other's confirmations.
package requests

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
)

// DefaultNotifySuppress is how long after a local creation incoming INSERT
// notifications are muted, so the actor is not notified of their own action.
const DefaultNotifySuppress = time.Second

// CreateRequestInput carries the fields required to create a request.
type CreateRequestInput struct {
	GuestName   string
	RoomNumber  string
	Department  string
	Description string
}

// NotifyFunc observes confirmed remote insertions ("new request" events).
type NotifyFunc func(note domain.StaffNote)

// Reconciler merges the polled snapshot, realtime events, and pending
// optimistic mutations into one consistent list.
type Reconciler struct {
	backend  Backend
	cache    *Cache
	hotelID  string
	suppress time.Duration
	log      zerolog.Logger

	// now is a seam for tests; defaults to time.Now.
	now func() time.Time

	mu              sync.Mutex
	table           map[string]domain.StaffNote
	pending         map[string]string // correlation token -> temp id
	folded          uint64            // ticket of the newest snapshot folded in
	lastLocalCreate time.Time
	onNew           NotifyFunc
}

// NewReconciler constructs a reconciler for one hotel. suppress <= 0 falls
// back to DefaultNotifySuppress.
func NewReconciler(b Backend, cache *Cache, hotelID string, suppress time.Duration, log zerolog.Logger) *Reconciler {
	if suppress <= 0 {
		suppress = DefaultNotifySuppress
	}
	return &Reconciler{
		backend:  b,
		cache:    cache,
		hotelID:  hotelID,
		suppress: suppress,
		log:      log.With().Str("component", "reconciler").Str("hotel_id", hotelID).Logger(),
		now:      time.Now,
		table:    make(map[string]domain.StaffNote),
		pending:  make(map[string]string),
	}
}

// SetNotify registers the observer for new-request notifications. Pass nil to
// disable.
func (r *Reconciler) SetNotify(fn NotifyFunc) {
	r.mu.Lock()
	r.onNew = fn
	r.mu.Unlock()
}

// View returns the merged request list for a filter, ordered by creation time
// descending. The returned slice is a copy; callers may not mutate entries in
// place.
func (r *Reconciler) View(f Filter) []domain.StaffNote {
	r.mu.Lock()
	out := make([]domain.StaffNote, 0, len(r.table))
	for _, n := range r.table {
		if f.Matches(n) {
			out = append(out, n)
		}
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Refresh fetches a fresh snapshot through the cache store and folds it into
// the view. Superseded (stale) fetch results are discarded by the cache and
// do not touch the view.
func (r *Reconciler) Refresh(ctx context.Context) error {
	notes, ticket, applied, err := r.cache.Fetch(ctx)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}
	r.foldSnapshot(notes, ticket)
	return nil
}

// foldSnapshot folds an applied snapshot into the table. The ticket check is
// repeated here under the table lock: two fetches can both be applied by the
// cache in order and still reach this fold out of order, and an older snapshot
// must not overwrite rows a newer one already folded.
func (r *Reconciler) foldSnapshot(notes []domain.StaffNote, ticket uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket <= r.folded {
		return
	}
	r.folded = ticket
	for _, n := range notes {
		r.foldLocked(n)
	}
}

// foldLocked upserts one authoritative row into the table, retiring the
// matching optimistic record when the row carries a pending correlation
// token. Records are never removed here: logical deletion happens only via
// remote DELETE events.
func (r *Reconciler) foldLocked(n domain.StaffNote) {
	if n.ClientToken != "" {
		if tempID, ok := r.pending[n.ClientToken]; ok {
			delete(r.table, tempID)
			delete(r.pending, n.ClientToken)
		}
	}
	r.table[n.ID] = n
}

// CreateRequest validates the input, resolves (or creates) the guest,
// optimistically inserts a temporary record into the view, and persists the
// request. On confirmation the temporary record is replaced by the
// authoritative row, matched by correlation token; on failure it is removed
// without a trace.
func (r *Reconciler) CreateRequest(ctx context.Context, in CreateRequestInput) (*domain.StaffNote, error) {
	switch {
	case strings.TrimSpace(in.GuestName) == "":
		return nil, &ValidationError{Field: "guest_name"}
	case strings.TrimSpace(in.RoomNumber) == "":
		return nil, &ValidationError{Field: "room_number"}
	case strings.TrimSpace(in.Department) == "":
		return nil, &ValidationError{Field: "department"}
	case strings.TrimSpace(in.Description) == "":
		return nil, &ValidationError{Field: "description"}
	}

	userID, err := r.backend.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := r.backend.StaffProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	guestID, err := r.backend.FindOrCreateGuest(ctx, profile.HotelID, in.RoomNumber, in.GuestName)
	if err != nil {
		return nil, &BackendError{Op: "find_or_create_guest", Err: err}
	}

	token := uuid.NewString()
	tempID := domain.TempIDPrefix + token
	now := r.now().UTC()
	temp := domain.StaffNote{
		ID:            tempID,
		HotelID:       profile.HotelID,
		GuestID:       guestID,
		RoomNumber:    in.RoomNumber,
		NoteContent:   in.Description,
		Department:    in.Department,
		IntentType:    in.Department,
		Priority:      domain.PriorityMedium,
		Status:        domain.StatusInProgress,
		CreatedByName: profile.Name,
		ClientToken:   token,
		IsActive:      true,
		CreatedAt:     now,
		Guest: &domain.Guest{
			ID:         guestID,
			HotelID:    profile.HotelID,
			RoomNumber: in.RoomNumber,
			LastName:   in.GuestName,
		},
	}

	r.mu.Lock()
	r.table[tempID] = temp
	r.pending[token] = tempID
	r.lastLocalCreate = now
	r.mu.Unlock()

	row := temp
	row.ID = "" // the backend assigns the id
	row.Guest = nil
	confirmed, err := r.backend.InsertRequest(ctx, &row)
	if err != nil {
		r.mu.Lock()
		delete(r.table, tempID)
		delete(r.pending, token)
		r.mu.Unlock()
		optimisticCreates.WithLabelValues("rolled_back").Inc()
		r.log.Warn().Err(err).Str("room", in.RoomNumber).Msg("request creation failed, optimistic record rolled back")
		return nil, &BackendError{Op: "insert_request", Err: err}
	}

	r.mu.Lock()
	r.foldLocked(*confirmed)
	r.mu.Unlock()
	optimisticCreates.WithLabelValues("confirmed").Inc()
	r.log.Info().Str("note_id", confirmed.ID).Str("room", in.RoomNumber).Msg("request created")
	return confirmed, nil
}

// UpdateRequest sends column updates for a request and, on success, triggers
// a full re-fetch as the confirmation mechanism (updates are not patched
// optimistically; only creation is). Completing a request stamps the
// fulfillment timestamp when the caller did not set one.
func (r *Reconciler) UpdateRequest(ctx context.Context, id string, fields map[string]any) error {
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	if status, ok := updates["status"]; ok {
		if s, _ := status.(string); s == domain.StatusCompleted || s == domain.StatusCancelled {
			if _, set := updates["fulfilled_at"]; !set {
				updates["fulfilled_at"] = r.now().UTC()
			}
		}
	}

	if _, err := r.backend.UpdateRequest(ctx, r.hotelID, id, updates); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return &BackendError{Op: "update_request", Err: err}
	}

	if err := r.Refresh(ctx); err != nil {
		// The update itself succeeded; the realtime echo or the next
		// scheduled refresh will converge the view.
		r.log.Warn().Err(err).Str("note_id", id).Msg("post-update refresh failed")
	}
	return nil
}

// DeleteRequest removes a request from the backend and drops it from the
// merged view immediately, without waiting for the DELETE event echo.
func (r *Reconciler) DeleteRequest(ctx context.Context, id string) error {
	if err := r.backend.DeleteRequest(ctx, r.hotelID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return &BackendError{Op: "delete_request", Err: err}
	}
	r.RemoveRemote(id)
	r.log.Info().Str("note_id", id).Msg("request deleted")
	return nil
}

// ReactivateRequest moves a completed or cancelled request back to
// in_progress and clears its fulfillment timestamp.
func (r *Reconciler) ReactivateRequest(ctx context.Context, id string) error {
	return r.UpdateRequest(ctx, id, map[string]any{
		"status":       domain.StatusInProgress,
		"fulfilled_at": nil,
	})
}

// UpsertRemote implements EventSink for remote INSERT events. The notify
// observer fires unless the insertion happened within the suppression window
// of a local creation (the actor's own echo) or confirms a pending
// optimistic record.
func (r *Reconciler) UpsertRemote(note domain.StaffNote) {
	r.mu.Lock()
	_, pendingEcho := r.pending[note.ClientToken]
	_, existed := r.table[note.ID]
	r.foldLocked(note)
	suppress := pendingEcho || r.now().Sub(r.lastLocalCreate) < r.suppress
	fn := r.onNew
	r.mu.Unlock()

	if existed {
		return
	}
	if suppress || fn == nil {
		newRequestNotifications.WithLabelValues("suppressed").Inc()
		return
	}
	newRequestNotifications.WithLabelValues("delivered").Inc()
	fn(note)
}

// MergeRemote implements EventSink for remote UPDATE events. The payload is
// the row as written and replaces the stored columns; the guest join is
// preserved since change payloads do not carry it. Updates for ids not in the
// view are ignored (the next snapshot refresh picks the row up).
func (r *Reconciler) MergeRemote(note domain.StaffNote) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.table[note.ID]
	if !ok {
		return
	}
	if note.Guest == nil {
		note.Guest = cur.Guest
	}
	r.table[note.ID] = note
}

// RemoveRemote implements EventSink for remote DELETE events. This is the
// only path that removes a record from the view.
func (r *Reconciler) RemoveRemote(id string) {
	r.mu.Lock()
	delete(r.table, id)
	r.mu.Unlock()
}

// Size returns the number of records currently in the merged view.
func (r *Reconciler) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.table)
}
