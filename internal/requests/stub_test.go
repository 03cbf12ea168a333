package requests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
	"github.com/velin-hotels/hotel-sync-backend/internal/feed"
)

// fakeBackend is a stateful in-memory Backend. Default behavior: user "u1"
// with a staff profile in hotel "h1", notes held in an in-memory slice, and a
// real feed.Broker for subscriptions. Individual operations can be overridden
// with the *Fn hooks.
type fakeBackend struct {
	mu sync.Mutex

	user       string
	userErr    error
	profile    *domain.HotelStaff
	profileErr error

	notes []domain.StaffNote

	queryFn  func(ctx context.Context, hotelID string, f Filter) ([]domain.StaffNote, error)
	getFn    func(hotelID, id string) (*domain.StaffNote, error)
	guestFn  func(hotelID, roomNumber, lastName string) (string, error)
	insertFn func(note *domain.StaffNote) (*domain.StaffNote, error)
	updateFn func(hotelID, id string, fields map[string]any) (*domain.StaffNote, error)
	deleteFn func(hotelID, id string) error

	broker       *feed.Broker
	subscribeErr error
	subscribes   int
	unsubscribes int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		user:    "u1",
		profile: &domain.HotelStaff{ID: "s1", UserID: "u1", HotelID: "h1", Name: "Maria"},
		broker:  feed.NewBroker(),
	}
}

func (b *fakeBackend) CurrentUser(context.Context) (string, error) {
	if b.userErr != nil {
		return "", b.userErr
	}
	return b.user, nil
}

func (b *fakeBackend) StaffProfile(context.Context, string) (*domain.HotelStaff, error) {
	if b.profileErr != nil {
		return nil, b.profileErr
	}
	return b.profile, nil
}

func (b *fakeBackend) QueryRequests(ctx context.Context, hotelID string, f Filter) ([]domain.StaffNote, error) {
	if b.queryFn != nil {
		return b.queryFn(ctx, hotelID, f)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.StaffNote, 0, len(b.notes))
	for _, n := range b.notes {
		if n.HotelID == hotelID && f.Matches(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (b *fakeBackend) GetRequest(_ context.Context, hotelID, id string) (*domain.StaffNote, error) {
	if b.getFn != nil {
		return b.getFn(hotelID, id)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.notes {
		if b.notes[i].HotelID == hotelID && b.notes[i].ID == id {
			n := b.notes[i]
			return &n, nil
		}
	}
	return nil, ErrNotFound
}

func (b *fakeBackend) FindOrCreateGuest(_ context.Context, hotelID, roomNumber, lastName string) (string, error) {
	if b.guestFn != nil {
		return b.guestFn(hotelID, roomNumber, lastName)
	}
	return "g1", nil
}

func (b *fakeBackend) InsertRequest(_ context.Context, note *domain.StaffNote) (*domain.StaffNote, error) {
	if b.insertFn != nil {
		return b.insertFn(note)
	}
	row := *note
	row.ID = uuid.NewString()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	b.mu.Lock()
	b.notes = append(b.notes, row)
	b.mu.Unlock()
	return &row, nil
}

func (b *fakeBackend) UpdateRequest(_ context.Context, hotelID, id string, fields map[string]any) (*domain.StaffNote, error) {
	if b.updateFn != nil {
		return b.updateFn(hotelID, id, fields)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.notes {
		if b.notes[i].HotelID != hotelID || b.notes[i].ID != id {
			continue
		}
		if s, ok := fields["status"].(string); ok {
			b.notes[i].Status = s
		}
		if v, ok := fields["fulfilled_at"]; ok {
			if ts, ok := v.(time.Time); ok {
				b.notes[i].FulfilledAt = &ts
			} else {
				b.notes[i].FulfilledAt = nil
			}
		}
		n := b.notes[i]
		return &n, nil
	}
	return nil, ErrNotFound
}

func (b *fakeBackend) DeleteRequest(_ context.Context, hotelID, id string) error {
	if b.deleteFn != nil {
		return b.deleteFn(hotelID, id)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.notes {
		if b.notes[i].HotelID == hotelID && b.notes[i].ID == id {
			b.notes = append(b.notes[:i], b.notes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (b *fakeBackend) Subscribe(topic string) (*feed.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribeErr != nil {
		return nil, b.subscribeErr
	}
	b.subscribes++
	return b.broker.Subscribe(topic), nil
}

func (b *fakeBackend) Unsubscribe(sub *feed.Subscription) {
	b.mu.Lock()
	b.unsubscribes++
	b.mu.Unlock()
	b.broker.Unsubscribe(sub)
}

func (b *fakeBackend) subscribeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.subscribes
}

func (b *fakeBackend) seed(notes ...domain.StaffNote) {
	b.mu.Lock()
	b.notes = append(b.notes, notes...)
	b.mu.Unlock()
}

func testLogger() zerolog.Logger { return zerolog.Nop() }

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached in time")
}
