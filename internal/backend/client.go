// Package backend implements the managed-backend client surface the
// synchronization core consumes (requests.Backend): identity resolution,
// hotel scoping, request queries and mutations, guest find-or-create, and
// change subscriptions. Persistence is GORM over SQLite; change events come
// from the in-process feed broker, published here after successful writes so
// subscribers observe every mutation.
package backend

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
	"github.com/velin-hotels/hotel-sync-backend/internal/feed"
	"github.com/velin-hotels/hotel-sync-backend/internal/repo"
	"github.com/velin-hotels/hotel-sync-backend/internal/requests"
)

// userKey is the context key under which the authenticated user id travels.
type userKey struct{}

// WithUser returns a context carrying the authenticated user id. The HTTP
// layer attaches it after authentication; CurrentUser reads it back.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFrom extracts the authenticated user id from the context, if any.
func UserFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(userKey{}).(string)
	return s, ok && s != ""
}

// Client implements requests.Backend on GORM plus the in-process change feed.
type Client struct {
	DB   *gorm.DB
	Feed *feed.Broker
}

// NewClient constructs a Client.
func NewClient(db *gorm.DB, broker *feed.Broker) *Client {
	return &Client{DB: db, Feed: broker}
}

// CurrentUser resolves the authenticated user id from the context.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	uid, ok := UserFrom(ctx)
	if !ok {
		return "", requests.ErrNotAuthenticated
	}
	return uid, nil
}

// StaffProfile returns the staff profile for a user id.
func (c *Client) StaffProfile(ctx context.Context, userID string) (*domain.HotelStaff, error) {
	profile, err := repo.GetStaffProfile(ctx, c.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, requests.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// QueryRequests returns the hotel's requests matching the filter, ordered by
// creation time descending, with guest display fields joined.
func (c *Client) QueryRequests(ctx context.Context, hotelID string, f requests.Filter) ([]domain.StaffNote, error) {
	return repo.ListNotes(ctx, c.DB, hotelID, repo.NoteFilter{
		Status:     f.Status,
		Department: f.Department,
	})
}

// GetRequest fetches one denormalized request by id within the hotel.
func (c *Client) GetRequest(ctx context.Context, hotelID, id string) (*domain.StaffNote, error) {
	n, err := repo.GetNote(ctx, c.DB, hotelID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, requests.ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

// FindOrCreateGuest resolves the guest identified by hotel, room number, and
// last name, creating the row when absent. The creating identity, when
// present in the context, is recorded on new rows.
func (c *Client) FindOrCreateGuest(ctx context.Context, hotelID, roomNumber, lastName string) (string, error) {
	userID, _ := UserFrom(ctx)
	g, err := repo.FindOrCreateGuest(ctx, c.DB, hotelID, roomNumber, lastName, userID)
	if err != nil {
		return "", err
	}
	return g.ID, nil
}

// InsertRequest persists a new request row, assigns its id, publishes the
// INSERT change event, and returns the stored row with guest fields joined.
func (c *Client) InsertRequest(ctx context.Context, note *domain.StaffNote) (*domain.StaffNote, error) {
	row := *note
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	row.Guest = nil
	if _, err := repo.CreateNote(ctx, c.DB, &row); err != nil {
		return nil, err
	}

	c.Feed.Publish(feed.Topic(row.HotelID), feed.Event{
		Op:      feed.OpInsert,
		HotelID: row.HotelID,
		NoteID:  row.ID,
		Note:    &row,
	})

	return repo.GetNote(ctx, c.DB, row.HotelID, row.ID)
}

// UpdateRequest applies column updates to a request within the hotel,
// publishes the UPDATE change event with the row as written, and returns the
// refreshed row.
func (c *Client) UpdateRequest(ctx context.Context, hotelID, id string, fields map[string]any) (*domain.StaffNote, error) {
	n, err := repo.UpdateNote(ctx, c.DB, hotelID, id, fields)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, requests.ErrNotFound
		}
		return nil, err
	}

	c.Feed.Publish(feed.Topic(hotelID), feed.Event{
		Op:      feed.OpUpdate,
		HotelID: hotelID,
		NoteID:  id,
		Note:    n,
	})
	return n, nil
}

// DeleteRequest soft-deletes a request and publishes the DELETE change event.
// Deletion is the only change that removes a record from subscribers' views.
func (c *Client) DeleteRequest(ctx context.Context, hotelID, id string) error {
	if err := repo.DeleteNote(ctx, c.DB, hotelID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return requests.ErrNotFound
		}
		return err
	}
	c.Feed.Publish(feed.Topic(hotelID), feed.Event{
		Op:      feed.OpDelete,
		HotelID: hotelID,
		NoteID:  id,
	})
	return nil
}

// Subscribe opens a change subscription on a topic.
func (c *Client) Subscribe(topic string) (*feed.Subscription, error) {
	return c.Feed.Subscribe(topic), nil
}

// Unsubscribe releases a subscription. Safe to call more than once.
func (c *Client) Unsubscribe(sub *feed.Subscription) {
	c.Feed.Unsubscribe(sub)
}
