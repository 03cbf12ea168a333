// Package requests – backend contract.
//
// The synchronization core is a consumer of a managed backend's client API.
// This file defines that contract from the consumer side; the concrete
// implementation (GORM over SQLite plus the in-process change feed) lives in
// internal/backend and satisfies this interface implicitly.
package requests

import (
	"context"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
	"github.com/velin-hotels/hotel-sync-backend/internal/feed"
)

// Filter narrows a request list by status and/or department. An empty value
// or the literal "all" leaves the corresponding dimension unfiltered.
type Filter struct {
	Status     string
	Department string
}

// Matches reports whether a note passes the filter.
func (f Filter) Matches(n domain.StaffNote) bool {
	if f.Status != "" && f.Status != "all" && n.Status != f.Status {
		return false
	}
	if f.Department != "" && f.Department != "all" && n.Department != f.Department {
		return false
	}
	return true
}

// Backend is the collaborator surface the synchronization core depends on.
// Implementations must be safe for concurrent use and honor the provided
// context for cancellation.
type Backend interface {
	// CurrentUser resolves the authenticated user id from the context.
	// Fails with ErrNotAuthenticated when no identity is present.
	CurrentUser(ctx context.Context) (string, error)

	// StaffProfile returns the staff profile (hotel id, display name) for a
	// user id. Fails with ErrProfileNotFound when no profile row exists.
	StaffProfile(ctx context.Context, userID string) (*domain.HotelStaff, error)

	// QueryRequests returns the hotel's requests matching the filter, ordered
	// by creation time descending, with guest display fields joined.
	QueryRequests(ctx context.Context, hotelID string, f Filter) ([]domain.StaffNote, error)

	// GetRequest fetches one denormalized request (guest fields joined) by id.
	// Fails with ErrNotFound when the record does not exist in the hotel.
	GetRequest(ctx context.Context, hotelID, id string) (*domain.StaffNote, error)

	// FindOrCreateGuest resolves the guest identified by hotel, room number,
	// and last name, creating the row when absent, and returns the guest id.
	FindOrCreateGuest(ctx context.Context, hotelID, roomNumber, lastName string) (string, error)

	// InsertRequest persists a new request row (the backend assigns the id)
	// and returns the stored row with guest fields joined.
	InsertRequest(ctx context.Context, note *domain.StaffNote) (*domain.StaffNote, error)

	// UpdateRequest applies column updates to a request within the hotel and
	// returns the refreshed row. Fails with ErrNotFound for missing rows.
	UpdateRequest(ctx context.Context, hotelID, id string, fields map[string]any) (*domain.StaffNote, error)

	// DeleteRequest removes a request from the hotel. Fails with ErrNotFound
	// when the record does not exist.
	DeleteRequest(ctx context.Context, hotelID, id string) error

	// Subscribe opens a change subscription on a topic. Events are delivered
	// asynchronously in publish order, at-least-once.
	Subscribe(topic string) (*feed.Subscription, error)

	// Unsubscribe releases a subscription. Safe to call more than once.
	Unsubscribe(sub *feed.Subscription)
}
