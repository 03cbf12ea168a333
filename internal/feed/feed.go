// Package feed implements the in-process change feed for staff notes. The
// repository layer publishes INSERT/UPDATE/DELETE events after successful
// writes; the realtime feed adapter consumes them through per-hotel topics.
//
// Delivery semantics: events for a topic are delivered to each subscriber in
// publish order. Delivery is at-least-once from the consumer's point of view;
// deduplication by record id is the consumer's job. A slow subscriber whose
// buffer fills up loses events rather than blocking writers; the periodic
// snapshot refresh reconciles any resulting drift.
package feed

import (
	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
)

// Op identifies the kind of change an Event describes.
type Op string

// Change operations, mirroring row-level database changes.
const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Event is a single change notification for one staff note.
//
// For INSERT and UPDATE, Note carries the row as written (without the guest
// join; consumers needing guest display fields re-read the record by id).
// For DELETE, only NoteID is populated.
type Event struct {
	Op      Op
	HotelID string
	NoteID  string
	Note    *domain.StaffNote
}

// Topic returns the subscription topic for a hotel's staff note changes.
// One topic exists per hotel.
func Topic(hotelID string) string { return "staff_notes:" + hotelID }
