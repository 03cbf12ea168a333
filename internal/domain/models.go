// Package domain defines the persistence models for guest service requests,
// guests, and hotel staff. These types are mapped with GORM and form the core
// data layer of the staff operations backend.
package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Request status lifecycle. Transitions exercised by the application are
// pending/in_progress → completed|cancelled and completed|cancelled →
// in_progress (explicit reactivation). Other transitions are not validated
// here; the database is the final arbiter.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Request priorities. New requests default to PriorityMedium.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// TempIDPrefix marks locally synthesized optimistic records that have not yet
// been confirmed by the backend.
const TempIDPrefix = "temp-"

// StaffNote represents a guest service request tracked through a status
// lifecycle. The name follows the staff-facing vocabulary: every request
// shows up as a note on the staff dashboard.
//
// Fields:
//   - ID: stable UUID primary key (char(36)); "temp-<token>" while optimistic.
//   - HotelID: scoping hotel; all reads and subscriptions are per hotel.
//   - GuestID: the guest the request belongs to (indexed).
//   - RoomNumber: denormalized room number for display and filtering.
//   - NoteContent: free-text description of the request.
//   - Department / IntentType: routing metadata (housekeeping, maintenance, …).
//   - Priority: low | medium | high.
//   - Status: pending | in_progress | completed | cancelled.
//   - CreatedByName: display name of the staff member who created the note.
//   - CreatedByStaffID: optional staff row reference (nullable).
//   - ClientToken: client-generated correlation id carried through creation so
//     optimistic inserts can be matched to their confirmed rows.
//   - IsActive: logical liveness flag; rows are never purged by status change.
//   - FulfilledAt: stamped when the request is completed, cleared on
//     reactivation (nullable).
type StaffNote struct {
	ID               string         `json:"id"                  gorm:"type:char(36);primaryKey"`
	HotelID          string         `json:"hotel_id"            gorm:"type:char(36);not null;index:idx_hotel_notes,priority:1"`
	GuestID          string         `json:"guest_id"            gorm:"type:char(36);not null;index"`
	RoomNumber       string         `json:"room_number"         gorm:"type:varchar(16);not null"`
	NoteContent      string         `json:"note_content"        gorm:"type:text;not null"`
	Department       string         `json:"department"          gorm:"type:varchar(64);not null;index"`
	IntentType       string         `json:"intent_type"         gorm:"type:varchar(64)"`
	Priority         string         `json:"priority"            gorm:"type:varchar(16);not null;default:'medium';check:priority IN ('low','medium','high')"`
	Status           string         `json:"status"              gorm:"type:varchar(16);not null;index;check:status IN ('pending','in_progress','completed','cancelled')"`
	CreatedByName    string         `json:"created_by_name"     gorm:"type:varchar(255)"`
	CreatedByStaffID *string        `json:"created_by_staff_id" gorm:"type:char(36)"`
	ClientToken      string         `json:"-"                   gorm:"type:char(36);index"`
	IsActive         bool           `json:"is_active"           gorm:"not null;default:true"`
	CreatedAt        time.Time      `json:"created_at"          gorm:"index:idx_hotel_notes,priority:2"`
	UpdatedAt        time.Time      `json:"updated_at"`
	FulfilledAt      *time.Time     `json:"fulfilled_at"`
	DeletedAt        gorm.DeletedAt `json:"-"                   gorm:"index"`

	// Guest carries the joined guest display fields (room number, last name).
	// Loaded with Preload on reads; nil on bare change-event payloads.
	Guest *Guest `json:"guest,omitempty" gorm:"foreignKey:GuestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for StaffNote.
func (StaffNote) TableName() string { return "staff_notes" }

// IsTemp reports whether the note is a locally synthesized optimistic record.
func (n StaffNote) IsTemp() bool { return strings.HasPrefix(n.ID, TempIDPrefix) }

// Guest represents a hotel guest identified within a hotel by room number and
// last name. Guests are created lazily the first time a request is filed for
// them (find-or-create semantics).
type Guest struct {
	ID         string         `json:"id"          gorm:"type:char(36);primaryKey"`
	HotelID    string         `json:"hotel_id"    gorm:"type:char(36);not null;uniqueIndex:ux_guest_identity,priority:1"`
	RoomNumber string         `json:"room_number" gorm:"type:varchar(16);not null;uniqueIndex:ux_guest_identity,priority:2"`
	LastName   string         `json:"last_name"   gorm:"type:varchar(255);not null;uniqueIndex:ux_guest_identity,priority:3"`
	UserID     string         `json:"-"           gorm:"type:varchar(64)"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for Guest.
func (Guest) TableName() string { return "guests" }

// HotelStaff associates an authenticated user with a hotel and a display name.
// Exactly one row per user is expected; a missing row means the identity has
// no hotel association and the session is unusable.
type HotelStaff struct {
	ID        string         `json:"id"       gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"  gorm:"type:varchar(64);not null;uniqueIndex"`
	HotelID   string         `json:"hotel_id" gorm:"type:char(36);not null;index"`
	Name      string         `json:"name"     gorm:"type:varchar(255);not null"`
	Role      string         `json:"role"     gorm:"type:varchar(32);not null;default:'staff'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"        gorm:"index"`
}

// TableName returns the database table name for HotelStaff.
func (HotelStaff) TableName() string { return "hotel_staff" }
