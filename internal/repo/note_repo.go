// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the StaffNote
// model (guest service requests).
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a note is not found, functions return ErrNotFound
//     (an alias of gorm.ErrRecordNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// NoteFilter narrows ListNotes results. The zero value (or "all") leaves the
// corresponding column unfiltered.
type NoteFilter struct {
	Status     string
	Department string
}

// CreateNote inserts a new staff note row. The caller supplies the full row
// (id, hotel scope, guest reference, content, routing metadata); CreatedAt is
// set to UTC when unset.
//
// On success, it returns the persisted note. On failure, it returns a DB error.
func CreateNote(ctx context.Context, db *gorm.DB, n *domain.StaffNote) (*domain.StaffNote, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotes returns all notes for hotelID matching the filter, ordered by
// creation time descending (most recent first), with the guest display
// fields preloaded. An empty hotel returns an empty slice.
func ListNotes(ctx context.Context, db *gorm.DB, hotelID string, f NoteFilter) ([]domain.StaffNote, error) {
	q := db.WithContext(ctx).
		Preload("Guest").
		Where("hotel_id = ?", hotelID).
		Order("created_at desc")
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Department != "" && f.Department != "all" {
		q = q.Where("department = ?", f.Department)
	}
	var out []domain.StaffNote
	err := q.Find(&out).Error
	return out, err
}

// GetNote fetches a single note by id within hotelID, with the guest join
// preloaded. Returns ErrNotFound when the record does not exist.
func GetNote(ctx context.Context, db *gorm.DB, hotelID, id string) (*domain.StaffNote, error) {
	var n domain.StaffNote
	err := db.WithContext(ctx).
		Preload("Guest").
		Where("id = ? AND hotel_id = ?", id, hotelID).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNote applies the given column updates to a note identified by id
// within hotelID and returns the refreshed row (without guest join). If no
// rows are affected it returns ErrNotFound.
func UpdateNote(ctx context.Context, db *gorm.DB, hotelID, id string, fields map[string]any) (*domain.StaffNote, error) {
	res := db.WithContext(ctx).
		Model(&domain.StaffNote{}).
		Where("id = ? AND hotel_id = ?", id, hotelID).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var n domain.StaffNote
	if err := db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteNote soft-deletes a note by id within hotelID. If no rows are
// affected it returns ErrNotFound.
func DeleteNote(ctx context.Context, db *gorm.DB, hotelID, id string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND hotel_id = ?", id, hotelID).
		Delete(&domain.StaffNote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
