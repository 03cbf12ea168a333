// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Guest model.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
)

// FindGuest looks up a guest by hotel, room number, and last name. Returns
// ErrNotFound when no such guest exists.
func FindGuest(ctx context.Context, db *gorm.DB, hotelID, roomNumber, lastName string) (*domain.Guest, error) {
	var g domain.Guest
	err := db.WithContext(ctx).
		Where("hotel_id = ? AND room_number = ? AND last_name = ?", hotelID, roomNumber, lastName).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGuest inserts a new guest row with a generated UUID and UTC timestamp.
// userID records which authenticated identity created the row.
func CreateGuest(ctx context.Context, db *gorm.DB, hotelID, roomNumber, lastName, userID string) (*domain.Guest, error) {
	g := &domain.Guest{
		ID:         uuid.NewString(),
		HotelID:    hotelID,
		RoomNumber: roomNumber,
		LastName:   lastName,
		UserID:     userID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// FindOrCreateGuest resolves the guest identified by (hotel, room, last name),
// creating the row when absent. Concurrent creators may race on the unique
// identity index; the loser re-reads the winner's row.
func FindOrCreateGuest(ctx context.Context, db *gorm.DB, hotelID, roomNumber, lastName, userID string) (*domain.Guest, error) {
	g, err := FindGuest(ctx, db, hotelID, roomNumber, lastName)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	g, err = CreateGuest(ctx, db, hotelID, roomNumber, lastName, userID)
	if err == nil {
		return g, nil
	}
	// Unique constraint race: another caller created the guest first.
	if existing, ferr := FindGuest(ctx, db, hotelID, roomNumber, lastName); ferr == nil {
		return existing, nil
	}
	return nil, err
}
