// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the HotelStaff
// model (staff profile lookup).
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
)

// GetStaffProfile fetches the staff profile row for an authenticated user id.
// Returns ErrNotFound when the identity has no hotel association.
func GetStaffProfile(ctx context.Context, db *gorm.DB, userID string) (*domain.HotelStaff, error) {
	var s domain.HotelStaff
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
