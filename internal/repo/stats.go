// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides lightweight aggregate queries used for
// conditional responses (ETag) on the request list endpoint.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
)

// NotesStats returns the row count and the most recent updated_at for a
// hotel's staff notes. Both values together act as a cheap change token: any
// insert, update, or delete moves at least one of them.
//
// maxTS is nil when the hotel has no notes.
func NotesStats(ctx context.Context, db *gorm.DB, hotelID string) (count int64, maxTS *time.Time, err error) {
	if err = db.WithContext(ctx).
		Model(&domain.StaffNote{}).
		Where("hotel_id = ?", hotelID).
		Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		Max time.Time
	}
	err = db.WithContext(ctx).
		Model(&domain.StaffNote{}).
		Select("MAX(updated_at) AS max").
		Where("hotel_id = ?", hotelID).
		Scan(&row).Error
	if err != nil {
		return count, nil, err
	}
	return count, &row.Max, nil
}
