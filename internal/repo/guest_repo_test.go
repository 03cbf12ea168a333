package repo

import (
	"context"
	"testing"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
)

func TestFindGuest_NotFound(t *testing.T) {
	db := newNoteRepoDB(t, &domain.Guest{})
	if _, err := FindGuest(context.Background(), db, "h1", "101", "Smith"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateGuest_PersistsFields(t *testing.T) {
	db := newNoteRepoDB(t, &domain.Guest{})
	ctx := context.Background()

	g, err := CreateGuest(ctx, db, "h1", "412", "Papadopoulos", "u1")
	if err != nil {
		t.Fatalf("CreateGuest: %v", err)
	}
	if g.ID == "" || g.HotelID != "h1" || g.RoomNumber != "412" || g.LastName != "Papadopoulos" || g.UserID != "u1" {
		t.Fatalf("unexpected guest fields: %+v", g)
	}

	got, err := FindGuest(ctx, db, "h1", "412", "Papadopoulos")
	if err != nil || got.ID != g.ID {
		t.Fatalf("FindGuest after create: %v %+v", err, got)
	}
}

func TestCreateGuest_UniqueIdentityEnforced(t *testing.T) {
	db := newNoteRepoDB(t, &domain.Guest{})
	ctx := context.Background()

	if _, err := CreateGuest(ctx, db, "h1", "412", "Papadopoulos", "u1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := CreateGuest(ctx, db, "h1", "412", "Papadopoulos", "u2"); err == nil {
		t.Fatalf("expected unique violation on duplicate identity")
	}
	// Same room, different last name is a different guest.
	if _, err := CreateGuest(ctx, db, "h1", "412", "Ioannou", "u1"); err != nil {
		t.Fatalf("distinct last name should create: %v", err)
	}
}

func TestFindOrCreateGuest_ReturnsExisting(t *testing.T) {
	db := newNoteRepoDB(t, &domain.Guest{})
	ctx := context.Background()

	first, err := FindOrCreateGuest(ctx, db, "h1", "412", "Papadopoulos", "u1")
	if err != nil {
		t.Fatalf("first FindOrCreateGuest: %v", err)
	}
	second, err := FindOrCreateGuest(ctx, db, "h1", "412", "Papadopoulos", "u2")
	if err != nil {
		t.Fatalf("second FindOrCreateGuest: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same guest row, got %q vs %q", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&domain.Guest{}).Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("expected exactly one guest row, count=%d err=%v", count, err)
	}
}

func TestGetStaffProfile_FoundAndNotFound(t *testing.T) {
	db := newNoteRepoDB(t, &domain.HotelStaff{})
	ctx := context.Background()

	if _, err := GetStaffProfile(ctx, db, "u1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	seed := &domain.HotelStaff{ID: "s1", UserID: "u1", HotelID: "h1", Name: "Maria", Role: "staff"}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("seed staff: %v", err)
	}

	got, err := GetStaffProfile(ctx, db, "u1")
	if err != nil || got.HotelID != "h1" || got.Name != "Maria" {
		t.Fatalf("GetStaffProfile: %v %+v", err, got)
	}
}
