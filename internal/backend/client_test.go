package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/velin-hotels/hotel-sync-backend/internal/domain"
	"github.com/velin-hotels/hotel-sync-backend/internal/feed"
	"github.com/velin-hotels/hotel-sync-backend/internal/repo"
	"github.com/velin-hotels/hotel-sync-backend/internal/requests"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewClient(db, feed.NewBroker())
}

func recvEvent(t *testing.T, sub *feed.Subscription) feed.Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		if !ok {
			t.Fatalf("subscription closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return feed.Event{}
}

func TestCurrentUser(t *testing.T) {
	c := newTestClient(t)

	if _, err := c.CurrentUser(context.Background()); !errors.Is(err, requests.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	uid, err := c.CurrentUser(WithUser(context.Background(), "u1"))
	if err != nil || uid != "u1" {
		t.Fatalf("got (%q, %v)", uid, err)
	}
}

func TestStaffProfile(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if _, err := c.StaffProfile(ctx, "nobody"); !errors.Is(err, requests.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	if err := c.DB.Create(&domain.HotelStaff{ID: "s1", UserID: "u1", HotelID: "h1", Name: "Maria"}).Error; err != nil {
		t.Fatalf("seed staff: %v", err)
	}
	p, err := c.StaffProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("StaffProfile: %v", err)
	}
	if p.HotelID != "h1" || p.Name != "Maria" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestInsertRequest_PublishesAndJoins(t *testing.T) {
	c := newTestClient(t)
	ctx := WithUser(context.Background(), "u1")

	guestID, err := c.FindOrCreateGuest(ctx, "h1", "412", "Papadopoulos")
	if err != nil {
		t.Fatalf("FindOrCreateGuest: %v", err)
	}

	sub, _ := c.Subscribe(feed.Topic("h1"))
	defer c.Unsubscribe(sub)

	stored, err := c.InsertRequest(ctx, &domain.StaffNote{
		HotelID:     "h1",
		GuestID:     guestID,
		RoomNumber:  "412",
		NoteContent: "Extra towels",
		Department:  "housekeeping",
		Priority:    domain.PriorityMedium,
		Status:      domain.StatusInProgress,
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("InsertRequest: %v", err)
	}
	if stored.ID == "" || stored.IsTemp() {
		t.Fatalf("id not assigned: %+v", stored)
	}
	if stored.Guest == nil || stored.Guest.LastName != "Papadopoulos" {
		t.Fatalf("guest not joined on the returned row: %+v", stored)
	}
	if stored.CreatedAt.IsZero() {
		t.Fatalf("created_at not stamped")
	}

	ev := recvEvent(t, sub)
	if ev.Op != feed.OpInsert || ev.NoteID != stored.ID || ev.HotelID != "h1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestQueryAndGetRequest_HotelScoped(t *testing.T) {
	c := newTestClient(t)
	ctx := WithUser(context.Background(), "u1")

	gid, err := c.FindOrCreateGuest(ctx, "h1", "101", "Smith")
	if err != nil {
		t.Fatalf("guest: %v", err)
	}
	stored, err := c.InsertRequest(ctx, &domain.StaffNote{
		HotelID: "h1", GuestID: gid, RoomNumber: "101",
		NoteContent: "AC", Department: "maintenance",
		Priority: domain.PriorityHigh, Status: domain.StatusInProgress, IsActive: true,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := c.QueryRequests(ctx, "h1", requests.Filter{Department: "maintenance"})
	if err != nil || len(got) != 1 || got[0].ID != stored.ID {
		t.Fatalf("query: %+v err=%v", got, err)
	}
	if other, err := c.QueryRequests(ctx, "h2", requests.Filter{}); err != nil || len(other) != 0 {
		t.Fatalf("foreign hotel must see nothing: %+v err=%v", other, err)
	}

	if _, err := c.GetRequest(ctx, "h2", stored.ID); !errors.Is(err, requests.ErrNotFound) {
		t.Fatalf("cross-hotel read must be ErrNotFound, got %v", err)
	}
	n, err := c.GetRequest(ctx, "h1", stored.ID)
	if err != nil || n.Guest == nil {
		t.Fatalf("get: %+v err=%v", n, err)
	}
}

func TestUpdateRequest_PublishesRow(t *testing.T) {
	c := newTestClient(t)
	ctx := WithUser(context.Background(), "u1")

	gid, _ := c.FindOrCreateGuest(ctx, "h1", "101", "Smith")
	stored, err := c.InsertRequest(ctx, &domain.StaffNote{
		HotelID: "h1", GuestID: gid, RoomNumber: "101",
		NoteContent: "AC", Department: "maintenance",
		Priority: domain.PriorityMedium, Status: domain.StatusInProgress, IsActive: true,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	sub, _ := c.Subscribe(feed.Topic("h1"))
	defer c.Unsubscribe(sub)

	n, err := c.UpdateRequest(ctx, "h1", stored.ID, map[string]any{"status": domain.StatusCompleted})
	if err != nil {
		t.Fatalf("UpdateRequest: %v", err)
	}
	if n.Status != domain.StatusCompleted {
		t.Fatalf("status not applied: %+v", n)
	}

	ev := recvEvent(t, sub)
	if ev.Op != feed.OpUpdate || ev.NoteID != stored.ID || ev.Note == nil || ev.Note.Status != domain.StatusCompleted {
		t.Fatalf("unexpected event: %+v", ev)
	}

	if _, err := c.UpdateRequest(ctx, "h1", "ghost", map[string]any{"status": domain.StatusPending}); !errors.Is(err, requests.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRequest_PublishesDelete(t *testing.T) {
	c := newTestClient(t)
	ctx := WithUser(context.Background(), "u1")

	gid, _ := c.FindOrCreateGuest(ctx, "h1", "101", "Smith")
	stored, err := c.InsertRequest(ctx, &domain.StaffNote{
		HotelID: "h1", GuestID: gid, RoomNumber: "101",
		NoteContent: "AC", Department: "maintenance",
		Priority: domain.PriorityMedium, Status: domain.StatusInProgress, IsActive: true,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	sub, _ := c.Subscribe(feed.Topic("h1"))
	defer c.Unsubscribe(sub)

	if err := c.DeleteRequest(ctx, "h1", stored.ID); err != nil {
		t.Fatalf("DeleteRequest: %v", err)
	}
	ev := recvEvent(t, sub)
	if ev.Op != feed.OpDelete || ev.NoteID != stored.ID {
		t.Fatalf("unexpected event: %+v", ev)
	}

	if _, err := c.GetRequest(ctx, "h1", stored.ID); !errors.Is(err, requests.ErrNotFound) {
		t.Fatalf("deleted row must be gone, got %v", err)
	}
	if err := c.DeleteRequest(ctx, "h1", stored.ID); !errors.Is(err, requests.ErrNotFound) {
		t.Fatalf("second delete must be ErrNotFound, got %v", err)
	}
}

func TestFindOrCreateGuest_RecordsCreator(t *testing.T) {
	c := newTestClient(t)

	id1, err := c.FindOrCreateGuest(WithUser(context.Background(), "u1"), "h1", "101", "Smith")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id2, err := c.FindOrCreateGuest(context.Background(), "h1", "101", "Smith")
	if err != nil || id2 != id1 {
		t.Fatalf("find must return the same guest: %q vs %q (err=%v)", id2, id1, err)
	}

	var g domain.Guest
	if err := c.DB.First(&g, "id = ?", id1).Error; err != nil {
		t.Fatalf("load guest: %v", err)
	}
	if g.UserID != "u1" {
		t.Fatalf("creator not recorded: %+v", g)
	}
}
