package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripmate/internal/models/db_models"
	"tripmate/pkg/utils"
)

func TestTripRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewTripRepository(NewMemoryStore())
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "newest", "middle"} {
		offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
		trip := &db_models.Trip{ID: id, UserID: "u1", Destination: "Goa", CreatedAt: base.Add(offsets[i])}
		if err := repo.Save(ctx, trip); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	_ = repo.Save(ctx, &db_models.Trip{ID: "other", UserID: "u2", CreatedAt: base})

	trips, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	var ids []string
	for _, tr := range trips {
		ids = append(ids, tr.ID)
	}
	if len(ids) != 3 || ids[0] != "newest" || ids[1] != "middle" || ids[2] != "old" {
		t.Errorf("order = %v", ids)
	}
}

func TestTripRepositoryFindAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewTripRepository(NewMemoryStore())

	got, err := repo.FindByID(ctx, "u1", "missing")
	if err != nil || got != nil {
		t.Fatalf("FindByID missing = %v, %v", got, err)
	}

	_ = repo.Save(ctx, &db_models.Trip{ID: "t1", UserID: "u1", Destination: "Jaipur", Status: db_models.TripStatusPlanning})
	if err := repo.UpdateFields(ctx, "u1", "t1", map[string]any{"status": db_models.TripStatusPlanned}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err = repo.FindByID(ctx, "u1", "t1")
	if err != nil || got == nil {
		t.Fatalf("FindByID = %v, %v", got, err)
	}
	if got.Status != db_models.TripStatusPlanned || got.Destination != "Jaipur" {
		t.Errorf("trip = %+v", got)
	}

	if err := repo.Delete(ctx, "u1", "t1"); err != nil {
		t.Fatal(err)
	}
	if got, _ := repo.FindByID(ctx, "u1", "t1"); got != nil {
		t.Error("trip not deleted")
	}
}

func TestAccountRepositoryEmailIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(NewMemoryStore())

	acc := &db_models.Account{ID: "a1", Name: "Ada", Email: "Ada@Example.com"}
	if err := repo.Insert(ctx, acc); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, err := repo.FindByEmail(ctx, "  ada@example.COM")
	if err != nil || got == nil || got.ID != "a1" {
		t.Fatalf("FindByEmail = %+v, %v", got, err)
	}

	dup := &db_models.Account{ID: "a2", Email: "ada@example.com"}
	if err := repo.Insert(ctx, dup); !errors.Is(err, utils.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
	if got, _ := repo.FindById(ctx, "a2"); got != nil {
		t.Error("duplicate account was stored")
	}
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(NewMemoryStore())
	now := time.Now()

	_ = repo.SaveBooking(ctx, &db_models.Booking{ID: "b1", UserID: "u1", CreatedAt: now.Add(-time.Hour)})
	_ = repo.SaveBooking(ctx, &db_models.Booking{ID: "b2", UserID: "u1", CreatedAt: now})

	list, err := repo.ListBookings(ctx, "u1")
	if err != nil || len(list) != 2 || list[0].ID != "b2" {
		t.Fatalf("ListBookings = %+v, %v", list, err)
	}

	if err := repo.SavePayment(ctx, &db_models.Payment{ID: "p1", UserID: "u1", CardLast4: "4242"}); err != nil {
		t.Fatal(err)
	}
	pay, err := repo.FindPayment(ctx, "u1", "p1")
	if err != nil || pay == nil || pay.CardLast4 != "4242" {
		t.Fatalf("FindPayment = %+v, %v", pay, err)
	}
}
