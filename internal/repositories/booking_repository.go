package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"tripmate/internal/models/db_models"
)

type BookingRepository interface {
	SaveBooking(ctx context.Context, booking *db_models.Booking) error
	FindBooking(ctx context.Context, userID, bookingID string) (*db_models.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]db_models.Booking, error)
	SavePayment(ctx context.Context, payment *db_models.Payment) error
	FindPayment(ctx context.Context, userID, paymentID string) (*db_models.Payment, error)
}

type bookingRepository struct {
	store DocumentStore
}

func NewBookingRepository(store DocumentStore) BookingRepository {
	return &bookingRepository{store: store}
}

func (r *bookingRepository) SaveBooking(ctx context.Context, booking *db_models.Booking) error {
	p, err := JoinPath("bookings", booking.UserID, booking.ID)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, p, booking)
}

func (r *bookingRepository) FindBooking(ctx context.Context, userID, bookingID string) (*db_models.Booking, error) {
	p, err := JoinPath("bookings", userID, bookingID)
	if err != nil {
		return nil, err
	}
	var b db_models.Booking
	found, err := r.store.Get(ctx, p, &b)
	if err != nil || !found {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) ListBookings(ctx context.Context, userID string) ([]db_models.Booking, error) {
	p, err := JoinPath("bookings", userID)
	if err != nil {
		return nil, err
	}
	children, err := r.store.Children(ctx, p)
	if err != nil {
		return nil, err
	}

	bookings := make([]db_models.Booking, 0, len(children))
	for id, raw := range children {
		var b db_models.Booking
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("failed to decode booking %s: %w", id, err)
		}
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (r *bookingRepository) SavePayment(ctx context.Context, payment *db_models.Payment) error {
	p, err := JoinPath("payments", payment.UserID, payment.ID)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, p, payment)
}

func (r *bookingRepository) FindPayment(ctx context.Context, userID, paymentID string) (*db_models.Payment, error) {
	p, err := JoinPath("payments", userID, paymentID)
	if err != nil {
		return nil, err
	}
	var pay db_models.Payment
	found, err := r.store.Get(ctx, p, &pay)
	if err != nil || !found {
		return nil, err
	}
	return &pay, nil
}
