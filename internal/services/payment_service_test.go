package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
	"tripmate/internal/repositories"
	"tripmate/pkg/utils"
)

func validCard() request_models.PayBookingRequest {
	return request_models.PayBookingRequest{
		CardNumber:     "4242 4242 4242 4242",
		ExpiryMonth:    12,
		ExpiryYear:     2099,
		CVC:            "123",
		CardholderName: "Ada Lovelace",
	}
}

func newPaymentFixture() (PaymentService, TripServiceInterface, repositories.BookingRepository) {
	store := repositories.NewMemoryStore()
	tripSvc := NewTripService(repositories.NewTripRepository(store), NewItineraryService(nil, nil, zap.NewNop()), nil, zap.NewNop())
	bookings := repositories.NewBookingRepository(store)
	return NewPaymentService(bookings, tripSvc, zap.NewNop()), tripSvc, bookings
}

func TestBookingAmount(t *testing.T) {
	trip := &db_models.Trip{
		StartDate: parisRequest().StartDate,
		EndDate:   parisRequest().EndDate,
	}
	if got := BookingAmountMinor(trip, 2); got != 4*2*10_000*100 {
		t.Errorf("per-day amount = %d", got)
	}
	budget := 55_000.5
	trip.Budget = &budget
	if got := BookingAmountMinor(trip, 2); got != 5_500_050 {
		t.Errorf("budget amount = %d", got)
	}
}

func TestBookAndPay(t *testing.T) {
	ctx := context.Background()
	pay, trips, bookings := newPaymentFixture()
	trip, err := trips.CreateTrip(ctx, "u1", parisCreate())
	if err != nil {
		t.Fatal(err)
	}

	booking, err := pay.BookTrip(ctx, "u1", trip.ID, request_models.BookTripRequest{})
	if err != nil {
		t.Fatalf("BookTrip: %v", err)
	}
	if booking.Status != db_models.BookingStatusPendingPayment || booking.Travelers != 2 || booking.Currency != "INR" {
		t.Fatalf("booking = %+v", booking)
	}

	receipt, err := pay.PayBooking(ctx, "u1", booking.ID, validCard())
	if err != nil {
		t.Fatalf("PayBooking: %v", err)
	}
	if receipt.Payment.CardLast4 != "4242" || receipt.Payment.Status != db_models.TxnStatusPaid {
		t.Errorf("payment = %+v", receipt.Payment)
	}
	if receipt.Booking.Status != db_models.BookingStatusPaid || receipt.Booking.PaymentID != receipt.Payment.ID {
		t.Errorf("booking = %+v", receipt.Booking)
	}

	stored, _ := trips.GetTrip(ctx, "u1", trip.ID)
	if stored.Status != db_models.TripStatusBooked {
		t.Errorf("trip status = %s", stored.Status)
	}
	if _, err := pay.PayBooking(ctx, "u1", booking.ID, validCard()); !errors.Is(err, utils.ErrBookingAlreadyPaid) {
		t.Errorf("second payment = %v", err)
	}

	list, _ := bookings.ListBookings(ctx, "u1")
	if len(list) != 1 {
		t.Errorf("bookings = %d", len(list))
	}
}

func TestPayBookingRejections(t *testing.T) {
	ctx := context.Background()
	pay, trips, _ := newPaymentFixture()
	trip, _ := trips.CreateTrip(ctx, "u1", parisCreate())
	booking, _ := pay.BookTrip(ctx, "u1", trip.ID, request_models.BookTripRequest{Travelers: 1})

	declined := validCard()
	declined.CardNumber = DeclinedTestCard
	if _, err := pay.PayBooking(ctx, "u1", booking.ID, declined); !errors.Is(err, utils.ErrPaymentDeclined) {
		t.Errorf("declined card = %v", err)
	}

	badLuhn := validCard()
	badLuhn.CardNumber = "4242424242424241"
	if _, err := pay.PayBooking(ctx, "u1", booking.ID, badLuhn); !errors.Is(err, utils.ErrInvalidCard) {
		t.Errorf("bad checksum = %v", err)
	}

	expired := validCard()
	expired.ExpiryYear = 2001
	if _, err := pay.PayBooking(ctx, "u1", booking.ID, expired); !errors.Is(err, utils.ErrInvalidCard) {
		t.Errorf("expired card = %v", err)
	}

	if _, err := pay.PayBooking(ctx, "u2", booking.ID, validCard()); !errors.Is(err, utils.ErrBookingNotFound) {
		t.Errorf("other user's booking = %v", err)
	}
	if _, err := pay.BookTrip(ctx, "u1", "missing", request_models.BookTripRequest{}); !errors.Is(err, utils.ErrTripNotFound) {
		t.Errorf("missing trip = %v", err)
	}

	// The booking is still payable after the failures.
	if _, err := pay.PayBooking(ctx, "u1", booking.ID, validCard()); err != nil {
		t.Errorf("payment after failures: %v", err)
	}
}
