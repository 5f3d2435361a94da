package services

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tripmate/internal/itinerary"
	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
	"tripmate/internal/models/response_models"
	"tripmate/internal/repositories"
	"tripmate/pkg/utils"
)

const (
	// DeclinedTestCard always fails payment.
	DeclinedTestCard = "4000000000000002"
	// DailyRatePerTraveler prices a trip without a budget, in rupees.
	DailyRatePerTraveler = 10_000
	MockProviderName     = "mock"
)

type PaymentService interface {
	BookTrip(ctx context.Context, userID, tripID string, req request_models.BookTripRequest) (*db_models.Booking, error)
	PayBooking(ctx context.Context, userID, bookingID string, req request_models.PayBookingRequest) (*response_models.PaymentReceipt, error)
	ListBookings(ctx context.Context, userID string) ([]db_models.Booking, error)
}

type paymentService struct {
	bookingRepo repositories.BookingRepository
	tripSvc     TripServiceInterface
	log         *zap.Logger
	now         func() time.Time

	// payMu serialises payments so a booking cannot be charged twice.
	payMu sync.Mutex
}

func NewPaymentService(bookingRepo repositories.BookingRepository, tripSvc TripServiceInterface, log *zap.Logger) PaymentService {
	return &paymentService{
		bookingRepo: bookingRepo,
		tripSvc:     tripSvc,
		log:         log.Named("payments"),
		now:         time.Now,
	}
}

func (p *paymentService) BookTrip(ctx context.Context, userID, tripID string, req request_models.BookTripRequest) (*db_models.Booking, error) {
	trip, err := p.tripSvc.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status == db_models.TripStatusCancelled {
		return nil, &request_models.ValidationError{Problems: []string{"a cancelled trip cannot be booked"}}
	}

	travelers := req.Travelers
	if travelers <= 0 {
		travelers = trip.TripRequest().TravelerCount()
	}

	now := p.now().UTC()
	booking := &db_models.Booking{
		ID:           uuid.NewString(),
		UserID:       userID,
		TripID:       trip.ID,
		Destination:  trip.Destination,
		Travelers:    travelers,
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		AmountMinor:  BookingAmountMinor(trip, travelers),
		Currency:     itinerary.CurrencyCode,
		Status:       db_models.BookingStatusPendingPayment,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.bookingRepo.SaveBooking(ctx, booking); err != nil {
		p.log.Error("failed to save booking", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	p.log.Info("trip booked",
		zap.String("booking_id", booking.ID),
		zap.String("trip_id", trip.ID),
		zap.Int64("amount_minor", booking.AmountMinor))
	return booking, nil
}

// BookingAmountMinor is the trip budget when set, otherwise the daily rate
// for every traveler and day, in paise.
func BookingAmountMinor(trip *db_models.Trip, travelers int) int64 {
	if trip.Budget != nil && *trip.Budget > 0 {
		return int64(math.Round(*trip.Budget * 100))
	}
	if travelers < 1 {
		travelers = 1
	}
	days := trip.TripRequest().LengthInDays()
	return int64(DailyRatePerTraveler*days*travelers) * 100
}

func (p *paymentService) PayBooking(ctx context.Context, userID, bookingID string, req request_models.PayBookingRequest) (*response_models.PaymentReceipt, error) {
	p.payMu.Lock()
	defer p.payMu.Unlock()

	booking, err := p.bookingRepo.FindBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if booking == nil {
		return nil, utils.ErrBookingNotFound
	}
	switch booking.Status {
	case db_models.BookingStatusPaid:
		return nil, utils.ErrBookingAlreadyPaid
	case db_models.BookingStatusCancelled:
		return nil, &request_models.ValidationError{Problems: []string{"booking is cancelled"}}
	}

	now := p.now().UTC()
	digits, err := utils.ValidateCard(req.CardNumber, req.ExpiryMonth, req.ExpiryYear, req.CVC, now)
	if err != nil {
		return nil, err
	}

	payment := &db_models.Payment{
		ID:          uuid.NewString(),
		BookingID:   booking.ID,
		UserID:      userID,
		AmountMinor: booking.AmountMinor,
		Currency:    booking.Currency,
		Provider:    MockProviderName,
		CardLast4:   utils.CardLast4(digits),
		PaidAt:      now,
	}
	ref, err := utils.GenerateSecureToken(8)
	if err != nil {
		return nil, utils.ErrServiceUnavailable
	}
	payment.ProviderTxnID = MockProviderName + "_" + ref

	if digits == DeclinedTestCard {
		payment.Status = db_models.TxnStatusFailed
		if err := p.bookingRepo.SavePayment(ctx, payment); err != nil {
			p.log.Error("failed to record declined payment", zap.Error(err))
		}
		p.log.Info("payment declined", zap.String("booking_id", booking.ID))
		return nil, utils.ErrPaymentDeclined
	}

	payment.Status = db_models.TxnStatusPaid
	if err := p.bookingRepo.SavePayment(ctx, payment); err != nil {
		p.log.Error("failed to record payment", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	booking.Status = db_models.BookingStatusPaid
	booking.PaymentID = payment.ID
	booking.UpdatedAt = now
	if err := p.bookingRepo.SaveBooking(ctx, booking); err != nil {
		p.log.Error("failed to mark booking paid", zap.String("booking_id", booking.ID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	if err := p.tripSvc.SetStatus(ctx, userID, booking.TripID, db_models.TripStatusBooked); err != nil {
		p.log.Warn("payment recorded but trip status not updated",
			zap.String("trip_id", booking.TripID), zap.Error(err))
	}

	p.log.Info("payment succeeded",
		zap.String("booking_id", booking.ID),
		zap.String("payment_id", payment.ID),
		zap.Int64("amount_minor", payment.AmountMinor))
	return &response_models.PaymentReceipt{Booking: *booking, Payment: *payment}, nil
}

func (p *paymentService) ListBookings(ctx context.Context, userID string) ([]db_models.Booking, error) {
	bookings, err := p.bookingRepo.ListBookings(ctx, userID)
	if err != nil {
		p.log.Error("failed to list bookings", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return bookings, nil
}
