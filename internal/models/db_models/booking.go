package db_models

import "time"

type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusPaid           BookingStatus = "paid"
	BookingStatusCancelled      BookingStatus = "cancelled"
)

// Booking is stored at bookings/{userId}/{id}.
type Booking struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	TripID       string        `json:"tripId"`
	Destination  string        `json:"destination"`
	Travelers    int           `json:"travelers"`
	ContactEmail string        `json:"contactEmail,omitempty"`
	AmountMinor  int64         `json:"amountMinor"`
	Currency     string        `json:"currency"`
	Status       BookingStatus `json:"status"`
	PaymentID    string        `json:"paymentId,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
