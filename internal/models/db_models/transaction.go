package db_models

import "time"

type TransactionStatus string

const (
	TxnStatusPaid   TransactionStatus = "paid"
	TxnStatusFailed TransactionStatus = "failed"
)

// Payment is stored at payments/{userId}/{id}. Only the last four card
// digits are kept.
type Payment struct {
	ID            string            `json:"id"`
	BookingID     string            `json:"bookingId"`
	UserID        string            `json:"userId"`
	AmountMinor   int64             `json:"amountMinor"`
	Currency      string            `json:"currency"`
	Status        TransactionStatus `json:"status"`
	Provider      string            `json:"provider"`
	ProviderTxnID string            `json:"providerTxnId"`
	CardLast4     string            `json:"cardLast4"`
	PaidAt        time.Time         `json:"paidAt"`
}
