package models

import "time"

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// EscrowStatus tracks where captured funds sit. Transitions are monotone:
// held may move to released or refunded, never both.
type EscrowStatus string

const (
	EscrowHeld          EscrowStatus = "held"
	EscrowReleased      EscrowStatus = "released"
	EscrowRefunded      EscrowStatus = "refunded"
	EscrowNotApplicable EscrowStatus = "not_applicable"
)

// GatewayInfo carries the external payment provider's references.
type GatewayInfo struct {
	TransactionID   string `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	GatewayResponse string `bson:"gateway_response,omitempty" json:"gateway_response,omitempty"`
}

// Payment is the monetary settlement for exactly one booking. The booking_id
// carries a unique index, so at most one payment document can ever exist per booking.
type Payment struct {
	ID            string        `bson:"id" json:"id"`
	BookingID     string        `bson:"booking_id" json:"booking_id"`
	UserID        string        `bson:"user_id" json:"user_id"`
	Amount        float64       `bson:"amount" json:"amount"`
	Currency      string        `bson:"currency" json:"currency"`
	PaymentMethod string        `bson:"payment_method" json:"payment_method"`
	Gateway       GatewayInfo   `bson:"gateway" json:"gateway"`
	EscrowStatus  EscrowStatus  `bson:"escrow_status" json:"escrow_status"`
	Status        PaymentStatus `bson:"status" json:"status"`
	PaidAt        *time.Time    `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	ReleasedAt    *time.Time    `bson:"released_at,omitempty" json:"released_at,omitempty"`
	RefundedAt    *time.Time    `bson:"refunded_at,omitempty" json:"refunded_at,omitempty"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updated_at"`
}

// PaymentIntentResponse is the client-usable handle returned when an intent
// is created or reused.
type PaymentIntentResponse struct {
	Payment      *Payment `json:"payment"`
	ClientSecret string   `json:"client_secret"`
}
