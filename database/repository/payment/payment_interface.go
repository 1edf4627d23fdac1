package paymentRepo

import (
	"context"
	"time"

	"roamly/models"

	"go.mongodb.org/mongo-driver/bson"
)

// PaymentRepository defines the interface for payment data access. The
// booking_id unique index is the authority for the one-payment-per-booking
// invariant; Insert surfaces its violation as a Conflict error.
type PaymentRepository interface {
	Insert(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	// GetByBookingID returns (nil, nil) when no payment exists for the booking.
	GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	// UpdatePendingIntent refreshes a pending (or failed, retried) payment's
	// gateway handle and resets it to pending. Returns false when the payment
	// is no longer in a retryable state, i.e. it was captured or refunded in
	// the meantime.
	UpdatePendingIntent(ctx context.Context, id string, set bson.M) (bool, error)
	// MarkOutcomeIf flips a pending payment identified by its gateway
	// transaction to the given terminal status. Matching on status=pending is
	// what makes webhook replays no-ops.
	MarkOutcomeIf(ctx context.Context, transactionID string, to models.PaymentStatus, set bson.M) (bool, error)
	// ReleaseIf moves escrow held -> released for a completed payment.
	ReleaseIf(ctx context.Context, id string, releasedAt time.Time) (bool, error)
	// RefundIf moves a completed, still-held payment to refunded.
	RefundIf(ctx context.Context, id string, refundedAt time.Time, gatewayResponse string) (bool, error)
}
