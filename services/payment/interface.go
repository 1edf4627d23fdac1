package payment

import (
	"context"

	"roamly/models"
)

// Gateway outcomes delivered by the webhook.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// EscrowService orchestrates the payment held against a booking: capture into
// escrow, reconciliation of gateway callbacks, and the terminal release or
// refund of the held funds.
type EscrowService interface {
	CreateOrReuseIntent(ctx context.Context, bookingID, payerID string) (*models.PaymentIntentResponse, error)
	// Reconcile applies an asynchronous gateway outcome. It is idempotent by
	// transaction ID under at-least-once webhook delivery.
	Reconcile(ctx context.Context, transactionID, outcome string) error
	// Release makes the held funds payable to the host. Terminal.
	Release(ctx context.Context, paymentID, actorID string) (*models.Payment, error)
	// Refund returns the held funds to the payer and cancels the booking.
	Refund(ctx context.Context, paymentID, actorID, reason string) (*models.Payment, error)
	// RefundForCancelledBooking is the booking state machine's hook: it flips
	// a captured payment to refunded after a cancellation, at most once.
	RefundForCancelledBooking(ctx context.Context, bookingID, reason string) error
}
