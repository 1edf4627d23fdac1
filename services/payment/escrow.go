package payment

import (
	"context"
	"fmt"
	"time"

	bookingRepo "roamly/database/repository/booking"
	paymentRepo "roamly/database/repository/payment"
	"roamly/models"
	"roamly/services/notification"
	"roamly/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultEscrowService implements EscrowService over the document store and
// an external payment gateway.
type DefaultEscrowService struct {
	Payments     paymentRepo.PaymentRepository
	Bookings     bookingRepo.BookingRepository
	Gateway      PaymentGateway
	Notification notification.NotificationService
	Logger       *zap.Logger

	// Now supplies wall-clock time; overridable in tests.
	Now func() time.Time
}

func (s *DefaultEscrowService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultEscrowService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

// CreateOrReuseIntent creates the payment bound to a booking, or refreshes
// the gateway intent of a pending/failed one. The unique index on booking_id
// is what makes a concurrent second create fail instead of duplicating.
func (s *DefaultEscrowService) CreateOrReuseIntent(ctx context.Context, bookingID, payerID string) (*models.PaymentIntentResponse, error) {
	bk, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.TouristID != payerID {
		return nil, utils.ForbiddenErr("only the booking's tourist may pay for it")
	}
	if bk.Status == models.BookingCancelled || bk.Status == models.BookingRejected {
		return nil, utils.InvalidStateErr("booking %s is %s and cannot be paid", bk.ID, bk.Status)
	}

	existing, err := s.Payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var pay *models.Payment
	switch {
	case existing == nil:
		now := s.now()
		pay = &models.Payment{
			ID:            uuid.New().String(),
			BookingID:     bk.ID,
			UserID:        payerID,
			Amount:        bk.Pricing.TotalAmount,
			Currency:      bk.Pricing.Currency,
			PaymentMethod: "card",
			EscrowStatus:  models.EscrowHeld,
			Status:        models.PaymentPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.Payments.Insert(ctx, pay); err != nil {
			return nil, err
		}
	case existing.Status == models.PaymentCompleted:
		return nil, utils.ConflictErr("booking %s is already paid", bookingID)
	case existing.Status == models.PaymentRefunded:
		return nil, utils.InvalidStateErr("payment for booking %s was refunded", bookingID)
	default:
		// pending or failed: reuse the row, request a fresh intent below.
		pay = existing
	}

	intent, err := s.Gateway.CreateIntent(ctx, pay.Amount, pay.Currency, map[string]string{
		"booking_id": bk.ID,
		"payment_id": pay.ID,
	})
	if err != nil {
		return nil, err
	}

	matched, err := s.Payments.UpdatePendingIntent(ctx, pay.ID, bson.M{
		"gateway.transaction_id": intent.IntentID,
	})
	if err != nil {
		return nil, fmt.Errorf("store gateway intent: %w", err)
	}
	if !matched {
		// The payment left the retryable states between our read and this
		// write; the fresh intent must not be handed out.
		return nil, utils.ConflictErr("payment for booking %s was captured concurrently", bookingID)
	}
	pay.Status = models.PaymentPending
	pay.Gateway.TransactionID = intent.IntentID
	pay.UpdatedAt = s.now()

	return &models.PaymentIntentResponse{
		Payment:      pay,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// Reconcile applies a gateway callback. The pending-only compare-and-swap in
// the repository makes replays of the same transaction no-ops.
func (s *DefaultEscrowService) Reconcile(ctx context.Context, transactionID, outcome string) error {
	switch outcome {
	case OutcomeSucceeded:
		return s.reconcileSuccess(ctx, transactionID)
	case OutcomeFailed:
		return s.reconcileFailure(ctx, transactionID)
	default:
		return utils.ValidationErr("unknown gateway outcome %q", outcome)
	}
}

func (s *DefaultEscrowService) reconcileSuccess(ctx context.Context, transactionID string) error {
	matched, err := s.Payments.MarkOutcomeIf(ctx, transactionID, models.PaymentCompleted, bson.M{
		"paid_at":                  s.now(),
		"gateway.gateway_response": OutcomeSucceeded,
	})
	if err != nil {
		return err
	}
	if !matched {
		// Either a replayed delivery (payment already terminal) or an unknown
		// transaction. The former is a no-op; the latter is an error.
		if _, err := s.Payments.GetByTransactionID(ctx, transactionID); err != nil {
			return err
		}
		s.logger().Debug("ignoring replayed gateway callback", zap.String("transactionId", transactionID))
		return nil
	}

	pay, err := s.Payments.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return err
	}

	// Payment confirms the booking if it is still pending; a booking the host
	// already moved on is left untouched.
	if _, err := s.Bookings.UpdateStatusIf(ctx, pay.BookingID,
		[]models.BookingStatus{models.BookingPending}, models.BookingConfirmed, bson.M{}); err != nil {
		return fmt.Errorf("confirm booking after payment: %w", err)
	}

	s.notify(pay.UserID, "payment_received", "Payment received",
		fmt.Sprintf("We received your payment of %s %.2f. It is held in escrow until the service completes.", pay.Currency, pay.Amount),
		pay.BookingID)
	return nil
}

func (s *DefaultEscrowService) reconcileFailure(ctx context.Context, transactionID string) error {
	matched, err := s.Payments.MarkOutcomeIf(ctx, transactionID, models.PaymentFailed, bson.M{
		"gateway.gateway_response": OutcomeFailed,
	})
	if err != nil {
		return err
	}
	if !matched {
		if _, err := s.Payments.GetByTransactionID(ctx, transactionID); err != nil {
			return err
		}
		s.logger().Debug("ignoring replayed gateway callback", zap.String("transactionId", transactionID))
	}
	// The booking stays as it is; the payer may retry.
	return nil
}

// Release makes held funds payable to the host. Only a captured payment whose
// booking ran to completion can be released, and release is terminal.
func (s *DefaultEscrowService) Release(ctx context.Context, paymentID, actorID string) (*models.Payment, error) {
	pay, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := s.escrowHeldOr(pay); err != nil {
		return nil, err
	}

	bk, err := s.Bookings.GetByID(ctx, pay.BookingID)
	if err != nil {
		return nil, err
	}
	if bk.Status != models.BookingCompleted {
		return nil, utils.InvalidStateErr("cannot release escrow while booking is %q", bk.Status)
	}

	releasedAt := s.now()
	matched, err := s.Payments.ReleaseIf(ctx, paymentID, releasedAt)
	if err != nil {
		return nil, err
	}
	if !matched {
		fresh, ferr := s.Payments.GetByID(ctx, paymentID)
		if ferr != nil {
			return nil, ferr
		}
		if stateErr := s.escrowHeldOr(fresh); stateErr != nil {
			return nil, stateErr
		}
		return nil, utils.ConflictErr("payment %s changed concurrently", paymentID)
	}

	s.logger().Info("escrow released",
		zap.String("paymentId", paymentID), zap.String("actorId", actorID))

	pay.EscrowStatus = models.EscrowReleased
	pay.ReleasedAt = &releasedAt
	s.notify(bk.HostID, "escrow_released", "Funds released",
		fmt.Sprintf("The payment of %s %.2f for your completed booking is now payable to you.", pay.Currency, pay.Amount),
		pay.BookingID)
	return pay, nil
}

// Refund returns held funds to the payer and cancels the linked booking.
func (s *DefaultEscrowService) Refund(ctx context.Context, paymentID, actorID, reason string) (*models.Payment, error) {
	pay, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := s.escrowHeldOr(pay); err != nil {
		return nil, err
	}

	// Gateway first, record second: funds must never be marked refunded
	// without the provider having accepted the refund. Two racing refunds can
	// therefore both reach the gateway; the CAS below picks the single winner
	// and the provider rejects the duplicate for an already-refunded intent.
	refundID, err := s.Gateway.Refund(ctx, pay.Gateway.TransactionID, reason)
	if err != nil {
		return nil, err
	}

	refundedAt := s.now()
	matched, err := s.Payments.RefundIf(ctx, paymentID, refundedAt, refundID)
	if err != nil {
		return nil, err
	}
	if !matched {
		fresh, ferr := s.Payments.GetByID(ctx, paymentID)
		if ferr != nil {
			return nil, ferr
		}
		if stateErr := s.escrowHeldOr(fresh); stateErr != nil {
			return nil, stateErr
		}
		return nil, utils.ConflictErr("payment %s changed concurrently", paymentID)
	}

	// Mark the linked booking cancelled unless it already reached a terminal
	// state; this is its own atomic write.
	if _, err := s.Bookings.UpdateStatusIf(ctx, pay.BookingID, models.NonTerminalBookingStatuses(), models.BookingCancelled, bson.M{
		"cancellation_reason": reason,
	}); err != nil {
		return nil, fmt.Errorf("cancel booking after refund: %w", err)
	}

	s.logger().Info("escrow refunded",
		zap.String("paymentId", paymentID), zap.String("actorId", actorID), zap.String("reason", reason))

	pay.Status = models.PaymentRefunded
	pay.EscrowStatus = models.EscrowRefunded
	pay.RefundedAt = &refundedAt
	s.notify(pay.UserID, "payment_refunded", "Payment refunded",
		fmt.Sprintf("Your payment of %s %.2f was refunded: %s", pay.Currency, pay.Amount, reason),
		pay.BookingID)
	return pay, nil
}

// RefundForCancelledBooking is invoked by the booking state machine after a
// successful cancellation. Nothing to do unless a captured, still-held
// payment exists; the compare-and-swap keeps the refund at-most-once.
func (s *DefaultEscrowService) RefundForCancelledBooking(ctx context.Context, bookingID, reason string) error {
	pay, err := s.Payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		return err
	}
	if pay == nil || pay.Status != models.PaymentCompleted || pay.EscrowStatus != models.EscrowHeld {
		return nil
	}

	refundID, err := s.Gateway.Refund(ctx, pay.Gateway.TransactionID, reason)
	if err != nil {
		return err
	}

	matched, err := s.Payments.RefundIf(ctx, pay.ID, s.now(), refundID)
	if err != nil {
		return err
	}
	if matched {
		s.notify(pay.UserID, "payment_refunded", "Payment refunded",
			fmt.Sprintf("Your payment of %s %.2f was refunded after cancellation.", pay.Currency, pay.Amount),
			bookingID)
	}
	return nil
}

// escrowHeldOr returns the InvalidState error describing why pay cannot move
// out of escrow, or nil when it is captured and still held.
func (s *DefaultEscrowService) escrowHeldOr(pay *models.Payment) error {
	switch {
	case pay.EscrowStatus == models.EscrowReleased:
		return utils.InvalidStateErr("payment %s was already released", pay.ID)
	case pay.EscrowStatus == models.EscrowRefunded:
		return utils.InvalidStateErr("payment %s was already refunded", pay.ID)
	case pay.Status != models.PaymentCompleted:
		return utils.InvalidStateErr("payment %s is %q, not completed", pay.ID, pay.Status)
	case pay.EscrowStatus != models.EscrowHeld:
		return utils.InvalidStateErr("payment %s escrow is %q, not held", pay.ID, pay.EscrowStatus)
	}
	return nil
}

// notify enqueues a fire-and-forget notification; failures are only logged.
func (s *DefaultEscrowService) notify(recipientID, kind, subject, body, bookingID string) {
	if s.Notification == nil {
		return
	}
	payload := models.NotificationPayload{
		Kind:        kind,
		RecipientID: recipientID,
		Subject:     subject,
		Body:        body,
		Data:        map[string]string{"bookingId": bookingID},
	}
	if err := s.Notification.Enqueue(payload); err != nil {
		s.logger().Warn("failed to enqueue notification", zap.String("kind", kind), zap.Error(err))
	}
}
