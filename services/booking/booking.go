package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "roamly/database/repository/booking"
	catalogRepo "roamly/database/repository/catalog"
	"roamly/models"
	"roamly/services/notification"
	"roamly/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService over the document store.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	Catalog      catalogRepo.CatalogRepository
	Escrow       EscrowRefunder
	Notification notification.NotificationService
	Logger       *zap.Logger

	// FeePercent is the platform's cut added on top of the host's base price.
	FeePercent float64
	// CancelCutoff is the hard window before bookingDate past which a tourist
	// can no longer cancel.
	CancelCutoff time.Duration
	// Now supplies wall-clock time; overridable in tests.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

// CreateBooking validates the request against the service catalog and
// persists a pending booking with its price locked in.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	if input.NumberOfGuests < 1 {
		return nil, utils.ValidationErr("number of guests must be at least 1")
	}
	if input.BookingDate.IsZero() {
		return nil, utils.ValidationErr("booking date is required")
	}
	if input.TimeSlot.StartTime == "" || input.TimeSlot.EndTime == "" {
		return nil, utils.ValidationErr("time slot start and end are required")
	}

	svc, err := s.Catalog.GetByID(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.Status != models.ServiceActive {
		return nil, utils.InvalidStateErr("service %s is not active (status %q)", svc.ID, svc.Status)
	}
	if svc.HostID == input.TouristID {
		return nil, utils.ForbiddenErr("hosts cannot book their own service")
	}

	now := s.now()
	baseAmount := svc.Pricing.Amount * float64(input.NumberOfGuests)
	bk := &models.Booking{
		ID:             uuid.New().String(),
		ServiceID:      svc.ID,
		TouristID:      input.TouristID,
		HostID:         svc.HostID,
		BookingDate:    input.BookingDate,
		TimeSlot:       input.TimeSlot,
		NumberOfGuests: input.NumberOfGuests,
		Pricing:        ComputePricing(baseAmount, s.FeePercent, svc.Pricing.Currency),
		Status:         models.BookingPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Repo.Insert(ctx, bk); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.notify(bk.HostID, "booking_requested", "New booking request",
		fmt.Sprintf("A tourist requested your service for %s.", bk.BookingDate.Format("2006-01-02")), bk.ID)

	return bk, nil
}

// GetBooking fetches a single booking by ID.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.Repo.GetByID(ctx, bookingID)
}

// ListTouristBookings returns the bookings made by a tourist.
func (s *DefaultBookingService) ListTouristBookings(ctx context.Context, touristID string) ([]models.Booking, error) {
	return s.Repo.ListByTourist(ctx, touristID)
}

// ListHostBookings returns the bookings against a host's services.
func (s *DefaultBookingService) ListHostBookings(ctx context.Context, hostID string) ([]models.Booking, error) {
	return s.Repo.ListByHost(ctx, hostID)
}

// UpdateStatus drives a host-side forward transition (confirm, reject, start,
// complete) as a compare-and-swap on the current status.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, bookingID, actorID string, newStatus models.BookingStatus) (*models.Booking, error) {
	bk, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.HostID != actorID {
		return nil, utils.ForbiddenErr("only the host may update the booking status")
	}

	// Cancellation has its own tourist-side entry point.
	if newStatus == models.BookingCancelled {
		return nil, utils.ForbiddenErr("hosts cannot cancel a booking; rejection is the host-side exit")
	}
	if !transitionAllowed(bk.Status, newStatus) {
		return nil, utils.InvalidTransitionErr(string(bk.Status), string(newStatus))
	}
	// Every non-cancel edge in the table has exactly one source state.
	from := hostForwardSource[newStatus]

	set := bson.M{}
	if newStatus == models.BookingCompleted {
		set["completed_at"] = s.now()
	}

	matched, err := s.Repo.UpdateStatusIf(ctx, bookingID, []models.BookingStatus{from}, newStatus, set)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	if !matched {
		// Lost a race: report against the state the booking actually holds now.
		fresh, ferr := s.Repo.GetByID(ctx, bookingID)
		if ferr != nil {
			return nil, ferr
		}
		return nil, utils.InvalidTransitionErr(string(fresh.Status), string(newStatus))
	}

	bk.Status = newStatus
	bk.UpdatedAt = s.now()
	if ts, ok := set["completed_at"].(time.Time); ok {
		bk.CompletedAt = &ts
	}

	s.notify(bk.TouristID, "booking_"+string(newStatus), "Booking update",
		fmt.Sprintf("Your booking is now %s.", newStatus), bk.ID)

	return bk, nil
}

// Cancel is the tourist-side exit. It enforces the cancellation cutoff and,
// on success, signals the escrow orchestrator to refund any captured payment.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error) {
	bk, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.TouristID != actorID {
		return nil, utils.ForbiddenErr("only the tourist who booked may cancel")
	}
	// The cutoff is checked before the status: inside the window cancellation
	// is impossible no matter what state the booking holds.
	if s.now().After(bk.BookingDate.Add(-s.CancelCutoff)) {
		return nil, utils.DeadlineExceededErr("bookings must be cancelled at least %s before the booking date", s.CancelCutoff)
	}
	if bk.Status != models.BookingPending && bk.Status != models.BookingConfirmed {
		return nil, utils.InvalidStateErr("booking in state %q can no longer be cancelled", bk.Status)
	}

	cancellable := []models.BookingStatus{models.BookingPending, models.BookingConfirmed}
	matched, err := s.Repo.UpdateStatusIf(ctx, bookingID, cancellable, models.BookingCancelled, bson.M{
		"cancellation_reason": reason,
	})
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	if !matched {
		fresh, ferr := s.Repo.GetByID(ctx, bookingID)
		if ferr != nil {
			return nil, ferr
		}
		return nil, utils.InvalidStateErr("booking in state %q can no longer be cancelled", fresh.Status)
	}

	bk.Status = models.BookingCancelled
	bk.CancellationReason = reason
	bk.UpdatedAt = s.now()

	// The cancellation itself is committed; a captured payment is flipped to
	// refunded as a side effect. The refund CAS makes this at-most-once.
	if s.Escrow != nil {
		if err := s.Escrow.RefundForCancelledBooking(ctx, bookingID, reason); err != nil {
			s.logger().Warn("automatic refund after cancellation failed",
				zap.String("bookingId", bookingID), zap.Error(err))
		}
	}

	s.notify(bk.HostID, "booking_cancelled", "Booking cancelled",
		fmt.Sprintf("A booking for %s was cancelled: %s", bk.BookingDate.Format("2006-01-02"), reason), bk.ID)

	return bk, nil
}

// notify enqueues a fire-and-forget notification; failures are only logged.
func (s *DefaultBookingService) notify(recipientID, kind, subject, body, bookingID string) {
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
