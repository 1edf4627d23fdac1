package booking

import (
	"context"
	"time"

	"roamly/models"
)

// CreateBookingInput carries everything needed to open a reservation.
type CreateBookingInput struct {
	ServiceID      string          `json:"service_id"`
	TouristID      string          `json:"-"`
	BookingDate    time.Time       `json:"booking_date"`
	TimeSlot       models.TimeSlot `json:"time_slot"`
	NumberOfGuests int             `json:"number_of_guests"`
}

// BookingService owns the reservation lifecycle from creation to completion
// or cancellation.
type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListTouristBookings(ctx context.Context, touristID string) ([]models.Booking, error)
	ListHostBookings(ctx context.Context, hostID string) ([]models.Booking, error)
	// UpdateStatus drives a host-side forward transition.
	UpdateStatus(ctx context.Context, bookingID, actorID string, newStatus models.BookingStatus) (*models.Booking, error)
	// Cancel is the tourist-side exit, subject to the cancellation cutoff.
	Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error)
}

// EscrowRefunder flips a captured payment back to the payer when its booking
// is cancelled. Implemented by the escrow payment orchestrator.
type EscrowRefunder interface {
	RefundForCancelledBooking(ctx context.Context, bookingID, reason string) error
}
