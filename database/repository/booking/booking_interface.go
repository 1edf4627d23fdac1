package bookingRepo

import (
	"context"

	"roamly/models"

	"go.mongodb.org/mongo-driver/bson"
)

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByTourist(ctx context.Context, touristID string) ([]models.Booking, error)
	ListByHost(ctx context.Context, hostID string) ([]models.Booking, error)
	// UpdateStatusIf applies a status transition as a single conditional write:
	// the document must currently hold one of the from statuses. Extra fields in
	// set are written alongside the new status. Returns false when the filter
	// matched nothing, i.e. the caller lost the race or the state moved on.
	UpdateStatusIf(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, set bson.M) (bool, error)
}
