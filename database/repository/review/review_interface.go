package reviewRepo

import (
	"context"

	"roamly/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ReviewRepository defines the interface for review data access. The compound
// unique index on (booking_id, reviewer_type) enforces one review per side of
// a booking; Insert surfaces its violation as a Conflict error.
type ReviewRepository interface {
	Insert(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	Update(ctx context.Context, id string, set bson.M) error
	Delete(ctx context.Context, id string) error
	ListByService(ctx context.Context, serviceID string) ([]models.Review, error)
	// SetResponseIf records the host's reply only when none exists yet.
	SetResponseIf(ctx context.Context, id string, response models.ReviewResponse) (bool, error)
	// AggregateServiceRating computes {average, count} over tourist-authored
	// reviews of the service. Zero reviews yields {0, 0}.
	AggregateServiceRating(ctx context.Context, serviceID string) (models.ServiceRating, error)
}
