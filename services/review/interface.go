package review

import (
	"context"

	"roamly/models"
)

// CreateReviewInput carries a new review for a completed booking.
type CreateReviewInput struct {
	BookingID    string               `json:"booking_id"`
	ReviewerID   string               `json:"-"`
	ReviewerType models.ReviewerType  `json:"reviewer_type"`
	Ratings      models.ReviewRatings `json:"ratings"`
	Comment      string               `json:"comment"`
}

// UpdateReviewInput is a partial edit; nil fields are left untouched.
type UpdateReviewInput struct {
	Ratings *models.ReviewRatings `json:"ratings,omitempty"`
	Comment *string               `json:"comment,omitempty"`
}

// ReviewService is the ledger of post-completion reviews plus the rating
// aggregation derived from it.
type ReviewService interface {
	CreateReview(ctx context.Context, input CreateReviewInput) (*models.Review, error)
	UpdateReview(ctx context.Context, reviewID, authorID string, patch UpdateReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, reviewID string, actor models.Principal) error
	// RespondToReview records the host's single-shot reply.
	RespondToReview(ctx context.Context, reviewID, hostID, text string) (*models.Review, error)
	ListServiceReviews(ctx context.Context, serviceID string) ([]models.Review, error)
	GetServiceRating(ctx context.Context, serviceID string) (models.ServiceRating, error)
}
