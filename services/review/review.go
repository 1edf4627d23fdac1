package review

import (
	"context"
	"fmt"
	"time"

	bookingRepo "roamly/database/repository/booking"
	catalogRepo "roamly/database/repository/catalog"
	reviewRepo "roamly/database/repository/review"
	"roamly/models"
	"roamly/services/notification"
	"roamly/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	commentMinLength  = 10
	commentMaxLength  = 2000
	responseMaxLength = 1000
)

// DefaultReviewService implements ReviewService over the document store.
type DefaultReviewService struct {
	Reviews      reviewRepo.ReviewRepository
	Bookings     bookingRepo.BookingRepository
	Catalog      catalogRepo.CatalogRepository
	Cache        *redis.Client
	Notification notification.NotificationService
	Logger       *zap.Logger

	// EditWindow is how long after creation the author may edit.
	EditWindow time.Duration
	// Now supplies wall-clock time; overridable in tests.
	Now func() time.Time
}

func (s *DefaultReviewService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultReviewService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

// CreateReview validates eligibility against the booking, derives the
// reviewee, and persists the review. The compound unique index enforces one
// review per side of a booking.
func (s *DefaultReviewService) CreateReview(ctx context.Context, input CreateReviewInput) (*models.Review, error) {
	bk, err := s.Bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if bk.Status != models.BookingCompleted {
		return nil, utils.InvalidStateErr("booking %s is %q; reviews require a completed booking", bk.ID, bk.Status)
	}

	var revieweeID string
	switch input.ReviewerType {
	case models.ReviewerTourist:
		if input.ReviewerID != bk.TouristID {
			return nil, utils.ForbiddenErr("only the booking's tourist may leave a tourist review")
		}
		revieweeID = bk.HostID
	case models.ReviewerHost:
		if input.ReviewerID != bk.HostID {
			return nil, utils.ForbiddenErr("only the booking's host may leave a host review")
		}
		revieweeID = bk.TouristID
	default:
		return nil, utils.ValidationErr("unknown reviewer type %q", input.ReviewerType)
	}

	if err := validateRatings(input.Ratings); err != nil {
		return nil, err
	}
	if err := validateComment(input.Comment); err != nil {
		return nil, err
	}

	now := s.now()
	rv := &models.Review{
		ID:           uuid.New().String(),
		BookingID:    bk.ID,
		ServiceID:    bk.ServiceID,
		ReviewerID:   input.ReviewerID,
		RevieweeID:   revieweeID,
		ReviewerType: input.ReviewerType,
		Ratings:      input.Ratings,
		Comment:      input.Comment,
		ExpiresAt:    now.Add(s.EditWindow),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Reviews.Insert(ctx, rv); err != nil {
		return nil, err
	}

	s.refreshServiceRating(ctx, rv.ServiceID)
	s.notify(revieweeID, "review_received", "New review",
		fmt.Sprintf("You received a new %d-star review.", rv.Ratings.Overall), rv.BookingID)

	return rv, nil
}

// UpdateReview lets the author amend ratings or comment until the edit
// window closes.
func (s *DefaultReviewService) UpdateReview(ctx context.Context, reviewID, authorID string, patch UpdateReviewInput) (*models.Review, error) {
	rv, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv.ReviewerID != authorID {
		return nil, utils.ForbiddenErr("only the review's author may edit it")
	}
	if s.now().After(rv.ExpiresAt) {
		return nil, utils.DeadlineExceededErr("the edit window for this review closed on %s", rv.ExpiresAt.Format(time.RFC3339))
	}

	set := bson.M{}
	if patch.Ratings != nil {
		if err := validateRatings(*patch.Ratings); err != nil {
			return nil, err
		}
		set["ratings"] = *patch.Ratings
		rv.Ratings = *patch.Ratings
	}
	if patch.Comment != nil {
		if err := validateComment(*patch.Comment); err != nil {
			return nil, err
		}
		set["comment"] = *patch.Comment
		rv.Comment = *patch.Comment
	}
	if len(set) == 0 {
		return nil, utils.ValidationErr("nothing to update")
	}

	if err := s.Reviews.Update(ctx, reviewID, set); err != nil {
		return nil, err
	}
	rv.UpdatedAt = s.now()

	s.refreshServiceRating(ctx, rv.ServiceID)
	return rv, nil
}

// DeleteReview removes a review; allowed for its author or an administrator.
func (s *DefaultReviewService) DeleteReview(ctx context.Context, reviewID string, actor models.Principal) error {
	rv, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if rv.ReviewerID != actor.ID && !actor.IsAdmin() {
		return utils.ForbiddenErr("only the review's author or an administrator may delete it")
	}

	if err := s.Reviews.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.refreshServiceRating(ctx, rv.ServiceID)
	return nil
}

// RespondToReview records the host's reply to a tourist review, once.
func (s *DefaultReviewService) RespondToReview(ctx context.Context, reviewID, hostID, text string) (*models.Review, error) {
	rv, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv.ReviewerType != models.ReviewerTourist {
		return nil, utils.InvalidStateErr("only tourist reviews accept a host response")
	}
	if rv.RevieweeID != hostID {
		return nil, utils.ForbiddenErr("only the reviewed host may respond")
	}
	if rv.Response != nil {
		return nil, utils.ConflictErr("review %s already has a response", reviewID)
	}
	if text == "" || len(text) > responseMaxLength {
		return nil, utils.ValidationErr("response must be between 1 and %d characters", responseMaxLength)
	}

	resp := models.ReviewResponse{Text: text, RespondedAt: s.now()}
	matched, err := s.Reviews.SetResponseIf(ctx, reviewID, resp)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, utils.ConflictErr("review %s already has a response", reviewID)
	}

	rv.Response = &resp
	s.notify(rv.ReviewerID, "review_response", "The host responded to your review", text, rv.BookingID)
	return rv, nil
}

// ListServiceReviews returns all reviews for a service, newest first.
func (s *DefaultReviewService) ListServiceReviews(ctx context.Context, serviceID string) ([]models.Review, error) {
	return s.Reviews.ListByService(ctx, serviceID)
}

func validateRatings(r models.ReviewRatings) error {
	categories := map[string]int{
		"overall":       r.Overall,
		"communication": r.Communication,
		"accuracy":      r.Accuracy,
		"value":         r.Value,
	}
	for name, v := range categories {
		if v < 1 || v > 5 {
			return utils.ValidationErr("rating %q must be between 1 and 5", name)
		}
	}
	// Cleanliness is optional; zero means not rated.
	if r.Cleanliness != 0 && (r.Cleanliness < 1 || r.Cleanliness > 5) {
		return utils.ValidationErr("rating %q must be between 1 and 5", "cleanliness")
	}
	return nil
}

func validateComment(comment string) error {
	if len(comment) < commentMinLength || len(comment) > commentMaxLength {
		return utils.ValidationErr("comment must be between %d and %d characters", commentMinLength, commentMaxLength)
	}
	return nil
}

// notify enqueues a fire-and-forget notification; failures are only logged.
func (s *DefaultReviewService) notify(recipientID, kind, subject, body, bookingID string) {
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
