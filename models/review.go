package models

import "time"

// ReviewerType identifies which side of a completed booking authored a review.
type ReviewerType string

const (
	ReviewerTourist ReviewerType = "tourist"
	ReviewerHost    ReviewerType = "host"
)

// ReviewRatings holds per-category ratings, each 1–5. Cleanliness is optional
// (0 means not rated).
type ReviewRatings struct {
	Overall       int `bson:"overall" json:"overall"`
	Communication int `bson:"communication" json:"communication"`
	Accuracy      int `bson:"accuracy" json:"accuracy"`
	Value         int `bson:"value" json:"value"`
	Cleanliness   int `bson:"cleanliness,omitempty" json:"cleanliness,omitempty"`
}

// ReviewResponse is the host's single-shot reply to a review.
type ReviewResponse struct {
	Text        string    `bson:"text" json:"text"`
	RespondedAt time.Time `bson:"responded_at" json:"responded_at"`
}

// Review is one party's rating/comment about the other party for a specific
// booking. (booking_id, reviewer_type) carries a unique index.
type Review struct {
	ID           string          `bson:"id" json:"id"`
	BookingID    string          `bson:"booking_id" json:"booking_id"`
	ServiceID    string          `bson:"service_id" json:"service_id"`
	ReviewerID   string          `bson:"reviewer_id" json:"reviewer_id"`
	RevieweeID   string          `bson:"reviewee_id" json:"reviewee_id"`
	ReviewerType ReviewerType    `bson:"reviewer_type" json:"reviewer_type"`
	Ratings      ReviewRatings   `bson:"ratings" json:"ratings"`
	Comment      string          `bson:"comment" json:"comment"`
	Response     *ReviewResponse `bson:"response,omitempty" json:"response,omitempty"`
	ExpiresAt    time.Time       `bson:"expires_at" json:"expires_at"`
	CreatedAt    time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at" json:"updated_at"`
}
