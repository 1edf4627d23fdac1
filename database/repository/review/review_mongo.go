package reviewRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roamly/database"
	"roamly/models"
	"roamly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo creates a new instance of ReviewRepository using MongoDB.
func NewMongoReviewRepo() ReviewRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("reviews")
	repo := &MongoReviewRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Fatalf("review repo: %v", err)
	}
	return repo
}

func (r *MongoReviewRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}, {Key: "reviewer_type", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "service_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Insert persists a new review document. A duplicate (booking, reviewer side)
// loses on the compound unique index and surfaces as a Conflict.
func (r *MongoReviewRepo) Insert(ctx context.Context, review *models.Review) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctxWithTimeout, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.ConflictErr("a %s review already exists for booking %s", review.ReviewerType, review.BookingID)
		}
		return fmt.Errorf("error creating review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by its ID.
func (r *MongoReviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var review models.Review
	err := r.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFoundErr("review %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch review %s: %w", id, err)
	}
	return &review, nil
}

// Update modifies an existing review document.
func (r *MongoReviewRepo) Update(ctx context.Context, id string, set bson.M) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields := bson.M{"updated_at": time.Now()}
	for k, v := range set {
		fields[k] = v
	}
	if _, err := r.coll.UpdateOne(ctxWithTimeout, bson.M{"id": id}, bson.M{"$set": fields}); err != nil {
		return fmt.Errorf("error updating review %s: %w", id, err)
	}
	return nil
}

// Delete removes a review document.
func (r *MongoReviewRepo) Delete(ctx context.Context, id string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctxWithTimeout, bson.M{"id": id}); err != nil {
		return fmt.Errorf("error deleting review %s: %w", id, err)
	}
	return nil
}

// ListByService returns all reviews for a service, newest first.
func (r *MongoReviewRepo) ListByService(ctx context.Context, serviceID string) ([]models.Review, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctxWithTimeout, bson.M{"service_id": serviceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for service %s: %w", serviceID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var reviews []models.Review
	if err := cursor.All(ctxWithTimeout, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// SetResponseIf records the host's reply only when no response exists yet, as
// a single conditional write.
func (r *MongoReviewRepo) SetResponseIf(ctx context.Context, id string, response models.ReviewResponse) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":       id,
		"response": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"response":   response,
		"updated_at": time.Now(),
	}}

	res, err := r.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error responding to review %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// AggregateServiceRating computes the public rating over tourist-authored
// reviews only; host reviews about tourists never feed a service's rating.
func (r *MongoReviewRepo) AggregateServiceRating(ctx context.Context, serviceID string) (models.ServiceRating, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"service_id":    serviceID,
			"reviewer_type": models.ReviewerTourist,
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$ratings.overall"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctxWithTimeout, pipeline)
	if err != nil {
		return models.ServiceRating{}, fmt.Errorf("failed to aggregate rating for service %s: %w", serviceID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var results []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cursor.All(ctxWithTimeout, &results); err != nil {
		return models.ServiceRating{}, fmt.Errorf("failed to decode rating aggregate: %w", err)
	}
	if len(results) == 0 {
		return models.ServiceRating{Average: 0, Count: 0}, nil
	}
	return models.ServiceRating{Average: results[0].Average, Count: results[0].Count}, nil
}
