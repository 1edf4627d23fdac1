package catalogRepo

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

// CatalogRepository is the booking core's view of the service catalog: read
// the fields the lifecycle engine needs, write rating aggregates.
type CatalogRepository interface {
	GetByID(ctx context.Context, id string) (*models.Service, error)
	UpdateRating(ctx context.Context, serviceID string, rating models.ServiceRating) error
}

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	coll *mongo.Collection
}

// NewMongoCatalogRepo creates a new instance of CatalogRepository using MongoDB.
func NewMongoCatalogRepo() CatalogRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("services")
	repo := &MongoCatalogRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Fatalf("catalog repo: %v", err)
	}
	return repo
}

func (r *MongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "host_id", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a catalog service by its ID.
func (r *MongoCatalogRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.Service
	err := r.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&svc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFoundErr("service %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service %s: %w", id, err)
	}
	return &svc, nil
}

// UpdateRating writes the recomputed rating aggregate onto the service document.
func (r *MongoCatalogRepo) UpdateRating(ctx context.Context, serviceID string, rating models.ServiceRating) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"rating.average": rating.Average,
		"rating.count":   rating.Count,
	}}
	if _, err := r.coll.UpdateOne(ctxWithTimeout, bson.M{"id": serviceID}, update); err != nil {
		return fmt.Errorf("failed to update rating for service %s: %w", serviceID, err)
	}
	return nil
}
