package paymentRepo

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

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo creates a new instance of PaymentRepository using MongoDB.
func NewMongoPaymentRepo() PaymentRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("payments")
	repo := &MongoPaymentRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Fatalf("payment repo: %v", err)
	}
	return repo
}

// ensureIndexes creates the unique booking_id index that enforces the
// one-payment-per-booking invariant, plus a lookup index for webhook
// reconciliation by gateway transaction.
func (r *MongoPaymentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	txPartial := options.Index().SetPartialFilterExpression(bson.M{
		"gateway.transaction_id": bson.M{"$exists": true},
	})
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "gateway.transaction_id", Value: 1}}, Options: txPartial},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Insert persists a new payment document. A concurrent insert for the same
// booking loses on the unique index and surfaces as a Conflict.
func (r *MongoPaymentRepo) Insert(ctx context.Context, payment *models.Payment) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctxWithTimeout, payment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.ConflictErr("a payment already exists for booking %s", payment.BookingID)
		}
		return fmt.Errorf("error creating payment: %w", err)
	}
	return nil
}

// GetByID retrieves a payment by its ID.
func (r *MongoPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payment models.Payment
	err := r.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFoundErr("payment %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment %s: %w", id, err)
	}
	return &payment, nil
}

// GetByBookingID retrieves the payment bound to a booking, or (nil, nil) when
// none exists yet.
func (r *MongoPaymentRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Payment, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payment models.Payment
	err := r.coll.FindOne(ctxWithTimeout, bson.M{"booking_id": bookingID}).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment for booking %s: %w", bookingID, err)
	}
	return &payment, nil
}

// GetByTransactionID retrieves a payment by its gateway transaction reference.
func (r *MongoPaymentRepo) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payment models.Payment
	err := r.coll.FindOne(ctxWithTimeout, bson.M{"gateway.transaction_id": transactionID}).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFoundErr("no payment for transaction %s", transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment for transaction %s: %w", transactionID, err)
	}
	return &payment, nil
}

// UpdatePendingIntent refreshes a not-yet-captured payment document. Failed
// payments are reset to pending so the payer can retry; completed or refunded
// payments never match.
func (r *MongoPaymentRepo) UpdatePendingIntent(ctx context.Context, id string, set bson.M) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields := bson.M{
		"status":     models.PaymentPending,
		"updated_at": time.Now(),
	}
	for k, v := range set {
		fields[k] = v
	}
	filter := bson.M{"id": id, "status": bson.M{
		"$in": []models.PaymentStatus{models.PaymentPending, models.PaymentFailed},
	}}
	res, err := r.coll.UpdateOne(ctxWithTimeout, filter, bson.M{"$set": fields})
	if err != nil {
		return false, fmt.Errorf("error updating pending payment %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// MarkOutcomeIf flips a pending payment to a terminal gateway outcome. The
// status=pending filter makes replayed webhook deliveries match nothing.
func (r *MongoPaymentRepo) MarkOutcomeIf(ctx context.Context, transactionID string, to models.PaymentStatus, set bson.M) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"gateway.transaction_id": transactionID,
		"status":                 models.PaymentPending,
	}
	fields := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range set {
		fields[k] = v
	}

	res, err := r.coll.UpdateOne(ctxWithTimeout, filter, bson.M{"$set": fields})
	if err != nil {
		return false, fmt.Errorf("error reconciling transaction %s: %w", transactionID, err)
	}
	return res.MatchedCount > 0, nil
}

// ReleaseIf moves escrow held -> released; the filter encodes that only a
// completed, still-held payment may be released.
func (r *MongoPaymentRepo) ReleaseIf(ctx context.Context, id string, releasedAt time.Time) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":            id,
		"status":        models.PaymentCompleted,
		"escrow_status": models.EscrowHeld,
	}
	update := bson.M{"$set": bson.M{
		"escrow_status": models.EscrowReleased,
		"released_at":   releasedAt,
		"updated_at":    time.Now(),
	}}

	res, err := r.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error releasing payment %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// RefundIf moves a completed, still-held payment to refunded. A payment whose
// escrow was already released can never match.
func (r *MongoPaymentRepo) RefundIf(ctx context.Context, id string, refundedAt time.Time, gatewayResponse string) (bool, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":            id,
		"status":        models.PaymentCompleted,
		"escrow_status": models.EscrowHeld,
	}
	update := bson.M{"$set": bson.M{
		"status":                   models.PaymentRefunded,
		"escrow_status":            models.EscrowRefunded,
		"refunded_at":              refundedAt,
		"gateway.gateway_response": gatewayResponse,
		"updated_at":               time.Now(),
	}}

	res, err := r.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return false, fmt.Errorf("error refunding payment %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}
