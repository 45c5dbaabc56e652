package repository

import (
	"context"
	"time"

	"savora-backend/internal/database"
	"savora-backend/internal/errs"
	"savora-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type RedemptionRepo struct {
	collection *mongo.Collection
}

func NewRedemptionRepo() *RedemptionRepo {
	return &RedemptionRepo{
		collection: database.GetCollection(database.CollRedemptions),
	}
}

// Insert records a claim. The unique index on bill_id is the source of truth
// for one-bill-one-redemption: a duplicate-key error from a concurrent claim
// on the same bill comes back as a conflict, no matter what any earlier
// advisory check reported.
func (r *RedemptionRepo) Insert(ctx context.Context, claim *models.RedemptionClaim) error {
	claim.RedeemedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, claim)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.Conflict("bill already redeemed")
		}
		return err
	}
	claim.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *RedemptionRepo) FindByBillID(ctx context.Context, billID string) (*models.RedemptionClaim, error) {
	var claim models.RedemptionClaim
	err := r.collection.FindOne(ctx, bson.M{"bill_id": billID}).Decode(&claim)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

func (r *RedemptionRepo) FindByFeedbackID(ctx context.Context, feedbackID bson.ObjectID) (*models.RedemptionClaim, error) {
	var claim models.RedemptionClaim
	err := r.collection.FindOne(ctx, bson.M{"feedback_id": feedbackID}).Decode(&claim)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

// EnsureIndexes creates necessary indexes for the redemptions collection
func (r *RedemptionRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "bill_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "feedback_id", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
