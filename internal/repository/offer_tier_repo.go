package repository

import (
	"context"
	"time"

	"savora-backend/internal/database"
	"savora-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type OfferTierRepo struct {
	collection *mongo.Collection
}

func NewOfferTierRepo() *OfferTierRepo {
	return &OfferTierRepo{
		collection: database.GetCollection(database.CollOfferTiers),
	}
}

func (r *OfferTierRepo) Create(ctx context.Context, tier *models.OfferTier) error {
	tier.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, tier)
	if err != nil {
		return err
	}
	tier.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// ListOrdered returns all tiers sorted by priority ascending. The resolver
// depends on this order: first active match wins.
func (r *OfferTierRepo) ListOrdered(ctx context.Context) ([]models.OfferTier, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "priority", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tiers []models.OfferTier
	if err := cursor.All(ctx, &tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

func (r *OfferTierRepo) Update(ctx context.Context, id bson.ObjectID, fields bson.M) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

// EnsureIndexes creates necessary indexes for the offer_tiers collection
func (r *OfferTierRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "priority", Value: 1}},
	})
	return err
}
