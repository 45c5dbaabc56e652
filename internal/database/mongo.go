// Package database holds the shared MongoDB handle. Collection names live
// here so the repositories and any migration tooling agree on them.
package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names, one per repository.
const (
	CollStaff       = "staff"
	CollAuthTokens  = "auth_tokens"
	CollTables      = "tables"
	CollFeedbacks   = "feedbacks"
	CollOfferTiers  = "offer_tiers"
	CollRedemptions = "redemptions"
)

var DB *mongo.Database

func Connect(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	DB = client.Database(dbName)
	log.Printf("✅ Connected to MongoDB (database %s)", dbName)
	return nil
}

func GetCollection(name string) *mongo.Collection {
	return DB.Collection(name)
}
