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

type TableRepo struct {
	collection *mongo.Collection
}

func NewTableRepo() *TableRepo {
	return &TableRepo{
		collection: database.GetCollection(database.CollTables),
	}
}

func (r *TableRepo) Create(ctx context.Context, table *models.Table) error {
	table.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, table)
	if err != nil {
		return err
	}
	table.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *TableRepo) FindByToken(ctx context.Context, token string) (*models.Table, error) {
	var table models.Table
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&table)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &table, nil
}

func (r *TableRepo) List(ctx context.Context) ([]models.Table, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "number", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tables []models.Table
	if err := cursor.All(ctx, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *TableRepo) SetActive(ctx context.Context, id bson.ObjectID, active bool) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"active": active},
	})
	return err
}

// EnsureIndexes creates necessary indexes for the tables collection
func (r *TableRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
