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

type StaffRepo struct {
	collection *mongo.Collection
}

func NewStaffRepo() *StaffRepo {
	return &StaffRepo{
		collection: database.GetCollection(database.CollStaff),
	}
}

func (r *StaffRepo) FindByEmail(ctx context.Context, email string) (*models.Staff, error) {
	var staff models.Staff
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&staff)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepo) FindByID(ctx context.Context, id bson.ObjectID) (*models.Staff, error) {
	var staff models.Staff
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&staff)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepo) Create(ctx context.Context, staff *models.Staff) error {
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, staff)
	if err != nil {
		return err
	}
	staff.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// FindOrCreate provisions a staff account on first login. New accounts get
// the server role until an admin promotes them.
func (r *StaffRepo) FindOrCreate(ctx context.Context, email string) (*models.Staff, error) {
	staff, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if staff != nil {
		return staff, nil
	}

	newStaff := &models.Staff{
		Email: email,
		Role:  "server",
	}
	if err := r.Create(ctx, newStaff); err != nil {
		return nil, err
	}
	return newStaff, nil
}

// EnsureIndexes creates necessary indexes for the staff collection
func (r *StaffRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
