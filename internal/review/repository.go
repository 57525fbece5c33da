// File: internal/review/repository.go
package review

import (
	"context"
	"errors"

	"realestate_backend/internal/common"
	"realestate_backend/internal/platform/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "reviews"

// Repository defines the interface for review data operations.
type Repository interface {
	Create(ctx context.Context, rev *Review) error
	FindByID(ctx context.Context, id string) (*Review, error)
	FindByProperty(ctx context.Context, propertyID string) ([]Review, error)
	FindByReviewer(ctx context.Context, reviewerUID string) ([]Review, error)
	FindLatest(ctx context.Context, limit int64) ([]Review, error)
	FindAll(ctx context.Context) ([]Review, error)
	Delete(ctx context.Context, id string) error
	DeleteByReviewer(ctx context.Context, reviewerUID string) error
}

type mongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a new MongoDB review repository.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{col: db.Collection(collectionName)}
}

func (r *mongoRepository) Create(ctx context.Context, rev *Review) error {
	_, err := r.col.InsertOne(ctx, rev)
	return err
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Review, error) {
	var rev Review
	err := r.col.FindOne(ctx, database.IDFilter(id)).Decode(&rev)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("Review not found.")
		}
		return nil, err
	}
	return &rev, nil
}

func (r *mongoRepository) FindByProperty(ctx context.Context, propertyID string) ([]Review, error) {
	return r.findMany(ctx, bson.M{"propertyId": propertyID}, 0)
}

func (r *mongoRepository) FindByReviewer(ctx context.Context, reviewerUID string) ([]Review, error) {
	return r.findMany(ctx, bson.M{"reviewerUid": reviewerUID}, 0)
}

func (r *mongoRepository) FindLatest(ctx context.Context, limit int64) ([]Review, error) {
	return r.findMany(ctx, bson.M{}, limit)
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]Review, error) {
	return r.findMany(ctx, bson.M{}, 0)
}

func (r *mongoRepository) findMany(ctx context.Context, filter bson.M, limit int64) ([]Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, database.IDFilter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound.WithDetails("Review not found.")
	}
	return nil
}

func (r *mongoRepository) DeleteByReviewer(ctx context.Context, reviewerUID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"reviewerUid": reviewerUID})
	return err
}
