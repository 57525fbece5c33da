// File: internal/wishlist/repository.go
package wishlist

import (
	"context"
	"errors"

	"realestate_backend/internal/common"
	"realestate_backend/internal/platform/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "wishlists"

// Repository defines the interface for wishlist data operations.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id string) (*Item, error)
	FindByUserAndProperty(ctx context.Context, userID, propertyID string) (*Item, error)
	FindByUser(ctx context.Context, userID string) ([]Item, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteByProperty(ctx context.Context, propertyID string) (int64, error)
}

type mongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a new MongoDB wishlist repository.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{col: db.Collection(collectionName)}
}

func (r *mongoRepository) Create(ctx context.Context, item *Item) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Item, error) {
	var item Item
	err := r.col.FindOne(ctx, database.IDFilter(id)).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("Wishlist item not found.")
		}
		return nil, err
	}
	return &item, nil
}

func (r *mongoRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID string) (*Item, error) {
	var item Item
	err := r.col.FindOne(ctx, bson.M{"userId": userID, "propertyId": propertyID}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("Wishlist item not found.")
		}
		return nil, err
	}
	return &item, nil
}

func (r *mongoRepository) FindByUser(ctx context.Context, userID string) ([]Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, database.IDFilter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound.WithDetails("Wishlist item not found.")
	}
	return nil
}

func (r *mongoRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// DeleteByProperty removes every saved entry for a listing. Used when a
// property is sold or deleted.
func (r *mongoRepository) DeleteByProperty(ctx context.Context, propertyID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"propertyId": propertyID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
