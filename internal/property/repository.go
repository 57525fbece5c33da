// File: internal/property/repository.go
package property

import (
	"context"
	"errors"
	"time"

	"realestate_backend/internal/common"
	"realestate_backend/internal/platform/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "properties"

// PublicListOptions narrows the public listing queries. Public views only ever
// see verified, unsold listings from non-fraud agents.
type PublicListOptions struct {
	Search           string
	Sort             string // "priceAsc" or "priceDesc"
	OnlyAdvertised   bool
	Limit            int64
	ExcludeAgentUIDs []string
}

// Repository defines the interface for property data operations.
type Repository interface {
	Create(ctx context.Context, prop *Property) error
	FindByID(ctx context.Context, id string) (*Property, error)
	FindPublic(ctx context.Context, opts PublicListOptions) ([]Property, error)
	FindAll(ctx context.Context) ([]Property, error)
	FindAdvertised(ctx context.Context) ([]Property, error)
	FindByAgent(ctx context.Context, agentUID string) ([]Property, error)
	UpdateFields(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
	DeleteByAgent(ctx context.Context, agentUID string) error
	MarkSold(ctx context.Context, id, soldTo string, soldAt time.Time) error
}

type mongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a new MongoDB property repository.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{col: db.Collection(collectionName)}
}

func (r *mongoRepository) Create(ctx context.Context, prop *Property) error {
	_, err := r.col.InsertOne(ctx, prop)
	return err
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Property, error) {
	var prop Property
	err := r.col.FindOne(ctx, database.IDFilter(id)).Decode(&prop)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("Property not found.")
		}
		return nil, err
	}
	return &prop, nil
}

func (r *mongoRepository) FindPublic(ctx context.Context, opts PublicListOptions) ([]Property, error) {
	filter := bson.M{
		"verificationStatus": VerificationVerified,
		"status":             bson.M{"$ne": StatusSold},
	}
	if opts.OnlyAdvertised {
		filter["isAdvertised"] = true
	}
	if opts.Search != "" {
		filter["location"] = bson.M{"$regex": primitive.Regex{Pattern: opts.Search, Options: "i"}}
	}
	if len(opts.ExcludeAgentUIDs) > 0 {
		filter["agentUid"] = bson.M{"$nin": opts.ExcludeAgentUIDs}
	}

	findOpts := options.Find()
	switch opts.Sort {
	case "priceAsc":
		findOpts.SetSort(bson.D{{Key: "minPrice", Value: 1}})
	case "priceDesc":
		findOpts.SetSort(bson.D{{Key: "minPrice", Value: -1}})
	default:
		findOpts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	return r.findMany(ctx, filter, findOpts)
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findMany(ctx, bson.M{}, opts)
}

// FindAdvertised is the admin view of advertised listings, unfiltered by
// verification or sale state.
func (r *mongoRepository) FindAdvertised(ctx context.Context) ([]Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findMany(ctx, bson.M{"isAdvertised": true}, opts)
}

func (r *mongoRepository) FindByAgent(ctx context.Context, agentUID string) ([]Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findMany(ctx, bson.M{"agentUid": agentUID}, opts)
}

func (r *mongoRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]Property, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var props []Property
	if err := cursor.All(ctx, &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (r *mongoRepository) UpdateFields(ctx context.Context, id string, fields bson.M) error {
	res, err := r.col.UpdateOne(ctx, database.IDFilter(id), bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound.WithDetails("Property not found.")
	}
	return nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, database.IDFilter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound.WithDetails("Property not found.")
	}
	return nil
}

func (r *mongoRepository) DeleteByAgent(ctx context.Context, agentUID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"agentUid": agentUID})
	return err
}

func (r *mongoRepository) MarkSold(ctx context.Context, id, soldTo string, soldAt time.Time) error {
	return r.UpdateFields(ctx, id, bson.M{
		"status": StatusSold,
		"soldAt": soldAt,
		"soldTo": soldTo,
	})
}
