// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"

	"realestate_backend/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const collectionName = "users"

// Repository defines the interface for user data operations.
type Repository interface {
	Create(ctx context.Context, usr *User) error
	FindByUID(ctx context.Context, uid string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	UpdateFields(ctx context.Context, uid string, fields bson.M) error
	UpdateRole(ctx context.Context, uid string, role common.Role) error
	DeleteByUID(ctx context.Context, uid string) error
	FraudAgentUIDs(ctx context.Context) ([]string, error)
}

type mongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a new MongoDB user repository.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{col: db.Collection(collectionName)}
}

func (r *mongoRepository) Create(ctx context.Context, usr *User) error {
	usr.Email = strings.ToLower(strings.TrimSpace(usr.Email))
	if _, err := r.col.InsertOne(ctx, usr); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return common.ErrConflict.WithDetails("User with this uid or email already exists.")
		}
		return err
	}
	return nil
}

func (r *mongoRepository) FindByUID(ctx context.Context, uid string) (*User, error) {
	var usr User
	err := r.col.FindOne(ctx, bson.M{"uid": uid}).Decode(&usr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("User not found with this uid.")
		}
		return nil, err
	}
	return &usr, nil
}

func (r *mongoRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var usr User
	normalized := strings.ToLower(strings.TrimSpace(email))
	err := r.col.FindOne(ctx, bson.M{"email": normalized}).Decode(&usr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("User not found with this email.")
		}
		return nil, err
	}
	return &usr, nil
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]User, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoRepository) UpdateFields(ctx context.Context, uid string, fields bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound.WithDetails("User not found with this uid.")
	}
	return nil
}

func (r *mongoRepository) UpdateRole(ctx context.Context, uid string, role common.Role) error {
	return r.UpdateFields(ctx, uid, bson.M{"role": role})
}

// FraudAgentUIDs returns the uids of every account flagged as fraudulent.
// Listing queries use this to exclude fraud agents' properties.
func (r *mongoRepository) FraudAgentUIDs(ctx context.Context) ([]string, error) {
	cursor, err := r.col.Find(ctx, bson.M{"isFraud": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var flagged []User
	if err := cursor.All(ctx, &flagged); err != nil {
		return nil, err
	}
	uids := make([]string, 0, len(flagged))
	for _, usr := range flagged {
		uids = append(uids, usr.UID)
	}
	return uids, nil
}

func (r *mongoRepository) DeleteByUID(ctx context.Context, uid string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"uid": uid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound.WithDetails("User not found with this uid.")
	}
	return nil
}
