// File: internal/offer/repository.go
package offer

import (
	"context"
	"errors"

	"realestate_backend/internal/common"
	"realestate_backend/internal/platform/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "offers"

// Repository defines the interface for offer data operations.
type Repository interface {
	Create(ctx context.Context, off *Offer) error
	FindByID(ctx context.Context, id string) (*Offer, error)
	FindActiveByBuyerAndProperty(ctx context.Context, buyerUID, propertyID string) (*Offer, error)
	FindByBuyer(ctx context.Context, buyerUID string) ([]Offer, error)
	FindBoughtByBuyer(ctx context.Context, buyerUID, buyerEmail string) ([]Offer, error)
	FindByAgent(ctx context.Context, agentUID, agentEmail string) ([]Offer, error)
	FindSoldByAgent(ctx context.Context, agentUID, agentEmail string) ([]Offer, error)
	TotalSoldAmountByAgent(ctx context.Context, agentUID, agentEmail string) (float64, error)
	FindAllBought(ctx context.Context) ([]Offer, error)
	FindPendingByProperty(ctx context.Context, propertyID string) ([]Offer, error)
	UpdateFields(ctx context.Context, id string, fields bson.M) error
	RejectOthers(ctx context.Context, propertyID string, exclude database.ID, onlyPending bool, reason string) (int64, error)
	DeletePendingByIDAndBuyer(ctx context.Context, id, buyerUID string) error
	DeleteByBuyer(ctx context.Context, buyerUID string) error
}

type mongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a new MongoDB offer repository.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{col: db.Collection(collectionName)}
}

// agentMatch is the one predicate that scopes offers to an agent. It matches
// the recorded agentUid, the agent's email (documents written before the uid
// was recorded), and the legacy propertyAgentUid field.
func agentMatch(agentUID, agentEmail string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"agentUid": agentUID},
		bson.M{"agentEmail": agentEmail},
		bson.M{"propertyAgentUid": agentUID},
	}}
}

func (r *mongoRepository) Create(ctx context.Context, off *Offer) error {
	_, err := r.col.InsertOne(ctx, off)
	return err
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*Offer, error) {
	var off Offer
	err := r.col.FindOne(ctx, database.IDFilter(id)).Decode(&off)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("Offer not found.")
		}
		return nil, err
	}
	return &off, nil
}

// FindActiveByBuyerAndProperty returns the buyer's non-terminal offer on a
// property, if any. Backs the duplicate-offer guard.
func (r *mongoRepository) FindActiveByBuyerAndProperty(ctx context.Context, buyerUID, propertyID string) (*Offer, error) {
	var off Offer
	filter := bson.M{
		"buyerUid":   buyerUID,
		"propertyId": propertyID,
		"status":     bson.M{"$in": bson.A{StatusPending, StatusAccepted}},
	}
	err := r.col.FindOne(ctx, filter).Decode(&off)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithDetails("No active offer found.")
		}
		return nil, err
	}
	return &off, nil
}

func (r *mongoRepository) FindByBuyer(ctx context.Context, buyerUID string) ([]Offer, error) {
	return r.findMany(ctx, bson.M{"buyerUid": buyerUID})
}

func (r *mongoRepository) FindBoughtByBuyer(ctx context.Context, buyerUID, buyerEmail string) ([]Offer, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"buyerUid": buyerUID},
			bson.M{"buyerEmail": buyerEmail},
		},
		"status": StatusBought,
	}
	return r.findMany(ctx, filter)
}

func (r *mongoRepository) FindByAgent(ctx context.Context, agentUID, agentEmail string) ([]Offer, error) {
	return r.findMany(ctx, agentMatch(agentUID, agentEmail))
}

func (r *mongoRepository) FindSoldByAgent(ctx context.Context, agentUID, agentEmail string) ([]Offer, error) {
	filter := agentMatch(agentUID, agentEmail)
	filter["status"] = StatusBought
	return r.findMany(ctx, filter)
}

// TotalSoldAmountByAgent sums completed sale amounts in the store rather than
// in the application so the total matches the same predicate as the listing
// queries.
func (r *mongoRepository) TotalSoldAmountByAgent(ctx context.Context, agentUID, agentEmail string) (float64, error) {
	match := agentMatch(agentUID, agentEmail)
	match["status"] = StatusBought

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalSoldAmount", Value: bson.D{{Key: "$sum", Value: "$offeredAmount"}}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalSoldAmount float64 `bson:"totalSoldAmount"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].TotalSoldAmount, nil
}

func (r *mongoRepository) FindAllBought(ctx context.Context) ([]Offer, error) {
	return r.findMany(ctx, bson.M{"status": StatusBought})
}

func (r *mongoRepository) FindPendingByProperty(ctx context.Context, propertyID string) ([]Offer, error) {
	return r.findMany(ctx, bson.M{"propertyId": propertyID, "status": StatusPending})
}

func (r *mongoRepository) findMany(ctx context.Context, filter bson.M) ([]Offer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var offers []Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *mongoRepository) UpdateFields(ctx context.Context, id string, fields bson.M) error {
	res, err := r.col.UpdateOne(ctx, database.IDFilter(id), bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound.WithDetails("Offer not found.")
	}
	return nil
}

// RejectOthers marks competing offers on a property as rejected, excluding
// the given offer. With onlyPending it sweeps only pending competitors (the
// sale cascade); otherwise it rejects everything not already accepted or
// bought (the accept cascade).
func (r *mongoRepository) RejectOthers(ctx context.Context, propertyID string, exclude database.ID, onlyPending bool, reason string) (int64, error) {
	filter := bson.M{
		"propertyId": propertyID,
		"_id":        bson.M{"$ne": exclude.Raw()},
	}
	if onlyPending {
		filter["status"] = StatusPending
	} else {
		filter["status"] = bson.M{"$nin": bson.A{StatusAccepted, StatusBought}}
	}

	update := bson.M{"status": StatusRejected}
	if reason != "" {
		update["rejectedReason"] = reason
	}

	res, err := r.col.UpdateMany(ctx, filter, bson.M{"$set": update})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeletePendingByIDAndBuyer removes an offer only while it is still pending
// and owned by the caller. The status guard rides in the delete filter so the
// check and the delete are one store operation.
func (r *mongoRepository) DeletePendingByIDAndBuyer(ctx context.Context, id, buyerUID string) error {
	filter := database.IDFilter(id)
	filter["buyerUid"] = buyerUID
	filter["status"] = StatusPending

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound.WithDetails("Offer not found or cannot be cancelled.")
	}
	return nil
}

func (r *mongoRepository) DeleteByBuyer(ctx context.Context, buyerUID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"buyerUid": buyerUID})
	return err
}
