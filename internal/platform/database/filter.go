// File: internal/platform/database/filter.go
package database

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDFilter builds the dual-format primary key predicate. Historical documents
// were seeded with free-form string ids ("property1") while newer ones carry
// generated ObjectIds, so every id-based lookup must match the literal string
// and, when the id parses as 24-hex, the ObjectId form as well.
func IDFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$or": bson.A{
			bson.M{"_id": id},
			bson.M{"_id": oid},
		}}
	}
	return bson.M{"_id": id}
}

// IDValue returns the value to store under _id for a caller-supplied id,
// preserving the ObjectId type for 24-hex ids and the literal string otherwise.
func IDValue(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}
