// File: internal/platform/database/id.go
package database

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID is a document primary key that may be either a generated ObjectId or a
// legacy free-form string. It round-trips through bson in whichever form the
// stored document uses and renders as a plain string in JSON.
type ID struct {
	raw interface{}
}

// NewID generates a fresh ObjectId-backed ID.
func NewID() ID {
	return ID{raw: primitive.NewObjectID()}
}

// ParseID converts a caller-supplied id string, preserving the ObjectId type
// for 24-hex ids and the literal string otherwise.
func ParseID(s string) ID {
	return ID{raw: IDValue(s)}
}

// Raw exposes the underlying bson value, for use in filters such as
// {"_id": {"$ne": id.Raw()}}.
func (id ID) Raw() interface{} { return id.raw }

func (id ID) IsZero() bool {
	switch v := id.raw.(type) {
	case nil:
		return true
	case primitive.ObjectID:
		return v.IsZero()
	case string:
		return v == ""
	}
	return false
}

func (id ID) String() string {
	switch v := id.raw.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = ParseID(s)
	return nil
}

func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if id.raw == nil {
		return bson.MarshalValue(primitive.NewObjectID())
	}
	return bson.MarshalValue(id.raw)
}

func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeObjectID:
		oid, ok := rv.ObjectIDOK()
		if !ok {
			return fmt.Errorf("database: malformed ObjectId _id")
		}
		id.raw = oid
	case bson.TypeString:
		s, ok := rv.StringValueOK()
		if !ok {
			return fmt.Errorf("database: malformed string _id")
		}
		id.raw = s
	default:
		return fmt.Errorf("database: unsupported _id bson type %s", t)
	}
	return nil
}
