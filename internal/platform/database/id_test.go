package database

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIDFilter(t *testing.T) {
	t.Run("hex id matches both storage forms", func(t *testing.T) {
		hex := "507f1f77bcf86cd799439011"
		filter := IDFilter(hex)

		or, ok := filter["$or"].(bson.A)
		require.True(t, ok, "hex ids must produce an $or filter")
		require.Len(t, or, 2)

		oid, err := primitive.ObjectIDFromHex(hex)
		require.NoError(t, err)
		assert.Contains(t, or, bson.M{"_id": hex})
		assert.Contains(t, or, bson.M{"_id": oid})
	})

	t.Run("legacy string id matches directly", func(t *testing.T) {
		filter := IDFilter("legacy-id-001")
		assert.Equal(t, bson.M{"_id": "legacy-id-001"}, filter)
	})
}

func TestIDValue(t *testing.T) {
	t.Run("hex string becomes ObjectId", func(t *testing.T) {
		v := IDValue("507f1f77bcf86cd799439011")
		_, ok := v.(primitive.ObjectID)
		assert.True(t, ok)
	})

	t.Run("non-hex string stays a string", func(t *testing.T) {
		assert.Equal(t, "legacy-id-001", IDValue("legacy-id-001"))
	})
}

func TestID(t *testing.T) {
	t.Run("parse round-trips hex ids", func(t *testing.T) {
		hex := "507f1f77bcf86cd799439011"
		id := ParseID(hex)
		assert.Equal(t, hex, id.String())
		_, ok := id.Raw().(primitive.ObjectID)
		assert.True(t, ok)
	})

	t.Run("parse round-trips legacy string ids", func(t *testing.T) {
		id := ParseID("legacy-id-001")
		assert.Equal(t, "legacy-id-001", id.String())
		assert.Equal(t, "legacy-id-001", id.Raw())
	})

	t.Run("new ids are non-zero ObjectIds", func(t *testing.T) {
		id := NewID()
		assert.False(t, id.IsZero())
		assert.Len(t, id.String(), 24)
	})

	t.Run("zero value is zero", func(t *testing.T) {
		var id ID
		assert.True(t, id.IsZero())
		assert.Equal(t, "", id.String())
	})

	t.Run("json renders as a plain string", func(t *testing.T) {
		id := ParseID("507f1f77bcf86cd799439011")
		data, err := json.Marshal(id)
		require.NoError(t, err)
		assert.Equal(t, `"507f1f77bcf86cd799439011"`, string(data))

		var decoded ID
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, id.String(), decoded.String())
	})

	t.Run("bson preserves the stored form", func(t *testing.T) {
		type doc struct {
			ID ID `bson:"_id"`
		}

		hexDoc := doc{ID: ParseID("507f1f77bcf86cd799439011")}
		data, err := bson.Marshal(hexDoc)
		require.NoError(t, err)
		var hexOut doc
		require.NoError(t, bson.Unmarshal(data, &hexOut))
		assert.Equal(t, hexDoc.ID.String(), hexOut.ID.String())
		_, ok := hexOut.ID.Raw().(primitive.ObjectID)
		assert.True(t, ok)

		strDoc := doc{ID: ParseID("legacy-id-001")}
		data, err = bson.Marshal(strDoc)
		require.NoError(t, err)
		var strOut doc
		require.NoError(t, bson.Unmarshal(data, &strOut))
		assert.Equal(t, "legacy-id-001", strOut.ID.Raw())
	})
}
