package storexmongo

import (
	"context"
	"testing"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/storex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("records are normalized", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ann"},
			{Key: "age", Value: int32(30)},
			{Key: "tags", Value: bson.A{"a", "b"}},
		})
		last := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, last)

		records, err := NewMongoStore(mt.Coll).Records(context.Background())
		require.NoError(mt, err)
		require.Len(mt, records, 1)
		assert.Equal(mt, id.Hex(), records[0]["_id"])
		assert.Equal(mt, "Ann", records[0]["name"])
		assert.Equal(mt, int64(30), records[0]["age"])
		assert.Equal(mt, []any{"a", "b"}, records[0]["tags"])
	})

	mt.Run("without id", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: "x"}, {Key: "name", Value: "Bob"}}),
		)

		records, err := NewMongoStore(mt.Coll, WithoutID()).Records(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []map[string]any{{"name": "Bob"}}, records)
	})

	mt.Run("find failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad query",
			Name:    "BadValue",
		}))

		_, err := NewMongoStore(mt.Coll).Records(context.Background())
		assert.True(mt, errx.IsCode(err, storex.ErrMongoFindFailed))
	})

	mt.Run("save", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewMongoStore(mt.Coll).Save(context.Background(), []map[string]any{{"name": "Ann"}, {"name": "Bob"}})
		require.NoError(mt, err)

		assert.NoError(mt, NewMongoStore(mt.Coll).Save(context.Background(), nil))
	})
}

func TestFindOptions(t *testing.T) {
	q := storex.DefaultQuery().WithOrder("age", true).WithLimit(5).WithFields("name")
	opts := findOptions(q)

	assert.Equal(t, bson.D{{Key: "age", Value: -1}}, opts.Sort)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(5), *opts.Limit)
	assert.Equal(t, bson.M{"name": 1}, opts.Projection)

	assert.Equal(t, bson.M{"team": "a"}, filterFor(storex.DefaultQuery().WithFilter("team", "a")))
}
