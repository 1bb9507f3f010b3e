package storexmongo

import (
	"context"

	"github.com/Conversia-AI/craftable-serialx/codecx"
	"github.com/Conversia-AI/craftable-serialx/storex"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore reads and writes raw documents of one collection
type MongoStore struct {
	collection *mongo.Collection
	query      storex.Query
	// keepID keeps the _id key in returned records
	keepID bool
}

var _ storex.Store = (*MongoStore)(nil)

// MongoStoreOption configures a MongoStore
type MongoStoreOption func(*MongoStore)

// WithQuery filters, sorts, limits and projects the documents Records returns
func WithQuery(q storex.Query) MongoStoreOption {
	return func(s *MongoStore) {
		s.query = q
	}
}

// WithoutID drops the _id key from returned records
func WithoutID() MongoStoreOption {
	return func(s *MongoStore) {
		s.keepID = false
	}
}

// NewMongoStore creates a store over collection
func NewMongoStore(collection *mongo.Collection, opts ...MongoStoreOption) *MongoStore {
	s := &MongoStore{
		collection: collection,
		query:      storex.DefaultQuery(),
		keepID:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect opens a client and verifies it with a ping
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, storex.StoreErrors.NewWithCause(storex.ErrConnectionFailed, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, storex.StoreErrors.NewWithCause(storex.ErrConnectionFailed, err)
	}
	return client, nil
}

// Records returns the matching documents with BSON values normalized to
// plain Go values (ObjectIDs become hex strings)
func (s *MongoStore) Records(ctx context.Context) ([]map[string]any, error) {
	cursor, err := s.collection.Find(ctx, filterFor(s.query), findOptions(s.query))
	if err != nil {
		return nil, storex.StoreErrors.NewWithCause(storex.ErrMongoFindFailed, err).
			WithDetail("collection", s.collection.Name())
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storex.StoreErrors.NewWithCause(storex.ErrMongoDecodeFailed, err).
			WithDetail("collection", s.collection.Name())
	}

	records := make([]map[string]any, len(docs))
	for i, doc := range docs {
		rec := codecx.Normalize(doc).(map[string]any)
		if !s.keepID {
			delete(rec, "_id")
		}
		records[i] = rec
	}
	return records, nil
}

// Save inserts all records with one InsertMany
func (s *MongoStore) Save(ctx context.Context, records []map[string]any) error {
	if len(records) == 0 {
		return nil
	}

	documents := make([]any, len(records))
	for i, r := range records {
		documents[i] = bson.M(r)
	}

	if _, err := s.collection.InsertMany(ctx, documents); err != nil {
		return storex.StoreErrors.NewWithCause(storex.ErrMongoInsertFailed, err).
			WithDetail("collection", s.collection.Name()).
			WithDetail("count", len(records))
	}
	return nil
}

func filterFor(q storex.Query) bson.M {
	filter := bson.M{}
	for k, v := range q.Filters {
		filter[k] = v
	}
	return filter
}

func findOptions(q storex.Query) *options.FindOptions {
	findOptions := options.Find()

	// Sorting
	if q.OrderBy != "" {
		sortDir := 1
		if q.Desc {
			sortDir = -1
		}
		findOptions.SetSort(bson.D{{Key: q.OrderBy, Value: sortDir}})
	}

	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}

	// Field selection if specified
	if len(q.Fields) > 0 {
		projection := bson.M{}
		for _, field := range q.Fields {
			projection[field] = 1
		}
		findOptions.SetProjection(projection)
	}

	return findOptions
}
