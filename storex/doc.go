// Package storex reads raw records from databases and writes them back.
//
// Providers return plain map[string]any records so they can be fed straight
// into a serialx schema, and accept the dumped maps for persistence.
//
// Checking every document of a collection:
//
//	import (
//		"github.com/Conversia-AI/craftable-serialx/storex"
//		"github.com/Conversia-AI/craftable-serialx/storex/providers/storexmongo"
//	)
//
//	client, err := storexmongo.Connect(ctx, "mongodb://localhost:27017")
//	if err != nil {
//		return err
//	}
//	defer client.Disconnect(ctx)
//
//	source := storexmongo.NewMongoStore(client.Database("app").Collection("users"),
//		storexmongo.WithQuery(storex.DefaultQuery().WithFilter("active", true).WithLimit(100)))
//
//	records, err := source.Records(ctx)
//	if err != nil {
//		return err
//	}
//	for i, rec := range records {
//		if _, err := userSchema.Load(rec); err != nil {
//			fmt.Println(i, serialx.Messages(err))
//		}
//	}
//
// PostgreSQL rows are read with a generated SELECT or a custom query:
//
//	db, err := storexpostgres.Connect(ctx, "postgres://localhost/app?sslmode=disable")
//	store := storexpostgres.NewPgStore(db, "users",
//		storexpostgres.WithRawQuery("SELECT id, name, email FROM users WHERE deleted_at IS NULL"))
//
// Sinks write all records in one operation: InsertMany for MongoDB and a
// single transaction of named inserts for PostgreSQL.
//
//	err = store.Save(ctx, []map[string]any{{"id": 1, "name": "Ann"}})
//
// Error handling:
//
//	if storex.IsConnectionFailed(err) {
//		// retry later
//	}
package storex
