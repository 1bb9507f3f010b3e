package main

import (
	"context"

	"github.com/Conversia-AI/craftable-serialx/codecx"
	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/storex"
	"github.com/Conversia-AI/craftable-serialx/storex/providers/storexinmemory"
	"github.com/Conversia-AI/craftable-serialx/storex/providers/storexmongo"
	"github.com/Conversia-AI/craftable-serialx/storex/providers/storexpostgres"
	"go.uber.org/zap"
)

// sinkOptions select where check writes the normalized valid records.
// Mongo and postgres sinks reuse the connection flags of the source.
type sinkOptions struct {
	kind       string
	path       string
	collection string
	table      string
}

// openSink builds the storex sink selected by --save-to. The returned
// function flushes buffered records and releases connections.
func openSink(ctx context.Context, a *app, src sourceOptions, opts sinkOptions) (storex.Sink, func() error, error) {
	switch opts.kind {
	case "file":
		if opts.path == "" {
			return nil, nil, missingFlag("save-path", opts.kind)
		}
		codec, err := codecx.ForExtension(opts.path)
		if err != nil {
			return nil, nil, err
		}
		store := storexinmemory.NewMemoryStore()
		return store, func() error {
			records, err := store.Records(ctx)
			if err != nil {
				return err
			}
			raw, err := codec.Marshal(records)
			if err != nil {
				return errx.Wrap(err, "Failed to encode saved records", errx.TypeInternal).
					WithDetail("path", opts.path)
			}
			return a.fs.WriteFile(ctx, opts.path, raw)
		}, nil

	case "mongo":
		switch {
		case src.uri == "":
			return nil, nil, missingFlag("uri", opts.kind)
		case src.database == "":
			return nil, nil, missingFlag("database", opts.kind)
		case opts.collection == "":
			return nil, nil, missingFlag("save-collection", opts.kind)
		}
		client, err := storexmongo.Connect(ctx, src.uri)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(src.database).Collection(opts.collection)
		return storexmongo.NewMongoStore(coll), func() error {
			return client.Disconnect(context.Background())
		}, nil

	case "postgres":
		switch {
		case src.dsn == "":
			return nil, nil, missingFlag("dsn", opts.kind)
		case opts.table == "":
			return nil, nil, missingFlag("save-table", opts.kind)
		}
		db, err := storexpostgres.Connect(ctx, src.dsn)
		if err != nil {
			return nil, nil, err
		}
		return storexpostgres.NewPgStore(db, opts.table), db.Close, nil
	}

	return nil, nil, errx.New("Unsupported sink, expected file, mongo or postgres", errx.TypeBadRequest).
		WithDetail("sink", opts.kind)
}

// save writes records through the selected sink
func (a *app) save(ctx context.Context, src sourceOptions, opts sinkOptions, records []map[string]any) error {
	sink, done, err := openSink(ctx, a, src, opts)
	if err != nil {
		return err
	}
	if err := sink.Save(ctx, records); err != nil {
		_ = done()
		return err
	}
	if err := done(); err != nil {
		return err
	}
	a.logger.Info("valid records saved", zap.String("sink", opts.kind), zap.Int("count", len(records)))
	return nil
}
