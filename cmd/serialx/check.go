package main

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/eventx"
	"github.com/Conversia-AI/craftable-serialx/handlerx"
	"github.com/Conversia-AI/craftable-serialx/storex"
	"github.com/Conversia-AI/craftable-serialx/storex/providers/storexinmemory"
	"github.com/Conversia-AI/craftable-serialx/storex/providers/storexmongo"
	"github.com/Conversia-AI/craftable-serialx/storex/providers/storexpostgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sourceOptions select and address the record source of the check command
type sourceOptions struct {
	kind       string
	path       string
	uri        string
	database   string
	collection string
	dsn        string
	table      string
	query      string
	limit      int
	notify     string
}

// checkReport is printed by the check command
type checkReport struct {
	Schema  string              `json:"schema" yaml:"schema"`
	Source  string              `json:"source" yaml:"source"`
	Total   int                 `json:"total" yaml:"total"`
	Valid   int                 `json:"valid" yaml:"valid"`
	Invalid int                 `json:"invalid" yaml:"invalid"`
	Saved   int                 `json:"saved,omitempty" yaml:"saved,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newCheckCmd(a *app) *cobra.Command {
	var name string
	src := sourceOptions{}
	sink := sinkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate every record of a file, MongoDB collection or PostgreSQL table",
		Long: `Check reads all records from --source, validates each one against the
--name schema and prints a report. It exits non-zero when any record fails.`,
		Example: `  serialx check --schema s.yaml --name User --source file --path users.json
  serialx check --schema s.yaml --name User --source mongo --uri mongodb://localhost:27017 --database app --collection users
  serialx check --schema s.yaml --name User --source postgres --dsn postgres://localhost/app --table users
  serialx check --schema s.yaml --name User --path users.json --save-to file --save-path clean.json`,
		Args: cobra.NoArgs,
	}

	flags := cmd.Flags()
	flags.StringVarP(&name, "name", "n", "", "Schema name")
	flags.StringVar(&src.kind, "source", "file", "Record source: file, mongo or postgres")
	flags.StringVar(&src.path, "path", "", "Data file (file source)")
	flags.StringVar(&src.uri, "uri", "", "MongoDB connection URI")
	flags.StringVar(&src.database, "database", "", "MongoDB database")
	flags.StringVar(&src.collection, "collection", "", "MongoDB collection")
	flags.StringVar(&src.dsn, "dsn", "", "PostgreSQL connection string")
	flags.StringVar(&src.table, "table", "", "PostgreSQL table")
	flags.StringVar(&src.query, "query", "", "Raw SELECT used instead of --table")
	flags.IntVar(&src.limit, "limit", 0, "Check at most this many records")
	flags.StringVar(&src.notify, "notify-queue", "", "SQS queue URL receiving an event per invalid record")
	flags.StringVar(&sink.kind, "save-to", "", "Write normalized valid records to: file, mongo or postgres")
	flags.StringVar(&sink.path, "save-path", "", "Output file (file sink)")
	flags.StringVar(&sink.collection, "save-collection", "", "MongoDB collection (mongo sink, uses --uri and --database)")
	flags.StringVar(&sink.table, "save-table", "", "PostgreSQL table (postgres sink, uses --dsn)")
	_ = cmd.MarkFlagRequired("name")

	cmd.RunE = a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		svc, err := a.service(ctx)
		if err != nil {
			return err
		}

		source, closeFn, err := openSource(ctx, a, src)
		if err != nil {
			return err
		}
		defer closeFn()

		records, err := source.Records(ctx)
		if err != nil {
			return err
		}

		report, valid, err := check(ctx, svc, name, records)
		if err != nil {
			return err
		}
		report.Source = src.kind

		if sink.kind != "" && len(valid) > 0 {
			if err := a.save(ctx, src, sink, valid); err != nil {
				return err
			}
			report.Saved = len(valid)
		}
		a.logger.Info("check finished",
			zap.String("schema", name),
			zap.String("source", src.kind),
			zap.Int("total", report.Total),
			zap.Int("invalid", report.Invalid))

		if src.notify != "" {
			if err := a.notify(ctx, src.notify, report); err != nil {
				return err
			}
		}

		if err := a.print(report); err != nil {
			return err
		}
		if report.Invalid > 0 {
			return errx.New("Some records failed validation", errx.TypeValidation).
				WithDetail("invalid", report.Invalid).
				WithDetail("total", report.Total)
		}
		return nil
	})
	return cmd
}

// check validates records and folds a batch failure into a report. valid
// holds the normalized data of the records that passed, in source order.
func check(ctx context.Context, svc *handlerx.Service, name string, records []map[string]any) (report *checkReport, valid []map[string]any, err error) {
	report = &checkReport{Schema: name, Total: len(records)}
	if len(records) == 0 {
		return report, nil, nil
	}

	out, err := svc.ValidateBatch(ctx, name, records)
	if err == nil {
		report.Valid = len(records)
		return report, out, nil
	}

	var xerr *errx.Error
	if !errx.IsCode(err, handlerx.ErrBatchFailed) || !errors.As(err, &xerr) {
		return nil, nil, err
	}
	report.Errors, _ = xerr.Details["errors"].(map[string][]string)
	report.Invalid = len(report.Errors)
	report.Valid = report.Total - report.Invalid
	for _, rec := range out {
		if rec != nil {
			valid = append(valid, rec)
		}
	}
	return report, valid, nil
}

// notify publishes one event per invalid record and a closing summary
func (a *app) notify(ctx context.Context, queueURL string, report *checkReport) error {
	pub, err := a.newPublisher(ctx, queueURL)
	if err != nil {
		return err
	}
	defer pub.Close()

	events := make([]eventx.Event, 0, len(report.Errors)+1)
	for _, idx := range sortedIndexes(report.Errors) {
		events = append(events, eventx.NewEvent(eventx.TypeRecordInvalid, "serialx", map[string]any{
			"schema":   report.Schema,
			"source":   report.Source,
			"index":    idx,
			"messages": report.Errors[strconv.Itoa(idx)],
		}))
	}
	events = append(events, eventx.NewEvent(eventx.TypeCheckFinished, "serialx", map[string]any{
		"schema":  report.Schema,
		"source":  report.Source,
		"total":   report.Total,
		"valid":   report.Valid,
		"invalid": report.Invalid,
	}))

	if err := pub.Publish(ctx, events...); err != nil {
		return err
	}
	a.logger.Debug("check events published", zap.Int("count", len(events)))
	return nil
}

func sortedIndexes(errs map[string][]string) []int {
	out := make([]int, 0, len(errs))
	for k := range errs {
		if i, err := strconv.Atoi(k); err == nil {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// openSource builds the storex source selected by --source. The returned
// function releases its connection.
func openSource(ctx context.Context, a *app, opts sourceOptions) (storex.Source, func(), error) {
	query := storex.DefaultQuery()
	if opts.limit > 0 {
		query = query.WithLimit(opts.limit)
	}
	noop := func() {}

	switch opts.kind {
	case "file":
		if opts.path == "" {
			return nil, nil, missingFlag("path", opts.kind)
		}
		records, _, err := readRecords(ctx, a, opts.path)
		if err != nil {
			return nil, nil, err
		}
		store := storexinmemory.NewMemoryStore(
			storexinmemory.WithRecords(records...),
			storexinmemory.WithQuery(query),
		)
		return store, noop, nil

	case "mongo":
		switch {
		case opts.uri == "":
			return nil, nil, missingFlag("uri", opts.kind)
		case opts.database == "":
			return nil, nil, missingFlag("database", opts.kind)
		case opts.collection == "":
			return nil, nil, missingFlag("collection", opts.kind)
		}
		client, err := storexmongo.Connect(ctx, opts.uri)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(opts.database).Collection(opts.collection)
		store := storexmongo.NewMongoStore(coll, storexmongo.WithQuery(query), storexmongo.WithoutID())
		return store, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				a.logger.Warn("mongo disconnect failed", zap.Error(err))
			}
		}, nil

	case "postgres":
		if opts.dsn == "" {
			return nil, nil, missingFlag("dsn", opts.kind)
		}
		if opts.table == "" && opts.query == "" {
			return nil, nil, missingFlag("table", opts.kind)
		}
		db, err := storexpostgres.Connect(ctx, opts.dsn)
		if err != nil {
			return nil, nil, err
		}
		pgOpts := []storexpostgres.PgStoreOption{storexpostgres.WithQuery(query)}
		if opts.query != "" {
			pgOpts = append(pgOpts, storexpostgres.WithRawQuery(opts.query))
		}
		store := storexpostgres.NewPgStore(db, opts.table, pgOpts...)
		return store, func() {
			if err := db.Close(); err != nil {
				a.logger.Warn("postgres close failed", zap.Error(err))
			}
		}, nil
	}

	return nil, nil, errx.New("Unsupported source, expected file, mongo or postgres", errx.TypeBadRequest).
		WithDetail("source", opts.kind)
}

func missingFlag(flag, source string) error {
	return errx.New("Missing required flag --"+flag, errx.TypeBadRequest).WithDetail("source", source)
}
