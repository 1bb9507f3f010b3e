package storexpostgres

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Conversia-AI/craftable-serialx/storex"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PgStore reads rows of a table, or of a custom query, as raw records and
// inserts records into the table
type PgStore struct {
	db        *sqlx.DB
	tableName string
	rawQuery  string
	query     storex.Query
}

var _ storex.Store = (*PgStore)(nil)

// PgStoreOption configures a PgStore
type PgStoreOption func(*PgStore)

// WithQuery filters, sorts, limits and projects the generated SELECT
func WithQuery(q storex.Query) PgStoreOption {
	return func(s *PgStore) {
		s.query = q
	}
}

// WithRawQuery replaces the generated SELECT with query
func WithRawQuery(query string) PgStoreOption {
	return func(s *PgStore) {
		s.rawQuery = query
	}
}

// NewPgStore creates a store over tableName
func NewPgStore(db *sqlx.DB, tableName string, opts ...PgStoreOption) *PgStore {
	s := &PgStore{
		db:        db,
		tableName: tableName,
		query:     storex.DefaultQuery(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect opens a lib/pq connection pool and pings it
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, storex.StoreErrors.NewWithCause(storex.ErrConnectionFailed, err)
	}
	return db, nil
}

// Records scans every row into a map. []byte columns become strings.
func (s *PgStore) Records(ctx context.Context) ([]map[string]any, error) {
	query, params := s.rawQuery, []any(nil)
	if query == "" {
		if s.tableName == "" {
			return nil, storex.StoreErrors.NewWithMessage(storex.ErrInvalidQuery, "Table name or query required")
		}
		query, params = buildSelect(s.tableName, s.query)
	}

	rows, err := s.db.QueryxContext(ctx, query, params...)
	if err != nil {
		return nil, storex.StoreErrors.NewWithCause(storex.ErrSQLQueryFailed, err).
			WithDetail("query", query)
	}
	defer rows.Close()

	records := make([]map[string]any, 0)
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, storex.StoreErrors.NewWithCause(storex.ErrSQLScanFailed, err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		records = append(records, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storex.StoreErrors.NewWithCause(storex.ErrSQLScanFailed, err)
	}

	return records, nil
}

// Save inserts every record inside one transaction. Map and slice values are
// stored as JSON.
func (s *PgStore) Save(ctx context.Context, records []map[string]any) (err error) {
	if len(records) == 0 {
		return nil
	}
	if s.tableName == "" {
		return storex.StoreErrors.NewWithMessage(storex.ErrInvalidQuery, "Table name required")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storex.StoreErrors.NewWithCause(storex.ErrTxBeginFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p) // Re-throw panic after rollback
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, record := range records {
		query, arg, buildErr := buildInsert(s.tableName, record)
		if buildErr != nil {
			return buildErr
		}
		if _, execErr := tx.NamedExecContext(ctx, query, arg); execErr != nil {
			return storex.StoreErrors.NewWithCause(storex.ErrSQLExecFailed, execErr).
				WithDetail("index", i).
				WithDetail("table", s.tableName)
		}
	}

	if err = tx.Commit(); err != nil {
		return storex.StoreErrors.NewWithCause(storex.ErrTxCommitFailed, err)
	}
	return nil
}

// buildSelect renders q as a SELECT with positional parameters
func buildSelect(table string, q storex.Query) (string, []any) {
	// Process fields selection
	fieldsClause := "*"
	if len(q.Fields) > 0 {
		quoted := make([]string, len(q.Fields))
		for i, f := range q.Fields {
			quoted[i] = pq.QuoteIdentifier(f)
		}
		fieldsClause = strings.Join(quoted, ", ")
	}

	// Process filters
	whereClause := ""
	params := []any{}
	if len(q.Filters) > 0 {
		keys := make([]string, 0, len(q.Filters))
		for k := range q.Filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		conditions := make([]string, len(keys))
		for i, k := range keys {
			conditions[i] = fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(k), i+1)
			params = append(params, q.Filters[k])
		}
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	// Process ordering
	orderClause := ""
	if q.OrderBy != "" {
		direction := "ASC"
		if q.Desc {
			direction = "DESC"
		}
		orderClause = fmt.Sprintf(" ORDER BY %s %s", pq.QuoteIdentifier(q.OrderBy), direction)
	}

	limitClause := ""
	if q.Limit > 0 {
		limitClause = fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	return fmt.Sprintf("SELECT %s FROM %s%s%s%s",
		fieldsClause, pq.QuoteIdentifier(table), whereClause, orderClause, limitClause), params
}

// buildInsert renders a named INSERT for record. Keys must be plain
// identifiers so they can double as bind names.
func buildInsert(table string, record map[string]any) (string, map[string]any, error) {
	if len(record) == 0 {
		return "", nil, storex.StoreErrors.NewWithMessage(storex.ErrInvalidQuery, "No fields to insert")
	}

	keys := make([]string, 0, len(record))
	for k := range record {
		if !isIdentifier(k) {
			return "", nil, storex.StoreErrors.NewWithMessage(storex.ErrInvalidQuery, "Column name is not a plain identifier").
				WithDetail("column", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	columns := make([]string, len(keys))
	binds := make([]string, len(keys))
	arg := make(map[string]any, len(keys))
	for i, k := range keys {
		columns[i] = pq.QuoteIdentifier(k)
		binds[i] = ":" + k
		arg[k] = columnValue(record[k])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(table),
		strings.Join(columns, ", "),
		strings.Join(binds, ", "),
	)
	return query, arg, nil
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}

func columnValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return JSONB(val)
	case []any:
		return JSONArray(val)
	}
	return v
}

// JSONB stores a map as a json/jsonb column
type JSONB map[string]any

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into JSONB", value)
	}

	return json.Unmarshal(bytes, j)
}

// JSONArray stores a slice as a json/jsonb column
type JSONArray []any

func (a JSONArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}
