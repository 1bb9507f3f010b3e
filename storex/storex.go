package storex

import "context"

// Source produces raw records to be loaded through a schema
type Source interface {
	Records(ctx context.Context) ([]map[string]any, error)
}

// Sink persists raw records dumped from a schema
type Sink interface {
	Save(ctx context.Context, records []map[string]any) error
}

// Store is both a Source and a Sink
type Store interface {
	Source
	Sink
}

// Query narrows what a Source returns
type Query struct {
	Filters map[string]any
	OrderBy string
	Desc    bool
	// Limit caps the number of records; zero means no limit
	Limit int
	// Fields restricts the returned keys; empty means all
	Fields []string
}

// DefaultQuery returns a query matching every record
func DefaultQuery() Query {
	return Query{Filters: make(map[string]any)}
}

// WithFilter adds an equality filter
func (q Query) WithFilter(key string, value any) Query {
	filters := make(map[string]any, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters[key] = value
	q.Filters = filters
	return q
}

// WithOrder sorts by key
func (q Query) WithOrder(key string, desc bool) Query {
	q.OrderBy = key
	q.Desc = desc
	return q
}

// WithLimit caps the number of records
func (q Query) WithLimit(limit int) Query {
	q.Limit = limit
	return q
}

// WithFields restricts the returned keys
func (q Query) WithFields(fields ...string) Query {
	q.Fields = append([]string(nil), fields...)
	return q
}
