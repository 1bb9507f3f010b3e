package storexinmemory

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/Conversia-AI/craftable-serialx/storex"
)

// MemoryStore keeps records in a slice. It implements storex.Store.
type MemoryStore struct {
	records []map[string]any
	mu      sync.RWMutex
	query   storex.Query
}

var _ storex.Store = (*MemoryStore)(nil)

// MemoryStoreOption defines a functional option for configuring MemoryStore
type MemoryStoreOption func(*MemoryStore)

// WithRecords seeds the store
func WithRecords(records ...map[string]any) MemoryStoreOption {
	return func(ms *MemoryStore) {
		for _, r := range records {
			ms.records = append(ms.records, copyRecord(r))
		}
	}
}

// WithQuery filters, sorts and limits what Records returns
func WithQuery(q storex.Query) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.query = q
	}
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(options ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{query: storex.DefaultQuery()}
	for _, option := range options {
		option(ms)
	}
	return ms
}

// Records returns copies of the stored records matching the query
func (ms *MemoryStore) Records(ctx context.Context) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make([]map[string]any, 0, len(ms.records))
	for _, r := range ms.records {
		if matchesFilter(r, ms.query.Filters) {
			out = append(out, project(r, ms.query.Fields))
		}
	}

	if ms.query.OrderBy != "" {
		key, desc := ms.query.OrderBy, ms.query.Desc
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return less(out[j][key], out[i][key])
			}
			return less(out[i][key], out[j][key])
		})
	}

	if ms.query.Limit > 0 && len(out) > ms.query.Limit {
		out = out[:ms.query.Limit]
	}
	return out, nil
}

// Save appends copies of the records
func (ms *MemoryStore) Save(ctx context.Context, records []map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, r := range records {
		ms.records = append(ms.records, copyRecord(r))
	}
	return nil
}

// Len returns the number of stored records
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.records)
}

// Clear removes all records from the store
func (ms *MemoryStore) Clear() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.records = nil
}

// matchesFilter checks equality on every filter key
func matchesFilter(r map[string]any, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := r[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func project(r map[string]any, fields []string) map[string]any {
	if len(fields) == 0 {
		return copyRecord(r)
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := r[f]; ok {
			out[f] = v
		}
	}
	return out
}

func copyRecord(r map[string]any) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// less orders numbers and strings; other values keep their order
func less(a, b any) bool {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x < y
	default:
		fx, okx := toFloat(a)
		fy, oky := toFloat(b)
		return okx && oky && fx < fy
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
