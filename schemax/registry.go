package schemax

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Conversia-AI/craftable-serialx/codecx"
	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/fsx"
	"github.com/Conversia-AI/craftable-serialx/serialx"
	"go.uber.org/zap"
)

// Registry holds compiled schemas by name. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*serialx.Schema
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*serialx.Schema)}
}

// Register adds schemas. Nothing is added when any name is already taken.
func (r *Registry) Register(schemas ...*serialx.Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		if _, taken := r.schemas[s.Name()]; taken || seen[s.Name()] {
			return ErrorRegistry.New(ErrDuplicateSchema).WithDetail("schema", s.Name())
		}
		seen[s.Name()] = true
	}
	for _, s := range schemas {
		r.schemas[s.Name()] = s
	}
	return nil
}

// Get returns the schema registered under name
func (r *Registry) Get(name string) (*serialx.Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[name]
	if !ok {
		return nil, ErrorRegistry.New(ErrSchemaNotFound).WithDetail("schema", name)
	}
	return s, nil
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadBytes parses, compiles and registers a definition file. Object fields
// may reference schemas already in the registry. The file is registered as a
// whole or not at all.
func (r *Registry) LoadBytes(data []byte, c codecx.Codec) ([]*serialx.Schema, error) {
	file, err := Parse(c, data)
	if err != nil {
		return nil, err
	}

	schemas, err := Compile(file, r.lookup)
	if err != nil {
		return nil, err
	}
	if err := r.Register(schemas...); err != nil {
		return nil, err
	}

	serialx.Logger().Debug("schemas loaded",
		zap.String("content_type", c.ContentType()),
		zap.Int("count", len(schemas)))
	return schemas, nil
}

// LoadFile reads a definition file from fs, picking the codec from the
// path's extension
func (r *Registry) LoadFile(ctx context.Context, fs fsx.FileSystem, path string) ([]*serialx.Schema, error) {
	c, err := codecx.ForExtension(path)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	schemas, err := r.LoadBytes(data, c)
	if err != nil {
		var xerr *errx.Error
		if errors.As(err, &xerr) {
			return nil, xerr.WithDetail("path", path)
		}
		return nil, err
	}
	return schemas, nil
}

func (r *Registry) lookup(name string) (*serialx.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}
