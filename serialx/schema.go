package serialx

import (
	"fmt"

	"go.uber.org/zap"
)

// Options is the options block of a schema: the model factory and its arguments
type Options struct {
	Model       ModelFactory
	ModelArgs   []any
	ModelKwargs map[string]any
}

func (o Options) factory() ModelFactory {
	if o.Model == nil {
		return RecordFactory
	}
	return o.Model
}

// Attr is one named attribute of a declaration. Values that are *Field become
// fields, an Options value becomes the options block, anything else is kept as
// an extra attribute.
type Attr struct {
	Name  string
	Value any
}

// Schema is the compiled, immutable form of a declaration: an ordered field
// list and the resolved options. It is safe for concurrent use.
type Schema struct {
	name    string
	fields  []*Field
	byAttr  map[string]*Field
	byKey   map[string]*Field
	options Options
	extras  map[string]any
}

// Name returns the declared schema name
func (s *Schema) Name() string { return s.name }

// Len returns the number of fields
func (s *Schema) Len() int { return len(s.fields) }

// Fields returns the fields in declaration order
func (s *Schema) Fields() []*Field {
	out := make([]*Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the field bound to attr
func (s *Schema) Field(attr string) (*Field, bool) {
	f, ok := s.byAttr[attr]
	return f, ok
}

// FieldByKey returns the field whose raw-data key is key
func (s *Schema) FieldByKey(key string) (*Field, bool) {
	f, ok := s.byKey[key]
	return f, ok
}

// Options returns the resolved options block
func (s *Schema) Options() Options {
	opts := s.options
	opts.Model = s.options.factory()
	return opts
}

// Extra returns a non-field attribute of the declaration
func (s *Schema) Extra(name string) (any, bool) {
	v, ok := s.extras[name]
	return v, ok
}

// Builder collects a declaration and compiles it into a Schema
type Builder struct {
	name  string
	attrs []Attr
}

// NewBuilder starts a declaration named name
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Field declares a field under attr
func (b *Builder) Field(attr string, f *Field) *Builder {
	b.attrs = append(b.attrs, Attr{Name: attr, Value: f})
	return b
}

// Attr declares an arbitrary attribute
func (b *Builder) Attr(name string, value any) *Builder {
	b.attrs = append(b.attrs, Attr{Name: name, Value: value})
	return b
}

// Meta sets the options block
func (b *Builder) Meta(opts Options) *Builder {
	b.attrs = append(b.attrs, Attr{Name: "Meta", Value: opts})
	return b
}

// Build compiles the declaration. Fields are bound as copies, so the declared
// *Field values are never modified.
func (b *Builder) Build() (*Schema, error) {
	s := &Schema{
		name:   b.name,
		byAttr: make(map[string]*Field),
		byKey:  make(map[string]*Field),
		extras: make(map[string]any),
	}

	seen := make(map[string]bool)
	hasOptions := false

	for _, attr := range b.attrs {
		if attr.Name == "" {
			return nil, declarationError(b.name, "attribute with empty name")
		}
		if seen[attr.Name] {
			return nil, declarationError(b.name, fmt.Sprintf("attribute %q declared twice", attr.Name))
		}
		seen[attr.Name] = true

		switch v := attr.Value.(type) {
		case *Field:
			if v == nil {
				return nil, declarationError(b.name, fmt.Sprintf("field %q is nil", attr.Name))
			}
			bound := v.bind(attr.Name, s)
			if other, dup := s.byKey[bound.Name()]; dup {
				return nil, declarationError(b.name, fmt.Sprintf("fields %q and %q share key %q", other.Attr(), attr.Name, bound.Name()))
			}
			s.fields = append(s.fields, bound)
			s.byAttr[bound.Attr()] = bound
			s.byKey[bound.Name()] = bound
		case Options:
			if hasOptions {
				return nil, declarationError(b.name, "more than one options block")
			}
			hasOptions = true
			s.options = v
		case *Options:
			if hasOptions {
				return nil, declarationError(b.name, "more than one options block")
			}
			hasOptions = true
			if v != nil {
				s.options = *v
			}
		default:
			s.extras[attr.Name] = attr.Value
		}
	}

	Logger().Debug("schema compiled", zap.String("schema", s.name), zap.Int("fields", len(s.fields)))
	return s, nil
}

// MustBuild is like Build but panics on declaration errors
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Define compiles a schema from an ordered attribute list
func Define(name string, attrs ...Attr) (*Schema, error) {
	b := NewBuilder(name)
	b.attrs = append(b.attrs, attrs...)
	return b.Build()
}

// MustDefine is like Define but panics on declaration errors
func MustDefine(name string, attrs ...Attr) *Schema {
	s, err := Define(name, attrs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Load converts raw data into a domain object
func (s *Schema) Load(data map[string]any) (Model, error) {
	ser, err := FromData(s, data)
	if err != nil {
		return nil, err
	}
	if err := ser.Validate(); err != nil {
		return nil, err
	}
	return ser.Object(), nil
}

// Dump converts a domain object into raw data
func (s *Schema) Dump(obj Model) (map[string]any, error) {
	ser, err := FromObject(s, obj)
	if err != nil {
		return nil, err
	}
	if err := ser.Validate(); err != nil {
		return nil, err
	}
	return ser.Data(), nil
}

func declarationError(schema, reason string) error {
	return ErrorRegistry.New(ErrInvalidDeclaration).
		WithDetail("schema", schema).
		WithDetail("reason", reason)
}
