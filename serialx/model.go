package serialx

import "reflect"

// Model is a domain object whose attributes are read and written by name.
// Get reports presence explicitly; an absent attribute is not an error.
type Model interface {
	Get(attr string) (any, bool)
	Set(attr string, value any) error
}

// ModelFactory builds a fresh default model
type ModelFactory func(args []any, kwargs map[string]any) (Model, error)

// Record is a map-backed model. A key is present when it exists in the map.
type Record map[string]any

// Get returns the attribute value and whether it is set
func (r Record) Get(attr string) (any, bool) {
	v, ok := r[attr]
	return v, ok
}

// Set stores the attribute value
func (r Record) Set(attr string, value any) error {
	r[attr] = value
	return nil
}

// Unset removes the attribute
func (r Record) Unset(attr string) {
	delete(r, attr)
}

// RecordFactory is the default factory: an empty Record prefilled with kwargs.
// Positional arguments are not accepted.
func RecordFactory(args []any, kwargs map[string]any) (Model, error) {
	if len(args) > 0 {
		return nil, ErrorRegistry.New(ErrModelFactory).
			WithDetail("reason", "record models take no positional arguments").
			WithDetail("args", len(args))
	}
	r := make(Record, len(kwargs))
	for k, v := range kwargs {
		r[k] = v
	}
	return r, nil
}

// Initializer is implemented by struct models that accept positional factory arguments
type Initializer interface {
	Init(args ...any) error
}

// StructFactory returns a factory building a fresh *T. kwargs are decoded into
// the struct; args are passed to Init when *T implements Initializer.
func StructFactory[T any]() ModelFactory {
	return StructFactoryOf(reflect.TypeOf((*T)(nil)).Elem())
}

// StructFactoryOf is StructFactory for a struct type known only at runtime
func StructFactoryOf(t reflect.Type) ModelFactory {
	return func(args []any, kwargs map[string]any) (Model, error) {
		if t.Kind() != reflect.Struct {
			return nil, ErrorRegistry.New(ErrInvalidModel).WithDetail("type", t.String())
		}
		ptr := reflect.New(t).Interface()
		m, err := Struct(ptr)
		if err != nil {
			return nil, err
		}

		if len(kwargs) > 0 {
			if err := decodeInto(ptr, kwargs); err != nil {
				return nil, ErrorRegistry.NewWithCause(ErrModelFactory, err).
					WithDetail("reason", "cannot apply kwargs")
			}
		}

		if init, ok := ptr.(Initializer); ok {
			if err := init.Init(args...); err != nil {
				return nil, ErrorRegistry.NewWithCause(ErrModelFactory, err)
			}
		} else if len(args) > 0 {
			return nil, ErrorRegistry.New(ErrModelFactory).
				WithDetail("reason", "model does not implement Initializer").
				WithDetail("args", len(args))
		}

		return m, nil
	}
}

// Unwrapper is implemented by models that adapt another value
type Unwrapper interface {
	Unwrap() any
}
