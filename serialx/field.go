package serialx

import (
	"reflect"
)

// Type converts one field's values between raw data and the domain object.
// Implementations return a ValidationError or InvalidTypeError for bad input.
type Type interface {
	// Name returns the human-readable name of the type (e.g. "string")
	Name() string
	// Clean converts a non-null raw value into its domain representation
	Clean(f *Field, value any) (any, error)
	// ToData converts a non-null domain value into its raw representation
	ToData(f *Field, value any) (any, error)
}

// Validator checks a cleaned value
type Validator interface {
	Validate(f *Field, value any) error
}

// ValidatorFunc adapts a function to the Validator interface
type ValidatorFunc func(f *Field, value any) error

// Validate calls fn(f, value)
func (fn ValidatorFunc) Validate(f *Field, value any) error {
	return fn(f, value)
}

type anyType struct{}

func (anyType) Name() string { return "any" }

func (anyType) Clean(_ *Field, value any) (any, error) { return value, nil }

func (anyType) ToData(_ *Field, value any) (any, error) { return value, nil }

// Any returns the identity type
func Any() Type { return anyType{} }

// Field describes one attribute: its key in raw data, its attribute on the
// domain object, whether it is required or nullable, and its validators.
type Field struct {
	typ        Type
	name       string
	attr       string
	required   bool
	allowNull  bool
	validators []Validator
	parent     *Schema
}

// FieldOption configures a Field
type FieldOption func(*Field)

// Key sets the external name used in raw data. It defaults to the attribute name.
func Key(name string) FieldOption {
	return func(f *Field) {
		f.name = name
	}
}

// Required marks the field as required
func Required() FieldOption {
	return func(f *Field) {
		f.required = true
	}
}

// NotNull rejects null values
func NotNull() FieldOption {
	return Nullable(false)
}

// Nullable sets whether null values are accepted
func Nullable(allow bool) FieldOption {
	return func(f *Field) {
		f.allowNull = allow
	}
}

// Validators appends validators, run in order after cleaning
func Validators(validators ...Validator) FieldOption {
	return func(f *Field) {
		for _, v := range validators {
			if v != nil {
				f.validators = append(f.validators, v)
			}
		}
	}
}

// NewField declares a field of the given type. A nil type means Any.
func NewField(typ Type, opts ...FieldOption) *Field {
	if typ == nil {
		typ = Any()
	}
	f := &Field{
		typ:       typ,
		allowNull: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the key used in raw data
func (f *Field) Name() string {
	if f.name == "" {
		return f.attr
	}
	return f.name
}

// Attr returns the attribute name on the domain object
func (f *Field) Attr() string { return f.attr }

// Type returns the value type of the field
func (f *Field) Type() Type { return f.typ }

// IsRequired reports whether the field must be present
func (f *Field) IsRequired() bool { return f.required }

// AllowsNull reports whether null values are accepted
func (f *Field) AllowsNull() bool { return f.allowNull }

// Parent returns the schema the field is bound to, nil before binding
func (f *Field) Parent() *Schema { return f.parent }

// Validators returns a copy of the field's validators
func (f *Field) Validators() []Validator {
	out := make([]Validator, len(f.validators))
	copy(out, f.validators)
	return out
}

// Clean converts a raw value using the field type
func (f *Field) Clean(value any) (any, error) {
	return f.typ.Clean(f, value)
}

// BaseClean applies the null contract, cleans the value and runs the validators.
// It stops at the first failing validator.
func (f *Field) BaseClean(value any) (any, error) {
	if IsNull(value) {
		if !f.allowNull {
			return nil, f.nullError()
		}
		return nil, nil
	}

	cleaned, err := f.Clean(value)
	if err != nil {
		return nil, err
	}

	for _, v := range f.validators {
		if err := v.Validate(f, cleaned); err != nil {
			return nil, err
		}
	}

	return cleaned, nil
}

// ToData converts a domain value using the field type
func (f *Field) ToData(value any) (any, error) {
	return f.typ.ToData(f, value)
}

// BaseToData applies the null contract and converts the value to raw data
func (f *Field) BaseToData(value any) (any, error) {
	if IsNull(value) {
		if !f.allowNull {
			return nil, f.nullError()
		}
		return nil, nil
	}
	return f.ToData(value)
}

func (f *Field) nullError() *ValidationError {
	if f.Name() == f.attr || f.attr == "" {
		return Errorf("%s cannot be null/None", f.Name())
	}
	return Errorf("%s/%s cannot be null/None", f.Name(), f.attr)
}

// bind returns a copy of the field attached to parent under attr
func (f *Field) bind(attr string, parent *Schema) *Field {
	bound := *f
	bound.attr = attr
	if bound.name == "" {
		bound.name = attr
	}
	bound.validators = f.Validators()
	bound.parent = parent
	return &bound
}

// IsNull reports whether v is nil or a nil pointer, map, slice, interface, func or chan
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
