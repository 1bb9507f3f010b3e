package fieldx

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/Conversia-AI/craftable-serialx/serialx"
	"github.com/google/uuid"
)

// StringType accepts string values only
type StringType struct{}

func (StringType) Name() string { return "string" }

func (StringType) Clean(f *serialx.Field, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, serialx.InvalidType(f.Name(), "string", value)
	}
	return s, nil
}

func (t StringType) ToData(f *serialx.Field, value any) (any, error) {
	return t.Clean(f, value)
}

// IntType accepts every integer kind, whole floats and json.Number. Booleans are rejected.
// Values are normalized to int.
type IntType struct{}

func (IntType) Name() string { return "int" }

func (IntType) Clean(f *serialx.Field, value any) (any, error) {
	if n, ok := toInt(value); ok {
		return n, nil
	}
	return nil, serialx.InvalidType(f.Name(), "int", value)
}

func (t IntType) ToData(f *serialx.Field, value any) (any, error) {
	return t.Clean(f, value)
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case bool:
		return 0, false
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			fl, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}
			return floatToInt(fl)
		}
		return int(i), true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int(u), true
	case reflect.Float32, reflect.Float64:
		return floatToInt(rv.Float())
	}
	return 0, false
}

// floatToInt accepts whole floats inside the int64 range. 2^63 itself is
// representable as a float but not as an int64.
func floatToInt(fl float64) (int, bool) {
	if math.IsInf(fl, 0) || math.IsNaN(fl) || fl != math.Trunc(fl) {
		return 0, false
	}
	if fl < math.MinInt64 || fl >= 1<<63 {
		return 0, false
	}
	return int(fl), true
}

// FloatType accepts every numeric kind and json.Number, normalized to float64
type FloatType struct{}

func (FloatType) Name() string { return "float" }

func (FloatType) Clean(f *serialx.Field, value any) (any, error) {
	if n, ok := toFloat(value); ok {
		return n, nil
	}
	return nil, serialx.InvalidType(f.Name(), "float", value)
}

func (t FloatType) ToData(f *serialx.Field, value any) (any, error) {
	return t.Clean(f, value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case bool:
		return 0, false
	case json.Number:
		fl, err := v.Float64()
		return fl, err == nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// BoolType accepts bool values only
type BoolType struct{}

func (BoolType) Name() string { return "bool" }

func (BoolType) Clean(f *serialx.Field, value any) (any, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, serialx.InvalidType(f.Name(), "bool", value)
	}
	return b, nil
}

func (t BoolType) ToData(f *serialx.Field, value any) (any, error) {
	return t.Clean(f, value)
}

// UUIDType cleans strings and uuid.UUID values into uuid.UUID. The data side
// is the canonical string form.
type UUIDType struct{}

func (UUIDType) Name() string { return "uuid" }

func (UUIDType) Clean(f *serialx.Field, value any) (any, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, serialx.Errorf("%s must be a valid UUID", f.Name())
		}
		return id, nil
	case []byte:
		id, err := uuid.FromBytes(v)
		if err != nil {
			return nil, serialx.Errorf("%s must be a valid UUID", f.Name())
		}
		return id, nil
	}
	return nil, serialx.InvalidType(f.Name(), "uuid", value)
}

func (t UUIDType) ToData(f *serialx.Field, value any) (any, error) {
	id, err := t.Clean(f, value)
	if err != nil {
		return nil, err
	}
	return id.(uuid.UUID).String(), nil
}

// TimeType cleans formatted strings and time.Time values into time.Time. The
// data side is formatted with Layout, RFC3339 when empty.
type TimeType struct {
	Layout string
}

func (t TimeType) Name() string { return "time" }

func (t TimeType) layout() string {
	if t.Layout == "" {
		return time.RFC3339
	}
	return t.Layout
}

func (t TimeType) Clean(f *serialx.Field, value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		return *v, nil
	case string:
		parsed, err := time.Parse(t.layout(), v)
		if err != nil {
			return nil, serialx.Errorf("%s must be a time formatted as %s", f.Name(), t.layout())
		}
		return parsed, nil
	}
	return nil, serialx.InvalidType(f.Name(), "time", value)
}

func (t TimeType) ToData(f *serialx.Field, value any) (any, error) {
	cleaned, err := t.Clean(f, value)
	if err != nil {
		return nil, err
	}
	return cleaned.(time.Time).Format(t.layout()), nil
}

// EnumType accepts one of a fixed set of strings
type EnumType struct {
	Values []string
}

func (EnumType) Name() string { return "enum" }

func (t EnumType) Clean(f *serialx.Field, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, serialx.InvalidType(f.Name(), "string", value)
	}
	for _, allowed := range t.Values {
		if s == allowed {
			return s, nil
		}
	}
	return nil, serialx.Errorf("%s must be one of: %s", f.Name(), strings.Join(t.Values, ", "))
}

func (t EnumType) ToData(f *serialx.Field, value any) (any, error) {
	return t.Clean(f, value)
}

// String declares a string field
func String(opts ...serialx.FieldOption) *serialx.Field {
	return serialx.NewField(StringType{}, opts...)
}

// Int declares an integer field
func Int(opts ...serialx.FieldOption) *serialx.Field {
	return serialx.NewField(IntType{}, opts...)
}

// Float declares a float field
func Float(opts ...serialx.FieldOption) *serialx.Field {
	return serialx.NewField(FloatType{}, opts...)
}

// Bool declares a boolean field
func Bool(opts ...serialx.FieldOption) *serialx.Field {
	return serialx.NewField(BoolType{}, opts...)
}

// UUID declares a UUID field
func UUID(opts ...serialx.FieldOption) *serialx.Field {
	return serialx.NewField(UUIDType{}, opts...)
}

// Time declares a time field using layout. An empty layout means RFC3339.
func Time(layout string, opts ...serialx.FieldOption) *serialx.Field {
	return serialx.NewField(TimeType{Layout: layout}, opts...)
}

// Enum declares a string field restricted to values
func Enum(values []string, opts ...serialx.FieldOption) *serialx.Field {
	return serialx.NewField(EnumType{Values: values}, opts...)
}

// Any declares a field that passes values through unchanged
func Any(opts ...serialx.FieldOption) *serialx.Field {
	return serialx.NewField(serialx.Any(), opts...)
}
