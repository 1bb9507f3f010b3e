package fieldx

import (
	"fmt"
	"reflect"

	"github.com/Conversia-AI/craftable-serialx/serialx"
)

// ListType converts every element of a slice with Elem. Element messages are
// reported under "<name>[i]".
type ListType struct {
	Elem serialx.Type
}

func (t ListType) Name() string { return fmt.Sprintf("[%s]", t.elem().Name()) }

func (t ListType) elem() serialx.Type {
	if t.Elem == nil {
		return serialx.Any()
	}
	return t.Elem
}

func (t ListType) Clean(f *serialx.Field, value any) (any, error) {
	return t.each(f, value, (*serialx.Field).BaseClean)
}

func (t ListType) ToData(f *serialx.Field, value any) (any, error) {
	return t.each(f, value, (*serialx.Field).BaseToData)
}

func (t ListType) each(f *serialx.Field, value any, convert func(*serialx.Field, any) (any, error)) (any, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, serialx.InvalidType(f.Name(), "list", value)
	}

	out := make([]any, rv.Len())
	var messages []string
	for i := 0; i < rv.Len(); i++ {
		elem := serialx.NewField(t.elem(), serialx.Key(fmt.Sprintf("%s[%d]", f.Name(), i)))
		v, err := convert(elem, rv.Index(i).Interface())
		if err != nil {
			msgs := serialx.Messages(err)
			if msgs == nil {
				return nil, err
			}
			messages = append(messages, msgs...)
			continue
		}
		out[i] = v
	}

	if len(messages) > 0 {
		return nil, serialx.NewValidationError(messages...)
	}
	return out, nil
}

// MapType converts every value of a string-keyed map with Elem. Value
// messages are reported under "<name>[key]".
type MapType struct {
	Elem serialx.Type
}

func (t MapType) Name() string { return fmt.Sprintf("map[%s]", t.elem().Name()) }

func (t MapType) elem() serialx.Type {
	if t.Elem == nil {
		return serialx.Any()
	}
	return t.Elem
}

func (t MapType) Clean(f *serialx.Field, value any) (any, error) {
	return t.each(f, value, (*serialx.Field).BaseClean)
}

func (t MapType) ToData(f *serialx.Field, value any) (any, error) {
	return t.each(f, value, (*serialx.Field).BaseToData)
}

func (t MapType) each(f *serialx.Field, value any, convert func(*serialx.Field, any) (any, error)) (any, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, serialx.InvalidType(f.Name(), "map", value)
	}

	out := make(map[string]any, rv.Len())
	var messages []string
	for _, key := range sortedKeys(rv) {
		elem := serialx.NewField(t.elem(), serialx.Key(fmt.Sprintf("%s[%s]", f.Name(), key)))
		v, err := convert(elem, rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key())).Interface())
		if err != nil {
			msgs := serialx.Messages(err)
			if msgs == nil {
				return nil, err
			}
			messages = append(messages, msgs...)
			continue
		}
		out[key] = v
	}

	if len(messages) > 0 {
		return nil, serialx.NewValidationError(messages...)
	}
	return out, nil
}

// ObjectType runs a nested serializer over Schema. Nested messages are
// prefixed with "<name>.".
type ObjectType struct {
	Schema *serialx.Schema
}

func (t ObjectType) Name() string { return t.Schema.Name() }

func (t ObjectType) Clean(f *serialx.Field, value any) (any, error) {
	data, ok := asMap(value)
	if !ok {
		return nil, serialx.InvalidType(f.Name(), "object", value)
	}

	obj, err := t.Schema.Load(data)
	if err != nil {
		return nil, prefixed(f, err)
	}
	return obj, nil
}

// ToData accepts a serialx.Model, a struct pointer, a struct value or a map
func (t ObjectType) ToData(f *serialx.Field, value any) (any, error) {
	model, ok := asModel(value)
	if !ok {
		return nil, serialx.InvalidType(f.Name(), "object", value)
	}

	data, err := t.Schema.Dump(model)
	if err != nil {
		return nil, prefixed(f, err)
	}
	return data, nil
}

func prefixed(f *serialx.Field, err error) error {
	msgs := serialx.Messages(err)
	if msgs == nil {
		return err
	}
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = f.Name() + "." + m
	}
	return serialx.NewValidationError(out...)
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case serialx.Record:
		return map[string]any(v), true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func asModel(value any) (serialx.Model, bool) {
	if m, ok := value.(serialx.Model); ok {
		return m, true
	}
	if m, ok := asMap(value); ok {
		return serialx.Record(m), true
	}

	rv := reflect.ValueOf(value)
	switch {
	case rv.Kind() == reflect.Ptr && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct:
		m, err := serialx.Struct(value)
		return m, err == nil
	case rv.Kind() == reflect.Struct:
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		m, err := serialx.Struct(ptr.Interface())
		return m, err == nil
	}
	return nil, false
}

// List declares a list field whose elements have type elem
func List(elem serialx.Type, opts ...serialx.FieldOption) *serialx.Field {
	return serialx.NewField(ListType{Elem: elem}, opts...)
}

// Map declares a string-keyed map field whose values have type elem
func Map(elem serialx.Type, opts ...serialx.FieldOption) *serialx.Field {
	return serialx.NewField(MapType{Elem: elem}, opts...)
}

// Object declares a nested object field converted with schema
func Object(schema *serialx.Schema, opts ...serialx.FieldOption) *serialx.Field {
	return serialx.NewField(ObjectType{Schema: schema}, opts...)
}
