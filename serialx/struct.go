package serialx

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
)

// structIndex resolves attribute names to field indexes of one struct type
type structIndex struct {
	byName map[string][]int
	byJSON map[string][]int
	byFold map[string][]int
}

var structCache sync.Map // reflect.Type -> *structIndex

func indexFor(t reflect.Type) *structIndex {
	if cached, ok := structCache.Load(t); ok {
		return cached.(*structIndex)
	}

	idx := &structIndex{
		byName: make(map[string][]int),
		byJSON: make(map[string][]int),
		byFold: make(map[string][]int),
	}

	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || (sf.Anonymous && indirectKind(sf.Type) == reflect.Struct) {
			continue
		}
		idx.byName[sf.Name] = sf.Index
		if _, taken := idx.byFold[strings.ToLower(sf.Name)]; !taken {
			idx.byFold[strings.ToLower(sf.Name)] = sf.Index
		}
		if tag := sf.Tag.Get("json"); tag != "" && tag != "-" {
			name, _, _ := strings.Cut(tag, ",")
			if name != "" {
				idx.byJSON[name] = sf.Index
			}
		}
	}

	actual, _ := structCache.LoadOrStore(t, idx)
	return actual.(*structIndex)
}

func (idx *structIndex) lookup(attr string) ([]int, bool) {
	if i, ok := idx.byName[attr]; ok {
		return i, true
	}
	if i, ok := idx.byJSON[attr]; ok {
		return i, true
	}
	i, ok := idx.byFold[strings.ToLower(attr)]
	return i, ok
}

// structModel adapts a pointer to a struct to the Model interface
type structModel struct {
	ptr   reflect.Value
	index *structIndex
}

// Struct adapts v to a Model. v must be a non-nil pointer to a struct or
// already a Model. Attributes resolve by Go field name, then json tag name,
// then case-insensitive field name.
func Struct(v any) (Model, error) {
	if m, ok := v.(Model); ok {
		return m, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, ErrorRegistry.New(ErrInvalidModel).
			WithDetail("type", fmt.Sprintf("%T", v))
	}

	return &structModel{
		ptr:   rv,
		index: indexFor(rv.Elem().Type()),
	}, nil
}

// MustStruct is like Struct but panics when v cannot be adapted
func MustStruct(v any) Model {
	m, err := Struct(v)
	if err != nil {
		panic(err)
	}
	return m
}

// Get returns the field value and true when the struct declares attr.
// Non-nil pointer fields are dereferenced; a nil pointer reads as absent.
func (m *structModel) Get(attr string) (any, bool) {
	i, ok := m.index.lookup(attr)
	if !ok {
		return nil, false
	}
	fv, err := m.ptr.Elem().FieldByIndexErr(i)
	if err != nil {
		return nil, false
	}
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return nil, false
		}
		return fv.Elem().Interface(), true
	}
	return fv.Interface(), true
}

// Set assigns value to the field, converting when needed
func (m *structModel) Set(attr string, value any) error {
	i, ok := m.index.lookup(attr)
	if !ok {
		return fmt.Errorf("%s has no attribute %q", m.ptr.Elem().Type(), attr)
	}
	fv, err := m.ptr.Elem().FieldByIndexErr(i)
	if err != nil {
		return fmt.Errorf("cannot reach attribute %q: %w", attr, err)
	}
	return assign(fv, value)
}

// Unwrap returns the adapted struct pointer
func (m *structModel) Unwrap() any {
	return m.ptr.Interface()
}

func assign(dst reflect.Value, value any) error {
	if IsNull(value) {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	value = plain(value)

	src := reflect.ValueOf(value)
	dt := dst.Type()

	switch {
	case src.Type().AssignableTo(dt):
		dst.Set(src)
		return nil
	case dt.Kind() == reflect.Ptr && src.Type().AssignableTo(dt.Elem()):
		p := reflect.New(dt.Elem())
		p.Elem().Set(src)
		dst.Set(p)
		return nil
	case src.Kind() == reflect.Ptr && src.Type().Elem().AssignableTo(dt):
		dst.Set(src.Elem())
		return nil
	case isNumeric(src.Kind()) && isNumeric(dt.Kind()):
		dst.Set(src.Convert(dt))
		return nil
	case src.Kind() == reflect.Slice && dt.Kind() == reflect.Slice:
		out := reflect.MakeSlice(dt, src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			if err := assign(out.Index(i), src.Index(i).Interface()); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		dst.Set(out)
		return nil
	case src.Kind() == reflect.Map && dt.Kind() == reflect.Map &&
		src.Type().Key().Kind() == reflect.String && dt.Key().Kind() == reflect.String:
		out := reflect.MakeMapWithSize(dt, src.Len())
		iter := src.MapRange()
		for iter.Next() {
			elem := reflect.New(dt.Elem()).Elem()
			if err := assign(elem, iter.Value().Interface()); err != nil {
				return fmt.Errorf("key %s: %w", iter.Key().String(), err)
			}
			out.SetMapIndex(iter.Key().Convert(dt.Key()), elem)
		}
		dst.Set(out)
		return nil
	}

	return decodeInto(dst.Addr().Interface(), value)
}

// plain replaces models with their underlying values, descending into
// generic slices and maps
func plain(value any) any {
	switch v := value.(type) {
	case Unwrapper:
		return v.Unwrap()
	case Record:
		return plain(map[string]any(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = plain(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plain(item)
		}
		return out
	}
	return value
}

// decodeInto decodes input into target with mapstructure, honouring json tags
func decodeInto(target any, input any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "json",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func indirectKind(t reflect.Type) reflect.Kind {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind()
}
