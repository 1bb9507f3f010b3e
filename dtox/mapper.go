package dtox

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"

	"github.com/Conversia-AI/craftable-serialx/asyncx"
	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/serialx"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// Mapper converts between raw data and values of the struct type T through a
// serialx schema derived from T's tags
type Mapper[T any] struct {
	fieldMappings map[string]string
	ignoreFields  map[string]bool
	rules         map[string][]serialx.Validator
	validationFn  func(model T) error
	strictMode    bool
	options       *Options
	explicit      *serialx.Schema

	once       sync.Once
	schema     *serialx.Schema
	compileErr error
}

// NewMapper creates a new mapper for T. T must be a struct type.
func NewMapper[T any]() *Mapper[T] {
	return &Mapper[T]{
		fieldMappings: make(map[string]string),
		ignoreFields:  make(map[string]bool),
		rules:         make(map[string][]serialx.Validator),
		options:       defaultOptions(),
	}
}

// WithFieldMapping sets the data key of a Go field, overriding its json name
func (m *Mapper[T]) WithFieldMapping(goField, key string) *Mapper[T] {
	m.fieldMappings[goField] = key
	return m
}

// WithIgnoreField specifies a field to ignore during mapping
func (m *Mapper[T]) WithIgnoreField(field string) *Mapper[T] {
	m.ignoreFields[field] = true
	return m
}

// WithValidation adds a validation function run after data is converted to T
func (m *Mapper[T]) WithValidation(fn func(model T) error) *Mapper[T] {
	m.validationFn = fn
	return m
}

// WithStrictMode rejects input keys that no field declares
func (m *Mapper[T]) WithStrictMode(strict bool) *Mapper[T] {
	m.strictMode = strict
	return m
}

// WithOptions sets custom options for the mapper
func (m *Mapper[T]) WithOptions(opts *Options) *Mapper[T] {
	if opts != nil {
		m.options = opts
	}
	return m
}

// WithSchema uses schema instead of deriving one from T's tags
func (m *Mapper[T]) WithSchema(schema *serialx.Schema) *Mapper[T] {
	m.explicit = schema
	return m
}

// Schema returns the mapper's schema, compiling it on first use. Later With*
// calls do not affect a compiled schema.
func (m *Mapper[T]) Schema() (*serialx.Schema, error) {
	m.once.Do(func() {
		if m.explicit != nil {
			m.schema = m.explicit
			return
		}

		b := &schemaBuilder{
			fieldMappings: m.fieldMappings,
			ignoreFields:  m.ignoreFields,
			rules:         m.rules,
			inProgress:    make(map[reflect.Type]bool),
		}
		t := reflect.TypeOf((*T)(nil)).Elem()
		m.schema, m.compileErr = b.build(t, serialx.StructFactory[T](), true)
		if m.compileErr == nil {
			serialx.Logger().Debug("schema derived from struct tags",
				zap.String("type", t.String()),
				zap.Int("fields", m.schema.Len()))
		}
	})
	return m.schema, m.compileErr
}

// ToModel converts raw data to T
func (m *Mapper[T]) ToModel(data map[string]any) (T, error) {
	var zero T

	schema, err := m.Schema()
	if err != nil {
		return zero, err
	}

	var unknown []string
	if m.strictMode {
		unknown = unknownKeys(schema, data)
	}

	obj, err := schema.Load(data)
	if err != nil {
		msgs := serialx.Messages(err)
		if msgs == nil {
			return zero, err
		}
		return zero, serialx.NewValidationError(append(append([]string{}, msgs...), unknown...)...)
	}
	if len(unknown) > 0 {
		return zero, serialx.NewValidationError(unknown...)
	}

	model, err := m.modelOf(obj)
	if err != nil {
		return zero, err
	}

	if m.validationFn != nil {
		if err := m.validationFn(model); err != nil {
			if serialx.IsValidation(err) {
				return zero, err
			}
			return zero, serialx.NewValidationError(err.Error())
		}
	}

	return model, nil
}

func (m *Mapper[T]) modelOf(obj serialx.Model) (T, error) {
	var model T
	if u, ok := obj.(serialx.Unwrapper); ok {
		if ptr, ok := u.Unwrap().(*T); ok {
			return *ptr, nil
		}
	}

	// explicit schemas may build other models
	rec, ok := obj.(serialx.Record)
	if !ok {
		return model, ErrorRegistry.New(ErrNotStruct).
			WithDetail("model", fmt.Sprintf("%T", obj))
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &model,
		TagName: "json",
	})
	if err != nil {
		return model, err
	}
	if err := decoder.Decode(map[string]any(rec)); err != nil {
		return model, errx.Wrap(err, "cannot decode record into model", errx.TypeInternal)
	}
	return model, nil
}

// ToData converts a T to raw data
func (m *Mapper[T]) ToData(model T) (map[string]any, error) {
	schema, err := m.Schema()
	if err != nil {
		return nil, err
	}
	obj, err := serialx.Struct(&model)
	if err != nil {
		return nil, err
	}
	return schema.Dump(obj)
}

// ToModels converts a batch concurrently. On failure the returned error is a
// DTOX_BATCH_CONVERSION errx.Error whose "errors" detail maps item indexes
// to messages; successful items are still returned in place.
func (m *Mapper[T]) ToModels(ctx context.Context, items []map[string]any) ([]T, error) {
	results, err := asyncx.MapCollect(ctx, items, m.concurrency(), func(_ context.Context, item map[string]any) (T, error) {
		return m.ToModel(item)
	})
	return results, batchError(err, len(items))
}

// ToDatas converts a batch of models concurrently
func (m *Mapper[T]) ToDatas(ctx context.Context, models []T) ([]map[string]any, error) {
	results, err := asyncx.MapCollect(ctx, models, m.concurrency(), func(_ context.Context, model T) (map[string]any, error) {
		return m.ToData(model)
	})
	return results, batchError(err, len(models))
}

func (m *Mapper[T]) concurrency() int {
	if m.options == nil || m.options.Concurrency <= 0 {
		return 1
	}
	return m.options.Concurrency
}

func batchError(err error, total int) error {
	if err == nil {
		return nil
	}
	ec, ok := asyncx.IsErrorCollection(err)
	if !ok {
		return err
	}

	errs := make(map[string][]string, len(ec.Errors))
	for _, idx := range ec.Indexes() {
		itemErr := ec.GetError(idx)
		msgs := serialx.Messages(itemErr)
		if msgs == nil {
			msgs = []string{itemErr.Error()}
		}
		errs[strconv.Itoa(idx)] = msgs
	}

	return ErrorRegistry.NewWithCause(ErrBatchConversion, err).
		WithDetail("errors", errs).
		WithDetail("failed_count", len(ec.Errors)).
		WithDetail("total", total)
}

func unknownKeys(schema *serialx.Schema, data map[string]any) []string {
	var keys []string
	for k := range data {
		if _, ok := schema.FieldByKey(k); !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = fmt.Sprintf("Field %s is not allowed.", k)
	}
	return msgs
}
