package dtox

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/fieldx"
	"github.com/Conversia-AI/craftable-serialx/serialx"
	"github.com/Conversia-AI/craftable-serialx/validatex"
	"github.com/google/uuid"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// tagFlags are the options of a dtox tag
type tagFlags struct {
	skip     bool
	required bool
	notNull  bool
	nullable bool
}

func parseFlags(tag string) (tagFlags, error) {
	var flags tagFlags
	if tag == "-" {
		flags.skip = true
		return flags, nil
	}
	for _, part := range strings.Split(tag, ",") {
		switch strings.TrimSpace(part) {
		case "":
		case "required":
			flags.required = true
		case "notnull":
			flags.notNull = true
		case "nullable":
			flags.nullable = true
		default:
			return flags, ErrorRegistry.New(ErrInvalidTag).
				WithDetail("tag", tag).
				WithDetail("option", part)
		}
	}
	return flags, nil
}

// schemaBuilder derives serialx schemas from struct types
type schemaBuilder struct {
	fieldMappings map[string]string
	ignoreFields  map[string]bool
	rules         map[string][]serialx.Validator
	inProgress    map[reflect.Type]bool
}

// build derives the schema of t. Overrides only apply to the top-level type.
func (b *schemaBuilder) build(t reflect.Type, factory serialx.ModelFactory, top bool) (*serialx.Schema, error) {
	if t.Kind() != reflect.Struct {
		return nil, ErrorRegistry.New(ErrNotStruct).WithDetail("type", t.String())
	}
	if b.inProgress[t] {
		return nil, ErrorRegistry.New(ErrRecursiveType).WithDetail("type", t.String())
	}
	b.inProgress[t] = true
	defer delete(b.inProgress, t)

	builder := serialx.NewBuilder(t.Name()).Meta(serialx.Options{Model: factory})

	seen := make(map[string]bool)
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || (sf.Anonymous && sf.Type.Kind() == reflect.Struct) {
			continue
		}
		if top && b.ignoreFields[sf.Name] {
			continue
		}

		flags, err := parseFlags(sf.Tag.Get("dtox"))
		if err != nil {
			return nil, errWithField(err, sf.Name)
		}
		if flags.skip {
			continue
		}

		key, skip := jsonKey(sf)
		if skip {
			continue
		}
		if mapped, ok := b.fieldMappings[sf.Name]; ok && top {
			key = mapped
		}

		typ, err := b.typeFor(sf.Type)
		if err != nil {
			return nil, errWithField(err, sf.Name)
		}

		var validators []serialx.Validator
		if tag := sf.Tag.Get("validatex"); tag != "" && tag != "-" {
			rules, err := validatex.ParseRules(tag)
			if err != nil {
				return nil, errWithField(err, sf.Name)
			}
			validators = append(validators, rules)
		}
		if top {
			validators = append(validators, b.rules[sf.Name]...)
		}

		opts := []serialx.FieldOption{serialx.Key(key), serialx.Validators(validators...)}
		if flags.required {
			opts = append(opts, serialx.Required())
		}
		switch {
		case flags.notNull:
			opts = append(opts, serialx.NotNull())
		case flags.nullable:
			opts = append(opts, serialx.Nullable(true))
		}

		seen[sf.Name] = true
		builder.Field(sf.Name, serialx.NewField(typ, opts...))
	}

	if top {
		for name := range b.fieldMappings {
			if !seen[name] && !b.ignoreFields[name] {
				return nil, ErrorRegistry.New(ErrFieldNotFound).
					WithDetail("field", name).
					WithDetail("type", t.String())
			}
		}
		for name := range b.rules {
			if !seen[name] {
				return nil, ErrorRegistry.New(ErrFieldNotFound).
					WithDetail("field", name).
					WithDetail("type", t.String())
			}
		}
	}

	return builder.Build()
}

// typeFor chooses the field type for a Go type
func (b *schemaBuilder) typeFor(t reflect.Type) (serialx.Type, error) {
	switch t {
	case timeType:
		return fieldx.TimeType{}, nil
	case uuidType:
		return fieldx.UUIDType{}, nil
	}

	switch t.Kind() {
	case reflect.Ptr:
		return b.typeFor(t.Elem())
	case reflect.String:
		return fieldx.StringType{}, nil
	case reflect.Bool:
		return fieldx.BoolType{}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fieldx.IntType{}, nil
	case reflect.Float32, reflect.Float64:
		return fieldx.FloatType{}, nil
	case reflect.Interface:
		return serialx.Any(), nil
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return serialx.Any(), nil
		}
		elem, err := b.typeFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return fieldx.ListType{Elem: elem}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, ErrorRegistry.New(ErrUnsupportedType).WithDetail("type", t.String())
		}
		elem, err := b.typeFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return fieldx.MapType{Elem: elem}, nil
	case reflect.Struct:
		nested, err := b.build(t, serialx.StructFactoryOf(t), false)
		if err != nil {
			return nil, err
		}
		return fieldx.ObjectType{Schema: nested}, nil
	}

	return nil, ErrorRegistry.New(ErrUnsupportedType).WithDetail("type", t.String())
}

func jsonKey(sf reflect.StructField) (string, bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	return name, false
}

func errWithField(err error, field string) error {
	var xerr *errx.Error
	if errors.As(err, &xerr) {
		return xerr.WithDetail("field", field)
	}
	return err
}
