package schemax

import (
	"fmt"
	"strings"

	"github.com/Conversia-AI/craftable-serialx/fieldx"
	"github.com/Conversia-AI/craftable-serialx/serialx"
	"github.com/Conversia-AI/craftable-serialx/validatex"
)

// Compile builds the schemas of a file. Object fields may reference schemas
// declared anywhere in the file or returned by lookup; declaration order does
// not matter. Results keep the file's order.
func Compile(file *File, lookup func(name string) (*serialx.Schema, bool)) ([]*serialx.Schema, error) {
	if lookup == nil {
		lookup = func(string) (*serialx.Schema, bool) { return nil, false }
	}

	c := &compiler{
		defs:     make(map[string]Definition, len(file.Schemas)),
		built:    make(map[string]*serialx.Schema, len(file.Schemas)),
		visiting: make(map[string]bool),
		lookup:   lookup,
	}

	for _, def := range file.Schemas {
		if def.Name == "" {
			return nil, ErrorRegistry.NewWithMessage(ErrInvalidDefinition, "Schema definition without a name")
		}
		if _, dup := c.defs[def.Name]; dup {
			return nil, ErrorRegistry.New(ErrDuplicateSchema).WithDetail("schema", def.Name)
		}
		c.defs[def.Name] = def
	}

	out := make([]*serialx.Schema, 0, len(file.Schemas))
	for _, def := range file.Schemas {
		s, err := c.compile(def.Name, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

type compiler struct {
	defs     map[string]Definition
	built    map[string]*serialx.Schema
	visiting map[string]bool
	lookup   func(string) (*serialx.Schema, bool)
}

func (c *compiler) compile(name string, path []string) (*serialx.Schema, error) {
	if s, ok := c.built[name]; ok {
		return s, nil
	}

	def, local := c.defs[name]
	if !local {
		if s, ok := c.lookup(name); ok {
			return s, nil
		}
		return nil, ErrorRegistry.New(ErrUnknownReference).
			WithDetail("schema", name).
			WithDetail("referenced_by", path[len(path)-1])
	}

	path = append(path, name)
	if c.visiting[name] {
		return nil, ErrorRegistry.New(ErrReferenceCycle).
			WithDetail("cycle", strings.Join(path, " -> "))
	}
	c.visiting[name] = true
	defer delete(c.visiting, name)

	for _, ref := range def.references() {
		if _, err := c.compile(ref, path); err != nil {
			return nil, err
		}
	}

	b := serialx.NewBuilder(def.Name)
	for i, fd := range def.Fields {
		f, err := c.field(fd)
		if err != nil {
			return nil, ErrorRegistry.NewWithCause(ErrInvalidDefinition, err).
				WithDetail("schema", def.Name).
				WithDetail("field", fieldLabel(fd, i))
		}
		b.Field(fd.Attr, f)
	}
	if def.Model.Kwargs != nil {
		b.Meta(serialx.Options{ModelKwargs: def.Model.Kwargs})
	}

	s, err := b.Build()
	if err != nil {
		return nil, err
	}
	c.built[name] = s
	return s, nil
}

func (c *compiler) field(fd FieldDefinition) (*serialx.Field, error) {
	typ, err := c.typeOf(fd, fd.Type)
	if err != nil {
		return nil, err
	}

	opts := []serialx.FieldOption{}
	if fd.Key != "" {
		opts = append(opts, serialx.Key(fd.Key))
	}
	if fd.Required {
		opts = append(opts, serialx.Required())
	}
	if fd.Nullable != nil {
		opts = append(opts, serialx.Nullable(*fd.Nullable))
	}
	if fd.Rules != "" {
		rules, err := validatex.ParseRules(fd.Rules)
		if err != nil {
			return nil, err
		}
		opts = append(opts, serialx.Validators(rules))
	}

	return serialx.NewField(typ, opts...), nil
}

func (c *compiler) typeOf(fd FieldDefinition, typeStr string) (serialx.Type, error) {
	typeStr = strings.TrimSpace(typeStr)

	switch {
	case len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']':
		elem, err := c.typeOf(fd, typeStr[1:len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return fieldx.ListType{Elem: elem}, nil
	case strings.HasPrefix(typeStr, "map[") && strings.HasSuffix(typeStr, "]"):
		elem, err := c.typeOf(fd, typeStr[4:len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return fieldx.MapType{Elem: elem}, nil
	}

	switch typeStr {
	case "object":
		if fd.Schema == "" {
			return nil, fmt.Errorf("object type requires a schema")
		}
		// references were compiled before this definition
		s, ok := c.built[fd.Schema]
		if !ok {
			s, ok = c.lookup(fd.Schema)
		}
		if !ok {
			return nil, ErrorRegistry.New(ErrUnknownReference).WithDetail("schema", fd.Schema)
		}
		return fieldx.ObjectType{Schema: s}, nil
	case "enum":
		if len(fd.Values) == 0 {
			return nil, fmt.Errorf("enum type requires values")
		}
		return fieldx.EnumType{Values: fd.Values}, nil
	case "time":
		return fieldx.TimeType{Layout: fd.Layout}, nil
	}

	return fieldx.ParseType(typeStr)
}

func fieldLabel(fd FieldDefinition, i int) string {
	if fd.Attr != "" {
		return fd.Attr
	}
	return fmt.Sprintf("#%d", i)
}
