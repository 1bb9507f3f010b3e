package schemax

import (
	"strings"

	"github.com/Conversia-AI/craftable-serialx/codecx"
	"github.com/mitchellh/mapstructure"
)

// File is the top-level shape of a definition file
type File struct {
	Schemas []Definition `json:"schemas"`
}

// Definition declares one schema
type Definition struct {
	Name   string            `json:"name"`
	Model  ModelDefinition   `json:"model"`
	Fields []FieldDefinition `json:"fields"`
}

// ModelDefinition configures the record factory of a schema
type ModelDefinition struct {
	Kwargs map[string]any `json:"kwargs"`
}

// FieldDefinition declares one field.
//
// Type accepts the fieldx type names plus "object" (with Schema naming the
// referenced schema) and "enum" (with Values). Both nest inside list and map
// types, e.g. "[object]" or "map[enum]".
type FieldDefinition struct {
	Attr     string   `json:"attr"`
	Key      string   `json:"key"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Nullable *bool    `json:"nullable"`
	Rules    string   `json:"rules"`
	Schema   string   `json:"schema"`
	Values   []string `json:"values"`
	Layout   string   `json:"layout"`
}

// Parse decodes a definition file with the given codec. Unknown keys are
// rejected.
func Parse(c codecx.Codec, data []byte) (*File, error) {
	raw, err := codecx.Decode(c, data)
	if err != nil {
		return nil, err
	}

	var file File
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &file,
		TagName:     "json",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, ErrorRegistry.NewWithCause(ErrInvalidDefinition, err)
	}
	return &file, nil
}

// references returns the schema names a definition's object fields point to
func (d Definition) references() []string {
	var refs []string
	for _, f := range d.Fields {
		if f.Schema != "" && strings.Contains(f.Type, "object") {
			refs = append(refs, f.Schema)
		}
	}
	return refs
}
