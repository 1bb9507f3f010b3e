package codecx

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"
)

// Codec provides content-type aware marshaling
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g. "application/json")
	ContentType() string
	// Marshal encodes v into bytes
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into v
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

// JSON returns a codec that decodes numbers as json.Number
func JSON() Codec { return jsonCodec{} }

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, ErrorRegistry.NewWithCause(ErrEncode, err).WithDetail("codec", "json")
	}
	return out, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return ErrorRegistry.NewWithCause(ErrDecode, err).WithDetail("codec", "json")
	}
	return nil
}

type yamlCodec struct{}

// YAML returns a yaml.v3 codec
func YAML() Codec { return yamlCodec{} }

func (yamlCodec) ContentType() string { return "application/yaml" }

func (yamlCodec) Marshal(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, ErrorRegistry.NewWithCause(ErrEncode, err).WithDetail("codec", "yaml")
	}
	return out, nil
}

func (yamlCodec) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return ErrorRegistry.NewWithCause(ErrDecode, err).WithDetail("codec", "yaml")
	}
	return nil
}

type bsonCodec struct{}

// BSON returns a codec for single BSON documents
func BSON() Codec { return bsonCodec{} }

func (bsonCodec) ContentType() string { return "application/bson" }

func (bsonCodec) Marshal(v any) ([]byte, error) {
	out, err := bson.Marshal(v)
	if err != nil {
		return nil, ErrorRegistry.NewWithCause(ErrEncode, err).WithDetail("codec", "bson")
	}
	return out, nil
}

func (bsonCodec) Unmarshal(data []byte, v any) error {
	// generic targets always receive a document
	if p, ok := v.(*any); ok {
		var doc bson.M
		if err := bson.Unmarshal(data, &doc); err != nil {
			return ErrorRegistry.NewWithCause(ErrDecode, err).WithDetail("codec", "bson")
		}
		*p = doc
		return nil
	}
	if err := bson.Unmarshal(data, v); err != nil {
		return ErrorRegistry.NewWithCause(ErrDecode, err).WithDetail("codec", "bson")
	}
	return nil
}

var byName = map[string]Codec{
	"json": JSON(),
	"yaml": YAML(),
	"yml":  YAML(),
	"bson": BSON(),
}

// Names returns the registered codec names
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForName returns the codec registered under name, case-insensitively
func ForName(name string) (Codec, error) {
	if c, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c, nil
	}
	return nil, ErrorRegistry.New(ErrUnknownCodec).
		WithDetail("name", name).
		WithDetail("available", Names())
}

// ForExtension picks a codec from a file path's extension
func ForExtension(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, ErrorRegistry.New(ErrUnknownCodec).WithDetail("path", path)
	}
	return ForName(ext)
}
