package serialx

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Serializer converts between raw data and a domain object for one schema.
// It is created per conversion and is not safe for concurrent use.
type Serializer struct {
	schema *Schema
	data   map[string]any
	object Model
}

// New creates a serializer for exactly one of data or object
func New(schema *Schema, data map[string]any, object Model) (*Serializer, error) {
	if schema == nil {
		return nil, ErrorRegistry.New(ErrInvalidArguments).
			WithDetail("reason", "schema is nil")
	}
	if (data == nil) == (object == nil) {
		return nil, ErrorRegistry.New(ErrInvalidArguments).
			WithDetail("schema", schema.Name())
	}
	return &Serializer{schema: schema, data: data, object: object}, nil
}

// FromData creates a serializer that converts data into an object
func FromData(schema *Schema, data map[string]any) (*Serializer, error) {
	return New(schema, data, nil)
}

// FromObject creates a serializer that converts object into data
func FromObject(schema *Schema, object Model) (*Serializer, error) {
	return New(schema, nil, object)
}

// Schema returns the schema the serializer works with
func (s *Serializer) Schema() *Schema { return s.schema }

// Data returns the raw data, supplied or produced by Validate
func (s *Serializer) Data() map[string]any { return s.data }

// Object returns the domain object, supplied or produced by Validate
func (s *Serializer) Object() Model { return s.object }

// Validate runs the conversion that fills in the side that was not supplied
func (s *Serializer) Validate() error {
	var err error
	if s.object == nil && s.data != nil {
		err = s.dataToObject()
	} else {
		err = s.objectToData()
	}

	if err != nil {
		Logger().Debug("conversion failed",
			zap.String("schema", s.schema.Name()),
			zap.Strings("messages", Messages(err)),
			zap.Error(err))
	}
	return err
}

// DefaultModel builds a fresh default model and checks that every field it
// sets can be exported
func (s *Serializer) DefaultModel() (Model, error) {
	m, _, err := s.defaultModel()
	return m, err
}

// DefaultData returns the exported data of a fresh default model
func (s *Serializer) DefaultData() (map[string]any, error) {
	_, data, err := s.defaultModel()
	return data, err
}

func (s *Serializer) defaultModel() (Model, map[string]any, error) {
	opts := s.schema.Options()
	model, err := opts.Model(opts.ModelArgs, opts.ModelKwargs)
	if err != nil {
		return nil, nil, ErrorRegistry.NewWithCause(ErrModelFactory, err).
			WithDetail("schema", s.schema.Name())
	}
	if model == nil {
		return nil, nil, ErrorRegistry.New(ErrModelFactory).
			WithDetail("schema", s.schema.Name()).
			WithDetail("reason", "factory returned nil")
	}

	var messages []string
	data := make(map[string]any)

	for _, f := range s.schema.fields {
		value, ok := model.Get(f.Attr())
		if !ok {
			continue
		}
		exported, err := f.BaseToData(value)
		if err != nil {
			msgs, isValidation := collect(err)
			if !isValidation {
				return nil, nil, err
			}
			messages = append(messages, "DefaultModel Error: "+strings.Join(msgs, "; "))
			continue
		}
		data[f.Name()] = exported
	}

	if len(messages) > 0 {
		return nil, nil, NewValidationError(messages...)
	}
	return model, data, nil
}

func (s *Serializer) dataToObject() error {
	var messages []string
	for _, f := range s.schema.fields {
		if _, ok := s.data[f.Name()]; f.IsRequired() && !ok {
			messages = append(messages, fmt.Sprintf("Field %s is missing.", f.Name()))
		}
	}
	if len(messages) > 0 {
		return NewValidationError(messages...)
	}

	obj, err := s.DefaultModel()
	if err != nil {
		return err
	}

	for _, f := range s.schema.fields {
		raw, ok := s.data[f.Name()]
		if !ok {
			continue
		}

		cleaned, err := f.BaseClean(raw)
		if err != nil {
			msgs, isValidation := collect(err)
			if !isValidation {
				return err
			}
			messages = append(messages, msgs...)
			continue
		}

		if err := obj.Set(f.Attr(), cleaned); err != nil {
			messages = append(messages, fmt.Sprintf("%s: %v", f.Attr(), err))
		}
	}

	if len(messages) > 0 {
		return NewValidationError(messages...)
	}

	s.object = obj
	return nil
}

func (s *Serializer) objectToData() error {
	var messages []string
	for _, f := range s.schema.fields {
		if _, ok := s.object.Get(f.Attr()); f.IsRequired() && !ok {
			messages = append(messages, fmt.Sprintf("Field %s is missing from object.", f.Attr()))
		}
	}
	if len(messages) > 0 {
		return NewValidationError(messages...)
	}

	data, err := s.DefaultData()
	if err != nil {
		return err
	}

	for _, f := range s.schema.fields {
		value, ok := s.object.Get(f.Attr())
		if !ok {
			continue
		}

		exported, err := f.BaseToData(value)
		if err != nil {
			msgs, isValidation := collect(err)
			if !isValidation {
				return err
			}
			messages = append(messages, msgs...)
			continue
		}
		data[f.Name()] = exported
	}

	if len(messages) > 0 {
		return NewValidationError(messages...)
	}

	s.data = data
	return nil
}

// collect returns the validation messages of err and whether it is a validation error
func collect(err error) ([]string, bool) {
	var carrier MessageCarrier
	if errors.As(err, &carrier) {
		return carrier.ValidationMessages(), true
	}
	return nil, false
}
