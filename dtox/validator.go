package dtox

import (
	"errors"

	"github.com/Conversia-AI/craftable-serialx/serialx"
	"github.com/Conversia-AI/craftable-serialx/validatex"
)

// ValidationRule defines a validation rule for a specific Go field
type ValidationRule struct {
	FieldName string
	Validator func(value any) error
	Message   string
}

// WithRules attaches validation rules to fields of the derived schema. The
// rules run after the field's validatex tag rules.
func (m *Mapper[T]) WithRules(rules []ValidationRule) *Mapper[T] {
	for _, rule := range rules {
		if rule.Validator == nil {
			continue
		}
		fn := rule.Validator
		if rule.Message != "" {
			message := rule.Message
			fn = func(value any) error {
				if err := rule.Validator(value); err != nil {
					return errors.New(message)
				}
				return nil
			}
		}
		m.rules[rule.FieldName] = append(m.rules[rule.FieldName], validatex.Func(fn))
	}
	return m
}

// WithValidators attaches serialx validators to a field of the derived schema
func (m *Mapper[T]) WithValidators(field string, validators ...serialx.Validator) *Mapper[T] {
	m.rules[field] = append(m.rules[field], validators...)
	return m
}
