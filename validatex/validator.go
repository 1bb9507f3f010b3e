package validatex

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/Conversia-AI/craftable-serialx/serialx"
	"github.com/go-playground/validator/v10"
)

// ValidationFunc checks value against a rule parameter
type ValidationFunc func(value any, param string) bool

type rule struct {
	Name  string
	Param string
}

// builtinRules are evaluated by go-playground/validator, except regex
var builtinRules = map[string]bool{
	"required": true,
	"min":      true,
	"max":      true,
	"len":      true,
	"email":    true,
	"url":      true,
	"uuid":     true,
	"alpha":    true,
	"alphanum": true,
	"numeric":  true,
	"oneof":    true,
	"regex":    true,
}

// stringRules only apply to the string form of a value
var stringRules = map[string]bool{
	"email":    true,
	"url":      true,
	"uuid":     true,
	"alpha":    true,
	"alphanum": true,
	"numeric":  true,
	"regex":    true,
}

var (
	// *validator.Validate is safe for concurrent use
	engine = validator.New()

	customRules   = make(map[string]ValidationFunc)
	customRulesMu sync.RWMutex

	patternCache sync.Map // string -> *regexp.Regexp
)

// RegisterValidationFunc registers a custom validation rule usable in Rules tags
func RegisterValidationFunc(name string, fn ValidationFunc) {
	customRulesMu.Lock()
	defer customRulesMu.Unlock()
	customRules[name] = fn
}

func customRule(name string) (ValidationFunc, bool) {
	customRulesMu.RLock()
	defer customRulesMu.RUnlock()
	fn, ok := customRules[name]
	return fn, ok
}

// RuleValidator runs a parsed list of rules against a field value. Rules run
// in order and the first failing rule is reported.
type RuleValidator struct {
	rules []rule
}

// ParseRules parses a tag such as "required,min=3,max=50,email".
// Unknown rule names and invalid regex patterns are rejected.
func ParseRules(tag string) (*RuleValidator, error) {
	rules := parseTag(tag)
	for _, r := range rules {
		if _, ok := customRule(r.Name); ok {
			continue
		}
		if !builtinRules[r.Name] {
			return nil, ValidatorErrors.New(ErrUnknownValidator).
				WithDetail("rule", r.Name).
				WithDetail("tag", tag)
		}
		if r.Name == "regex" {
			if _, err := pattern(r.Param); err != nil {
				return nil, ValidatorErrors.NewWithCause(ErrInvalidValidation, err).
					WithDetail("rule", r.Name).
					WithDetail("param", r.Param)
			}
		}
	}
	return &RuleValidator{rules: rules}, nil
}

// Rules is like ParseRules but panics on an invalid tag
func Rules(tag string) *RuleValidator {
	v, err := ParseRules(tag)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate implements serialx.Validator
func (v *RuleValidator) Validate(f *serialx.Field, value any) error {
	for _, r := range v.rules {
		// Empty values only fail the required rule
		if r.Name != "required" && isEmpty(value) {
			continue
		}

		ok, err := check(r, value)
		if err != nil {
			return err
		}
		if !ok {
			return NewValidationError(f.Name(), r.Name, r.Param, value, "")
		}
	}
	return nil
}

// String returns the rules in tag form
func (v *RuleValidator) String() string {
	parts := make([]string, len(v.rules))
	for i, r := range v.rules {
		parts[i] = strings.ReplaceAll(r.tag(), ",", `\,`)
	}
	return strings.Join(parts, ",")
}

func (r rule) tag() string {
	if r.Param == "" {
		return r.Name
	}
	return r.Name + "=" + r.Param
}

func check(r rule, value any) (ok bool, err error) {
	if fn, found := customRule(r.Name); found {
		return fn(value, r.Param), nil
	}

	if stringRules[r.Name] {
		s, isString := stringValue(value)
		if !isString {
			return false, nil
		}
		value = s
	}

	if r.Name == "regex" {
		re, err := pattern(r.Param)
		if err != nil {
			return false, ValidatorErrors.NewWithCause(ErrInvalidValidation, err)
		}
		return re.MatchString(value.(string)), nil
	}

	// validator panics on parameters it cannot apply to the value's kind
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			err = ValidatorErrors.New(ErrUnsupportedType).
				WithDetail("rule", r.tag()).
				WithDetail("type", fmt.Sprintf("%T", value)).
				WithDetail("reason", fmt.Sprint(rec))
		}
	}()

	verr := engine.Var(value, r.tag())
	if verr == nil {
		return true, nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(verr, &invalid) {
		return false, ValidatorErrors.NewWithCause(ErrInvalidValidation, verr).
			WithDetail("rule", r.tag())
	}
	return false, nil
}

func pattern(expr string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(expr); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	patternCache.Store(expr, re)
	return re, nil
}

// parseTag splits "a,b=1,c=x y" into rules. "\," is a literal comma, so
// regex=^\d{2\,4}$ keeps its quantifier.
func parseTag(tag string) []rule {
	var rules []rule
	for _, part := range splitTag(tag) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, param, _ := strings.Cut(part, "=")
		rules = append(rules, rule{Name: strings.TrimSpace(name), Param: strings.TrimSpace(param)})
	}
	return rules
}

func splitTag(tag string) []string {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(tag); i++ {
		switch {
		case tag[i] == '\\' && i+1 < len(tag) && tag[i+1] == ',':
			cur.WriteByte(',')
			i++
		case tag[i] == ',':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(tag[i])
		}
	}
	return append(parts, cur.String())
}

func stringValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	}
	return "", false
}

func isEmpty(value any) bool {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Invalid:
		return true
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}
