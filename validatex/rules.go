package validatex

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Conversia-AI/craftable-serialx/serialx"
)

func single(name, param string) *RuleValidator {
	return &RuleValidator{rules: []rule{{Name: name, Param: param}}}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Required fails on zero values
func Required() *RuleValidator { return single("required", "") }

// Min checks a minimum value for numbers or a minimum length for strings and collections
func Min(n float64) *RuleValidator { return single("min", formatNumber(n)) }

// Max checks a maximum value for numbers or a maximum length for strings and collections
func Max(n float64) *RuleValidator { return single("max", formatNumber(n)) }

// Len checks an exact length
func Len(n int) *RuleValidator { return single("len", strconv.Itoa(n)) }

func Email() *RuleValidator    { return single("email", "") }
func URL() *RuleValidator      { return single("url", "") }
func UUID() *RuleValidator     { return single("uuid", "") }
func Alpha() *RuleValidator    { return single("alpha", "") }
func AlphaNum() *RuleValidator { return single("alphanum", "") }
func Numeric() *RuleValidator  { return single("numeric", "") }

// OneOf restricts the value to the given options
func OneOf(values ...string) *RuleValidator {
	return single("oneof", strings.Join(values, " "))
}

// Regex requires string values to match expr. It panics if expr does not compile.
func Regex(expr string) *RuleValidator {
	patternCache.Store(expr, regexp.MustCompile(expr))
	return single("regex", expr)
}

// Func adapts a plain function to a serialx.Validator. Errors that do not
// carry validation messages are reported as "<field> <error>".
func Func(fn func(value any) error) serialx.Validator {
	return serialx.ValidatorFunc(func(f *serialx.Field, value any) error {
		err := fn(value)
		if err == nil || serialx.IsValidation(err) {
			return err
		}
		return NewValidationError(f.Name(), "custom", "", value, err.Error())
	})
}

// MinLength checks if a string has at least the specified number of characters
func MinLength(min int) serialx.Validator {
	return Func(func(value any) error {
		s, ok := value.(string)
		if !ok {
			return errors.New("value is not a string")
		}

		if utf8.RuneCountInString(s) < min {
			return fmt.Errorf("must be at least %d characters", min)
		}

		return nil
	})
}

// MaxLength checks if a string is at most the specified number of characters
func MaxLength(max int) serialx.Validator {
	return Func(func(value any) error {
		s, ok := value.(string)
		if !ok {
			return errors.New("value is not a string")
		}

		if utf8.RuneCountInString(s) > max {
			return fmt.Errorf("must be at most %d characters", max)
		}

		return nil
	})
}

// MinValue checks if a numeric value is at least the specified minimum
func MinValue(min float64) serialx.Validator {
	return Func(func(value any) error {
		n, ok := numeric(value)
		if !ok {
			return errors.New("value is not numeric")
		}
		if n < min {
			return fmt.Errorf("must be at least %v", min)
		}
		return nil
	})
}

// MaxValue checks if a numeric value is at most the specified maximum
func MaxValue(max float64) serialx.Validator {
	return Func(func(value any) error {
		n, ok := numeric(value)
		if !ok {
			return errors.New("value is not numeric")
		}
		if n > max {
			return fmt.Errorf("must be at most %v", max)
		}
		return nil
	})
}

func numeric(value any) (float64, bool) {
	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}
