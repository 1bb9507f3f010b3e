package serialx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Conversia-AI/craftable-serialx/errx"
)

// ErrorRegistry holds all error definitions for the serialx package
var ErrorRegistry = errx.NewRegistry("SERIALX")

var (
	ErrValidationFailed   = ErrorRegistry.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusBadRequest, "Validation failed")
	ErrInvalidArguments   = ErrorRegistry.Register("INVALID_ARGUMENTS", errx.TypeInternal, http.StatusInternalServerError, "Either 'object' or 'data' must be supplied as arguments, but not both")
	ErrInvalidDeclaration = ErrorRegistry.Register("INVALID_DECLARATION", errx.TypeInternal, http.StatusInternalServerError, "Invalid serializer declaration")
	ErrModelFactory       = ErrorRegistry.Register("MODEL_FACTORY", errx.TypeInternal, http.StatusInternalServerError, "Model factory failed")
	ErrInvalidModel       = ErrorRegistry.Register("INVALID_MODEL", errx.TypeInternal, http.StatusInternalServerError, "Value cannot be used as a model")
)

const defaultValidationMessage = "validation failed"

// ValidationError carries one or more human-readable validation messages
type ValidationError struct {
	Messages []string
}

// NewValidationError creates a validation error. It is never empty.
func NewValidationError(messages ...string) *ValidationError {
	if len(messages) == 0 {
		messages = []string{defaultValidationMessage}
	}
	return &ValidationError{Messages: messages}
}

// Errorf creates a validation error with a single formatted message
func Errorf(format string, args ...any) *ValidationError {
	return NewValidationError(fmt.Sprintf(format, args...))
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return strings.Join(e.ValidationMessages(), "; ")
}

// ValidationMessages returns the messages of the error
func (e *ValidationError) ValidationMessages() []string {
	if len(e.Messages) == 0 {
		return []string{defaultValidationMessage}
	}
	return e.Messages
}

// ToErrx converts the validation error to an errx.Error
func (e *ValidationError) ToErrx() *errx.Error {
	return toErrx(e.ValidationMessages())
}

// InvalidTypeError reports a value of the wrong type for a field
type InvalidTypeError struct {
	Field    string
	Expected string
	Got      string
}

// InvalidType creates an InvalidTypeError for value
func InvalidType(field, expected string, value any) *InvalidTypeError {
	return &InvalidTypeError{
		Field:    field,
		Expected: expected,
		Got:      fmt.Sprintf("%T", value),
	}
}

// Error implements the error interface
func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("%s must be a %s.  Got %s.", e.Field, e.Expected, e.Got)
}

// ValidationMessages returns the single message of the error
func (e *InvalidTypeError) ValidationMessages() []string {
	return []string{e.Error()}
}

// ToErrx converts the error to an errx.Error
func (e *InvalidTypeError) ToErrx() *errx.Error {
	return toErrx(e.ValidationMessages()).
		WithDetail("field", e.Field).
		WithDetail("expected", e.Expected).
		WithDetail("got", e.Got)
}

// MessageCarrier is implemented by every validation error
type MessageCarrier interface {
	error
	ValidationMessages() []string
}

// Messages returns the validation messages found in err's chain, or nil
func Messages(err error) []string {
	var carrier MessageCarrier
	if errors.As(err, &carrier) {
		return carrier.ValidationMessages()
	}
	return nil
}

// IsValidation reports whether err carries validation messages
func IsValidation(err error) bool {
	var carrier MessageCarrier
	return errors.As(err, &carrier)
}

// ToErrx converts any serialx error to an errx.Error. Other errors are wrapped as internal.
func ToErrx(err error) *errx.Error {
	if err == nil {
		return nil
	}
	var xerr *errx.Error
	if errors.As(err, &xerr) {
		return xerr
	}
	if msgs := Messages(err); msgs != nil {
		return toErrx(msgs)
	}
	return errx.Wrap(err, "Conversion failed", errx.TypeInternal)
}

func toErrx(messages []string) *errx.Error {
	return ErrorRegistry.New(ErrValidationFailed).
		WithDetail("messages", messages).
		WithDetail("error_count", len(messages))
}
