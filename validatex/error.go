package validatex

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/Conversia-AI/craftable-serialx/errx"
)

// Error registry for validatex
var (
	ValidatorErrors = errx.NewRegistry("VALIDATOR")

	// Common validation error codes
	ErrValidationFailed  = ValidatorErrors.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusBadRequest, "Validation failed")
	ErrRequiredField     = ValidatorErrors.Register("REQUIRED_FIELD", errx.TypeValidation, http.StatusBadRequest, "Field is required")
	ErrInvalidEmail      = ValidatorErrors.Register("INVALID_EMAIL", errx.TypeValidation, http.StatusBadRequest, "Invalid email format")
	ErrInvalidURL        = ValidatorErrors.Register("INVALID_URL", errx.TypeValidation, http.StatusBadRequest, "Invalid URL format")
	ErrBelowMin          = ValidatorErrors.Register("BELOW_MIN", errx.TypeValidation, http.StatusBadRequest, "Value below minimum")
	ErrAboveMax          = ValidatorErrors.Register("ABOVE_MAX", errx.TypeValidation, http.StatusBadRequest, "Value above maximum")
	ErrInvalidLength     = ValidatorErrors.Register("INVALID_LENGTH", errx.TypeValidation, http.StatusBadRequest, "Invalid length")
	ErrInvalidOption     = ValidatorErrors.Register("INVALID_OPTION", errx.TypeValidation, http.StatusBadRequest, "Invalid option")
	ErrPatternMismatch   = ValidatorErrors.Register("PATTERN_MISMATCH", errx.TypeValidation, http.StatusBadRequest, "Value doesn't match pattern")
	ErrInvalidUUID       = ValidatorErrors.Register("INVALID_UUID", errx.TypeValidation, http.StatusBadRequest, "Invalid UUID format")
	ErrInvalidAlphaNum   = ValidatorErrors.Register("INVALID_ALPHANUM", errx.TypeValidation, http.StatusBadRequest, "Value contains non-alphanumeric characters")
	ErrInvalidAlpha      = ValidatorErrors.Register("INVALID_ALPHA", errx.TypeValidation, http.StatusBadRequest, "Value contains non-alphabetic characters")
	ErrInvalidNumeric    = ValidatorErrors.Register("INVALID_NUMERIC", errx.TypeValidation, http.StatusBadRequest, "Value contains non-numeric characters")
	ErrUnknownValidator  = ValidatorErrors.Register("UNKNOWN_VALIDATOR", errx.TypeInternal, http.StatusInternalServerError, "Unknown validator")
	ErrUnsupportedType   = ValidatorErrors.Register("UNSUPPORTED_TYPE", errx.TypeInternal, http.StatusInternalServerError, "Unsupported type")
	ErrInvalidValidation = ValidatorErrors.Register("INVALID_VALIDATION", errx.TypeInternal, http.StatusInternalServerError, "Invalid validation rule")
)

// ValidationError represents a failed rule on a specific field
type ValidationError struct {
	Field   string // Field name
	Rule    string // Rule that failed
	Param   string // Rule parameter (if any)
	Value   any    // Value that was validated
	Message string // Error message
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

// ValidationMessages makes the error a serialx message carrier
func (e *ValidationError) ValidationMessages() []string {
	return []string{e.Error()}
}

// ToErrx converts the error to an errx.Error carrying the rule's code
func (e *ValidationError) ToErrx() *errx.Error {
	details := map[string]any{
		"field":    e.Field,
		"rule":     e.Rule,
		"message":  e.Message,
		"messages": e.ValidationMessages(),
		// string representation avoids JSON serialization issues
		"value": fmt.Sprintf("%v", e.Value),
	}
	if e.Param != "" {
		details["param"] = e.Param
	}
	return ValidatorErrors.New(getErrorCodeForRule(e.Rule)).WithDetails(details)
}

// NewValidationError creates a new validation error
func NewValidationError(field, rule, param string, value any, message string) *ValidationError {
	if message == "" {
		message = getErrorMessageForRule(rule, param)
	}

	return &ValidationError{
		Field:   field,
		Rule:    rule,
		Param:   param,
		Value:   value,
		Message: message,
	}
}

var (
	customErrorMessages   = make(map[string]string)
	customErrorMessagesMu sync.RWMutex
)

// SetCustomErrorMessage sets a custom error message for a validation rule
func SetCustomErrorMessage(rule, message string) {
	customErrorMessagesMu.Lock()
	defer customErrorMessagesMu.Unlock()
	customErrorMessages[rule] = message
}

// getErrorMessageForRule returns a default error message for a rule
func getErrorMessageForRule(rule, param string) string {
	customErrorMessagesMu.RLock()
	msg, ok := customErrorMessages[rule]
	customErrorMessagesMu.RUnlock()
	if ok {
		return msg
	}

	switch rule {
	case "required":
		return "field is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s", param)
	case "max":
		return fmt.Sprintf("must be at most %s", param)
	case "len":
		return fmt.Sprintf("must have length %s", param)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", param)
	case "regex":
		return "must match the required pattern"
	case "uuid":
		return "must be a valid UUID"
	case "alphanum":
		return "must contain only alphanumeric characters"
	case "alpha":
		return "must contain only alphabetic characters"
	case "numeric":
		return "must contain only numeric characters"
	default:
		return "failed validation"
	}
}

// getErrorCodeForRule maps a validation rule to an errx Code
func getErrorCodeForRule(rule string) errx.Code {
	switch rule {
	case "required":
		return ErrRequiredField
	case "email":
		return ErrInvalidEmail
	case "url":
		return ErrInvalidURL
	case "min":
		return ErrBelowMin
	case "max":
		return ErrAboveMax
	case "len":
		return ErrInvalidLength
	case "oneof":
		return ErrInvalidOption
	case "regex":
		return ErrPatternMismatch
	case "uuid":
		return ErrInvalidUUID
	case "alphanum":
		return ErrInvalidAlphaNum
	case "alpha":
		return ErrInvalidAlpha
	case "numeric":
		return ErrInvalidNumeric
	default:
		return ErrValidationFailed
	}
}
