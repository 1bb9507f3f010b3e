// Package errx provides registry-based structured errors.
//
// Each package declares its own registry and registers the error codes it can
// produce. Codes carry a Type, an HTTP status and a default message, so callers
// can render them consistently over HTTP, CLI or Lambda transports.
//
//	var ErrorRegistry = errx.NewRegistry("USER")
//
//	var ErrUserNotFound = ErrorRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
//
//	func Find(id string) error {
//		return ErrorRegistry.New(ErrUserNotFound).WithDetail("user_id", id)
//	}
package errx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Type classifies an error
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeBadRequest    Type = "BAD_REQUEST"
	TypeNotFound      Type = "NOT_FOUND"
	TypeInternal      Type = "INTERNAL"
	TypeSystem        Type = "SYSTEM"
	TypeExternal      Type = "EXTERNAL"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeUnavailable   Type = "UNAVAILABLE"
	TypeRateLimit     Type = "RATE_LIMIT"
	TypeTimeout       Type = "TIMEOUT"
	TypeConflict      Type = "CONFLICT"
)

// Code identifies a registered error
type Code string

// Error is a structured error with a code, type and optional details
type Error struct {
	Code       Code           `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithDetail adds a single detail entry
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges the given details
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithCause sets the underlying cause
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Status returns the HTTP status, defaulting to 500
func (e *Error) Status() int {
	if e.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}

// Body returns the JSON body shape shared by all transports
func (e *Error) Body() map[string]any {
	body := map[string]any{
		"code":    e.Code,
		"type":    e.Type,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		body["details"] = e.Details
	}
	return map[string]any{"error": body}
}

// ToHTTP writes the error as a JSON response
func (e *Error) ToHTTP(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status())
	_ = json.NewEncoder(w).Encode(e.Body())
}

type definition struct {
	typ     Type
	status  int
	message string
}

// Registry holds the error codes of one package
type Registry struct {
	prefix string
	mu     sync.RWMutex
	codes  map[Code]definition
}

// NewRegistry creates a registry whose codes are prefixed with prefix
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[Code]definition),
	}
}

// Register declares a code. Registering the same code twice panics.
func (r *Registry) Register(code string, typ Type, status int, message string) Code {
	full := Code(code)
	if r.prefix != "" {
		full = Code(r.prefix + "_" + code)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codes[full]; exists {
		panic(fmt.Sprintf("errx: code %s registered twice", full))
	}
	r.codes[full] = definition{typ: typ, status: status, message: message}
	return full
}

// New creates an error for a registered code
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	def, ok := r.codes[code]
	r.mu.RUnlock()

	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			Message:    "Unregistered error code",
			HTTPStatus: http.StatusInternalServerError,
		}
	}

	return &Error{
		Code:       code,
		Type:       def.typ,
		Message:    def.message,
		HTTPStatus: def.status,
	}
}

// NewWithCause creates an error for a registered code wrapping cause
func (r *Registry) NewWithCause(code Code, cause error) *Error {
	return r.New(code).WithCause(cause)
}

// NewWithMessage creates an error for a registered code overriding its message
func (r *Registry) NewWithMessage(code Code, message string) *Error {
	e := r.New(code)
	e.Message = message
	return e
}

// Has reports whether the code is registered
func (r *Registry) Has(code Code) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.codes[code]
	return ok
}

// New creates an unregistered error of the given type
func New(message string, typ Type) *Error {
	return &Error{
		Code:       Code(typ),
		Type:       typ,
		Message:    message,
		HTTPStatus: statusForType(typ),
	}
}

// Wrap wraps err in an error of the given type. An *Error cause keeps its code.
func Wrap(err error, message string, typ Type) *Error {
	if err == nil {
		return nil
	}
	wrapped := New(message, typ).WithCause(err)
	var xerr *Error
	if errors.As(err, &xerr) {
		wrapped.Code = xerr.Code
		wrapped.HTTPStatus = xerr.Status()
	}
	return wrapped
}

// IsCode reports whether any error in the chain carries code
func IsCode(err error, code Code) bool {
	for err != nil {
		var xerr *Error
		if !errors.As(err, &xerr) {
			return false
		}
		if xerr.Code == code {
			return true
		}
		err = xerr.Cause
	}
	return false
}

// IsType reports whether the outermost *Error in the chain has type typ
func IsType(err error, typ Type) bool {
	var xerr *Error
	if errors.As(err, &xerr) {
		return xerr.Type == typ
	}
	return false
}

// StatusOf returns the HTTP status for err, 500 for unknown errors
func StatusOf(err error) int {
	var xerr *Error
	if errors.As(err, &xerr) {
		return xerr.Status()
	}
	return http.StatusInternalServerError
}

func statusForType(typ Type) int {
	switch typ {
	case TypeValidation, TypeBadRequest:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	case TypeRateLimit:
		return http.StatusTooManyRequests
	case TypeTimeout:
		return http.StatusRequestTimeout
	case TypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
