package dtox

import (
	"net/http"

	"github.com/Conversia-AI/craftable-serialx/errx"
)

// ErrorRegistry holds all error definitions for the dtox package
var ErrorRegistry = errx.NewRegistry("DTOX")

// Error codes definition
var (
	// Validation errors
	ErrValidationFailed = ErrorRegistry.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusBadRequest, "Validation failed")

	// Declaration errors
	ErrNotStruct       = ErrorRegistry.Register("NOT_STRUCT", errx.TypeInternal, http.StatusInternalServerError, "Mapped type must be a struct")
	ErrFieldNotFound   = ErrorRegistry.Register("FIELD_NOT_FOUND", errx.TypeInternal, http.StatusInternalServerError, "Field not found in target type")
	ErrInvalidTag      = ErrorRegistry.Register("INVALID_TAG", errx.TypeInternal, http.StatusInternalServerError, "Invalid struct tag")
	ErrRecursiveType   = ErrorRegistry.Register("RECURSIVE_TYPE", errx.TypeInternal, http.StatusInternalServerError, "Recursive types cannot be mapped")
	ErrUnsupportedType = ErrorRegistry.Register("UNSUPPORTED_TYPE", errx.TypeInternal, http.StatusInternalServerError, "Field type cannot be mapped")

	// Batch operation errors
	ErrBatchConversion = ErrorRegistry.Register("BATCH_CONVERSION", errx.TypeValidation, http.StatusBadRequest, "Batch conversion failed")
)
