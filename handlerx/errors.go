package handlerx

import (
	"net/http"

	"github.com/Conversia-AI/craftable-serialx/errx"
)

var ErrorRegistry = errx.NewRegistry("HANDLERX")

var (
	ErrSchemaNotFound   = ErrorRegistry.Register("SCHEMA_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Schema not found")
	ErrInvalidBody      = ErrorRegistry.Register("INVALID_BODY", errx.TypeBadRequest, http.StatusBadRequest, "Request body must be a JSON object or a list of objects")
	ErrBatchFailed      = ErrorRegistry.Register("BATCH_FAILED", errx.TypeValidation, http.StatusBadRequest, "One or more records failed validation")
	ErrMethodNotAllowed = ErrorRegistry.Register("METHOD_NOT_ALLOWED", errx.TypeBadRequest, http.StatusMethodNotAllowed, "Method not allowed")
	ErrBodyTooLarge     = ErrorRegistry.Register("BODY_TOO_LARGE", errx.TypeBadRequest, http.StatusRequestEntityTooLarge, "Request body is too large")
)
