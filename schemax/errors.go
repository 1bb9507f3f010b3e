package schemax

import (
	"net/http"

	"github.com/Conversia-AI/craftable-serialx/errx"
)

var ErrorRegistry = errx.NewRegistry("SCHEMAX")

var (
	ErrSchemaNotFound    = ErrorRegistry.Register("SCHEMA_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Schema not found")
	ErrDuplicateSchema   = ErrorRegistry.Register("DUPLICATE_SCHEMA", errx.TypeConflict, http.StatusConflict, "Schema already registered")
	ErrInvalidDefinition = ErrorRegistry.Register("INVALID_DEFINITION", errx.TypeBadRequest, http.StatusBadRequest, "Invalid schema definition")
	ErrUnknownReference  = ErrorRegistry.Register("UNKNOWN_REFERENCE", errx.TypeBadRequest, http.StatusBadRequest, "Object field references an unknown schema")
	ErrReferenceCycle    = ErrorRegistry.Register("REFERENCE_CYCLE", errx.TypeBadRequest, http.StatusBadRequest, "Schema references form a cycle")
)
