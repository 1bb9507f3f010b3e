package fieldx

import (
	"net/http"

	"github.com/Conversia-AI/craftable-serialx/errx"
)

// ErrorRegistry holds all error definitions for the fieldx package
var ErrorRegistry = errx.NewRegistry("FIELDX")

var ErrUnsupportedType = ErrorRegistry.Register("UNSUPPORTED_TYPE", errx.TypeBadRequest, http.StatusBadRequest, "Unsupported field type")
