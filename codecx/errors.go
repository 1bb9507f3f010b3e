package codecx

import (
	"net/http"

	"github.com/Conversia-AI/craftable-serialx/errx"
)

// ErrorRegistry holds all error definitions for the codecx package
var ErrorRegistry = errx.NewRegistry("CODECX")

var (
	ErrUnknownCodec = ErrorRegistry.Register("UNKNOWN_CODEC", errx.TypeBadRequest, http.StatusBadRequest, "Unknown codec")
	ErrDecode       = ErrorRegistry.Register("DECODE", errx.TypeBadRequest, http.StatusBadRequest, "Payload could not be decoded")
	ErrEncode       = ErrorRegistry.Register("ENCODE", errx.TypeInternal, http.StatusInternalServerError, "Value could not be encoded")
	ErrNotObject    = ErrorRegistry.Register("NOT_OBJECT", errx.TypeBadRequest, http.StatusBadRequest, "Payload is not an object or a list of objects")
)
