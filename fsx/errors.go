package fsx

import (
	"net/http"

	"github.com/Conversia-AI/craftable-serialx/errx"
)

// ErrorRegistry holds the errors shared by every provider
var ErrorRegistry = errx.NewRegistry("FSX")

var (
	ErrNotFound    = ErrorRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found")
	ErrOutsideRoot = ErrorRegistry.Register("OUTSIDE_ROOT", errx.TypeAuthorization, http.StatusForbidden, "Path escapes the file system root")
	ErrIsDir       = ErrorRegistry.Register("IS_DIR", errx.TypeBadRequest, http.StatusBadRequest, "Path is a directory")
)
