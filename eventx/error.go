package eventx

import (
	"net/http"

	"github.com/Conversia-AI/craftable-serialx/errx"
)

// Error registry for eventx package
var ErrorRegistry = errx.NewRegistry("EVENTX")

// Error codes
var (
	ErrInvalidEventType    = ErrorRegistry.Register("INVALID_EVENT_TYPE", errx.TypeValidation, http.StatusBadRequest, "Invalid event type")
	ErrSerializationFailed = ErrorRegistry.Register("SERIALIZATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Event serialization failed")
	ErrPublishFailed       = ErrorRegistry.Register("PUBLISH_FAILED", errx.TypeSystem, http.StatusInternalServerError, "Failed to publish event")
	ErrPublisherClosed     = ErrorRegistry.Register("PUBLISHER_CLOSED", errx.TypeSystem, http.StatusServiceUnavailable, "Event publisher is closed")
	ErrHandlerFailed       = ErrorRegistry.Register("HANDLER_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Event handler failed")
)
