package errxfiber

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testErrors = errx.NewRegistry("FIBERTEST")

var errMissing = testErrors.Register("MISSING", errx.TypeNotFound, http.StatusNotFound, "Thing not found")

type body struct {
	Error struct {
		Code    string         `json:"code"`
		Type    string         `json:"type"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func TestFiberErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler()})
	app.Get("/errx", func(c *fiber.Ctx) error {
		return testErrors.New(errMissing).WithDetail("id", "42")
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	tests := []struct {
		path    string
		status  int
		code    string
		message string
	}{
		{"/errx", http.StatusNotFound, "FIBERTEST_MISSING", "Thing not found"},
		{"/fiber", http.StatusTeapot, "FIBER_ERROR", "short and stout"},
		{"/plain", http.StatusInternalServerError, "INTERNAL_ERROR", "boom"},
		{"/nowhere", http.StatusNotFound, "FIBER_ERROR", "Cannot GET /nowhere"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var b body
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
			assert.Equal(t, tt.code, b.Error.Code)
			assert.Equal(t, tt.message, b.Error.Message)
		})
	}
}

func TestErrxToFiber(t *testing.T) {
	err := ErrxToFiber(testErrors.New(errMissing))
	var fiberErr *fiber.Error
	require.True(t, errors.As(err, &fiberErr))
	assert.Equal(t, http.StatusNotFound, fiberErr.Code)
	assert.Equal(t, "Thing not found", fiberErr.Message)
}
