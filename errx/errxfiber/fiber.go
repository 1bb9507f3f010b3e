// Package errxfiber renders errx errors as Fiber JSON responses.
package errxfiber

import (
	"errors"
	"sync"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var (
	logger   = zap.NewNop()
	loggerMu sync.RWMutex
)

// SetLogger sets the logger used to report handled errors
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

func log() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// ErrxToFiber converts the Error to a plain fiber.Error
func ErrxToFiber(e *errx.Error) error {
	return fiber.NewError(e.Status(), e.Message)
}

// FiberErrorHandler formats any errx.Error returned from a handler as
//
//	{"error": {"code": ..., "type": ..., "message": ..., "details": {...}}}
//
// fiber errors keep their status; anything else becomes a 500.
func FiberErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var xerr *errx.Error
		if errors.As(err, &xerr) {
			log().Debug("request failed",
				zap.String("path", c.Path()),
				zap.String("code", string(xerr.Code)),
				zap.Any("details", xerr.Details),
				zap.Error(err))
			return c.Status(xerr.Status()).JSON(xerr.Body())
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "FIBER_ERROR",
					"type":    errx.TypeBadRequest,
					"message": fiberErr.Message,
				},
			})
		}

		log().Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_ERROR",
				"type":    errx.TypeInternal,
				"message": err.Error(),
			},
		})
	}
}
