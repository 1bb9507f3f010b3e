// Package errxlambda renders errx errors as API Gateway proxy responses.
package errxlambda

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/aws/aws-lambda-go/events"
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

// LambdaHandlerFunc represents a Lambda handler function that can return an Error
type LambdaHandlerFunc func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// ErrorMiddleware wraps a Lambda handler so returned errors become JSON
// responses instead of invocation failures
func ErrorMiddleware(handler LambdaHandlerFunc) LambdaHandlerFunc {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		response, err := handler(ctx, event)
		if err == nil {
			return response, nil
		}

		var xerr *errx.Error
		if errors.As(err, &xerr) {
			log().Debug("lambda request failed",
				zap.String("path", event.Path),
				zap.String("code", string(xerr.Code)),
				zap.Error(err))
			return ToLambdaResponse(xerr), nil
		}

		log().Error("unhandled lambda error", zap.String("path", event.Path), zap.Error(err))
		return ToLambdaResponse(errx.Wrap(err, err.Error(), errx.TypeInternal)), nil
	}
}

// ToLambdaResponse converts an errx.Error to an API Gateway proxy response
func ToLambdaResponse(e *errx.Error) events.APIGatewayProxyResponse {
	body, err := json.Marshal(e.Body())
	if err != nil {
		log().Error("failed to marshal error response", zap.Error(err))
		body = []byte(`{"error": {"code": "INTERNAL_ERROR", "type": "INTERNAL", "message": "An unexpected error occurred"}}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: e.Status(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(body),
	}
}

// JSONResponse marshals v as a 200 response
func JSONResponse(v any) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayProxyResponse{}, errx.Wrap(err, "Failed to marshal response", errx.TypeInternal)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(body),
	}, nil
}
