package errxlambda

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testErrors = errx.NewRegistry("LAMBDATEST")

var errDenied = testErrors.Register("DENIED", errx.TypeAuthorization, http.StatusForbidden, "Access denied")

func TestErrorMiddleware(t *testing.T) {
	ctx := context.Background()

	ok := ErrorMiddleware(func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return JSONResponse(map[string]string{"status": "ok"})
	})
	resp, err := ok(ctx, events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status": "ok"}`, resp.Body)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	denied := ErrorMiddleware(func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return events.APIGatewayProxyResponse{}, testErrors.New(errDenied).WithDetail("user", "u1")
	})
	resp, err = denied(ctx, events.APIGatewayProxyRequest{Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.JSONEq(t, `{"error": {"code": "LAMBDATEST_DENIED", "type": "AUTHORIZATION", "message": "Access denied", "details": {"user": "u1"}}}`, resp.Body)

	plain := ErrorMiddleware(func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return events.APIGatewayProxyResponse{}, errors.New("boom")
	})
	resp, err = plain(ctx, events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body, "boom")
}

func TestJSONResponseMarshalError(t *testing.T) {
	_, err := JSONResponse(make(chan int))
	assert.True(t, errx.IsType(err, errx.TypeInternal))
}
