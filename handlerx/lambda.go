package handlerx

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/Conversia-AI/craftable-serialx/errx/errxlambda"
	"github.com/aws/aws-lambda-go/events"
)

// LambdaHandler serves the routes of NewFiberApp behind API Gateway. The
// schema name comes from the "name" path parameter; a POST validates.
//
//	lambda.Start(handlerx.LambdaHandler(svc))
func LambdaHandler(svc *Service) errxlambda.LambdaHandlerFunc {
	return errxlambda.ErrorMiddleware(func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if err := svc.Authorize(header(event, "Authorization"), event.HTTPMethod); err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		name := event.PathParameters["name"]

		switch event.HTTPMethod {
		case http.MethodGet:
			if name == "" {
				return errxlambda.JSONResponse(map[string]any{"schemas": svc.Schemas()})
			}
			info, err := svc.Describe(name)
			if err != nil {
				return events.APIGatewayProxyResponse{}, err
			}
			return errxlambda.JSONResponse(info)
		case http.MethodPost:
			data, err := body(event)
			if err != nil {
				return events.APIGatewayProxyResponse{}, err
			}
			out, err := svc.ValidateBody(ctx, name, header(event, "Content-Type"), data)
			if err != nil {
				return events.APIGatewayProxyResponse{}, err
			}
			return errxlambda.JSONResponse(map[string]any{"data": out})
		}

		return events.APIGatewayProxyResponse{}, ErrorRegistry.New(ErrMethodNotAllowed).
			WithDetail("method", event.HTTPMethod)
	})
}

func header(event events.APIGatewayProxyRequest, key string) string {
	for k, v := range event.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func body(event events.APIGatewayProxyRequest) ([]byte, error) {
	if !event.IsBase64Encoded {
		return []byte(event.Body), nil
	}
	data, err := base64.StdEncoding.DecodeString(event.Body)
	if err != nil {
		return nil, ErrorRegistry.NewWithCause(ErrInvalidBody, err)
	}
	return data, nil
}
