package main

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"

	_ "github.com/azure-architect/archdiagram/internal/handler" // register scope handlers
	"github.com/azure-architect/archdiagram/internal/logger"
	"github.com/azure-architect/archdiagram/internal/parser"
	"github.com/azure-architect/archdiagram/internal/result"
)

// LambdaEvent is the invocation payload (e.g. from API Gateway).
type LambdaEvent struct {
	Body     string `json:"body"` // chat text or analysis payload (raw or base64 if isBase64)
	IsBase64 bool   `json:"isBase64,omitempty"`
	Mode     string `json:"mode,omitempty"`
}

// APIGatewayResponse is the shape expected by API Gateway proxy integration (body = JSON string).
type APIGatewayResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

var diagramParser = func() *parser.DiagramParser {
	opts := parser.DefaultOptions()
	opts.Logger = logger.FromEnv("info")
	return parser.New(nil, opts)
}()

func handler(ctx context.Context, event LambdaEvent) (APIGatewayResponse, error) {
	body := event.Body
	if event.IsBase64 {
		dec, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return fail(400, "invalid_input", "invalid base64 body: "+err.Error()), nil
		}
		body = string(dec)
	}

	mode, err := parser.ParseMode(event.Mode)
	if err != nil {
		return fail(400, "invalid_mode", err.Error()), nil
	}
	res, err := diagramParser.Parse(body, mode)
	if err != nil {
		return fail(500, "parse_error", err.Error()), nil
	}
	status := 200
	if !res.Success {
		status = 422
	}
	return wrap(status, res), nil
}

func fail(status int, typ, msg string) APIGatewayResponse {
	return wrap(status, &result.DiagramResult{
		Errors: []result.Error{{Type: typ, Severity: "error", Message: msg}},
	})
}

func wrap(status int, res *result.DiagramResult) APIGatewayResponse {
	bodyBytes, _ := json.Marshal(res)
	return APIGatewayResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(bodyBytes),
	}
}

func main() {
	lambda.Start(handler)
}
