package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/tidwall/gjson"
)

// LambdaHandler serves API Gateway proxy events with an http.Handler. REST
// API (v1) and HTTP API (v2) payloads are both accepted; the payload's
// "version" field tells them apart.
type LambdaHandler struct {
	v1 *httpadapter.HandlerAdapter
	v2 *httpadapter.HandlerAdapterV2
}

func NewLambdaHandler(h http.Handler) *LambdaHandler {
	return &LambdaHandler{v1: httpadapter.New(h), v2: httpadapter.NewV2(h)}
}

// Invoke implements lambda.Handler.
func (l *LambdaHandler) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	if gjson.GetBytes(payload, "version").String() == "2.0" {
		var req events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("failed to decode v2 proxy event: %w", err)
		}
		resp, err := l.v2.ProxyWithContext(ctx, req)
		if err != nil {
			return nil, err
		}
		return json.Marshal(resp)
	}

	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("failed to decode proxy event: %w", err)
	}
	resp, err := l.v1.ProxyWithContext(ctx, req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resp)
}
