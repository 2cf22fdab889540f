package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, r.Method+" "+r.URL.Path+" "+string(body))
	})
}

func TestLambdaHandler_RESTEvent(t *testing.T) {
	h := NewLambdaHandler(echoHandler())
	payload, err := json.Marshal(events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/parse-license",
		Body:       "hello",
	})
	require.NoError(t, err)

	out, err := h.Invoke(context.Background(), payload)
	require.NoError(t, err)

	var resp events.APIGatewayProxyResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "POST /api/parse-license hello", resp.Body)
}

func TestLambdaHandler_HTTPAPIEvent(t *testing.T) {
	h := NewLambdaHandler(echoHandler())
	req := events.APIGatewayV2HTTPRequest{
		Version:  "2.0",
		RawPath:  "/healthz",
		Body:     "",
		RouteKey: "$default",
	}
	req.RequestContext.HTTP.Method = http.MethodGet
	req.RequestContext.HTTP.Path = "/healthz"
	payload, err := json.Marshal(req)
	require.NoError(t, err)

	out, err := h.Invoke(context.Background(), payload)
	require.NoError(t, err)

	var resp events.APIGatewayV2HTTPResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "GET /healthz ", resp.Body)
}

func TestLambdaHandler_BadPayload(t *testing.T) {
	h := NewLambdaHandler(echoHandler())
	_, err := h.Invoke(context.Background(), []byte(`{"httpMethod": 42}`))
	assert.Error(t, err)
}
