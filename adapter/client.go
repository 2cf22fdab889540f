package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/roadwise/roadwise/constants"
	"github.com/roadwise/roadwise/utils"
)

// ErrUpstream is matched (errors.Is) by every failure to reach a provider or
// get a successful answer from it.
var ErrUpstream = errors.New("upstream provider failed")

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 8 << 20

// StatusError is a non-2xx provider response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("%s: status %d: %s", e.URL, e.StatusCode, body)
}

// Is reports StatusError as an ErrUpstream.
func (e *StatusError) Is(target error) bool {
	return target == ErrUpstream
}

// Client performs provider requests with a per-attempt timeout and
// exponential backoff. Responses with status 429 or 5xx and transport errors
// are retried; other non-2xx responses fail immediately.
type Client struct {
	HTTP      *http.Client
	Attempts  uint
	UserAgent string
	// InitialInterval is the first backoff delay; zero uses the backoff default.
	InitialInterval time.Duration
}

// NewClient creates a Client with the given per-request timeout and attempt count.
func NewClient(timeout time.Duration, attempts int) *Client {
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		Attempts:  uint(attempts),
		UserAgent: constants.DefaultUserAgent,
	}
}

// RapidAPIHeaders returns the authentication headers RapidAPI-hosted providers expect.
func RapidAPIHeaders(key, host string) map[string]string {
	return map[string]string{
		constants.HeaderRapidAPIKey:  key,
		constants.HeaderRapidAPIHost: host,
	}
}

// KeySource resolves provider API keys (satisfied by secrets.SecretsProvider).
type KeySource interface {
	GetSecret(ctx context.Context, key string) (string, error)
}

// RapidAPIHeadersFrom looks up RAPIDAPI_KEY in keys and builds the headers for host.
func RapidAPIHeadersFrom(ctx context.Context, keys KeySource, host string) (map[string]string, error) {
	if keys == nil {
		return nil, fmt.Errorf("%w: no key source for %s", ErrUpstream, host)
	}
	key, err := keys.GetSecret(ctx, constants.EnvRapidAPIKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s key unavailable: %v", ErrUpstream, host, err)
	}
	return RapidAPIHeaders(key, host), nil
}

// Get performs a GET and returns the response body.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set(constants.HeaderAccept, constants.DefaultJSONAccept)
		return req, nil
	}, headers)
}

// PostFile uploads data as a single multipart file field and returns the response body.
func (c *Client) PostFile(ctx context.Context, url, field, filename string, data []byte, headers map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	body := buf.Bytes()
	contentType := mw.FormDataContentType()

	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set(constants.HeaderContentType, contentType)
		return req, nil
	}, headers)
}

func (c *Client) do(ctx context.Context, build func() (*http.Request, error), headers map[string]string) ([]byte, error) {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	attempts := c.Attempts
	if attempts == 0 {
		attempts = 1
	}

	operation := func() ([]byte, error) {
		req, err := build()
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if c.UserAgent != "" {
			req.Header.Set(constants.HeaderUserAgent, c.UserAgent)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			utils.Debug("provider request %s failed: %v", req.URL.Redacted(), err)
			return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, req.URL.Redacted(), err)
		}
		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil {
				utils.Warn("Failed to close provider response body: %v", closeErr)
			}
		}()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrUpstream, req.URL.Redacted(), err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &StatusError{URL: req.URL.Redacted(), StatusCode: resp.StatusCode, Body: string(data)}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return nil, statusErr
			}
			return nil, backoff.Permanent(statusErr)
		}
		return data, nil
	}

	b := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		b.InitialInterval = c.InitialInterval
	}
	return backoff.Retry(ctx, operation, backoff.WithBackOff(b), backoff.WithMaxTries(attempts))
}
