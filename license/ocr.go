package license

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roadwise/roadwise/adapter"
	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/utils"
	"github.com/tidwall/gjson"
)

// ErrNoText is returned when the OCR provider found no usable text.
var ErrNoText = errors.New("no text extracted from image")

// MockText is the licence text returned in mock mode.
const MockText = `
GOVERNMENT OF INDIA
DRIVING LICENCE

Name: RAJESH KUMAR SHARMA
S/O: RAM KUMAR SHARMA

DOB: 15-08-1995

DL No: MH-0120210012345

ISSUE DATE: 20-01-2021
VALID TILL: 19-01-2041

COV: MCWG, LMV

Blood Group: O+
Address: Mumbai, Maharashtra
`

// OCR turns a licence image into text.
type OCR interface {
	ExtractText(ctx context.Context, filename string, image []byte) (string, error)
}

// OCRClient calls a RapidAPI-hosted OCR endpoint.
type OCRClient struct {
	client *adapter.Client
	cfg    config.ProviderConfig
	keys   adapter.KeySource
	mock   bool
}

var (
	_ OCR             = (*OCRClient)(nil)
	_ adapter.Adapter = (*OCRClient)(nil)
)

// NewOCRClient creates an OCR client. In mock mode no request is made.
func NewOCRClient(client *adapter.Client, cfg config.ProviderConfig, keys adapter.KeySource, mock bool) *OCRClient {
	return &OCRClient{client: client, cfg: cfg, keys: keys, mock: mock}
}

func (c *OCRClient) ID() string { return "ocr" }

func (c *OCRClient) Mock() bool { return c.mock }

// ExtractText uploads image as the "image" form field and returns the text
// the provider found.
func (c *OCRClient) ExtractText(ctx context.Context, filename string, image []byte) (string, error) {
	if c.mock {
		utils.DebugCtx(ctx, "ocr mock mode, returning sample licence")
		return MockText, nil
	}
	headers, err := adapter.RapidAPIHeadersFrom(ctx, c.keys, c.cfg.Host)
	if err != nil {
		return "", err
	}
	body, err := c.client.PostFile(ctx, c.cfg.URL, "image", filename, image, headers)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}

	text := extractText(body)
	if len(strings.TrimSpace(text)) < 10 {
		return "", ErrNoText
	}
	return text, nil
}

// extractText picks the text out of the provider's JSON. Providers disagree
// on the field name, so the whole document is the last resort.
func extractText(body []byte) string {
	for _, path := range []string{"text", "result", "extracted_text", "data"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return string(body)
}
