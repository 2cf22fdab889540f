// Package form decodes and validates assessment payloads. Payloads are JSON
// from the HTTP API or JSON/YAML files from the CLI.
package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/roadwise/roadwise/docs"
	"github.com/roadwise/roadwise/model"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every payload that fails decoding or schema validation.
var ErrInvalid = errors.New("invalid assessment payload")

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("prediction.schema.json", docs.PredictionSchema)
	})
	return schema, schemaErr
}

// Decode validates data against the assessment schema and decodes it. data
// may be JSON or YAML.
func Decode(data []byte) (model.PredictionInput, error) {
	var in model.PredictionInput
	raw, err := toJSON(data)
	if err != nil {
		return in, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := ValidateJSON(raw); err != nil {
		return in, err
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return in, nil
}

// Load reads, validates and decodes a payload file.
func Load(path string) (model.PredictionInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PredictionInput{}, err
	}
	return Decode(data)
}

// ValidateJSON runs JSON Schema validation of a JSON document.
func ValidateJSON(raw []byte) error {
	s, err := compiled()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return fmt.Errorf("%w: expected an object", ErrInvalid)
	}
	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(leafMessages(ve), "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// leafMessages lists the innermost causes as "field: message".
func leafMessages(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		field := strings.TrimPrefix(ve.InstanceLocation, "/")
		if field == "" {
			return []string{ve.Message}
		}
		return []string{field + ": " + ve.Message}
	}
	var out []string
	for _, cause := range ve.Causes {
		out = append(out, leafMessages(cause)...)
	}
	sort.Strings(out)
	return out
}

func toJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty payload")
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return trimmed, nil
	}
	var doc any
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
