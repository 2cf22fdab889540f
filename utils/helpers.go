package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/roadwise/roadwise/constants"
)

// MaxJSONBodyBytes bounds request bodies decoded by DecodeJSON.
const MaxJSONBodyBytes = 1 << 20

// ErrorResponse is the envelope every failing endpoint returns.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteHTTPJSON writes v as JSON with the given status code.
func WriteHTTPJSON(w http.ResponseWriter, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		WriteHTTPError(w, constants.ResponseEncodeFailed, http.StatusInternalServerError)
		return err
	}
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		Warn(constants.LogWriteFailed, err)
		return err
	}
	return nil
}

// WriteHTTPError writes the {"success":false,"error":...} envelope.
func WriteHTTPError(w http.ResponseWriter, message string, status int) {
	data, err := json.Marshal(ErrorResponse{Success: false, Error: message})
	if err != nil {
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeText)
		w.WriteHeader(status)
		fmt.Fprintf(w, "Error: %s", message)
		return
	}
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		Warn(constants.LogWriteFailed, err)
	}
}

// DecodeJSON decodes the request body into v, rejecting bodies larger than
// MaxJSONBodyBytes and trailing garbage.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New(constants.ResponseInvalidRequestBody)
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxJSONBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%s: %w", constants.ResponseInvalidRequestBody, err)
	}
	if dec.More() {
		return errors.New(constants.ResponseInvalidRequestBody)
	}
	return nil
}
