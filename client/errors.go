package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is a non-2xx response from the backend. Message comes from the
// backend's error envelope when the body is parseable, otherwise from the
// HTTP status text.
type HTTPError struct {
	StatusCode int
	Message    string
	Details    json.RawMessage
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// NetworkError is a request that never reached the backend or never
// returned. It carries no HTTP status.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is a client-detected failure raised before any request is
// attempted, e.g. malformed JSON typed into a configuration editor.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	httpErr := AsHTTPError(err)
	return httpErr != nil && httpErr.StatusCode == http.StatusNotFound
}

// errorEnvelope is the backend's error response body.
type errorEnvelope struct {
	Code    int             `json:"code,omitempty"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}
