// Package client provides the request executor the entity stores use to
// talk to the middleware-manager backend API.
//
// Execute normalizes every outcome into either a JSON payload or one of the
// typed failures (HTTPError, NetworkError, ValidationError). Failures are
// logged for diagnostics; requests are never retried automatically.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single backend call when no custom HTTP client is
// injected.
const DefaultTimeout = 10 * time.Second

// successPayload is the synthetic payload for 2xx responses without a
// meaningful JSON body.
var successPayload = json.RawMessage(`{"success":true}`)

// Transport executes HTTP calls against the backend API.
type Transport struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config contains options for creating a Transport.
type Config struct {
	// BaseURL is the backend API root (e.g. "http://localhost:3456").
	BaseURL string

	// Username and Password enable basic auth when both are set.
	Username string
	Password string

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	HTTPClient *http.Client

	// Logger for failure diagnostics; slog.Default is used when nil.
	Logger *slog.Logger
}

// New creates a Transport with the provided configuration.
func New(cfg Config) (*Transport, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Transport{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: httpClient,
		logger:     logger.With("component", "transport"),
	}, nil
}

// BaseURL returns the configured backend API root.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Execute issues one HTTP call and normalizes the response.
//
// A 2xx response with a JSON body yields the raw payload; a 2xx response
// with an empty or non-JSON body yields a synthetic {"success":true}
// payload. A non-2xx response yields an HTTPError carrying the backend's
// error envelope when one can be decoded. A request that never completes
// yields a NetworkError.
func (t *Transport) Execute(ctx context.Context, method, endpoint string, body interface{}) (json.RawMessage, error) {
	url := t.baseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("failed to encode request body: %v", err)}
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("failed to create request: %v", err)}
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.username != "" {
		req.SetBasicAuth(t.username, t.password)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		netErr := &NetworkError{URL: url, Err: err}
		t.logger.Error("backend request failed",
			"method", method,
			"endpoint", endpoint,
			"error", err)
		return nil, netErr
	}
	defer resp.Body.Close()

	payload, err := decodeBody(resp)
	if err != nil {
		netErr := &NetworkError{URL: url, Err: err}
		t.logger.Error("failed to read backend response",
			"method", method,
			"endpoint", endpoint,
			"error", err)
		return nil, netErr
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if payload == nil {
			return successPayload, nil
		}
		return payload, nil
	}

	httpErr := classifyFailure(resp.StatusCode, payload)
	t.logger.Error("backend request failed",
		"method", method,
		"endpoint", endpoint,
		"status_code", resp.StatusCode,
		"message", httpErr.Message)
	return nil, httpErr
}

// decodeBody reads the response body and returns it as raw JSON, or nil
// when the body is empty or not syntactically valid JSON.
func decodeBody(resp *http.Response) (json.RawMessage, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	data := bytes.TrimSpace(buf.Bytes())
	if len(data) == 0 || !json.Valid(data) {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

// classifyFailure builds an HTTPError from a non-2xx response, preferring
// the backend's error envelope over the bare status text.
func classifyFailure(statusCode int, payload json.RawMessage) *HTTPError {
	httpErr := &HTTPError{StatusCode: statusCode}

	if payload != nil {
		var envelope errorEnvelope
		if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Message != "" {
			httpErr.Message = envelope.Message
			httpErr.Details = envelope.Details
			return httpErr
		}
	}

	text := http.StatusText(statusCode)
	if text == "" {
		text = "request failed"
	}
	httpErr.Message = text
	return httpErr
}
