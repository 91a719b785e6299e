package models

import (
	"encoding/json"
	"time"
)

// Middleware represents a named, reusable request/response transform.
// The Type field selects the configuration variant and is immutable once
// the middleware has been created; the backend ignores type changes on
// update and the stores reflect whatever the backend returns.
type Middleware struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Type      string                 `json:"type"`
	Config    map[string]interface{} `json:"config"`
	CreatedAt time.Time              `json:"created_at,omitempty"`
	UpdatedAt time.Time              `json:"updated_at,omitempty"`
}

// ChainMembers returns the ordered middleware ID sequence of a chain
// middleware. Order is the application order arranged by the operator and
// must be preserved exactly. Returns nil for non-chain middlewares or when
// the config carries no middlewares list.
func (m *Middleware) ChainMembers() []string {
	if m.Type != "chain" || m.Config == nil {
		return nil
	}

	raw, ok := m.Config["middlewares"]
	if !ok {
		return nil
	}

	switch list := raw.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// ConfigJSON returns the middleware config as JSON text.
func (m *Middleware) ConfigJSON() (string, error) {
	data, err := json.Marshal(m.Config)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ResourceMiddleware represents the relationship between a resource and a
// middleware. Priority establishes the application order among middlewares
// attached directly to one resource, independent from the ordering inside a
// chain middleware.
type ResourceMiddleware struct {
	ResourceID   string `json:"resource_id"`
	MiddlewareID string `json:"middleware_id"`
	Priority     int    `json:"priority"`
}

// MiddlewareLookup is the result of resolving a middleware ID reference.
// Cross-references are weak: a chain may name an ID that no longer exists,
// which is a valid, displayable state.
type MiddlewareLookup struct {
	Ref        string
	Middleware *Middleware
	Resolved   bool
}

// DisplayName returns the middleware name when the reference resolved, or
// the raw reference marked unknown otherwise.
func (l MiddlewareLookup) DisplayName() string {
	if l.Resolved {
		return l.Middleware.Name
	}
	return l.Ref + " (unknown)"
}
