package models

import (
	"strconv"
	"strings"
	"time"
)

// Resource represents a configured router/route exposed by the proxy.
// Resources originate from the active data source; the console edits their
// configuration sections and middleware/service wiring but never creates
// them.
type Resource struct {
	ID        string `json:"id"`
	Host      string `json:"host"`
	ServiceID string `json:"service_id"`
	OrgID     string `json:"org_id"`
	SiteID    string `json:"site_id"`
	Status    string `json:"status"`

	// HTTP router configuration
	Entrypoints string `json:"entrypoints"`

	// TLS certificate configuration
	TLSDomains string `json:"tls_domains"`

	// TCP SNI routing configuration
	TCPEnabled     bool   `json:"tcp_enabled"`
	TCPEntrypoints string `json:"tcp_entrypoints"`
	TCPSNIRule     string `json:"tcp_sni_rule"`

	// Custom headers configuration
	CustomHeaders string `json:"custom_headers"`

	// Router priority configuration
	RouterPriority int `json:"router_priority"`

	// Source type for tracking data origin
	SourceType string `json:"source_type"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`

	// Assigned middlewares materialized by the backend as
	// "id:name:priority" entries joined with commas.
	Middlewares string `json:"middlewares,omitempty"`
}

// AssignedMiddlewares parses the materialized middleware relation into
// structured entries. Malformed entries are skipped rather than failing the
// whole list; a missing priority defaults to 100 like the backend does.
func (r *Resource) AssignedMiddlewares() []ResourceMiddleware {
	if r.Middlewares == "" {
		return nil
	}

	var assigned []ResourceMiddleware
	for _, entry := range strings.Split(r.Middlewares, ",") {
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || parts[0] == "" {
			continue
		}

		priority := 100
		if len(parts) >= 3 {
			if p, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
				priority = p
			}
		}

		assigned = append(assigned, ResourceMiddleware{
			ResourceID:   r.ID,
			MiddlewareID: parts[0],
			Priority:     priority,
		})
	}
	return assigned
}

// ResourceService represents the relationship between a resource and a
// custom service overriding the resource's default backend.
type ResourceService struct {
	ResourceID string `json:"resource_id"`
	ServiceID  string `json:"service_id"`
}

// HTTPConfigUpdate is the payload for the http config section.
type HTTPConfigUpdate struct {
	Entrypoints string `json:"entrypoints"`
}

// TLSConfigUpdate is the payload for the tls config section.
type TLSConfigUpdate struct {
	TLSDomains string `json:"tls_domains"`
}

// TCPConfigUpdate is the payload for the tcp config section.
type TCPConfigUpdate struct {
	TCPEnabled     bool   `json:"tcp_enabled"`
	TCPEntrypoints string `json:"tcp_entrypoints"`
	TCPSNIRule     string `json:"tcp_sni_rule"`
}

// HeadersConfigUpdate is the payload for the headers config section.
type HeadersConfigUpdate struct {
	CustomHeaders map[string]string `json:"custom_headers"`
}

// RouterPriorityUpdate is the payload for the priority config section.
type RouterPriorityUpdate struct {
	RouterPriority int `json:"router_priority"`
}
