package models

import (
	"encoding/json"
	"time"
)

// Service represents a named backend target group.
type Service struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Type      string                 `json:"type"`
	Config    map[string]interface{} `json:"config"`
	CreatedAt time.Time              `json:"created_at,omitempty"`
	UpdatedAt time.Time              `json:"updated_at,omitempty"`
}

// ServiceType represents valid service types
type ServiceType string

const (
	LoadBalancerType ServiceType = "loadBalancer"
	WeightedType     ServiceType = "weighted"
	MirroringType    ServiceType = "mirroring"
	FailoverType     ServiceType = "failover"
)

// IsValidServiceType checks if a service type is valid
func IsValidServiceType(typ string) bool {
	validTypes := map[string]bool{
		string(LoadBalancerType): true,
		string(WeightedType):     true,
		string(MirroringType):    true,
		string(FailoverType):     true,
	}
	return validTypes[typ]
}

// ConfigJSON returns the service config as JSON text.
func (s *Service) ConfigJSON() (string, error) {
	data, err := json.Marshal(s.Config)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReferencedServiceNames returns the service names this service refers to.
// Weighted, mirroring and failover configs hold references by service name
// (not ID); the client does not validate that they resolve.
func (s *Service) ReferencedServiceNames() []string {
	if s.Config == nil {
		return nil
	}

	var refs []string
	switch ServiceType(s.Type) {
	case WeightedType:
		if services, ok := s.Config["services"].([]interface{}); ok {
			for _, entry := range services {
				if m, ok := entry.(map[string]interface{}); ok {
					if name, ok := m["name"].(string); ok {
						refs = append(refs, name)
					}
				}
			}
		}
	case MirroringType:
		if name, ok := s.Config["service"].(string); ok && name != "" {
			refs = append(refs, name)
		}
		if mirrors, ok := s.Config["mirrors"].([]interface{}); ok {
			for _, entry := range mirrors {
				if m, ok := entry.(map[string]interface{}); ok {
					if name, ok := m["name"].(string); ok {
						refs = append(refs, name)
					}
				}
			}
		}
	case FailoverType:
		if name, ok := s.Config["service"].(string); ok && name != "" {
			refs = append(refs, name)
		}
		if name, ok := s.Config["fallback"].(string); ok && name != "" {
			refs = append(refs, name)
		}
	}
	return refs
}

// ServiceLookup is the result of resolving a service name reference.
type ServiceLookup struct {
	Ref      string
	Service  *Service
	Resolved bool
}

// DisplayName returns the service name when the reference resolved, or the
// raw reference marked unknown otherwise.
func (l ServiceLookup) DisplayName() string {
	if l.Resolved {
		return l.Service.Name
	}
	return l.Ref + " (unknown)"
}

// LoadBalancerConfig represents the configuration for a LoadBalancer service
type LoadBalancerConfig struct {
	Servers []ServerConfig `json:"servers"`

	PassHostHeader bool `json:"passHostHeader,omitempty"`

	HealthCheck *HealthCheckConfig `json:"healthCheck,omitempty"`

	Sticky *StickyConfig `json:"sticky,omitempty"`

	ResponseForwarding *ResponseForwardingConfig `json:"responseForwarding,omitempty"`

	ServersTransport string `json:"serversTransport,omitempty"`
}

// ServerConfig represents a server in a LoadBalancer
type ServerConfig struct {
	URL     string `json:"url,omitempty"`
	Weight  *int   `json:"weight,omitempty"`
	TLS     *bool  `json:"tls,omitempty"`
	Address string `json:"address,omitempty"` // For TCP/UDP services
}

// HealthCheckConfig represents health check configuration
type HealthCheckConfig struct {
	Path     string            `json:"path,omitempty"`
	Port     *int              `json:"port,omitempty"`
	Interval string            `json:"interval,omitempty"`
	Timeout  string            `json:"timeout,omitempty"`
	Scheme   string            `json:"scheme,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
}

// StickyConfig represents sticky session configuration
type StickyConfig struct {
	Cookie *CookieConfig `json:"cookie,omitempty"`
}

// CookieConfig represents cookie configuration for sticky sessions
type CookieConfig struct {
	Name     string `json:"name,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
	HTTPOnly bool   `json:"httpOnly,omitempty"`
}

// ResponseForwardingConfig represents response forwarding configuration
type ResponseForwardingConfig struct {
	FlushInterval string `json:"flushInterval,omitempty"`
}

// WeightedConfig represents the configuration for a Weighted service
type WeightedConfig struct {
	Services []WeightedServiceConfig `json:"services"`

	Sticky      *StickyConfig      `json:"sticky,omitempty"`
	HealthCheck *HealthCheckConfig `json:"healthCheck,omitempty"`
}

// WeightedServiceConfig represents a service in a weighted group
type WeightedServiceConfig struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// MirroringConfig represents the configuration for a Mirroring service
type MirroringConfig struct {
	Service string                `json:"service"`
	Mirrors []MirrorServiceConfig `json:"mirrors"`

	MirrorBody  *bool              `json:"mirrorBody,omitempty"`
	MaxBodySize *int               `json:"maxBodySize,omitempty"`
	HealthCheck *HealthCheckConfig `json:"healthCheck,omitempty"`
}

// MirrorServiceConfig represents a service in a mirroring setup
type MirrorServiceConfig struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
}

// FailoverConfig represents the configuration for a Failover service
type FailoverConfig struct {
	Service  string `json:"service"`
	Fallback string `json:"fallback"`

	HealthCheck *HealthCheckConfig `json:"healthCheck,omitempty"`
}
