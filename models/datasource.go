package models

// DataSourceType represents the type of data source
type DataSourceType string

const (
	PangolinAPI DataSourceType = "pangolin"
	TraefikAPI  DataSourceType = "traefik"
)

// BasicAuthConfig holds credentials for a data source.
type BasicAuthConfig struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// DataSourceConfig represents configuration for a data source
type DataSourceConfig struct {
	Type      DataSourceType  `json:"type"`
	URL       string          `json:"url"`
	BasicAuth BasicAuthConfig `json:"basic_auth,omitempty"`
}

// SystemConfig represents the overall data source configuration: the set of
// configured sources and which one is active. Exactly one source is active
// at a time.
type SystemConfig struct {
	ActiveDataSource string                      `json:"active_data_source"`
	DataSources      map[string]DataSourceConfig `json:"data_sources"`
}

// ConnectionState is the probe state of a single data source.
type ConnectionState string

const (
	ConnectionUntested ConnectionState = "untested"
	ConnectionTesting  ConnectionState = "testing"
	ConnectionSuccess  ConnectionState = "success"
	ConnectionError    ConnectionState = "error"
)

// ConnectionStatus holds the outcome of the most recent connection probe
// for one data source. Message is set only in the error state.
type ConnectionStatus struct {
	State   ConnectionState `json:"state"`
	Message string          `json:"message,omitempty"`
}
