package backendtest

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS middlewares (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    config TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS services (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    config TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS resources (
    id TEXT PRIMARY KEY,
    host TEXT NOT NULL,
    service_id TEXT NOT NULL DEFAULT '',
    org_id TEXT DEFAULT '',
    site_id TEXT DEFAULT '',
    status TEXT NOT NULL DEFAULT 'active',
    entrypoints TEXT DEFAULT 'websecure',
    tls_domains TEXT DEFAULT '',
    tcp_enabled INTEGER DEFAULT 0,
    tcp_entrypoints TEXT DEFAULT 'tcp',
    tcp_sni_rule TEXT DEFAULT '',
    custom_headers TEXT DEFAULT '',
    router_priority INTEGER DEFAULT 100,
    source_type TEXT DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS resource_middlewares (
    resource_id TEXT NOT NULL,
    middleware_id TEXT NOT NULL,
    priority INTEGER NOT NULL DEFAULT 100,
    PRIMARY KEY (resource_id, middleware_id)
);

CREATE TABLE IF NOT EXISTS resource_services (
    resource_id TEXT PRIMARY KEY,
    service_id TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS data_sources (
    name TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    url TEXT NOT NULL,
    username TEXT DEFAULT '',
    password TEXT DEFAULT '',
    active INTEGER NOT NULL DEFAULT 0
);
`

// seedDataSources installs the two default sources the real backend ships
// with.
func seedDataSources(db *sql.DB) error {
	_, err := db.Exec(`
		INSERT INTO data_sources (name, type, url, username, password, active) VALUES
			('pangolin', 'pangolin', 'http://pangolin:3001/api/v1', '', '', 1),
			('traefik', 'traefik', 'http://traefik:8080', '', '', 0)
	`)
	if err != nil {
		return fmt.Errorf("failed to insert default sources: %w", err)
	}
	return nil
}
