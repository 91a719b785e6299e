package backendtest

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SeedMiddleware inserts a middleware row directly, bypassing type
// validation, and returns its ID.
func (b *Backend) SeedMiddleware(name, typ string, config map[string]interface{}) (string, error) {
	encoded, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	id := uuid.NewString()
	if _, err := b.db.Exec(
		"INSERT INTO middlewares (id, name, type, config) VALUES (?, ?, ?, ?)",
		id, name, typ, string(encoded),
	); err != nil {
		return "", fmt.Errorf("failed to insert middleware: %w", err)
	}
	return id, nil
}

// SeedService inserts a service row directly and returns its ID.
func (b *Backend) SeedService(name, typ string, config map[string]interface{}) (string, error) {
	encoded, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	id := uuid.NewString()
	if _, err := b.db.Exec(
		"INSERT INTO services (id, name, type, config) VALUES (?, ?, ?, ?)",
		id, name, typ, string(encoded),
	); err != nil {
		return "", fmt.Errorf("failed to insert service: %w", err)
	}
	return id, nil
}

// SeedResource inserts a resource row as the data source would have
// discovered it and returns its ID.
func (b *Backend) SeedResource(host, status string) (string, error) {
	id := uuid.NewString()
	if _, err := b.db.Exec(
		"INSERT INTO resources (id, host, service_id, status) VALUES (?, ?, ?, ?)",
		id, host, id+"-service", status,
	); err != nil {
		return "", fmt.Errorf("failed to insert resource: %w", err)
	}
	return id, nil
}

// AssignSeedMiddleware attaches a seeded middleware to a seeded resource.
func (b *Backend) AssignSeedMiddleware(resourceID, middlewareID string, priority int) error {
	if _, err := b.db.Exec(
		"INSERT OR REPLACE INTO resource_middlewares (resource_id, middleware_id, priority) VALUES (?, ?, ?)",
		resourceID, middlewareID, priority,
	); err != nil {
		return fmt.Errorf("failed to assign middleware: %w", err)
	}
	return nil
}

// SeedDataSource inserts an additional data source.
func (b *Backend) SeedDataSource(name, typ, rawURL, username, password string) error {
	if _, err := b.db.Exec(
		"INSERT INTO data_sources (name, type, url, username, password, active) VALUES (?, ?, ?, ?, ?, 0)",
		name, typ, rawURL, username, password,
	); err != nil {
		return fmt.Errorf("failed to insert data source: %w", err)
	}
	return nil
}
