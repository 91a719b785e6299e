package store

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/musram/middleware-manager-sub002/client"
	"github.com/musram/middleware-manager-sub002/models"
)

// ResourceStore owns the resource collection and the selected resource.
// Resources are created by the proxy's data source, never by the console,
// so there is no Create or whole-entity Update: the console edits
// configuration sections and middleware/service wiring instead.
//
// Every mutation refetches the affected resource afterwards rather than
// patching locally, because the backend computes derived fields (the
// materialized middleware list among them).
type ResourceStore struct {
	stateTracker
	transport *client.Transport
	logger    *slog.Logger

	resources []models.Resource
	selected  *models.Resource
}

// NewResourceStore creates a resource store backed by the given transport.
func NewResourceStore(transport *client.Transport, logger *slog.Logger) *ResourceStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResourceStore{
		transport: transport,
		logger:    logger.With("store", "resources"),
	}
}

// FetchAll replaces the collection wholesale. On failure the prior
// collection is left untouched.
func (s *ResourceStore) FetchAll(ctx context.Context) error {
	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodGet, "/api/resources", nil)
	if err != nil {
		s.fail(err)
		return err
	}

	var resources []models.Resource
	if err := decode(payload, &resources); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.resources = resources
	s.busy = false
	s.mu.Unlock()
	return nil
}

// FetchOne populates the selected resource. The collection is not touched.
func (s *ResourceStore) FetchOne(ctx context.Context, id string) (*models.Resource, error) {
	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodGet, "/api/resources/"+id, nil)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	var resource models.Resource
	if err := decode(payload, &resource); err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.selected = &resource
	s.busy = false
	s.mu.Unlock()
	return &resource, nil
}

// Delete removes a resource (the backend only permits this for disabled
// resources). The local element is removed only after the backend
// confirms.
func (s *ResourceStore) Delete(ctx context.Context, id string) error {
	s.begin()

	if _, err := s.transport.Execute(ctx, http.MethodDelete, "/api/resources/"+id, nil); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	for i := range s.resources {
		if s.resources[i].ID == id {
			s.resources = append(s.resources[:i], s.resources[i+1:]...)
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.busy = false
	s.mu.Unlock()

	s.logger.Info("deleted resource", "id", id)
	return nil
}

// AssignMiddleware attaches one middleware to a resource with the given
// application priority.
func (s *ResourceStore) AssignMiddleware(ctx context.Context, resourceID, middlewareID string, priority int) error {
	body := map[string]interface{}{
		"middleware_id": middlewareID,
		"priority":      priority,
	}
	return s.mutate(ctx, resourceID, http.MethodPost, "/api/resources/"+resourceID+"/middlewares", body)
}

// AssignMultipleMiddlewares attaches a batch of middlewares in one call,
// typically the output of ApplySelectionDelta with priorities assigned by
// position.
func (s *ResourceStore) AssignMultipleMiddlewares(ctx context.Context, resourceID string, assignments []models.ResourceMiddleware) error {
	middlewares := make([]map[string]interface{}, 0, len(assignments))
	for _, a := range assignments {
		middlewares = append(middlewares, map[string]interface{}{
			"middleware_id": a.MiddlewareID,
			"priority":      a.Priority,
		})
	}
	body := map[string]interface{}{"middlewares": middlewares}
	return s.mutate(ctx, resourceID, http.MethodPost, "/api/resources/"+resourceID+"/middlewares/bulk", body)
}

// RemoveMiddleware detaches a middleware from a resource.
func (s *ResourceStore) RemoveMiddleware(ctx context.Context, resourceID, middlewareID string) error {
	return s.mutate(ctx, resourceID, http.MethodDelete, "/api/resources/"+resourceID+"/middlewares/"+middlewareID, nil)
}

// UpdateHTTPConfig updates the HTTP router section of a resource.
func (s *ResourceStore) UpdateHTTPConfig(ctx context.Context, resourceID string, cfg models.HTTPConfigUpdate) error {
	return s.mutate(ctx, resourceID, http.MethodPut, "/api/resources/"+resourceID+"/config/http", cfg)
}

// UpdateTLSConfig updates the TLS certificate section of a resource.
func (s *ResourceStore) UpdateTLSConfig(ctx context.Context, resourceID string, cfg models.TLSConfigUpdate) error {
	return s.mutate(ctx, resourceID, http.MethodPut, "/api/resources/"+resourceID+"/config/tls", cfg)
}

// UpdateTCPConfig updates the TCP SNI routing section of a resource.
func (s *ResourceStore) UpdateTCPConfig(ctx context.Context, resourceID string, cfg models.TCPConfigUpdate) error {
	return s.mutate(ctx, resourceID, http.MethodPut, "/api/resources/"+resourceID+"/config/tcp", cfg)
}

// UpdateHeadersConfig updates the custom headers section of a resource.
func (s *ResourceStore) UpdateHeadersConfig(ctx context.Context, resourceID string, cfg models.HeadersConfigUpdate) error {
	return s.mutate(ctx, resourceID, http.MethodPut, "/api/resources/"+resourceID+"/config/headers", cfg)
}

// UpdateRouterPriority updates the router priority of a resource.
func (s *ResourceStore) UpdateRouterPriority(ctx context.Context, resourceID string, priority int) error {
	cfg := models.RouterPriorityUpdate{RouterPriority: priority}
	return s.mutate(ctx, resourceID, http.MethodPut, "/api/resources/"+resourceID+"/config/priority", cfg)
}

// AssignService binds a custom service to a resource, replacing any
// existing binding.
func (s *ResourceStore) AssignService(ctx context.Context, resourceID, serviceID string) error {
	body := map[string]interface{}{"service_id": serviceID}
	return s.mutate(ctx, resourceID, http.MethodPost, "/api/resources/"+resourceID+"/service", body)
}

// RemoveService removes a resource's custom service binding, restoring the
// data source's default backend.
func (s *ResourceStore) RemoveService(ctx context.Context, resourceID string) error {
	return s.mutate(ctx, resourceID, http.MethodDelete, "/api/resources/"+resourceID+"/service", nil)
}

// FetchResourceService reads the current service binding of a resource.
// An absent binding is reported as (nil, nil), not an error.
func (s *ResourceStore) FetchResourceService(ctx context.Context, resourceID string) (*models.ResourceService, error) {
	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodGet, "/api/resources/"+resourceID+"/service", nil)
	if err != nil {
		if client.IsNotFound(err) {
			s.mu.Lock()
			s.busy = false
			s.mu.Unlock()
			return nil, nil
		}
		s.fail(err)
		return nil, err
	}

	var binding models.ResourceService
	if err := decode(payload, &binding); err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
	return &binding, nil
}

// Resources returns a snapshot of the collection.
func (s *ResourceStore) Resources() []models.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Resource, len(s.resources))
	copy(out, s.resources)
	return out
}

// Selected returns the currently selected resource, or nil.
func (s *ResourceStore) Selected() *models.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// ClearSelected drops the selection.
func (s *ResourceStore) ClearSelected() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// mutate issues a write against one resource and refetches it afterwards
// so derived fields computed by the backend land in the selection.
func (s *ResourceStore) mutate(ctx context.Context, resourceID, method, endpoint string, body interface{}) error {
	s.begin()

	if _, err := s.transport.Execute(ctx, method, endpoint, body); err != nil {
		s.fail(err)
		return err
	}

	if _, err := s.FetchOne(ctx, resourceID); err != nil {
		return err
	}
	return nil
}
