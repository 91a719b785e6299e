package store

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/musram/middleware-manager-sub002/client"
	"github.com/musram/middleware-manager-sub002/models"
)

// ServiceInput is the payload for creating or updating a service. Type is
// immutable after creation, like middleware types.
type ServiceInput struct {
	Name   string                 `json:"name"`
	Type   string                 `json:"type"`
	Config map[string]interface{} `json:"config"`
}

// ServiceStore owns the service collection and the selected service for
// detail/edit views.
type ServiceStore struct {
	stateTracker
	transport *client.Transport
	logger    *slog.Logger

	services []models.Service
	selected *models.Service
}

// NewServiceStore creates a service store backed by the given transport.
func NewServiceStore(transport *client.Transport, logger *slog.Logger) *ServiceStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceStore{
		transport: transport,
		logger:    logger.With("store", "services"),
	}
}

// FetchAll replaces the collection wholesale. On failure the prior
// collection is left untouched.
func (s *ServiceStore) FetchAll(ctx context.Context) error {
	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodGet, "/api/services", nil)
	if err != nil {
		s.fail(err)
		return err
	}

	var services []models.Service
	if err := decode(payload, &services); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.services = services
	s.busy = false
	s.mu.Unlock()
	return nil
}

// FetchOne populates the selected service. The collection is not touched.
func (s *ServiceStore) FetchOne(ctx context.Context, id string) (*models.Service, error) {
	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodGet, "/api/services/"+id, nil)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	var service models.Service
	if err := decode(payload, &service); err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.selected = &service
	s.busy = false
	s.mu.Unlock()
	return &service, nil
}

// Create submits a new service and appends the entity the backend returns
// to the collection. Returns nil on failure.
func (s *ServiceStore) Create(ctx context.Context, input ServiceInput) (*models.Service, error) {
	if !models.IsValidServiceType(input.Type) {
		err := &client.ValidationError{Message: "invalid service type: " + input.Type}
		s.fail(err)
		return nil, err
	}

	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodPost, "/api/services", input)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	var created models.Service
	if err := decode(payload, &created); err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.services = append(s.services, created)
	s.busy = false
	s.mu.Unlock()

	s.logger.Info("created service", "id", created.ID, "name", created.Name, "type", created.Type)
	return &created, nil
}

// Update submits changed fields for an existing service and replaces the
// matching collection element in place.
func (s *ServiceStore) Update(ctx context.Context, id string, input ServiceInput) (*models.Service, error) {
	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodPut, "/api/services/"+id, input)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	var updated models.Service
	if err := decode(payload, &updated); err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.services {
		if s.services[i].ID == updated.ID {
			s.services[i] = updated
			break
		}
	}
	if s.selected != nil && s.selected.ID == updated.ID {
		s.selected = &updated
	}
	s.busy = false
	s.mu.Unlock()
	return &updated, nil
}

// Delete removes a service after the backend confirms deletion. The
// backend refuses to delete a service still bound to resources; that
// failure surfaces as the store's last error with the confirmation left to
// the caller.
func (s *ServiceStore) Delete(ctx context.Context, id string) error {
	s.begin()

	if _, err := s.transport.Execute(ctx, http.MethodDelete, "/api/services/"+id, nil); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	for i := range s.services {
		if s.services[i].ID == id {
			s.services = append(s.services[:i], s.services[i+1:]...)
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.busy = false
	s.mu.Unlock()

	s.logger.Info("deleted service", "id", id)
	return nil
}

// Services returns a snapshot of the collection.
func (s *ServiceStore) Services() []models.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Service, len(s.services))
	copy(out, s.services)
	return out
}

// Selected returns the currently selected service, or nil.
func (s *ServiceStore) Selected() *models.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// ClearSelected drops the selection.
func (s *ServiceStore) ClearSelected() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// ResolveName looks up a service name reference from a weighted, mirroring
// or failover config. Unknown names resolve to an unresolved lookup.
func (s *ServiceStore) ResolveName(name string) models.ServiceLookup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.services {
		if s.services[i].Name == name {
			service := s.services[i]
			return models.ServiceLookup{Ref: name, Service: &service, Resolved: true}
		}
	}
	return models.ServiceLookup{Ref: name}
}
