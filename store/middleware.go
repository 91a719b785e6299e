package store

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/musram/middleware-manager-sub002/client"
	"github.com/musram/middleware-manager-sub002/models"
	"github.com/musram/middleware-manager-sub002/util"
)

// MiddlewareInput is the payload for creating or updating a middleware.
// On update the backend treats Type as immutable; the store reflects
// whatever the backend returns rather than assuming the change took.
type MiddlewareInput struct {
	Name   string                 `json:"name"`
	Type   string                 `json:"type"`
	Config map[string]interface{} `json:"config"`
}

// MiddlewareStore owns the middleware collection and the selected
// middleware for detail/edit views.
type MiddlewareStore struct {
	stateTracker
	transport *client.Transport
	logger    *slog.Logger

	middlewares []models.Middleware
	selected    *models.Middleware
}

// NewMiddlewareStore creates a middleware store backed by the given
// transport.
func NewMiddlewareStore(transport *client.Transport, logger *slog.Logger) *MiddlewareStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MiddlewareStore{
		transport: transport,
		logger:    logger.With("store", "middlewares"),
	}
}

// FetchAll replaces the collection wholesale. On failure the prior
// collection is left untouched.
func (s *MiddlewareStore) FetchAll(ctx context.Context) error {
	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodGet, "/api/middlewares", nil)
	if err != nil {
		s.fail(err)
		return err
	}

	var middlewares []models.Middleware
	if err := decode(payload, &middlewares); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.middlewares = middlewares
	s.busy = false
	s.mu.Unlock()
	return nil
}

// FetchOne populates the selected middleware. The collection is not
// touched.
func (s *MiddlewareStore) FetchOne(ctx context.Context, id string) (*models.Middleware, error) {
	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodGet, "/api/middlewares/"+id, nil)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	var middleware models.Middleware
	if err := decode(payload, &middleware); err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.selected = &middleware
	s.busy = false
	s.mu.Unlock()
	return &middleware, nil
}

// Create submits a new middleware and appends the entity the backend
// returns (with its server-assigned ID) to the collection. Returns nil on
// failure; callers must check rather than assume success.
func (s *MiddlewareStore) Create(ctx context.Context, input MiddlewareInput) (*models.Middleware, error) {
	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodPost, "/api/middlewares", input)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	var created models.Middleware
	if err := decode(payload, &created); err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.middlewares = append(s.middlewares, created)
	s.busy = false
	s.mu.Unlock()

	s.logger.Info("created middleware", "id", created.ID, "name", created.Name, "type", created.Type)
	return &created, nil
}

// Update submits changed fields for an existing middleware and replaces the
// matching collection element in place, preserving its position. The
// selected middleware is updated when it is the same entity.
func (s *MiddlewareStore) Update(ctx context.Context, id string, input MiddlewareInput) (*models.Middleware, error) {
	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodPut, "/api/middlewares/"+id, input)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	var updated models.Middleware
	if err := decode(payload, &updated); err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.middlewares {
		if s.middlewares[i].ID == updated.ID {
			s.middlewares[i] = updated
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

// Delete removes a middleware. The local collection element is removed only
// after the backend confirms deletion; on failure both collection and
// selection are left untouched so a confirmation dialog can stay open.
func (s *MiddlewareStore) Delete(ctx context.Context, id string) error {
	s.begin()

	if _, err := s.transport.Execute(ctx, http.MethodDelete, "/api/middlewares/"+id, nil); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	for i := range s.middlewares {
		if s.middlewares[i].ID == id {
			s.middlewares = append(s.middlewares[:i], s.middlewares[i+1:]...)
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.busy = false
	s.mu.Unlock()

	s.logger.Info("deleted middleware", "id", id)
	return nil
}

// Middlewares returns a snapshot of the collection.
func (s *MiddlewareStore) Middlewares() []models.Middleware {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Middleware, len(s.middlewares))
	copy(out, s.middlewares)
	return out
}

// Selected returns the currently selected middleware, or nil.
func (s *MiddlewareStore) Selected() *models.Middleware {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// ClearSelected drops the selection, typically when the detail view is
// left.
func (s *MiddlewareStore) ClearSelected() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Resolve looks up a middleware ID reference from a chain or a resource
// assignment. References may carry an @provider suffix; unknown references
// resolve to an unresolved lookup rather than an error, since dangling
// cross-references are a valid, displayable state.
func (s *MiddlewareStore) Resolve(ref string) models.MiddlewareLookup {
	id := util.StripProviderSuffix(ref)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.middlewares {
		if s.middlewares[i].ID == id || s.middlewares[i].ID == ref {
			middleware := s.middlewares[i]
			return models.MiddlewareLookup{Ref: ref, Middleware: &middleware, Resolved: true}
		}
	}
	return models.MiddlewareLookup{Ref: ref}
}
