package store

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/musram/middleware-manager-sub002/client"
	"github.com/musram/middleware-manager-sub002/models"
)

// MaskedPassword is the placeholder the console renders in place of a
// stored secret. A password field holding this value is stripped from
// outgoing payloads so a no-op edit never overwrites the real secret.
const MaskedPassword = "••••••••"

// DataSourceStore owns the configured backend data sources, the active
// source selector and per-source connection-probe state.
type DataSourceStore struct {
	stateTracker
	transport *client.Transport
	logger    *slog.Logger

	sources    map[string]models.DataSourceConfig
	activeName string
	status     map[string]models.ConnectionStatus
}

// NewDataSourceStore creates a data source store backed by the given
// transport.
func NewDataSourceStore(transport *client.Transport, logger *slog.Logger) *DataSourceStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataSourceStore{
		transport: transport,
		logger:    logger.With("store", "datasources"),
		sources:   make(map[string]models.DataSourceConfig),
		status:    make(map[string]models.ConnectionStatus),
	}
}

// sourcesResponse is the backend's configured-sources listing.
type sourcesResponse struct {
	ActiveSource string                             `json:"active_source"`
	Sources      map[string]models.DataSourceConfig `json:"sources"`
}

// activeResponse is the backend's active-source pointer.
type activeResponse struct {
	Name   string                  `json:"name"`
	Config models.DataSourceConfig `json:"config"`
}

// FetchSources replaces the configured-sources map and the active-source
// name from the backend listing.
func (s *DataSourceStore) FetchSources(ctx context.Context) error {
	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodGet, "/api/datasource", nil)
	if err != nil {
		s.fail(err)
		return err
	}

	var resp sourcesResponse
	if err := decode(payload, &resp); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.sources = resp.Sources
	s.activeName = resp.ActiveSource
	s.busy = false
	s.mu.Unlock()
	return nil
}

// FetchActive refreshes only the active-source pointer.
func (s *DataSourceStore) FetchActive(ctx context.Context) error {
	s.begin()

	payload, err := s.transport.Execute(ctx, http.MethodGet, "/api/datasource/active", nil)
	if err != nil {
		s.fail(err)
		return err
	}

	var resp activeResponse
	if err := decode(payload, &resp); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.activeName = resp.Name
	s.busy = false
	s.mu.Unlock()
	return nil
}

// SetActive persists the active-source switch, then refetches the
// configured-sources map and the active pointer independently. The backend
// does not guarantee the two are updated atomically, so the store issues
// both reads and accepts the last-observed truth of each.
func (s *DataSourceStore) SetActive(ctx context.Context, name string) error {
	s.begin()

	body := map[string]string{"name": name}
	if _, err := s.transport.Execute(ctx, http.MethodPut, "/api/datasource/active", body); err != nil {
		s.fail(err)
		return err
	}

	if err := s.FetchSources(ctx); err != nil {
		return err
	}
	if err := s.FetchActive(ctx); err != nil {
		return err
	}

	s.logger.Info("switched active data source", "name", name)
	return nil
}

// UpdateSource persists changed connection parameters for one source. A
// password equal to the masked placeholder is stripped from the outgoing
// payload, leaving the stored secret untouched.
func (s *DataSourceStore) UpdateSource(ctx context.Context, name string, cfg models.DataSourceConfig) error {
	if cfg.BasicAuth.Password == MaskedPassword {
		cfg.BasicAuth.Password = ""
	}

	s.begin()

	if _, err := s.transport.Execute(ctx, http.MethodPut, "/api/datasource/"+name, cfg); err != nil {
		s.fail(err)
		return err
	}

	return s.FetchSources(ctx)
}

// TestConnection probes one data source and records the outcome in that
// source's status slot. The probe never blocks other store operations and
// its failure is reported through the status, not as the store's last
// error.
func (s *DataSourceStore) TestConnection(ctx context.Context, name string, cfg models.DataSourceConfig) models.ConnectionStatus {
	if cfg.BasicAuth.Password == MaskedPassword {
		cfg.BasicAuth.Password = ""
	}

	s.setStatus(name, models.ConnectionStatus{State: models.ConnectionTesting})

	_, err := s.transport.Execute(ctx, http.MethodPost, "/api/datasource/"+name+"/test", cfg)
	if err != nil {
		status := models.ConnectionStatus{State: models.ConnectionError, Message: err.Error()}
		s.setStatus(name, status)
		return status
	}

	status := models.ConnectionStatus{State: models.ConnectionSuccess}
	s.setStatus(name, status)
	return status
}

// TestAllConnections probes every configured source concurrently. Each
// probe updates only its own status slot; there is no ordering guarantee
// between them.
func (s *DataSourceStore) TestAllConnections(ctx context.Context) {
	s.mu.RLock()
	sources := make(map[string]models.DataSourceConfig, len(s.sources))
	for name, cfg := range s.sources {
		sources[name] = cfg
	}
	s.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)
	for name, cfg := range sources {
		g.Go(func() error {
			s.TestConnection(ctx, name, cfg)
			return nil
		})
	}
	// Probes report through status slots and never return errors.
	_ = g.Wait()
}

// Sources returns a snapshot of the configured sources.
func (s *DataSourceStore) Sources() map[string]models.DataSourceConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.DataSourceConfig, len(s.sources))
	for name, cfg := range s.sources {
		out[name] = cfg
	}
	return out
}

// ActiveSourceName returns the name of the active data source, or "" when
// no active source has been resolved yet.
func (s *DataSourceStore) ActiveSourceName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeName
}

// Status returns the connection-probe status of one source. Sources never
// probed report the untested state.
func (s *DataSourceStore) Status(name string) models.ConnectionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if status, ok := s.status[name]; ok {
		return status
	}
	return models.ConnectionStatus{State: models.ConnectionUntested}
}

func (s *DataSourceStore) setStatus(name string, status models.ConnectionStatus) {
	s.mu.Lock()
	s.status[name] = status
	s.mu.Unlock()
}
