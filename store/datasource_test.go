package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musram/middleware-manager-sub002/client"
	"github.com/musram/middleware-manager-sub002/models"
)

func TestDataSourceStoreFetchSources(t *testing.T) {
	_, transport := newTestBackend(t)
	s := NewDataSourceStore(transport, nil)
	ctx := context.Background()

	require.NoError(t, s.FetchSources(ctx))

	sources := s.Sources()
	require.Len(t, sources, 2)
	assert.Contains(t, sources, "pangolin")
	assert.Contains(t, sources, "traefik")
	assert.Equal(t, "pangolin", s.ActiveSourceName())
	assert.Equal(t, models.PangolinAPI, sources["pangolin"].Type)
}

func TestDataSourceStoreSetActive(t *testing.T) {
	_, transport := newTestBackend(t)
	s := NewDataSourceStore(transport, nil)
	ctx := context.Background()

	t.Run("switch persists and refetches", func(t *testing.T) {
		require.NoError(t, s.SetActive(ctx, "traefik"))
		assert.Equal(t, "traefik", s.ActiveSourceName())
	})

	t.Run("unknown source records the failure", func(t *testing.T) {
		err := s.SetActive(ctx, "nonexistent")
		require.Error(t, err)
		assert.Error(t, s.LastError())
		// Active pointer is whatever the backend last confirmed.
		assert.Equal(t, "traefik", s.ActiveSourceName())
	})
}

func TestDataSourceStoreUpdateSource(t *testing.T) {
	_, transport := newTestBackend(t)
	s := NewDataSourceStore(transport, nil)
	ctx := context.Background()
	require.NoError(t, s.FetchSources(ctx))

	t.Run("changed settings persist", func(t *testing.T) {
		cfg := s.Sources()["traefik"]
		cfg.URL = "http://traefik.internal:8080"
		cfg.BasicAuth.Username = "ops"
		cfg.BasicAuth.Password = "hunter2"

		require.NoError(t, s.UpdateSource(ctx, "traefik", cfg))

		updated := s.Sources()["traefik"]
		assert.Equal(t, "http://traefik.internal:8080", updated.URL)
		assert.Equal(t, "ops", updated.BasicAuth.Username)
		// The backend never echoes the real secret back.
		assert.Equal(t, MaskedPassword, updated.BasicAuth.Password)
	})

	t.Run("masked password placeholder keeps the stored secret", func(t *testing.T) {
		cfg := s.Sources()["traefik"]
		require.Equal(t, MaskedPassword, cfg.BasicAuth.Password)
		cfg.URL = "http://traefik.internal:9090"

		require.NoError(t, s.UpdateSource(ctx, "traefik", cfg))

		updated := s.Sources()["traefik"]
		assert.Equal(t, "http://traefik.internal:9090", updated.URL)
		assert.Equal(t, MaskedPassword, updated.BasicAuth.Password)
	})
}

func TestDataSourceStoreTestConnection(t *testing.T) {
	backend, transport := newTestBackend(t)
	s := NewDataSourceStore(transport, nil)
	ctx := context.Background()

	require.NoError(t, backend.SeedDataSource("broken", "traefik", "", "", ""))
	require.NoError(t, s.FetchSources(ctx))

	t.Run("initial state is untested", func(t *testing.T) {
		assert.Equal(t, models.ConnectionUntested, s.Status("pangolin").State)
	})

	t.Run("reachable source probes successfully", func(t *testing.T) {
		status := s.TestConnection(ctx, "pangolin", s.Sources()["pangolin"])
		assert.Equal(t, models.ConnectionSuccess, status.State)
		assert.Equal(t, models.ConnectionSuccess, s.Status("pangolin").State)
	})

	t.Run("failed probe lands in the error state with a message", func(t *testing.T) {
		status := s.TestConnection(ctx, "broken", s.Sources()["broken"])
		assert.Equal(t, models.ConnectionError, status.State)
		assert.NotEmpty(t, status.Message)
	})

	t.Run("probe failures do not touch the store error", func(t *testing.T) {
		assert.NoError(t, s.LastError())
	})

	t.Run("all sources probe concurrently into separate slots", func(t *testing.T) {
		s.TestAllConnections(ctx)

		assert.Equal(t, models.ConnectionSuccess, s.Status("pangolin").State)
		assert.Equal(t, models.ConnectionSuccess, s.Status("traefik").State)
		assert.Equal(t, models.ConnectionError, s.Status("broken").State)
	})
}

func TestDataSourceStoreUpdateSourceStripsMaskFromWire(t *testing.T) {
	var body []byte
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			body, _ = io.ReadAll(r.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"active_source":"traefik","sources":{}}`)
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	transport, err := client.New(client.Config{BaseURL: server.URL})
	require.NoError(t, err)
	s := NewDataSourceStore(transport, nil)

	require.NoError(t, s.UpdateSource(context.Background(), "traefik", models.DataSourceConfig{
		Type: models.TraefikAPI,
		URL:  "http://traefik:8080",
		BasicAuth: models.BasicAuthConfig{
			Username: "ops",
			Password: MaskedPassword,
		},
	}))

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &sent))
	auth, ok := sent["basic_auth"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ops", auth["username"])
	assert.NotContains(t, auth, "password")
	assert.NotContains(t, string(body), MaskedPassword)
}
