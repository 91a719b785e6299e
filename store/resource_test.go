package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musram/middleware-manager-sub002/client"
	"github.com/musram/middleware-manager-sub002/models"
)

func TestResourceStoreFetch(t *testing.T) {
	backend, transport := newTestBackend(t)
	s := NewResourceStore(transport, nil)
	ctx := context.Background()

	id, err := backend.SeedResource("app.example.com", "active")
	require.NoError(t, err)

	require.NoError(t, s.FetchAll(ctx))
	require.Len(t, s.Resources(), 1)
	assert.Equal(t, "app.example.com", s.Resources()[0].Host)

	r, err := s.FetchOne(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, 100, r.RouterPriority)
}

func TestResourceStoreMiddlewareAssignment(t *testing.T) {
	backend, transport := newTestBackend(t)
	s := NewResourceStore(transport, nil)
	ctx := context.Background()

	resourceID, err := backend.SeedResource("app.example.com", "active")
	require.NoError(t, err)
	authID, err := backend.SeedMiddleware("auth", "basicAuth", map[string]interface{}{})
	require.NoError(t, err)
	gzipID, err := backend.SeedMiddleware("gzip", "compress", map[string]interface{}{})
	require.NoError(t, err)

	t.Run("assignment refetches the materialized relation", func(t *testing.T) {
		require.NoError(t, s.AssignMiddleware(ctx, resourceID, authID, 50))

		selected := s.Selected()
		require.NotNil(t, selected)

		assigned := selected.AssignedMiddlewares()
		require.Len(t, assigned, 1)
		assert.Equal(t, authID, assigned[0].MiddlewareID)
		assert.Equal(t, 50, assigned[0].Priority)
	})

	t.Run("bulk assignment applies positional priorities", func(t *testing.T) {
		require.NoError(t, s.AssignMultipleMiddlewares(ctx, resourceID, []models.ResourceMiddleware{
			{ResourceID: resourceID, MiddlewareID: authID, Priority: 10},
			{ResourceID: resourceID, MiddlewareID: gzipID, Priority: 20},
		}))

		assigned := s.Selected().AssignedMiddlewares()
		require.Len(t, assigned, 2)

		priorities := map[string]int{}
		for _, a := range assigned {
			priorities[a.MiddlewareID] = a.Priority
		}
		assert.Equal(t, 10, priorities[authID])
		assert.Equal(t, 20, priorities[gzipID])
	})

	t.Run("removal drops the relation", func(t *testing.T) {
		require.NoError(t, s.RemoveMiddleware(ctx, resourceID, gzipID))

		assigned := s.Selected().AssignedMiddlewares()
		require.Len(t, assigned, 1)
		assert.Equal(t, authID, assigned[0].MiddlewareID)
	})

	t.Run("assignment to a missing resource records the failure", func(t *testing.T) {
		err := s.AssignMiddleware(ctx, "no-such-resource", authID, 100)
		require.Error(t, err)
		assert.True(t, client.IsNotFound(err))
		assert.Error(t, s.LastError())
	})
}

func TestResourceStoreConfigSections(t *testing.T) {
	backend, transport := newTestBackend(t)
	s := NewResourceStore(transport, nil)
	ctx := context.Background()

	id, err := backend.SeedResource("app.example.com", "active")
	require.NoError(t, err)

	t.Run("http entrypoints", func(t *testing.T) {
		require.NoError(t, s.UpdateHTTPConfig(ctx, id, models.HTTPConfigUpdate{Entrypoints: "web,websecure"}))
		assert.Equal(t, "web,websecure", s.Selected().Entrypoints)
	})

	t.Run("tls domains", func(t *testing.T) {
		require.NoError(t, s.UpdateTLSConfig(ctx, id, models.TLSConfigUpdate{TLSDomains: "app.example.com,*.example.com"}))
		assert.Equal(t, "app.example.com,*.example.com", s.Selected().TLSDomains)
	})

	t.Run("tcp routing", func(t *testing.T) {
		require.NoError(t, s.UpdateTCPConfig(ctx, id, models.TCPConfigUpdate{
			TCPEnabled:     true,
			TCPEntrypoints: "tcp",
			TCPSNIRule:     "HostSNI(`app.example.com`)",
		}))
		selected := s.Selected()
		assert.True(t, selected.TCPEnabled)
		assert.Equal(t, "HostSNI(`app.example.com`)", selected.TCPSNIRule)
	})

	t.Run("custom headers", func(t *testing.T) {
		require.NoError(t, s.UpdateHeadersConfig(ctx, id, models.HeadersConfigUpdate{
			CustomHeaders: map[string]string{"X-Forwarded-Proto": "https"},
		}))
		assert.Contains(t, s.Selected().CustomHeaders, "X-Forwarded-Proto")
	})

	t.Run("router priority", func(t *testing.T) {
		require.NoError(t, s.UpdateRouterPriority(ctx, id, 250))
		assert.Equal(t, 250, s.Selected().RouterPriority)
	})

	t.Run("other sections are untouched by a section update", func(t *testing.T) {
		selected := s.Selected()
		assert.Equal(t, "web,websecure", selected.Entrypoints)
		assert.True(t, selected.TCPEnabled)
	})
}

func TestResourceStoreServiceBinding(t *testing.T) {
	backend, transport := newTestBackend(t)
	s := NewResourceStore(transport, nil)
	ctx := context.Background()

	resourceID, err := backend.SeedResource("app.example.com", "active")
	require.NoError(t, err)
	serviceID, err := backend.SeedService("pool", "loadBalancer", map[string]interface{}{})
	require.NoError(t, err)

	t.Run("absent binding reads as nil without an error", func(t *testing.T) {
		binding, err := s.FetchResourceService(ctx, resourceID)
		require.NoError(t, err)
		assert.Nil(t, binding)
		assert.NoError(t, s.LastError())
	})

	t.Run("bind and read back", func(t *testing.T) {
		require.NoError(t, s.AssignService(ctx, resourceID, serviceID))

		binding, err := s.FetchResourceService(ctx, resourceID)
		require.NoError(t, err)
		require.NotNil(t, binding)
		assert.Equal(t, serviceID, binding.ServiceID)
	})

	t.Run("unbind restores the default backend", func(t *testing.T) {
		require.NoError(t, s.RemoveService(ctx, resourceID))

		binding, err := s.FetchResourceService(ctx, resourceID)
		require.NoError(t, err)
		assert.Nil(t, binding)
	})
}

func TestResourceStoreDelete(t *testing.T) {
	t.Run("disabled resource deletes", func(t *testing.T) {
		backend, transport := newTestBackend(t)
		s := NewResourceStore(transport, nil)
		ctx := context.Background()

		id, err := backend.SeedResource("old.example.com", "disabled")
		require.NoError(t, err)
		require.NoError(t, s.FetchAll(ctx))

		require.NoError(t, s.Delete(ctx, id))
		assert.Empty(t, s.Resources())
	})

	t.Run("active resource survives a rejected delete", func(t *testing.T) {
		backend, transport := newTestBackend(t)
		s := NewResourceStore(transport, nil)
		ctx := context.Background()

		id, err := backend.SeedResource("app.example.com", "active")
		require.NoError(t, err)
		require.NoError(t, s.FetchAll(ctx))

		err = s.Delete(ctx, id)
		require.Error(t, err)
		assert.Len(t, s.Resources(), 1)
	})
}
