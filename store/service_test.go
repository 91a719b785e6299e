package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musram/middleware-manager-sub002/client"
)

func TestServiceStoreCreate(t *testing.T) {
	t.Run("valid type round-trips through the backend", func(t *testing.T) {
		_, transport := newTestBackend(t)
		s := NewServiceStore(transport, nil)
		ctx := context.Background()

		created, err := s.Create(ctx, ServiceInput{
			Name: "api-pool",
			Type: "loadBalancer",
			Config: map[string]interface{}{
				"servers": []interface{}{map[string]interface{}{"url": "http://10.0.0.1:8080"}},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEmpty(t, created.ID)

		services := s.Services()
		require.Len(t, services, 1)
		assert.Equal(t, "api-pool", services[0].Name)
	})

	t.Run("invalid type is rejected before the request is sent", func(t *testing.T) {
		_, transport := newTestBackend(t)
		s := NewServiceStore(transport, nil)

		created, err := s.Create(context.Background(), ServiceInput{
			Name:   "bogus",
			Type:   "tcpLoadBalancer",
			Config: map[string]interface{}{},
		})
		require.Error(t, err)
		assert.Nil(t, created)

		var validationErr *client.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Empty(t, s.Services())
	})
}

func TestServiceStoreUpdateKeepsType(t *testing.T) {
	backend, transport := newTestBackend(t)
	s := NewServiceStore(transport, nil)
	ctx := context.Background()

	id, err := backend.SeedService("pool", "loadBalancer", map[string]interface{}{
		"servers": []interface{}{},
	})
	require.NoError(t, err)
	require.NoError(t, s.FetchAll(ctx))

	updated, err := s.Update(ctx, id, ServiceInput{
		Name:   "pool-renamed",
		Type:   "weighted",
		Config: map[string]interface{}{"servers": []interface{}{}},
	})
	require.NoError(t, err)
	assert.Equal(t, "loadBalancer", updated.Type)
	assert.Equal(t, "pool-renamed", updated.Name)
}

func TestServiceStoreDelete(t *testing.T) {
	t.Run("bound service survives a rejected delete", func(t *testing.T) {
		backend, transport := newTestBackend(t)
		s := NewServiceStore(transport, nil)
		ctx := context.Background()

		serviceID, err := backend.SeedService("bound", "loadBalancer", map[string]interface{}{})
		require.NoError(t, err)
		resourceID, err := backend.SeedResource("app.example.com", "active")
		require.NoError(t, err)

		resources := NewResourceStore(transport, nil)
		require.NoError(t, resources.AssignService(ctx, resourceID, serviceID))

		require.NoError(t, s.FetchAll(ctx))
		err = s.Delete(ctx, serviceID)
		require.Error(t, err)

		assert.Len(t, s.Services(), 1)
		httpErr := client.AsHTTPError(err)
		require.NotNil(t, httpErr)
		assert.Equal(t, 409, httpErr.StatusCode)
	})

	t.Run("unbound service deletes cleanly", func(t *testing.T) {
		backend, transport := newTestBackend(t)
		s := NewServiceStore(transport, nil)
		ctx := context.Background()

		id, err := backend.SeedService("loose", "failover", map[string]interface{}{})
		require.NoError(t, err)
		require.NoError(t, s.FetchAll(ctx))

		require.NoError(t, s.Delete(ctx, id))
		assert.Empty(t, s.Services())
	})
}

func TestServiceStoreResolveName(t *testing.T) {
	backend, transport := newTestBackend(t)
	s := NewServiceStore(transport, nil)
	ctx := context.Background()

	id, err := backend.SeedService("primary", "loadBalancer", map[string]interface{}{})
	require.NoError(t, err)
	require.NoError(t, s.FetchAll(ctx))

	t.Run("known name resolves", func(t *testing.T) {
		lookup := s.ResolveName("primary")
		require.True(t, lookup.Resolved)
		assert.Equal(t, "primary", lookup.DisplayName())
	})

	t.Run("dangling name reference stays displayable", func(t *testing.T) {
		lookup := s.ResolveName("retired-backend")
		assert.False(t, lookup.Resolved)
		assert.Equal(t, "retired-backend (unknown)", lookup.DisplayName())
	})

	t.Run("lookup stays stable across later store writes", func(t *testing.T) {
		lookup := s.ResolveName("primary")
		require.True(t, lookup.Resolved)

		_, err := s.Update(ctx, id, ServiceInput{
			Name:   "primary-renamed",
			Type:   "loadBalancer",
			Config: map[string]interface{}{},
		})
		require.NoError(t, err)

		assert.Equal(t, "primary", lookup.Service.Name)
		assert.Equal(t, "primary-renamed", s.ResolveName("primary-renamed").Service.Name)
	})
}
