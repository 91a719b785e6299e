package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainMembers(t *testing.T) {
	t.Run("preserves order from the config", func(t *testing.T) {
		m := Middleware{
			Type: "chain",
			Config: map[string]interface{}{
				"middlewares": []interface{}{"auth", "ratelimit", "compress"},
			},
		}

		assert.Equal(t, []string{"auth", "ratelimit", "compress"}, m.ChainMembers())
	})

	t.Run("accepts a typed string slice", func(t *testing.T) {
		m := Middleware{
			Type: "chain",
			Config: map[string]interface{}{
				"middlewares": []string{"a", "b"},
			},
		}

		assert.Equal(t, []string{"a", "b"}, m.ChainMembers())
	})

	t.Run("non-chain middleware has no members", func(t *testing.T) {
		m := Middleware{
			Type: "compress",
			Config: map[string]interface{}{
				"middlewares": []interface{}{"a"},
			},
		}

		assert.Nil(t, m.ChainMembers())
	})

	t.Run("chain without a middlewares list has no members", func(t *testing.T) {
		m := Middleware{Type: "chain", Config: map[string]interface{}{}}
		assert.Nil(t, m.ChainMembers())
	})

	t.Run("skips non-string entries", func(t *testing.T) {
		m := Middleware{
			Type: "chain",
			Config: map[string]interface{}{
				"middlewares": []interface{}{"a", 42, "b"},
			},
		}

		assert.Equal(t, []string{"a", "b"}, m.ChainMembers())
	})
}

func TestAssignedMiddlewares(t *testing.T) {
	t.Run("parses id:name:priority entries", func(t *testing.T) {
		r := Resource{
			ID:          "res1",
			Middlewares: "mw1:auth:50,mw2:gzip:100",
		}

		assigned := r.AssignedMiddlewares()
		assert.Equal(t, []ResourceMiddleware{
			{ResourceID: "res1", MiddlewareID: "mw1", Priority: 50},
			{ResourceID: "res1", MiddlewareID: "mw2", Priority: 100},
		}, assigned)
	})

	t.Run("missing priority defaults to 100", func(t *testing.T) {
		r := Resource{ID: "res1", Middlewares: "mw1:auth"}

		assigned := r.AssignedMiddlewares()
		assert.Len(t, assigned, 1)
		assert.Equal(t, 100, assigned[0].Priority)
	})

	t.Run("malformed entries are skipped", func(t *testing.T) {
		r := Resource{ID: "res1", Middlewares: "mw1:auth:50,,garbage,mw2:gzip:75"}

		assigned := r.AssignedMiddlewares()
		assert.Len(t, assigned, 2)
		assert.Equal(t, "mw1", assigned[0].MiddlewareID)
		assert.Equal(t, "mw2", assigned[1].MiddlewareID)
	})

	t.Run("empty relation yields nothing", func(t *testing.T) {
		r := Resource{ID: "res1"}
		assert.Empty(t, r.AssignedMiddlewares())
	})
}

func TestMiddlewareLookupDisplayName(t *testing.T) {
	t.Run("resolved lookup shows the entity name", func(t *testing.T) {
		lookup := MiddlewareLookup{
			Ref:        "mw1@file",
			Middleware: &Middleware{Name: "auth"},
			Resolved:   true,
		}
		assert.Equal(t, "auth", lookup.DisplayName())
	})

	t.Run("unresolved lookup marks the raw reference", func(t *testing.T) {
		lookup := MiddlewareLookup{Ref: "ghost@file"}
		assert.Equal(t, "ghost@file (unknown)", lookup.DisplayName())
	})
}
