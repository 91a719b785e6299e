package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateRegistry(t *testing.T) {
	registry, err := NewTemplateRegistry()
	require.NoError(t, err)

	t.Run("covers the supported middleware variants", func(t *testing.T) {
		variants := registry.Variants(MiddlewareKind)
		assert.Len(t, variants, 25)

		for _, variant := range []string{
			"addPrefix", "basicAuth", "chain", "circuitBreaker", "forwardAuth",
			"headers", "ipAllowList", "plugin", "rateLimit", "retry", "stripPrefix",
		} {
			assert.Contains(t, variants, variant)
		}
	})

	t.Run("covers the service variants including protocol templates", func(t *testing.T) {
		variants := registry.Variants(ServiceKind)
		assert.Len(t, variants, 6)
		assert.Contains(t, variants, "loadBalancer")
		assert.Contains(t, variants, "weighted")
		assert.Contains(t, variants, "mirroring")
		assert.Contains(t, variants, "failover")
		assert.Contains(t, variants, "tcpLoadBalancer")
		assert.Contains(t, variants, "udpLoadBalancer")
	})

	t.Run("variants are sorted", func(t *testing.T) {
		variants := registry.Variants(MiddlewareKind)
		assert.IsIncreasing(t, variants)
	})
}

func TestTemplateFor(t *testing.T) {
	registry, err := NewTemplateRegistry()
	require.NoError(t, err)

	t.Run("known variant yields valid JSON", func(t *testing.T) {
		text := registry.TemplateFor(MiddlewareKind, "basicAuth")

		var config map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(text), &config))
		assert.Contains(t, config, "users")
	})

	t.Run("identical text on every call", func(t *testing.T) {
		for _, variant := range registry.Variants(MiddlewareKind) {
			first := registry.TemplateFor(MiddlewareKind, variant)
			second := registry.TemplateFor(MiddlewareKind, variant)
			assert.Equal(t, first, second, "variant %s", variant)
		}
	})

	t.Run("unknown variant yields the empty template", func(t *testing.T) {
		assert.Equal(t, EmptyTemplate, registry.TemplateFor(MiddlewareKind, "doesNotExist"))
		assert.Equal(t, EmptyTemplate, registry.TemplateFor(ServiceKind, "doesNotExist"))
	})

	t.Run("every template parses as a JSON object", func(t *testing.T) {
		for _, kind := range []EntityKind{MiddlewareKind, ServiceKind} {
			for _, variant := range registry.Variants(kind) {
				var config map[string]interface{}
				err := json.Unmarshal([]byte(registry.TemplateFor(kind, variant)), &config)
				assert.NoError(t, err, "variant %s/%s", kind, variant)
			}
		}
	})
}

func TestDescribeVariant(t *testing.T) {
	registry, err := NewTemplateRegistry()
	require.NoError(t, err)

	t.Run("known variant carries a description", func(t *testing.T) {
		info, ok := registry.DescribeVariant(MiddlewareKind, "rateLimit")
		require.True(t, ok)
		assert.NotEmpty(t, info.Description)
	})

	t.Run("unknown variant reports false", func(t *testing.T) {
		_, ok := registry.DescribeVariant(ServiceKind, "doesNotExist")
		assert.False(t, ok)
	})
}
