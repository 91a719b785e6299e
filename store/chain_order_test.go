package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplySelectionDelta(t *testing.T) {
	t.Run("keeps relative order of surviving entries", func(t *testing.T) {
		current := []string{"auth", "compress", "ratelimit"}
		selection := []string{"ratelimit", "auth"}

		result := ApplySelectionDelta(current, selection)

		assert.Equal(t, []string{"auth", "ratelimit"}, result)
	})

	t.Run("appends new entries in selection order", func(t *testing.T) {
		current := []string{"auth"}
		selection := []string{"headers", "auth", "compress"}

		result := ApplySelectionDelta(current, selection)

		assert.Equal(t, []string{"auth", "headers", "compress"}, result)
	})

	t.Run("removes deselected entries", func(t *testing.T) {
		current := []string{"auth", "compress"}
		selection := []string{"compress"}

		result := ApplySelectionDelta(current, selection)

		assert.Equal(t, []string{"compress"}, result)
	})

	t.Run("unchanged selection preserves order exactly", func(t *testing.T) {
		current := []string{"c", "a", "b"}
		selection := []string{"a", "b", "c"}

		result := ApplySelectionDelta(current, selection)

		assert.Equal(t, current, result)
	})

	t.Run("idempotent when reapplied", func(t *testing.T) {
		current := []string{"auth", "compress"}
		selection := []string{"compress", "headers"}

		once := ApplySelectionDelta(current, selection)
		twice := ApplySelectionDelta(once, selection)

		assert.Equal(t, once, twice)
	})

	t.Run("empty selection clears everything", func(t *testing.T) {
		result := ApplySelectionDelta([]string{"auth"}, nil)

		assert.Empty(t, result)
	})

	t.Run("empty current order takes selection as-is", func(t *testing.T) {
		result := ApplySelectionDelta(nil, []string{"b", "a"})

		assert.Equal(t, []string{"b", "a"}, result)
	})

	t.Run("duplicate selection entries are applied once", func(t *testing.T) {
		result := ApplySelectionDelta([]string{"auth"}, []string{"auth", "compress", "auth"})

		assert.Equal(t, []string{"auth", "compress"}, result)
	})
}
