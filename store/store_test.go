package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musram/middleware-manager-sub002/client"
)

func TestParseConfig(t *testing.T) {
	t.Run("valid JSON object", func(t *testing.T) {
		config, err := ParseConfig(`{"average": 100, "burst": 50}`)
		require.NoError(t, err)
		assert.Equal(t, float64(100), config["average"])
	})

	t.Run("syntax error surfaces as a validation failure", func(t *testing.T) {
		_, err := ParseConfig(`{"average": `)
		require.Error(t, err)

		var validationErr *client.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Message, "not valid JSON")
	})

	t.Run("non-object JSON is rejected", func(t *testing.T) {
		_, err := ParseConfig(`[1, 2, 3]`)
		require.Error(t, err)
	})
}

func TestStateTracker(t *testing.T) {
	var tracker stateTracker

	t.Run("begin raises busy and clears the prior error", func(t *testing.T) {
		tracker.fail(errors.New("boom"))
		require.Error(t, tracker.LastError())

		tracker.begin()
		assert.True(t, tracker.Busy())
		assert.NoError(t, tracker.LastError())
	})

	t.Run("fail records and drops busy", func(t *testing.T) {
		tracker.begin()
		tracker.fail(errors.New("boom"))

		assert.False(t, tracker.Busy())
		assert.EqualError(t, tracker.LastError(), "boom")
	})

	t.Run("errors stay visible until dismissed", func(t *testing.T) {
		require.Error(t, tracker.LastError())

		tracker.ClearError()
		assert.NoError(t, tracker.LastError())
	})
}
