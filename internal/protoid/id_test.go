package protoid_test

import (
	"testing"

	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("accepts letters digits dashes underscores", func(t *testing.T) {
		id, err := protoid.New("node-js_2")
		require.NoError(t, err)
		assert.Equal(t, "node-js_2", id.String())
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := protoid.New("")
		require.ErrorIs(t, err, protoid.ErrInvalidID)
	})

	t.Run("rejects leading digit", func(t *testing.T) {
		_, err := protoid.New("9lives")
		require.ErrorIs(t, err, protoid.ErrInvalidID)
	})

	t.Run("rejects special characters", func(t *testing.T) {
		_, err := protoid.New("node@20")
		require.ErrorIs(t, err, protoid.ErrInvalidID)
	})
}

func TestParseContext(t *testing.T) {
	t.Run("bare tool id", func(t *testing.T) {
		ctx, err := protoid.ParseContext("node")
		require.NoError(t, err)
		assert.False(t, ctx.HasBackend())
		assert.Equal(t, "node", ctx.Tool.String())
		assert.Equal(t, "node", ctx.String())
	})

	t.Run("backend qualified", func(t *testing.T) {
		ctx, err := protoid.ParseContext("npm:left-pad")
		require.NoError(t, err)
		require.True(t, ctx.HasBackend())
		assert.Equal(t, "npm", ctx.Backend.String())
		assert.Equal(t, "left-pad", ctx.Tool.String())
		assert.Equal(t, "npm:left-pad", ctx.String())
	})

	t.Run("empty backend fragment dropped", func(t *testing.T) {
		ctx, err := protoid.ParseContext(":node")
		require.NoError(t, err)
		assert.False(t, ctx.HasBackend())
		assert.Equal(t, "node", ctx.Tool.String())
	})

	t.Run("empty tool fragment errors", func(t *testing.T) {
		_, err := protoid.ParseContext("npm:")
		require.ErrorIs(t, err, protoid.ErrInvalidID)
	})

	t.Run("invalid backend id errors", func(t *testing.T) {
		_, err := protoid.ParseContext("9npm:node")
		require.ErrorIs(t, err, protoid.ErrInvalidID)
	})
}
