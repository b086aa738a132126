package version_test

import (
	"testing"

	"github.com/moonrepo/protohost/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnresolved(t *testing.T) {
	t.Run("latest alias", func(t *testing.T) {
		u, err := version.ParseUnresolved("latest")
		require.NoError(t, err)
		assert.Equal(t, version.UnresolvedAlias, u.Kind)
		assert.True(t, u.IsExact())
	})

	t.Run("canary", func(t *testing.T) {
		u, err := version.ParseUnresolved("canary")
		require.NoError(t, err)
		assert.Equal(t, version.UnresolvedCanary, u.Kind)
	})

	t.Run("calver", func(t *testing.T) {
		u, err := version.ParseUnresolved("2025-01-01")
		require.NoError(t, err)
		assert.Equal(t, version.UnresolvedCalendar, u.Kind)
	})

	t.Run("exact semver", func(t *testing.T) {
		u, err := version.ParseUnresolved("1.2.3")
		require.NoError(t, err)
		assert.Equal(t, version.UnresolvedSemantic, u.Kind)
		assert.True(t, u.IsExact())
	})

	t.Run("requirement", func(t *testing.T) {
		u, err := version.ParseUnresolved("^2")
		require.NoError(t, err)
		assert.Equal(t, version.UnresolvedRequirement, u.Kind)
		assert.False(t, u.IsExact())
	})

	t.Run("invalid errors", func(t *testing.T) {
		_, err := version.ParseUnresolved("1.a.2")
		require.Error(t, err)
	})
}
