package version_test

import (
	"testing"

	"github.com/moonrepo/protohost/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func specs(t *testing.T, versions ...string) []version.Spec {
	t.Helper()
	out := make([]version.Spec, len(versions))
	for i, v := range versions {
		s, err := version.Parse(v)
		require.NoError(t, err)
		out[i] = s
	}
	return out
}

func TestPickBest(t *testing.T) {
	t.Run("picks greatest match for a requirement, order insensitive", func(t *testing.T) {
		req, err := version.ParseUnresolved("^1")
		require.NoError(t, err)

		candidates := specs(t, "1.0.0", "1.5.0", "1.2.0", "2.0.0")
		best, err := version.PickBest(req, candidates, nil)
		require.NoError(t, err)
		assert.Equal(t, "1.5.0", best.String())

		reversed := specs(t, "2.0.0", "1.2.0", "1.5.0", "1.0.0")
		best2, err := version.PickBest(req, reversed, nil)
		require.NoError(t, err)
		assert.Equal(t, best.String(), best2.String())
	})

	t.Run("unbounded latest skips prerelease when stable exists", func(t *testing.T) {
		req, err := version.ParseUnresolved("latest")
		require.NoError(t, err)

		candidates := specs(t, "1.0.0", "1.1.0-beta.1")
		best, err := version.PickBest(req, candidates, nil)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", best.String())
	})

	t.Run("unbounded latest allows prerelease when only prereleases exist", func(t *testing.T) {
		req, err := version.ParseUnresolved("latest")
		require.NoError(t, err)

		candidates := specs(t, "1.0.0-alpha.1", "1.0.0-alpha.2")
		best, err := version.PickBest(req, candidates, nil)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0-alpha.2", best.String())
	})

	t.Run("no match returns ErrNoMatch", func(t *testing.T) {
		req, err := version.ParseUnresolved("^3")
		require.NoError(t, err)

		candidates := specs(t, "1.0.0", "2.0.0")
		_, err = version.PickBest(req, candidates, nil)
		require.ErrorIs(t, err, version.ErrNoMatch)
	})

	t.Run("alias requirement resolves via alias lookup", func(t *testing.T) {
		req, err := version.ParseUnresolved("stable")
		require.NoError(t, err)

		target, err := version.Parse("1.2.3")
		require.NoError(t, err)
		lookup := func(alias string) (version.Spec, bool) {
			if alias == "stable" {
				return target, true
			}
			return version.Spec{}, false
		}

		candidates := specs(t, "1.2.3", "1.2.4")
		best, err := version.PickBest(req, candidates, lookup)
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", best.String())
	})
}
