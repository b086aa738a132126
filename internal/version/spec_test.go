package version_test

import (
	"testing"

	"github.com/moonrepo/protohost/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("canary", func(t *testing.T) {
		s, err := version.Parse("canary")
		require.NoError(t, err)
		assert.Equal(t, version.KindCanary, s.Kind)
		assert.True(t, s.IsCanary())
	})

	t.Run("aliases", func(t *testing.T) {
		for _, alias := range []string{"latest", "stable", "legacy-2023"} {
			s, err := version.Parse(alias)
			require.NoError(t, err)
			assert.Equal(t, version.KindAlias, s.Kind)
			assert.Equal(t, alias, s.Alias)
		}
	})

	t.Run("latest alias reports IsLatest", func(t *testing.T) {
		s, err := version.Parse("latest")
		require.NoError(t, err)
		assert.True(t, s.IsLatest())
	})

	t.Run("v prefix and bare forms normalize the same", func(t *testing.T) {
		forms := []string{"v1.2.3", "1.2.3", "V1.2.3"}
		for _, f := range forms {
			s, err := version.Parse(f)
			require.NoError(t, err, f)
			assert.Equal(t, version.KindSemantic, s.Kind)
			assert.Equal(t, uint64(1), s.Version.Major)
			assert.Equal(t, uint64(2), s.Version.Minor)
			assert.Equal(t, uint64(3), s.Version.Patch)
		}
	})

	t.Run("prerelease forms", func(t *testing.T) {
		s, err := version.Parse("1.2.3-alpha.1")
		require.NoError(t, err)
		assert.Equal(t, "alpha.1", s.Version.Pre)
	})

	t.Run("calendar with month only", func(t *testing.T) {
		s, err := version.Parse("2024-02")
		require.NoError(t, err)
		assert.Equal(t, version.KindCalendar, s.Kind)
		assert.Equal(t, uint64(2024), s.Version.Major)
		assert.Equal(t, uint64(2), s.Version.Minor)
		assert.Equal(t, uint64(0), s.Version.Patch)
	})

	t.Run("calendar with day, leading zero stripped", func(t *testing.T) {
		s, err := version.Parse("2024-02-26")
		require.NoError(t, err)
		assert.Equal(t, uint64(2024), s.Version.Major)
		assert.Equal(t, uint64(2), s.Version.Minor)
		assert.Equal(t, uint64(26), s.Version.Patch)
	})

	t.Run("calendar year only", func(t *testing.T) {
		s, err := version.Parse("2024")
		require.NoError(t, err)
		assert.Equal(t, version.KindCalendar, s.Kind)
		assert.Equal(t, uint64(2024), s.Version.Major)
		assert.Equal(t, uint64(0), s.Version.Minor)
	})

	t.Run("invalid character errors", func(t *testing.T) {
		_, err := version.Parse("%")
		require.Error(t, err)
	})

	t.Run("string round trips", func(t *testing.T) {
		s, err := version.Parse("1.2.3")
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", s.String())
	})
}

func TestCompare(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "1.2.3", "1.2.3", 0},
		{"major differs", "2.0.0", "1.9.9", 1},
		{"minor differs", "1.3.0", "1.2.9", 1},
		{"patch differs", "1.2.4", "1.2.3", 1},
		{"release outranks prerelease", "1.2.3", "1.2.3-alpha", 1},
		{"numeric prerelease identifiers compare numerically", "1.2.3-alpha.2", "1.2.3-alpha.10", -1},
		{"more identifiers outrank fewer with equal prefix", "1.2.3-alpha.1", "1.2.3-alpha", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := version.Parse(tc.a)
			require.NoError(t, err)
			b, err := version.Parse(tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, version.Compare(a.Version, b.Version))
		})
	}
}
