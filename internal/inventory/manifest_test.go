package inventory_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/moonrepo/protohost/internal/inventory"
	"github.com/moonrepo/protohost/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingManifestReturnsEmpty(t *testing.T) {
	m, err := inventory.Load(filepath.Join(t.TempDir(), "manifest.json"))
	require.NoError(t, err)
	assert.Empty(t, m.Versions)
	assert.Empty(t, m.Aliases)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	m := inventory.New()
	spec, err := version.Parse("20.11.0")
	require.NoError(t, err)

	now := time.Now()
	m.AddVersion(spec, now)
	m.Aliases["lts"] = "20.11.0"
	m.Default = "20.11.0"

	require.NoError(t, inventory.Save(path, m))

	loaded, err := inventory.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "20.11.0", loaded.Default)
	assert.Equal(t, "20.11.0", loaded.Aliases["lts"])
	require.Contains(t, loaded.Versions, "20.11.0")
}

func TestRemoveVersionReportsPresence(t *testing.T) {
	m := inventory.New()
	spec, err := version.Parse("1.2.3")
	require.NoError(t, err)

	assert.False(t, m.RemoveVersion(spec))
	m.AddVersion(spec, time.Now())
	assert.True(t, m.RemoveVersion(spec))
	assert.False(t, m.RemoveVersion(spec))
}

func TestInstalledSpecsSortedDescending(t *testing.T) {
	m := inventory.New()
	for _, raw := range []string{"1.2.3", "2.0.0", "1.10.0"} {
		spec, err := version.Parse(raw)
		require.NoError(t, err)
		m.AddVersion(spec, time.Now())
	}

	specs, err := m.InstalledSpecs()
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, "2.0.0", specs[0].String())
	assert.Equal(t, "1.10.0", specs[1].String())
	assert.Equal(t, "1.2.3", specs[2].String())
}

func TestTouchUpdatesUsedAtOnly(t *testing.T) {
	m := inventory.New()
	spec, err := version.Parse("3.0.0")
	require.NoError(t, err)

	installedAt := time.Now().Add(-time.Hour)
	m.AddVersion(spec, installedAt)
	recorded := m.Versions["3.0.0"]

	later := time.Now()
	m.Touch(spec, later)
	updated := m.Versions["3.0.0"]

	assert.Equal(t, recorded.InstalledAt, updated.InstalledAt)
	assert.Equal(t, later.UnixMilli(), updated.UsedAt)
}
