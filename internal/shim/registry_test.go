package shim_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/moonrepo/protohost/internal/shim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistryMissingReturnsEmpty(t *testing.T) {
	r, err := shim.LoadRegistry(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, r.Names())
}

func TestUpdateWritesAndRoundTrips(t *testing.T) {
	dir := t.TempDir()

	changed, err := shim.Update(dir, map[string]shim.Entry{
		"npm": {Parent: "node", BeforeArgs: []string{"--global-prefix"}},
	})
	require.NoError(t, err)
	assert.True(t, changed)

	r, err := shim.LoadRegistry(dir)
	require.NoError(t, err)
	entry, ok := r.Get("npm")
	require.True(t, ok)
	assert.Equal(t, "node", entry.Parent)
	assert.Equal(t, []string{"--global-prefix"}, entry.BeforeArgs)

	_, err = os.Stat(filepath.Join(dir, "registry.json"))
	require.NoError(t, err)
}

func TestUpdateSkipsWriteWhenUnchanged(t *testing.T) {
	dir := t.TempDir()
	additions := map[string]shim.Entry{"node": {}}

	changed, err := shim.Update(dir, additions)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = shim.Update(dir, additions)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUpdateRewritesWhenEntryDiffers(t *testing.T) {
	dir := t.TempDir()

	_, err := shim.Update(dir, map[string]shim.Entry{"node": {AltBin: false}})
	require.NoError(t, err)

	changed, err := shim.Update(dir, map[string]shim.Entry{"node": {AltBin: true}})
	require.NoError(t, err)
	assert.True(t, changed)

	r, err := shim.LoadRegistry(dir)
	require.NoError(t, err)
	entry, _ := r.Get("node")
	assert.True(t, entry.AltBin)
}
