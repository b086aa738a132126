package workflow_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinUnpinRoundTrip(t *testing.T) {
	env := testEnvironment(t)

	require.NoError(t, env.Pin("node", "^20", false))

	data, err := os.ReadFile(filepath.Join(env.Cwd, ".prototools"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `node = "^20"`)

	require.NoError(t, env.Unpin("node", false))

	data, err = os.ReadFile(filepath.Join(env.Cwd, ".prototools"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "node")
}

func TestPinGlobalTargetsStoreConfig(t *testing.T) {
	env := testEnvironment(t)

	require.NoError(t, env.Pin("node", "^20", true))

	_, err := os.Stat(filepath.Join(env.Store.Dir, ".prototools"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.Cwd, ".prototools"))
	assert.True(t, os.IsNotExist(err))
}

func TestAliasUnaliasRoundTrip(t *testing.T) {
	env := testEnvironment(t)

	require.NoError(t, env.Alias("node", "lts", "20.1.0", false))

	data, err := os.ReadFile(filepath.Join(env.Cwd, ".prototools"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "lts")
	assert.Contains(t, string(data), "20.1.0")

	require.NoError(t, env.Unalias("node", "lts", false))

	data, err = os.ReadFile(filepath.Join(env.Cwd, ".prototools"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "lts")
}

func TestPluginAddRemoveListRoundTrip(t *testing.T) {
	env := testEnvironment(t)

	require.NoError(t, env.PluginAdd("node", "github://moonrepo/node-plugin", false))

	plugins, err := env.PluginList(false)
	require.NoError(t, err)
	assert.Equal(t, "github://moonrepo/node-plugin", plugins["node"])

	require.NoError(t, env.PluginRemove("node", false))

	plugins, err = env.PluginList(false)
	require.NoError(t, err)
	assert.NotContains(t, plugins, "node")
}
