package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/moonrepo/protohost/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))
}

func TestParseLayerTopLevelToolsAndTables(t *testing.T) {
	doc := `
node = "20.11.0"
deno = "^1.40"

[tools.node]
aliases = { work = "18" }

[tools.node.env]
NODE_OPTIONS = "--enable-source-maps"

[plugins]
customtool = "github:owner/repo@v1.0.0"

[settings]
auto-clean = false
auto-install = true
detect-strategy = "first-available"
pin-latest = "local"
`
	layer, err := config.ParseLayer([]byte(doc), "test.prototools")
	require.NoError(t, err)

	assert.Equal(t, "20.11.0", layer.Tools["node"])
	assert.Equal(t, "^1.40", layer.Tools["deno"])
	assert.Equal(t, "18", layer.ToolConfigs["node"].Aliases["work"])
	assert.Equal(t, "--enable-source-maps", layer.ToolConfigs["node"].Env["NODE_OPTIONS"])
	assert.Equal(t, "github:owner/repo@v1.0.0", layer.Plugins["customtool"])
	require.NotNil(t, layer.Settings.AutoClean)
	assert.False(t, *layer.Settings.AutoClean)
	require.NotNil(t, layer.Settings.AutoInstall)
	assert.True(t, *layer.Settings.AutoInstall)
	assert.Equal(t, config.DetectFirstAvailable, layer.Settings.DetectStrategy)
	assert.Equal(t, "local", layer.Settings.PinLatest)
}

func TestParseLayerRejectsNonStringTopLevelTool(t *testing.T) {
	_, err := config.ParseLayer([]byte("node = 20\n"), "bad.prototools")
	require.Error(t, err)
}

func TestMergeScalarsFirstWriterWins(t *testing.T) {
	high := config.NewLayer("local")
	high.Tools["node"] = "20.11.0"

	low := config.NewLayer("global")
	low.Tools["node"] = "18.19.0"
	low.Tools["go"] = "1.22.0"

	merged := config.Merge([]config.Layer{high, low})

	assert.Equal(t, "20.11.0", merged.Tools["node"])
	assert.Equal(t, "local", merged.Provenance["node"])
	assert.Equal(t, "1.22.0", merged.Tools["go"])
}

func TestMergeToolConfigDeepMerge(t *testing.T) {
	high := config.NewLayer("local")
	high.ToolConfigs["node"] = config.ToolConfig{
		Aliases: map[string]string{"work": "18"},
		Env:     map[string]string{"A": "1"},
	}

	low := config.NewLayer("global")
	low.ToolConfigs["node"] = config.ToolConfig{
		Aliases: map[string]string{"home": "20"},
		Env:     map[string]string{"A": "lowvalue", "B": "2"},
	}

	merged := config.Merge([]config.Layer{high, low})

	tc := merged.ToolConfigs["node"]
	assert.Equal(t, "18", tc.Aliases["work"])
	assert.Equal(t, "20", tc.Aliases["home"])
	assert.Equal(t, "1", tc.Env["A"])
	assert.Equal(t, "2", tc.Env["B"])
}

func TestMergeEnvFilesAppendInPrecedenceOrder(t *testing.T) {
	high := config.NewLayer("local")
	high.ToolConfigs["node"] = config.ToolConfig{EnvFiles: []string{".env.local"}}
	low := config.NewLayer("global")
	low.ToolConfigs["node"] = config.ToolConfig{EnvFiles: []string{".env"}}

	merged := config.Merge([]config.Layer{high, low})
	assert.Equal(t, []string{".env.local", ".env"}, merged.ToolConfigs["node"].EnvFiles)
}

func TestEnvironmentLayerParsesVersionAndSettingsOverrides(t *testing.T) {
	layer := config.EnvironmentLayer([]string{
		"PROTO_NODE_VERSION=20.11.0",
		"PROTO_AUTO_INSTALL=true",
		"PROTO_AUTO_CLEAN=false",
		"UNRELATED=ignored",
	})

	assert.Equal(t, "20.11.0", layer.Tools["node"])
	require.NotNil(t, layer.Settings.AutoInstall)
	assert.True(t, *layer.Settings.AutoInstall)
	require.NotNil(t, layer.Settings.AutoClean)
	assert.False(t, *layer.Settings.AutoClean)
}

func TestLoaderCascadeWalksAncestorsToHome(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `go = "1.21.0"`+"\n")

	project := filepath.Join(home, "workspace", "project")
	require.NoError(t, os.MkdirAll(project, 0o755))
	writeConfig(t, project, `node = "20.11.0"`+"\n")

	store := t.TempDir()

	loader := config.NewLoader()
	merged, err := loader.Load(project, home, store)
	require.NoError(t, err)

	assert.Equal(t, "20.11.0", merged.Tools["node"])
	assert.Equal(t, "1.21.0", merged.Tools["go"])
}

func TestLoaderLocalOverridesAncestor(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `node = "18.19.0"`+"\n")

	project := filepath.Join(home, "project")
	require.NoError(t, os.MkdirAll(project, 0o755))
	writeConfig(t, project, `node = "20.11.0"`+"\n")

	store := t.TempDir()

	loader := config.NewLoader()
	merged, err := loader.Load(project, home, store)
	require.NoError(t, err)

	assert.Equal(t, "20.11.0", merged.Tools["node"])
}
