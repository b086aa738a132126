package lifecycle_test

import (
	"context"
	"testing"

	"github.com/moonrepo/protohost/internal/lifecycle"
	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/sandbox"
	"github.com/moonrepo/protohost/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedTool(t *testing.T, plugin *fakePlugin) *lifecycle.Tool {
	t.Helper()
	if _, ok := plugin.responses["register_tool"]; !ok {
		plugin.withExport("register_tool", sandbox.RegisterToolOutput{MinimumRuntimeVersion: 1})
	}
	tool := lifecycle.NewTool("node", plugin)
	require.NoError(t, lifecycle.Load(context.Background(), tool, sandbox.RegisterHost{}))
	return tool
}

func TestResolvePicksBestCandidate(t *testing.T) {
	plugin := newFakePlugin().withExport("load_versions", sandbox.LoadVersionsOutput{
		Versions: []string{"20.1.0", "20.11.0", "19.9.0"},
	})
	tool := loadedTool(t, plugin)

	requested, err := version.ParseUnresolved("^20")
	require.NoError(t, err)

	require.NoError(t, lifecycle.Resolve(context.Background(), tool, requested, nil, false))
	assert.Equal(t, lifecycle.Resolved, tool.State())
	assert.Equal(t, "20.11.0", tool.Resolved.String())
}

func TestResolveUserAliasWinsOverPlugin(t *testing.T) {
	plugin := newFakePlugin().withExport("load_versions", sandbox.LoadVersionsOutput{
		Versions: []string{"20.1.0", "18.2.0"},
		Aliases:  map[string]string{"lts": "18.2.0"},
	})
	tool := loadedTool(t, plugin)

	requested, err := version.ParseUnresolved("lts")
	require.NoError(t, err)

	err = lifecycle.Resolve(context.Background(), tool, requested, map[string]string{"lts": "20.1.0"}, false)
	require.NoError(t, err)
	assert.Equal(t, "20.1.0", tool.Resolved.String())
}

func TestResolveOverriddenByResolveVersionExport(t *testing.T) {
	plugin := newFakePlugin().
		withExport("load_versions", sandbox.LoadVersionsOutput{Versions: []string{"20.1.0"}}).
		withExport("resolve_version", sandbox.ResolveVersionOutput{Version: "20.1.0"})
	tool := loadedTool(t, plugin)

	requested, err := version.ParseUnresolved("20.1.0")
	require.NoError(t, err)

	require.NoError(t, lifecycle.Resolve(context.Background(), tool, requested, nil, false))
	assert.Equal(t, "20.1.0", tool.Resolved.String())
}

func TestResolveFailsWithNoMatch(t *testing.T) {
	plugin := newFakePlugin().withExport("load_versions", sandbox.LoadVersionsOutput{
		Versions: []string{"18.2.0"},
	})
	tool := loadedTool(t, plugin)

	requested, err := version.ParseUnresolved("^20")
	require.NoError(t, err)

	err = lifecycle.Resolve(context.Background(), tool, requested, nil, false)
	require.Error(t, err)
	perr, ok := protoerr.Of(err)
	require.True(t, ok)
	assert.Equal(t, protoerr.CodeVersionResolveFailure, perr.Code)
}

func TestResolveOfflineNonExactFails(t *testing.T) {
	plugin := newFakePlugin()
	tool := loadedTool(t, plugin)

	requested, err := version.ParseUnresolved("^20")
	require.NoError(t, err)

	err = lifecycle.Resolve(context.Background(), tool, requested, nil, true)
	require.Error(t, err)
	perr, ok := protoerr.Of(err)
	require.True(t, ok)
	assert.Equal(t, protoerr.CodeInternetRequired, perr.Code)
}

func TestResolveOfflineExactSkipsNetwork(t *testing.T) {
	plugin := newFakePlugin()
	tool := loadedTool(t, plugin)

	requested, err := version.ParseUnresolved("20.1.0")
	require.NoError(t, err)

	require.NoError(t, lifecycle.Resolve(context.Background(), tool, requested, nil, true))
	assert.Equal(t, "20.1.0", tool.Resolved.String())
	assert.NotContains(t, plugin.calls, "load_versions")
}
