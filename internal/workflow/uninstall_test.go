package workflow_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/moonrepo/protohost/internal/sandbox"
	"github.com/moonrepo/protohost/internal/version"
	"github.com/moonrepo/protohost/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installedEnv(t *testing.T) (*workflow.Environment, protoid.ID) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-bytes"))
	}))
	t.Cleanup(srv.Close)

	plugin := newFakePlugin().
		withExport("register_tool", sandbox.RegisterToolOutput{MinimumRuntimeVersion: 1}).
		withExport("load_versions", sandbox.LoadVersionsOutput{Versions: []string{"20.1.0"}}).
		withExport("download_prebuilt", sandbox.DownloadPrebuiltOutput{
			DownloadURL: srv.URL + "/node", DownloadName: "node",
		}).
		withExport("locate_executables", sandbox.LocateExecutablesOutput{Primary: "node"})

	env := testEnvironment(t)
	requested, err := version.ParseUnresolved("^20")
	require.NoError(t, err)
	id, err := protoid.New("node")
	require.NoError(t, err)

	_, err = env.InstallTool(context.Background(), id, plugin, requested, nil, nil, true)
	require.NoError(t, err)

	return env, id
}

func TestUninstallRemovesVersionAndClearsDefault(t *testing.T) {
	env, id := installedEnv(t)

	err := env.Uninstall(id, "20.1.0")
	require.NoError(t, err)

	specs, err := env.ListInstalled(id)
	require.NoError(t, err)
	assert.Empty(t, specs)

	status, err := env.ToolStatus(id)
	require.NoError(t, err)
	assert.Empty(t, status.Default)

	installDir := env.Store.VersionDir(id, "20.1.0")
	_, statErr := os.Stat(installDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUninstallUnknownVersionFails(t *testing.T) {
	env, id := installedEnv(t)

	err := env.Uninstall(id, "99.0.0")
	assert.Error(t, err)
}
