package workflow_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/moonrepo/protohost/internal/httpclient"
	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/moonrepo/protohost/internal/sandbox"
	"github.com/moonrepo/protohost/internal/store"
	"github.com/moonrepo/protohost/internal/version"
	"github.com/moonrepo/protohost/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnvironment(t *testing.T) *workflow.Environment {
	t.Helper()
	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "store"))
	require.NoError(t, st.EnsureDirs())
	cwd := filepath.Join(dir, "project")
	home := filepath.Join(dir, "home")
	require.NoError(t, os.MkdirAll(cwd, 0o755))
	require.NoError(t, os.MkdirAll(home, 0o755))
	return &workflow.Environment{
		Store:   st,
		HTTP:    httpclient.New(),
		Cwd:     cwd,
		HomeDir: home,
	}
}

func TestInstallToolFullPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/node":
			w.Write([]byte("fake-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

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

	result, err := env.InstallTool(context.Background(), id, plugin, requested, nil, nil, true)
	require.NoError(t, err)
	assert.Equal(t, "20.1.0", result.Resolved.String())
	assert.NotEmpty(t, result.Primary)

	specs, err := env.ListInstalled(id)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "20.1.0", specs[0].String())

	status, err := env.ToolStatus(id)
	require.NoError(t, err)
	assert.Equal(t, "20.1.0", status.Default)
}
