package lifecycle_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/moonrepo/protohost/internal/httpclient"
	"github.com/moonrepo/protohost/internal/lifecycle"
	"github.com/moonrepo/protohost/internal/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedTool(t *testing.T, plugin *fakePlugin) *lifecycle.Tool {
	t.Helper()
	tool := loadedTool(t, plugin)
	tool.SeekTo(lifecycle.Resolved)
	tool.Resolved.Kind = 0
	return tool
}

func TestDownloadFetchesArtifactAndChecksum(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tool.tar.gz":
			w.Write([]byte("fake-archive-bytes"))
		case "/tool.tar.gz.sha256":
			w.Write([]byte("deadbeef  tool.tar.gz\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	plugin := newFakePlugin().withExport("download_prebuilt", sandbox.DownloadPrebuiltOutput{
		DownloadURL:  srv.URL + "/tool.tar.gz",
		DownloadName: "tool.tar.gz",
		ChecksumURL:  srv.URL + "/tool.tar.gz.sha256",
	})
	tool := resolvedTool(t, plugin)

	dir := t.TempDir()
	client := httpclient.New()

	err := lifecycle.Download(context.Background(), tool, filepath.Join(dir, "install"), filepath.Join(dir, "temp"), nil, client)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Downloaded, tool.State())
	assert.FileExists(t, tool.DownloadFile)
	assert.FileExists(t, tool.ChecksumFile)
}

func TestDownloadPrefersNativeInstall(t *testing.T) {
	plugin := newFakePlugin().withExport("native_install", sandbox.NativeInstallOutput{Installed: true})
	tool := resolvedTool(t, plugin)

	dir := t.TempDir()
	err := lifecycle.Download(context.Background(), tool, filepath.Join(dir, "install"), filepath.Join(dir, "temp"), nil, httpclient.New())
	require.NoError(t, err)
	assert.True(t, tool.NativeInstall)
	assert.Equal(t, lifecycle.Downloaded, tool.State())
}

func TestDownloadRemovesPartialOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	plugin := newFakePlugin().withExport("download_prebuilt", sandbox.DownloadPrebuiltOutput{
		DownloadURL:  srv.URL + "/missing.tar.gz",
		DownloadName: "missing.tar.gz",
	})
	tool := resolvedTool(t, plugin)

	dir := t.TempDir()
	tempDir := filepath.Join(dir, "temp")
	err := lifecycle.Download(context.Background(), tool, filepath.Join(dir, "install"), tempDir, nil, httpclient.New())
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(tempDir, "missing.tar.gz"))
	assert.True(t, os.IsNotExist(statErr))
}
