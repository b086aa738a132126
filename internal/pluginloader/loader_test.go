package pluginloader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/moonrepo/protohost/internal/httpclient"
	"github.com/moonrepo/protohost/internal/pluginloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFileLocator(t *testing.T) {
	dir := t.TempDir()
	wasmPath := filepath.Join(dir, "plugin.wasm")
	require.NoError(t, os.WriteFile(wasmPath, []byte("wasmbytes"), 0o644))

	loader := pluginloader.New(filepath.Join(dir, "plugins"), filepath.Join(dir, "temp"), httpclient.New())
	loc, err := pluginloader.ParseLocator("file:" + wasmPath)
	require.NoError(t, err)

	resolved, err := loader.Resolve(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, wasmPath, resolved)
}

func TestResolveFileLocatorMissingSource(t *testing.T) {
	dir := t.TempDir()
	loader := pluginloader.New(filepath.Join(dir, "plugins"), filepath.Join(dir, "temp"), httpclient.New())
	loc, err := pluginloader.ParseLocator("file:" + filepath.Join(dir, "missing.wasm"))
	require.NoError(t, err)

	_, err = loader.Resolve(context.Background(), loc)
	require.ErrorIs(t, err, pluginloader.ErrSourceFileMissing)
}

func TestResolveURLCachesRawWasm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("wasmbytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	loader := pluginloader.New(filepath.Join(dir, "plugins"), filepath.Join(dir, "temp"), httpclient.New())
	loc, err := pluginloader.ParseLocator("https://plugins.example.com/plugin.wasm")
	require.NoError(t, err)
	loc.URL = srv.URL + "/plugin.wasm"

	resolved, err := loader.Resolve(context.Background(), loc)
	require.NoError(t, err)

	data, err := os.ReadFile(resolved)
	require.NoError(t, err)
	assert.Equal(t, "wasmbytes", string(data))
}

func TestResolveURLRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	loader := pluginloader.New(filepath.Join(dir, "plugins"), filepath.Join(dir, "temp"), httpclient.New())
	loc, err := pluginloader.ParseLocator("https://example.com/plugin.exe")
	require.NoError(t, err)

	_, err = loader.Resolve(context.Background(), loc)
	require.ErrorIs(t, err, pluginloader.ErrUnsupportedExtension)
}

func TestResolveCachesPinnedReferenceIndefinitely(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte("wasmbytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	loader := pluginloader.New(filepath.Join(dir, "plugins"), filepath.Join(dir, "temp"), httpclient.New())
	loc, err := pluginloader.ParseLocator("https://plugins.example.com/plugin.wasm")
	require.NoError(t, err)
	loc.URL = srv.URL + "/plugin.wasm"

	_, err = loader.Resolve(context.Background(), loc)
	require.NoError(t, err)
	_, err = loader.Resolve(context.Background(), loc)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "a pinned URL locator should only be fetched once")
}

func TestCacheKeyIsStableForIdenticalLocator(t *testing.T) {
	locA, err := pluginloader.ParseLocator("github:owner/repo@v1.0.0")
	require.NoError(t, err)
	locB, err := pluginloader.ParseLocator("github:owner/repo@v1.0.0")
	require.NoError(t, err)

	assert.Equal(t, pluginloader.CacheKey(locA), pluginloader.CacheKey(locB))

	locC, err := pluginloader.ParseLocator("github:owner/repo@v2.0.0")
	require.NoError(t, err)
	assert.NotEqual(t, pluginloader.CacheKey(locA), pluginloader.CacheKey(locC))
}
