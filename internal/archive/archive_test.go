package archive_test

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/moonrepo/protohost/internal/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name, Mode: 0o644, Size: int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, archive.FormatTarGz, archive.DetectFormat("node-20.11.0-linux-x64.tar.gz"))
	assert.Equal(t, archive.FormatTarGz, archive.DetectFormat("node.tgz"))
	assert.Equal(t, archive.FormatTarXz, archive.DetectFormat("node.tar.xz"))
	assert.Equal(t, archive.FormatTarZst, archive.DetectFormat("node.tar.zst"))
	assert.Equal(t, archive.FormatZip, archive.DetectFormat("node.zip"))
	assert.Equal(t, archive.Format(""), archive.DetectFormat("node-binary"))
	assert.True(t, archive.IsArchive("node.tar.gz"))
	assert.False(t, archive.IsArchive("node-binary"))
}

func TestExtractTarGz(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "artifact.tar.gz")
	writeTarGz(t, src, map[string]string{"bin/node": "#!/bin/sh\necho hi"})

	dest := filepath.Join(dir, "out")
	require.NoError(t, archive.Extract(src, dest))

	data, err := os.ReadFile(filepath.Join(dest, "bin", "node"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "echo hi")
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "artifact.zip")
	writeZip(t, src, map[string]string{"plugin.wasm": "wasmbytes"})

	dest := filepath.Join(dir, "out")
	require.NoError(t, archive.Extract(src, dest))

	data, err := os.ReadFile(filepath.Join(dest, "plugin.wasm"))
	require.NoError(t, err)
	assert.Equal(t, "wasmbytes", string(data))
}

func TestExtractRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.tar.gz")

	f, err := os.Create(src)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	content := []byte("pwned")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "../../etc/passwd", Mode: 0o644, Size: int64(len(content))}))
	_, err = tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(dir, "out")
	err = archive.Extract(src, dest)
	require.Error(t, err)
}

func TestFindSingleWasmSucceedsWithExactlyOne(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugin.wasm"), []byte("x"), 0o644))

	path, err := archive.FindSingleWasm(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plugin.wasm"), path)
}

func TestFindSingleWasmFailsWhenAmbiguous(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.wasm"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.wasm"), []byte("y"), 0o644))

	_, err := archive.FindSingleWasm(dir)
	require.ErrorIs(t, err, archive.ErrNoWasmFound)
}

func TestFindSingleWasmFailsWhenNone(t *testing.T) {
	dir := t.TempDir()
	_, err := archive.FindSingleWasm(dir)
	require.ErrorIs(t, err, archive.ErrNoWasmFound)
}
