package hostfs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/moonrepo/protohost/internal/hostfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealCreateSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("hi"), 0o644))

	fs := hostfs.NewReal()
	link := filepath.Join(dir, "link.txt")
	require.NoError(t, fs.CreateSymlink(target, link))

	isLink, got := fs.IsSymlink(link)
	assert.True(t, isLink)
	assert.Equal(t, target, got)
}

func TestRealHardLinkSharesContent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "bin")
	require.NoError(t, os.WriteFile(target, []byte("binary"), 0o755))

	fs := hostfs.NewReal()
	link := filepath.Join(dir, "shim")
	require.NoError(t, fs.HardLink(target, link))

	data, err := fs.ReadFile(link)
	require.NoError(t, err)
	assert.Equal(t, "binary", string(data))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "proto"), hostfs.ExpandHome("~/proto"))
	assert.Equal(t, "/abs/proto", hostfs.ExpandHome("/abs/proto"))
}

func TestMockFilesystemRoundTrip(t *testing.T) {
	fs := hostfs.NewMock()
	fs.AddFile("/tools/node/manifest.json", `{"versions":[]}`)

	assert.True(t, fs.Exists("/tools/node/manifest.json"))
	data, err := fs.ReadFile("/tools/node/manifest.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "versions")

	require.NoError(t, fs.CreateSymlink("/tools/node/20.11.0/bin/node", "/bin/node"))
	isLink, target := fs.IsSymlink("/bin/node")
	assert.True(t, isLink)
	assert.Equal(t, "/tools/node/20.11.0/bin/node", target)
}
