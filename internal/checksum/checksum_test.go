package checksum_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moonrepo/protohost/internal/checksum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAlgorithmFromExtension(t *testing.T) {
	a, ok := checksum.AlgorithmFromExtension("node-20.11.0.sha256")
	assert.True(t, ok)
	assert.Equal(t, checksum.SHA256, a)

	_, ok = checksum.AlgorithmFromExtension("node-20.11.0.tar.gz")
	assert.False(t, ok)
}

func TestCalculateAndVerifyHash(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "artifact.bin", "hello world")

	hash, err := checksum.Calculate(path, checksum.SHA256)
	require.NoError(t, err)

	require.NoError(t, checksum.VerifyHash(path, checksum.SHA256, hash))
	require.NoError(t, checksum.VerifyHash(path, checksum.SHA256, strings.ToUpper(hash)))

	err = checksum.VerifyHash(path, checksum.SHA256, "deadbeef")
	require.ErrorIs(t, err, checksum.ErrMismatch)
}

func TestVerifyManifestBareHashLine(t *testing.T) {
	dir := t.TempDir()
	artifact := writeTemp(t, dir, "node.tar.gz", "artifact-bytes")
	hash, err := checksum.Calculate(artifact, checksum.SHA256)
	require.NoError(t, err)

	manifest := writeTemp(t, dir, "node.tar.gz.sha256", hash+"\n")
	require.NoError(t, checksum.VerifyManifest(artifact, manifest, "node.tar.gz", checksum.SHA256))
}

func TestVerifyManifestHashWithFilename(t *testing.T) {
	dir := t.TempDir()
	artifact := writeTemp(t, dir, "node.tar.gz", "artifact-bytes")
	hash, err := checksum.Calculate(artifact, checksum.SHA256)
	require.NoError(t, err)

	manifest := writeTemp(t, dir, "node.tar.gz.sha256", hash+"  node.tar.gz\n")
	require.NoError(t, checksum.VerifyManifest(artifact, manifest, "node.tar.gz", checksum.SHA256))

	manifestStar := writeTemp(t, dir, "node2.tar.gz.sha256", hash+" *node.tar.gz\n")
	require.NoError(t, checksum.VerifyManifest(artifact, manifestStar, "node.tar.gz", checksum.SHA256))
}

func TestVerifyManifestWindowsGetFileHash(t *testing.T) {
	dir := t.TempDir()
	artifact := writeTemp(t, dir, "node.zip", "artifact-bytes")
	hash, err := checksum.Calculate(artifact, checksum.SHA256)
	require.NoError(t, err)

	manifest := writeTemp(t, dir, "node.zip.sha256", "Hash : "+strings.ToUpper(hash)+"\n")
	require.NoError(t, checksum.VerifyManifest(artifact, manifest, "node.zip", checksum.SHA256))
}

func TestVerifyManifestNoMatch(t *testing.T) {
	dir := t.TempDir()
	artifact := writeTemp(t, dir, "node.zip", "artifact-bytes")
	manifest := writeTemp(t, dir, "node.zip.sha256", "deadbeef\n")

	err := checksum.VerifyManifest(artifact, manifest, "node.zip", checksum.SHA256)
	require.ErrorIs(t, err, checksum.ErrMismatch)
}
