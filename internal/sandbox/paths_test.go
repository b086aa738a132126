package sandbox_test

import (
	"testing"

	"github.com/moonrepo/protohost/internal/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathMapRoundTrip(t *testing.T) {
	m := sandbox.NewPathMap("/home/alice/project", "/home/alice", "/home/alice/.proto")

	for _, real := range []string{
		"/home/alice/project/package.json",
		"/home/alice/.bashrc",
		"/home/alice/.proto/tools/node/20.11.0",
	} {
		vp, err := m.ToVirtual(real)
		require.NoError(t, err, real)

		back, err := m.ToReal(vp)
		require.NoError(t, err, vp)
		assert.Equal(t, real, back)
	}
}

func TestPathMapPrefersMostSpecificEntry(t *testing.T) {
	// cwd nested under the home directory must map to /cwd, not
	// /userhome/project.
	m := sandbox.NewPathMap("/home/alice/project", "/home/alice", "/store")

	vp, err := m.ToVirtual("/home/alice/project/main.go")
	require.NoError(t, err)
	assert.Equal(t, "/cwd/main.go", vp)
}

func TestPathMapRejectsUnmappedPath(t *testing.T) {
	m := sandbox.NewPathMap("/cwd", "/home/alice", "/store")

	_, err := m.ToVirtual("/etc/passwd")
	require.ErrorIs(t, err, sandbox.ErrPathNotMapped)

	_, err = m.ToReal("/not-a-virtual-root/x")
	require.ErrorIs(t, err, sandbox.ErrPathNotMapped)
}

func TestPathMapExactRootTranslatesWithoutTrailingSlash(t *testing.T) {
	m := sandbox.NewPathMap("/cwd/real", "/home/alice", "/store")

	vp, err := m.ToVirtual("/cwd/real")
	require.NoError(t, err)
	assert.Equal(t, "/cwd", vp)

	real, err := m.ToReal("/cwd")
	require.NoError(t, err)
	assert.Equal(t, "/cwd/real", real)
}
