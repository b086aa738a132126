package sandbox_test

import (
	"testing"
	"time"

	"github.com/moonrepo/protohost/internal/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRuntimeVersionAcceptsCurrentAndOlder(t *testing.T) {
	require.NoError(t, sandbox.CheckRuntimeVersion(0))
	require.NoError(t, sandbox.CheckRuntimeVersion(sandbox.RuntimeAPIVersion))
}

func TestCheckRuntimeVersionRejectsNewer(t *testing.T) {
	err := sandbox.CheckRuntimeVersion(sandbox.RuntimeAPIVersion + 1)
	require.ErrorIs(t, err, sandbox.ErrIncompatibleRuntime)
}

func TestCallTimeoutMatchesSpec(t *testing.T) {
	assert.Equal(t, 90*time.Second, sandbox.CallTimeout)
}
