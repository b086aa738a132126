package sandbox

import (
	"errors"
	"fmt"
	"time"

	"github.com/moonrepo/protohost/internal/hostexec"
	"github.com/moonrepo/protohost/internal/httpclient"
	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/moonrepo/protohost/internal/protolog"
)

// CallTimeout is the per-export-call timeout mandated by spec.md §4.4
// ("a 90-second per-call timeout").
const CallTimeout = 90 * time.Second

// RuntimeAPIVersion is this container's own runtime API version.
// register_tool outputs declaring a minimum_runtime_version greater
// than this are rejected, per spec.md §4.4: "The container rejects
// outputs whose declared runtime API version exceeds its own."
const RuntimeAPIVersion = 1

var (
	// ErrPluginInvalid is returned when a module fails to compile.
	ErrPluginInvalid = errors.New("plugin module invalid")
	// ErrSandboxTimeout is returned when an export call exceeds its
	// per-call timeout.
	ErrSandboxTimeout = errors.New("plugin call exceeded its timeout")
	// ErrSandboxUnavailable is returned once the runtime has been closed.
	ErrSandboxUnavailable = errors.New("sandbox runtime unavailable")
	// ErrExportNotFound is returned by Call when the guest module does
	// not export the requested function; callers treat this as "this
	// plugin doesn't implement the optional export."
	ErrExportNotFound = errors.New("export not found in plugin module")
	// ErrIncompatibleRuntime is returned when a plugin declares a
	// minimum_runtime_version this host does not satisfy.
	ErrIncompatibleRuntime = errors.New("plugin requires a newer runtime API version than this host supports")
)

// CheckRuntimeVersion rejects minimum when it exceeds RuntimeAPIVersion.
func CheckRuntimeVersion(minimum int) error {
	if minimum > RuntimeAPIVersion {
		return fmt.Errorf("%w: plugin requires %d, host supports %d", ErrIncompatibleRuntime, minimum, RuntimeAPIVersion)
	}
	return nil
}

// Config configures a Container for one tool id's plugin.
type Config struct {
	// Paths is the virtual path mapping exposed to the guest.
	Paths *PathMap

	// Timeout bounds each export call; zero means CallTimeout.
	Timeout time.Duration

	// Env is the scoped environment map mediated by get_env_var /
	// set_env_var, independent of the host process environment, per
	// spec.md §4.5.
	Env map[string]string

	Logger protolog.Logger
	Runner hostexec.Runner
	HTTP   *httpclient.Client
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return CallTimeout
}

// Plugin is a loaded WASM module ready to be containerized.
type Plugin struct {
	ID     protoid.ID
	Module []byte
}
