package lifecycle

import (
	"context"

	"github.com/felixgeelhaar/statekit"
	"github.com/moonrepo/protohost/internal/sandbox"
	"github.com/moonrepo/protohost/internal/version"
)

// PluginCaller is the subset of *sandbox.Container the lifecycle
// transitions depend on, narrowed to an interface so tests can drive
// the state machine against a fake plugin without compiling real WASM
// modules.
type PluginCaller interface {
	Call(ctx context.Context, export string, input, output any) error
	HasExport(ctx context.Context, fn string) (bool, error)
}

// Tool tracks one tool id's progress through the lifecycle state
// machine, accumulating the results of each transition as it advances.
// The state itself is owned by a statekit interpreter rather than a
// bare field; read it with State() and advance it by calling the
// matching transition function (Load, Resolve, ...).
type Tool struct {
	ID        string
	Container PluginCaller
	machine   *statekit.Interpreter[stepContext]

	// Populated by Load.
	Register sandbox.RegisterToolOutput

	// Populated by Resolve.
	Requested version.UnresolvedSpec
	Resolved  version.Spec

	// Populated by Download.
	InstallDir    string
	DownloadURL   string // source URL the artifact was fetched from, empty for native installs
	DownloadFile  string // absolute path to the downloaded artifact, empty for native installs
	ChecksumFile  string // absolute path to the downloaded checksum manifest, if any
	ChecksumURL   string
	PublicKey     string
	ArchivePrefix string
	NativeInstall bool // true when native_install handled download+unpack itself

	// Checksum is populated by Verify: the tagged "algorithm:hash" value
	// (internal/lockfile.Checksum) to record for this install, empty
	// when verification had nothing to compute a hash from (e.g. a
	// plugin-owned verify_checksum that didn't report one).
	Checksum string

	// Populated by Locate. Primary/Secondary are absolute paths once
	// resolved, empty when the plugin declared none.
	Primary           string
	Secondary         string
	GlobalsLookupDirs []string
	GlobalsPrefix     string
}

// NewTool constructs a Tool in its initial Unloaded state.
func NewTool(id string, container PluginCaller) *Tool {
	return &Tool{ID: id, Container: container, machine: newMachine(Unloaded)}
}

// NewToolAt constructs a Tool whose lifecycle machine is seeded
// directly at state, for callers that already know a tool reached
// that point in a prior process — regen rebuilding shim/bin entries
// from an already-installed manifest, without a plugin container to
// replay Load/Resolve/... against.
func NewToolAt(id string, container PluginCaller, state State) *Tool {
	return &Tool{ID: id, Container: container, machine: newMachine(state)}
}

// State reports t's current position in the lifecycle.
func (t *Tool) State() State {
	return State(t.machine.State().Value)
}

// SeekTo forcibly reseeds t's machine at state, bypassing every event
// in between. Exported for tests that want to start a transition
// already past earlier steps without replaying the plugin calls that
// got it there.
func (t *Tool) SeekTo(state State) {
	t.machine = newMachine(state)
}

// advance sends ev to record that the transition calling it has
// completed its real work.
func (t *Tool) advance(ev statekit.EventType) {
	t.machine.Send(statekit.Event{Type: ev})
}
