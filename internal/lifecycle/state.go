// Package lifecycle implements the per-tool install state machine, per
// spec.md §4.6: Unloaded → Loaded → Resolved → Downloaded → Verified →
// Installed → Located → Linked. Every transition function is
// idempotent: re-entering a state whose work has already been recorded
// on the Tool is a no-op.
//
// The machine itself is driven by github.com/felixgeelhaar/statekit,
// the teacher's own state-machine library (internal/domain/agent/agent.go:
// statekit.NewMachine[Context], named states, On/Target transitions,
// OnEntry actions). This package is a linear, idempotent pipeline
// rather than the teacher's reactive agent loop, so it needs none of
// statekit's OnEntry actions or After() timers: every Tool owns an
// Interpreter seeded at its current position, and each lifecycle
// function (Load, Resolve, Download, ...) does its real work first and
// only then Sends the matching event to record the advance — mirroring
// agent.go's split between buildAgentMachine (the transition table)
// and triggerReconciliation (do the work, then tell the machine it
// happened).
//
// Grounded on spec.md §4.6's transition list for the state names and
// original_source/crates/core/src/tool.rs's setup/teardown sequencing
// (register → resolve → download → verify → unpack → locate → create
// links) that spec.md §4.6 distills; grounded on the teacher's
// internal/domain/agent/agent.go for the statekit wiring idiom itself.
package lifecycle

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State names a position in the tool lifecycle, matching the Value
// field statekit.Interpreter.State() reports.
type State string

const (
	Unloaded   State = "unloaded"
	Loaded     State = "loaded"
	Resolved   State = "resolved"
	Downloaded State = "downloaded"
	Verified   State = "verified"
	Installed  State = "installed"
	Located    State = "located"
	Linked     State = "linked"
)

func (s State) String() string {
	return string(s)
}

var stateRank = map[State]int{
	Unloaded:   0,
	Loaded:     1,
	Resolved:   2,
	Downloaded: 3,
	Verified:   4,
	Installed:  5,
	Located:    6,
	Linked:     7,
}

// atLeast reports whether s has progressed to or past target.
func (s State) atLeast(target State) bool {
	return stateRank[s] >= stateRank[target]
}

// Events, one per lifecycle transition function, named the way
// agent.go names its EventStart/EventStop/... constants.
const (
	eventLoad     statekit.EventType = "LOAD"
	eventResolve  statekit.EventType = "RESOLVE"
	eventDownload statekit.EventType = "DOWNLOAD"
	eventVerify   statekit.EventType = "VERIFY"
	eventUnpack   statekit.EventType = "UNPACK"
	eventLocate   statekit.EventType = "LOCATE"
	eventLink     statekit.EventType = "LINK"
)

// stepContext is the statekit context type for the lifecycle machine.
// It carries nothing: every transition's output lives on Tool itself
// (Register, Resolved, DownloadFile, ...), so the machine's only job
// is tracking which step a Tool has reached.
type stepContext struct{}

// newMachine builds the linear lifecycle machine seeded at initial.
// Seeding at a state other than Unloaded is not a special escape
// hatch — WithInitial is statekit's ordinary entry point — and lets a
// Tool be reconstructed mid-pipeline (regen rebuilding shim/bin
// entries from an already-installed manifest; tests exercising one
// transition without replaying every earlier plugin call).
func newMachine(initial State) *statekit.Interpreter[stepContext] {
	machine, err := statekit.NewMachine[stepContext]("tool-lifecycle").
		WithInitial(string(initial)).
		WithContext(stepContext{}).
		State(string(Unloaded)).On(eventLoad).Target(string(Loaded)).Done().
		State(string(Loaded)).On(eventResolve).Target(string(Resolved)).Done().
		State(string(Resolved)).On(eventDownload).Target(string(Downloaded)).Done().
		State(string(Downloaded)).On(eventVerify).Target(string(Verified)).Done().
		State(string(Verified)).On(eventUnpack).Target(string(Installed)).Done().
		State(string(Installed)).On(eventLocate).Target(string(Located)).Done().
		State(string(Located)).On(eventLink).Target(string(Linked)).Done().
		State(string(Linked)).Done().
		Build()
	if err != nil {
		panic(fmt.Sprintf("lifecycle: invalid state machine definition: %v", err))
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return interp
}
