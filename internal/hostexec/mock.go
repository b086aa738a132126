package hostexec

import (
	"context"
	"fmt"
	"strings"
)

// MockRunner is a test double recording invocations and replaying
// canned results, keyed by command+args.
type MockRunner struct {
	results map[string]Result
	calls   []Call
}

// Call records one invocation against a MockRunner.
type Call struct {
	Command string
	Args    []string
}

// NewMockRunner constructs an empty MockRunner.
func NewMockRunner() *MockRunner {
	return &MockRunner{results: make(map[string]Result)}
}

// AddResult registers the result to return for command+args.
func (m *MockRunner) AddResult(command string, args []string, result Result) {
	m.results[key(command, args)] = result
}

// Run records the call and returns its registered result, or an error
// if none was registered.
func (m *MockRunner) Run(_ context.Context, command string, args ...string) (Result, error) {
	m.calls = append(m.calls, Call{Command: command, Args: args})

	if result, ok := m.results[key(command, args)]; ok {
		return result, nil
	}
	return Result{}, fmt.Errorf("no mock result registered for: %s %v", command, args)
}

// Calls returns every recorded invocation, in order.
func (m *MockRunner) Calls() []Call {
	return m.calls
}

func key(command string, args []string) string {
	return command + ":" + strings.Join(args, ":")
}

var _ Runner = (*MockRunner)(nil)
