package shim

import (
	"errors"
	"fmt"
)

// ErrCyclicParent is returned when a shim's parent chain loops back on
// itself, per spec.md's "any parent reference that would recurse back
// to the current tool is treated as a configuration error."
var ErrCyclicParent = errors.New("cyclic shim parent chain")

// ResolveTarget follows shimName's registry entry to the tool whose
// installed version the shim should run against: itself, if it has no
// parent, or the terminal tool in its parent chain otherwise. The
// returned Entry is always shimName's own (its alt_bin/before_args/
// after_args/env_vars apply to the invocation regardless of which
// tool's install tree supplies the executable), per spec.md §4.7's
// four-step resolution ("read own name, look up entry, resolve parent
// chain if set, otherwise resolve the named tool directly").
//
// Grounded on original_source/crates/core/src/layout/shim_registry.rs's
// parent-chasing loop and spec.md's scenario 6 (npm's parent is node).
func ResolveTarget(registry *Registry, shimName string) (toolID string, entry Entry, err error) {
	entry, ok := registry.Get(shimName)
	if !ok {
		return shimName, Entry{}, nil
	}

	toolID = shimName
	visited := map[string]bool{shimName: true}
	current := entry

	for current.Parent != "" {
		if visited[current.Parent] {
			return "", Entry{}, fmt.Errorf("%w: %q", ErrCyclicParent, current.Parent)
		}
		visited[current.Parent] = true
		toolID = current.Parent

		next, ok := registry.Get(current.Parent)
		if !ok {
			break
		}
		current = next
	}

	return toolID, entry, nil
}
