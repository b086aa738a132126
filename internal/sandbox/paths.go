// Package sandbox hosts one tool id's WASM plugin per spec.md §4.4: a
// wazero-backed container with a virtual-path filesystem sandbox, an
// HTTP egress allowlist, a scoped environment, and a 90-second
// per-call timeout, exposing the host functions of §4.5.
//
// Adapted from the teacher's internal/domain/sandbox package
// (felixgeelhaar-preflight's WazeroRuntime/WazeroSandbox), generalized
// from its capability-policy model (the teacher gates host functions
// on a *capability.Policy; this spec has no such policy object, so the
// container instead enforces the three boundaries spec.md §4.4 itself
// names: virtual paths, the HTTP allowlist, and the call timeout).
package sandbox

import (
	"fmt"
	"strings"
)

// ErrPathNotMapped is returned when a real or virtual path falls
// outside every entry of a PathMap.
var ErrPathNotMapped = fmt.Errorf("path not mapped into sandbox")

// pathEntry pairs one virtual path prefix with the real host path it
// stands in for.
type pathEntry struct {
	virtual string
	real    string
}

// PathMap translates between real host paths and the virtual paths a
// plugin sees, in both directions, per spec.md §4.4: "Plugins never
// see or emit real paths; every filesystem-touching input/output is a
// virtual path, converted on both boundaries."
//
// Grounded on the teacher's internal/domain/platform.PathTranslator,
// which rewrites paths between a real Windows path and its WSL mount
// equivalent by prefix; the same prefix-rewrite idiom generalizes here
// from a single Windows/WSL pair to the three standing entries
// spec.md §4.4 names (user home, store root, cwd).
type PathMap struct {
	entries []pathEntry
}

// NewPathMap builds the container's standard mapping: the current
// working directory to /cwd, the user's home directory to /userhome,
// and the store root to /proto. Entries are checked longest-real-path
// first so a cwd nested under the home directory maps to /cwd rather
// than a /userhome sub-path.
func NewPathMap(cwd, userHome, storeRoot string) *PathMap {
	entries := []pathEntry{
		{virtual: "/cwd", real: cwd},
		{virtual: "/userhome", real: userHome},
		{virtual: "/proto", real: storeRoot},
	}

	// Longest real path first, so the most specific mapping wins when
	// one real path is nested inside another (e.g. cwd under home).
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && len(entries[j].real) > len(entries[j-1].real); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}

	return &PathMap{entries: entries}
}

// ToVirtual converts a real host path to its virtual form.
func (m *PathMap) ToVirtual(real string) (string, error) {
	for _, e := range m.entries {
		if e.real == "" {
			continue
		}
		if real == e.real {
			return e.virtual, nil
		}
		if strings.HasPrefix(real, e.real+"/") {
			return e.virtual + strings.TrimPrefix(real, e.real), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrPathNotMapped, real)
}

// ToReal converts a virtual path back to its real host form.
func (m *PathMap) ToReal(virtual string) (string, error) {
	for _, e := range m.entries {
		if virtual == e.virtual {
			return e.real, nil
		}
		if strings.HasPrefix(virtual, e.virtual+"/") {
			return e.real + strings.TrimPrefix(virtual, e.virtual), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrPathNotMapped, virtual)
}
