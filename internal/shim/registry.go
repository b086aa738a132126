// Package shim manages the shim registry (shims/registry.json) and the
// launcher logic that resolves a shim invocation to a target tool
// executable, per spec.md §4.7 ("Shim Registry & Launcher").
//
// Grounded on
// original_source/crates/core/src/layout/shim_registry.rs's
// ShimRegistry/Shim/ShimsMap.
package shim

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
)

// Entry is one shim's launch configuration, keyed by shim name in the
// registry. Mirrors shim_registry.rs's Shim struct.
type Entry struct {
	// Parent names another shim whose resolved tool/version this shim
	// defers to, e.g. "npm"'s parent is "node". Empty means the shim
	// resolves its own tool id directly.
	Parent string `json:"parent,omitempty"`

	// AltBin selects the tool's secondary executable instead of its
	// primary one, when the plugin declares both (spec.md §4.4's
	// locate_executables secondary field).
	AltBin bool `json:"alt_bin,omitempty"`

	// BeforeArgs and AfterArgs are prepended/appended around the
	// caller's argv when spawning the target executable.
	BeforeArgs []string `json:"before_args,omitempty"`
	AfterArgs  []string `json:"after_args,omitempty"`

	// EnvVars are merged into the spawned child's environment.
	EnvVars map[string]string `json:"env_vars,omitempty"`
}

// Equal reports whether e and other describe the same launch
// configuration, used by Update to skip writing when nothing changed.
func (e Entry) Equal(other Entry) bool {
	if e.Parent != other.Parent || e.AltBin != other.AltBin {
		return false
	}
	if !stringsEqual(e.BeforeArgs, other.BeforeArgs) || !stringsEqual(e.AfterArgs, other.AfterArgs) {
		return false
	}
	if len(e.EnvVars) != len(other.EnvVars) {
		return false
	}
	for k, v := range e.EnvVars {
		if other.EnvVars[k] != v {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Registry is the shims/registry.json document: a name-sorted map of
// shim name to Entry. Mirrors shim_registry.rs's ShimsMap (a
// BTreeMap<String, Shim>, whose sorted iteration order we reproduce on
// marshal via MarshalJSON).
type Registry struct {
	entries map[string]Entry
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Get returns the entry for name, if registered.
func (r *Registry) Get(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Set registers or replaces the entry for name.
func (r *Registry) Set(name string, e Entry) {
	r.entries[name] = e
}

// Names returns every registered shim name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete removes name's entry, if present.
func (r *Registry) Delete(name string) {
	delete(r.entries, name)
}

// NamesWithParent returns every registered shim name whose Parent is
// target, so purging a tool can also drop the shims that defer to it
// (e.g. removing "node" should also drop "npm", "npx", "corepack").
func (r *Registry) NamesWithParent(target string) []string {
	var names []string
	for name, e := range r.entries {
		if e.Parent == target {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// MarshalJSON renders entries in sorted-key order, reproducing the
// Rust BTreeMap's deterministic iteration order.
func (r *Registry) MarshalJSON() ([]byte, error) {
	ordered := make(map[string]Entry, len(r.entries))
	for k, v := range r.entries {
		ordered[k] = v
	}
	// encoding/json already sorts map[string]V keys on marshal, so the
	// ordered copy alone is sufficient; no separate ordering step
	// needed beyond avoiding JSON marshaling r itself (which would
	// recurse through this method).
	return json.Marshal(ordered)
}

// UnmarshalJSON populates entries from a name->Entry object.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var m map[string]Entry
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.entries = m
	if r.entries == nil {
		r.entries = make(map[string]Entry)
	}
	return nil
}

// LoadRegistry reads shims/registry.json from shimsDir, returning an
// empty Registry (not an error) when it does not exist yet.
func LoadRegistry(shimsDir string) (*Registry, error) {
	path := registryPath(shimsDir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading shim registry %s: %w", path, err)
	}

	r := NewRegistry()
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing shim registry %s: %w", path, err)
	}
	return r, nil
}

// Update merges additions into the registry at shimsDir, writing the
// result only if something actually changed, mirroring
// shim_registry.rs's ShimRegistry::update ("only write if something
// actually changed"). Returns whether a write occurred.
func Update(shimsDir string, additions map[string]Entry) (bool, error) {
	path := registryPath(shimsDir)

	if err := os.MkdirAll(shimsDir, 0o755); err != nil {
		return false, fmt.Errorf("creating shims directory: %w", err)
	}

	fileLock := flock.New(path + ".lock")
	locked, err := fileLock.TryLock()
	if err != nil {
		return false, fmt.Errorf("locking shim registry %s: %w", path, err)
	}
	if !locked {
		return false, fmt.Errorf("shim registry %s is locked by another process", path)
	}
	defer fileLock.Unlock()

	registry, err := LoadRegistry(shimsDir)
	if err != nil {
		return false, err
	}

	changed := false
	for name, entry := range additions {
		if existing, ok := registry.Get(name); ok && existing.Equal(entry) {
			continue
		}
		registry.Set(name, entry)
		changed = true
	}
	if !changed {
		return false, nil
	}

	data, err := json.MarshalIndent(registry, "", "  ")
	if err != nil {
		return false, fmt.Errorf("encoding shim registry: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, fmt.Errorf("writing shim registry %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return false, fmt.Errorf("finalizing shim registry %s: %w", path, err)
	}
	return true, nil
}

// Remove drops names from the registry at shimsDir, writing the result
// only if something actually changed. Returns whether a write occurred.
func Remove(shimsDir string, names []string) (bool, error) {
	path := registryPath(shimsDir)

	fileLock := flock.New(path + ".lock")
	locked, err := fileLock.TryLock()
	if err != nil {
		return false, fmt.Errorf("locking shim registry %s: %w", path, err)
	}
	if !locked {
		return false, fmt.Errorf("shim registry %s is locked by another process", path)
	}
	defer fileLock.Unlock()

	registry, err := LoadRegistry(shimsDir)
	if err != nil {
		return false, err
	}

	changed := false
	for _, name := range names {
		if _, ok := registry.Get(name); ok {
			registry.Delete(name)
			changed = true
		}
	}
	if !changed {
		return false, nil
	}

	data, err := json.MarshalIndent(registry, "", "  ")
	if err != nil {
		return false, fmt.Errorf("encoding shim registry: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, fmt.Errorf("writing shim registry %s: %w", tmp, err)
	}
	return true, os.Rename(tmp, path)
}

func registryPath(shimsDir string) string {
	return filepath.Join(shimsDir, "registry.json")
}
