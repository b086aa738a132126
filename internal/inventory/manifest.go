// Package inventory manages the per-tool manifest.json (installed
// versions, default, aliases, per-version timestamps) and the bucketed
// bin-manager view over it, per spec.md §3 ("Inventory") and §4.8
// ("Bin Manager").
//
// Grounded on original_source/crates/core/src/tool_manifest.rs's
// ToolManifest (a JSON document holding installed_versions, aliases,
// and per-version metadata) and
// original_source/crates/core/src/layout/bin_manager.rs's BinManager,
// translated from Rust's FxHashMap/FxHashSet to plain Go maps — the
// manifest is per-tool and single-writer-at-a-time under the advisory
// lock, so there is no concurrency benefit to a faster hash map here.
package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/moonrepo/protohost/internal/version"
)

// InstalledVersion records one installed spec's lifecycle timestamps
// and the executable paths locate_executables resolved for it, so a
// later exec/run doesn't need to reload the tool's plugin just to find
// its binary again.
type InstalledVersion struct {
	InstalledAt int64  `json:"installed_at"` // ms since epoch
	UsedAt      int64  `json:"used_at"`      // ms since epoch, updated on exec
	Suffix      string `json:"suffix,omitempty"`
	Primary     string `json:"primary,omitempty"`
	Secondary   string `json:"secondary,omitempty"`
}

// Manifest is the per-tool manifest.json document.
type Manifest struct {
	// Default is the tool's global/default unresolved spec, if pinned.
	Default string `json:"default,omitempty"`

	// Aliases maps a user-defined alias name to an unresolved spec
	// string. Per spec.md §3, these merge with plugin-provided aliases
	// with the user's definition winning.
	Aliases map[string]string `json:"aliases"`

	// Versions maps each installed spec's canonical string to its
	// timestamps.
	Versions map[string]InstalledVersion `json:"versions"`
}

// New constructs an empty Manifest.
func New() *Manifest {
	return &Manifest{
		Aliases:  make(map[string]string),
		Versions: make(map[string]InstalledVersion),
	}
}

// Load reads the manifest at path, returning an empty Manifest (not an
// error) when the file does not exist yet, mirroring
// internal/lockfile.Load's missing-file convention.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	m := New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if m.Aliases == nil {
		m.Aliases = make(map[string]string)
	}
	if m.Versions == nil {
		m.Versions = make(map[string]InstalledVersion)
	}
	return m, nil
}

// Save writes m to path atomically, guarded by a per-tool advisory
// file lock, per spec.md §5: "Inventory manifest mutations for a given
// tool are serialized by a per-tool in-process lock; processes
// cooperate via an advisory lock on the manifest file."
func Save(path string, m *Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}

	fileLock := flock.New(path + ".lock")
	locked, err := fileLock.TryLock()
	if err != nil {
		return fmt.Errorf("locking manifest %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("manifest %s is locked by another process", path)
	}
	defer fileLock.Unlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalizing manifest %s: %w", path, err)
	}
	return nil
}

// AddVersion records spec as installed, stamping its install time now.
func (m *Manifest) AddVersion(spec version.Spec, now time.Time) {
	key := spec.String()
	iv := m.Versions[key]
	iv.InstalledAt = now.UnixMilli()
	iv.UsedAt = now.UnixMilli()
	m.Versions[key] = iv
}

// RemoveVersion removes spec from the installed set, reporting whether
// it was present.
func (m *Manifest) RemoveVersion(spec version.Spec) bool {
	key := spec.String()
	if _, ok := m.Versions[key]; !ok {
		return false
	}
	delete(m.Versions, key)
	return true
}

// Touch updates spec's last-used timestamp, called on every exec.
func (m *Manifest) Touch(spec version.Spec, now time.Time) {
	key := spec.String()
	iv := m.Versions[key]
	iv.UsedAt = now.UnixMilli()
	m.Versions[key] = iv
}

// InstalledSpecs returns every installed spec, sorted descending by
// version (aliases and canary sort after all semantic/calendar specs
// in descending string order, since they have no numeric ordering).
func (m *Manifest) InstalledSpecs() ([]version.Spec, error) {
	specs := make([]version.Spec, 0, len(m.Versions))
	for raw := range m.Versions {
		spec, err := version.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing installed version %q: %w", raw, err)
		}
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool {
		return specLess(specs[j], specs[i])
	})
	return specs, nil
}

func specLess(a, b version.Spec) bool {
	if a.Kind == version.KindSemantic || a.Kind == version.KindCalendar {
		if b.Kind == version.KindSemantic || b.Kind == version.KindCalendar {
			return version.Compare(a.Version, b.Version) < 0
		}
		return false
	}
	if b.Kind == version.KindSemantic || b.Kind == version.KindCalendar {
		return true
	}
	return a.String() < b.String()
}
