// Package lockfile reads and writes the `.protolock` TOML file: one
// record per installed tool version, recording the requested spec, the
// resolved version, where it came from, and its checksum, so that a
// later install on another machine (or offline) can reproduce it
// exactly.
//
// Grounded on spec.md §6's literal format (`[[tools.<id>]]` arrays of
// `{ spec, version, source, checksum }`) and on
// original_source/crates/core/src/lockfile/v1.rs for the checksum tag
// encoding (`algorithm:hash`, e.g. "sha256:abcd..." or
// "minisign:base64...") and record shape; the teacher has no lockfile
// concept to adapt (its closest analog, internal/domain/lock, tracks
// dotfile package installs rather than tool-version provenance, and has
// since been removed — see DESIGN.md).
package lockfile

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the lockfile's name at the project root.
const FileName = ".protolock"

// Checksum is a tagged checksum value, "algorithm:hash".
type Checksum string

// NewChecksum constructs a tagged checksum from an algorithm name and hex digest.
func NewChecksum(algorithm, hash string) Checksum {
	return Checksum(fmt.Sprintf("%s:%s", algorithm, hash))
}

// Record is one installed-version entry.
type Record struct {
	Spec     string `toml:"spec"`
	Version  string `toml:"version"`
	Source   string `toml:"source"`
	Checksum string `toml:"checksum,omitempty"`
}

// Lockfile is the full `.protolock` document.
type Lockfile struct {
	Tools map[string][]Record `toml:"tools"`
}

// New constructs an empty Lockfile.
func New() *Lockfile {
	return &Lockfile{Tools: make(map[string][]Record)}
}

// Load reads and parses the lockfile at path. A missing file is not an
// error: it returns an empty Lockfile so first-run installs work.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading lockfile %s: %w", path, err)
	}

	lf := New()
	if err := toml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing lockfile %s: %w", path, err)
	}
	if lf.Tools == nil {
		lf.Tools = make(map[string][]Record)
	}
	return lf, nil
}

// Add records (or replaces) the entry for toolID+version. Existing
// entries for the same version are replaced in place; others are
// preserved, keeping the slice sorted by version string (lexical order,
// not semantic-version order) for stable diffs.
func (lf *Lockfile) Add(toolID string, rec Record) {
	records := lf.Tools[toolID]
	for i, existing := range records {
		if existing.Version == rec.Version {
			records[i] = rec
			lf.Tools[toolID] = records
			return
		}
	}
	records = append(records, rec)
	sort.Slice(records, func(i, j int) bool { return records[i].Version < records[j].Version })
	lf.Tools[toolID] = records
}

// Remove deletes the entry for toolID+version, if present.
func (lf *Lockfile) Remove(toolID, version string) {
	records := lf.Tools[toolID]
	filtered := records[:0]
	for _, r := range records {
		if r.Version != version {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		delete(lf.Tools, toolID)
		return
	}
	lf.Tools[toolID] = filtered
}

// Find returns the record for toolID+version, if present.
func (lf *Lockfile) Find(toolID, version string) (Record, bool) {
	for _, r := range lf.Tools[toolID] {
		if r.Version == version {
			return r, true
		}
	}
	return Record{}, false
}

// Save serializes the lockfile atomically (write to a temp file,
// rename over the target), holding an advisory file lock for the
// duration, per SPEC_FULL.md §5 ("lockfile mutations are serialized by
// a file lock held for the duration of a single write").
func Save(path string, lf *Lockfile) error {
	lockPath := path + ".lock"
	fileLock := flock.New(lockPath)

	locked, err := fileLock.TryLockContext(context.Background(), 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("locking %s: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("could not acquire lock on %s", lockPath)
	}
	defer fileLock.Unlock()

	data, err := toml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("encoding lockfile: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp lockfile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming lockfile into place: %w", err)
	}
	return nil
}
