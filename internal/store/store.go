// Package store manages the on-disk layout rooted at PROTO_HOME: the
// bin, shims, plugins, tools, and temp directories, plus the
// store-wide persisted UUID used to tag machine-scoped lockfile
// metadata.
//
// Grounded on original_source/crates/core/src/layout/store.rs's
// `Store` type (dir/bin_dir/plugins_dir/shims_dir/temp_dir/products_dir
// and `load_uuid`), adapted to Go with `google/uuid` in place of the
// Rust crate's `uuid` crate.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/moonrepo/protohost/internal/protoid"
)

// EnvHome is the environment variable naming the store root.
const EnvHome = "PROTO_HOME"

const defaultDirName = ".proto"

// Store is the root of the on-disk layout under PROTO_HOME.
type Store struct {
	Dir        string
	BinDir     string
	ShimsDir   string
	PluginsDir string
	ToolsDir   string
	TempDir    string
}

// New constructs a Store rooted at dir. It does not create any
// directories; call EnsureDirs for that.
func New(dir string) *Store {
	return &Store{
		Dir:        dir,
		BinDir:     filepath.Join(dir, "bin"),
		ShimsDir:   filepath.Join(dir, "shims"),
		PluginsDir: filepath.Join(dir, "plugins"),
		ToolsDir:   filepath.Join(dir, "tools"),
		TempDir:    filepath.Join(dir, "temp"),
	}
}

// Detect resolves the store root from PROTO_HOME, falling back to
// "~/.proto" when unset.
func Detect() (*Store, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return New(dir), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return New(filepath.Join(home, defaultDirName)), nil
}

// EnsureDirs creates every directory in the layout, if missing.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.Dir, s.BinDir, s.ShimsDir, s.PluginsDir, s.ToolsDir, s.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// ToolDir returns the per-tool inventory directory for id.
func (s *Store) ToolDir(id protoid.ID) string {
	return filepath.Join(s.ToolsDir, id.String())
}

// VersionDir returns the unpacked-artifact directory for a specific
// installed version of id.
func (s *Store) VersionDir(id protoid.ID, version string) string {
	return filepath.Join(s.ToolDir(id), version)
}

// ManifestPath returns the per-tool manifest.json path.
func (s *Store) ManifestPath(id protoid.ID) string {
	return filepath.Join(s.ToolDir(id), "manifest.json")
}

// PluginBlobPath returns the cached WASM blob path for a locator hash.
func (s *Store) PluginBlobPath(locatorHash string) string {
	return filepath.Join(s.PluginsDir, locatorHash)
}

// InstalledTools lists every tool id with a directory under ToolsDir,
// for commands that operate across the whole inventory (clean, regen).
// Unreadable or non-directory entries are skipped rather than failing
// the whole scan.
func (s *Store) InstalledTools() ([]protoid.ID, error) {
	entries, err := os.ReadDir(s.ToolsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tools directory %s: %w", s.ToolsDir, err)
	}

	var ids []protoid.ID
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, err := protoid.New(entry.Name())
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// LoadUUID reads the store's persisted machine-scoped UUID, generating
// and persisting one on first use. Mirrors `Store::load_uuid` in the
// Rust crate.
func (s *Store) LoadUUID() (string, error) {
	idPath := filepath.Join(s.Dir, "id")

	if data, err := os.ReadFile(idPath); err == nil {
		return strings.TrimSpace(string(data)), nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("reading store id: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating store dir: %w", err)
	}
	if err := os.WriteFile(idPath, []byte(id), 0o644); err != nil {
		return "", fmt.Errorf("writing store id: %w", err)
	}
	return id, nil
}
