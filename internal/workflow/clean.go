package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/moonrepo/protohost/internal/inventory"
	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/moonrepo/protohost/internal/shim"
)

// PurgeTool removes id's entire on-disk footprint: its inventory
// directory (every installed version and the manifest), its bin entry,
// and every shim registry entry that targets it directly or defers to
// it via Parent (e.g. purging "node" also drops "npm"/"npx"/"corepack"
// shims, since they'd otherwise resolve to a tool with nothing
// installed), per original_source/crates/cli/tests/clean_test.rs's
// purges_tool_inventory/purges_tool_bin/purges_tool_shims cases.
//
// Unless force is set, purging a tool other shims declare as their
// Parent is refused: those dependent shims would be left pointing at
// nothing. This is the uninstall-side half of this module's Open
// Question decision on purging a declared parent (see DESIGN.md);
// force lets a caller (e.g. `clean --purge --force`) override it
// deliberately.
func (e *Environment) PurgeTool(id protoid.ID, force bool) error {
	registry, err := shim.LoadRegistry(e.Store.ShimsDir)
	if err != nil {
		return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "loading shim registry").WithUnderlying(err)
	}

	dependents := registry.NamesWithParent(id.String())
	if len(dependents) > 0 && !force {
		return protoerr.New(protoerr.Configuration, protoerr.CodeDependentShims,
			fmt.Sprintf("%s is the parent of shim(s) %v; pass force to purge anyway", id, dependents)).
			WithContext(string(id))
	}

	if err := os.RemoveAll(e.Store.ToolDir(id)); err != nil {
		return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "purging tool directory").
			WithContext(string(id)).WithUnderlying(err)
	}

	for _, name := range binCandidates(id.String()) {
		_ = os.Remove(filepath.Join(e.Store.BinDir, name))
	}

	names := append(dependents, id.String())
	if _, err := shim.Remove(e.Store.ShimsDir, names); err != nil {
		return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "removing shim entries").
			WithContext(string(id)).WithUnderlying(err)
	}

	return nil
}

// PurgePlugins empties the plugin blob cache, forcing every plugin to
// be redownloaded on next use, per clean_test.rs's purges_plugins case.
func (e *Environment) PurgePlugins() error {
	entries, err := os.ReadDir(e.Store.PluginsDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "reading plugins directory").WithUnderlying(err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(e.Store.PluginsDir, entry.Name())); err != nil {
			return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "removing plugin blob").
				WithContext(entry.Name()).WithUnderlying(err)
		}
	}
	return nil
}

// StaleVersion names one installed version a CleanStale pass removed.
type StaleVersion struct {
	ToolID  string
	Version string
}

// CleanStale removes every installed version, across every tool in the
// store, whose UsedAt timestamp is older than olderThan (falling back
// to InstalledAt for a version that was never exec'd), skipping
// whichever version currently claims a tool's Default pin so a clean
// pass never removes the one a user explicitly chose.
func (e *Environment) CleanStale(olderThan time.Duration) ([]StaleVersion, error) {
	ids, err := e.Store.InstalledTools()
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-olderThan)
	var removed []StaleVersion
	for _, id := range ids {
		manifestPath := e.Store.ManifestPath(id)
		manifest, err := inventory.Load(manifestPath)
		if err != nil {
			return removed, protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "loading tool manifest").
				WithContext(string(id)).WithUnderlying(err)
		}

		dirty := false
		for key, iv := range manifest.Versions {
			if key == manifest.Default {
				continue
			}
			last := time.UnixMilli(iv.UsedAt)
			if iv.UsedAt == 0 {
				last = time.UnixMilli(iv.InstalledAt)
			}
			if last.After(cutoff) {
				continue
			}

			if err := os.RemoveAll(e.Store.VersionDir(id, key)); err != nil {
				return removed, protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "removing stale version").
					WithContext(fmt.Sprintf("%s@%s", id, key)).WithUnderlying(err)
			}
			delete(manifest.Versions, key)
			dirty = true
			removed = append(removed, StaleVersion{ToolID: string(id), Version: key})
		}

		if dirty {
			if err := inventory.Save(manifestPath, manifest); err != nil {
				return removed, err
			}
		}
	}

	return removed, nil
}

func binCandidates(name string) []string {
	if runtime.GOOS == "windows" {
		return []string{name, name + ".exe", name + ".cmd"}
	}
	return []string{name}
}
