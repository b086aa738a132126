package workflow

import (
	"github.com/moonrepo/protohost/internal/inventory"
	"github.com/moonrepo/protohost/internal/lifecycle"
	"github.com/moonrepo/protohost/internal/protoerr"
)

// Regen rewrites the shim registry and bin-directory symlinks for
// every installed tool from its current manifest, without touching any
// plugin or re-running installation. Useful after the shared
// proto-shim binary moves or a manifest is hand-edited, mirroring
// spec.md §4.7's "the shim itself is written once per host" model: the
// registry and bin entries are cheap to regenerate because they only
// ever point at that one binary.
func (e *Environment) Regen() ([]string, error) {
	ids, err := e.Store.InstalledTools()
	if err != nil {
		return nil, err
	}

	var regenerated []string
	for _, id := range ids {
		manifest, err := inventory.Load(e.Store.ManifestPath(id))
		if err != nil {
			return regenerated, protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "loading tool manifest").
				WithContext(string(id)).WithUnderlying(err)
		}
		if len(manifest.Versions) == 0 {
			continue
		}

		isDefault := manifest.Default != ""
		if !isDefault {
			bm, err := inventory.BuildBinManager(manifest)
			if err != nil {
				return regenerated, err
			}
			_, isDefault = bm.Resolve("*")
		}

		t := lifecycle.NewToolAt(id.String(), nil, lifecycle.Located)
		if err := lifecycle.Link(t, e.Store.ShimsDir, e.Store.BinDir, isDefault); err != nil {
			return regenerated, err
		}
		regenerated = append(regenerated, string(id))
	}

	return regenerated, nil
}
