package workflow

import (
	"github.com/moonrepo/protohost/internal/inventory"
	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/moonrepo/protohost/internal/version"
)

// ListInstalled returns every version installed for toolID, newest
// first, per spec.md's list operation.
func (e *Environment) ListInstalled(id protoid.ID) ([]version.Spec, error) {
	manifest, err := inventory.Load(e.Store.ManifestPath(id))
	if err != nil {
		return nil, protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "loading tool manifest").
			WithContext(string(id)).WithUnderlying(err)
	}
	return manifest.InstalledSpecs()
}

// Status reports a tool's manifest default and bin-manager buckets,
// per spec.md's status operation.
type Status struct {
	ToolID  protoid.ID
	Default string
	Buckets map[inventory.BinBucket]version.Spec
}

// ToolStatus assembles id's Status from its on-disk manifest.
func (e *Environment) ToolStatus(id protoid.ID) (*Status, error) {
	manifest, err := inventory.Load(e.Store.ManifestPath(id))
	if err != nil {
		return nil, protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "loading tool manifest").
			WithContext(string(id)).WithUnderlying(err)
	}
	bm, err := inventory.BuildBinManager(manifest)
	if err != nil {
		return nil, err
	}
	return &Status{ToolID: id, Default: manifest.Default, Buckets: bm.Buckets()}, nil
}
