package workflow

import (
	"os"
	"path/filepath"

	"github.com/moonrepo/protohost/internal/inventory"
	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/moonrepo/protohost/internal/version"
)

// Uninstall removes toolID's installed versionSpec from disk, updates
// its manifest and bin-manager buckets, and — if no installed version
// still occupies the "*" bucket — removes the tool's bin-directory
// entry, per spec.md §4.6's teardown being the lifecycle's forward
// transitions run in reverse for a single version.
func (e *Environment) Uninstall(id protoid.ID, versionSpec string) error {
	spec, err := version.Parse(versionSpec)
	if err != nil {
		return protoerr.New(protoerr.Version, protoerr.CodeInvalidVersionSpec, "parsing version to uninstall").
			WithContext(versionSpec).WithUnderlying(err)
	}

	manifestPath := e.Store.ManifestPath(id)
	manifest, err := inventory.Load(manifestPath)
	if err != nil {
		return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "loading tool manifest").
			WithContext(manifestPath).WithUnderlying(err)
	}

	if !manifest.RemoveVersion(spec) {
		return protoerr.New(protoerr.Install, protoerr.CodeMissingExecutable,
			"version is not installed").WithContext(spec.String())
	}
	if manifest.Default == spec.String() {
		manifest.Default = ""
	}

	installDir := e.Store.VersionDir(id, spec.String())
	if err := os.RemoveAll(installDir); err != nil {
		return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "removing install directory").
			WithContext(installDir).WithUnderlying(err)
	}

	if err := inventory.Save(manifestPath, manifest); err != nil {
		return protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "saving tool manifest").
			WithContext(manifestPath).WithUnderlying(err)
	}

	bm, err := inventory.BuildBinManager(manifest)
	if err != nil {
		return err
	}
	if _, stillDefault := bm.Resolve("*"); !stillDefault {
		binPath := filepath.Join(e.Store.BinDir, string(id))
		_ = os.Remove(binPath)
	}

	return nil
}
