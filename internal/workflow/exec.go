package workflow

import (
	"context"
	"os"
	"time"

	"github.com/moonrepo/protohost/internal/inventory"
	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/moonrepo/protohost/internal/shim"
	"github.com/moonrepo/protohost/internal/version"
)

// Exec resolves toolID's pinned or default installed version and runs
// its primary (or secondary, if altBin) executable with args, relaying
// stdio and the process's exit code, per spec.md's exec/run operation.
// pinnedSpec may be empty, in which case the manifest's Default (or, if
// that's also unset, the "*" bucket) is used.
func (e *Environment) Exec(ctx context.Context, id protoid.ID, pinnedSpec string, altBin bool, args []string, extraEnv map[string]string) (int, error) {
	executable, key, manifestPath, manifest, err := e.resolveToolExecutable(id, pinnedSpec, altBin)
	if err != nil {
		return -1, err
	}

	env := shim.MergeEnv(shim.EnvMap(os.Environ()), shim.Entry{EnvVars: extraEnv})

	manifest.Touch(mustSpec(key), time.Now())
	_ = inventory.Save(manifestPath, manifest)

	return shim.Run(ctx, executable, args, env, e.Cwd)
}

// BinPath resolves id's pinned or default installed executable without
// running it, for the `bin` subcommand.
func (e *Environment) BinPath(id protoid.ID, pinnedSpec string, altBin bool) (string, error) {
	executable, _, _, _, err := e.resolveToolExecutable(id, pinnedSpec, altBin)
	return executable, err
}

// resolveToolExecutable finds the on-disk binary a direct exec/bin
// lookup should use: id's pinned spec if given, else the manifest
// default, else whatever occupies the "*" bin bucket.
func (e *Environment) resolveToolExecutable(id protoid.ID, pinnedSpec string, altBin bool) (executable, key, manifestPath string, manifest *inventory.Manifest, err error) {
	manifestPath = e.Store.ManifestPath(id)
	manifest, err = inventory.Load(manifestPath)
	if err != nil {
		return "", "", "", nil, protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "loading tool manifest").
			WithContext(string(id)).WithUnderlying(err)
	}

	key = pinnedSpec
	if key == "" {
		key = manifest.Default
	}
	if key == "" {
		bm, bmErr := inventory.BuildBinManager(manifest)
		if bmErr != nil {
			return "", "", "", nil, bmErr
		}
		if v, ok := bm.Resolve("*"); ok {
			key = v.String()
		}
	}
	if key != "" {
		if spec, parseErr := version.Parse(key); parseErr == nil {
			key = spec.String()
		}
	}

	iv, ok := manifest.Versions[key]
	if !ok {
		return "", "", "", nil, protoerr.New(protoerr.Install, protoerr.CodeMissingExecutable,
			"no installed version resolves for "+string(id)).WithContext(string(id))
	}

	executable = iv.Primary
	if altBin && iv.Secondary != "" {
		executable = iv.Secondary
	}
	if executable == "" {
		return "", "", "", nil, protoerr.New(protoerr.Install, protoerr.CodeMissingExecutable,
			"resolved version has no located executable").WithContext(string(id))
	}

	return executable, key, manifestPath, manifest, nil
}

func mustSpec(s string) version.Spec {
	spec, err := version.Parse(s)
	if err != nil {
		return version.Spec{Kind: version.KindAlias, Alias: s}
	}
	return spec
}
