package workflow

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/moonrepo/protohost/internal/inventory"
	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/moonrepo/protohost/internal/shim"
)

// ExecShim is cmd/proto-shim's entry point into the workflow layer: it
// takes the shim name a launcher invocation resolved from its own
// argv[0] (via shim.ProgramName) and runs the target tool's
// executable, following a `parent` chain when the shim's registry
// entry declares one, per spec.md §4.7.
func (e *Environment) ExecShim(ctx context.Context, shimName string, args []string, extraEnv map[string]string) (int, error) {
	registry, err := shim.LoadRegistry(e.Store.ShimsDir)
	if err != nil {
		return -1, protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "loading shim registry").
			WithContext(shimName).WithUnderlying(err)
	}

	toolIDStr, entry, err := shim.ResolveTarget(registry, shimName)
	if err != nil {
		return -1, protoerr.New(protoerr.Configuration, protoerr.CodeDependentShims,
			"resolving shim parent chain").WithContext(shimName).WithUnderlying(err)
	}

	id, err := protoid.New(toolIDStr)
	if err != nil {
		return -1, protoerr.New(protoerr.Configuration, protoerr.CodeUnknownPluginID,
			"shim target is not a valid tool id").WithContext(toolIDStr).WithUnderlying(err)
	}

	manifestPath := e.Store.ManifestPath(id)
	manifest, err := inventory.Load(manifestPath)
	if err != nil {
		return -1, protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "loading tool manifest").
			WithContext(string(id)).WithUnderlying(err)
	}

	key := manifest.Default
	if key == "" {
		bm, err := inventory.BuildBinManager(manifest)
		if err != nil {
			return -1, err
		}
		if v, ok := bm.Resolve("*"); ok {
			key = v.String()
		}
	}
	if key == "" {
		return -1, protoerr.New(protoerr.Install, protoerr.CodeMissingExecutable,
			"no installed version resolves for "+string(id)).WithContext(string(id))
	}

	executable, err := e.resolveShimExecutable(id, key, shimName, toolIDStr, entry, manifest)
	if err != nil {
		return -1, err
	}

	env := shim.MergeEnv(shim.EnvMap(os.Environ()), entry)
	env = shim.MergeEnv(env, shim.Entry{EnvVars: extraEnv})
	callArgs := shim.BuildArgs(entry, args)

	manifest.Touch(mustSpec(key), time.Now())
	_ = inventory.Save(manifestPath, manifest)

	return shim.Run(ctx, executable, callArgs, env, e.Cwd)
}

// resolveShimExecutable finds the on-disk binary a shim invocation
// should spawn: the target tool's own located Primary/Secondary when
// the shim has no parent, or a same-named binary inside the parent
// tool's install tree when it does (npm living inside node's install,
// per spec.md's scenario 6).
func (e *Environment) resolveShimExecutable(id protoid.ID, key, shimName, toolIDStr string, entry shim.Entry, manifest *inventory.Manifest) (string, error) {
	if toolIDStr == shimName {
		iv, ok := manifest.Versions[key]
		if !ok {
			return "", protoerr.New(protoerr.Install, protoerr.CodeMissingExecutable,
				"resolved version is not installed").WithContext(string(id))
		}
		executable := iv.Primary
		if entry.AltBin && iv.Secondary != "" {
			executable = iv.Secondary
		}
		if executable == "" {
			return "", protoerr.New(protoerr.Install, protoerr.CodeMissingExecutable,
				"resolved version has no located executable").WithContext(string(id))
		}
		return executable, nil
	}

	installDir := e.Store.VersionDir(id, key)
	candidates := []string{shimName}
	if runtime.GOOS == "windows" {
		candidates = append(candidates, shimName+".cmd", shimName+".exe")
	}
	executable, err := shim.ResolveExecutable(installDir, candidates, candidates, entry.AltBin)
	if err != nil {
		return "", protoerr.New(protoerr.Install, protoerr.CodeMissingExecutable,
			"resolving shim executable within parent install").WithContext(shimName).WithUnderlying(err)
	}
	return executable, nil
}
