package workflow

import (
	"context"
	"fmt"
	"os"

	"github.com/moonrepo/protohost/internal/hostexec"
	"github.com/moonrepo/protohost/internal/pluginloader"
	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/moonrepo/protohost/internal/sandbox"
)

// loadContainer resolves locatorStr to a cached `.wasm` module and
// compiles it into a fresh Container scoped to toolID, per spec.md
// §4.3/§4.4. The caller owns the returned Container's lifetime and
// must Close it.
func (e *Environment) loadContainer(ctx context.Context, id protoid.ID, locatorStr string, env map[string]string) (*sandbox.Container, error) {
	loc, err := pluginloader.ParseLocator(locatorStr)
	if err != nil {
		return nil, protoerr.New(protoerr.Plugin, protoerr.CodeLocatorInvalid, "parsing plugin locator").
			WithContext(locatorStr).WithUnderlying(err)
	}

	wasmPath, err := e.Plugins.Resolve(ctx, loc)
	if err != nil {
		return nil, protoerr.New(protoerr.Plugin, protoerr.CodeSourceFileMissing, "resolving plugin module").
			WithContext(locatorStr).WithUnderlying(err)
	}

	module, err := os.ReadFile(wasmPath)
	if err != nil {
		return nil, protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "reading plugin module").
			WithContext(wasmPath).WithUnderlying(err)
	}

	paths := sandbox.NewPathMap(e.Cwd, e.HomeDir, e.Store.Dir)
	container, err := sandbox.NewContainer(ctx, e.Runtime, sandbox.Plugin{ID: id, Module: module}, sandbox.Config{
		Paths:  paths,
		Env:    env,
		Logger: e.Logger,
		Runner: hostexec.NewRealRunner(),
		HTTP:   e.HTTP,
	})
	if err != nil {
		return nil, protoerr.New(protoerr.Plugin, protoerr.CodeFunctionCallFailure, "compiling plugin module").
			WithContext(string(id)).WithUnderlying(err)
	}
	return container, nil
}

// pluginLocator finds the locator string configured for toolID,
// erroring CodeUnknownPluginID if the cascade never names one.
func pluginLocator(plugins map[string]string, id protoid.ID) (string, error) {
	locator, ok := plugins[string(id)]
	if !ok {
		return "", protoerr.New(protoerr.Configuration, protoerr.CodeUnknownPluginID,
			fmt.Sprintf("no plugin configured for %q", id)).WithContext(string(id))
	}
	return locator, nil
}
