package workflow

import (
	"context"
	"path/filepath"
	"time"

	"github.com/moonrepo/protohost/internal/hostenv"
	"github.com/moonrepo/protohost/internal/inventory"
	"github.com/moonrepo/protohost/internal/lifecycle"
	"github.com/moonrepo/protohost/internal/lockfile"
	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/moonrepo/protohost/internal/sandbox"
	"github.com/moonrepo/protohost/internal/version"
)

// InstallResult is the outcome of one successful install.
type InstallResult struct {
	ToolID   protoid.ID
	Resolved version.Spec
	Primary  string
}

// InstallTool drives toolID's plugin through every lifecycle
// transition and persists the result into its inventory manifest and
// the project lockfile, per spec.md §4.6. It takes an
// already-constructed PluginCaller so it can be exercised in tests
// without a real WASM module, mirroring internal/lifecycle's own
// PluginCaller narrowing.
func (e *Environment) InstallTool(
	ctx context.Context,
	id protoid.ID,
	container lifecycle.PluginCaller,
	requested version.UnresolvedSpec,
	userAliases map[string]string,
	scopedEnv map[string]string,
	isDefault bool,
) (*InstallResult, error) {
	tool := lifecycle.NewTool(string(id), container)

	info := hostenv.Detect()
	host := sandbox.RegisterHost{OS: info.OS, Arch: info.Arch, Libc: string(info.Libc), Home: e.HomeDir}
	if err := lifecycle.Load(ctx, tool, host); err != nil {
		return nil, err
	}

	if err := lifecycle.Resolve(ctx, tool, requested, userAliases, e.Offline); err != nil {
		return nil, err
	}

	manifestPath := e.Store.ManifestPath(id)
	manifest, err := inventory.Load(manifestPath)
	if err != nil {
		return nil, protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "loading tool manifest").
			WithContext(manifestPath).WithUnderlying(err)
	}

	lockPath := e.lockfilePath()
	lf, err := lockfile.Load(lockPath)
	if err != nil {
		return nil, protoerr.New(protoerr.IO, protoerr.CodeSerde, "loading lockfile").
			WithContext(lockPath).WithUnderlying(err)
	}

	installDir := e.Store.VersionDir(id, tool.Resolved.String())
	if err := lifecycle.Download(ctx, tool, installDir, e.Store.TempDir, scopedEnv, e.HTTP); err != nil {
		return nil, err
	}

	if err := lifecycle.Verify(ctx, tool, lf); err != nil {
		return nil, err
	}

	if err := lifecycle.Unpack(ctx, tool); err != nil {
		return nil, err
	}

	if err := lifecycle.Locate(ctx, tool); err != nil {
		return nil, err
	}

	if err := lifecycle.Link(tool, e.Store.ShimsDir, e.Store.BinDir, isDefault); err != nil {
		return nil, err
	}

	now := time.Now()
	manifest.AddVersion(tool.Resolved, now)
	if iv, ok := manifest.Versions[tool.Resolved.String()]; ok {
		iv.Primary = tool.Primary
		iv.Secondary = tool.Secondary
		manifest.Versions[tool.Resolved.String()] = iv
	}
	if isDefault {
		manifest.Default = tool.Resolved.String()
	}
	if err := inventory.Save(manifestPath, manifest); err != nil {
		return nil, protoerr.New(protoerr.IO, protoerr.CodeFilesystem, "saving tool manifest").
			WithContext(manifestPath).WithUnderlying(err)
	}

	lf.Add(string(id), lockfile.Record{
		Spec:     requested.String(),
		Version:  tool.Resolved.String(),
		Source:   locatorSource(tool),
		Checksum: tool.Checksum,
	})
	if err := lockfile.Save(lockPath, lf); err != nil {
		return nil, protoerr.New(protoerr.IO, protoerr.CodeSerde, "saving lockfile").
			WithContext(lockPath).WithUnderlying(err)
	}

	return &InstallResult{ToolID: id, Resolved: tool.Resolved, Primary: tool.Primary}, nil
}

// Install resolves toolID's plugin locator from the merged config,
// loads and compiles its WASM module, and calls InstallTool.
func (e *Environment) Install(ctx context.Context, id protoid.ID, requestedSpec string, plugins map[string]string, userAliases map[string]string, scopedEnv map[string]string, isDefault bool) (*InstallResult, error) {
	requested, err := version.ParseUnresolved(requestedSpec)
	if err != nil {
		return nil, protoerr.New(protoerr.Version, protoerr.CodeInvalidVersionSpec, "parsing requested version").
			WithContext(requestedSpec).WithUnderlying(err)
	}

	locatorStr, err := pluginLocator(plugins, id)
	if err != nil {
		return nil, err
	}

	container, err := e.loadContainer(ctx, id, locatorStr, scopedEnv)
	if err != nil {
		return nil, err
	}
	defer container.Close(ctx)

	return e.InstallTool(ctx, id, container, requested, userAliases, scopedEnv, isDefault)
}

func (e *Environment) lockfilePath() string {
	return filepath.Join(e.Cwd, lockfile.FileName)
}

func locatorSource(t *lifecycle.Tool) string {
	if t.DownloadURL != "" {
		return t.DownloadURL
	}
	return "native"
}
