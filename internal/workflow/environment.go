// Package workflow orchestrates the per-tool lifecycle transitions of
// internal/lifecycle into the end-to-end operations SPEC_FULL.md §6
// names at the CLI boundary: install, install-all, uninstall, pin,
// unpin, alias, unalias, list, and exec/run. It is the one place that
// wires internal/config, internal/inventory, internal/lockfile,
// internal/pluginloader, internal/sandbox, and internal/lifecycle
// together against a single on-disk internal/store.Store.
//
// Grounded on original_source/crates/cli/src/commands' per-command
// modules, each of which performs the same sequence this package
// collapses into one Go function: load config, resolve tool+plugin,
// drive the tool through its lifecycle, persist inventory/lockfile
// state.
package workflow

import (
	"context"
	"fmt"
	"os"

	"github.com/moonrepo/protohost/internal/config"
	"github.com/moonrepo/protohost/internal/httpclient"
	"github.com/moonrepo/protohost/internal/pluginloader"
	"github.com/moonrepo/protohost/internal/protolog"
	"github.com/moonrepo/protohost/internal/sandbox"
	"github.com/moonrepo/protohost/internal/store"
)

// Environment bundles every ambient service an operation needs,
// threaded explicitly through call arguments rather than held in
// package-level globals, per SPEC_FULL.md §9.
type Environment struct {
	Store   *store.Store
	Runtime *sandbox.Runtime
	Plugins *pluginloader.Loader
	HTTP    *httpclient.Client
	Loader  *config.Loader
	Logger  protolog.Logger
	Offline bool
	Cwd     string
	HomeDir string
}

// NewEnvironment constructs an Environment rooted at st, ready for
// every operation in this package. Callers that need a custom HTTP
// client (e.g. an allowlist or offline mode) should build one with
// httpclient.New and pass it via opts.
func NewEnvironment(ctx context.Context, st *store.Store, logger protolog.Logger, opts ...EnvironmentOption) (*Environment, error) {
	if err := st.EnsureDirs(); err != nil {
		return nil, err
	}

	rt, err := sandbox.NewRuntime(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting plugin runtime: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	env := &Environment{
		Store:   st,
		Runtime: rt,
		Loader:  config.NewLoader(),
		Logger:  logger,
		Cwd:     cwd,
		HomeDir: home,
	}
	for _, opt := range opts {
		opt(env)
	}
	if env.HTTP == nil {
		env.HTTP = httpclient.NewFromEnv(httpclient.WithOffline(env.Offline))
	}
	env.Plugins = pluginloader.New(st.PluginsDir, st.TempDir, env.HTTP)

	return env, nil
}

// EnvironmentOption customizes an Environment at construction time.
type EnvironmentOption func(*Environment)

// WithOffline marks the environment as offline, rejecting any
// operation that would need network access for a non-exact version.
func WithOffline(offline bool) EnvironmentOption {
	return func(e *Environment) { e.Offline = offline }
}

// WithHTTPClient overrides the environment's HTTP client, e.g. with an
// egress allowlist configured via httpclient.WithAllowlist.
func WithHTTPClient(client *httpclient.Client) EnvironmentOption {
	return func(e *Environment) { e.HTTP = client }
}

// Close releases the environment's plugin runtime.
func (e *Environment) Close(ctx context.Context) error {
	return e.Runtime.Close(ctx)
}

// MergedConfig assembles and merges the full `.prototools` cascade
// rooted at e.Cwd.
func (e *Environment) MergedConfig() (config.Merged, error) {
	return e.Loader.Load(e.Cwd, e.HomeDir, e.Store.Dir)
}
