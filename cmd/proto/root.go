package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/moonrepo/protohost/internal/protoerr"
	"github.com/moonrepo/protohost/internal/protolog"
	"github.com/moonrepo/protohost/internal/store"
	"github.com/moonrepo/protohost/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	offlineFlag bool
	jsonFlag    bool

	// exitCode carries a spawned child process's exit status out of
	// `run`/`exec`'s RunE, since cobra itself only distinguishes
	// success/failure. main checks this after a nil error from
	// Execute, per spec.md §7's "exec dispatch" relaying the child's
	// own exit code rather than always exiting 0 or 1.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "proto",
	Short: "A multi-language version manager",
	Long: `proto installs and manages versions of development tools from a
sandboxed, WASM-based plugin host.

It resolves tool versions from a cascading .prototools configuration,
downloads and verifies release artifacts, and exposes each tool through
a shared shim binary so the right version always runs.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&offlineFlag, "offline", false, "reject operations that require network access")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output machine-readable JSON where supported")
}

// buildEnvironment constructs the shared workflow.Environment every
// subcommand operates against: the store rooted at PROTO_HOME, a
// logger configured from PROTO_LOG, and the --offline flag threaded
// through per spec.md §6.
func buildEnvironment(ctx context.Context) (*workflow.Environment, error) {
	st, err := store.Detect()
	if err != nil {
		return nil, err
	}

	logger := protolog.NewConsoleLogger(
		protolog.WithLevel(logLevelFromEnv()),
		protolog.WithOutput(os.Stderr),
	)

	return workflow.NewEnvironment(ctx, st, logger, workflow.WithOffline(offlineFlag))
}

// logLevelFromEnv reads PROTO_LOG (debug, info, warn, error), per
// SPEC_FULL.md §0's ambient-logging addition, defaulting to info.
func logLevelFromEnv() protolog.Level {
	switch strings.ToLower(os.Getenv("PROTO_LOG")) {
	case "debug":
		return protolog.LevelDebug
	case "warn", "warning":
		return protolog.LevelWarn
	case "error":
		return protolog.LevelError
	default:
		return protolog.LevelInfo
	}
}

// printError renders err to stderr, unwrapping a *protoerr.Error into
// its tagged kind/code/suggestion form when possible.
func printError(err error) {
	if perr, ok := protoerr.Of(err); ok {
		fmt.Fprintln(os.Stderr, perr.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}
