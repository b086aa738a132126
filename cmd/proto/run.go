package main

import (
	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/spf13/cobra"
)

var (
	runPinned string
	runAltBin bool
)

var runCmd = &cobra.Command{
	Use:                "run <tool> [-- args...]",
	Short:              "Run a tool's resolved executable",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE:               runExecLike,
}

var execCmd = &cobra.Command{
	Use:                "exec <tool> [-- args...]",
	Short:              "Run a tool's resolved executable (alias of run)",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE:               runExecLike,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(execCmd)
}

// runExecLike implements both `run` and `exec`: resolve <tool>'s
// installed executable (pinned spec, else manifest default, else the
// "*" bin bucket) and relay stdio/exit code to it. DisableFlagParsing
// is set on both commands so flags like --alt-bin intended for the
// child process pass through untouched; this command never interprets
// the invoked tool's own arguments.
func runExecLike(cmd *cobra.Command, args []string) error {
	toolArg, pinned, childArgs := splitRunArgs(args)
	if toolArg == "" {
		return cmd.Help()
	}

	ctx := cmd.Context()
	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	id, err := protoid.New(toolArg)
	if err != nil {
		return err
	}

	code, err := env.Exec(ctx, id, pinned, false, childArgs, nil)
	if err != nil {
		return err
	}
	exitCode = code
	return nil
}

// splitRunArgs separates the leading tool name, an optional "@version"
// suffix on it, and the remaining args to forward to the child
// process. Everything after the first "--" (or, absent one, everything
// after the tool name) is forwarded verbatim.
func splitRunArgs(args []string) (tool, pinned string, rest []string) {
	if len(args) == 0 {
		return "", "", nil
	}

	first := args[0]
	rest = args[1:]
	for i, a := range rest {
		if a == "--" {
			rest = rest[i+1:]
			break
		}
	}

	for i := range first {
		if first[i] == '@' {
			return first[:i], first[i+1:], rest
		}
	}
	return first, "", rest
}
