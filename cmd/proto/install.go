package main

import (
	"fmt"

	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/spf13/cobra"
)

var (
	installPin    bool
	installGlobal bool
)

var installCmd = &cobra.Command{
	Use:   "install <tool> [version]",
	Short: "Install a tool version",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().BoolVar(&installPin, "pin", false, "record the resolved version in .prototools")
	installCmd.Flags().BoolVar(&installGlobal, "global", false, "pin globally instead of locally (with --pin)")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	id, err := protoid.New(args[0])
	if err != nil {
		return err
	}

	merged, err := env.MergedConfig()
	if err != nil {
		return err
	}

	requestedSpec := "latest"
	if len(args) == 2 {
		requestedSpec = args[1]
	} else if spec, ok := merged.Tools[string(id)]; ok {
		requestedSpec = spec
	}

	tc := merged.ToolConfigs[string(id)]

	result, err := env.Install(ctx, id, requestedSpec, merged.Plugins, tc.Aliases, tc.Env, true)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s %s\n", id, result.Resolved.String())

	if installPin {
		if err := env.Pin(string(id), result.Resolved.String(), installGlobal); err != nil {
			return err
		}
	}

	return nil
}
