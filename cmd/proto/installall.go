package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installAllCmd = &cobra.Command{
	Use:   "install-all",
	Short: "Install every tool named in the .prototools cascade",
	Args:  cobra.NoArgs,
	RunE:  runInstallAll,
}

func init() {
	rootCmd.AddCommand(installAllCmd)
}

func runInstallAll(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	merged, err := env.MergedConfig()
	if err != nil {
		return err
	}

	results, failures := env.InstallAll(ctx, merged)

	out := cmd.OutOrStdout()
	for id, result := range results {
		fmt.Fprintf(out, "Installed %s %s\n", id, result.Resolved.String())
	}
	for id, ferr := range failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "Failed %s: %v\n", id, ferr)
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d tools failed to install", len(failures), len(merged.Tools))
	}
	return nil
}
