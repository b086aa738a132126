package main

import (
	"fmt"

	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <tool> <version>",
	Short: "Remove an installed tool version",
	Args:  cobra.ExactArgs(2),
	RunE:  runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
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

	if err := env.Uninstall(id, args[1]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Uninstalled %s %s\n", id, args[1])
	return nil
}
