package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pinGlobal bool

var pinCmd = &cobra.Command{
	Use:   "pin <tool> <version>",
	Short: "Pin a tool's version in .prototools",
	Args:  cobra.ExactArgs(2),
	RunE:  runPin,
}

var unpinCmd = &cobra.Command{
	Use:   "unpin <tool>",
	Short: "Remove a tool's pinned version from .prototools",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnpin,
}

func init() {
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(unpinCmd)
	pinCmd.Flags().BoolVar(&pinGlobal, "global", false, "pin in the global store config instead of the local .prototools")
	unpinCmd.Flags().BoolVar(&pinGlobal, "global", false, "unpin from the global store config instead of the local .prototools")
}

func runPin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	if err := env.Pin(args[0], args[1], pinGlobal); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pinned %s = %s\n", args[0], args[1])
	return nil
}

func runUnpin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	if err := env.Unpin(args[0], pinGlobal); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Unpinned %s\n", args[0])
	return nil
}
