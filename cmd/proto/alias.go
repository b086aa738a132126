package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var aliasGlobal bool

var aliasCmd = &cobra.Command{
	Use:   "alias <tool> <name> <version>",
	Short: "Define a named alias for a tool version",
	Args:  cobra.ExactArgs(3),
	RunE:  runAlias,
}

var unaliasCmd = &cobra.Command{
	Use:   "unalias <tool> <name>",
	Short: "Remove a named alias",
	Args:  cobra.ExactArgs(2),
	RunE:  runUnalias,
}

func init() {
	rootCmd.AddCommand(aliasCmd)
	rootCmd.AddCommand(unaliasCmd)
	aliasCmd.Flags().BoolVar(&aliasGlobal, "global", false, "define in the global store config")
	unaliasCmd.Flags().BoolVar(&aliasGlobal, "global", false, "remove from the global store config")
}

func runAlias(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	if err := env.Alias(args[0], args[1], args[2], aliasGlobal); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Aliased %s %s = %s\n", args[0], args[1], args[2])
	return nil
}

func runUnalias(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	if err := env.Unalias(args[0], args[1], aliasGlobal); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed alias %s %s\n", args[0], args[1])
	return nil
}
