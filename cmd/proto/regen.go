package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var regenCmd = &cobra.Command{
	Use:   "regen",
	Short: "Rewrite shim and bin entries for every installed tool",
	Args:  cobra.NoArgs,
	RunE:  runRegen,
}

func init() {
	rootCmd.AddCommand(regenCmd)
}

func runRegen(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	regenerated, err := env.Regen()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, id := range regenerated {
		fmt.Fprintf(out, "Regenerated %s\n", id)
	}
	return nil
}
