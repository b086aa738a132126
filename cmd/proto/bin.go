package main

import (
	"fmt"

	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/spf13/cobra"
)

var binAltBin bool

var binCmd = &cobra.Command{
	Use:   "bin <tool>",
	Short: "Print the path to a tool's resolved executable",
	Args:  cobra.ExactArgs(1),
	RunE:  runBin,
}

func init() {
	rootCmd.AddCommand(binCmd)
	binCmd.Flags().BoolVar(&binAltBin, "alt-bin", false, "resolve the tool's secondary executable instead of its primary one")
}

func runBin(cmd *cobra.Command, args []string) error {
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

	path, err := env.BinPath(id, "", binAltBin)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
