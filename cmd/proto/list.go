package main

import (
	"fmt"

	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <tool>",
	Short: "List installed versions of a tool",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var listRemoteCmd = &cobra.Command{
	Use:   "list-remote <tool>",
	Short: "List versions available from a tool's plugin",
	Args:  cobra.ExactArgs(1),
	RunE:  runListRemote,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(listRemoteCmd)
}

func runList(cmd *cobra.Command, args []string) error {
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

	specs, err := env.ListInstalled(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(specs) == 0 {
		fmt.Fprintf(out, "No versions of %s installed\n", id)
		return nil
	}
	for _, spec := range specs {
		fmt.Fprintln(out, spec.String())
	}
	return nil
}

func runListRemote(cmd *cobra.Command, args []string) error {
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

	versions, err := env.ListRemote(ctx, id, merged.Plugins)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, v := range versions.Versions {
		fmt.Fprintln(out, v)
	}
	return nil
}
