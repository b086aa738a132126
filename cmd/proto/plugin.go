package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pluginGlobal bool

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Manage plugin locators",
}

var pluginAddCmd = &cobra.Command{
	Use:   "add <tool> <locator>",
	Short: "Register a plugin locator for a tool",
	Args:  cobra.ExactArgs(2),
	RunE:  runPluginAdd,
}

var pluginRemoveCmd = &cobra.Command{
	Use:   "remove <tool>",
	Short: "Remove a tool's plugin locator",
	Args:  cobra.ExactArgs(1),
	RunE:  runPluginRemove,
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered plugin locators",
	Args:  cobra.NoArgs,
	RunE:  runPluginList,
}

func init() {
	rootCmd.AddCommand(pluginCmd)
	pluginCmd.AddCommand(pluginAddCmd, pluginRemoveCmd, pluginListCmd)
	pluginCmd.PersistentFlags().BoolVar(&pluginGlobal, "global", false, "target the global store config")
}

func runPluginAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	if err := env.PluginAdd(args[0], args[1], pluginGlobal); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added plugin %s -> %s\n", args[0], args[1])
	return nil
}

func runPluginRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	if err := env.PluginRemove(args[0], pluginGlobal); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed plugin %s\n", args[0])
	return nil
}

func runPluginList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	plugins, err := env.PluginList(pluginGlobal)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for id, locator := range plugins {
		fmt.Fprintf(out, "%s -> %s\n", id, locator)
	}
	return nil
}
