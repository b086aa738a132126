package main

import (
	"fmt"
	"time"

	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/spf13/cobra"
)

var (
	cleanPurge        string
	cleanPurgePlugins bool
	cleanDays         int
	cleanForce        bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove stale or unwanted installs from the store",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVar(&cleanPurge, "purge", "", "remove every installed version, bin entry, and shim for this tool")
	cleanCmd.Flags().BoolVar(&cleanPurgePlugins, "purge-plugins", false, "remove every cached plugin blob")
	cleanCmd.Flags().IntVar(&cleanDays, "days", 30, "when neither --purge flag is set, remove versions unused for this many days")
	cleanCmd.Flags().BoolVar(&cleanForce, "force", false, "purge a tool even if another shim declares it as a parent")
}

func runClean(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	env, err := buildEnvironment(ctx)
	if err != nil {
		return err
	}
	defer env.Close(ctx)

	out := cmd.OutOrStdout()

	if cleanPurge != "" {
		id, err := protoid.New(cleanPurge)
		if err != nil {
			return err
		}
		if err := env.PurgeTool(id, cleanForce); err != nil {
			return err
		}
		fmt.Fprintf(out, "Purged %s\n", id)
	}

	if cleanPurgePlugins {
		if err := env.PurgePlugins(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Purged plugin cache")
	}

	if cleanPurge == "" && !cleanPurgePlugins {
		removed, err := env.CleanStale(time.Duration(cleanDays) * 24 * time.Hour)
		if err != nil {
			return err
		}
		for _, sv := range removed {
			fmt.Fprintf(out, "Removed %s@%s (unused for %d+ days)\n", sv.ToolID, sv.Version, cleanDays)
		}
		if len(removed) == 0 {
			fmt.Fprintln(out, "Nothing to clean")
		}
	}

	return nil
}
