package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/moonrepo/protohost/internal/protoid"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <tool>",
	Short: "Show a tool's default version and bin-bucket assignments",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	status, err := env.ToolStatus(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", status.ToolID)
	fmt.Fprintf(out, "  default: %s\n", orNone(status.Default))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  BUCKET\tVERSION")
	for bucket, spec := range status.Buckets {
		fmt.Fprintf(w, "  %s\t%s\n", bucket, spec.String())
	}
	return w.Flush()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
