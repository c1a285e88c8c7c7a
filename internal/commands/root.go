package commands

import (
	"github.com/spf13/cobra"

	"github.com/Ryandj11/AutoStack/internal/output"
)

// Version is stamped by the release build; "dev" otherwise.
var Version = "dev"

// RootCmd creates and returns the root command for the AutoStack CLI.
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "autostack",
		Short: "Scaffold full-stack application environments",
		Long: `AutoStack generates a ready-to-run project tree from the modules you pick:
backend framework, frontend framework, Docker setup, tests, and CI.

The generated tree is consistent across modules (ports, build commands, and
service names line up) and written atomically: you get the whole project or
nothing.

Example:
  autostack init myapp --backend fastapi --frontend react --with-docker`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	return cmd
}
