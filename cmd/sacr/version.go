package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Build information, set via -ldflags.
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		configureColor(cmd)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sacr %s\n", color.New(color.FgGreen, color.Bold).Sprint(Version))
		if Commit != "" {
			fmt.Fprintf(out, "commit: %s\n", Commit)
		}
		if BuildDate != "" {
			fmt.Fprintf(out, "built:  %s\n", BuildDate)
		}
	},
}
