package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arborcode/symgraph/analytics"
)

// Version is set via -ldflags at release build time.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the symgraph version",
	Run: func(cmd *cobra.Command, _ []string) {
		analytics.ReportEvent(analytics.ExecutedVersionCommand)
		fmt.Println("symgraph " + Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
