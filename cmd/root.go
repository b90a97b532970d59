package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arborcode/symgraph/analytics"
)

var rootCmd = &cobra.Command{
	Use:   "symgraph",
	Short: "symgraph builds a symbol-resolution graph over a Python project",
	Long: `symgraph parses a Python project into a flat, id-addressed graph of
folders, modules, classes, and functions, then resolves class hierarchies
and call targets across file boundaries.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics") //nolint:all
		analytics.LoadEnvFile()
		analytics.Init(disableMetrics)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable anonymous usage metrics collection")
}
