package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arborcode/symgraph/analytics"
	"github.com/arborcode/symgraph/internal/config"
	graphpkg "github.com/arborcode/symgraph/internal/graph"
	"github.com/arborcode/symgraph/output"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the symbol-resolution graph for a project and print summary statistics",
	Run: func(cmd *cobra.Command, _ []string) {
		projectInput, _ := cmd.Flags().GetString("project")
		verbose, _ := cmd.Flags().GetBool("verbose")
		debug, _ := cmd.Flags().GetBool("debug")
		noInstructions, _ := cmd.Flags().GetBool("no-instructions")
		noCallSites, _ := cmd.Flags().GetBool("no-call-sites")
		noAttributeTypes, _ := cmd.Flags().GetBool("no-attribute-types")

		root := config.ResolveProjectRoot(projectInput)
		logger := output.NewLogger(verbosityFromFlags(verbose, debug))

		analytics.ReportEvent(analytics.ExecutedBuildCommand)

		attrs := config.DefaultNodeAttributeConfig()
		attrs.IncludeInstructions = !noInstructions
		attrs.IncludeCallSites = !noCallSites
		attrs.IncludeAttributeTypes = !noAttributeTypes

		_, stats, err := graphpkg.Build(context.Background(), graphpkg.Options{
			ProjectRoot: root,
			Attrs:       attrs,
			Logger:      logger,
		})
		if err != nil {
			analytics.ReportEvent(analytics.ErrorAnalyzingProject)
			fmt.Printf("Error building graph: %v\n", err)
			return
		}

		fmt.Printf("Built graph for %s\n", root)
		fmt.Printf("  Folders:   %d\n", stats.Folders)
		fmt.Printf("  Modules:   %d\n", stats.Modules)
		fmt.Printf("  Classes:   %d\n", stats.Classes)
		fmt.Printf("  Functions: %d\n", stats.Functions)
	},
}

func verbosityFromFlags(verbose, debug bool) output.VerbosityLevel {
	switch {
	case debug:
		return output.VerbosityDebug
	case verbose:
		return output.VerbosityVerbose
	default:
		return output.VerbosityDefault
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("project", "p", "", "Project root directory")
	buildCmd.Flags().Bool("verbose", false, "Show progress and statistics")
	buildCmd.Flags().Bool("debug", false, "Show debug diagnostics and timing")
	buildCmd.Flags().Bool("no-instructions", false, "Skip building the linear instruction IR")
	buildCmd.Flags().Bool("no-call-sites", false, "Skip recording per-call-site line/column")
	buildCmd.Flags().Bool("no-attribute-types", false, "Skip inferring self.attr types")
	_ = buildCmd.MarkFlagRequired("project")
}
