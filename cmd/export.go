package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arborcode/symgraph/analytics"
	"github.com/arborcode/symgraph/internal/config"
	"github.com/arborcode/symgraph/internal/export"
	graphpkg "github.com/arborcode/symgraph/internal/graph"
	"github.com/arborcode/symgraph/output"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Build the graph and export it as JSON, YAML, or a SARIF diagnostics report",
	Run: func(cmd *cobra.Command, _ []string) {
		projectInput, _ := cmd.Flags().GetString("project")
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")
		includeIf, _ := cmd.Flags().GetString("include-if")
		noInstructions, _ := cmd.Flags().GetBool("no-instructions")
		noCallSites, _ := cmd.Flags().GetBool("no-call-sites")

		root := config.ResolveProjectRoot(projectInput)
		logger := output.NewLogger(output.VerbosityDefault)

		analytics.ReportEvent(analytics.ExecutedExportCommand)

		attrs := config.DefaultNodeAttributeConfig()
		attrs.IncludeInstructions = !noInstructions
		attrs.IncludeCallSites = !noCallSites

		g, _, err := graphpkg.Build(context.Background(), graphpkg.Options{ProjectRoot: root, Attrs: attrs, Logger: logger})
		if err != nil {
			analytics.ReportEvent(analytics.ErrorAnalyzingProject)
			fmt.Printf("Error building graph: %v\n", err)
			return
		}

		cfg := export.DefaultFilterConfig()
		cfg.IncludeIf = includeIf

		var data []byte
		switch format {
		case "json", "":
			data, err = export.WriteJSON(g, cfg)
		case "yaml":
			data, err = export.WriteYAML(g, cfg)
		case "sarif":
			data, err = export.WriteSARIF(g, "0.1.0")
		default:
			err = fmt.Errorf("unsupported --format %q (want json, yaml, or sarif)", format)
		}
		if err != nil {
			fmt.Printf("Error exporting graph: %v\n", err)
			return
		}

		if outPath == "" || outPath == "-" {
			fmt.Println(string(data))
			return
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", outPath, err)
			return
		}
		fmt.Printf("Wrote %s\n", outPath)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("project", "p", "", "Project root directory")
	exportCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml, or sarif")
	exportCmd.Flags().StringP("out", "o", "", "Output file path (default: stdout)")
	exportCmd.Flags().String("include-if", "", "expr-lang predicate selecting which elements to include")
	exportCmd.Flags().Bool("no-instructions", false, "Skip building the linear instruction IR")
	exportCmd.Flags().Bool("no-call-sites", false, "Skip recording per-call-site line/column")
	_ = exportCmd.MarkFlagRequired("project")
}
