package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arborcode/symgraph/analytics"
	"github.com/arborcode/symgraph/internal/config"
	graphpkg "github.com/arborcode/symgraph/internal/graph"
	"github.com/arborcode/symgraph/model"
	"github.com/arborcode/symgraph/output"
)

var resolutionReportCmd = &cobra.Command{
	Use:   "resolution-report",
	Short: "Report how much of a project's class hierarchy and calls resolved",
	Long: `Build the graph for a project and report:
  - resolved vs unresolved base classes
  - resolved vs unresolved outgoing calls
  - a breakdown of unresolved names by heuristic failure category
  - the most common unresolved name patterns

This helps diagnose why HierarchyResolver or CallResolver left names
unresolved and prioritize fixes to the search order.`,
	Run: func(cmd *cobra.Command, _ []string) {
		projectInput, _ := cmd.Flags().GetString("project")
		root := config.ResolveProjectRoot(projectInput)
		logger := output.NewLogger(output.VerbosityDefault)

		analytics.ReportEvent(analytics.ExecutedResolutionReportCommand)

		fmt.Println("Building graph...")
		g, _, err := graphpkg.Build(context.Background(), graphpkg.Options{ProjectRoot: root, Logger: logger})
		if err != nil {
			analytics.ReportEvent(analytics.ErrorAnalyzingProject)
			fmt.Printf("Error building graph: %v\n", err)
			return
		}

		stats := aggregateResolutionStatistics(g)

		fmt.Printf("\nResolution Report for %s\n", root)
		fmt.Println("===============================================")
		printResolutionOverview(stats)
		fmt.Println()
		printResolutionFailureBreakdown(stats)
		fmt.Println()
		printResolutionTopPatterns(stats, 20)
	},
}

// resolutionStatistics aggregates how much of the graph's base-class and
// call surface resolved: totals, resolved/unresolved counts, a breakdown by
// failure category, and the most common unresolved name patterns.
type resolutionStatistics struct {
	TotalBaseClasses      int
	ResolvedBaseClasses   int
	UnresolvedBaseClasses int

	TotalCallSites      int
	ResolvedCalls       int
	UnresolvedCallSites int

	FailuresByCategory map[string]int
	UnresolvedPatterns map[string]int
}

func aggregateResolutionStatistics(g *model.Graph) *resolutionStatistics {
	stats := &resolutionStatistics{
		FailuresByCategory: make(map[string]int),
		UnresolvedPatterns: make(map[string]int),
	}

	g.Walk(func(el model.Element) {
		switch v := el.(type) {
		case *model.Class:
			stats.TotalBaseClasses += len(v.BaseClasses) + len(v.UnresolvedBaseClasses)
			stats.ResolvedBaseClasses += len(v.BaseClasses)
			stats.UnresolvedBaseClasses += len(v.UnresolvedBaseClasses)
			for _, name := range v.UnresolvedBaseClasses {
				stats.FailuresByCategory[baseClassFailureCategory(name)]++
				stats.UnresolvedPatterns[name]++
			}
		case *model.Function:
			stats.TotalCallSites += len(v.CallSites)
			resolved := len(v.OutgoingCalls)
			if resolved > len(v.CallSites) {
				resolved = len(v.CallSites)
			}
			stats.ResolvedCalls += resolved
			unresolved := len(v.CallSites) - resolved
			stats.UnresolvedCallSites += unresolved
			if unresolved > 0 {
				stats.FailuresByCategory["unqualified-or-dotted-not-found"] += unresolved
			}
		}
	})

	return stats
}

// baseClassFailureCategory buckets an unresolved base-class name by shape —
// a coarse heuristic, not a resolved reason (CallResolver/HierarchyResolver
// don't retain *why* a name failed, only that it did).
func baseClassFailureCategory(name string) string {
	for _, c := range name {
		if c == '.' {
			return "dotted-path-not-found"
		}
	}
	return "unqualified-not-found"
}

func printResolutionOverview(stats *resolutionStatistics) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Println("Base classes:")
	fmt.Printf("  Total:      %d\n", stats.TotalBaseClasses)
	fmt.Printf("  Resolved:   %s (%.1f%%)\n", green(stats.ResolvedBaseClasses), percentage(stats.ResolvedBaseClasses, stats.TotalBaseClasses))
	fmt.Printf("  Unresolved: %s (%.1f%%)\n", red(stats.UnresolvedBaseClasses), percentage(stats.UnresolvedBaseClasses, stats.TotalBaseClasses))

	fmt.Println("Calls:")
	fmt.Printf("  Total call sites: %d\n", stats.TotalCallSites)
	fmt.Printf("  Resolved:         %s (%.1f%%)\n", green(stats.ResolvedCalls), percentage(stats.ResolvedCalls, stats.TotalCallSites))
	fmt.Printf("  Unresolved:       %s (%.1f%%)\n", red(stats.UnresolvedCallSites), percentage(stats.UnresolvedCallSites, stats.TotalCallSites))
}

func printResolutionFailureBreakdown(stats *resolutionStatistics) {
	fmt.Println("Failure Breakdown:")
	type entry struct {
		category string
		count    int
	}
	entries := make([]entry, 0, len(stats.FailuresByCategory))
	for cat, count := range stats.FailuresByCategory {
		entries = append(entries, entry{cat, count})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].count > entries[j].count })
	for _, e := range entries {
		fmt.Printf("  %-32s %d\n", e.category+":", e.count)
	}
}

func printResolutionTopPatterns(stats *resolutionStatistics, topN int) {
	fmt.Printf("Top %d Unresolved Base-Class Patterns:\n", topN)
	type entry struct {
		pattern string
		count   int
	}
	entries := make([]entry, 0, len(stats.UnresolvedPatterns))
	for pattern, count := range stats.UnresolvedPatterns {
		entries = append(entries, entry{pattern, count})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].count > entries[j].count })
	for i, e := range entries {
		if i >= topN {
			break
		}
		fmt.Printf("  %2d. %-40s %d occurrences\n", i+1, e.pattern, e.count)
	}
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(part) * 100.0 / float64(total)
}

func init() {
	rootCmd.AddCommand(resolutionReportCmd)
	resolutionReportCmd.Flags().StringP("project", "p", "", "Project root directory")
	_ = resolutionReportCmd.MarkFlagRequired("project")
}
