// Package graph sequences the project reader, then the hierarchy resolver,
// then the call resolver, in that order, and hands back the finished
// model.Graph. Ordering is the one hard rule: the hierarchy resolver must
// fully complete before the call resolver starts, since self.method()
// resolution depends on BaseClasses already being filled in.
package graph

import (
	"context"
	"fmt"

	"github.com/arborcode/symgraph/internal/config"
	"github.com/arborcode/symgraph/internal/project"
	"github.com/arborcode/symgraph/internal/resolve"
	"github.com/arborcode/symgraph/model"
	"github.com/arborcode/symgraph/output"
)

// Options configures a single Build run.
type Options struct {
	ProjectRoot     string
	Filter          project.FilterConfig
	Workers         int
	SymbolCacheSize int
	// Attrs selects which optional element attributes (instructions, call
	// sites, inferred attribute types) get populated. A zero value is
	// replaced by config.DefaultNodeAttributeConfig(), so callers that don't
	// care can leave it unset; a config with every attribute off is
	// indistinguishable from unset and also gets the defaults.
	Attrs  config.NodeAttributeConfig
	Logger *output.Logger
}

// Stats summarizes one Build run, the numbers `build` prints.
type Stats struct {
	Folders   int
	Modules   int
	Classes   int
	Functions int
}

// Build runs the full pipeline over opts.ProjectRoot and returns the
// resulting graph plus summary statistics.
func Build(ctx context.Context, opts Options) (*model.Graph, Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = output.NewLogger(output.VerbosityDefault)
	}

	reader := project.NewReader(opts.ProjectRoot)
	if opts.Filter.IncludePatterns != nil || opts.Filter.ExcludePatterns != nil {
		reader.Filter = opts.Filter
	}
	reader.Workers = opts.Workers
	if opts.Attrs != (config.NodeAttributeConfig{}) {
		reader.Attrs = opts.Attrs
	}
	reader.OnProgress = func(path string) { logger.Debug("extracted %s", path) }

	stopRead := logger.StartTiming("folder_read")
	g, err := reader.Read(ctx, opts.ProjectRoot)
	stopRead()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("reading project %s: %w", opts.ProjectRoot, err)
	}
	logger.Progress("Read project tree from %s", opts.ProjectRoot)

	symbols := resolve.NewSymbolResolver(g, opts.SymbolCacheSize)

	stopHierarchy := logger.StartTiming("hierarchy_resolve")
	resolve.NewHierarchyResolver(g, symbols).ResolveAll()
	stopHierarchy()
	logger.Progress("Resolved class hierarchy")

	stopCalls := logger.StartTiming("call_resolve")
	resolve.NewCallResolver(g, symbols).ResolveAll()
	stopCalls()
	logger.Progress("Resolved outgoing calls")

	stats := computeStats(g)
	logger.Statistic("Folders: %d  Modules: %d  Classes: %d  Functions: %d",
		stats.Folders, stats.Modules, stats.Classes, stats.Functions)
	logger.PrintTimingSummary()

	return g, stats, nil
}

func computeStats(g *model.Graph) Stats {
	var s Stats
	g.Walk(func(el model.Element) {
		switch el.(type) {
		case *model.Folder:
			s.Folders++
		case *model.Module:
			s.Modules++
		case *model.Class:
			s.Classes++
		case *model.Function:
			s.Functions++
		}
	})
	return s
}
