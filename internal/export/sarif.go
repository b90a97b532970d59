package export

import (
	"bytes"
	"fmt"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/arborcode/symgraph/model"
)

const (
	ruleUnresolvedBase = "symgraph/unresolved-base-class"
	ruleUnresolvedCall = "symgraph/unresolved-call"
)

// WriteSARIF reports every still-unresolved base class left in g by name,
// plus one "<unresolved>" placeholder per call estimated as dropped (see
// danglingCallNames), as SARIF "note"-level results — the natural diagnostics
// sink for an errors list keyed by owning element, alongside the JSON/YAML
// structural exports.
func WriteSARIF(g *model.Graph, toolVersion string) ([]byte, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("creating sarif report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("symgraph", "https://github.com/arborcode/symgraph")
	run.Tool.Driver.WithVersion(toolVersion)
	run.AddRule(ruleUnresolvedBase).
		WithDescription("A class's base class could not be resolved to a known class in the project.")
	run.AddRule(ruleUnresolvedCall).
		WithDescription("A function call name could not be resolved to a known function or method in the project.")

	g.Walk(func(el model.Element) {
		switch v := el.(type) {
		case *model.Class:
			for _, name := range v.UnresolvedBaseClasses {
				addResult(run, ruleUnresolvedBase, v.Span.FilePath, v.Span.StartLine,
					fmt.Sprintf("class %s: base class %q did not resolve", v.Name, name))
			}
		case *model.Function:
			for _, name := range danglingCallNames(v) {
				addResult(run, ruleUnresolvedCall, v.Span.FilePath, v.Span.StartLine,
					fmt.Sprintf("function %s: call %q did not resolve", v.Name, name))
			}
		}
	})

	report.AddRun(run)

	var buf bytes.Buffer
	if err := report.PrettyWrite(&buf); err != nil {
		return nil, fmt.Errorf("writing sarif report: %w", err)
	}
	return buf.Bytes(), nil
}

func addResult(run *sarif.Run, rule, filePath string, line int, message string) {
	result := run.CreateResultForRule(rule).
		WithLevel("note").
		WithMessage(sarif.NewTextMessage(message))
	if filePath != "" {
		result.WithLocation(sarif.NewLocationWithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath)).
				WithRegion(sarif.NewSimpleRegion(line, line)),
		))
	}
}

// danglingCallNames reports call names CallResolver dropped because it
// couldn't resolve them — reconstructed here from the gap between how many
// call sites were recorded and how many calls resolved, since the call
// resolver doesn't itself keep the unresolved names (OutgoingCalls holds
// only resolved ids). Good enough for a diagnostics count; exact unresolved
// names would require the resolver to retain them, which it deliberately
// avoids.
func danglingCallNames(fn *model.Function) []string {
	unresolved := len(fn.CallSites) - len(fn.OutgoingCalls)
	if unresolved <= 0 {
		return nil
	}
	names := make([]string, unresolved)
	for i := range names {
		names[i] = "<unresolved>"
	}
	return names
}
