// Package export serializes a finished model.Graph: JSON and YAML dumps
// with per-field selection, and a SARIF report of unresolved names as
// informational diagnostics. Grounded in
// original_source/code_analyzer/{output_config,json_converter}.py for the
// field-selection shape, generalized with an expr-lang predicate
// (FilterConfig.IncludeIf) in place of the original's static include/exclude
// type lists.
package export

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/arborcode/symgraph/model"
)

// FilterConfig controls which elements make it into an export and how much
// of each is included.
type FilterConfig struct {
	IncludeTypes       []model.Kind // empty means "all kinds"
	ExcludeFilePrefixes []string
	IncludeSourceSpan  bool
	IncludeInstructions bool
	IncludeCallSites   bool
	// IncludeIf is an optional expr-lang boolean expression evaluated per
	// element against a map with keys "Kind", "Name", "OutgoingCalls",
	// "BaseClasses", "Parameters" — e.g.
	// `Kind == "function" && len(OutgoingCalls) > 0`. Empty means include
	// everything the type/file filters above let through.
	IncludeIf string
}

// DefaultFilterConfig includes everything.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		IncludeSourceSpan:   true,
		IncludeInstructions: true,
		IncludeCallSites:    true,
	}
}

// compiledPredicate wraps a compiled expr-lang program so a caller can
// reuse it across every element in a graph without recompiling per call.
type compiledPredicate struct {
	program *vm.Program
}

func compilePredicate(src string) (*compiledPredicate, error) {
	if src == "" {
		return nil, nil
	}
	program, err := expr.Compile(src, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling include-if expression %q: %w", src, err)
	}
	return &compiledPredicate{program: program}, nil
}

func (p *compiledPredicate) matches(env map[string]any) (bool, error) {
	if p == nil {
		return true, nil
	}
	out, err := expr.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating include-if expression: %w", err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func elementEnv(el model.Element) map[string]any {
	env := map[string]any{
		"Kind": string(el.ElementKind()),
		"Name": el.ElementName(),
	}
	switch v := el.(type) {
	case *model.Function:
		env["OutgoingCalls"] = v.OutgoingCalls
		env["Parameters"] = parameterNames(v.Parameters)
		env["DecoratorNames"] = v.DecoratorNames
	case *model.Class:
		env["BaseClasses"] = v.BaseClasses
		env["UnresolvedBaseClasses"] = v.UnresolvedBaseClasses
		env["DecoratorNames"] = v.DecoratorNames
	case *model.Module:
		env["FilePath"] = v.Span.FilePath
	}
	return env
}

func parameterNames(params []model.Parameter) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Name
	}
	return out
}

func includeByType(el model.Element, types []model.Kind) bool {
	if len(types) == 0 {
		return true
	}
	for _, k := range types {
		if k == el.ElementKind() {
			return true
		}
	}
	return false
}

func includeByFile(el model.Element, excludePrefixes []string) bool {
	path := filePath(el)
	if path == "" {
		return true
	}
	for _, prefix := range excludePrefixes {
		if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
			return false
		}
	}
	return true
}

func filePath(el model.Element) string {
	switch v := el.(type) {
	case *model.Module:
		return v.Span.FilePath
	case *model.Class:
		return v.Span.FilePath
	case *model.Function:
		return v.Span.FilePath
	}
	return ""
}
