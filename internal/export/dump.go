package export

import (
	"github.com/arborcode/symgraph/model"
)

// Dump converts g into an ordered list of plain maps, one per element that
// survives cfg's type/file filters and IncludeIf predicate — the Go
// analogue of original_source/code_analyzer/json_converter.py's
// JsonConverter.dump, generalized with expr-lang instead of a fixed
// per-type field whitelist.
func Dump(g *model.Graph, cfg FilterConfig) ([]map[string]any, error) {
	predicate, err := compilePredicate(cfg.IncludeIf)
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	var walkErr error
	g.Walk(func(el model.Element) {
		if walkErr != nil {
			return
		}
		if !includeByType(el, cfg.IncludeTypes) || !includeByFile(el, cfg.ExcludeFilePrefixes) {
			return
		}
		ok, err := predicate.matches(elementEnv(el))
		if err != nil {
			walkErr = err
			return
		}
		if !ok {
			return
		}
		out = append(out, dumpElement(el, cfg))
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return out, nil
}

func dumpElement(el model.Element, cfg FilterConfig) map[string]any {
	m := map[string]any{
		"id":       el.ElementID(),
		"name":     el.ElementName(),
		"kind":     string(el.ElementKind()),
		"parentId": el.ParentID(),
		"children": el.ChildrenIDs(),
	}

	switch v := el.(type) {
	case *model.Module:
		if cfg.IncludeSourceSpan {
			m["span"] = dumpSpan(v.Span)
		}
		m["imports"] = dumpImports(v.Imports)
		if cfg.IncludeInstructions {
			m["instructions"] = dumpInstructions(v.Instructions)
		}
	case *model.Class:
		if cfg.IncludeSourceSpan {
			m["span"] = dumpSpan(v.Span)
		}
		m["decorators"] = v.DecoratorNames
		m["baseClasses"] = v.BaseClasses
		m["unresolvedBaseClasses"] = v.UnresolvedBaseClasses
		m["attributeTypes"] = v.AttributeTypes
	case *model.Function:
		if cfg.IncludeSourceSpan {
			m["span"] = dumpSpan(v.Span)
		}
		m["decorators"] = v.DecoratorNames
		m["parameters"] = parameterNames(v.Parameters)
		m["outgoingCalls"] = v.OutgoingCalls
		m["outgoingFuncCalls"] = v.OutgoingFuncCalls
		m["outgoingMethodCalls"] = v.OutgoingMethodCalls
		if cfg.IncludeCallSites {
			m["callSites"] = dumpCallSites(v.CallSites)
		}
		if cfg.IncludeInstructions {
			m["instructions"] = dumpInstructions(v.Instructions)
		}
	}
	return m
}

func dumpSpan(s model.SourceSpan) map[string]any {
	return map[string]any{
		"filePath":  s.FilePath,
		"startLine": s.StartLine,
		"endLine":   s.EndLine,
	}
}

func dumpImports(imports []*model.ImportRecord) []map[string]any {
	out := make([]map[string]any, 0, len(imports))
	for _, imp := range imports {
		out = append(out, map[string]any{
			"module":   imp.Module,
			"name":     imp.Name,
			"alias":    imp.Alias,
			"level":    imp.Level,
			"isLocal":  imp.IsLocal,
			"path":     imp.Path,
			"moduleId": imp.ModuleID,
		})
	}
	return out
}

func dumpInstructions(instructions []model.Instruction) []map[string]any {
	out := make([]map[string]any, 0, len(instructions))
	for _, ins := range instructions {
		out = append(out, map[string]any{
			"target":     ins.Target,
			"op":         string(ins.Op),
			"name":       ins.Name,
			"baseObject": ins.BaseObject,
			"arguments":  ins.Arguments,
		})
	}
	return out
}

func dumpCallSites(sites []model.CallReference) []map[string]any {
	out := make([]map[string]any, 0, len(sites))
	for _, s := range sites {
		out = append(out, map[string]any{
			"expression": s.Expression,
			"line":       s.Line,
			"column":     s.Column,
		})
	}
	return out
}
