package resolve

import (
	"sort"
	"strings"

	"github.com/arborcode/symgraph/model"
)

// CallResolver turns each Function's raw callee-name strings into resolved
// element ids, or drops them: OutgoingCalls (and the Func/Method split) hold
// only resolved ids once CallResolver has run, never a dangling unresolved
// name. It must run after HierarchyResolver, since `self.method()` needs
// BaseClasses already resolved to walk the MRO.
//
// Grounded in original_source/code_analyzer/folder_analyzer.py's
// FolderAnalyzer._resolve_function_calls / _find_function_id (the
// self.method MRO walk and self.attr.method() field-call resolution) and
// ast_parser/handlers.py for the call-shape classification CallResolver
// consumes.
type CallResolver struct {
	Graph   *model.Graph
	Symbols *SymbolResolver
}

// NewCallResolver returns a CallResolver over g, sharing symbols with
// HierarchyResolver so base-class lookups already performed are reused.
func NewCallResolver(g *model.Graph, symbols *SymbolResolver) *CallResolver {
	return &CallResolver{Graph: g, Symbols: symbols}
}

// ResolveAll resolves every Function's outgoing calls in the graph.
func (cr *CallResolver) ResolveAll() {
	cr.Graph.Walk(func(el model.Element) {
		fn, ok := el.(*model.Function)
		if !ok {
			return
		}
		mod := cr.Graph.NearestModule(fn.ElementID())
		if mod == nil {
			return
		}
		cls := cr.enclosingClass(fn.ElementID())

		fn.OutgoingFuncCalls = cr.resolveFuncCalls(fn.OutgoingFuncCalls, mod.ElementID())
		fn.OutgoingMethodCalls = cr.resolveMethodCalls(fn.OutgoingMethodCalls, mod.ElementID(), cls)
		fn.OutgoingCalls = mergeUnique(fn.OutgoingFuncCalls, fn.OutgoingMethodCalls)
	})
}

// enclosingClass walks up from id looking for the nearest *Class ancestor,
// stopping at the nearest Module (a free function has none).
func (cr *CallResolver) enclosingClass(id string) *model.Class {
	for cur := cr.Graph.Get(id).ParentID(); cur != ""; {
		el := cr.Graph.Get(cur)
		if el == nil {
			return nil
		}
		if cls, ok := el.(*model.Class); ok {
			return cls
		}
		if _, ok := el.(*model.Module); ok {
			return nil
		}
		cur = el.ParentID()
	}
	return nil
}

func (cr *CallResolver) resolveFuncCalls(raw []string, moduleID string) []string {
	var out []string
	for _, name := range raw {
		if id := cr.Symbols.Resolve(name, moduleID); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (cr *CallResolver) resolveMethodCalls(raw []string, moduleID string, cls *model.Class) []string {
	var out []string
	for _, dotted := range raw {
		if id := cr.resolveMethodCall(dotted, moduleID, cls); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (cr *CallResolver) resolveMethodCall(dotted, moduleID string, cls *model.Class) string {
	receiver, method := splitLast(dotted)
	switch {
	case receiver == "self" && cls != nil:
		return cr.resolveSelfMethod(cls, method)
	case strings.HasPrefix(receiver, "self.") && cls != nil:
		attr := strings.TrimPrefix(receiver, "self.")
		return cr.resolveFieldMethod(cls, attr, method, moduleID)
	default:
		// A dotted path through an imported module, alias, or class name —
		// e.g. `module.func()`, `ClassName.static_method()`.
		return cr.Symbols.Resolve(dotted, moduleID)
	}
}

// resolveSelfMethod walks a class's MRO depth-first through BaseClasses,
// cycle-safe via a visited set, returning the first class that defines
// methodName as a direct child function.
func (cr *CallResolver) resolveSelfMethod(cls *model.Class, methodName string) string {
	visited := make(map[string]bool)
	var walk func(c *model.Class) string
	walk = func(c *model.Class) string {
		if c == nil || visited[c.ElementID()] {
			return ""
		}
		visited[c.ElementID()] = true
		if id := findFunctionChild(cr.Graph, c.ElementID(), methodName); id != "" {
			return id
		}
		for _, baseID := range c.BaseClasses {
			if found := walk(cr.Graph.Class(baseID)); found != "" {
				return found
			}
		}
		return ""
	}
	return walk(cls)
}

// resolveFieldMethod resolves `self.attr.method()`: look up attr's inferred
// type(s) on cls, resolve each type name to a class in this module's scope,
// then MRO-walk that class for methodName.
func (cr *CallResolver) resolveFieldMethod(cls *model.Class, attr, methodName, moduleID string) string {
	for _, typeName := range cls.AttributeTypes[attr] {
		typeID := cr.Symbols.Resolve(typeName, moduleID)
		if typeID == "" {
			continue
		}
		if fieldCls := cr.Graph.Class(typeID); fieldCls != nil {
			if id := cr.resolveSelfMethod(fieldCls, methodName); id != "" {
				return id
			}
		}
	}
	return ""
}

func findFunctionChild(g *model.Graph, scopeID, name string) string {
	scope := g.Get(scopeID)
	if scope == nil {
		return ""
	}
	for _, id := range scope.ChildrenIDs() {
		if fn, ok := g.Get(id).(*model.Function); ok && fn.ElementName() == name {
			return id
		}
	}
	return ""
}

// splitLast splits a dotted name at its final '.', returning ("", name)
// when there is none.
func splitLast(dotted string) (receiver, last string) {
	i := strings.LastIndexByte(dotted, '.')
	if i < 0 {
		return "", dotted
	}
	return dotted[:i], dotted[i+1:]
}

// mergeUnique combines a and b into a de-duplicated, sorted id list — the
// "collected into a set, sorted deterministically" step of § 4.F.
func mergeUnique(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string(nil), a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
