package resolve

import "github.com/arborcode/symgraph/model"

// HierarchyResolver resolves every class's unresolved base-class names to
// the id of the class they name, wherever in the project that class lives —
// same module, an explicit `from X import Y` target, or a dotted
// `module.Class` path reachable through nested imports. It must run to
// completion before CallResolver starts, since CallResolver's self.method
// MRO walk depends on BaseClasses already being resolved.
//
// Grounded in original_source/code_analyzer/hierarchy_resolver.py's
// HierarchyResolver.resolve_all / _resolve_for_class / _find_base_class_id,
// generalized here onto SymbolResolver's dotted-name walk rather than
// reimplementing a second, narrower lookup — the same search order
// (local children, then imports, then deep dotted paths) falls out of
// SymbolResolver.Resolve for free.
type HierarchyResolver struct {
	Graph   *model.Graph
	Symbols *SymbolResolver
}

// NewHierarchyResolver returns a HierarchyResolver over g, sharing symbols
// (the same resolver CallResolver will reuse, so a name resolved once here
// is already warm in its cache).
func NewHierarchyResolver(g *model.Graph, symbols *SymbolResolver) *HierarchyResolver {
	return &HierarchyResolver{Graph: g, Symbols: symbols}
}

// ResolveAll walks every *model.Class in the graph and resolves as many of
// its UnresolvedBaseClasses as it can. A name that still can't be resolved
// (third-party base, dynamic metaclass trickery) is left in place.
// BaseClasses and UnresolvedBaseClasses stay disjoint: a name that fails to
// resolve simply never leaves UnresolvedBaseClasses.
func (h *HierarchyResolver) ResolveAll() {
	h.Graph.Walk(func(el model.Element) {
		cls, ok := el.(*model.Class)
		if !ok || len(cls.UnresolvedBaseClasses) == 0 {
			return
		}
		mod := h.Graph.NearestModule(cls.ElementID())
		if mod == nil {
			return
		}
		// copy: ResolveAll mutates UnresolvedBaseClasses while iterating it
		pending := append([]string(nil), cls.UnresolvedBaseClasses...)
		for _, baseName := range pending {
			id := h.Symbols.Resolve(baseName, mod.ElementID())
			if id == "" || h.Graph.Class(id) == nil {
				continue
			}
			cls.BaseClasses[baseName] = id
			cls.RemoveUnresolvedBaseClass(baseName)
		}
	})
}
