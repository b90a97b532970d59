package resolve

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arborcode/symgraph/model"
)

// SymbolResolver resolves a dotted name against the element whose scope
// it's being read from: walk local children first, then imports, splitting
// on the first dot and recursing on the remainder.
// Grounded in original_source/code_analyzer/symbol_resolver.py's
// SymbolResolver.resolve_symbol / _resolve_head / _resolve_deeply.
type SymbolResolver struct {
	Graph *model.Graph
	cache *lru.Cache[symbolKey, string]
}

type symbolKey struct {
	name      string
	contextID string
}

// NewSymbolResolver returns a SymbolResolver over g, memoizing up to
// cacheSize distinct (name, context) lookups — the same dotted name
// recurs heavily across a class's sibling methods, the same read-heavy
// cache shape as graph/callgraph/builder.go's ImportMapCache.
func NewSymbolResolver(g *model.Graph, cacheSize int) *SymbolResolver {
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	c, _ := lru.New[symbolKey, string](cacheSize)
	return &SymbolResolver{Graph: g, cache: c}
}

// Resolve looks up dotted name starting from contextID's scope (a Module or
// Class element). It returns the resolved element's id, or "" if the name
// can't be found anywhere reachable from contextID.
func (r *SymbolResolver) Resolve(name, contextID string) string {
	key := symbolKey{name: name, contextID: contextID}
	if id, ok := r.cache.Get(key); ok {
		return id
	}
	id := r.resolveUncached(name, contextID)
	r.cache.Add(key, id)
	return id
}

func (r *SymbolResolver) resolveUncached(name, contextID string) string {
	if name == "" || contextID == "" {
		return ""
	}
	head, tail := splitHead(name)
	headID := r.resolveHead(head, contextID)
	if headID == "" {
		return ""
	}
	if tail == "" {
		return headID
	}
	return r.resolveDeeply(tail, headID)
}

// resolveHead finds the element head names directly within contextID's
// scope: a direct child by name, or an import whose effective local name
// matches (descending into the from-import's named target when it is
// itself local, or resolving straight to the imported module/folder when
// the whole import statement's local name is what's being asked for).
func (r *SymbolResolver) resolveHead(head, contextID string) string {
	if child := r.findChildByName(contextID, head); child != "" {
		return child
	}
	mod := r.Graph.NearestModule(contextID)
	if mod == nil {
		return ""
	}
	for _, imp := range mod.Imports {
		if imp.EffectiveLocalName() != head || imp.ModuleID == "" {
			continue
		}
		if imp.Name != "" {
			// from module import Name [as alias] — head refers to the
			// specific member Name inside the imported module.
			if target := r.findChildByName(imp.ModuleID, imp.Name); target != "" {
				return target
			}
			continue
		}
		// import module [as alias] — head refers to the module/folder itself.
		return imp.ModuleID
	}
	return ""
}

// resolveDeeply continues resolving tail starting from an already-resolved
// scope id, descending through further imports when an intermediate
// segment is itself a module.
func (r *SymbolResolver) resolveDeeply(tail, scopeID string) string {
	head, rest := splitHead(tail)
	next := r.findChildByName(scopeID, head)
	if next == "" {
		if mod := r.Graph.Module(scopeID); mod != nil {
			for _, imp := range mod.Imports {
				if imp.EffectiveLocalName() == head && imp.ModuleID != "" {
					next = imp.ModuleID
					break
				}
			}
		}
	}
	if next == "" {
		return ""
	}
	if rest == "" {
		return next
	}
	return r.resolveDeeply(rest, next)
}

// findChildByName does the ordered linear scan original_source's
// _find_child_by_name does — children are few enough per scope that this
// beats building a per-scope name index just to memoize it once via Resolve.
func (r *SymbolResolver) findChildByName(scopeID, name string) string {
	el := r.Graph.Get(scopeID)
	if el == nil {
		return ""
	}
	for _, id := range el.ChildrenIDs() {
		if child := r.Graph.Get(id); child != nil && child.ElementName() == name {
			return id
		}
	}
	return ""
}

func splitHead(dotted string) (head, tail string) {
	if i := strings.IndexByte(dotted, '.'); i >= 0 {
		return dotted[:i], dotted[i+1:]
	}
	return dotted, ""
}
