// Package extract walks one parsed Python file and produces a model.Module
// plus the Class/Function elements nested inside it, each populated with its
// own span, decorators, parameters, outgoing-call names, call sites,
// instructions, and (for classes) unresolved base-class names and inferred
// attribute types.
//
// Nothing here resolves a name to another element's id — that is
// internal/resolve's and internal/project's job. This package only reads
// syntax.
//
// Grounded in original_source/code_analyzer/ast_parser/{handlers,processor,
// instruction_builder}.py for what to extract and how far each kind of walk
// recurses, and in graph/callgraph/imports.go's tree-sitter traversal idiom.
package extract

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/arborcode/symgraph/internal/config"
	"github.com/arborcode/symgraph/internal/pyast"
	"github.com/arborcode/symgraph/model"
)

// FileResult is everything NodeExtractor produces for one source file.
type FileResult struct {
	Module *model.Module
	// Elements holds every Class/Function found anywhere in the file
	// (including nested classes/methods), keyed by id.
	Elements map[string]model.Element
	// Order is Elements' discovery order, depth-first, matching source
	// order — used so callers can insert into a shared graph map
	// deterministically.
	Order []string
}

// ExtractFile parses source and extracts a full Module subtree rooted at
// parentID (the owning Folder's id). attrs selects which of the optional,
// possibly expensive per-element attributes (instructions, call sites,
// inferred attribute types) are populated; decorators, parameters,
// unresolved base classes, and outgoing-call names are always extracted —
// the resolution passes downstream (HierarchyResolver, CallResolver) depend
// on them unconditionally.
func ExtractFile(ctx context.Context, filePath, parentID string, source []byte, attrs config.NodeAttributeConfig) (*FileResult, error) {
	tree, err := pyast.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", filePath, err)
	}
	defer tree.Close()

	lineCount := strings.Count(string(source), "\n") + 1
	name := moduleNameFromPath(filePath)
	mod := model.NewModule(name, parentID, filePath, lineCount)
	mod.Imports = extractImports(tree.Root(), source)
	if attrs.IncludeInstructions {
		mod.Instructions = buildInstructions(tree.Root(), source)
	}

	res := &FileResult{Module: mod, Elements: make(map[string]model.Element)}
	for _, stmt := range pyast.Children(tree.Root()) {
		extractStatement(stmt, source, mod, res, attrs)
	}
	return res, nil
}

func moduleNameFromPath(filePath string) string {
	base := filePath
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, ".py")
}

// extractStatement dispatches a single module- or class-body statement,
// unwrapping decorated_definition, and recurses into class/function bodies.
func extractStatement(n *sitter.Node, source []byte, parent model.Element, res *FileResult, attrs config.NodeAttributeConfig) {
	if n == nil {
		return
	}
	var decorators []string
	target := n
	if n.Type() == "decorated_definition" {
		decorators = extractDecorators(n, source)
		target = n.ChildByFieldName("definition")
		if target == nil {
			return
		}
	}

	switch target.Type() {
	case "class_definition":
		extractClass(target, source, decorators, parent, res, attrs)
	case "function_definition":
		extractFunction(target, source, decorators, parent, res, attrs)
	}
}

// extractDecorators collects a definition's decorator names, keeping only
// bare identifiers (`@cached`) and dropping dotted or called decorators
// (`@app.route`, `@pytest.mark.parametrize(...)`) entirely — decorator
// names are simple names only, matching DecoratorsHandler.handle in
// original_source, which only accepts an ast.Name decorator.
func extractDecorators(n *sitter.Node, source []byte) []string {
	var out []string
	for _, c := range pyast.Children(n) {
		if c.Type() != "decorator" {
			continue
		}
		for _, expr := range pyast.NamedChildren(c) {
			if expr.Type() == "identifier" {
				out = append(out, pyast.Text(expr, source))
			}
			break
		}
	}
	return out
}

func extractClass(n *sitter.Node, source []byte, decorators []string, parent model.Element, res *FileResult, attrs config.NodeAttributeConfig) {
	nameNode := n.ChildByFieldName("name")
	span := model.SourceSpan{FilePath: res.Module.Span.FilePath, StartLine: pyast.Line(n), EndLine: pyast.EndLine(n)}
	cls := model.NewClass(pyast.Text(nameNode, source), parent.ElementID(), span)
	cls.DecoratorNames = decorators
	cls.UnresolvedBaseClasses = extractBaseClassNames(n, source)

	parent.AddChild(cls.ElementID())
	res.Elements[cls.ElementID()] = cls
	res.Order = append(res.Order, cls.ElementID())

	if attrs.IncludeAttributeTypes {
		collectSelfAttributeTypes(n, source, cls)
	}

	body := n.ChildByFieldName("body")
	for _, stmt := range pyast.Children(body) {
		extractStatement(stmt, source, cls, res, attrs)
	}
}

// extractBaseClassNames reads the superclasses argument_list, rendering each
// argument's full dotted/attribute name. Keyword arguments like
// `metaclass=ABCMeta` are skipped — they aren't base classes.
func extractBaseClassNames(n *sitter.Node, source []byte) []string {
	superclasses := n.ChildByFieldName("superclasses")
	if superclasses == nil {
		return nil
	}
	var out []string
	for _, arg := range pyast.NamedChildren(superclasses) {
		if arg.Type() == "keyword_argument" {
			continue
		}
		out = append(out, pyast.FullName(arg, source))
	}
	return out
}

func extractFunction(n *sitter.Node, source []byte, decorators []string, parent model.Element, res *FileResult, attrs config.NodeAttributeConfig) {
	nameNode := n.ChildByFieldName("name")
	span := model.SourceSpan{FilePath: res.Module.Span.FilePath, StartLine: pyast.Line(n), EndLine: pyast.EndLine(n)}
	fn := model.NewFunction(pyast.Text(nameNode, source), parent.ElementID(), span)
	fn.DecoratorNames = decorators
	fn.Parameters = extractParameters(n, source)

	body := n.ChildByFieldName("body")
	calls := newCallCollector()
	collectCalls(body, source, calls)
	calls.addDecoratorCalls(decorators)
	fn.OutgoingCalls = calls.outgoingAll()
	fn.OutgoingFuncCalls = calls.funcCalls
	fn.OutgoingMethodCalls = calls.methodCalls
	if attrs.IncludeCallSites {
		fn.CallSites = calls.sites
	}
	if attrs.IncludeInstructions {
		fn.Instructions = buildInstructions(body, source)
	}

	parent.AddChild(fn.ElementID())
	res.Elements[fn.ElementID()] = fn
	res.Order = append(res.Order, fn.ElementID())

	// A nested def/class inside a function body becomes its own element,
	// parented to the function, rather than contributing to the function's
	// own outgoing calls/instructions (handled above, which stop at these
	// boundaries — see collectCalls/buildInstructions).
	for _, stmt := range allStatements(body) {
		if stmt.Type() == "function_definition" || stmt.Type() == "class_definition" || stmt.Type() == "decorated_definition" {
			extractStatement(stmt, source, fn, res, attrs)
		}
	}
}

func extractParameters(n *sitter.Node, source []byte) []model.Parameter {
	params := n.ChildByFieldName("parameters")
	var out []model.Parameter
	for _, p := range pyast.Children(params) {
		switch p.Type() {
		case "identifier":
			out = append(out, model.Parameter{Name: pyast.Text(p, source)})
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			if id := firstIdentifier(p, source); id != "" {
				out = append(out, model.Parameter{Name: id})
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if id := firstIdentifier(p, source); id != "" {
				out = append(out, model.Parameter{Name: id})
			}
		}
	}
	return out
}

func firstIdentifier(n *sitter.Node, source []byte) string {
	for _, c := range pyast.Children(n) {
		if c.Type() == "identifier" {
			return pyast.Text(c, source)
		}
	}
	return ""
}

// allStatements returns every descendant statement node without stopping at
// block boundaries (if/for/while/try bodies), used to find nested defs
// anywhere in a function body, however deeply nested in control flow.
func allStatements(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "function_definition", "class_definition", "decorated_definition":
			out = append(out, n)
			return
		}
		for _, c := range pyast.Children(n) {
			walk(c)
		}
	}
	for _, c := range pyast.Children(n) {
		walk(c)
	}
	return out
}
