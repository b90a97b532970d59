package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/arborcode/symgraph/internal/pyast"
	"github.com/arborcode/symgraph/model"
)

// extractImports walks a module's direct children for import_statement and
// import_from_statement nodes and appends one model.ImportRecord per bound
// name. Classification (IsLocal/Path/ModuleID) is internal/resolve's job,
// not this package's — here we only record what the source text says.
//
// Grounded in the traverseForImports / processImportStatement /
// processImportFromStatement shape from graph/callgraph/imports.go in the
// pack's tree-sitter reference, generalized to also capture `level` for
// relative imports, following original_source's ast_parser/handlers.py
// ImportHandler (via `level`/`from . import X`).
func extractImports(root *sitter.Node, source []byte) []*model.ImportRecord {
	var out []*model.ImportRecord
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "import_statement":
			out = append(out, processImportStatement(n, source)...)
			return
		case "import_from_statement":
			out = append(out, processImportFromStatement(n, source)...)
			return
		case "function_definition", "class_definition":
			// Only module-scope imports are recorded: imports written
			// inside a function or class body are not collected.
			return
		}
		for _, c := range pyast.Children(n) {
			walk(c)
		}
	}
	for _, c := range pyast.Children(root) {
		walk(c)
	}
	return out
}

func processImportStatement(n *sitter.Node, source []byte) []*model.ImportRecord {
	var out []*model.ImportRecord
	for _, child := range pyast.Children(n) {
		switch child.Type() {
		case "aliased_import":
			moduleNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			out = append(out, &model.ImportRecord{
				Module: pyast.Text(moduleNode, source),
				Alias:  pyast.Text(aliasNode, source),
			})
		case "dotted_name", "identifier":
			out = append(out, &model.ImportRecord{
				Module: pyast.Text(child, source),
			})
		}
	}
	return out
}

func processImportFromStatement(n *sitter.Node, source []byte) []*model.ImportRecord {
	moduleField := n.ChildByFieldName("module_name")
	module, level := relativeModule(moduleField, source)

	var out []*model.ImportRecord
	for _, child := range pyast.Children(n) {
		if child == moduleField {
			continue
		}
		switch child.Type() {
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			out = append(out, &model.ImportRecord{
				Module: module,
				Name:   pyast.Text(nameNode, source),
				Alias:  pyast.Text(aliasNode, source),
				Level:  level,
			})
		case "dotted_name", "identifier":
			out = append(out, &model.ImportRecord{
				Module: module,
				Name:   pyast.Text(child, source),
				Level:  level,
			})
		case "wildcard_import":
			out = append(out, &model.ImportRecord{
				Module: module,
				Name:   "*",
				Level:  level,
			})
		}
	}
	return out
}

// relativeModule resolves a from-import's module field, which is either a
// plain dotted_name (absolute import, level 0) or a relative_import node
// (import_prefix dots, optional trailing dotted_name, level = dot count).
func relativeModule(n *sitter.Node, source []byte) (module string, level int) {
	if n == nil {
		return "", 0
	}
	if n.Type() != "relative_import" {
		return pyast.Text(n, source), 0
	}
	for _, c := range pyast.Children(n) {
		switch c.Type() {
		case "import_prefix":
			level = len(pyast.Text(c, source))
		case "dotted_name":
			module = pyast.Text(c, source)
		}
	}
	return module, level
}
