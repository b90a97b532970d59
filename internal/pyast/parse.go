// Package pyast is the thin tree-sitter adapter the extractor is built on
// top of. It owns parsing source bytes into a syntax tree and the small set
// of node helpers the extractor needs (source text, children, named
// children, line/column positions, full dotted names). It never builds
// model.Element values itself — that's internal/extract's job.
//
// Parses Python via sitter.NewParser + python.GetLanguage, with direct
// recursive descent over named node types rather than tree-sitter queries.
package pyast

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Tree wraps a parsed file: the root node plus the source bytes every
// Content() call needs to slice text out of.
type Tree struct {
	Source []byte
	root   *sitter.Node
	close  func()
}

// Root returns the file's root AST node.
func (t *Tree) Root() *sitter.Node { return t.root }

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.close != nil {
		t.close()
	}
}

// Parse parses Python source into a Tree. The caller must Close it.
func Parse(ctx context.Context, source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing python source: %w", err)
	}
	return &Tree{Source: source, root: tree.RootNode(), close: tree.Close}, nil
}

// Text returns a node's source text, or "" for a nil node.
func Text(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(source)
}

// Children returns a node's direct children as a slice, skipping nils.
func Children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// NamedChildren returns a node's named (non-punctuation) children.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Line returns the 1-based source line a node starts on.
func Line(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Row) + 1
}

// EndLine returns the 1-based source line a node ends on.
func EndLine(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.EndPoint().Row) + 1
}

// Column returns the 0-based source column a node starts on.
func Column(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPoint().Column)
}

// FullName renders an expression node's dotted/call text, the way a human
// would write it: identifiers pass through, attribute access becomes
// "base.attr", subscripting becomes "base[]", and a call becomes "target()".
// Grounded in original_source/code_analyzer/ast_parser/handlers.py's
// NodeHandler._get_full_name.
func FullName(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "identifier":
		return Text(n, source)
	case "attribute":
		obj := n.ChildByFieldName("object")
		attr := n.ChildByFieldName("attribute")
		return FullName(obj, source) + "." + Text(attr, source)
	case "subscript":
		value := n.ChildByFieldName("value")
		return FullName(value, source) + "[]"
	case "call":
		fn := n.ChildByFieldName("function")
		return FullName(fn, source) + "()"
	default:
		return Text(n, source)
	}
}
