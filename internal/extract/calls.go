package extract

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/arborcode/symgraph/internal/pyast"
	"github.com/arborcode/symgraph/model"
)

// callCollector accumulates everything a single function body's call walk
// finds: the combined outgoing-call name list, the func/method split, and
// the raw call-site occurrences (§ D.2 of SPEC_FULL).
type callCollector struct {
	names       []string
	funcCalls   []string
	methodCalls []string
	sites       []model.CallReference
}

func newCallCollector() *callCollector {
	return &callCollector{}
}

// outgoingAll returns the raw callee-name set, de-duplicated and sorted —
// the final set a caller's body and decorators contribute before any
// resolution happens.
func (c *callCollector) outgoingAll() []string {
	seen := make(map[string]bool, len(c.names))
	out := make([]string, 0, len(c.names))
	for _, n := range c.names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// addDecoratorCalls folds decorator names into the same raw outgoing-call
// lists a body's call expressions populate, since a decorator is itself a
// call site on the defining scope — decorator names are always bare
// identifiers (extractDecorators drops dotted/called decorators), so they
// join funcCalls the same way a plain `name()` body call would.
func (c *callCollector) addDecoratorCalls(decorators []string) {
	for _, d := range decorators {
		c.funcCalls = append(c.funcCalls, d)
		c.names = append(c.names, d)
	}
}

// collectCalls walks a function body looking for call expressions, stopping
// at nested function/class definition boundaries — a nested def's own calls
// belong to that nested def's element, not this one. Grounded in
// original_source/code_analyzer/ast_parser/handlers.py's
// FunctionDefHandler._extract_calls_from_node.
func collectCalls(n *sitter.Node, source []byte, c *callCollector) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "function_definition", "class_definition", "decorated_definition":
		return
	case "call":
		recordCall(n, source, c)
	}
	for _, child := range pyast.Children(n) {
		collectCalls(child, source, c)
	}
}

// recordCall classifies one call expression by its callee shape: bare
// `name()` is a func call; `receiver.attr()` is a method call, recorded as
// the dotted name (for CallResolver's self/attribute-chain heuristics) and
// also as the bare `attr` (so a method call still links to a same-named
// free function in scope — the original's _analyze_call_context appends
// `func.attr` before the dotted and self forms). Grounded in
// ast_parser/handlers.py's NodeHandler._analyze_call_context.
func recordCall(n *sitter.Node, source []byte, c *callCollector) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	c.sites = append(c.sites, model.CallReference{
		Expression: pyast.Text(n, source),
		Line:       pyast.Line(n),
		Column:     pyast.Column(n),
	})

	switch fn.Type() {
	case "identifier":
		name := pyast.Text(fn, source)
		c.funcCalls = append(c.funcCalls, name)
		c.names = append(c.names, name)
	case "attribute":
		attr := fn.ChildByFieldName("attribute")
		attrName := pyast.Text(attr, source)
		c.funcCalls = append(c.funcCalls, attrName)
		c.names = append(c.names, attrName)

		obj := fn.ChildByFieldName("object")
		dotted := pyast.FullName(obj, source) + "." + attrName
		c.methodCalls = append(c.methodCalls, dotted)
		c.names = append(c.names, dotted)
	default:
		if full := pyast.FullName(fn, source); full != "" {
			c.names = append(c.names, full)
		}
	}
}

// buildInstructions builds the linear single-assignment IR for a module's
// top-level statements or a function's body: one Instruction per call or
// assignment statement, descending into if/for/while/try blocks but
// stopping at nested def/class boundaries — those get their own
// Instructions when they're extracted as their own element. Grounded in
// original_source/code_analyzer/ast_parser/instruction_builder.py.
func buildInstructions(n *sitter.Node, source []byte) []model.Instruction {
	var out []model.Instruction
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "function_definition", "class_definition", "decorated_definition":
			return
		case "assignment":
			out = append(out, instructionsFromAssignment(n, source)...)
			return
		case "expression_statement":
			for _, c := range pyast.Children(n) {
				switch c.Type() {
				case "call":
					out = append(out, instructionFromCall("", c, source))
				case "assignment":
					out = append(out, instructionsFromAssignment(c, source)...)
				}
			}
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

func instructionsFromAssignment(n *sitter.Node, source []byte) []model.Instruction {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if right == nil {
		return nil
	}
	target := pyast.FullName(left, source)

	switch right.Type() {
	case "call":
		return []model.Instruction{instructionFromCall(target, right, source)}
	case "attribute":
		obj := right.ChildByFieldName("object")
		attr := right.ChildByFieldName("attribute")
		return []model.Instruction{{
			Target:     target,
			Op:         model.OpGetAttr,
			Name:       pyast.Text(attr, source),
			BaseObject: pyast.FullName(obj, source),
		}}
	default:
		return []model.Instruction{{
			Target: target,
			Op:     model.OpAssign,
			Name:   pyast.FullName(right, source),
		}}
	}
}

func instructionFromCall(target string, call *sitter.Node, source []byte) model.Instruction {
	fn := call.ChildByFieldName("function")
	args := extractArgumentTexts(call, source)
	if fn != nil && fn.Type() == "attribute" {
		obj := fn.ChildByFieldName("object")
		attr := fn.ChildByFieldName("attribute")
		return model.Instruction{
			Target:     target,
			Op:         model.OpCallMethod,
			Name:       pyast.Text(attr, source),
			BaseObject: pyast.FullName(obj, source),
			Arguments:  args,
		}
	}
	return model.Instruction{
		Target:    target,
		Op:        model.OpCallFunction,
		Name:      pyast.FullName(fn, source),
		Arguments: args,
	}
}

func extractArgumentTexts(call *sitter.Node, source []byte) []string {
	argsNode := call.ChildByFieldName("arguments")
	var out []string
	for _, a := range pyast.NamedChildren(argsNode) {
		out = append(out, pyast.Text(a, source))
	}
	return out
}

// collectSelfAttributeTypes infers `self.attr`'s type set from every
// `self.attr = T(...)` or annotated `self.attr: T = ...` assignment found
// anywhere in the class body — including nested if/for/try blocks and
// nested defs inside a method, unlike outgoing-call extraction, which stops
// at nested def/class boundaries (calls belong to the nearest enclosing
// def; attribute assignments all describe the same object regardless of
// where they are written). Nested class bodies are excluded: their `self`
// refers to a different object. Grounded in
// original_source/code_analyzer/ast_parser/handlers.py's
// FunctionDefHandler._collect_self_attribute_types /
// _infer_types_from_value.
func collectSelfAttributeTypes(classNode *sitter.Node, source []byte, cls *model.Class) {
	body := classNode.ChildByFieldName("body")
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "class_definition" && n != classNode {
			return
		}
		if n.Type() == "assignment" {
			recordSelfAttribute(n, source, cls)
		}
		for _, c := range pyast.Children(n) {
			walk(c)
		}
	}
	walk(body)
}

func recordSelfAttribute(n *sitter.Node, source []byte, cls *model.Class) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != "attribute" {
		return
	}
	obj := left.ChildByFieldName("object")
	if pyast.Text(obj, source) != "self" {
		return
	}
	attrName := pyast.Text(left.ChildByFieldName("attribute"), source)
	if attrName == "" {
		return
	}

	var typeName string
	if typeNode := n.ChildByFieldName("type"); typeNode != nil {
		typeName = pyast.FullName(typeNode, source)
	} else if right.Type() == "call" {
		typeName = pyast.FullName(right.ChildByFieldName("function"), source)
	}
	if typeName != "" {
		cls.AddAttributeType(attrName, typeName)
	}
}
