// Package model defines the flat, id-addressed graph produced by the
// symbol-resolution pipeline: folders, modules, classes, functions, and the
// import/instruction records carried inside modules and functions.
//
// Every element is reachable only through its opaque id; relations between
// elements (parent/child, base class, resolved call target, resolved import)
// are stored as ids, never as direct pointers. This keeps cyclic references
// between modules and classes representable without ownership cycles, and
// keeps the graph a pure value that can be handed between pipeline phases
// and serialized without walking live pointers.
package model

import "github.com/google/uuid"

// Kind discriminates the element variants held in a Graph's flat map.
type Kind string

const (
	KindFolder   Kind = "folder"
	KindModule   Kind = "module"
	KindClass    Kind = "class"
	KindFunction Kind = "function"
)

// NewID mints a process-wide unique, opaque element id. Ids are never
// recycled, so id allocation needs no coordination beyond each caller using
// its own uuid source.
func NewID() string {
	return uuid.New().String()
}

// Element is the common surface every graph node satisfies. Concrete
// variants are *Folder, *Module, *Class, *Function; callers dispatch on Kind
// with a total switch rather than type-asserting blindly.
type Element interface {
	ElementID() string
	ElementName() string
	ElementKind() Kind
	ParentID() string
	ChildrenIDs() []string
	AddChild(id string)
}

// base is embedded by every concrete element and implements the id/name/
// parent/children bookkeeping common to all of them.
type base struct {
	ID       string
	Name     string
	Parent   string // empty for the root
	Children []string
}

func (b *base) ElementID() string       { return b.ID }
func (b *base) ElementName() string     { return b.Name }
func (b *base) ParentID() string        { return b.Parent }
func (b *base) ChildrenIDs() []string   { return b.Children }
func (b *base) AddChild(childID string) { b.Children = append(b.Children, childID) }

// SourceSpan locates an element in its source file.
type SourceSpan struct {
	FilePath  string
	StartLine int
	EndLine   int
}

// Folder is a directory that contains at least one module, directly or
// transitively. Folders with no module descendants are never materialized.
type Folder struct {
	base
}

func (f *Folder) ElementKind() Kind { return KindFolder }

// NewFolder creates a Folder rooted at parentID (empty for the project root).
func NewFolder(name, parentID string) *Folder {
	return &Folder{base: base{ID: NewID(), Name: name, Parent: parentID}}
}

// Module is the element representing a single source file.
type Module struct {
	base
	Span         SourceSpan
	Imports      []*ImportRecord
	Instructions []Instruction
}

func (m *Module) ElementKind() Kind { return KindModule }

// NewModule creates a Module for the given file, spanning the whole file.
func NewModule(name, parentID, filePath string, lineCount int) *Module {
	return &Module{
		base: base{ID: NewID(), Name: name, Parent: parentID},
		Span: SourceSpan{FilePath: filePath, StartLine: 1, EndLine: lineCount},
	}
}

// Class is a class definition.
type Class struct {
	base
	Span                  SourceSpan
	DecoratorNames        []string
	UnresolvedBaseClasses []string          // dotted names not yet resolved; disjoint from BaseClasses' keys
	BaseClasses           map[string]string // original dotted name -> resolved class id
	AttributeTypes        map[string][]string
}

func (c *Class) ElementKind() Kind { return KindClass }

// NewClass creates a Class definition element.
func NewClass(name, parentID string, span SourceSpan) *Class {
	return &Class{
		base:           base{ID: NewID(), Name: name, Parent: parentID},
		Span:           span,
		BaseClasses:    make(map[string]string),
		AttributeTypes: make(map[string][]string),
	}
}

// RemoveUnresolvedBaseClass drops baseName from UnresolvedBaseClasses, if present.
func (c *Class) RemoveUnresolvedBaseClass(baseName string) {
	for i, n := range c.UnresolvedBaseClasses {
		if n == baseName {
			c.UnresolvedBaseClasses = append(c.UnresolvedBaseClasses[:i], c.UnresolvedBaseClasses[i+1:]...)
			return
		}
	}
}

// AddAttributeType unions typeName into the inferred type set for attr.
func (c *Class) AddAttributeType(attr, typeName string) {
	existing := c.AttributeTypes[attr]
	for _, t := range existing {
		if t == typeName {
			return
		}
	}
	c.AttributeTypes[attr] = append(existing, typeName)
}

// Parameter is a single positional function parameter.
type Parameter struct {
	Name string
}

// CallReference is a single (line, column, expression) call-site occurrence,
// used by the optional precise-call-site mode.
type CallReference struct {
	Expression string
	Line       int
	Column     int
}

// Function is a function or method definition.
type Function struct {
	base
	Span                SourceSpan
	DecoratorNames      []string
	Parameters          []Parameter
	OutgoingCalls       []string // raw callee name strings pre-resolution, element ids post-resolution
	OutgoingFuncCalls   []string
	OutgoingMethodCalls []string
	CallSites           []CallReference
	Instructions        []Instruction
}

func (f *Function) ElementKind() Kind { return KindFunction }

// NewFunction creates a Function definition element.
func NewFunction(name, parentID string, span SourceSpan) *Function {
	return &Function{
		base: base{ID: NewID(), Name: name, Parent: parentID},
		Span: span,
	}
}

// ImportRecord describes one imported binding inside a Module. It is not
// itself a graph element — it lives only inside the owning Module.
type ImportRecord struct {
	Module  string // dotted source path, empty for "from . import X"
	Name    string // imported member name, empty for "import X" / "import X.Y"
	Alias   string // local alias, empty if none
	Level   int    // 0 = absolute, >=1 = relative-ancestor count
	IsLocal bool
	Path    string // resolved filesystem path, empty if unresolved or non-local
	// DirPackageFallback records that Path was returned as a bare directory
	// with no package marker file — an ambiguous namespace-package case,
	// flagged rather than resolved definitively.
	DirPackageFallback bool
	ModuleID           string // resolved Module/Folder element id, empty until stitched
}

// EffectiveLocalName is the name this import binds in the importing module's
// scope: the alias if set, else the imported member name, else the first
// segment of the dotted module path.
func (r *ImportRecord) EffectiveLocalName() string {
	if r.Alias != "" {
		return r.Alias
	}
	if r.Name != "" {
		return r.Name
	}
	return firstSegment(r.Module)
}

func firstSegment(dotted string) string {
	for i, c := range dotted {
		if c == '.' {
			return dotted[:i]
		}
	}
	return dotted
}

// Operation tags an Instruction's kind.
type Operation string

const (
	OpCallFunction Operation = "call_function"
	OpCallMethod   Operation = "call_method"
	OpAssign       Operation = "assign"
	OpGetAttr      Operation = "get_attr"
)

// Instruction is one entry of the linear, single-assignment IR built from a
// module's top-level statements or a function's body.
type Instruction struct {
	Target     string
	Op         Operation
	Name       string
	BaseObject string
	Arguments  []string
}
