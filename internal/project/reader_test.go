package project

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborcode/symgraph/internal/resolve"
	"github.com/arborcode/symgraph/model"
)

// writeFiles materializes a small Python project under t.TempDir() and
// returns the root. Mirrors the layout of original_source/tests/
// multifile_test and inheritance_tests.py's per-scenario fixture folders.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

// buildGraph runs the full pipeline (FolderReader -> stitch -> Hierarchy ->
// Call) the way internal/graph.Build does, without depending on that
// package (internal/graph imports this one, so importing it here would be
// a cycle).
func buildGraph(t *testing.T, root string) *model.Graph {
	t.Helper()
	reader := NewReader(root)
	g, err := reader.Read(context.Background(), root)
	require.NoError(t, err)

	symbols := resolve.NewSymbolResolver(g, 0)
	resolve.NewHierarchyResolver(g, symbols).ResolveAll()
	resolve.NewCallResolver(g, symbols).ResolveAll()
	return g
}

func findClass(g *model.Graph, name string) *model.Class {
	var found *model.Class
	g.Walk(func(el model.Element) {
		if found != nil {
			return
		}
		if c, ok := el.(*model.Class); ok && c.ElementName() == name {
			found = c
		}
	})
	return found
}

func findFunction(g *model.Graph, name string) *model.Function {
	var found *model.Function
	g.Walk(func(el model.Element) {
		if found != nil {
			return
		}
		if f, ok := el.(*model.Function); ok && f.ElementName() == name {
			found = f
		}
	})
	return found
}

func findFunctionOnClass(g *model.Graph, cls *model.Class, name string) *model.Function {
	for _, id := range cls.ChildrenIDs() {
		if f, ok := g.Get(id).(*model.Function); ok && f.ElementName() == name {
			return f
		}
	}
	return nil
}

// Simple single-file inheritance.
func TestScenario_SimpleSingleFileInheritance(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.py": "class Parent: pass\nclass Child(Parent): pass\n",
	})
	g := buildGraph(t, root)

	parent := findClass(g, "Parent")
	child := findClass(g, "Child")
	require.NotNil(t, parent)
	require.NotNil(t, child)

	assert.Equal(t, map[string]string{"Parent": parent.ElementID()}, child.BaseClasses)
	assert.Empty(t, child.UnresolvedBaseClasses)
}

// Aliased import inheritance.
func TestScenario_AliasedImportInheritance(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"b.py": "class OriginalBase: pass\n",
		"a.py": "from b import OriginalBase as MyBase\nclass MyClass(MyBase): pass\n",
	})
	g := buildGraph(t, root)

	base := findClass(g, "OriginalBase")
	child := findClass(g, "MyClass")
	require.NotNil(t, base)
	require.NotNil(t, child)

	assert.Equal(t, base.ElementID(), child.BaseClasses["MyBase"])
	assert.Empty(t, child.UnresolvedBaseClasses)
}

// Dotted-module base.
func TestScenario_DottedModuleBase(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"helpers.py": "class Helper: pass\n",
		"svc.py":     "import helpers\nclass Service(helpers.Helper): pass\n",
	})
	g := buildGraph(t, root)

	helper := findClass(g, "Helper")
	service := findClass(g, "Service")
	require.NotNil(t, helper)
	require.NotNil(t, service)

	assert.Equal(t, helper.ElementID(), service.BaseClasses["helpers.Helper"])
}

// Local wins over imported.
func TestScenario_LocalWinsOverImported(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"ext.py": "class Config: pass\n",
		"app.py": "from ext import Config\nclass Config: pass\nclass AppConfig(Config): pass\n",
	})
	g := buildGraph(t, root)

	appCfg := findClass(g, "AppConfig")
	require.NotNil(t, appCfg)
	resolvedID, ok := appCfg.BaseClasses["Config"]
	require.True(t, ok)

	resolved := g.Class(resolvedID)
	require.NotNil(t, resolved)
	mod := g.NearestModule(resolved.ElementID())
	require.NotNil(t, mod)
	assert.Contains(t, mod.Span.FilePath, "app.py")
}

// self.method resolved via MRO walk.
func TestScenario_SelfMethodViaMRO(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.py": "class B:\n    def foo(self):\n        pass\n" +
			"class D(B):\n    def bar(self):\n        self.foo()\n",
	})
	g := buildGraph(t, root)

	classB := findClass(g, "B")
	fooOnB := findFunctionOnClass(g, classB, "foo")
	bar := findFunction(g, "bar")
	require.NotNil(t, fooOnB)
	require.NotNil(t, bar)

	assert.Contains(t, bar.OutgoingCalls, fooOnB.ElementID())
}

// Same-named methods on two classes stay distinct.
func TestScenario_SameNamedMethodsStayDistinct(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.py": "class WA:\n    def exec(self):\n        pass\n    def run(self):\n        self.exec()\n" +
			"class WB:\n    def exec(self):\n        pass\n    def run(self):\n        self.exec()\n",
	})
	g := buildGraph(t, root)

	wa := findClass(g, "WA")
	wb := findClass(g, "WB")
	require.NotNil(t, wa)
	require.NotNil(t, wb)

	execOnWA := findFunctionOnClass(g, wa, "exec")
	execOnWB := findFunctionOnClass(g, wb, "exec")
	runOnWA := findFunctionOnClass(g, wa, "run")
	runOnWB := findFunctionOnClass(g, wb, "run")
	require.NotNil(t, execOnWA)
	require.NotNil(t, execOnWB)
	require.NotNil(t, runOnWA)
	require.NotNil(t, runOnWB)

	assert.NotEqual(t, execOnWA.ElementID(), execOnWB.ElementID())
	assert.Equal(t, []string{execOnWA.ElementID()}, runOnWA.OutgoingCalls)
	assert.Equal(t, []string{execOnWB.ElementID()}, runOnWB.OutgoingCalls)
}

// Aliased-function call plus recursion and a decorator.
func TestScenario_AliasedCallRecursionDecorator(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"utils.py": "def simple_helper():\n    pass\n",
		"main.py": "from utils import simple_helper as renamed\n" +
			"def my_dec(fn):\n    return fn\n" +
			"@my_dec\ndef recur(n):\n    if n > 0:\n        recur(n - 1)\n    renamed()\n",
	})
	g := buildGraph(t, root)

	recur := findFunction(g, "recur")
	myDec := findFunction(g, "my_dec")
	helper := findFunction(g, "simple_helper")
	require.NotNil(t, recur)
	require.NotNil(t, myDec)
	require.NotNil(t, helper)

	assert.Contains(t, recur.OutgoingCalls, recur.ElementID())
	assert.Contains(t, recur.OutgoingCalls, myDec.ElementID())
	assert.Contains(t, recur.OutgoingCalls, helper.ElementID())
}

// MRO cycle safety: class A(B) / class B(A) across two files
// must terminate, not hang, regardless of what (if anything) resolves.
func TestScenario_MROCycleSafety(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.py": "from b import B\nclass A(B):\n    def foo(self):\n        self.bar()\n",
		"b.py": "from a import A\nclass B(A):\n    def bar(self):\n        self.foo()\n",
	})

	// Termination is the property under test: a cyclic base-class graph
	// must not hang CallResolver's MRO walk. go test's own per-package
	// timeout is the backstop if this regresses; a direct call keeps the
	// failure message attributable to this test rather than a bare panic.
	g := buildGraph(t, root)
	assert.NotNil(t, g)
}

// Containment consistency: every element's ParentID points back at a node
// whose ChildrenIDs lists it, for every element in the graph.
func TestInvariant_ContainmentConsistency(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"pkg/__init__.py": "",
		"pkg/mod.py":       "class C:\n    def m(self):\n        pass\n",
		"main.py":          "from pkg.mod import C\nc = C()\n",
	})
	g := buildGraph(t, root)

	g.Walk(func(el model.Element) {
		if el.ParentID() == "" {
			return
		}
		parent := g.Get(el.ParentID())
		require.NotNil(t, parent, "parent %s of %s must exist", el.ParentID(), el.ElementID())
		assert.Contains(t, parent.ChildrenIDs(), el.ElementID())
	})
}

// Base-class disjointness: no class ever lands in both BaseClasses and
// UnresolvedBaseClasses for the same name.
func TestInvariant_BaseClassDisjointness(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.py": "class Known: pass\nclass Mixed(Known, ThirdParty): pass\n",
	})
	g := buildGraph(t, root)

	mixed := findClass(g, "Mixed")
	require.NotNil(t, mixed)
	for name := range mixed.BaseClasses {
		assert.NotContains(t, mixed.UnresolvedBaseClasses, name)
	}
}

// Call integrity: every resolved
// outgoing-call id is present in the graph and names a function or class.
func TestInvariant_CallIntegrity(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"a.py": "class Base:\n    def target(self):\n        pass\n" +
			"class Sub(Base):\n    def caller(self):\n        self.target()\n        Base()\n",
	})
	g := buildGraph(t, root)

	var functions []*model.Function
	g.Walk(func(el model.Element) {
		if fn, ok := el.(*model.Function); ok {
			functions = append(functions, fn)
		}
	})
	require.NotEmpty(t, functions)

	for _, fn := range functions {
		for _, id := range fn.OutgoingCalls {
			target := g.Get(id)
			require.NotNil(t, target, "outgoing call %s from %s must resolve to a live element", id, fn.ElementName())
			kind := target.ElementKind()
			assert.True(t, kind == model.KindFunction || kind == model.KindClass,
				"outgoing call target %s must be a function or class, got %s", id, kind)
		}
	}
}

func TestRead_FromDottedPackageImport(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"pkg/__init__.py": "",
		"pkg/mod.py":      "class Widget: pass\n",
		"main.py":         "from pkg.mod import Widget\nclass App(Widget): pass\n",
	})
	g := buildGraph(t, root)

	widget := findClass(g, "Widget")
	app := findClass(g, "App")
	require.NotNil(t, widget)
	require.NotNil(t, app)
	assert.Equal(t, widget.ElementID(), app.BaseClasses["Widget"])
}

func TestRead_EmptyFoldersArePruned(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"has_module/a.py": "x = 1\n",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty_dir"), 0o755))

	g := buildGraph(t, root)

	var folderNames []string
	g.Walk(func(el model.Element) {
		if f, ok := el.(*model.Folder); ok {
			folderNames = append(folderNames, f.ElementName())
		}
	})
	sort.Strings(folderNames)
	assert.NotContains(t, folderNames, "empty_dir")
}

func TestRead_NonexistentRootIsHardError(t *testing.T) {
	reader := NewReader("/nonexistent/path/does-not-exist")
	_, err := reader.Read(context.Background(), "/nonexistent/path/does-not-exist")
	assert.Error(t, err)
}

func TestRead_UnparsableFileIsSkippedNotFatal(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"good.py": "class Fine: pass\n",
		"bin.py":  string([]byte{0xFF, 0xFE, 0x00, 0x01, 0x02}),
	})
	g := buildGraph(t, root)

	assert.NotNil(t, findClass(g, "Fine"))
}

