package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborcode/symgraph/internal/config"
	"github.com/arborcode/symgraph/model"
)

func extractSource(t *testing.T, source string) *FileResult {
	t.Helper()
	res, err := ExtractFile(context.Background(), "/proj/mod.py", "", []byte(source), config.DefaultNodeAttributeConfig())
	require.NoError(t, err)
	return res
}

func findByName(res *FileResult, name string) model.Element {
	for _, id := range res.Order {
		if el := res.Elements[id]; el.ElementName() == name {
			return el
		}
	}
	return nil
}

func TestExtractFile_ModuleSpan(t *testing.T) {
	res := extractSource(t, "x = 1\ny = 2\nz = 3\n")
	assert.Equal(t, "mod", res.Module.ElementName())
	assert.Equal(t, "/proj/mod.py", res.Module.Span.FilePath)
	assert.Equal(t, 1, res.Module.Span.StartLine)
}

func TestExtractFile_ClassAndFunction(t *testing.T) {
	res := extractSource(t, "class Foo:\n    def bar(self, x, y):\n        pass\n")

	foo, ok := findByName(res, "Foo").(*model.Class)
	require.True(t, ok)
	assert.Contains(t, res.Module.ChildrenIDs(), foo.ElementID())

	bar, ok := findByName(res, "bar").(*model.Function)
	require.True(t, ok)
	assert.Equal(t, foo.ElementID(), bar.ParentID())
	require.Len(t, bar.Parameters, 3)
	assert.Equal(t, []string{"self", "x", "y"}, paramNames(bar.Parameters))
}

func paramNames(params []model.Parameter) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Name
	}
	return out
}

func TestExtractFile_BaseClassNames(t *testing.T) {
	res := extractSource(t, "class Child(module.Base, Mixin):\n    pass\n")
	child := findByName(res, "Child").(*model.Class)
	assert.Equal(t, []string{"module.Base", "Mixin"}, child.UnresolvedBaseClasses)
}

func TestExtractFile_DecoratorNames(t *testing.T) {
	res := extractSource(t, "@app.route\n@cached\ndef handler():\n    pass\n")
	handler := findByName(res, "handler").(*model.Function)
	assert.Equal(t, []string{"cached"}, handler.DecoratorNames)
}

func TestExtractFile_DecoratorsJoinOutgoingCalls(t *testing.T) {
	res := extractSource(t, "def my_dec(fn):\n    return fn\n\n@my_dec\ndef handler():\n    pass\n")
	handler := findByName(res, "handler").(*model.Function)
	assert.Contains(t, handler.OutgoingFuncCalls, "my_dec")
}

func TestExtractFile_OutgoingCalls_BareAndSelf(t *testing.T) {
	res := extractSource(t, "class C:\n    def run(self):\n        self.helper()\n        standalone()\n")
	run := findByName(res, "run").(*model.Function)
	assert.Contains(t, run.OutgoingMethodCalls, "self.helper")
	assert.Contains(t, run.OutgoingFuncCalls, "standalone")
	// An attribute call also emits the bare attr name, linking it to a
	// same-named free function in scope if one exists.
	assert.Contains(t, run.OutgoingFuncCalls, "helper")
}

func TestExtractFile_AttributeCallEmitsBareAttrName(t *testing.T) {
	res := extractSource(t, "def run(obj):\n    obj.process()\n")
	run := findByName(res, "run").(*model.Function)
	assert.Contains(t, run.OutgoingFuncCalls, "process")
	assert.Contains(t, run.OutgoingMethodCalls, "obj.process")
}

func TestExtractFile_NestedDefDoesNotLeakCallsToParent(t *testing.T) {
	res := extractSource(t, "def outer():\n    def inner():\n        inner_only_call()\n    outer_call()\n")
	outer := findByName(res, "outer").(*model.Function)
	assert.Contains(t, outer.OutgoingFuncCalls, "outer_call")
	assert.NotContains(t, outer.OutgoingFuncCalls, "inner_only_call")
}

func TestExtractFile_Imports(t *testing.T) {
	res := extractSource(t, "import os\nimport pkg.sub as aliased\nfrom utils import helper as h\nfrom . import sibling\nfrom ..pkg import Thing\n")

	byModuleName := func(module, name string) *model.ImportRecord {
		for _, imp := range res.Module.Imports {
			if imp.Module == module && imp.Name == name {
				return imp
			}
		}
		return nil
	}

	osImp := byModuleName("os", "")
	require.NotNil(t, osImp)
	assert.Equal(t, 0, osImp.Level)

	aliasedImp := byModuleName("pkg.sub", "")
	require.NotNil(t, aliasedImp)
	assert.Equal(t, "aliased", aliasedImp.Alias)

	hImp := byModuleName("utils", "helper")
	require.NotNil(t, hImp)
	assert.Equal(t, "h", hImp.Alias)

	siblingImp := byModuleName("", "sibling")
	require.NotNil(t, siblingImp)
	assert.Equal(t, 1, siblingImp.Level)

	thingImp := byModuleName("pkg", "Thing")
	require.NotNil(t, thingImp)
	assert.Equal(t, 2, thingImp.Level)
}

func TestExtractFile_SelfAttributeTypeInference(t *testing.T) {
	res := extractSource(t, "class Car:\n    def __init__(self):\n        self.engine = Engine()\n        if True:\n            self.engine = V8Engine()\n")
	car := findByName(res, "Car").(*model.Class)
	assert.ElementsMatch(t, []string{"Engine", "V8Engine"}, car.AttributeTypes["engine"])
}

func TestExtractFile_CallSitesPopulated(t *testing.T) {
	res := extractSource(t, "def f():\n    do_thing()\n")
	f := findByName(res, "f").(*model.Function)
	require.Len(t, f.CallSites, 1)
	assert.Equal(t, "do_thing()", f.CallSites[0].Expression)
	assert.Equal(t, 2, f.CallSites[0].Line)
}
