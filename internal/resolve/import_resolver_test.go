package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborcode/symgraph/model"
)

func TestClassifyImport_Stdlib(t *testing.T) {
	r := NewResolver(t.TempDir())
	rec := &model.ImportRecord{Module: "os.path"}
	r.ClassifyImport(rec, filepath.Join(r.ProjectRoot, "a.py"))

	assert.False(t, rec.IsLocal)
	assert.Empty(t, rec.Path)
}

func TestClassifyImport_AbsoluteFileInRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "helpers.py"), []byte("x = 1\n"), 0o644))

	r := NewResolver(root)
	rec := &model.ImportRecord{Module: "helpers"}
	r.ClassifyImport(rec, filepath.Join(root, "main.py"))

	assert.True(t, rec.IsLocal)
	assert.Equal(t, filepath.Join(root, "helpers.py"), rec.Path)
	assert.False(t, rec.DirPackageFallback)
}

func TestClassifyImport_PackageWithInit(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "__init__.py"), []byte(""), 0o644))

	r := NewResolver(root)
	rec := &model.ImportRecord{Module: "pkg"}
	r.ClassifyImport(rec, filepath.Join(root, "main.py"))

	assert.True(t, rec.IsLocal)
	assert.Equal(t, filepath.Join(root, "pkg", "__init__.py"), rec.Path)
	assert.False(t, rec.DirPackageFallback)
}

// When both a pkg.py file and a pkg/ directory with __init__.py exist for
// the same module name, the package directory wins.
func TestClassifyImport_PackageDirWinsOverSameNamedFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg.py"), []byte("x = 1\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "__init__.py"), []byte(""), 0o644))

	r := NewResolver(root)
	rec := &model.ImportRecord{Module: "pkg"}
	r.ClassifyImport(rec, filepath.Join(root, "main.py"))

	assert.True(t, rec.IsLocal)
	assert.Equal(t, filepath.Join(root, "pkg", "__init__.py"), rec.Path)
	assert.False(t, rec.DirPackageFallback)
}

func TestClassifyImport_BareDirectoryFallback(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nspkg"), 0o755))

	r := NewResolver(root)
	rec := &model.ImportRecord{Module: "nspkg"}
	r.ClassifyImport(rec, filepath.Join(root, "main.py"))

	assert.True(t, rec.IsLocal)
	assert.Equal(t, filepath.Join(root, "nspkg"), rec.Path)
	assert.True(t, rec.DirPackageFallback)
}

// When the first segment names the project root's own folder, the root's
// parent is also a valid search root.
func TestClassifyImport_ProjectRootParentFallback(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "myproject")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub.py"), []byte("x = 1\n"), 0o644))

	r := NewResolver(root)
	rec := &model.ImportRecord{Module: "myproject.sub"}
	r.ClassifyImport(rec, filepath.Join(root, "main.py"))

	assert.True(t, rec.IsLocal)
	assert.Equal(t, filepath.Join(root, "sub.py"), rec.Path)
}

func TestClassifyImport_NonLocalThirdParty(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(root)
	rec := &model.ImportRecord{Module: "some_third_party_lib"}
	r.ClassifyImport(rec, filepath.Join(root, "main.py"))

	assert.False(t, rec.IsLocal)
}

func TestClassifyImport_RelativeImportLevel(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg", "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "other.py"), []byte("x = 1\n"), 0o644))

	r := NewResolver(root)
	// "from ..other import Thing" from pkg/sub/mod.py: level=2 dots walk up
	// level-1=1 directory from pkg/sub's own dir, landing in pkg/, then
	// "other" is resolved under that root.
	rec := &model.ImportRecord{Module: "other", Name: "Thing", Level: 2}
	r.ClassifyImport(rec, filepath.Join(root, "pkg", "sub", "mod.py"))

	assert.True(t, rec.IsLocal)
	assert.Equal(t, filepath.Join(root, "pkg", "other.py"), rec.Path)
}

func TestClassifyImport_UnresolvedRelativeStaysLocal(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(root)
	rec := &model.ImportRecord{Module: "nonexistent_mod", Name: "missing", Level: 1}
	r.ClassifyImport(rec, filepath.Join(root, "main.py"))

	assert.True(t, rec.IsLocal)
	assert.Empty(t, rec.Path)
}

func TestIsStdlibModule(t *testing.T) {
	assert.True(t, IsStdlibModule("os"))
	assert.True(t, IsStdlibModule("os.path"))
	assert.True(t, IsStdlibModule("collections.abc"))
	assert.False(t, IsStdlibModule("requests"))
	assert.False(t, IsStdlibModule(""))
}
