// Package resolve implements import classification, symbol resolution,
// class-hierarchy resolution, and call resolution. Stitching an import's
// ModuleID once every file in a project is known is internal/project's job
// (it owns the full file→module index); this package only classifies one
// ImportRecord as local/non-local and, for local ones, computes the
// candidate filesystem path — independent of whether that path turns out to
// host an already-extracted module.
package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arborcode/symgraph/model"
)

// Resolver holds the project root every relative/absolute import search is
// anchored against.
type Resolver struct {
	ProjectRoot string
}

// NewResolver returns a Resolver anchored at projectRoot.
func NewResolver(projectRoot string) *Resolver {
	return &Resolver{ProjectRoot: projectRoot}
}

// ClassifyImport fills in rec.IsLocal, rec.Path, and rec.DirPackageFallback
// for one import found in the file at contextFile. It never touches
// rec.ModuleID — that's set later, once FolderReader has a complete
// file→module index to stitch against.
//
// A relative import (level >= 1) is searched from the ancestor of the
// importing file's directory that is `level-1` steps up; an absolute
// import (level 0) is tried against every root searchRoots returns, in
// order, so both common project layouts work — the package living at the
// project root, and the package living one level down under a root named
// after itself.
func (r *Resolver) ClassifyImport(rec *model.ImportRecord, contextFile string) {
	if rec.Level == 0 && IsStdlibModule(rec.Module) {
		rec.IsLocal = false
		return
	}

	segments := splitDotted(rec.Module)
	for _, root := range r.searchRoots(contextFile, rec.Level, segments) {
		if path, dirFallback, ok := resolveModulePath(root, segments); ok {
			rec.IsLocal = true
			rec.Path = path
			rec.DirPackageFallback = dirFallback
			return
		}
	}

	// Unresolved: a relative import is local by definition even when its
	// target can't be found on disk (typo, generated code, partial
	// checkout); an absolute import that resolves to nothing local is
	// assumed third-party.
	rec.IsLocal = rec.Level > 0
}

// searchRoots returns, in priority order, every directory an import's
// segments should be tried against.
func (r *Resolver) searchRoots(contextFile string, level int, segments []string) []string {
	if level > 0 {
		dir := filepath.Dir(contextFile)
		for i := 1; i < level; i++ {
			dir = filepath.Dir(dir)
		}
		return []string{dir}
	}

	roots := []string{r.ProjectRoot}
	// When the first module segment names the project root's own folder,
	// the root's parent is also a valid search root — this covers a layout
	// where the analyzed tree IS the package
	// (`myproject/` holds `myproject/sub.py`, imported elsewhere in the
	// tree as `import myproject.sub`) alongside the more common layout
	// where the root merely CONTAINS the package.
	if len(segments) > 0 && segments[0] == filepath.Base(r.ProjectRoot) {
		roots = append(roots, filepath.Dir(r.ProjectRoot))
	}
	return roots
}

func splitDotted(dotted string) []string {
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}

// resolveModulePath looks for segments under root in the order a Python
// import machinery would: a package directory with an __init__.py marker
// first, then a same-named .py file, then — per the Open Question this
// spec resolves explicitly (see DESIGN.md) — a bare directory with no
// marker file, treated as an unmarked/namespace package and flagged via the
// returned dirFallback so callers can tell a confident resolution from a
// best-effort one.
func resolveModulePath(root string, segments []string) (path string, dirFallback bool, ok bool) {
	candidate := root
	if len(segments) > 0 {
		candidate = filepath.Join(append([]string{root}, segments...)...)
	}

	if isDir(candidate) {
		init := filepath.Join(candidate, "__init__.py")
		if isFile(init) {
			return init, false, true
		}
	}
	if fileCandidate := candidate + ".py"; isFile(fileCandidate) {
		return fileCandidate, false, true
	}
	if isDir(candidate) {
		return candidate, true, true
	}
	return "", false, false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
