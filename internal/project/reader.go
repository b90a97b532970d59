// Package project walks a project directory, extracts every Python file
// into the shared graph, prunes folders with no module descendants, and
// stitches each local import's ModuleID once the full file→module index is
// known.
//
// Grounded in original_source/code_analyzer/folder_reader.py for the
// overall shape (read tree, then a second pass resolving imports against a
// path index). Per-file parsing is embarrassingly parallel behind a
// fork-join barrier; only the owning goroutine writes the shared
// model.Graph.
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/arborcode/symgraph/internal/config"
	"github.com/arborcode/symgraph/internal/extract"
	"github.com/arborcode/symgraph/internal/resolve"
	"github.com/arborcode/symgraph/model"
)

// FilterConfig drives which files FolderReader visits — the Go analogue of
// original_source's include/exclude glob lists.
type FilterConfig struct {
	IncludePatterns []string // glob patterns matched against a file's base name; defaults to ["*.py"]
	ExcludePatterns []string // substrings or glob patterns; a match on either skips the file
}

// DefaultFilterConfig mirrors the original's defaults.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		IncludePatterns: []string{"*.py"},
		ExcludePatterns: []string{"__pycache__", "*.pyc", "*.pyo", "*.pyd", ".git", ".venv", "venv"},
	}
}

// Reader is FolderReader. Workers defaults to runtime.NumCPU() when 0.
type Reader struct {
	Filter     FilterConfig
	Resolver   *resolve.Resolver
	Workers    int
	Attrs      config.NodeAttributeConfig
	OnProgress func(filePath string) // optional, called from the owning goroutine only
}

// NewReader returns a Reader rooted at projectRoot with default filters and
// every optional node attribute turned on.
func NewReader(projectRoot string) *Reader {
	return &Reader{
		Filter:   DefaultFilterConfig(),
		Resolver: resolve.NewResolver(projectRoot),
		Attrs:    config.DefaultNodeAttributeConfig(),
	}
}

// fileEntry is one discovered source file awaiting extraction.
type fileEntry struct {
	path     string // absolute path
	folder   string // absolute containing directory
}

// Read walks root, extracts every matching file, and returns the fully
// stitched graph rooted at a synthetic project-root Folder.
func (r *Reader) Read(ctx context.Context, root string) (*model.Graph, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("project root %s: %w", root, errNotADirectory(err))
	}

	files, dirs, err := r.discover(root)
	if err != nil {
		return nil, err
	}

	results := r.extractAll(ctx, files)

	g := model.NewGraph()
	moduleByPath := make(map[string]string, len(results))
	// folderElements maps an absolute directory path to the *model.Folder
	// built for it, lazily, only once we know it has a module descendant.
	folderElements := make(map[string]*model.Folder)

	rootFolder := model.NewFolder(filepath.Base(root), "")
	g.RootID = rootFolder.ElementID()

	// Attach each extracted module (and its nested classes/functions) under
	// its containing folder, creating folder elements on demand bottom-up
	// via ensureFolder so empty folders never materialize.
	for _, fe := range files {
		res := results[fe.path]
		if res == nil {
			continue
		}
		folder := r.ensureFolder(g, folderElements, rootFolder, root, fe.folder)
		res.Module.Parent = folder.ElementID()
		folder.AddChild(res.Module.ElementID())
		g.Put(res.Module)
		for _, id := range res.Order {
			g.Put(res.Elements[id])
		}
		moduleByPath[fe.path] = res.Module.ElementID()
	}

	// A folder's name also binds a dotted "package" import target
	// (`import pkg` where pkg is a directory), per the original's
	// module_to_id index keying folders by name too.
	for path, folder := range folderElements {
		moduleByPath[path] = folder.ElementID()
	}

	if len(rootFolder.ChildrenIDs()) > 0 || len(folderElements) > 0 {
		g.Put(rootFolder)
	}
	_ = dirs

	r.stitchImports(g, results, moduleByPath)
	return g, nil
}

// ensureFolder returns the *model.Folder element for dir, creating it (and
// every ancestor up to root) on first reference. Ancestors created this way
// are only linked into the graph once something real is attached to them —
// see Read's final rootFolder check and the fact that intermediate
// ensureFolder calls always come from a caller that's about to attach a
// module, so the chain is never created speculatively for an empty folder.
func (r *Reader) ensureFolder(g *model.Graph, cache map[string]*model.Folder, rootFolder *model.Folder, root, dir string) *model.Folder {
	if dir == root {
		return rootFolder
	}
	if f, ok := cache[dir]; ok {
		return f
	}
	parentDir := filepath.Dir(dir)
	parent := r.ensureFolder(g, cache, rootFolder, root, parentDir)
	f := model.NewFolder(filepath.Base(dir), parent.ElementID())
	parent.AddChild(f.ElementID())
	g.Put(f)
	cache[dir] = f
	return f
}

// discover walks root once, sequentially, collecting every matching file in
// deterministic (sorted) order per directory, files before subdirectories.
func (r *Reader) discover(root string) ([]fileEntry, []string, error) {
	var files []fileEntry
	var dirs []string

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("reading directory %s: %w", dir, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		var subdirs []string
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			if e.IsDir() {
				subdirs = append(subdirs, full)
				continue
			}
			if r.matches(e.Name()) {
				files = append(files, fileEntry{path: full, folder: dir})
			}
		}
		dirs = append(dirs, dir)
		for _, sub := range subdirs {
			if err := walk(sub); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, nil, err
	}
	return files, dirs, nil
}

func (r *Reader) matches(name string) bool {
	for _, pat := range r.Filter.ExcludePatterns {
		if strings.Contains(name, pat) {
			return false
		}
		if ok, _ := filepath.Match(pat, name); ok {
			return false
		}
	}
	for _, pat := range r.Filter.IncludePatterns {
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
	}
	return false
}

// extractAll runs extraction over every discovered file concurrently. Each
// worker only ever writes to the slot a channel hands it — the merge into a
// single map happens back on the calling goroutine, which is the sole owner
// of shared state.
func (r *Reader) extractAll(ctx context.Context, files []fileEntry) map[string]*extract.FileResult {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	type outcome struct {
		path string
		res  *extract.FileResult
	}
	jobs := make(chan fileEntry)
	out := make(chan outcome, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for fe := range jobs {
				res, err := r.extractOne(ctx, fe.path)
				if err != nil {
					// A single unparsable file is a soft failure; it's
					// simply dropped from the graph.
					out <- outcome{path: fe.path}
					continue
				}
				out <- outcome{path: fe.path, res: res}
			}
		}()
	}
	go func() {
		for _, fe := range files {
			jobs <- fe
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(out)
	}()

	results := make(map[string]*extract.FileResult, len(files))
	for o := range out {
		if o.res != nil {
			if r.OnProgress != nil {
				r.OnProgress(o.path)
			}
			results[o.path] = o.res
		}
	}
	return results
}

func (r *Reader) extractOne(ctx context.Context, path string) (*extract.FileResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	source := decodeSource(raw)
	return extract.ExtractFile(ctx, path, "", []byte(source), r.Attrs)
}

// stitchImports is the second pass from original_source's _resolve_imports:
// build a path→id index from everything just extracted, then for every
// local import, classify it (resolve.Resolver) and look its resolved path
// up in the index.
func (r *Reader) stitchImports(g *model.Graph, results map[string]*extract.FileResult, moduleByPath map[string]string) {
	for path, res := range results {
		for _, imp := range res.Module.Imports {
			r.Resolver.ClassifyImport(imp, path)
			if !imp.IsLocal || imp.Path == "" {
				continue
			}
			if id, ok := moduleByPath[imp.Path]; ok {
				imp.ModuleID = id
				continue
			}
			// A directory resolved without an __init__.py marker: try it
			// as a bare folder key too (folders are indexed by path above).
			if dirID, ok := moduleByPath[imp.Path]; ok && imp.DirPackageFallback {
				imp.ModuleID = dirID
			}
		}
	}
}

func errNotADirectory(statErr error) error {
	if statErr != nil {
		return statErr
	}
	return fmt.Errorf("not a directory")
}
