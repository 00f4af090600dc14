package langserver

import (
	"crypto/sha256"
	"os"
	"sort"
	"sync"

	"github.com/shaderlang/shaderls/internal/include"
	"github.com/shaderlang/shaderls/internal/lang"
	"github.com/shaderlang/shaderls/internal/logging"
	"github.com/shaderlang/shaderls/internal/symbol"
	"github.com/shaderlang/shaderls/internal/syntax"
	"github.com/shaderlang/shaderls/internal/util"
)

// Entry is one canonical-path-keyed slot in the file cache: a live tree,
// its extracted symbols, and the dependencies its includes resolved to.
// A dependency-only file can be reached from several open documents'
// include graphs at once; CloseMain's transitive reachability walk (not
// a reference count) decides when it is no longer needed by any of them.
type Entry struct {
	mu       sync.RWMutex
	Path     util.Path
	Lang     lang.Language
	Content  []byte
	Hash     [sha256.Size]byte
	Tree     *syntax.Tree
	Symbols  symbol.SymbolTable
	Includes []util.Path // canonical paths this file's #include directives resolved to

	isOpen bool // true once opened directly by the client (not just as a dependency)
}

func (e *Entry) hasSyntaxErrors() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.Tree != nil && e.Tree.HasSyntaxErrors()
}

// Graph is the file cache: one entry store with two logical indices,
// open documents and dependency-only files reachable via #include from
// an open document. A file can appear in both; CloseMain only evicts it
// once no open document still depends on it.
type Graph struct {
	mu       sync.Mutex
	entries  map[util.Path]*Entry
	open     map[util.Path]struct{}
	registry *lang.Registry
	config   Config

	// defines holds one range-less Constant symbol per configured
	// workspace define, computed once at construction so it is visible
	// from every document without re-synthesizing it on each lookup.
	defines symbol.SymbolTable

	// onDependency, if set, is called with the canonical path of every
	// dependency-only file the first time it enters the cache, so a
	// Watcher can start watching its directory for out-of-band edits.
	onDependency func(util.Path)
}

func NewGraph(registry *lang.Registry, cfg Config) *Graph {
	return &Graph{
		entries:  make(map[util.Path]*Entry),
		open:     make(map[util.Path]struct{}),
		registry: registry,
		config:   cfg,
		defines:  definesTable(cfg.Defines),
	}
}

// definesTable synthesizes one range=nil Constant symbol per configured
// "defines" entry, sorted by name for deterministic ordering — a
// configured define is visible everywhere, the same as an intrinsic,
// since it comes from workspace configuration rather than source text.
func definesTable(defines map[string]string) symbol.SymbolTable {
	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	sort.Strings(names)

	var table symbol.SymbolTable
	for _, name := range names {
		table.Add(symbol.Symbol{Label: name, Kind: symbol.KindConstant, Value: defines[name]})
	}
	return table
}

func (g *Graph) languageFor(path util.Path) (lang.Language, bool) {
	for _, ext := range extSuffixes(path) {
		if l, ok := g.registry.ByExtension(ext); ok {
			return l, true
		}
	}
	return nil, false
}

// extSuffixes yields every dotted suffix of path, longest first, so a
// double extension like ".vs.hlsl" is tried before ".hlsl".
func extSuffixes(path string) []string {
	var out []string
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			out = append(out, path[i:])
		}
	}
	return out
}

func (g *Graph) newEntry(path util.Path, content []byte) (*Entry, bool) {
	l, ok := g.languageFor(path)
	if !ok {
		return nil, false
	}
	e := &Entry{Path: path, Lang: l, Content: content, Hash: sha256.Sum256(content)}
	if l.Grammar() != nil {
		e.Tree = syntax.Create(l.Grammar(), path, content)
	}
	g.analyze(e)
	return e, true
}

func (g *Graph) analyze(e *Entry) {
	if e.Tree == nil {
		return
	}
	e.Symbols = e.Lang.Extract(e.Tree)
	e.Includes = g.resolveIncludes(e)
}

// resolveIncludes runs the include resolver (internal/include) over the
// paths the extractor found in #include directives, materializing any
// target not yet in the cache as a dependency entry and, for each one
// that resolves, appending a Link symbol (target=position(path,0,0)) to
// e.Symbols. goto-definition answers a Link with its target. The word
// under the cursor comes from the language's identifier node kinds, which
// do not include the include path's string literal, so hover and
// goto-definition on the path text itself find no symbol.
func (g *Graph) resolveIncludes(e *Entry) []util.Path {
	refs := includeRefsOf(e)
	if len(refs) == 0 {
		return nil
	}
	roots := append([]string{}, g.config.Includes...)
	r := include.New(e.Path, roots)

	var resolved []util.Path
	for _, ref := range refs {
		path, content, ok := include.ReadFile(r, ref.Path)
		if !ok {
			logging.Logger.Warn("include not resolved", "from", e.Path, "request", ref.Path)
			continue
		}
		resolved = append(resolved, path)
		g.watchAsDependencyLocked(path, content)
		e.Symbols.Add(linkSymbol(ref, path))
	}
	return resolved
}

// linkSymbol builds the Function-class Link symbol a resolved #include
// directive contributes to its file's symbol table: labeled by the text
// written in source, positioned at the directive itself so scope
// filtering sees it, and targeting line 0 column 0 of the file it
// resolved to.
func linkSymbol(ref symbol.IncludeRef, resolved util.Path) symbol.Symbol {
	r := ref.Range
	return symbol.Symbol{
		Label:  ref.Path,
		Kind:   symbol.KindLink,
		Target: symbol.Position{Path: resolved, Line: 0, Column: 0},
		Range:  &r,
	}
}

func includeRefsOf(e *Entry) []symbol.IncludeRef {
	if e.Tree == nil {
		return nil
	}
	return e.Lang.Includes(e.Tree)
}

// watchAsDependencyLocked adds path to the cache as a dependency-only
// entry if absent; a no-op if already present, since that file's
// continued presence is decided by reachability from open documents
// (CloseMain), not by how many includes currently name it. Caller holds
// g.mu.
func (g *Graph) watchAsDependencyLocked(path util.Path, content []byte) {
	if _, ok := g.entries[path]; ok {
		return
	}
	entry, ok := g.newEntry(path, content)
	if !ok {
		return
	}
	g.entries[path] = entry
	if g.onDependency != nil {
		g.onDependency(path)
	}
}

// WatchDependencies registers a callback invoked for every dependency-only
// file (one pulled in through #include, never opened directly by the
// client) as it first enters the cache.
func (g *Graph) WatchDependencies(hook func(util.Path)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onDependency = hook
}

// OpenAsMain records that the client opened path directly. If it was
// already cached as a dependency it is promoted in-place; otherwise a
// fresh entry is created.
func (g *Graph) OpenAsMain(path util.Path, content []byte) *Entry {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.entries[path]; ok {
		existing.mu.Lock()
		existing.isOpen = true
		existing.mu.Unlock()
		g.open[path] = struct{}{}
		return existing
	}

	entry, ok := g.newEntry(path, content)
	if !ok {
		return nil
	}
	entry.isOpen = true
	g.entries[path] = entry
	g.open[path] = struct{}{}
	return entry
}

// Update replaces path's entire content — a didChange with no Range, or
// the dependency watcher re-reading a file edited on disk outside the
// client. Discards the existing tree and parses content fresh before
// re-running extraction.
func (g *Graph) Update(path util.Path, content []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[path]
	if !ok {
		return
	}
	e.mu.Lock()
	if e.Tree != nil {
		e.Tree.ReplaceWhole(content)
	}
	e.Content = content
	e.Hash = sha256.Sum256(content)
	e.mu.Unlock()
	g.analyze(e)
}

// ApplyEdit applies one incremental didChange range edit to path's
// entry. startPos/endPos carry the pre-edit line and byte-within-line
// column of the replaced range, matching Tree.EditInRange's contract;
// startByte/endByte are the same range as byte offsets into the
// pre-edit content. Feeds the edit to the existing tree-sitter tree so
// unaffected subtrees are reused on re-parse, then re-runs extraction
// against the freshly edited tree. A Language with no grammar (content
// tracked but never parsed) just splices Content directly.
func (g *Graph) ApplyEdit(path util.Path, startPos, endPos symbol.Position, startByte, endByte uint, replacement string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[path]
	if !ok {
		return
	}
	e.mu.Lock()
	if e.Tree != nil {
		e.Tree.EditInRange(startPos, endPos, startByte, endByte, replacement)
		e.Content = e.Tree.Content()
	} else {
		e.Content = append(append(e.Content[:startByte:startByte], replacement...), e.Content[endByte:]...)
	}
	e.Hash = sha256.Sum256(e.Content)
	e.mu.Unlock()
	g.analyze(e)
}

// Get returns the cached entry for path, if any.
func (g *Graph) Get(path util.Path) (*Entry, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[path]
	return e, ok
}

// CloseMain records that the client closed path. Its open-document
// membership is dropped; if nothing else references it (no other open
// document's Includes still names it) it is fully evicted. The removal
// set is computed before any mutation so cascading drops don't re-enter
// the graph mid-walk.
func (g *Graph) CloseMain(path util.Path) []util.Path {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.open, path)
	if e, ok := g.entries[path]; ok {
		e.mu.Lock()
		e.isOpen = false
		e.mu.Unlock()
	}

	stillReferenced := map[util.Path]bool{}
	var mark func(p util.Path)
	mark = func(p util.Path) {
		if stillReferenced[p] {
			return
		}
		stillReferenced[p] = true
		e, ok := g.entries[p]
		if !ok {
			return
		}
		e.mu.RLock()
		deps := append([]util.Path{}, e.Includes...)
		e.mu.RUnlock()
		for _, dep := range deps {
			mark(dep)
		}
	}
	for openPath := range g.open {
		mark(openPath)
	}

	var removed []util.Path
	for p, e := range g.entries {
		if stillReferenced[p] {
			continue
		}
		if e.isOpen {
			continue
		}
		removed = append(removed, p)
	}
	for _, p := range removed {
		if e, ok := g.entries[p]; ok {
			e.mu.Lock()
			if e.Tree != nil {
				e.Tree.Close()
			}
			e.mu.Unlock()
		}
		delete(g.entries, p)
	}
	return removed
}

// AggregateSymbols merges the symbol tables of path and every file
// reachable through its (transitive) Includes, duplicates preserved (the
// scope filter resolves shadowing at query time), plus the workspace's
// configured defines, visible from every document.
func (g *Graph) AggregateSymbols(path util.Path) symbol.SymbolTable {
	g.mu.Lock()
	defer g.mu.Unlock()

	visited := map[util.Path]bool{}
	table := g.defines
	var walk func(p util.Path)
	walk = func(p util.Path) {
		if visited[p] {
			return
		}
		visited[p] = true
		e, ok := g.entries[p]
		if !ok {
			return
		}
		e.mu.RLock()
		table = table.Merge(e.Symbols)
		deps := append([]util.Path{}, e.Includes...)
		e.mu.RUnlock()
		for _, dep := range deps {
			walk(dep)
		}
	}
	walk(path)
	return table
}

// ReadDiskFallback reads path from disk when no in-memory content exists
// yet (a dependency referenced before any open document materialized it).
func ReadDiskFallback(path util.Path) ([]byte, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return content, true
}
