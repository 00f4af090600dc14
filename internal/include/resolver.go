// Package include implements the include resolver: mapping a relative
// #include path to a canonical absolute path by searching a configured
// list of roots plus a directory stack of previously resolved parents.
package include

import (
	"os"
	"path/filepath"

	"github.com/shaderlang/shaderls/internal/util"
)

// Resolver resolves #include paths for one validation/parse session. A
// fresh Resolver is created per top-level resolution session (e.g. once
// per diagnostic run, or once per file-open symbol extraction pass) so
// its directory stack and dependency set reflect only that session's
// discoveries.
type Resolver struct {
	roots     []util.Path
	stack     []util.Path          // directory stack, LIFO
	deps      map[util.Path]struct{} // de-duplicated dependency set
	depsOrder []util.Path
}

// New builds a Resolver for startingFile with the given ordered include
// roots. The starting file's own directory is not implicitly a root;
// callers that want that behavior should include it explicitly in roots.
func New(startingFile util.Path, roots []util.Path) *Resolver {
	return &Resolver{
		roots: append([]util.Path{}, roots...),
		deps:  make(map[util.Path]struct{}),
	}
}

// Resolve tries the path directly, then the directory stack (LIFO), then
// the configured roots in order. On success it canonicalises the result,
// pushes its parent onto the stack, records it as a dependency, and
// returns the canonical path. On failure it returns ok=false; it never
// returns an error.
func (r *Resolver) Resolve(requestPath string) (util.Path, bool) {
	if p, ok := r.tryPath(requestPath); ok {
		return p, true
	}

	for i := len(r.stack) - 1; i >= 0; i-- {
		candidate := filepath.Join(r.stack[i], requestPath)
		if p, ok := r.tryPath(candidate); ok {
			return p, true
		}
	}

	for _, root := range r.roots {
		candidate := filepath.Join(root, requestPath)
		if p, ok := r.tryPath(candidate); ok {
			return p, true
		}
	}

	return "", false
}

func (r *Resolver) tryPath(path string) (util.Path, bool) {
	if !util.IsValidPath(path) {
		return "", false
	}
	canonical, err := util.Canonicalize(path)
	if err != nil {
		return "", false
	}
	r.stack = append(r.stack, filepath.Dir(canonical))
	r.record(canonical)
	return canonical, true
}

func (r *Resolver) record(path util.Path) {
	if _, seen := r.deps[path]; seen {
		return
	}
	r.deps[path] = struct{}{}
	r.depsOrder = append(r.depsOrder, path)
}

// Dependencies returns every distinct canonical path discovered during
// this resolution session, in first-discovered order. Transitive
// re-inclusion of the same header is reported once.
func (r *Resolver) Dependencies() []util.Path {
	return append([]util.Path{}, r.depsOrder...)
}

// ReadFile is a small convenience used by the symbol extractor's include
// query: resolve then read, both or neither.
func ReadFile(r *Resolver, requestPath string) (util.Path, []byte, bool) {
	path, ok := r.Resolve(requestPath)
	if !ok {
		return "", nil, false
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, false
	}
	return path, content, true
}
