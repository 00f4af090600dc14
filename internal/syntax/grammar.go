package syntax

import (
	"sync"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Grammar wraps one compiled tree-sitter language plus the single parser
// used to parse/re-parse it. One Grammar exists per shading language
// (internal/lang/glsl, internal/lang/hlsl each own one).
//
// Access is serialized with a mutex even though the server's own request
// loop is single-threaded, because the include-file watcher re-parses
// dependency files from its own goroutine when they change on disk; the
// mutex keeps that safe without touching the single-threaded
// request-handling model.
type Grammar struct {
	language *tree_sitter.Language
	parser   *tree_sitter.Parser
	mu       sync.Mutex
}

// NewGrammar builds a Grammar from a raw tree-sitter language pointer, as
// returned by a generated grammar binding's Language() function (e.g.
// tree_sitter_glsl.Language()).
func NewGrammar(raw unsafe.Pointer) *Grammar {
	g := &Grammar{language: tree_sitter.NewLanguage(raw)}
	g.parser = tree_sitter.NewParser()
	g.parser.SetLanguage(g.language)
	return g
}

func (g *Grammar) parse(content []byte, hint *tree_sitter.Tree) *tree_sitter.Tree {
	g.mu.Lock()
	defer g.mu.Unlock()
	tree := g.parser.Parse(content, hint)
	g.parser.Reset()
	return tree
}
