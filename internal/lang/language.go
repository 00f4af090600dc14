// Package lang defines the Language capability shared by GLSL, HLSL, and
// WGSL support (internal/lang/glsl, internal/lang/hlsl, internal/lang/
// wgsl): per-language behavior lives behind one small capability interface
// rather than a type hierarchy, so the document cache and request handlers
// stay oblivious to which grammar backs any given open file.
package lang

import (
	"github.com/shaderlang/shaderls/internal/symbol"
	"github.com/shaderlang/shaderls/internal/syntax"
)

// Language bundles everything the langserver needs to support one
// shading language: its grammar (nil for a language with no wired
// tree-sitter dependency, e.g. wgsl today), its built-in intrinsic table,
// and an Extract function turning a parsed Tree into document symbols.
type Language interface {
	// ID is the LSP languageId this Language handles ("glsl", "hlsl",
	// "wgsl") and also the value used to key the per-language intrinsic
	// table and grammar registry.
	ID() string

	// Extensions lists file extensions that map to this language without
	// needing an explicit languageId from the client.
	Extensions() []string

	// Grammar returns the tree-sitter grammar wrapper for this language,
	// or nil if none is wired (wgsl ships without a real grammar
	// dependency today).
	Grammar() *syntax.Grammar

	// Intrinsics returns the built-in symbol table: types, functions,
	// keywords, and (for HLSL) stage-tagged functions, none of which carry
	// a Range.
	Intrinsics() symbol.SymbolTable

	// Extract walks tree and returns every symbol it defines, each tagged
	// with its Range and ScopeStack.
	Extract(tree *syntax.Tree) symbol.SymbolTable

	// Includes returns every #include directive found in tree, each as
	// its raw path text (for the include resolver) plus the source range
	// of the path literal (for the Link symbol built from it once
	// resolved). Returns nil for a Language with no preprocessor (e.g.
	// wgsl).
	Includes(tree *syntax.Tree) []symbol.IncludeRef

	// IdentifierKinds names the tree-sitter node kinds that
	// word-at-position should treat as identifier leaves for this
	// grammar.
	IdentifierKinds() map[string]bool

	// FieldIdentifierKind names the tree-sitter node kind for a member
	// name in a dotted expression ("color" in "light.color"), used by
	// dotted-chain-at-position to recognize where a chain continues
	// versus where it bottoms out at a plain identifier. Empty for a
	// Language with no member-access syntax.
	FieldIdentifierKind() string

	// StageFromPath infers a shading stage from a file's extension, or ""
	// if the language has no stage-specific extensions. The scope filter
	// does not consult it: intrinsics are visible regardless of stage.
	StageFromPath(path string) symbol.Stage
}

// Registry maps a Language's ID to its implementation, used by the
// langserver to pick a Language for an opened document by its file
// extension; the client's declared languageId is not consulted.
type Registry struct {
	byID  map[string]Language
	byExt map[string]Language
}

func NewRegistry(languages ...Language) *Registry {
	r := &Registry{byID: map[string]Language{}, byExt: map[string]Language{}}
	for _, l := range languages {
		r.byID[l.ID()] = l
		for _, ext := range l.Extensions() {
			r.byExt[ext] = l
		}
	}
	return r
}

func (r *Registry) ByID(id string) (Language, bool) {
	l, ok := r.byID[id]
	return l, ok
}

func (r *Registry) ByExtension(ext string) (Language, bool) {
	l, ok := r.byExt[ext]
	return l, ok
}
