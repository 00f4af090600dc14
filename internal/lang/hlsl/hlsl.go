package hlsl

import (
	"strings"
	"unsafe"

	"github.com/shaderlang/shaderls/internal/symbol"
	"github.com/shaderlang/shaderls/internal/syntax"
)

// GrammarLoader mirrors glsl.GrammarLoader; see its doc comment.
type GrammarLoader func() unsafe.Pointer

type language struct {
	grammar *syntax.Grammar
}

// New builds the HLSL Language, parsing with the grammar loaded by load
// (github.com/tree-sitter-grammars/tree-sitter-hlsl's Language func).
func New(load GrammarLoader) *language {
	return &language{grammar: syntax.NewGrammar(load())}
}

func (l *language) ID() string                       { return "hlsl" }
func (l *language) Extensions() []string              { return []string{".hlsl", ".fx", ".hlsli"} }
func (l *language) Grammar() *syntax.Grammar          { return l.grammar }
func (l *language) Intrinsics() symbol.SymbolTable    { return Intrinsics() }
func (l *language) Extract(tree *syntax.Tree) symbol.SymbolTable { return Extract(tree) }
func (l *language) Includes(tree *syntax.Tree) []symbol.IncludeRef { return Includes(tree) }
func (l *language) IdentifierKinds() map[string]bool  { return identifierKinds }
func (l *language) FieldIdentifierKind() string       { return "field_identifier" }

// StageFromPath: HLSL has no universal per-stage extension convention
// (shader model and stage are usually set via entry point / compile
// target, not the file suffix), so this returns "" unless a project
// convention encodes it in the filename.
func (l *language) StageFromPath(path string) symbol.Stage {
	switch {
	case strings.HasSuffix(path, ".vs.hlsl"):
		return symbol.Stage("vertex")
	case strings.HasSuffix(path, ".ps.hlsl"):
		return symbol.Stage("fragment")
	case strings.HasSuffix(path, ".cs.hlsl"):
		return symbol.Stage("compute")
	default:
		return ""
	}
}
