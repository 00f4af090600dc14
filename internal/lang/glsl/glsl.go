package glsl

import (
	"strings"
	"unsafe"

	"github.com/shaderlang/shaderls/internal/symbol"
	"github.com/shaderlang/shaderls/internal/syntax"
)

// GrammarLoader is the generated binding's Language() constructor,
// injected by the caller (cmd/shaderls/main.go) rather than imported
// directly here, so this package stays buildable even if the grammar
// module's exact API surface shifts.
type GrammarLoader func() unsafe.Pointer

// language is the glsl.Language implementation.
type language struct {
	grammar *syntax.Grammar
}

// New builds the GLSL Language, parsing with the grammar loaded by load
// (github.com/tree-sitter-grammars/tree-sitter-glsl's Language func).
func New(load GrammarLoader) *language {
	return &language{grammar: syntax.NewGrammar(load())}
}

func (l *language) ID() string              { return "glsl" }
func (l *language) Extensions() []string    { return []string{".glsl", ".vert", ".frag", ".geom", ".tesc", ".tese", ".comp"} }
func (l *language) Grammar() *syntax.Grammar { return l.grammar }
func (l *language) Intrinsics() symbol.SymbolTable { return Intrinsics() }
func (l *language) Extract(tree *syntax.Tree) symbol.SymbolTable { return Extract(tree) }
func (l *language) Includes(tree *syntax.Tree) []symbol.IncludeRef { return Includes(tree) }
func (l *language) IdentifierKinds() map[string]bool { return identifierKinds }
func (l *language) FieldIdentifierKind() string      { return "field_identifier" }

// StageFromPath infers a pipeline stage from the conventional GLSL
// per-stage extensions.
func (l *language) StageFromPath(path string) symbol.Stage {
	switch {
	case strings.HasSuffix(path, ".vert"):
		return symbol.Stage("vertex")
	case strings.HasSuffix(path, ".frag"):
		return symbol.Stage("fragment")
	case strings.HasSuffix(path, ".geom"):
		return symbol.Stage("geometry")
	case strings.HasSuffix(path, ".comp"):
		return symbol.Stage("compute")
	case strings.HasSuffix(path, ".tesc"):
		return symbol.Stage("tesscontrol")
	case strings.HasSuffix(path, ".tese"):
		return symbol.Stage("tesseval")
	default:
		return ""
	}
}
