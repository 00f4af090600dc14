// Package syntax implements the syntax tree store: an incrementally
// updated tree-sitter parse tree per open document, with a query
// primitive and a word-at-position primitive as its only read surface.
// The raw *tree_sitter.Tree is never handed to callers outside this
// package; Query, WordAtPosition, DottedChainAtPosition and
// HasSyntaxErrors are the only windows into it.
package syntax

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/shaderlang/shaderls/internal/symbol"
)

// Tree is one document's live parse tree plus the content it was parsed
// from. Not safe for concurrent use; the server's single-threaded loop
// owns it exclusively while a request is in flight.
type Tree struct {
	grammar *Grammar
	tsTree  *tree_sitter.Tree
	content []byte
	path    string
}

// Create parses content fresh with no prior tree to diff against — used
// for a document's first open.
func Create(g *Grammar, path string, content []byte) *Tree {
	return &Tree{
		grammar: g,
		tsTree:  g.parse(content, nil),
		content: content,
		path:    path,
	}
}

// Close releases the underlying tree-sitter tree. Callers must call this
// when a Tree is no longer reachable from any cached file entry, since
// tree-sitter trees are cgo-backed.
func (t *Tree) Close() {
	if t.tsTree != nil {
		t.tsTree.Close()
		t.tsTree = nil
	}
}

// ReplaceWhole discards the current tree and parses content as if it were
// a brand new document (used when a change notification carries
// full-document text rather than a range delta).
func (t *Tree) ReplaceWhole(content []byte) {
	old := t.tsTree
	t.tsTree = t.grammar.parse(content, nil)
	t.content = content
	if old != nil {
		old.Close()
	}
}

// EditInRange applies an incremental edit: given the range being
// replaced (as start/end symbol.Position, zero-based line and byte
// column within that line, the point form tree-sitter uses), the same
// range as startByte/endByte offsets into the pre-edit content, and the
// replacement text, it records an edit on the old tree so tree-sitter can
// reuse unaffected subtrees, then re-parses against that edited tree.
//
// The langserver package converts LSP positions into these byte
// positions before calling, keeping this package free of encoding
// concerns.
func (t *Tree) EditInRange(startPos, endPos symbol.Position, startByte, endByte uint, replacement string) {
	newEndByte := startByte + uint(len(replacement))

	startPoint := tree_sitter.Point{Row: uint(startPos.Line), Column: uint(startPos.Column)}
	oldEndPoint := tree_sitter.Point{Row: uint(endPos.Line), Column: uint(endPos.Column)}
	newEndPoint := advance(startPoint, replacement)

	edit := tree_sitter.InputEdit{
		StartByte:      startByte,
		OldEndByte:     endByte,
		NewEndByte:     newEndByte,
		StartPosition:  startPoint,
		OldEndPosition: oldEndPoint,
		NewEndPosition: newEndPoint,
	}

	newContent := make([]byte, 0, len(t.content)-int(endByte-startByte)+len(replacement))
	newContent = append(newContent, t.content[:startByte]...)
	newContent = append(newContent, replacement...)
	newContent = append(newContent, t.content[endByte:]...)

	old := t.tsTree
	old.Edit(&edit)
	t.tsTree = t.grammar.parse(newContent, old)
	t.content = newContent
	old.Close()
}

// advance computes the Point reached after appending text starting at
// start: the new end column is the start column plus the replacement
// length when the replacement has no newline, otherwise the length of
// the replacement's final line.
func advance(start tree_sitter.Point, text string) tree_sitter.Point {
	nl := strings.Count(text, "\n")
	if nl == 0 {
		return tree_sitter.Point{Row: start.Row, Column: start.Column + uint(len(text))}
	}
	lastLine := text[strings.LastIndexByte(text, '\n')+1:]
	return tree_sitter.Point{Row: start.Row + uint(nl), Column: uint(len(lastLine))}
}

// Content returns the document text the tree currently reflects.
func (t *Tree) Content() []byte {
	return t.content
}

// Capture is one named capture from a Query match.
type Capture struct {
	Name string
	Node tree_sitter.Node
}

// Match is one query match, as a flat list of its named captures.
type Match struct {
	Captures []Capture
}

// Query runs a tree-sitter query string against the document root and
// returns every match, each as a list of named captures. Per-language
// extractors (internal/lang/glsl, internal/lang/hlsl) build their scope,
// function, struct, variable, define, and include queries on top of it.
func (t *Tree) Query(queryStr string) ([]Match, error) {
	query, err := tree_sitter.NewQuery(t.grammar.language, queryStr)
	if err != nil {
		return nil, err
	}
	defer query.Close()

	names := query.CaptureNames()

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(query, t.tsTree.RootNode(), t.content)

	var out []Match
	for {
		m := matches.Next()
		if m == nil {
			break
		}
		match := Match{Captures: make([]Capture, 0, len(m.Captures))}
		for _, c := range m.Captures {
			match.Captures = append(match.Captures, Capture{Name: names[c.Index], Node: c.Node})
		}
		out = append(out, match)
	}
	return out, nil
}

// Text returns the source text spanned by node, as seen by this tree.
func (t *Tree) Text(node tree_sitter.Node) string {
	text, err := node.Utf8Text(t.content)
	if err != nil {
		return ""
	}
	return text
}

// NodeRange converts a node's span into a symbol.Range anchored at path.
func (t *Tree) NodeRange(node tree_sitter.Node) symbol.Range {
	start := node.StartPosition()
	end := node.EndPosition()
	return symbol.Range{
		Start: symbol.Position{Path: t.path, Line: uint32(start.Row), Column: uint32(start.Column)},
		End:   symbol.Position{Path: t.path, Line: uint32(end.Row), Column: uint32(end.Column)},
	}
}

// WordAtPosition descends to the smallest node covering byteOffset, then
// walks from it up through its ancestors and returns the text and range
// of the first node whose grammar name is one of the identifier-like
// kinds. identifierKinds is supplied by the caller's
// Language (GLSL/HLSL/WGSL differ on node-kind names for identifiers and
// string literals), keeping this package grammar-agnostic.
func (t *Tree) WordAtPosition(byteOffset uint, identifierKinds map[string]bool) (string, symbol.Range, bool) {
	root := t.tsTree.RootNode()
	node := root.DescendantForByteRange(byteOffset, byteOffset)
	if node == nil {
		return "", symbol.Range{}, false
	}
	for n := node; n != nil; n = n.Parent() {
		if identifierKinds[n.GrammarName()] {
			return t.Text(*n), t.NodeRange(*n), true
		}
	}
	return "", symbol.Range{}, false
}

// ChainLink is one element of a dotted-chain-at-position result: a
// single identifier's text and source range.
type ChainLink struct {
	Text  string
	Range symbol.Range
}

// DottedChainAtPosition resolves the member-access chain the cursor sits
// in, e.g. clicking "color" in "light.color" yields [{"color",...},
// {"light",...}], right (leaf) to left (root expression). That matches
// the order a completion/hover caller descends: resolve the last element
// first, then walk backwards through the rest as successive member
// lookups. A leaf that isn't a field identifier (plain "light", no dot)
// yields a single-element chain. identifierKinds/fieldKind are supplied
// by the caller's Language, since node-kind names differ across grammars.
func (t *Tree) DottedChainAtPosition(byteOffset uint, identifierKinds map[string]bool, fieldKind string) ([]ChainLink, bool) {
	root := t.tsTree.RootNode()
	node := root.DescendantForByteRange(byteOffset, byteOffset)
	if node == nil {
		return nil, false
	}

	var leaf *tree_sitter.Node
	for n := node; n != nil; n = n.Parent() {
		if identifierKinds[n.GrammarName()] {
			leaf = n
			break
		}
	}
	if leaf == nil {
		return nil, false
	}
	if leaf.GrammarName() != fieldKind {
		return []ChainLink{{Text: t.Text(*leaf), Range: t.NodeRange(*leaf)}}, true
	}

	var chain []ChainLink
	operand := leaf.PrevNamedSibling()
	for operand != nil {
		field := operand.NextNamedSibling()
		if field == nil {
			break
		}
		chain = append(chain, ChainLink{Text: t.Text(*field), Range: t.NodeRange(*field)})

		inner := operand.ChildByFieldName("argument")
		if inner == nil {
			chain = append(chain, ChainLink{Text: t.Text(*operand), Range: t.NodeRange(*operand)})
			break
		}
		operand = inner
	}
	return chain, true
}

// HasSyntaxErrors reports whether the tree contains any ERROR or MISSING
// node.
func (t *Tree) HasSyntaxErrors() bool {
	return t.tsTree.RootNode().HasError()
}
