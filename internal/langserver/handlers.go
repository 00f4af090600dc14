package langserver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shaderlang/shaderls/internal/langerr"
	"github.com/shaderlang/shaderls/internal/logging"
	"github.com/shaderlang/shaderls/internal/symbol"
	"github.com/shaderlang/shaderls/internal/syntax"
	"github.com/shaderlang/shaderls/internal/transport"
	"github.com/shaderlang/shaderls/internal/util"
)

// wordAt resolves the single identifier (or field name) under the cursor,
// the word-at-position primitive hover and goto-definition key their
// lookup on. It does not walk the surrounding dotted
// chain; dottedChainAt does that for completion's member-access mode.
func wordAt(s *Server, uri string, pos transport.Position) (path util.Path, entry *Entry, chain string, leafRange symbol.Range, ok bool) {
	path, err := util.URI2Path(uri)
	if err != nil {
		return "", nil, "", symbol.Range{}, false
	}
	entry, found := s.Graph.Get(path)
	if !found || entry.Tree == nil {
		return path, entry, "", symbol.Range{}, false
	}

	entry.mu.RLock()
	content := string(entry.Content)
	entry.mu.RUnlock()

	offset, err := PositionToOffset(pos, content, s.Encoding)
	if err != nil {
		return path, entry, "", symbol.Range{}, false
	}

	kinds := entry.Lang.IdentifierKinds()
	word, rng, found := entry.Tree.WordAtPosition(offset, kinds)
	if !found {
		return path, entry, "", symbol.Range{}, false
	}

	chain = word
	return path, entry, chain, rng, true
}

// lookup resolves label within the symbol table visible at cursor,
// preferring a source-derived symbol over an intrinsic of the same name
// via symbol.Latest's tie-break.
func lookup(s *Server, path util.Path, entry *Entry, cursor symbol.Position, label string) (symbol.Symbol, bool) {
	candidates := lookupAll(s, path, entry, cursor, label)
	return symbol.Latest(candidates)
}

// lookupAll resolves every symbol visible at cursor whose label matches,
// for hover's "+N more" disambiguation when a label resolves to more than
// one candidate (e.g. an intrinsic overload set, or a source symbol
// shadowing an intrinsic of the same name).
func lookupAll(s *Server, path util.Path, entry *Entry, cursor symbol.Position, label string) []symbol.Symbol {
	table := s.Graph.AggregateSymbols(path).Merge(entry.Lang.Intrinsics())
	visible := symbol.Filter(table, cursor)
	return visible.ByLabel(lastSegment(label))
}

func lastSegment(chain string) string {
	parts := strings.Split(chain, ".")
	return parts[len(parts)-1]
}

// dottedChainAt resolves the full member-access chain ending at pos (e.g.
// placing pos right after "light.color" yields ["color", "light"], leaf
// first), for completion's dotted-trigger mode to descend.
func dottedChainAt(s *Server, uri string, pos transport.Position) (path util.Path, entry *Entry, links []syntax.ChainLink, ok bool) {
	path, err := util.URI2Path(uri)
	if err != nil {
		return "", nil, nil, false
	}
	entry, found := s.Graph.Get(path)
	if !found || entry.Tree == nil {
		return path, entry, nil, false
	}

	entry.mu.RLock()
	content := string(entry.Content)
	entry.mu.RUnlock()

	offset, err := PositionToOffset(pos, content, s.Encoding)
	if err != nil {
		return path, entry, nil, false
	}

	kinds := entry.Lang.IdentifierKinds()
	links, found = entry.Tree.DottedChainAtPosition(offset, kinds, entry.Lang.FieldIdentifierKind())
	if !found {
		return path, entry, nil, false
	}
	return path, entry, links, true
}

// resolveChain descends a dotted chain (root to leaf order) to the
// struct-typed symbol its last element names: the first segment resolves
// directly against table, and each later segment must be a member of the
// struct the previous segment's declared type names.
func resolveChain(table symbol.SymbolTable, cursor symbol.Position, segments []string) (symbol.Symbol, bool) {
	if len(segments) == 0 {
		return symbol.Symbol{}, false
	}
	visible := symbol.Filter(table, cursor)
	current, ok := symbol.Latest(visible.ByLabel(segments[0]))
	if !ok {
		return symbol.Symbol{}, false
	}
	for _, seg := range segments[1:] {
		owner, ok := structTypeOf(table, current)
		if !ok {
			return symbol.Symbol{}, false
		}
		current, ok = memberByLabel(owner, seg)
		if !ok {
			return symbol.Symbol{}, false
		}
	}
	return structTypeOf(table, current)
}

// structTypeOf resolves sym to the struct it names directly (sym is
// already KindStruct) or indirectly (sym is a KindVariable and its
// declared Type names a struct in table).
func structTypeOf(table symbol.SymbolTable, sym symbol.Symbol) (symbol.Symbol, bool) {
	if sym.Kind == symbol.KindStruct {
		return sym, true
	}
	if sym.Kind != symbol.KindVariable {
		return symbol.Symbol{}, false
	}
	for _, candidate := range table.ByLabel(sym.Type) {
		if candidate.Kind == symbol.KindStruct {
			return candidate, true
		}
	}
	return symbol.Symbol{}, false
}

// memberByLabel looks up label among owner's members and methods,
// synthesizing the minimal Symbol a further descent or a completion item
// needs from it.
func memberByLabel(owner symbol.Symbol, label string) (symbol.Symbol, bool) {
	for _, m := range owner.Members {
		if m.Label == label {
			return symbol.Symbol{Kind: symbol.KindVariable, Label: m.Label, Type: m.Type, Description: m.Description}, true
		}
	}
	for _, m := range owner.Methods {
		if m.Label == label {
			return symbol.Symbol{Kind: symbol.KindFunction, Label: m.Label, Signatures: []symbol.Signature{m.Signature}}, true
		}
	}
	return symbol.Symbol{}, false
}

func handleHover(s *Server, id json.RawMessage, params json.RawMessage) (any, *transport.ResponseError) {
	var p transport.HoverParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &transport.ResponseError{Code: transport.ErrInvalidParams, Message: err.Error()}
	}

	path, entry, chain, wordRange, ok := wordAt(s, p.TextDocument.URI, p.Position)
	if !ok {
		logging.Logger.Debug("hover", "error", langerr.NoSymbolf("no identifier at cursor").Error())
		return nil, nil
	}

	cursor := symbol.Position{Path: path, Line: p.Position.Line, Column: p.Position.Character}
	candidates := lookupAll(s, path, entry, cursor, chain)
	if len(candidates) == 0 {
		logging.Logger.Debug("hover", "error", langerr.NoSymbolf("%q not visible at cursor", chain).Error())
		return nil, nil
	}
	sym, _ := symbol.Latest(candidates)

	value := "```" + entry.Lang.ID() + "\n" + symbol.Format(sym) + "\n```"
	if sym.Description != "" {
		value += "\n\n" + sym.Description
	}
	if link := symbol.DocLink(sym); link != "" {
		value += "\n\n" + link
	}
	if more := len(candidates) - 1; more > 0 {
		value += fmt.Sprintf("\n\n+%d more", more)
	}

	return transport.Hover{
		Contents: transport.MarkupContent{Kind: "markdown", Value: value},
		Range: &transport.Range{
			Start: transport.Position{Line: wordRange.Start.Line, Character: wordRange.Start.Column},
			End:   transport.Position{Line: wordRange.End.Line, Character: wordRange.End.Column},
		},
	}, nil
}

func handleDefinition(s *Server, id json.RawMessage, params json.RawMessage) (any, *transport.ResponseError) {
	var p transport.DefinitionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &transport.ResponseError{Code: transport.ErrInvalidParams, Message: err.Error()}
	}

	path, entry, chain, _, ok := wordAt(s, p.TextDocument.URI, p.Position)
	if !ok {
		return nil, nil
	}

	cursor := symbol.Position{Path: path, Line: p.Position.Line, Column: p.Position.Character}
	sym, ok := lookup(s, path, entry, cursor, chain)
	if ok && sym.Kind == symbol.KindLink {
		target := transport.Position{Line: sym.Target.Line, Character: sym.Target.Column}
		return transport.Location{
			URI:   util.Path2URI(sym.Target.Path),
			Range: transport.Range{Start: target, End: target},
		}, nil
	}
	if !ok || sym.Range == nil {
		logging.Logger.Info("no definition found", "chain", chain, "path", path, "error", langerr.NoSymbolf("%q has no source definition", chain).Error())
		return nil, nil
	}

	return transport.Location{
		URI: util.Path2URI(sym.Range.Start.Path),
		Range: transport.Range{
			Start: transport.Position{Line: sym.Range.Start.Line, Character: sym.Range.Start.Column},
			End:   transport.Position{Line: sym.Range.End.Line, Character: sym.Range.End.Column},
		},
	}, nil
}

func handleCompletion(s *Server, id json.RawMessage, params json.RawMessage) (any, *transport.ResponseError) {
	var p transport.CompletionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &transport.ResponseError{Code: transport.ErrInvalidParams, Message: err.Error()}
	}

	path, err := util.URI2Path(p.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	entry, ok := s.Graph.Get(path)
	if !ok {
		return nil, nil
	}

	pos := symbol.Position{Path: path, Line: p.Position.Line, Column: p.Position.Character}
	table := s.Graph.AggregateSymbols(path).Merge(entry.Lang.Intrinsics())
	visible := symbol.Filter(table, pos)

	triggeredByDot := p.Context != nil && p.Context.TriggerKind == transport.CompletionTriggerKindTriggerCharacter && p.Context.TriggerCharacter == "."
	if triggeredByDot {
		// Dotted-chain mode: completions restricted to members/methods of
		// the struct-typed symbol the chain before the dot resolves to.
		_, _, links, ok := dottedChainAt(s, p.TextDocument.URI, transport.Position{Line: p.Position.Line, Character: p.Position.Character - 1})
		if !ok || len(links) == 0 {
			return []transport.CompletionItem{}, nil
		}
		segments := make([]string, len(links))
		for i, l := range links {
			segments[len(links)-1-i] = l.Text
		}
		base, ok := resolveChain(table, pos, segments)
		if !ok || base.Kind != symbol.KindStruct {
			return []transport.CompletionItem{}, nil
		}
		items := make([]transport.CompletionItem, 0, len(base.Members)+len(base.Methods))
		for _, m := range base.Members {
			items = append(items, transport.CompletionItem{Label: m.Label, Kind: transport.CompletionItemKindVariable, Detail: m.Type})
		}
		for _, m := range base.Methods {
			items = append(items, transport.CompletionItem{Label: m.Label, Kind: transport.CompletionItemKindFunction, Detail: symbol.FormatSignature(m.Signature, m.Label)})
		}
		return items, nil
	}

	// Aggregated mode: every symbol currently visible at cursor.
	items := make([]transport.CompletionItem, 0, len(visible.All()))
	for _, sym := range visible.All() {
		items = append(items, transport.CompletionItem{
			Label:         sym.Label,
			Kind:          completionKind(sym.Kind),
			Detail:        symbol.Format(sym),
			Documentation: sym.Description,
		})
	}
	return items, nil
}

func completionKind(k symbol.Kind) int {
	switch k {
	case symbol.KindFunction, symbol.KindLink:
		return transport.CompletionItemKindFunction
	case symbol.KindVariable:
		return transport.CompletionItemKindVariable
	case symbol.KindType, symbol.KindStruct:
		return transport.CompletionItemKindClass
	case symbol.KindKeyword:
		return transport.CompletionItemKindKeyword
	case symbol.KindConstant:
		return transport.CompletionItemKindConstant
	default:
		return transport.CompletionItemKindText
	}
}

func handleSignatureHelp(s *Server, id json.RawMessage, params json.RawMessage) (any, *transport.ResponseError) {
	var p transport.SignatureHelpParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &transport.ResponseError{Code: transport.ErrInvalidParams, Message: err.Error()}
	}

	path, entry, err := pathAndEntry(s, p.TextDocument.URI)
	if err != nil || entry == nil || entry.Tree == nil {
		return nil, nil
	}

	entry.mu.RLock()
	content := string(entry.Content)
	entry.mu.RUnlock()

	offset, convErr := PositionToOffset(p.Position, content, s.Encoding)
	if convErr != nil {
		return nil, nil
	}

	name, activeParam, ok := enclosingCall(content, int(offset))
	if !ok {
		return nil, nil
	}

	cursor := symbol.Position{Path: path, Line: p.Position.Line, Column: p.Position.Character}
	sym, ok := lookup(s, path, entry, cursor, name)
	if !ok || len(sym.Signatures) == 0 {
		return nil, nil
	}

	sigs := make([]transport.SignatureInformation, 0, len(sym.Signatures))
	for _, sig := range sym.Signatures {
		params := make([]transport.ParameterInformation, 0, len(sig.Parameters))
		for _, prm := range sig.Parameters {
			label := prm.Label
			if prm.Type != "" {
				label = prm.Type + " " + prm.Label
			}
			params = append(params, transport.ParameterInformation{Label: label})
		}
		sigs = append(sigs, transport.SignatureInformation{
			Label:         symbol.FormatSignature(sig, sym.Label),
			Documentation: sig.Description,
			Parameters:    params,
		})
	}

	return transport.SignatureHelp{Signatures: sigs, ActiveSignature: 0, ActiveParameter: activeParam}, nil
}

func pathAndEntry(s *Server, uri string) (util.Path, *Entry, error) {
	path, err := util.URI2Path(uri)
	if err != nil {
		return "", nil, err
	}
	entry, ok := s.Graph.Get(path)
	if !ok {
		return path, nil, nil
	}
	return path, entry, nil
}

// enclosingCall walks backward from offset to find the nearest unmatched
// "(" and the identifier before it, then counts top-level commas between
// that "(" and offset to find the active parameter index. This is a naive
// comma-counting approach rather than a full expression parse, since the
// call being typed is frequently incomplete or syntactically invalid at
// the moment signature help fires.
func enclosingCall(content string, offset int) (name string, activeParam int, ok bool) {
	depth := 0
	commas := 0
	i := offset - 1
	for ; i >= 0; i-- {
		switch content[i] {
		case ')':
			depth++
		case ',':
			if depth == 0 {
				commas++
			}
		case '(':
			if depth == 0 {
				goto found
			}
			depth--
		}
	}
	return "", 0, false

found:
	end := i
	start := end - 1
	for start >= 0 && isIdentChar(content[start]) {
		start--
	}
	start++
	if start >= end {
		return "", 0, false
	}
	return content[start:end], commas, true
}

func isIdentChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
