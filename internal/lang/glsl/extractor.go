package glsl

import (
	"strings"

	"github.com/shaderlang/shaderls/internal/symbol"
	"github.com/shaderlang/shaderls/internal/syntax"
)

// Node kinds the GLSL grammar (a C-family tree-sitter grammar) exposes
// for identifier-like leaves, used by WordAtPosition and
// DottedChainAtPosition.
var identifierKinds = map[string]bool{
	"identifier":      true,
	"type_identifier": true,
	"field_identifier": true,
	"primitive_type":  true,
}

// IdentifierKinds implements lang.Language.
func IdentifierKinds() map[string]bool { return identifierKinds }

const scopeQuery = `(compound_statement) @scope`

const functionQuery = `
(function_definition
  type: (_) @return_type
  declarator: (function_declarator
    declarator: (identifier) @name
    parameters: (parameter_list) @params) @decl
  body: (compound_statement) @body) @function
`

const paramQuery = `
(parameter_declaration
  type: (_) @type
  declarator: (identifier) @name) @param
`

const structQuery = `
(struct_specifier
  name: (type_identifier) @name
  body: (field_declaration_list) @body) @struct
`

const fieldQuery = `
(field_declaration
  type: (_) @type
  declarator: (field_identifier) @name) @field
`

const variableQuery = `
(declaration
  type: (_) @type
  declarator: (init_declarator
    declarator: (identifier) @name) @decl) @decl_stmt
(declaration
  type: (_) @type
  declarator: (identifier) @name) @bare_decl
`

const includeQuery = `(preproc_include path: (_) @path) @include`

const defineQuery = `
(preproc_def name: (identifier) @name value: (_)? @value) @define
(preproc_function_def name: (identifier) @name) @define_fn
`

// Extract walks tree with the query set above and returns every symbol it
// defines, tagged with Range and ScopeStack. A scope is every
// compound_statement span: C-family block scoping, brace-delimited.
func Extract(tree *syntax.Tree) symbol.SymbolTable {
	var table symbol.SymbolTable

	scopes := extractScopes(tree)

	if matches, err := tree.Query(functionQuery); err == nil {
		for _, m := range matches {
			table.Add(buildFunction(tree, m, scopes))
		}
	}
	if matches, err := tree.Query(structQuery); err == nil {
		for _, m := range matches {
			table.Add(buildStruct(tree, m, scopes))
		}
	}
	if matches, err := tree.Query(variableQuery); err == nil {
		for _, m := range matches {
			if sym, ok := buildVariable(tree, m, scopes); ok {
				table.Add(sym)
			}
		}
	}
	if matches, err := tree.Query(defineQuery); err == nil {
		for _, m := range matches {
			table.Add(buildDefine(tree, m))
		}
	}

	return table
}

func extractScopes(tree *syntax.Tree) []*symbol.Scope {
	matches, err := tree.Query(scopeQuery)
	if err != nil {
		return nil
	}
	scopes := make([]*symbol.Scope, 0, len(matches))
	for _, m := range matches {
		for _, c := range m.Captures {
			if c.Name != "scope" {
				continue
			}
			r := tree.NodeRange(c.Node)
			sc := symbol.Scope(r)
			scopes = append(scopes, &sc)
		}
	}
	return scopes
}

func capture(m syntax.Match, name string) (c syntax.Capture, ok bool) {
	for _, cap := range m.Captures {
		if cap.Name == name {
			return cap, true
		}
	}
	return syntax.Capture{}, false
}

func buildFunction(tree *syntax.Tree, m syntax.Match, scopes []*symbol.Scope) symbol.Symbol {
	nameCap, _ := capture(m, "name")
	retCap, _ := capture(m, "return_type")
	fnCap, _ := capture(m, "function")

	var params []symbol.Parameter
	if paramsCap, ok := capture(m, "params"); ok {
		if pm, err := tree.Query(paramQuery); err == nil {
			for _, pmatch := range pm {
				if !tree.NodeRange(paramsCap.Node).ContainsRange(rangeOf(tree, pmatch, "param")) {
					continue
				}
				pTypeCap, _ := capture(pmatch, "type")
				pNameCap, _ := capture(pmatch, "name")
				params = append(params, symbol.Parameter{Type: tree.Text(pTypeCap.Node), Label: tree.Text(pNameCap.Node)})
			}
		}
	}

	r := tree.NodeRange(fnCap.Node)
	return symbol.Symbol{
		Label: tree.Text(nameCap.Node),
		Kind:  symbol.KindFunction,
		Signatures: []symbol.Signature{{
			ReturnType: tree.Text(retCap.Node),
			Parameters: params,
		}},
		Range:      &r,
		ScopeStack: symbol.ComputeScopeStack(scopes, r),
	}
}

func rangeOf(tree *syntax.Tree, m syntax.Match, name string) symbol.Range {
	c, _ := capture(m, name)
	return tree.NodeRange(c.Node)
}

func buildStruct(tree *syntax.Tree, m syntax.Match, scopes []*symbol.Scope) symbol.Symbol {
	nameCap, _ := capture(m, "name")
	structCap, _ := capture(m, "struct")
	bodyCap, _ := capture(m, "body")

	var members []symbol.Member
	if fm, err := tree.Query(fieldQuery); err == nil {
		bodyRange := tree.NodeRange(bodyCap.Node)
		for _, fmatch := range fm {
			if !bodyRange.ContainsRange(rangeOf(tree, fmatch, "field")) {
				continue
			}
			typeCap, _ := capture(fmatch, "type")
			fieldNameCap, _ := capture(fmatch, "name")
			members = append(members, symbol.Member{Type: tree.Text(typeCap.Node), Label: tree.Text(fieldNameCap.Node)})
		}
	}

	r := tree.NodeRange(structCap.Node)
	return symbol.Symbol{
		Label:      tree.Text(nameCap.Node),
		Kind:       symbol.KindStruct,
		Members:    members,
		Range:      &r,
		ScopeStack: symbol.ComputeScopeStack(scopes, r),
	}
}

func buildVariable(tree *syntax.Tree, m syntax.Match, scopes []*symbol.Scope) (symbol.Symbol, bool) {
	nameCap, ok := capture(m, "name")
	if !ok {
		return symbol.Symbol{}, false
	}
	typeCap, _ := capture(m, "type")
	declCap, declOK := capture(m, "decl_stmt")
	if !declOK {
		declCap, _ = capture(m, "bare_decl")
	}

	r := tree.NodeRange(declCap.Node)
	return symbol.Symbol{
		Label:      tree.Text(nameCap.Node),
		Kind:       symbol.KindVariable,
		Type:       tree.Text(typeCap.Node),
		Range:      &r,
		ScopeStack: symbol.ComputeScopeStack(scopes, r),
	}, true
}

func buildDefine(tree *syntax.Tree, m syntax.Match) symbol.Symbol {
	nameCap, _ := capture(m, "name")
	defCap, ok := capture(m, "define")
	if !ok {
		defCap, _ = capture(m, "define_fn")
	}
	value := ""
	if valCap, ok := capture(m, "value"); ok {
		value = strings.TrimSpace(tree.Text(valCap.Node))
	}
	r := tree.NodeRange(defCap.Node)
	return symbol.Symbol{
		Label: tree.Text(nameCap.Node),
		Kind:  symbol.KindConstant,
		Value: value,
		Range: &r,
	}
}

// Includes returns every preproc_include directive in tree: the raw path
// text (quotes/angle brackets stripped) for the include resolver, and the
// path literal's own range for the Link symbol built from it once
// resolved.
func Includes(tree *syntax.Tree) []symbol.IncludeRef {
	matches, err := tree.Query(includeQuery)
	if err != nil {
		return nil
	}
	out := make([]symbol.IncludeRef, 0, len(matches))
	for _, m := range matches {
		pathCap, ok := capture(m, "path")
		if !ok {
			continue
		}
		out = append(out, symbol.IncludeRef{
			Path:  stripIncludeQuotes(tree.Text(pathCap.Node)),
			Range: tree.NodeRange(pathCap.Node),
		})
	}
	return out
}

func stripIncludeQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimSuffix(s, ">")
	s = strings.TrimPrefix(s, "\"")
	s = strings.TrimSuffix(s, "\"")
	return s
}
