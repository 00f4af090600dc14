package symbol

// Filter restricts an aggregated SymbolTable to what is visible at cursor.
// cursor.Path is the file the cursor is in, used for the cross-file
// visibility exception.
func Filter(table SymbolTable, cursor Position) SymbolTable {
	var out SymbolTable
	for _, sym := range table.All() {
		if passes(sym, cursor) {
			out.Add(sym)
		}
	}
	return out
}

func passes(sym Symbol, cursor Position) bool {
	if !positionRule(sym, cursor) {
		return false
	}
	return scopeRule(sym, cursor)
}

// positionRule: either the symbol is an intrinsic (no range), global (no
// scope stack), or the cursor occurs after the symbol's start position.
func positionRule(sym Symbol, cursor Position) bool {
	if sym.Range == nil {
		return true
	}
	if len(sym.ScopeStack) == 0 {
		return true
	}
	return sym.Range.Start.LessOrEqual(cursor)
}

// scopeRule: the cursor must be contained in every enclosing scope, unless
// the symbol's file differs from the cursor's file, in which case only
// symbols with an empty scope stack (globals) are admitted.
func scopeRule(sym Symbol, cursor Position) bool {
	if sym.Range != nil && sym.Range.Start.Path != cursor.Path {
		return len(sym.ScopeStack) == 0
	}
	for _, sc := range sym.ScopeStack {
		if !sc.Range().Contains(cursor) {
			return false
		}
	}
	return true
}

// Latest picks, among a slice of same-label symbols sharing an enclosing
// scope, the one with the largest start position: the shadowing tie-break
// for lookups resolved at query time. Symbols with Range == nil
// (intrinsics) sort before any source-derived symbol, since they have no
// start position to compare.
func Latest(candidates []Symbol) (Symbol, bool) {
	if len(candidates) == 0 {
		return Symbol{}, false
	}
	best := candidates[0]
	for _, sym := range candidates[1:] {
		if sym.Range == nil {
			continue
		}
		if best.Range == nil || best.Range.Start.Less(sym.Range.Start) {
			best = sym
		}
	}
	return best, true
}
