package langserver

import (
	"testing"

	"github.com/shaderlang/shaderls/internal/symbol"
)

func TestLastSegmentReturnsFinalDotComponent(t *testing.T) {
	if got := lastSegment("light.color"); got != "color" {
		t.Errorf("got %q, want color", got)
	}
	if got := lastSegment("color"); got != "color" {
		t.Errorf("got %q, want color", got)
	}
}

func TestCompletionKindMapping(t *testing.T) {
	cases := []struct {
		kind symbol.Kind
		want int
	}{
		{symbol.KindFunction, 3},
		{symbol.KindLink, 3},
		{symbol.KindVariable, 6},
		{symbol.KindType, 7},
		{symbol.KindStruct, 7},
		{symbol.KindKeyword, 14},
		{symbol.KindConstant, 21},
		{symbol.KindNone, 1},
	}
	for _, c := range cases {
		if got := completionKind(c.kind); got != c.want {
			t.Errorf("kind %v: got %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestIsIdentChar(t *testing.T) {
	for _, b := range []byte("aZ_9") {
		if !isIdentChar(b) {
			t.Errorf("expected %q to be an identifier char", b)
		}
	}
	for _, b := range []byte(" .(),") {
		if isIdentChar(b) {
			t.Errorf("expected %q to not be an identifier char", b)
		}
	}
}

func TestEnclosingCallFindsNameAndActiveParameter(t *testing.T) {
	content := "float x = mix(a, b, "
	name, active, ok := enclosingCall(content, len(content))
	if !ok {
		t.Fatal("expected an enclosing call to be found")
	}
	if name != "mix" {
		t.Errorf("got name %q, want mix", name)
	}
	if active != 2 {
		t.Errorf("got active parameter %d, want 2", active)
	}
}

func TestEnclosingCallFirstParameter(t *testing.T) {
	content := "mix("
	name, active, ok := enclosingCall(content, len(content))
	if !ok {
		t.Fatal("expected an enclosing call to be found")
	}
	if name != "mix" || active != 0 {
		t.Errorf("got name %q active %d, want mix/0", name, active)
	}
}

func TestEnclosingCallNoOpenParenFails(t *testing.T) {
	if _, _, ok := enclosingCall("float x = 1.0", 10); ok {
		t.Error("expected no enclosing call to be found")
	}
}

func TestEnclosingCallSkipsNestedCompletedCall(t *testing.T) {
	// "dot(a, b)" is a finished nested call; its internal comma must not
	// count toward mix's own active parameter, only the comma following it.
	content := "mix(dot(a, b), "
	name, active, ok := enclosingCall(content, len(content))
	if !ok {
		t.Fatal("expected the outer call to be found")
	}
	if name != "mix" {
		t.Errorf("got name %q, want mix (the nested dot(...) call should be skipped over)", name)
	}
	if active != 1 {
		t.Errorf("got active parameter %d, want 1 (now on mix's second argument)", active)
	}
}

func structSymbol(label string, members []symbol.Member, methods []symbol.Method) symbol.Symbol {
	return symbol.Symbol{Kind: symbol.KindStruct, Label: label, Members: members, Methods: methods}
}

func TestStructTypeOfDirectStruct(t *testing.T) {
	s := structSymbol("Light", nil, nil)
	got, ok := structTypeOf(symbol.SymbolTable{}, s)
	if !ok || got.Label != "Light" {
		t.Errorf("got %v, %v", got, ok)
	}
}

func TestStructTypeOfVariableResolvesDeclaredType(t *testing.T) {
	var table symbol.SymbolTable
	table.Add(structSymbol("Light", []symbol.Member{{Type: "vec3", Label: "color"}}, nil))
	v := symbol.Symbol{Kind: symbol.KindVariable, Label: "light", Type: "Light"}

	got, ok := structTypeOf(table, v)
	if !ok || got.Label != "Light" {
		t.Errorf("got %v, %v", got, ok)
	}
}

func TestStructTypeOfNonStructVariableFails(t *testing.T) {
	var table symbol.SymbolTable
	v := symbol.Symbol{Kind: symbol.KindVariable, Label: "x", Type: "float"}
	if _, ok := structTypeOf(table, v); ok {
		t.Error("expected no struct type for a scalar-typed variable")
	}
}

func TestMemberByLabelFindsMemberAndMethod(t *testing.T) {
	owner := structSymbol("Light", []symbol.Member{{Type: "vec3", Label: "color"}},
		[]symbol.Method{{Label: "intensity", Signature: symbol.Signature{ReturnType: "float"}}})

	member, ok := memberByLabel(owner, "color")
	if !ok || member.Kind != symbol.KindVariable || member.Type != "vec3" {
		t.Errorf("got %v, %v", member, ok)
	}

	method, ok := memberByLabel(owner, "intensity")
	if !ok || method.Kind != symbol.KindFunction || len(method.Signatures) != 1 {
		t.Errorf("got %v, %v", method, ok)
	}

	if _, ok := memberByLabel(owner, "nope"); ok {
		t.Error("expected an unknown label to fail")
	}
}

func TestResolveChainNonStructLeafFails(t *testing.T) {
	var table symbol.SymbolTable
	table.Add(structSymbol("Light", []symbol.Member{{Type: "vec3", Label: "color"}}, nil))
	table.Add(symbol.Symbol{Kind: symbol.KindVariable, Label: "light", Type: "Light"})

	cursor := symbol.Position{Path: "/a.glsl", Line: 5}
	got, ok := resolveChain(table, cursor, []string{"light", "color"})
	if ok {
		t.Errorf("expected resolving through a non-struct leaf (color is vec3) to fail, got %v", got)
	}
}

func TestResolveChainSingleSegmentResolvesToStruct(t *testing.T) {
	var table symbol.SymbolTable
	table.Add(structSymbol("Light", nil, nil))
	table.Add(symbol.Symbol{Kind: symbol.KindVariable, Label: "light", Type: "Light"})

	cursor := symbol.Position{Path: "/a.glsl", Line: 5}
	got, ok := resolveChain(table, cursor, []string{"light"})
	if !ok || got.Label != "Light" {
		t.Errorf("got %v, %v", got, ok)
	}
}

func TestResolveChainEmptySegmentsFails(t *testing.T) {
	if _, ok := resolveChain(symbol.SymbolTable{}, symbol.Position{}, nil); ok {
		t.Error("expected no segments to fail")
	}
}
