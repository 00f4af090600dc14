package glsl

import (
	"testing"

	tree_sitter_glsl "github.com/tree-sitter-grammars/tree-sitter-glsl"

	"github.com/shaderlang/shaderls/internal/symbol"
	"github.com/shaderlang/shaderls/internal/syntax"
)

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	grammar := syntax.NewGrammar(tree_sitter_glsl.Language())
	tree := syntax.Create(grammar, "/a.frag", []byte(src))
	t.Cleanup(tree.Close)
	return tree
}

func TestExtractFindsFunction(t *testing.T) {
	tree := parse(t, `
float square(float x) {
    return x * x;
}
`)
	table := Extract(tree)
	fns := table.ByLabel("square")
	if len(fns) != 1 {
		t.Fatalf("got %d matches for square, want 1", len(fns))
	}
	sig := fns[0].Signatures[0]
	if sig.ReturnType != "float" {
		t.Errorf("got return type %q, want float", sig.ReturnType)
	}
	if len(sig.Parameters) != 1 || sig.Parameters[0].Label != "x" {
		t.Errorf("got parameters %+v", sig.Parameters)
	}
}

func TestExtractFindsStructWithMembers(t *testing.T) {
	tree := parse(t, `
struct Light {
    vec3 color;
    float intensity;
};
`)
	table := Extract(tree)
	structs := table.ByLabel("Light")
	if len(structs) != 1 {
		t.Fatalf("got %d matches for Light, want 1", len(structs))
	}
	members := structs[0].Members
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	if members[0].Label != "color" || members[0].Type != "vec3" {
		t.Errorf("got member[0] %+v", members[0])
	}
	if members[1].Label != "intensity" || members[1].Type != "float" {
		t.Errorf("got member[1] %+v", members[1])
	}
}

func TestExtractFindsGlobalVariable(t *testing.T) {
	tree := parse(t, `uniform vec3 lightColor;`)
	table := Extract(tree)
	vars := table.ByLabel("lightColor")
	if len(vars) != 1 {
		t.Fatalf("got %d matches, want 1", len(vars))
	}
	if vars[0].Kind != symbol.KindVariable {
		t.Errorf("got kind %v, want KindVariable", vars[0].Kind)
	}
}

func TestExtractFindsDefine(t *testing.T) {
	tree := parse(t, "#define MAX_LIGHTS 4\n")
	table := Extract(tree)
	defs := table.ByLabel("MAX_LIGHTS")
	if len(defs) != 1 {
		t.Fatalf("got %d matches, want 1", len(defs))
	}
	if defs[0].Kind != symbol.KindConstant {
		t.Errorf("got kind %v, want KindConstant", defs[0].Kind)
	}
	if defs[0].Value != "4" {
		t.Errorf("got value %q, want 4", defs[0].Value)
	}
}

func TestExtractScopesLocalVariableInsideFunction(t *testing.T) {
	tree := parse(t, `
void main() {
    float x = 1.0;
}
`)
	table := Extract(tree)
	vars := table.ByLabel("x")
	if len(vars) != 1 {
		t.Fatalf("got %d matches, want 1", len(vars))
	}
	if len(vars[0].ScopeStack) == 0 {
		t.Error("expected a local variable inside main's body to carry a non-empty scope stack")
	}
}

func TestIncludesCapturesPathAndStripsQuotes(t *testing.T) {
	tree := parse(t, `#include "common.glsl"
void main() {}
`)
	refs := Includes(tree)
	if len(refs) != 1 {
		t.Fatalf("got %d includes, want 1", len(refs))
	}
	if refs[0].Path != "common.glsl" {
		t.Errorf("got path %q, want common.glsl", refs[0].Path)
	}
}

func TestIncludesHandlesAngleBrackets(t *testing.T) {
	tree := parse(t, "#include <shared/lighting.glsl>\n")
	refs := Includes(tree)
	if len(refs) != 1 {
		t.Fatalf("got %d includes, want 1", len(refs))
	}
	if refs[0].Path != "shared/lighting.glsl" {
		t.Errorf("got path %q, want shared/lighting.glsl", refs[0].Path)
	}
}

func TestStageFromPathMapsConventionalExtensions(t *testing.T) {
	l := New(tree_sitter_glsl.Language)
	cases := map[string]symbol.Stage{
		"a.vert": "vertex",
		"a.frag": "fragment",
		"a.geom": "geometry",
		"a.comp": "compute",
		"a.tesc": "tesscontrol",
		"a.tese": "tesseval",
		"a.glsl": "",
	}
	for path, want := range cases {
		if got := l.StageFromPath(path); got != want {
			t.Errorf("path %q: got stage %q, want %q", path, got, want)
		}
	}
}
