package symbol

import "testing"

func TestFormatVariable(t *testing.T) {
	sym := Symbol{Kind: KindVariable, Type: "vec3", Label: "color"}
	if got, want := Format(sym), "vec3 color"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFunctionWithParameters(t *testing.T) {
	sym := Symbol{
		Kind:  KindFunction,
		Label: "mix",
		Signatures: []Signature{{
			ReturnType: "float",
			Parameters: []Parameter{{Type: "float", Label: "x"}, {Type: "float", Label: "y"}, {Type: "float", Label: "a"}},
		}},
	}
	want := "float mix(float x, float y, float a)"
	if got := Format(sym); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatConstant(t *testing.T) {
	sym := Symbol{Kind: KindConstant, Qualifier: "const", Type: "int", Label: "MAX_LIGHTS", Value: "8"}
	want := "const int MAX_LIGHTS = 8;"
	if got := Format(sym); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatLink(t *testing.T) {
	sym := Symbol{Kind: KindLink, Label: "common.glsl", Target: Position{Path: "/inc/common.glsl", Line: 3, Column: 0}}
	want := `"common.glsl":3:0`
	if got := Format(sym); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDocLinkRendersMarkdownLink(t *testing.T) {
	sym := Symbol{Label: "mix", DocLink: "https://docs.example/mix"}
	want := "[mix](https://docs.example/mix)"
	if got := DocLink(sym); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDocLinkEmptyWhenUnset(t *testing.T) {
	sym := Symbol{Label: "mix"}
	if got := DocLink(sym); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
