package langserver

import (
	"testing"

	"github.com/shaderlang/shaderls/internal/transport"
)

func TestDXCParseLineCapturesPathAndSeverity(t *testing.T) {
	v := NewDXCValidator().(ExternalValidator)
	path, diag, ok := v.ParseLine(`/inc/common.hlsl:12:5: error: undeclared identifier 'foo'`)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if path != "/inc/common.hlsl" {
		t.Errorf("got path %q, want /inc/common.hlsl", path)
	}
	if diag.Severity != transport.SeverityError {
		t.Errorf("got severity %d, want error", diag.Severity)
	}
	if diag.Range.Start.Line != 11 {
		t.Errorf("got line %d, want 11 (0-based)", diag.Range.Start.Line)
	}
	if diag.Message != "undeclared identifier 'foo'" {
		t.Errorf("got message %q", diag.Message)
	}
}

func TestDXCParseLineWarning(t *testing.T) {
	v := NewDXCValidator().(ExternalValidator)
	_, diag, ok := v.ParseLine(`main.hlsl:1:1: warning: unused variable`)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if diag.Severity != transport.SeverityWarning {
		t.Errorf("got severity %d, want warning", diag.Severity)
	}
}

func TestDXCParseLineRejectsUnrelatedOutput(t *testing.T) {
	v := NewDXCValidator().(ExternalValidator)
	if _, _, ok := v.ParseLine("compilation succeeded"); ok {
		t.Error("expected non-diagnostic line to be rejected")
	}
}

func TestGlslangParseLineCapturesPath(t *testing.T) {
	v := NewGlslangValidator().(ExternalValidator)
	path, diag, ok := v.ParseLine(`ERROR: /inc/lighting.glsl:8: 'vec3' : syntax error`)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if path != "/inc/lighting.glsl" {
		t.Errorf("got path %q, want /inc/lighting.glsl", path)
	}
	if diag.Severity != transport.SeverityError {
		t.Errorf("got severity %d, want error", diag.Severity)
	}
	if diag.Range.Start.Line != 7 {
		t.Errorf("got line %d, want 7 (0-based)", diag.Range.Start.Line)
	}
}

func TestGlslangParseLineWarning(t *testing.T) {
	v := NewGlslangValidator().(ExternalValidator)
	_, diag, ok := v.ParseLine(`WARNING: main.frag:3: unused uniform`)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if diag.Severity != transport.SeverityWarning {
		t.Errorf("got severity %d, want warning", diag.Severity)
	}
}

func TestNagaParseLineNeverReportsPath(t *testing.T) {
	v := NewNagaValidator().(ExternalValidator)
	path, diag, ok := v.ParseLine("error: expected expression")
	if !ok {
		t.Fatal("expected line to parse")
	}
	if path != "" {
		t.Errorf("got path %q, want empty (naga never names one)", path)
	}
	if diag.Message != "expected expression" {
		t.Errorf("got message %q", diag.Message)
	}
}

func TestNagaParseLineRejectsNonErrorLines(t *testing.T) {
	v := NewNagaValidator().(ExternalValidator)
	if _, _, ok := v.ParseLine("   ^^^ here"); ok {
		t.Error("expected a caret-pointer line to be rejected")
	}
}

func TestMax0Clamps(t *testing.T) {
	if got := max0(-5); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
	if got := max0(3); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}
