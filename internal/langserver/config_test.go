package langserver

import (
	"encoding/json"
	"testing"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Validate || !cfg.Symbols {
		t.Error("expected Validate and Symbols to default true")
	}
	if cfg.Severity != "hint" {
		t.Errorf("got severity %q, want hint", cfg.Severity)
	}
	if cfg.HLSL.ShaderModel != "6.0" {
		t.Errorf("got shader model %q, want 6.0", cfg.HLSL.ShaderModel)
	}
	if cfg.GLSL.TargetClient != "opengl" {
		t.Errorf("got target client %q, want opengl", cfg.GLSL.TargetClient)
	}
}

func TestConfigUnmarshalFillsDefaultsForOmittedFields(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(`{"validate": false}`), &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Validate {
		t.Error("expected explicit validate:false to override the default")
	}
	if !cfg.Symbols {
		t.Error("expected symbols to keep its default since the payload omitted it")
	}
	if cfg.Severity != "hint" {
		t.Errorf("got severity %q, want the default hint", cfg.Severity)
	}
}

func TestConfigUnmarshalDefines(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(`{"defines": {"MAX_LIGHTS": "8"}}`), &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defines["MAX_LIGHTS"] != "8" {
		t.Errorf("got %v, want MAX_LIGHTS=8", cfg.Defines)
	}
}

func TestSeverityThresholdMapping(t *testing.T) {
	cases := []struct {
		severity string
		want     int
	}{
		{"error", 1},
		{"warning", 2},
		{"information", 3},
		{"hint", 4},
		{"", 4},
		{"bogus", 4},
	}
	for _, c := range cases {
		cfg := Config{Severity: c.severity}
		if got := cfg.SeverityThreshold(); got != c.want {
			t.Errorf("severity %q: got %d, want %d", c.severity, got, c.want)
		}
	}
}
