package langerr

import (
	"errors"
	"testing"
)

func TestIsNoSymbol(t *testing.T) {
	err := NoSymbolf("cursor on whitespace")
	if !IsNoSymbol(err) {
		t.Error("expected IsNoSymbol to recognize its own constructor's result")
	}
	if IsNoSymbol(errors.New("unrelated")) {
		t.Error("expected IsNoSymbol to reject an unrelated error")
	}
}

func TestInternalErrUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("failed to read file", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestParseErrMessage(t *testing.T) {
	err := &ParseErr{Path: "/shaders/main.glsl"}
	if err.Error() == "" {
		t.Error("expected a non-empty message")
	}
}
