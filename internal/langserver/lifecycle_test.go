package langserver

import (
	"encoding/json"
	"testing"

	"github.com/shaderlang/shaderls/internal/lang"
	"github.com/shaderlang/shaderls/internal/transport"
)

func newLifecycleServer(t *testing.T) *Server {
	t.Helper()
	registry := lang.NewRegistry(&fakeLanguage{ext: ".fake"})
	s := New(transport.New(nil, discardWriter{}), registry)
	t.Cleanup(func() {
		if s.watcher != nil {
			s.watcher.Close()
		}
	})
	return s
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestHandleInitializeInstallsDefaultConfigWithNoOptions(t *testing.T) {
	s := newLifecycleServer(t)
	params, _ := json.Marshal(transport.InitializeParams{RootURI: "file:///root"})

	result, respErr := handleInitialize(s, nil, params)
	if respErr != nil {
		t.Fatalf("unexpected error: %v", respErr)
	}
	if s.Status != StateInitializing {
		t.Errorf("got status %v, want StateInitializing", s.Status)
	}
	if !s.Config.Validate {
		t.Error("expected default config installed when no initializationOptions sent")
	}
	if s.Graph == nil {
		t.Error("expected a Graph constructed during initialize")
	}
	if init, ok := result.(transport.InitializeResult); !ok || init.ServerInfo.Name != "shaderls" {
		t.Errorf("got result %v", result)
	}
}

func TestHandleInitializeMergesClientOptions(t *testing.T) {
	s := newLifecycleServer(t)
	params, _ := json.Marshal(transport.InitializeParams{
		InitializationOptions: map[string]any{"validate": false},
	})

	if _, respErr := handleInitialize(s, nil, params); respErr != nil {
		t.Fatalf("unexpected error: %v", respErr)
	}
	if s.Config.Validate {
		t.Error("expected client's validate:false to override the default")
	}
}

func TestNegotiateEncodingDefaultsToUTF16(t *testing.T) {
	if got := negotiateEncoding(nil); got != EncodingUTF16 {
		t.Errorf("got %v, want utf-16", got)
	}
}

func TestNegotiateEncodingHonorsClientPreferenceOrder(t *testing.T) {
	general := &transport.GeneralClientCapabilities{PositionEncodings: []string{"utf-8", "utf-16"}}
	if got := negotiateEncoding(general); got != EncodingUTF8 {
		t.Errorf("got %v, want utf-8 (client's first choice)", got)
	}
}

func TestNegotiateEncodingUnknownFirstChoiceFallsBackToUTF16(t *testing.T) {
	general := &transport.GeneralClientCapabilities{PositionEncodings: []string{"utf-64"}}
	if got := negotiateEncoding(general); got != EncodingUTF16 {
		t.Errorf("got %v, want utf-16 fallback", got)
	}
}

func TestHandleInitializedSetsRunning(t *testing.T) {
	s := newLifecycleServer(t)
	if err := handleInitialized(s, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StateRunning {
		t.Errorf("got status %v, want StateRunning", s.Status)
	}
}

func TestHandleShutdownThenExitIsGraceful(t *testing.T) {
	s := newLifecycleServer(t)
	if _, respErr := handleShutdown(s, nil, nil); respErr != nil {
		t.Fatalf("unexpected error: %v", respErr)
	}
	if s.Status != StateShutdown {
		t.Errorf("got status %v, want StateShutdown", s.Status)
	}
	if err := handleExit(s, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StateExit {
		t.Errorf("got status %v, want StateExit", s.Status)
	}
}

func TestHandleExitWithoutShutdownIsUngraceful(t *testing.T) {
	s := newLifecycleServer(t)
	if err := handleExit(s, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StateExitError {
		t.Errorf("got status %v, want StateExitError", s.Status)
	}
}
