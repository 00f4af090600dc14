package langserver

import (
	"encoding/json"

	"github.com/shaderlang/shaderls/internal/logging"
	"github.com/shaderlang/shaderls/internal/transport"
	"github.com/shaderlang/shaderls/internal/util"
)

func handleInitialize(s *Server, id json.RawMessage, params json.RawMessage) (any, *transport.ResponseError) {
	s.Status = StateInitializing

	var p transport.InitializeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &transport.ResponseError{Code: transport.ErrInvalidParams, Message: err.Error()}
	}

	s.Encoding = negotiateEncoding(p.Capabilities.General)
	s.RootPath, _ = util.URI2Path(p.RootURI)

	if p.InitializationOptions != nil {
		if raw, err := json.Marshal(p.InitializationOptions); err == nil {
			var cfg Config
			if err := json.Unmarshal(raw, &cfg); err == nil {
				s.Config = cfg
			}
		}
	} else {
		s.Config = DefaultConfig()
	}

	s.Graph = NewGraph(s.Registry, s.Config)

	if w, err := NewWatcher(s.Graph); err != nil {
		logging.Logger.Warn("include-file watcher unavailable", "error", err)
	} else {
		s.watcher = w
		s.Graph.WatchDependencies(w.Add)
		go w.Run(s)
	}

	encodingName := "utf-16"
	switch s.Encoding {
	case EncodingUTF8:
		encodingName = "utf-8"
	case EncodingUTF32:
		encodingName = "utf-32"
	}

	s.Capabilities = transport.ServerCapabilities{
		PositionEncoding: encodingName,
		TextDocumentSync: transport.TextDocumentSyncOptions{
			OpenClose: true,
			Change:    transport.TextDocumentSyncIncremental,
		},
		HoverProvider:      true,
		DefinitionProvider: true,
		CompletionProvider: &transport.CompletionOptions{TriggerCharacters: []string{"."}},
		SignatureHelpProvider: &transport.SignatureHelpOptions{TriggerCharacters: []string{"(", ","}},
	}

	logging.Logger.Info("initialized", "root", s.RootPath, "encoding", encodingName)

	return transport.InitializeResult{
		Capabilities: s.Capabilities,
		ServerInfo:   &transport.ServerInfo{Name: "shaderls", Version: "0.1.0"},
	}, nil
}

// negotiateEncoding picks utf-16 unless the client lists utf-8 or utf-32
// first in its offer list, in which case that first entry is used; any
// other first entry, or no offer at all, yields utf-16.
func negotiateEncoding(general *transport.GeneralClientCapabilities) PositionEncoding {
	if general == nil || len(general.PositionEncodings) == 0 {
		return EncodingUTF16
	}
	switch general.PositionEncodings[0] {
	case "utf-8":
		return EncodingUTF8
	case "utf-32":
		return EncodingUTF32
	default:
		return EncodingUTF16
	}
}

func handleInitialized(s *Server, params json.RawMessage) error {
	s.Status = StateRunning
	logging.Logger.Info("server running")
	return nil
}

func handleShutdown(s *Server, id json.RawMessage, params json.RawMessage) (any, *transport.ResponseError) {
	s.Status = StateShutdown
	return nil, nil
}

func handleExit(s *Server, params json.RawMessage) error {
	if s.watcher != nil {
		s.watcher.Close()
	}
	if s.Status == StateShutdown {
		s.Status = StateExit
	} else {
		s.Status = StateExitError
	}
	return nil
}
