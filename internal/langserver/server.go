// Package langserver implements the request handlers, file cache, and
// diagnostic orchestrator on top of internal/syntax, internal/symbol,
// internal/include, and internal/lang. Every request and notification is
// handled synchronously on the single main loop goroutine: one
// cooperative dispatch loop, no per-request goroutines, so handlers never
// run concurrently with each other. The include-file watcher is the one
// other goroutine: it updates the Graph and runs diagnostics on disk
// changes, relying on the Graph's and the Transport's own locks.
package langserver

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shaderlang/shaderls/internal/lang"
	"github.com/shaderlang/shaderls/internal/logging"
	"github.com/shaderlang/shaderls/internal/transport"
	"github.com/shaderlang/shaderls/internal/util"
)

type State int

const (
	StateCreated State = iota
	StateInitializing
	StateRunning
	StateShutdown
	StateExit
	StateExitError
)

// Server is the main LSP server: one Graph of cached files, the language
// registry, negotiated capabilities, and the transport it talks over. It
// carries no mutex of its own; the loop below runs every request to
// completion before reading the next message, and the include-file
// watcher's goroutine is the only other caller.
type Server struct {
	Transport *transport.Transport
	Registry  *lang.Registry
	Graph     *Graph
	Config    Config

	Status       State
	Encoding     PositionEncoding
	Capabilities transport.ServerCapabilities
	RootPath     util.Path

	watcher      *Watcher
	reqIDCounter int
}

func New(t *transport.Transport, registry *lang.Registry) *Server {
	return &Server{
		Transport: t,
		Registry:  registry,
		Status:    StateCreated,
		Encoding:  EncodingUTF16,
	}
}

// Run is the central loop: read one framed message, dispatch it, repeat,
// until exit/shutdown or the transport closes.
func (s *Server) Run() error {
	for s.Status != StateExit && s.Status != StateExitError {
		raw, err := s.Transport.Read()
		if err != nil {
			return err
		}

		method, id, err := transport.GetMethod(raw)
		if err != nil {
			logging.Logger.Error("malformed message", "error", err)
			continue
		}

		if err := s.validateMethod(method); err != nil {
			logging.Logger.Error("method not valid for current state", "method", method, "state", s.Status, "error", err)
			continue
		}

		s.dispatch(method, id, raw)
	}
	if s.Status == StateExitError {
		return errors.New("exiting ungracefully: shutdown was not called before exit")
	}
	return nil
}

func (s *Server) validateMethod(method string) error {
	switch s.Status {
	case StateCreated:
		if method != "initialize" {
			return fmt.Errorf("server not initialized, got %q", method)
		}
	case StateShutdown:
		if method != "exit" {
			return fmt.Errorf("server shut down, only exit is valid, got %q", method)
		}
	}
	return nil
}

type requestHandler func(s *Server, id json.RawMessage, params json.RawMessage) (any, *transport.ResponseError)
type notificationHandler func(s *Server, params json.RawMessage) error

var requestHandlers = map[string]requestHandler{
	"initialize":                   handleInitialize,
	"shutdown":                     handleShutdown,
	"textDocument/hover":           handleHover,
	"textDocument/definition":      handleDefinition,
	"textDocument/completion":      handleCompletion,
	"textDocument/signatureHelp":   handleSignatureHelp,
}

var notificationHandlers = map[string]notificationHandler{
	"initialized":            handleInitialized,
	"textDocument/didOpen":   handleDidOpen,
	"textDocument/didChange": handleDidChange,
	"textDocument/didClose":  handleDidClose,
	"exit":                   handleExit,
}

func (s *Server) dispatch(method string, id json.RawMessage, raw []byte) {
	if handler, ok := requestHandlers[method]; ok {
		var msg transport.RequestMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logging.Logger.Error("failed to decode request", "method", method, "error", err)
			return
		}
		result, respErr := handler(s, id, msg.Params)
		if err := s.Transport.WriteResponse(id, result, respErr); err != nil {
			logging.Logger.Error("failed to write response", "method", method, "error", err)
		}
		return
	}

	if handler, ok := notificationHandlers[method]; ok {
		var msg transport.RequestMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logging.Logger.Error("failed to decode notification", "method", method, "error", err)
			return
		}
		if err := handler(s, msg.Params); err != nil {
			logging.Logger.Error("notification handler failed", "method", method, "error", err)
		}
		return
	}

	logging.Logger.Warn("no handler for method", "method", method)
}
