package langserver

import (
	"encoding/json"

	"github.com/shaderlang/shaderls/internal/logging"
	"github.com/shaderlang/shaderls/internal/symbol"
	"github.com/shaderlang/shaderls/internal/transport"
	"github.com/shaderlang/shaderls/internal/util"
)

func handleDidOpen(s *Server, params json.RawMessage) error {
	var p transport.DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return err
	}
	path, err := util.URI2Path(p.TextDocument.URI)
	if err != nil {
		return err
	}
	s.Graph.OpenAsMain(path, []byte(p.TextDocument.Text))
	logging.Logger.Info("opened document", "path", path)
	s.runDiagnostics(path)
	return nil
}

func handleDidChange(s *Server, params json.RawMessage) error {
	var p transport.DidChangeTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return err
	}
	path, err := util.URI2Path(p.TextDocument.URI)
	if err != nil {
		return err
	}

	entry, ok := s.Graph.Get(path)
	if !ok {
		return nil
	}

	content := string(entry.Content)
	for _, change := range p.ContentChanges {
		if change.Range == nil {
			content = change.Text
			s.Graph.Update(path, []byte(content))
			continue
		}

		startByte, _ := PositionToOffset(change.Range.Start, content, s.Encoding)
		endByte, _ := PositionToOffset(change.Range.End, content, s.Encoding)
		lines := GetLineIndices(content)
		startPos := symbol.Position{Path: path, Line: change.Range.Start.Line, Column: uint32(startByte - lineStart(lines, change.Range.Start.Line))}
		endPos := symbol.Position{Path: path, Line: change.Range.End.Line, Column: uint32(endByte - lineStart(lines, change.Range.End.Line))}
		s.Graph.ApplyEdit(path, startPos, endPos, startByte, endByte, change.Text)
		content = content[:startByte] + change.Text + content[endByte:]
	}

	logging.Logger.Info("changed document", "path", path)
	s.runDiagnostics(path)
	return nil
}

// lineStart returns the byte offset of line's start, clamping to the
// last known line start if line is out of range (end-of-document edits).
func lineStart(indices []uint, line uint32) uint {
	idx := int(line)
	if idx >= len(indices) {
		idx = len(indices) - 1
	}
	return indices[idx]
}

func handleDidClose(s *Server, params json.RawMessage) error {
	var p transport.DidCloseTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return err
	}
	path, err := util.URI2Path(p.TextDocument.URI)
	if err != nil {
		return err
	}
	removed := s.Graph.CloseMain(path)
	logging.Logger.Info("closed document", "path", path, "evicted", removed)
	return nil
}
