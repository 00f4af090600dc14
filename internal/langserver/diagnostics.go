package langserver

import (
	"path/filepath"
	"sync"

	"github.com/shaderlang/shaderls/internal/include"
	"github.com/shaderlang/shaderls/internal/logging"
	"github.com/shaderlang/shaderls/internal/transport"
	"github.com/shaderlang/shaderls/internal/util"
)

// validators maps a Language ID to the external compiler used to
// validate it; fixed at package initialization.
var validators = map[string]Validator{
	"hlsl": NewDXCValidator(),
	"glsl": NewGlslangValidator(),
	"wgsl": NewNagaValidator(),
}

// diagnosing tracks in-flight diagnostic runs per path so a rapid burst
// of didChange notifications doesn't pile up overlapping external
// validator invocations for the same file.
var diagnosing sync.Map // map[util.Path]struct{}

// lastDiagnosedMu guards lastDiagnosed; runDiagnostics runs both off the
// main dispatch loop (didOpen/didChange) and off the watcher goroutine
// (out-of-band edits to a dependency file), so this bookkeeping needs its
// own lock unlike Server's other state.
var lastDiagnosedMu sync.Mutex

// lastDiagnosed records, per compiled path, every file its previous
// validator run published non-empty diagnostics against — the diagnosed
// file's own dependency set, recomputed each run so a file that drops out
// of it (a typo fixed in a header that's no longer reported on) gets its
// diagnostics explicitly cleared rather than left stale.
var lastDiagnosed = map[util.Path][]util.Path{}

// runDiagnostics runs the diagnostic pipeline in order: run the
// validator, rewrite any path it reported relative to its own invocation
// directory back to a canonical workspace path via the include resolver,
// group diagnostics per originating file, filter by configured minimum
// severity, publish per file (clearing any file that dropped out of this
// run's diagnosed set), then reconcile dependents whose own validation
// result could change because path is one of their #include targets.
func (s *Server) runDiagnostics(path util.Path) {
	if _, inFlight := diagnosing.LoadOrStore(path, struct{}{}); inFlight {
		return
	}
	defer diagnosing.Delete(path)

	entry, ok := s.Graph.Get(path)
	if !ok {
		return
	}

	byFile := map[util.Path][]transport.Diagnostic{path: nil}
	if entry.Tree != nil && entry.Tree.HasSyntaxErrors() {
		byFile[path] = append(byFile[path], syntaxErrorDiagnostic(path))
	}

	if s.Config.Validate {
		if v, ok := validators[entry.Lang.ID()]; ok {
			entry.mu.RLock()
			content := entry.Content
			entry.mu.RUnlock()
			result, err := v.Validate(path, content, s.Config)
			if err != nil {
				logging.Logger.Error("validator failed", "path", path, "error", err)
			} else {
				for _, vd := range result {
					target := canonicalizeDiagnosticPath(path, vd.Path, s.Config)
					byFile[target] = append(byFile[target], vd.Diagnostic)
				}
			}
		}
	}

	threshold := s.Config.SeverityThreshold()
	var diagnosed []util.Path
	for file, diags := range byFile {
		diags = filterSeverity(diags, threshold)
		if len(diags) > 0 {
			diagnosed = append(diagnosed, file)
		}
		s.publish(file, diags)
	}

	lastDiagnosedMu.Lock()
	for _, prev := range lastDiagnosed[path] {
		if _, stillMentioned := byFile[prev]; stillMentioned {
			continue
		}
		s.publish(prev, nil)
	}
	lastDiagnosed[path] = diagnosed
	lastDiagnosedMu.Unlock()

	s.reconcileDependents(path)
}

// canonicalizeDiagnosticPath rewrites the raw path a validator reported
// (relative to wherever it resolved the #include from, or already
// absolute) back to the workspace path it names. An empty rawPath (a
// validator with no per-diagnostic path capture, e.g. naga) always means
// the compiled file itself.
func canonicalizeDiagnosticPath(compiledPath, rawPath util.Path, cfg Config) util.Path {
	if rawPath == "" || rawPath == compiledPath {
		return compiledPath
	}
	roots := append([]string{filepath.Dir(compiledPath)}, cfg.Includes...)
	r := include.New(compiledPath, roots)
	if canonical, ok := r.Resolve(rawPath); ok {
		return canonical
	}
	return compiledPath
}

// publish sends one publishDiagnostics notification for file. diags is
// normalized to a non-nil (possibly empty) slice so an empty publish
// reliably clears the client's prior diagnostics for file rather than
// round-tripping through a JSON null.
func (s *Server) publish(file util.Path, diags []transport.Diagnostic) {
	if diags == nil {
		diags = []transport.Diagnostic{}
	}
	if err := s.Transport.WriteNotification("textDocument/publishDiagnostics", transport.PublishDiagnosticsParams{
		URI:         util.Path2URI(file),
		Diagnostics: diags,
	}); err != nil {
		logging.Logger.Error("failed to publish diagnostics", "path", file, "error", err)
	}
}

// reconcileDependents re-validates every open document whose resolved
// Includes mention path, so a fixed typo in a shared header clears
// downstream errors without the client re-sending didChange for every
// file that includes it.
func (s *Server) reconcileDependents(path util.Path) {
	s.Graph.mu.Lock()
	var dependents []util.Path
	for p, e := range s.Graph.entries {
		if !e.isOpen || p == path {
			continue
		}
		for _, dep := range e.Includes {
			if dep == path {
				dependents = append(dependents, p)
				break
			}
		}
	}
	s.Graph.mu.Unlock()

	for _, dep := range dependents {
		s.runDiagnostics(dep)
	}
}

func filterSeverity(diags []transport.Diagnostic, threshold int) []transport.Diagnostic {
	out := diags[:0]
	for _, d := range diags {
		sev := d.Severity
		if sev == 0 {
			sev = transport.SeverityError
		}
		if sev <= threshold {
			out = append(out, d)
		}
	}
	return out
}

func syntaxErrorDiagnostic(path util.Path) transport.Diagnostic {
	return transport.Diagnostic{
		Range:    transport.Range{End: transport.Position{Line: 0, Character: 1}},
		Severity: transport.SeverityError,
		Source:   "shaderls",
		Message:  "syntax error",
	}
}
