package langserver

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/shaderlang/shaderls/internal/logging"
	"github.com/shaderlang/shaderls/internal/util"
)

// Watcher mirrors disk changes to include-only files back into the File
// Cache. A dependency pulled in through #include was never opened by the
// client, so no didChange notification will ever arrive for it — without
// this, editing a shared header in another tool would leave dependents'
// diagnostics stale until the client happened to re-save.
type Watcher struct {
	fs    *fsnotify.Watcher
	graph *Graph
}

func NewWatcher(graph *Graph) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{fs: fs, graph: graph}, nil
}

// Add starts watching the directory containing path. fsnotify watches
// directories rather than individual files; adding the same directory
// twice for two dependencies that share it is harmless.
func (w *Watcher) Add(path util.Path) {
	if err := w.fs.Add(filepath.Dir(path)); err != nil {
		logging.Logger.Warn("failed to watch include directory", "path", path, "error", err)
	}
}

// Run drains filesystem events until the watcher is closed, re-reading
// and re-diagnosing any cached dependency file written to from outside
// the editor. It lives on its own goroutine: disk events arrive
// asynchronously, unlike every other handler in this package, which runs
// strictly serially off server.go's dispatch loop.
func (w *Watcher) Run(s *Server) {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			w.handleWrite(s, event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logging.Logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleWrite(s *Server, path string) {
	entry, found := w.graph.Get(path)
	if !found {
		return
	}
	entry.mu.RLock()
	open := entry.isOpen
	entry.mu.RUnlock()
	if open {
		return // the client owns this file's content via didChange
	}

	content, ok := ReadDiskFallback(path)
	if !ok {
		return
	}
	w.graph.Update(path, content)
	s.runDiagnostics(path)
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
