// Package logging provides the server's single shared structured logger.
package logging

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the global logger instance, initialized by Init.
var Logger *slog.Logger

var logPath string

// Init opens the log file for this process and installs Logger.
// Shader editors launch the server with stdout wired to the protocol
// stream, so log output goes to a file; only if that file cannot be
// opened does it go to stderr instead.
func Init() {
	logPath = filepath.Join(os.TempDir(), "shaderls-log.txt")

	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		// Fall back to stderr rather than crashing the server over logging.
		Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		Logger.Error("couldn't open log file, falling back to stderr", "path", logPath, "error", err)
		return
	}

	Logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Path returns the current log file path, mainly for diagnostics.
func Path() string {
	return logPath
}
