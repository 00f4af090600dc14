package util

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestPath2URIRoundTrip(t *testing.T) {
	path := "/tmp/shader.glsl"
	if runtime.GOOS == "windows" {
		t.Skip("path fixture is POSIX-specific")
	}
	uri := Path2URI(path)
	got, err := URI2Path(uri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("got %q, want %q", got, path)
	}
}

func TestCanonicalizeCleansDotSegments(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "sub", "file.glsl")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	messy := filepath.Join(dir, "sub", "..", "sub", ".", "file.glsl")
	got, err := Canonicalize(messy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != target {
		t.Errorf("got %q, want %q", got, target)
	}
}

func TestCanonicalizeResolvesSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs elevated privileges on windows")
	}
	dir := t.TempDir()
	real := filepath.Join(dir, "real.glsl")
	if err := os.WriteFile(real, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	link := filepath.Join(dir, "link.glsl")
	if err := os.Symlink(real, link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	got, err := Canonicalize(link)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != real {
		t.Errorf("got %q, want %q", got, real)
	}
}

func TestIsValidPath(t *testing.T) {
	dir := t.TempDir()
	exists := filepath.Join(dir, "exists.glsl")
	if err := os.WriteFile(exists, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !IsValidPath(exists) {
		t.Error("expected existing file to be valid")
	}
	if IsValidPath(filepath.Join(dir, "missing.glsl")) {
		t.Error("expected missing file to be invalid")
	}
}
