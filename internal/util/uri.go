// Package util provides URI/path conversions and canonicalisation shared
// across the document cache, the include resolver and the request handlers.
package util

import (
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// Path is an OS-native absolute path. URI is a file:// scheme URI as sent
// by the editor over LSP. Both are plain strings, using type aliases
// instead of wrapper structs so they interoperate with path/filepath and
// net/url without conversion noise.
type Path = string
type URI = string

// Handle is a file's identity: URI as the editor knows it, Path as the
// canonical key the cache stores it under.
type Handle struct {
	URI  URI
	Path Path
}

// FromPath builds a Handle for a path already known to be canonical.
func FromPath(path Path) Handle {
	return Handle{URI: Path2URI(path), Path: path}
}

// FromURI parses an editor URI into a Handle with a canonicalised path.
func FromURI(uri URI) (Handle, error) {
	path, err := URI2Path(uri)
	if err != nil {
		return Handle{}, err
	}
	path, err = Canonicalize(path)
	if err != nil {
		return Handle{}, err
	}
	return Handle{URI: uri, Path: path}, nil
}

// URI2Path converts a file:// URI to a native path.
func URI2Path(uri URI) (Path, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	p := u.Path
	if isWindowsDriveURIPath(p) {
		p = strings.ToUpper(string(p[1])) + p[2:]
	}
	return filepath.FromSlash(p), nil
}

// Path2URI converts a native path to a file:// URI.
func Path2URI(path Path) URI {
	p := path
	if runtime.GOOS == "windows" {
		p = "/" + strings.ReplaceAll(p, "\\", "/")
	}
	return "file://" + p
}

func isWindowsDriveURIPath(uri string) bool {
	if len(uri) < 4 {
		return false
	}
	return uri[0] == '/' && unicode.IsLetter(rune(uri[1])) && uri[2] == ':'
}

// longPathPrefix is the verbatim long-path prefix Windows prepends to some
// absolute paths (\\?\C:\...). It has to be stripped before using a path
// as a map key, since the same file can otherwise appear under two keys.
const longPathPrefix = `\\?\`

// Canonicalize resolves a path to its canonical form: relative paths are
// anchored to the working directory, `.`/`..` segments are walked
// token-by-token, symlinks are resolved iteratively to a fixed point, and
// the Windows long-path prefix is stripped. Implemented without
// filepath.EvalSymlinks so the walk stays explicit and portable, the same
// way the include resolver walks its own directory stack.
func Canonicalize(path Path) (Path, error) {
	p := strings.TrimPrefix(path, longPathPrefix)

	if !filepath.IsAbs(p) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		p = filepath.Join(cwd, p)
	}

	p = cleanSegments(p)

	for i := 0; i < 32; i++ {
		resolved, err := os.Readlink(p)
		if err != nil {
			// Not a symlink (or doesn't exist yet); fixed point reached.
			break
		}
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(filepath.Dir(p), resolved)
		}
		next := cleanSegments(resolved)
		if next == p {
			break
		}
		p = next
	}

	return strings.TrimPrefix(p, longPathPrefix), nil
}

// cleanSegments walks path segments token-by-token, popping on `..` and
// dropping `.`, without touching the filesystem. filepath.Clean does the
// same job on POSIX-style separators; this stays explicit about the
// `..`/`.` handling so the behaviour is self-evident rather than borrowed
// incidentally from filepath.Clean's semantics.
func cleanSegments(path Path) Path {
	volume := filepath.VolumeName(path)
	rest := path[len(volume):]
	sep := string(filepath.Separator)
	parts := strings.Split(rest, sep)

	stack := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 && stack[len(stack)-1] != ".." {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, part)
		}
	}
	return volume + sep + strings.Join(stack, sep)
}

// IsValidPath reports whether path names a file that exists on disk.
func IsValidPath(path Path) bool {
	_, err := os.Stat(path)
	return err == nil
}
