package langserver

import (
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/shaderlang/shaderls/internal/transport"
)

// Validator runs an external compiler/validator over a document and
// returns its diagnostics (dxc for HLSL, glslang for GLSL, naga for
// WGSL). Shells out to one binary per language and parses its stderr
// with a regex; generalized into one reusable ExternalValidator shape
// with a per-tool argument builder and output parser, rather than three
// copy-pasted exec.Command call sites.
type Validator interface {
	Validate(path string, content []byte, cfg Config) ([]ValidatedDiagnostic, error)
}

// ValidatedDiagnostic pairs a diagnostic with the path the validator
// reported it against. Path is the raw text the tool printed (absolute,
// or relative to whatever directory it resolved the #include from) —
// the diagnostic orchestrator, not this package, is responsible for
// rewriting it to a canonical workspace path. An empty Path means the
// validator gave none, which the orchestrator treats as the compiled
// file itself.
type ValidatedDiagnostic struct {
	Path       string
	Diagnostic transport.Diagnostic
}

// ExternalValidator shells out to command with the arguments buildArgs
// returns for path, and parses every diagnostic line in its stderr with
// parseLine. The content argument of Validate is not passed to the tool:
// it compiles the file as saved on disk, not the unsaved editor text.
type ExternalValidator struct {
	Command   string
	BuildArgs func(path string, cfg Config) []string
	ParseLine func(line string) (path string, diag transport.Diagnostic, ok bool)
}

func (v ExternalValidator) Validate(path string, content []byte, cfg Config) ([]ValidatedDiagnostic, error) {
	cmd := exec.Command(v.Command, v.BuildArgs(path, cfg)...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	_ = cmd.Run() // a validator failing to compile is the expected path, not an internal error

	var diags []ValidatedDiagnostic
	for _, line := range strings.Split(stderr.String(), "\n") {
		if line == "" {
			continue
		}
		if p, d, ok := v.ParseLine(line); ok {
			diags = append(diags, ValidatedDiagnostic{Path: p, Diagnostic: d})
		}
	}
	return diags, nil
}

// dxcLinePattern matches DXC's "path:line:col: severity: message" shape.
var dxcLinePattern = regexp.MustCompile(`^(.+):(\d+):(\d+):\s*(error|warning)\s*:\s*(.*)$`)

// NewDXCValidator builds a Validator for HLSL, invoking dxc against a
// library target profile (lib_<shaderModel>) so validation doesn't
// require a full pipeline state/entry point.
func NewDXCValidator() Validator {
	return ExternalValidator{
		Command: "dxc",
		BuildArgs: func(path string, cfg Config) []string {
			args := []string{"-T", "lib_" + cfg.HLSL.ShaderModel, path}
			if cfg.HLSL.Enable16BitTypes {
				args = append(args, "-enable-16bit-types")
			}
			return args
		},
		ParseLine: func(line string) (string, transport.Diagnostic, bool) {
			m := dxcLinePattern.FindStringSubmatch(line)
			if m == nil {
				return "", transport.Diagnostic{}, false
			}
			lineNum, _ := strconv.Atoi(m[2])
			col, _ := strconv.Atoi(m[3])
			sev := transport.SeverityError
			if m[4] == "warning" {
				sev = transport.SeverityWarning
			}
			return m[1], transport.Diagnostic{
				Range: transport.Range{
					Start: transport.Position{Line: uint32(max0(lineNum - 1)), Character: uint32(max0(col - 1))},
					End:   transport.Position{Line: uint32(max0(lineNum - 1)), Character: uint32(col + 40)},
				},
				Severity: sev,
				Source:   "dxc",
				Message:  m[5],
			}, true
		},
	}
}

// glslangLinePattern matches glslang's "severity: path:line: message".
var glslangLinePattern = regexp.MustCompile(`^(ERROR|WARNING):\s*(.+):(\d+):\s*(.*)$`)

// NewGlslangValidator builds a Validator for GLSL using glslangValidator.
func NewGlslangValidator() Validator {
	return ExternalValidator{
		Command: "glslangValidator",
		BuildArgs: func(path string, cfg Config) []string {
			return []string{"-S", "frag", path}
		},
		ParseLine: func(line string) (string, transport.Diagnostic, bool) {
			m := glslangLinePattern.FindStringSubmatch(line)
			if m == nil {
				return "", transport.Diagnostic{}, false
			}
			lineNum, _ := strconv.Atoi(m[3])
			sev := transport.SeverityError
			if m[1] == "WARNING" {
				sev = transport.SeverityWarning
			}
			return m[2], transport.Diagnostic{
				Range: transport.Range{
					Start: transport.Position{Line: uint32(max0(lineNum - 1)), Character: 0},
					End:   transport.Position{Line: uint32(max0(lineNum - 1)), Character: 2147483647},
				},
				Severity: sev,
				Source:   "glslang",
				Message:  m[4],
			}, true
		},
	}
}

// NewNagaValidator builds a Validator for WGSL using naga's CLI, which
// reports "error: message" with a caret-pointed span on the next lines;
// this keeps only the message line, forgoing precise span recovery —
// acceptable since internal/lang/wgsl carries no grammar to cross-check
// the reported span against anyway.
func NewNagaValidator() Validator {
	return ExternalValidator{
		Command: "naga",
		BuildArgs: func(path string, cfg Config) []string {
			return []string{path}
		},
		ParseLine: func(line string) (string, transport.Diagnostic, bool) {
			if !strings.HasPrefix(line, "error: ") {
				return "", transport.Diagnostic{}, false
			}
			return "", transport.Diagnostic{
				Severity: transport.SeverityError,
				Source:   "naga",
				Message:  strings.TrimPrefix(line, "error: "),
			}, true
		},
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
