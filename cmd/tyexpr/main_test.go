package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/tyexpr/internal/config"
)

func TestRunPrintsAST(t *testing.T) {
	isolateConfig(t)
	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"--color", "never", "Vec<u8>"})
	})

	if code != 0 {
		t.Fatalf("run exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
	want := `TypeExpr:'Vec<u8>'
|   GenericType:'Vec'
|   |   TypeExpr:'u8'
|   |   |   SimpleType:'u8'
`
	if out != want {
		t.Fatalf("AST output:\n%s\nwant:\n%s", out, want)
	}
}

func TestRunPrintsParseTree(t *testing.T) {
	isolateConfig(t)
	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"--tree", "--color", "never", "Vec<u8>"})
	})

	if code != 0 {
		t.Fatalf("run exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	want := `type_expr:'Vec<u8>'
|   regular_type:'Vec<u8>'
|   |   typename:'Vec'
|   |   generics:'<u8>'
|   |   |   type_expr:'u8'
|   |   |   |   regular_type:'u8'
|   |   |   |   |   typename:'u8'
`
	if out != want {
		t.Fatalf("parse tree output:\n%s\nwant:\n%s", out, want)
	}
}

func TestRunFormats(t *testing.T) {
	isolateConfig(t)
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"-f", "json", "&str"}, []string{`"reference": "&"`, `"kind": "simple"`, `"name": "str"`}},
		{[]string{"-f", "yaml", "(A, B)"}, []string{"kind: tuple", "original: (A, B)"}},
		{[]string{"-f", "pretty", "-w", "12", "HashMap<String, Vec<u8>>"}, []string{"HashMap<\n    String,\n    Vec<u8>,\n>\n"}},
		{[]string{"-f", "pretty", "HashMap<String,Vec<u8>>"}, []string{"HashMap<String, Vec<u8>>\n"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			code, out, errOut := captureOutput(t, func() int { return run(tt.args) })
			if code != 0 {
				t.Fatalf("run exit=%d\nstderr:\n%s", code, errOut)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestRunReportsSyntaxError(t *testing.T) {
	isolateConfig(t)
	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"Vec<"})
	})

	if code != 1 {
		t.Fatalf("run exit=%d, want 1", code)
	}
	if out != "" {
		t.Fatalf("unexpected stdout:\n%s", out)
	}
	want := "tyexpr: 1:5: expected type, found EOF\n  Vec<\n      ^\n"
	if errOut != want {
		t.Fatalf("stderr:\n%q\nwant:\n%q", errOut, want)
	}
}

func TestRunReportsLexicalErrorColumn(t *testing.T) {
	isolateConfig(t)
	code, _, errOut := captureOutput(t, func() int {
		return run([]string{"Vec:String"})
	})

	if code != 1 {
		t.Fatalf("run exit=%d, want 1", code)
	}
	want := "tyexpr: 1:4: unexpected character ':' (did you mean '::'?)\n  Vec:String\n     ^\n"
	if errOut != want {
		t.Fatalf("stderr:\n%q\nwant:\n%q", errOut, want)
	}
}

// Types named like a subcommand are parsed when given after --.
func TestRunTypeNamedLikeSubcommand(t *testing.T) {
	isolateConfig(t)
	for _, name := range []string{"version", "check"} {
		code, out, errOut := captureOutput(t, func() int {
			return run([]string{"--color", "never", "--", name})
		})
		if code != 0 {
			t.Fatalf("%s: run exit=%d\nstderr:\n%s", name, code, errOut)
		}
		want := "TypeExpr:'" + name + "'\n|   SimpleType:'" + name + "'\n"
		if out != want {
			t.Errorf("%s: output %q, want %q", name, out, want)
		}
	}
}

func TestRunMaxDepth(t *testing.T) {
	isolateConfig(t)
	code, _, errOut := captureOutput(t, func() int {
		return run([]string{"--max-depth", "2", "Vec<Vec<u8>>"})
	})

	if code != 1 {
		t.Fatalf("run exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "maximum depth 2") {
		t.Fatalf("stderr missing depth error:\n%s", errOut)
	}
}

func TestRunUsageErrors(t *testing.T) {
	isolateConfig(t)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{}, "accepts 1 arg(s), received 0"},
		{[]string{"-f", "xml", "u8"}, `invalid output.format "xml"`},
		{[]string{"--color", "sometimes", "u8"}, `invalid output.color "sometimes"`},
		{[]string{"--max-depth", "0", "u8"}, "max_depth must be positive"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			code, _, errOut := captureOutput(t, func() int { return run(tt.args) })
			if code != 1 {
				t.Fatalf("run exit=%d, want 1", code)
			}
			if !strings.HasPrefix(errOut, "tyexpr: ") || !strings.Contains(errOut, tt.want) {
				t.Fatalf("stderr = %q, want message containing %q", errOut, tt.want)
			}
		})
	}
}

func TestRunConfigFile(t *testing.T) {
	isolateConfig(t)
	cfg := writeTempFile(t, "tyexpr.toml", `
[output]
format = "pretty"
width = 10
`)

	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"--config", cfg, "Vec<(A, B)>"})
	})
	if code != 0 {
		t.Fatalf("run exit=%d\nstderr:\n%s", code, errOut)
	}
	if want := "Vec<\n    (A, B),\n>\n"; out != want {
		t.Fatalf("output %q, want %q", out, want)
	}

	// Flags set on the command line win over the file.
	code, out, errOut = captureOutput(t, func() int {
		return run([]string{"--config", cfg, "-w", "80", "Vec<(A, B)>"})
	})
	if code != 0 {
		t.Fatalf("run exit=%d\nstderr:\n%s", code, errOut)
	}
	if want := "Vec<(A, B)>\n"; out != want {
		t.Fatalf("output %q, want %q", out, want)
	}
}

func TestRunConfigFromEnv(t *testing.T) {
	isolateConfig(t)
	cfg := writeTempFile(t, "tyexpr.yaml", "output:\n  format: json\n")
	t.Setenv(config.EnvVar, cfg)

	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"u8"})
	})
	if code != 0 {
		t.Fatalf("run exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, `"kind": "simple"`) {
		t.Fatalf("expected JSON output:\n%s", out)
	}
}

func TestRunVersionConstraint(t *testing.T) {
	isolateConfig(t)
	cfg := writeTempFile(t, "tyexpr.toml", `requires = ">= 99"`)

	code, _, errOut := captureOutput(t, func() int {
		return run([]string{"--config", cfg, "u8"})
	})
	if code != 1 {
		t.Fatalf("run exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, `does not satisfy requires ">= 99"`) {
		t.Fatalf("stderr missing version error:\n%s", errOut)
	}
}

func TestRunVerboseLogs(t *testing.T) {
	isolateConfig(t)
	code, _, errOut := captureOutput(t, func() int {
		return run([]string{"-v", "--color", "never", "Vec<u8>"})
	})
	if code != 0 {
		t.Fatalf("run exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(errOut, "msg=parsed exprs=2 depth=2") {
		t.Fatalf("stderr missing debug record:\n%s", errOut)
	}
}

func TestCheckCommand(t *testing.T) {
	isolateConfig(t)
	file := writeTempFile(t, "types.txt", "# sample\nString\nVec<\n&'a mut [u8; 4]\n")

	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"check", "--color", "never", "-j", "2", file})
	})
	if code != 1 {
		t.Fatalf("check exit=%d, want 1\nstderr:\n%s", code, errOut)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
	want := file + ":2: ok String\n" +
		file + ":3:5: expected type, found EOF\n" +
		file + ":4: ok &'a mut [u8; 4]\n" +
		"3 expressions, 1 failed\n"
	if out != want {
		t.Fatalf("check output:\n%s\nwant:\n%s", out, want)
	}
}

func TestCheckCommandPasses(t *testing.T) {
	isolateConfig(t)
	file := writeTempFile(t, "types.txt", "u8\n<T as Iterator>::Item\n")

	code, out, errOut := captureOutput(t, func() int {
		return run([]string{"check", file})
	})
	if code != 0 {
		t.Fatalf("check exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.HasSuffix(out, "2 expressions, 0 failed\n") {
		t.Fatalf("check output:\n%s", out)
	}
}

func TestCheckCommandMissingFile(t *testing.T) {
	isolateConfig(t)
	code, _, errOut := captureOutput(t, func() int {
		return run([]string{"check", filepath.Join(t.TempDir(), "none.txt")})
	})
	if code != 1 {
		t.Fatalf("check exit=%d, want 1", code)
	}
	if !strings.HasPrefix(errOut, "tyexpr: ") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := captureOutput(t, func() int {
		return run([]string{"--version"})
	})
	if code != 0 || out != "tyexpr version "+Version+"\n" {
		t.Fatalf("--version exit=%d output %q", code, out)
	}

	code, out, _ = captureOutput(t, func() int {
		return run([]string{"version"})
	})
	if code != 0 || !strings.HasPrefix(out, "tyexpr v"+Version+"\n") {
		t.Fatalf("version exit=%d output %q", code, out)
	}
	if !strings.Contains(out, "Go Version:") {
		t.Fatalf("version output missing Go version:\n%s", out)
	}
}

func TestCaret(t *testing.T) {
	tests := []struct {
		src    string
		offset int
		want   string
	}{
		{"Vec<", 4, "  Vec<\n      ^\n"},
		{"u8", 0, "  u8\n  ^\n"},
		{"\tVec<", 5, "  \tVec<\n  \t    ^\n"},
		{"Vec<\n", 5, ""},
		{"u8", 3, ""},
	}
	for _, tt := range tests {
		if got := caret(tt.src, tt.offset); got != tt.want {
			t.Errorf("caret(%q, %d) = %q, want %q", tt.src, tt.offset, got, tt.want)
		}
	}
}

// isolateConfig keeps config files from the environment and the working
// directory out of the test.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	t.Chdir(t.TempDir())
}

func writeTempFile(t *testing.T, name, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
