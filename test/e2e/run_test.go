package e2e

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/tyexpr/internal/render"
	"github.com/you-not-fish/tyexpr/internal/syntax"
	"github.com/you-not-fish/tyexpr/internal/transform"
)

var update = flag.Bool("update", false, "rewrite .golden files with the current output")

// TestE2E runs end-to-end tests for all .ty files in testdata/.
// Each test:
//  1. Runs the full pipeline: scan → parse → transform
//  2. Prints the AST tree and the canonical form, or the error
//  3. Parses the canonical form again and checks it is stable
//  4. Compares output against the .golden file
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.ty")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .ty test files found in testdata/")
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".ty")
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, testFile)
		})
	}
}

// runE2ETest runs a single end-to-end test.
func runE2ETest(t *testing.T, tyFile string) {
	t.Helper()

	got := process(t, tyFile)

	goldenFile := strings.TrimSuffix(tyFile, ".ty") + ".golden"
	if *update {
		if err := os.WriteFile(goldenFile, []byte(got), 0o644); err != nil {
			t.Fatalf("writing golden file: %v", err)
		}
		return
	}
	expected, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}

	if want := string(expected); got != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// process runs the pipeline on tyFile in-process and returns its output.
func process(t *testing.T, tyFile string) string {
	t.Helper()

	data, err := os.ReadFile(tyFile)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	src := strings.TrimSpace(string(data))

	p := syntax.NewParser(filepath.Base(tyFile), strings.NewReader(src))
	root, err := p.Parse()
	if err != nil {
		return "error: " + err.Error() + "\n"
	}
	te, err := transform.NewTransformer(transform.Options{}).ParseRoot(root)
	if err != nil {
		return "error: " + err.Error() + "\n"
	}

	var buf bytes.Buffer
	if err := render.FprintAST(&buf, te, render.Options{Color: render.ColorNever}); err != nil {
		t.Fatalf("render: %v", err)
	}
	canon := te.String()
	buf.WriteString("=> " + canon + "\n")

	again, err := transform.Parse(canon, transform.Options{})
	if err != nil {
		t.Fatalf("canonical form %q does not parse: %v", canon, err)
	}
	if s := again.String(); s != canon {
		t.Errorf("canonical form is not stable: %q reparses as %q", canon, s)
	}
	return buf.String()
}
