// Package batch checks files of type expressions, one expression per line.
package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/you-not-fish/tyexpr/internal/ast"
	"github.com/you-not-fish/tyexpr/internal/render"
	"github.com/you-not-fish/tyexpr/internal/syntax"
	"github.com/you-not-fish/tyexpr/internal/transform"
)

// Options configures a batch check.
type Options struct {
	Jobs     int          // parallel parses; <= 0 means runtime.NumCPU()
	MaxDepth int          // passed to transform.Options
	Logger   *slog.Logger // nil discards log output
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Result is the outcome for one line.
type Result struct {
	Line   int    // 1-based line number
	Source string // line text
	Expr   *ast.TypeExpr
	Err    error
}

// Col returns the 1-based column of the error within the line, or 0 if
// the result is not an error.
func (r Result) Col() int {
	var se *syntax.SyntaxError
	var te *transform.Error
	var ie *transform.InternalError
	switch {
	case r.Err == nil:
		return 0
	case errors.As(r.Err, &se):
		return int(se.Pos.Col())
	case errors.As(r.Err, &te):
		return int(te.Span.Pos.Col())
	case errors.As(r.Err, &ie):
		return int(ie.Span.Pos.Col())
	}
	return 1
}

// Message returns the error text without its leading position.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	msg := r.Err.Error()
	prefix := fmt.Sprintf("1:%d: ", r.Col())
	return strings.TrimPrefix(msg, prefix)
}

// Check parses every line of r that is neither blank nor a # comment.
// Lines are parsed in parallel; results are in line order.
func Check(ctx context.Context, r io.Reader, opts Options) ([]Result, error) {
	var results []Result
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if s := strings.TrimSpace(line); s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		results = append(results, Result{Line: n, Source: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	log := opts.logger()
	log.Debug("checking expressions", "count", len(results), "jobs", jobs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := &results[i]
			res.Expr, res.Err = transform.Parse(res.Source, transform.Options{MaxDepth: opts.MaxDepth})
			log.Debug("checked", "line", res.Line, "ok", res.Err == nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CheckFile runs Check on the named file.
func CheckFile(ctx context.Context, path string, opts Options) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	results, err := Check(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return results, nil
}

// Report writes one line per result followed by a summary, e.g.
//
//	types.txt:3: ok Vec<String>
//	types.txt:4:5: expected type, found EOF
//	2 expressions, 1 failed
//
// and returns the number of failed results.
func Report(w io.Writer, file string, results []Result, st render.Styles) (failed int, err error) {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(bw, "%s:%d:%d: %s\n", file, r.Line, r.Col(), st.Error.Render(r.Message()))
			continue
		}
		fmt.Fprintf(bw, "%s:%d: %s %s\n", file, r.Line, st.OK.Render("ok"), r.Expr)
	}
	fmt.Fprintf(bw, "%d expressions, %d failed\n", len(results), failed)
	return failed, bw.Flush()
}
