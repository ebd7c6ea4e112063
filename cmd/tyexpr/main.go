// Package main implements the tyexpr command, which parses Rust type
// expressions and prints their structure.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/tyexpr/internal/ast"
	"github.com/you-not-fish/tyexpr/internal/config"
	"github.com/you-not-fish/tyexpr/internal/render"
	"github.com/you-not-fish/tyexpr/internal/syntax"
	"github.com/you-not-fish/tyexpr/internal/transform"
)

// Version information
var (
	Version   = "0.1.0"
	GitCommit = "development"
)

// errFailed ends a command with exit status 1 after it has reported
// its own failures.
var errFailed = errors.New("failed")

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line args and returns the exit status.
func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, errFailed) {
		printError(cmd.ErrOrStderr(), err)
	}
	return 1
}

// rootOptions holds the flag values shared by all commands.
type rootOptions struct {
	tree     bool
	format   string
	color    string
	width    int
	maxDepth int
	cfgFile  string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "tyexpr [flags] <type>",
		Short: "Parse Rust type expressions",
		Long: `tyexpr parses a Rust type expression and prints its structure.

By default the abstract syntax tree is printed as an indented tree.
--tree prints the raw parse tree instead, and --format selects pretty
printed source, JSON or YAML output.

A type named like a subcommand is given after --, as in
tyexpr -- version.

Examples:
  tyexpr 'Vec<String>'
  tyexpr --tree '&mut [u8; 4]'
  tyexpr -f json '<T as Iterator>::Item'
  tyexpr check types.txt`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.parse(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.BoolVar(&o.tree, "tree", false, "print the raw parse tree")
	f.StringVarP(&o.format, "format", "f", def.Output.Format, "output format: "+strings.Join(config.Formats, ", "))
	f.IntVarP(&o.width, "width", "w", def.Output.Width, "line width for pretty output")

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.color, "color", def.Output.Color, "colorize output: "+strings.Join(config.ColorModes, ", "))
	pf.IntVar(&o.maxDepth, "max-depth", def.MaxDepth, "maximum type nesting depth")
	pf.StringVar(&o.cfgFile, "config", "", "config file (default: $"+config.EnvVar+", ./.tyexpr.toml or ./.tyexpr.yaml)")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newCheckCmd(o), newVersionCmd())
	return cmd
}

// setup loads the configuration, applies the flags that were set on the
// command line and returns the logger for the command.
func (o *rootOptions) setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	log := newLogger(cmd.ErrOrStderr(), o.verbose)

	cfg, path, err := config.Resolve(o.cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if path != "" {
		log.Debug("loaded config", "path", path)
	}
	if err := cfg.CheckVersion(Version); err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = o.format
	}
	if flags.Changed("width") {
		cfg.Output.Width = o.width
	}
	if flags.Changed("color") {
		cfg.Output.Color = o.color
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = o.maxDepth
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, log, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) parse(cmd *cobra.Command, src string) error {
	cfg, log, err := o.setup(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	topts := render.Options{Color: render.ColorMode(cfg.Output.Color), Indent: cfg.Output.Indent}

	if o.tree {
		p := syntax.NewParser("", strings.NewReader(src))
		p.SetMaxDepth(cfg.MaxDepth)
		root, err := p.Parse()
		if err != nil {
			return inputError(src, err)
		}
		return render.FprintCST(out, root.Child(0), topts)
	}

	te, err := transform.Parse(src, transform.Options{MaxDepth: cfg.MaxDepth})
	if err != nil {
		return inputError(src, err)
	}
	exprs, depth := ast.Measure(te)
	log.Debug("parsed", "exprs", exprs, "depth", depth, "format", cfg.Output.Format)

	switch cfg.Output.Format {
	case "pretty":
		return ast.Pretty(out, te, cfg.Output.Width)
	case "json":
		return ast.FprintJSON(out, te)
	case "yaml":
		return ast.FprintYAML(out, te)
	}
	return render.FprintAST(out, te, topts)
}

// parseError is an error located in the command line input.
type parseError struct {
	src    string
	offset int
	err    error
}

func (e *parseError) Error() string { return e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

// inputError attaches src and the error offset to err when the error
// is located.
func inputError(src string, err error) error {
	var se *syntax.SyntaxError
	var te *transform.Error
	switch {
	case errors.As(err, &se):
		return &parseError{src: src, offset: se.Offset, err: err}
	case errors.As(err, &te):
		return &parseError{src: src, offset: te.Span.Start, err: err}
	}
	return err
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "tyexpr: %v\n", err)
	var pe *parseError
	if errors.As(err, &pe) {
		fmt.Fprint(w, caret(pe.src, pe.offset))
	}
}

// caret renders src with a marker under the byte at offset. Multi-line
// input is not marked.
func caret(src string, offset int) string {
	if strings.Contains(src, "\n") || offset < 0 || offset > len(src) {
		return ""
	}
	pad := []byte(src[:offset])
	for i, c := range pad {
		if c != '\t' {
			pad[i] = ' '
		}
	}
	return "  " + src + "\n  " + string(pad) + "^\n"
}
