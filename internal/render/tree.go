package render

import (
	"io"
	"strings"

	"github.com/you-not-fish/tyexpr/internal/ast"
	"github.com/you-not-fish/tyexpr/internal/syntax"
)

// DefaultIndent is printed once per nesting level.
const DefaultIndent = "|   "

// Options control tree printing.
type Options struct {
	Color  ColorMode // default ColorAuto
	Indent string    // default DefaultIndent
}

// FprintCST writes the parse tree rooted at n to w, one node per line:
// the rule name followed by the node text, e.g.
//
//	type_expr:'Vec<u8>'
//	|   regular_type:'Vec<u8>'
//	|   |   typename:'Vec'
func FprintCST(w io.Writer, n *syntax.Node, opts Options) error {
	p := newPrinter(w, opts)
	n.Walk(func(n *syntax.Node, depth int) bool {
		p.indent = depth
		p.line(n.Rule.String(), n.Trimmed())
		return p.err == nil
	})
	return p.err
}

// FprintAST writes the type expression e to w in the same layout as
// FprintCST, labelling nodes with their AST types.
func FprintAST(w io.Writer, e *ast.TypeExpr, opts Options) error {
	p := newPrinter(w, opts)
	p.expr(e)
	return p.err
}

type printer struct {
	w      io.Writer
	st     Styles
	tab    string
	indent int
	err    error
}

func newPrinter(w io.Writer, opts Options) *printer {
	if opts.Color == "" {
		opts.Color = ColorAuto
	}
	if opts.Indent == "" {
		opts.Indent = DefaultIndent
	}
	return &printer{w: w, st: NewStyles(w, opts.Color), tab: opts.Indent}
}

// line writes one node. The first write error is kept; later lines are
// dropped.
func (p *printer) line(label, text string) {
	if p.err != nil {
		return
	}
	var b strings.Builder
	if p.indent > 0 {
		b.WriteString(p.st.Indent.Render(strings.Repeat(p.tab, p.indent)))
	}
	b.WriteString(p.st.Label.Render(label))
	b.WriteString(":'")
	b.WriteString(text)
	b.WriteString("'\n")
	_, p.err = io.WriteString(p.w, b.String())
}

func (p *printer) expr(e *ast.TypeExpr) {
	p.line("TypeExpr", trimLines(e.Original))
	p.indent++
	if e.Reference != "" {
		p.line("reference", e.Reference)
	}
	if e.ImplMarker != "" {
		p.line("impl", e.ImplMarker)
	}
	p.typ(e.Type)
	if e.AsTarget != nil {
		p.line("as", e.AsTarget.String())
		p.indent++
		p.typ(e.AsTarget)
		p.indent--
	}
	p.indent--
}

func (p *printer) typ(t ast.Type) {
	switch t := t.(type) {
	case *ast.SimpleType:
		p.line("SimpleType", t.Name)

	case *ast.Lifetime:
		p.line("Lifetime", t.Name)

	case *ast.Tuple:
		p.line("Tuple", t.String())
		p.list(t.Elems)

	case *ast.GenericType:
		name := t.Name
		if t.Turbofish {
			name += "::"
		}
		p.line("GenericType", name)
		p.list(t.TypeArgs)

	case *ast.AsType:
		p.line("AsType", t.Name)
		p.indent++
		p.expr(t.Source)
		for _, a := range t.TypeArgs {
			p.expr(a)
		}
		p.line("item", t.Target.String())
		p.indent++
		p.expr(t.Target)
		p.indent -= 2

	case *ast.ClosureType:
		p.line("ClosureType", t.Kind)
		p.list(t.Params)
		if t.Result != nil {
			p.indent++
			p.line("returns", t.Result.String())
			p.indent++
			p.expr(t.Result)
			p.indent -= 2
		}

	case *ast.ArrayType:
		p.line("ArrayType", t.Len)
		p.indent++
		p.expr(t.Elem)
		p.indent--
	}
}

func (p *printer) list(list []*ast.TypeExpr) {
	p.indent++
	for _, e := range list {
		p.expr(e)
	}
	p.indent--
}

// trimLines trims every line of s and joins them.
func trimLines(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		b.WriteString(strings.TrimSpace(line))
	}
	return b.String()
}
