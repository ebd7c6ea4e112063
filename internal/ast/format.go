package ast

import (
	"io"
	"strings"
)

// String renders the expression on one line in canonical form, e.g.
// "&'a mut Vec<String>". Parsing the result yields an equal tree.
func (e *TypeExpr) String() string {
	var b strings.Builder
	b.WriteString(e.prefix())
	b.WriteString(e.Type.String())
	b.WriteString(e.suffix())
	return b.String()
}

// prefix renders the reference and impl markers with trailing separators.
func (e *TypeExpr) prefix() string {
	var b strings.Builder
	if e.Reference != "" {
		b.WriteString(e.Reference)
		// "&T" but "&mut T", "&'a T", "*const T"
		if !strings.HasSuffix(e.Reference, "&") {
			b.WriteByte(' ')
		}
	}
	if e.ImplMarker != "" {
		b.WriteString(e.ImplMarker)
		b.WriteByte(' ')
	}
	return b.String()
}

func (e *TypeExpr) suffix() string {
	if e.AsTarget == nil {
		return ""
	}
	return " as " + e.AsTarget.String()
}

func (t *SimpleType) String() string { return t.Name }

func (t *Lifetime) String() string { return t.Name }

func (t *Tuple) String() string {
	if len(t.Elems) == 1 {
		return "(" + t.Elems[0].String() + ",)"
	}
	return "(" + joinExprs(t.Elems) + ")"
}

func (t *GenericType) String() string {
	sep := ""
	if t.Turbofish {
		sep = "::"
	}
	return t.Name + sep + "<" + joinExprs(t.TypeArgs) + ">"
}

func (t *AsType) String() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(t.Source.String())
	if t.Name != "" {
		b.WriteString(" as ")
		b.WriteString(t.Name)
		if len(t.TypeArgs) > 0 {
			b.WriteString("<" + joinExprs(t.TypeArgs) + ">")
		}
	}
	b.WriteString(">::")
	b.WriteString(t.Target.String())
	return b.String()
}

func (t *ClosureType) String() string {
	s := t.Kind + "(" + joinExprs(t.Params) + ")"
	if t.Result != nil {
		s += " -> " + t.Result.String()
	}
	return s
}

func (t *ArrayType) String() string {
	if t.Len == "" {
		return "[" + t.Elem.String() + "]"
	}
	return "[" + t.Elem.String() + "; " + t.Len + "]"
}

func joinExprs(list []*TypeExpr) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// ----------------------------------------------------------------------------
// Pretty printing

// indentWidth is the number of spaces per nesting level in Pretty output.
const indentWidth = 4

// Pretty writes e to w, followed by a newline. Expressions that fit in
// width columns stay on one line; longer ones have their argument lists
// broken one element per line, recursively, until the pieces fit.
func Pretty(w io.Writer, e *TypeExpr, width int) error {
	p := &prettyPrinter{width: width}
	p.expr(e, 0)
	p.b.WriteByte('\n')
	_, err := io.WriteString(w, p.b.String())
	return err
}

type prettyPrinter struct {
	b     strings.Builder
	width int
}

// expr writes e, assuming the current line is indented by indent columns.
func (p *prettyPrinter) expr(e *TypeExpr, indent int) {
	if s := e.String(); indent+len(s) <= p.width {
		p.b.WriteString(s)
		return
	}
	p.b.WriteString(e.prefix())
	p.typ(e.Type, indent)
	p.b.WriteString(e.suffix())
}

func (p *prettyPrinter) typ(t Type, indent int) {
	switch t := t.(type) {
	case *Tuple:
		p.list("(", t.Elems, ")", indent)

	case *GenericType:
		p.b.WriteString(t.Name)
		if t.Turbofish {
			p.b.WriteString("::")
		}
		p.list("<", t.TypeArgs, ">", indent)

	case *AsType:
		p.b.WriteByte('<')
		p.expr(t.Source, indent)
		if t.Name != "" {
			p.b.WriteString(" as ")
			p.b.WriteString(t.Name)
			if len(t.TypeArgs) > 0 {
				p.list("<", t.TypeArgs, ">", indent)
			}
		}
		p.b.WriteString(">::")
		p.b.WriteString(t.Target.String())

	case *ClosureType:
		p.b.WriteString(t.Kind)
		p.list("(", t.Params, ")", indent)
		if t.Result != nil {
			p.b.WriteString(" -> ")
			p.expr(t.Result, indent)
		}

	case *ArrayType:
		p.b.WriteByte('[')
		p.expr(t.Elem, indent)
		if t.Len != "" {
			p.b.WriteString("; ")
			p.b.WriteString(t.Len)
		}
		p.b.WriteByte(']')

	default:
		p.b.WriteString(t.String())
	}
}

// list writes open, one element per line indented one level deeper with a
// trailing comma, and close on its own line.
func (p *prettyPrinter) list(open string, elems []*TypeExpr, close string, indent int) {
	p.b.WriteString(open)
	if len(elems) == 0 {
		p.b.WriteString(close)
		return
	}
	p.b.WriteByte('\n')
	inner := indent + indentWidth
	for _, e := range elems {
		p.b.WriteString(strings.Repeat(" ", inner))
		p.expr(e, inner)
		p.b.WriteString(",\n")
	}
	p.b.WriteString(strings.Repeat(" ", indent))
	p.b.WriteString(close)
}
