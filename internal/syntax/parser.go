package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultMaxDepth bounds how deeply type expressions may nest.
const DefaultMaxDepth = 128

// SyntaxError represents a syntax error. Either Msg is set, or the error
// lists the tokens or constructs that were Expected and what was Found.
type SyntaxError struct {
	Pos      Pos
	Offset   int // byte offset of the offending token
	Expected []string
	Found    string
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Msg != "" {
		return e.Pos.String() + ": " + e.Msg
	}
	return fmt.Sprintf("%s: expected %s, found %s", e.Pos, joinAlternatives(e.Expected), e.Found)
}

// joinAlternatives renders ["a", "b", "c"] as "a, b or c".
func joinAlternatives(alts []string) string {
	switch len(alts) {
	case 0:
		return "nothing"
	case 1:
		return alts[0]
	}
	return strings.Join(alts[:len(alts)-1], ", ") + " or " + alts[len(alts)-1]
}

// bailout is used to unwind the parser on the first error.
type bailout struct{ err *SyntaxError }

// Parser builds a concrete parse tree for a single type expression.
// The first error aborts the parse.
type Parser struct {
	scanner *Scanner

	// Current token info (cached from scanner)
	tok   Token
	lit   string
	pos   Pos
	start int // byte offset of the current token
	end   int // byte offset just past the current token

	prevEnd int // end offset of the last consumed token

	lexErr *SyntaxError // first lexical error

	depth    int
	maxDepth int
}

// NewParser creates a new Parser for the given source.
func NewParser(filename string, src io.Reader) *Parser {
	p := &Parser{maxDepth: DefaultMaxDepth}
	errh := func(line, col uint32, offs int, msg string) {
		if p.lexErr == nil {
			p.lexErr = &SyntaxError{Pos: NewPos(filename, line, col), Offset: offs, Msg: msg}
		}
	}
	p.scanner = NewScanner(filename, src, errh)
	return p
}

// SetMaxDepth sets the maximum type nesting depth. Values <= 0 restore
// DefaultMaxDepth.
func (p *Parser) SetMaxDepth(depth int) {
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	p.maxDepth = depth
}

// Parse parses src as one type expression and returns the root node,
// tagged RuleAst, whose only child is the type_expr.
func Parse(filename, src string) (*Node, error) {
	return NewParser(filename, strings.NewReader(src)).Parse()
}

// Parse parses the whole input as one type expression.
func (p *Parser) Parse() (root *Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			root, err = nil, b.err
		}
	}()

	p.next() // prime the parser with first token

	n := p.open(RuleAst)
	if p.tok == _Lifetime {
		n.add(p.lifetimeArg())
	} else {
		n.add(p.typeExpr(true))
	}
	if p.tok != _EOF {
		p.unexpectedTrailing(n.Children[0])
	}
	return p.close(n), nil
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	p.prevEnd = p.end
	p.scanner.Next()
	if p.lexErr != nil {
		panic(bailout{p.lexErr})
	}
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.pos = p.scanner.Pos()
	p.start, p.end = p.scanner.Offsets()
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, it aborts the parse.
func (p *Parser) want(tok Token) {
	if !p.got(tok) {
		p.fail(describe(tok))
	}
}

// ----------------------------------------------------------------------------
// Error handling

// fail aborts the parse with an "expected ..., found ..." error at the
// current token.
func (p *Parser) fail(expected ...string) {
	panic(bailout{&SyntaxError{
		Pos:      p.pos,
		Offset:   p.start,
		Expected: expected,
		Found:    p.found(),
	}})
}

// failf aborts the parse with a free-form message at the current token.
func (p *Parser) failf(format string, args ...interface{}) {
	panic(bailout{&SyntaxError{
		Pos:    p.pos,
		Offset: p.start,
		Msg:    fmt.Sprintf(format, args...),
	}})
}

func (p *Parser) found() string {
	if p.tok == _EOF {
		return "EOF"
	}
	return strconv.Quote(p.lit)
}

// unexpectedTrailing reports input left over after a complete type.
func (p *Parser) unexpectedTrailing(te *Node) {
	if p.tok == _As {
		inner := te.Children[len(te.Children)-1]
		p.failf("%s cannot be followed by 'as'", inner.Rule)
	}
	p.fail("EOF")
}

// describe returns the name of a token as used in error messages.
func describe(tok Token) string {
	switch tok {
	case _EOF:
		return "EOF"
	case _Name:
		return "identifier"
	case _Lifetime:
		return "lifetime"
	case _Number:
		return "number"
	}
	return strconv.Quote(tok.String())
}

// ----------------------------------------------------------------------------
// Node construction

// open starts a node at the current token.
func (p *Parser) open(rule Rule) *Node {
	return &Node{Rule: rule, Span: Span{Start: p.start, Pos: p.pos}}
}

// close ends n at the last consumed token.
func (p *Parser) close(n *Node) *Node {
	return p.closeAt(n, p.prevEnd)
}

func (p *Parser) closeAt(n *Node, end int) *Node {
	n.Span.End = end
	n.Text = p.scanner.text(n.Span.Start, end)
	return n
}

// leaf consumes the current token as a childless node.
func (p *Parser) leaf(rule Rule) *Node {
	n := p.open(rule)
	p.next()
	return p.close(n)
}

func (n *Node) add(c *Node) {
	n.Children = append(n.Children, c)
}

// ----------------------------------------------------------------------------
// Type expressions

// typeExpr parses: reference? impl_marker? inner as_target?
// The as_target slot is only parsed when allowAs is set.
func (p *Parser) typeExpr(allowAs bool) *Node {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.failf("type nesting exceeds maximum depth %d", p.maxDepth)
	}

	n := p.open(RuleTypeExpr)

	if p.tok == _Amp || p.tok == _Star {
		n.add(p.reference())
	}
	if p.tok == _Impl || p.tok == _Dyn {
		n.add(p.leaf(RuleImplMarker))
	}

	inner := p.inner()
	n.add(inner)

	if allowAs && p.tok == _As {
		switch inner.Rule {
		case RuleRegularType, RuleTurbofishType, RuleQualifiedType:
			n.add(p.asTarget())
		}
	}

	return p.close(n)
}

// lifetimeArg parses a lifetime on its own, as it appears in an argument
// list, into type_expr(lifetime).
func (p *Parser) lifetimeArg() *Node {
	n := p.open(RuleTypeExpr)
	n.add(p.leaf(RuleLifetime))
	return p.close(n)
}

// reference parses one or more borrow or raw pointer markers:
// ( "&" lifetime? "mut"? | "*" ("const" | "mut") )+
func (p *Parser) reference() *Node {
	n := p.open(RuleReference)

	for {
		switch p.tok {
		case _Amp:
			p.next()
			if p.tok == _Lifetime {
				n.add(p.leaf(RuleLifetime))
			}
			p.got(_Mut)
			continue

		case _Star:
			p.next()
			if !p.got(_Const) && !p.got(_Mut) {
				p.fail(describe(_Const), describe(_Mut))
			}
			continue
		}
		break
	}

	return p.close(n)
}

// inner parses the type a type_expr wraps.
func (p *Parser) inner() *Node {
	switch p.tok {
	case _Name:
		return p.pathType()
	case _Lparen:
		return p.tuple()
	case _Lbrack:
		return p.arrayType()
	case _Lss:
		return p.qualifiedType()
	case _Fn:
		return p.closureType(p.leaf(RuleClosureKind))
	}

	if p.tok == _Amp || p.tok == _Star {
		p.failf("reference marker must precede the impl marker")
	}
	p.fail("type")
	return nil
}

// typename parses ident ( "::" ident )*. If the path is followed by
// "::<", the separator is consumed, turbofish is true and the current
// token is "<".
func (p *Parser) typename() (n *Node, turbofish bool) {
	n = p.open(RuleTypename)
	p.want(_Name)
	end := p.prevEnd

	for p.tok == _Path {
		p.next()
		if p.tok == _Lss {
			turbofish = true
			break
		}
		if p.tok != _Name {
			p.fail(describe(_Name), describe(_Lss))
		}
		p.next()
		end = p.prevEnd
	}

	return p.closeAt(n, end), turbofish
}

// isClosureKind reports whether name is one of the closure traits.
func isClosureKind(name string) bool {
	switch name {
	case "Fn", "FnMut", "FnOnce":
		return true
	}
	return false
}

// pathType parses regular_type, turbofish_type, or a closure_type
// spelled with one of the closure traits.
func (p *Parser) pathType() *Node {
	start, pos := p.start, p.pos
	tn, turbofish := p.typename()

	if !turbofish && p.tok == _Lparen && isClosureKind(tn.Text) {
		tn.Rule = RuleClosureKind
		return p.closureType(tn)
	}

	rule := RuleRegularType
	if turbofish {
		rule = RuleTurbofishType
	}
	n := &Node{Rule: rule, Span: Span{Start: start, Pos: pos}}
	n.add(tn)
	if turbofish || p.tok == _Lss {
		n.add(p.generics())
	}
	return p.close(n)
}

// namedType parses typename generics? under the given rule. It is used
// for trait references and associated items inside qualified paths.
func (p *Parser) namedType(rule Rule) *Node {
	n := p.open(rule)
	tn, turbofish := p.typename()
	n.add(tn)
	if turbofish || p.tok == _Lss {
		n.add(p.generics())
	}
	return p.close(n)
}

// generics parses "<" list ">".
func (p *Parser) generics() *Node {
	n := p.open(RuleGenerics)
	p.want(_Lss)
	n.Children = p.list(_Gtr)
	p.want(_Gtr)
	return p.close(n)
}

// tuple parses "(" list ")".
func (p *Parser) tuple() *Node {
	n := p.open(RuleTuple)
	p.want(_Lparen)
	n.Children = p.list(_Rparen)
	p.want(_Rparen)
	return p.close(n)
}

// list parses a comma-separated, optionally comma-terminated sequence of
// lifetimes and type expressions, stopping before closer.
func (p *Parser) list(closer Token) []*Node {
	var elems []*Node
	for p.tok != closer {
		if p.tok == _Lifetime {
			elems = append(elems, p.leaf(RuleLifetime))
		} else {
			elems = append(elems, p.typeExpr(true))
		}
		if !p.got(_Comma) {
			break
		}
	}
	if p.tok != closer {
		p.fail(describe(_Comma), describe(closer))
	}
	return elems
}

// arrayType parses "[" type_expr ( ";" array_len )? "]".
func (p *Parser) arrayType() *Node {
	n := p.open(RuleArrayType)
	p.want(_Lbrack)
	n.add(p.typeExpr(true))

	if p.got(_Semi) {
		if p.tok != _Number && p.tok != _Name {
			p.fail(describe(_Number), describe(_Name))
		}
		n.add(p.leaf(RuleArrayLen))
	} else if p.tok != _Rbrack {
		p.fail(describe(_Semi), describe(_Rbrack))
	}

	p.want(_Rbrack)
	return p.close(n)
}

// qualifiedType parses "<" type_expr ( "as" trait_ref )? ">" "::" assoc_item.
func (p *Parser) qualifiedType() *Node {
	n := p.open(RuleQualifiedType)
	p.want(_Lss)
	n.add(p.typeExpr(false))

	if p.got(_As) {
		n.add(p.namedType(RuleTraitRef))
	} else if p.tok != _Gtr {
		p.fail(describe(_As), describe(_Gtr))
	}

	p.want(_Gtr)
	p.want(_Path)
	n.add(p.namedType(RuleAssocItem))
	return p.close(n)
}

// closureType parses closure_params return_type? after an already
// consumed closure_kind.
func (p *Parser) closureType(kind *Node) *Node {
	n := &Node{Rule: RuleClosureType, Span: kind.Span}
	n.add(kind)

	params := p.open(RuleClosureParams)
	p.want(_Lparen)
	params.Children = p.list(_Rparen)
	p.want(_Rparen)
	n.add(p.close(params))

	if p.tok == _Arrow {
		ret := p.open(RuleReturnType)
		p.next()
		ret.add(p.typeExpr(false))
		n.add(p.close(ret))
	}

	return p.close(n)
}

// asTarget parses "as" ( turbofish_type | regular_type ).
func (p *Parser) asTarget() *Node {
	n := p.open(RuleAsTarget)
	p.want(_As)

	start, pos := p.start, p.pos
	tn, turbofish := p.typename()
	rule := RuleRegularType
	if turbofish {
		rule = RuleTurbofishType
	}
	t := &Node{Rule: rule, Span: Span{Start: start, Pos: pos}}
	t.add(tn)
	if turbofish || p.tok == _Lss {
		t.add(p.generics())
	}
	n.add(p.close(t))

	return p.close(n)
}
