// Package transform converts concrete parse trees produced by package
// syntax into the abstract syntax tree of package ast.
//
// Each routine handles one grammar production. Routines destructure a
// node by the rule tags of its children, recurse depth-first and left to
// right, and either return a complete subtree or an error; a partial
// tree is never returned.
//
// Structural problems are reported as *Error. A node the transformer has
// no case for means the grammar and the transformer have drifted apart;
// it is reported as *InternalError.
package transform

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/tyexpr/internal/ast"
	"github.com/you-not-fish/tyexpr/internal/syntax"
)

// DefaultMaxDepth bounds type expression nesting when Options.MaxDepth
// is not set.
const DefaultMaxDepth = syntax.DefaultMaxDepth

// Options configures a Transformer.
type Options struct {
	// MaxDepth is the maximum number of nested type expressions.
	// Values <= 0 select DefaultMaxDepth.
	MaxDepth int
}

// Transformer converts parse trees to type expressions. It records the
// rules it is inside of for error messages, so a Transformer must not be
// used by more than one goroutine at a time.
type Transformer struct {
	maxDepth int
	stack    []syntax.Rule // rules being transformed, outermost first
	depth    int           // entries on stack that become a TypeExpr
}

// NewTransformer returns a Transformer configured by opts.
func NewTransformer(opts Options) *Transformer {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &Transformer{maxDepth: depth}
}

// Parse parses src and transforms the result. Syntax errors are returned
// unchanged as *syntax.SyntaxError.
func Parse(src string, opts Options) (*ast.TypeExpr, error) {
	p := syntax.NewParser("", strings.NewReader(src))
	p.SetMaxDepth(opts.MaxDepth)
	root, err := p.Parse()
	if err != nil {
		return nil, err
	}
	return NewTransformer(opts).ParseRoot(root)
}

// ParseRoot transforms a parse tree with default options.
func ParseRoot(node *syntax.Node) (*ast.TypeExpr, error) {
	return NewTransformer(Options{}).ParseRoot(node)
}

// ParseRoot transforms the parse tree rooted at node, which is either
// the ast root built by syntax.Parse or a type_expr node.
func (t *Transformer) ParseRoot(node *syntax.Node) (te *ast.TypeExpr, err error) {
	t.stack, t.depth = t.stack[:0], 0
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			te, err = nil, ie
		}
	}()

	if node == nil {
		return nil, &Error{Kind: KindUnexpectedRoot, Msg: "no parse tree"}
	}

	switch node.Rule {
	case syntax.RuleAst:
		defer t.enter(node.Rule)()
		kids, err := t.match(node, req(syntax.RuleTypeExpr))
		if err != nil {
			return nil, err
		}
		return t.parseTypeExpr(kids[0])

	case syntax.RuleTypeExpr:
		return t.parseTypeExpr(node)
	}

	e := t.newError(KindUnexpectedRoot, node)
	e.Expected = []syntax.Rule{syntax.RuleAst, syntax.RuleTypeExpr}
	e.Msg = fmt.Sprintf("cannot transform %s at the root, expected ast or type_expr", node.Rule)
	return nil, e
}

// Stack returns a copy of the rules currently being transformed. It is
// empty whenever ParseRoot is not running.
func (t *Transformer) Stack() []syntax.Rule {
	return append([]syntax.Rule(nil), t.stack...)
}

// ----------------------------------------------------------------------------
// Rule stack

// enter pushes rule onto the stack and returns the function that pops it.
// Callers use it as
//
//	defer t.enter(n.Rule)()
func (t *Transformer) enter(rule syntax.Rule) func() {
	t.stack = append(t.stack, rule)
	return func() {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// nest is enter for a node that becomes a TypeExpr, which counts toward
// the depth limit. The returned function must be called even when the
// limit is exceeded.
func (t *Transformer) nest(n *syntax.Node) (func(), error) {
	t.stack = append(t.stack, n.Rule)
	t.depth++
	leave := func() {
		t.depth--
		t.stack = t.stack[:len(t.stack)-1]
	}
	if t.depth > t.maxDepth {
		e := t.newError(KindTooDeep, n)
		e.Msg = fmt.Sprintf("type nesting exceeds maximum depth %d", t.maxDepth)
		return leave, e
	}
	return leave, nil
}

// ----------------------------------------------------------------------------
// Error construction

func (t *Transformer) newError(kind Kind, n *syntax.Node) *Error {
	return &Error{
		Kind:  kind,
		Rule:  n.Rule,
		Span:  n.Span,
		Text:  n.Text,
		Found: n.Rules(),
		Stack: t.Stack(),
	}
}

func (t *Transformer) missing(n *syntax.Node, want ...syntax.Rule) *Error {
	e := t.newError(KindMissingField, n)
	e.Expected = want
	return e
}

func (t *Transformer) malformed(n *syntax.Node, want []syntax.Rule) *Error {
	e := t.newError(KindMalformed, n)
	e.Expected = want
	return e
}

// internalf aborts the transformation with an *InternalError. ParseRoot
// recovers it.
func (t *Transformer) internalf(n *syntax.Node, format string, args ...interface{}) {
	panic(&InternalError{
		Rule:  n.Rule,
		Span:  n.Span,
		Msg:   fmt.Sprintf(format, args...),
		Stack: t.Stack(),
	})
}

// ----------------------------------------------------------------------------
// Child matching

// A slot is one position in a production's child sequence.
type slot struct {
	rule     syntax.Rule
	optional bool
}

func req(r syntax.Rule) slot { return slot{rule: r} }
func opt(r syntax.Rule) slot { return slot{rule: r, optional: true} }

// match assigns the children of n to slots in order. The result has one
// entry per slot; absent optional children are nil. A required slot with
// no child left is a missing field; any other mismatch, including
// leftover children, makes n malformed.
func (t *Transformer) match(n *syntax.Node, slots ...slot) ([]*syntax.Node, error) {
	out := make([]*syntax.Node, len(slots))
	i := 0
	for j, s := range slots {
		if c := n.Child(i); c != nil && c.Rule == s.rule {
			out[j] = c
			i++
			continue
		}
		if s.optional {
			continue
		}
		if i >= len(n.Children) {
			return nil, t.missing(n, s.rule)
		}
		return nil, t.malformed(n, slotRules(slots))
	}
	if i < len(n.Children) {
		return nil, t.malformed(n, slotRules(slots))
	}
	return out, nil
}

func slotRules(slots []slot) []syntax.Rule {
	rules := make([]syntax.Rule, len(slots))
	for i, s := range slots {
		rules[i] = s.rule
	}
	return rules
}

// ----------------------------------------------------------------------------
// Type expressions

// parseTypeExpr transforms:
//
//	type_expr = reference? impl_marker? inner as_target?
//	          | lifetime
//
// The as-target is either an as_target node or, in trees that emit it
// positionally, a bare regular_type or turbofish_type after the inner
// type. It may only follow a regular, turbofish or qualified type.
func (t *Transformer) parseTypeExpr(n *syntax.Node) (*ast.TypeExpr, error) {
	leave, err := t.nest(n)
	defer leave()
	if err != nil {
		return nil, err
	}

	if c := n.Child(0); c != nil && c.Rule == syntax.RuleLifetime && len(n.Children) == 1 {
		return &ast.TypeExpr{Original: n.Text, Type: &ast.Lifetime{Name: c.Text}}, nil
	}

	found := n.Rules()
	want := typeExprShape(found)
	if !hasInner(want) && equalRules(found, want) {
		return nil, t.missing(n, innerRules...)
	}
	if !hasInner(want) || !equalRules(found, want) {
		return nil, t.malformed(n, want)
	}

	te := &ast.TypeExpr{Original: n.Text}
	kids := n.Children
	if kids[0].Rule == syntax.RuleReference {
		te.Reference = referenceText(kids[0].Text)
		kids = kids[1:]
	}
	if kids[0].Rule == syntax.RuleImplMarker {
		te.ImplMarker = kids[0].Text
		kids = kids[1:]
	}

	typ, err := t.parseType(kids[0])
	if err != nil {
		return nil, err
	}
	te.Type = typ

	if len(kids) > 1 {
		target, err := t.parseAsTarget(kids[1])
		if err != nil {
			return nil, err
		}
		te.AsTarget = target
	}
	return te, nil
}

// innerRules lists the rules a type_expr accepts as its inner type.
var innerRules = []syntax.Rule{
	syntax.RuleRegularType,
	syntax.RuleTurbofishType,
	syntax.RuleQualifiedType,
	syntax.RuleClosureType,
	syntax.RuleTuple,
	syntax.RuleArrayType,
}

// typeExprShape returns the closest accepted type_expr child sequence to
// found: at most one of each slot, in grammar order. found is well formed
// exactly when the two are equal.
func typeExprShape(found []syntax.Rule) []syntax.Rule {
	ref, impl, inner, target := -1, -1, -1, -1
	for i, r := range found {
		switch {
		case r == syntax.RuleReference:
			if ref < 0 {
				ref = i
			}
		case r == syntax.RuleImplMarker:
			if impl < 0 {
				impl = i
			}
		case inner < 0 && r.IsType():
			inner = i
		case inner >= 0 && target < 0 && isAsTarget(r) && allowsAs(found[inner]):
			target = i
		}
	}

	var want []syntax.Rule
	for _, i := range []int{ref, impl, inner, target} {
		if i >= 0 {
			want = append(want, found[i])
		}
	}
	return want
}

func isAsTarget(r syntax.Rule) bool {
	switch r {
	case syntax.RuleAsTarget, syntax.RuleRegularType, syntax.RuleTurbofishType:
		return true
	}
	return false
}

func allowsAs(inner syntax.Rule) bool {
	switch inner {
	case syntax.RuleRegularType, syntax.RuleTurbofishType, syntax.RuleQualifiedType:
		return true
	}
	return false
}

func hasInner(rules []syntax.Rule) bool {
	for _, r := range rules {
		if r.IsType() {
			return true
		}
	}
	return false
}

func equalRules(a, b []syntax.Rule) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// referenceText normalizes the spacing of a reference marker: sigils
// bind to what follows them, words are separated by one space.
// "& 'a  mut" becomes "&'a mut", "&mut&" becomes "&mut &".
func referenceText(text string) string {
	var b strings.Builder
	var prev byte
	sep := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			sep = true
			continue
		case c == '&' || c == '*':
			if prev != 0 && !isSigil(prev) {
				b.WriteByte(' ')
			}
		default:
			if sep && prev != 0 && !isSigil(prev) {
				b.WriteByte(' ')
			}
		}
		b.WriteByte(c)
		prev, sep = c, false
	}
	return b.String()
}

func isSigil(c byte) bool { return c == '&' || c == '*' }

// parseAsTarget transforms the trailing "as" qualification of a type_expr.
func (t *Transformer) parseAsTarget(n *syntax.Node) (ast.Type, error) {
	if n.Rule == syntax.RuleAsTarget {
		defer t.enter(n.Rule)()
		switch c := n.Child(0); {
		case c == nil:
			return nil, t.missing(n, syntax.RuleRegularType, syntax.RuleTurbofishType)
		case len(n.Children) > 1 || c.Rule == syntax.RuleAsTarget || !isAsTarget(c.Rule):
			return nil, t.malformed(n, []syntax.Rule{syntax.RuleRegularType})
		}
		n = n.Children[0]
	}
	return t.parseType(n)
}

// ----------------------------------------------------------------------------
// Types

// parseType dispatches on the rule of an inner type node.
func (t *Transformer) parseType(n *syntax.Node) (ast.Type, error) {
	switch n.Rule {
	case syntax.RuleRegularType:
		return t.parseRegularType(n)
	case syntax.RuleTurbofishType:
		return t.parseTurbofishType(n)
	case syntax.RuleClosureType:
		return t.parseClosureType(n)
	case syntax.RuleQualifiedType:
		return t.parseQualifiedType(n)
	case syntax.RuleArrayType:
		return t.parseArrayType(n)
	case syntax.RuleTuple:
		elems, err := t.parseList(n)
		if err != nil {
			return nil, err
		}
		return &ast.Tuple{Elems: elems}, nil
	}
	t.internalf(n, "no transformation for %s", n.Rule)
	return nil, nil
}

// parseList transforms the elements of a generics, tuple or
// closure_params node in source order.
func (t *Transformer) parseList(n *syntax.Node) ([]*ast.TypeExpr, error) {
	defer t.enter(n.Rule)()
	return t.parseElems(n)
}

// parseNestedTuple transforms a tuple that appears directly as a list
// element into a TypeExpr wrapping it.
func (t *Transformer) parseNestedTuple(n *syntax.Node) (*ast.TypeExpr, error) {
	leave, err := t.nest(n)
	defer leave()
	if err != nil {
		return nil, err
	}
	elems, err := t.parseElems(n)
	if err != nil {
		return nil, err
	}
	return &ast.TypeExpr{Original: n.Text, Type: &ast.Tuple{Elems: elems}}, nil
}

func (t *Transformer) parseElems(n *syntax.Node) ([]*ast.TypeExpr, error) {
	elems := make([]*ast.TypeExpr, 0, len(n.Children))
	for _, c := range n.Children {
		var e *ast.TypeExpr
		switch c.Rule {
		case syntax.RuleTypeExpr:
			var err error
			if e, err = t.parseTypeExpr(c); err != nil {
				return nil, err
			}

		case syntax.RuleTuple:
			var err error
			if e, err = t.parseNestedTuple(c); err != nil {
				return nil, err
			}

		case syntax.RuleLifetime:
			e = &ast.TypeExpr{Original: c.Text, Type: &ast.Lifetime{Name: c.Text}}

		default:
			t.internalf(c, "unexpected %s in %s", c.Rule, n.Rule)
		}
		elems = append(elems, e)
	}
	return elems, nil
}

// parseRegularType transforms typename generics? into a SimpleType, or a
// GenericType when an argument list is present. It also serves the
// trait_ref and assoc_item productions, which share that shape.
func (t *Transformer) parseRegularType(n *syntax.Node) (ast.Type, error) {
	defer t.enter(n.Rule)()

	kids, err := t.match(n, req(syntax.RuleTypename), opt(syntax.RuleGenerics))
	if err != nil {
		return nil, err
	}
	name := typeName(kids[0])
	if kids[1] == nil {
		return &ast.SimpleType{Name: name}, nil
	}
	args, err := t.parseList(kids[1])
	if err != nil {
		return nil, err
	}
	return &ast.GenericType{Name: name, TypeArgs: args}, nil
}

// parseTurbofishType transforms typename "::" generics.
func (t *Transformer) parseTurbofishType(n *syntax.Node) (ast.Type, error) {
	defer t.enter(n.Rule)()

	kids, err := t.match(n, req(syntax.RuleTypename), req(syntax.RuleGenerics))
	if err != nil {
		return nil, err
	}
	args, err := t.parseList(kids[1])
	if err != nil {
		return nil, err
	}
	return &ast.GenericType{Name: typeName(kids[0]), TypeArgs: args, Turbofish: true}, nil
}

// typeName returns the path of a typename node with whitespace removed.
func typeName(n *syntax.Node) string {
	return strings.Join(strings.Fields(n.Text), "")
}

// parseClosureType transforms closure_kind closure_params return_type?.
func (t *Transformer) parseClosureType(n *syntax.Node) (ast.Type, error) {
	defer t.enter(n.Rule)()

	kids, err := t.match(n,
		req(syntax.RuleClosureKind),
		req(syntax.RuleClosureParams),
		opt(syntax.RuleReturnType))
	if err != nil {
		return nil, err
	}

	params, err := t.parseList(kids[1])
	if err != nil {
		return nil, err
	}
	ct := &ast.ClosureType{Kind: kids[0].Text, Params: params}

	if ret := kids[2]; ret != nil {
		if ct.Result, err = t.parseReturnType(ret); err != nil {
			return nil, err
		}
	}
	return ct, nil
}

func (t *Transformer) parseReturnType(n *syntax.Node) (*ast.TypeExpr, error) {
	defer t.enter(n.Rule)()

	kids, err := t.match(n, req(syntax.RuleTypeExpr))
	if err != nil {
		return nil, err
	}
	return t.parseTypeExpr(kids[0])
}

// parseQualifiedType transforms "<" type_expr ("as" trait_ref)? ">" "::"
// assoc_item into an AsType.
func (t *Transformer) parseQualifiedType(n *syntax.Node) (ast.Type, error) {
	defer t.enter(n.Rule)()

	kids, err := t.match(n,
		req(syntax.RuleTypeExpr),
		opt(syntax.RuleTraitRef),
		req(syntax.RuleAssocItem))
	if err != nil {
		return nil, err
	}

	source, err := t.parseTypeExpr(kids[0])
	if err != nil {
		return nil, err
	}
	at := &ast.AsType{Source: source}

	if trait := kids[1]; trait != nil {
		tt, err := t.parseRegularType(trait)
		if err != nil {
			return nil, err
		}
		switch tt := tt.(type) {
		case *ast.SimpleType:
			at.Name = tt.Name
		case *ast.GenericType:
			at.Name, at.TypeArgs = tt.Name, tt.TypeArgs
		}
	}

	assoc := kids[2]
	target, err := t.parseRegularType(assoc)
	if err != nil {
		return nil, err
	}
	at.Target = &ast.TypeExpr{Original: assoc.Text, Type: target}
	return at, nil
}

// parseArrayType transforms "[" type_expr (";" array_len)? "]".
func (t *Transformer) parseArrayType(n *syntax.Node) (ast.Type, error) {
	defer t.enter(n.Rule)()

	kids, err := t.match(n, req(syntax.RuleTypeExpr), opt(syntax.RuleArrayLen))
	if err != nil {
		return nil, err
	}
	elem, err := t.parseTypeExpr(kids[0])
	if err != nil {
		return nil, err
	}
	at := &ast.ArrayType{Elem: elem}
	if kids[1] != nil {
		at.Len = kids[1].Text
	}
	return at, nil
}
