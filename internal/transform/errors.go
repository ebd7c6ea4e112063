package transform

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/tyexpr/internal/syntax"
)

// Kind classifies a structural error.
type Kind int

const (
	// KindMissingField: a node lacks a child its rule requires.
	KindMissingField Kind = iota
	// KindMalformed: a node's children do not form any accepted shape.
	KindMalformed
	// KindTooDeep: type nesting exceeds Options.MaxDepth.
	KindTooDeep
	// KindUnexpectedRoot: the tree handed to ParseRoot is not a type.
	KindUnexpectedRoot
)

var kindNames = [...]string{
	KindMissingField:   "missing field",
	KindMalformed:      "malformed",
	KindTooDeep:        "too deep",
	KindUnexpectedRoot: "unexpected root",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a structural error found while transforming a parse tree.
// It is located at the offending node and carries the chain of rules
// being transformed when it occurred.
type Error struct {
	Kind     Kind
	Rule     syntax.Rule   // rule of the offending node
	Span     syntax.Span   // source range of the offending node
	Text     string        // source text of the offending node
	Expected []syntax.Rule // child rules that would have been accepted
	Found    []syntax.Rule // child rules actually present
	Stack    []syntax.Rule // ancestor chain, outermost first
	Msg      string        // set for KindTooDeep and KindUnexpectedRoot
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Span.Pos.String())
	b.WriteString(": ")

	switch {
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Kind == KindMissingField:
		fmt.Fprintf(&b, "%s %q is missing %s", describeRule(e.Rule), e.Text, joinAlternatives(e.Expected))
	default:
		fmt.Fprintf(&b, "malformed %s %q: expected [%s], found [%s]",
			describeRule(e.Rule), e.Text, joinRules(e.Expected, " "), joinRules(e.Found, " "))
	}

	if len(e.Stack) > 0 {
		b.WriteString(" (in ")
		b.WriteString(joinRules(e.Stack, " > "))
		b.WriteByte(')')
	}
	return b.String()
}

// InternalError reports a parse tree the transformer has no case for.
// It indicates that the grammar and the transformer disagree, never a
// problem with the input text.
type InternalError struct {
	Rule  syntax.Rule
	Span  syntax.Span
	Msg   string
	Stack []syntax.Rule
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	s := fmt.Sprintf("%s: internal error: %s", e.Span.Pos, e.Msg)
	if len(e.Stack) > 0 {
		s += " (in " + joinRules(e.Stack, " > ") + ")"
	}
	return s
}

// describeRule names a rule for prose, e.g. "type expression".
func describeRule(r syntax.Rule) string {
	if r == syntax.RuleTypeExpr {
		return "type expression"
	}
	return strings.ReplaceAll(r.String(), "_", " ")
}

func joinRules(rules []syntax.Rule, sep string) string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.String()
	}
	return strings.Join(names, sep)
}

// joinAlternatives renders [a b c] as "a, b or c".
func joinAlternatives(rules []syntax.Rule) string {
	if len(rules) < 2 {
		return joinRules(rules, "")
	}
	return joinRules(rules[:len(rules)-1], ", ") + " or " + rules[len(rules)-1].String()
}
