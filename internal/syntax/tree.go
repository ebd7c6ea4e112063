package syntax

import "strings"

// Node is a concrete parse tree node: the rule that matched, the exact
// source text it covers, and its child nodes in source order.
//
// Nodes are built once by the parser and never modified afterwards;
// Children may be iterated any number of times.
type Node struct {
	Rule     Rule
	Span     Span
	Text     string
	Children []*Node
}

// Pos returns the position of the first character of the node.
func (n *Node) Pos() Pos {
	return n.Span.Pos
}

// Child returns the i-th child, or nil if there is none.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Rules returns the rules of the node's children in order.
func (n *Node) Rules() []Rule {
	rules := make([]Rule, len(n.Children))
	for i, c := range n.Children {
		rules[i] = c.Rule
	}
	return rules
}

// Trimmed returns the node text with every line trimmed and the lines
// joined, so multi-line input renders on a single line.
func (n *Node) Trimmed() string {
	var b strings.Builder
	for _, line := range strings.Split(n.Text, "\n") {
		b.WriteString(strings.TrimSpace(line))
	}
	return b.String()
}

// Walk calls f for n and its descendants in depth-first order, passing
// the nesting depth (0 for n). If f returns false, the children of that
// node are skipped.
func (n *Node) Walk(f func(node *Node, depth int) bool) {
	n.walk(f, 0)
}

func (n *Node) walk(f func(node *Node, depth int) bool, depth int) {
	if n == nil || !f(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(f, depth+1)
	}
}
