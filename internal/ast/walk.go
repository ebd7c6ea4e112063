package ast

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses a type tree in depth-first order: a TypeExpr, then its
// Type, then its AsTarget. If visitor returns false, children are not
// visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *TypeExpr:
		if n.Type != nil {
			Walk(n.Type, v)
		}
		if n.AsTarget != nil {
			Walk(n.AsTarget, v)
		}

	case *Tuple:
		walkList(n.Elems, v)

	case *GenericType:
		walkList(n.TypeArgs, v)

	case *AsType:
		Walk(n.Source, v)
		walkList(n.TypeArgs, v)
		Walk(n.Target, v)

	case *ClosureType:
		walkList(n.Params, v)
		if n.Result != nil {
			Walk(n.Result, v)
		}

	case *ArrayType:
		Walk(n.Elem, v)

	// Leaf nodes: SimpleType, Lifetime
	// No children to visit
	}
}

func walkList(list []*TypeExpr, v Visitor) {
	for _, e := range list {
		Walk(e, v)
	}
}

// Inspect traverses a type tree and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}

// Measure returns the number of TypeExpr nodes in the tree rooted at e and
// the deepest TypeExpr nesting level (1 for a type without arguments).
func Measure(e *TypeExpr) (exprs, depth int) {
	var measure func(e *TypeExpr, level int)
	measure = func(e *TypeExpr, level int) {
		exprs++
		if level > depth {
			depth = level
		}
		Inspect(e, func(n Node) bool {
			if c, ok := n.(*TypeExpr); ok && c != e {
				measure(c, level+1)
				return false
			}
			return true
		})
	}
	if e != nil {
		measure(e, 1)
	}
	return exprs, depth
}
