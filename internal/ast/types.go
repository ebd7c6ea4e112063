// Package ast defines the abstract syntax tree for type expressions.
//
// A parsed type is a tree of *TypeExpr nodes. Each TypeExpr records the
// markers written around a type (reference, impl/dyn, trailing "as")
// and holds one Type variant describing the type's shape. Variants that
// contain other types hold further *TypeExpr nodes, so the tree is owned
// top-down with no sharing.
package ast

// ----------------------------------------------------------------------------
// Interfaces

// Node is implemented by *TypeExpr and by every Type variant.
type Node interface {
	aNode() // marker method to restrict implementations to this package
}

// Type is the structural shape of a type once reference, impl marker and
// as-target have been stripped.
type Type interface {
	Node
	String() string
	aType()
}

// ----------------------------------------------------------------------------
// Type expressions

// TypeExpr is one type occurrence in the source together with its
// surrounding markers.
type TypeExpr struct {
	Original   string // verbatim source text of the whole expression
	Reference  string // leading borrow or pointer marker: "&", "&'a mut", "*const"; "" if none
	ImplMarker string // "impl" or "dyn"; "" if none
	Type       Type   // never nil
	AsTarget   Type   // trailing "as Trait" qualification; nil if none
}

func (*TypeExpr) aNode() {}

func (*SimpleType) aNode()  {}
func (*Lifetime) aNode()    {}
func (*Tuple) aNode()       {}
func (*GenericType) aNode() {}
func (*AsType) aNode()      {}
func (*ClosureType) aNode() {}
func (*ArrayType) aNode()   {}

func (*SimpleType) aType()  {}
func (*Lifetime) aType()    {}
func (*Tuple) aType()       {}
func (*GenericType) aType() {}
func (*AsType) aType()      {}
func (*ClosureType) aType() {}
func (*ArrayType) aType()   {}

// ----------------------------------------------------------------------------
// Type variants

// SimpleType is a bare identifier or path: String, std::string::String.
type SimpleType struct {
	Name string
}

// Lifetime is a lifetime used as a generic argument: 'a.
type Lifetime struct {
	Name string
}

// Tuple is a parenthesized list of types. No elements is the unit type.
type Tuple struct {
	Elems []*TypeExpr
}

// GenericType is a name applied to type arguments: Vec<String>, or with
// Turbofish set, Vec::<String>.
type GenericType struct {
	Name      string
	TypeArgs  []*TypeExpr
	Turbofish bool
}

// AsType is a qualified path <Source as Name<TypeArgs>>::Target.
// Name is empty for <Source>::Target.
type AsType struct {
	Source   *TypeExpr
	Name     string
	TypeArgs []*TypeExpr
	Target   *TypeExpr
}

// ClosureType is a closure trait or function pointer type:
// Fn(Params) -> Result, FnMut, FnOnce, fn. Result is nil without "->".
type ClosureType struct {
	Kind   string
	Params []*TypeExpr
	Result *TypeExpr
}

// ArrayType is [Elem; Len], or a slice [Elem] when Len is empty.
type ArrayType struct {
	Elem *TypeExpr
	Len  string
}
