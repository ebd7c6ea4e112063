package syntax

import "fmt"

// Rule identifies the grammar production that produced a parse tree node.
type Rule uint8

const (
	RuleAst           Rule = iota // whole input: type_expr EOF
	RuleTypeExpr                  // reference? impl_marker? inner as_target?
	RuleReference                 // & 'a mut, *const
	RuleLifetime                  // 'a
	RuleImplMarker                // impl, dyn
	RuleRegularType               // typename generics?
	RuleTypename                  // ident (:: ident)*
	RuleGenerics                  // < list >
	RuleTuple                     // ( list )
	RuleTurbofishType             // typename :: generics
	RuleQualifiedType             // < type_expr (as trait_ref)? > :: assoc_item
	RuleTraitRef                  // typename generics?
	RuleAssocItem                 // typename generics?
	RuleClosureType               // closure_kind closure_params return_type?
	RuleClosureKind               // Fn, FnMut, FnOnce, fn
	RuleClosureParams             // ( list )
	RuleReturnType                // -> type_expr
	RuleArrayType                 // [ type_expr (; array_len)? ]
	RuleArrayLen                  // number or ident
	RuleAsTarget                  // as (turbofish_type | regular_type)

	ruleCount
)

var ruleNames = [...]string{
	RuleAst:           "ast",
	RuleTypeExpr:      "type_expr",
	RuleReference:     "reference",
	RuleLifetime:      "lifetime",
	RuleImplMarker:    "impl_marker",
	RuleRegularType:   "regular_type",
	RuleTypename:      "typename",
	RuleGenerics:      "generics",
	RuleTuple:         "tuple",
	RuleTurbofishType: "turbofish_type",
	RuleQualifiedType: "qualified_type",
	RuleTraitRef:      "trait_ref",
	RuleAssocItem:     "assoc_item",
	RuleClosureType:   "closure_type",
	RuleClosureKind:   "closure_kind",
	RuleClosureParams: "closure_params",
	RuleReturnType:    "return_type",
	RuleArrayType:     "array_type",
	RuleArrayLen:      "array_len",
	RuleAsTarget:      "as_target",
}

// String returns the grammar name of the rule, e.g. "type_expr".
func (r Rule) String() string {
	if r < ruleCount {
		return ruleNames[r]
	}
	return fmt.Sprintf("rule(%d)", r)
}

// IsType reports whether r produces one of the inner type shapes a
// type_expr can wrap.
func (r Rule) IsType() bool {
	switch r {
	case RuleRegularType, RuleTurbofishType, RuleClosureType,
		RuleQualifiedType, RuleTuple, RuleArrayType:
		return true
	}
	return false
}
