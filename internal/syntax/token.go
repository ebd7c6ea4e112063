// Package syntax implements the grammar engine for Rust-style type expressions:
// a scanner, the grammar's rule set, and a recursive-descent builder that turns
// source text into a rule-tagged concrete parse tree.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF   Token = iota // end of input
	_Error              // lexical error

	// Literals
	_Name     // identifier: String, Vec, u8, _
	_Lifetime // lifetime: 'a, 'static, '_
	_Number   // array length: 32, 4usize

	// Punctuation
	_Amp    // &
	_Star   // *
	_Lss    // <
	_Gtr    // >
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Comma  // ,
	_Semi   // ;
	_Path   // ::
	_Arrow  // ->

	// Keywords
	_As
	_Const
	_Dyn
	_Fn
	_Impl
	_Mut

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:   "EOF",
	_Error: "ERROR",

	_Name:     "NAME",
	_Lifetime: "LIFETIME",
	_Number:   "NUMBER",

	_Amp:    "&",
	_Star:   "*",
	_Lss:    "<",
	_Gtr:    ">",
	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Comma:  ",",
	_Semi:   ";",
	_Path:   "::",
	_Arrow:  "->",

	_As:    "as",
	_Const: "const",
	_Dyn:   "dyn",
	_Fn:    "fn",
	_Impl:  "impl",
	_Mut:   "mut",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _As && t <= _Mut
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// keywords maps keyword strings to their token type.
// Closure traits (Fn, FnMut, FnOnce) are ordinary names; the parser
// recognizes them by what follows.
var keywords = map[string]Token{
	"as":    _As,
	"const": _Const,
	"dyn":   _Dyn,
	"fn":    _Fn,
	"impl":  _Impl,
	"mut":   _Mut,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
