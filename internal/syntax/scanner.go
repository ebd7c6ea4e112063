package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner performs lexical analysis on type expressions.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok    Token  // token type
	lit    string // token literal
	tokPos Pos    // token start position
	start  int    // byte offset of the token start
	end    int    // byte offset just past the token

	// Literal accumulation
	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error with its position and
// byte offset; if nil, errors are silently ignored.
func NewScanner(filename string, src io.Reader, errh func(line, col uint32, offs int, msg string)) *Scanner {
	return &Scanner{source: *newSource(filename, src, errh)}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	s.skipWhitespace()

	s.tokPos = s.pos()
	s.start = s.choffs

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '\'':
		s.scanLifetime()

	case isOperatorStart(s.ch):
		if !s.scanOperator() {
			goto redo
		}

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		goto redo
	}

	s.end = s.choffs
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// Offsets returns the byte range [start, end) of the current token.
func (s *Scanner) Offsets() (start, end int) {
	return s.start, s.end
}

// tokenError reports a lexical error at the start of the current token,
// for errors found after the scanner has moved past the offending
// character.
func (s *Scanner) tokenError(msg string) {
	s.errorAt(s.tokPos.line, s.tokPos.col, s.start, msg)
}

// skipWhitespace skips spaces, tabs, carriage returns and newlines.
func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.ch) {
		s.nextch()
	}
}

// startLit begins accumulating a literal.
func (s *Scanner) startLit() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
}

// continueLit adds the current character to the literal being accumulated.
func (s *Scanner) continueLit() {
	s.litBuf.WriteRune(s.ch)
}

// stopLit ends literal accumulation and returns the accumulated string.
func (s *Scanner) stopLit() string {
	return s.litBuf.String()
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.startLit()
	s.nextch()

	for isLetter(s.ch) || isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}

	s.lit = s.stopLit()
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans an array length literal. Type suffixes (32usize) and
// digit separators (1_000) are kept in the literal.
func (s *Scanner) scanNumber() {
	s.startLit()
	s.nextch()

	for isLetter(s.ch) || isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}

	s.lit = s.stopLit()
	s.tok = _Number
}

// scanLifetime scans a lifetime: ' followed by an identifier.
func (s *Scanner) scanLifetime() {
	s.startLit()
	s.nextch()

	if !isLetter(s.ch) {
		s.tokenError("lifetime name expected after '")
		s.lit = s.stopLit()
		s.tok = _Error
		return
	}
	for isLetter(s.ch) || isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}

	s.lit = s.stopLit()
	s.tok = _Lifetime
}

// scanOperator scans a punctuation token.
// Returns false if the character did not form a token (caller should rescan).
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '&':
		s.tok = _Amp
		s.lit = "&"
	case '*':
		s.tok = _Star
		s.lit = "*"
	case '<':
		s.tok = _Lss
		s.lit = "<"
	case '>':
		// Never merged into >>: Vec<Vec<T>> closes two lists.
		s.tok = _Gtr
		s.lit = ">"
	case '(':
		s.tok = _Lparen
		s.lit = "("
	case ')':
		s.tok = _Rparen
		s.lit = ")"
	case '[':
		s.tok = _Lbrack
		s.lit = "["
	case ']':
		s.tok = _Rbrack
		s.lit = "]"
	case ',':
		s.tok = _Comma
		s.lit = ","
	case ';':
		s.tok = _Semi
		s.lit = ";"
	case ':':
		if s.ch != ':' {
			s.tokenError("unexpected character ':' (did you mean '::'?)")
			return false
		}
		s.nextch()
		s.tok = _Path
		s.lit = "::"
	case '-':
		if s.ch != '>' {
			s.tokenError("unexpected character '-' (did you mean '->'?)")
			return false
		}
		s.nextch()
		s.tok = _Arrow
		s.lit = "->"
	}

	return true
}
