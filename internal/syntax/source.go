package syntax

import (
	"io"
	"unicode/utf8"
)

// source is a character reader with position tracking.
// It reads UTF-8 encoded text and provides character-by-character access.
type source struct {
	// Input
	buf []byte // entire input read into memory

	// Position tracking
	filename string // source name used in positions
	line     uint32 // current line number (1-based)
	col      uint32 // current column number (1-based, in characters)

	// Current state
	ch     rune // current character, -1 for EOF
	choffs int  // byte offset of ch in buf (len(buf) at EOF)
	offs   int  // byte offset of the character after ch

	// Error handling
	errh func(line, col uint32, offs int, msg string)
}

// newSource creates a new source from an io.Reader.
// The entire content is read into memory.
// The errh function is called for each error; if nil, errors are silently ignored.
func newSource(filename string, src io.Reader, errh func(line, col uint32, offs int, msg string)) *source {
	s := &source{
		filename: filename,
		line:     1,
		col:      0,  // incremented to 1 by the first nextch()
		ch:       -1, // sentinel: "before first char"
		errh:     errh,
	}

	var err error
	s.buf, err = io.ReadAll(src)
	if err != nil {
		s.error("error reading input: " + err.Error())
		s.ch = -1
		return s
	}

	s.nextch()
	return s
}

// nextch reads the next character and updates the position.
// Sets s.ch to -1 at EOF.
//
// (line, col) always refers to the position of s.ch after nextch() returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.choffs = s.offs
	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && width == 1 {
		s.error("invalid UTF-8 encoding")
	}

	s.ch = r
	s.offs += width
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// error reports a lexical error at the current position.
func (s *source) error(msg string) {
	s.errorAt(s.line, s.col, s.choffs, msg)
}

// errorAt reports a lexical error at line:col, byte offset offs.
func (s *source) errorAt(line, col uint32, offs int, msg string) {
	if s.errh != nil {
		s.errh(line, col, offs, msg)
	}
}

// text returns the input bytes in [start, end) as a string.
func (s *source) text(start, end int) string {
	return string(s.buf[start:end])
}

// Character classification helpers

// isLetter reports whether r is a letter (a-z, A-Z, or _).
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isWhitespace reports whether r is a whitespace character.
// Type expressions may span lines, so newline counts as whitespace.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// isOperatorStart reports whether r can start a punctuation token.
func isOperatorStart(r rune) bool {
	switch r {
	case '&', '*', '<', '>', '(', ')', '[', ']', ',', ';', ':', '-':
		return true
	}
	return false
}
