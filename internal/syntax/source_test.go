package syntax

import (
	"strings"
	"testing"
)

func TestSourceOffsets(t *testing.T) {
	src := newSource("test", strings.NewReader("a中b"), nil)

	want := []struct {
		ch     rune
		choffs int
		col    uint32
	}{
		{'a', 0, 1},
		{'中', 1, 2}, // 3 bytes in UTF-8
		{'b', 4, 3},
		{-1, 5, 4},
	}

	for i, w := range want {
		if src.ch != w.ch || src.choffs != w.choffs || src.col != w.col {
			t.Errorf("step %d: got ch=%q choffs=%d col=%d, want ch=%q choffs=%d col=%d",
				i, src.ch, src.choffs, src.col, w.ch, w.choffs, w.col)
		}
		src.nextch()
	}
}

func TestSourceNewline(t *testing.T) {
	src := newSource("test", strings.NewReader("a\nb"), nil)

	src.nextch() // '\n' at 1:2
	src.nextch() // 'b' at 2:1
	if src.ch != 'b' || src.line != 2 || src.col != 1 {
		t.Errorf("got ch=%q pos=%d:%d, want ch='b' pos=2:1", src.ch, src.line, src.col)
	}
}

func TestSourceEmpty(t *testing.T) {
	src := newSource("test", strings.NewReader(""), nil)
	if src.ch != -1 {
		t.Errorf("ch = %d, want -1 (EOF)", src.ch)
	}
}

func TestSourceText(t *testing.T) {
	src := newSource("test", strings.NewReader("Vec<u8>"), nil)
	if got := src.text(0, 3); got != "Vec" {
		t.Errorf("text(0, 3) = %q, want %q", got, "Vec")
	}
}

func TestSourceError(t *testing.T) {
	var errMsg string
	var errLine, errCol uint32
	errOffs := -1

	errh := func(line, col uint32, offs int, msg string) {
		errLine, errCol, errOffs, errMsg = line, col, offs, msg
	}

	src := newSource("test", strings.NewReader("a"), errh)
	src.error("test error")

	if errMsg != "test error" {
		t.Errorf("error message = %q, want %q", errMsg, "test error")
	}
	if errLine != 1 || errCol != 1 || errOffs != 0 {
		t.Errorf("error pos = %d:%d@%d, want 1:1@0", errLine, errCol, errOffs)
	}

	// Must not panic without a handler.
	newSource("test", strings.NewReader("a"), nil).error("ignored")
}

func TestCharClasses(t *testing.T) {
	for _, r := range []rune{'a', 'z', 'A', 'Z', '_'} {
		if !isLetter(r) {
			t.Errorf("isLetter(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'0', ' ', '\'', '中'} {
		if isLetter(r) {
			t.Errorf("isLetter(%q) = true, want false", r)
		}
	}

	for _, r := range []rune{' ', '\t', '\r', '\n'} {
		if !isWhitespace(r) {
			t.Errorf("isWhitespace(%q) = false, want true", r)
		}
	}

	for _, r := range []rune{'&', '*', '<', '>', '(', ')', '[', ']', ',', ';', ':', '-'} {
		if !isOperatorStart(r) {
			t.Errorf("isOperatorStart(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'+', '{', '.', '\'', 'a', '#'} {
		if isOperatorStart(r) {
			t.Errorf("isOperatorStart(%q) = true, want false", r)
		}
	}
}
