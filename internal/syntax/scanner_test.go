package syntax

import (
	"fmt"
	"strings"
	"testing"
)

// scanAll scans src and returns the tokens and literals up to and
// including EOF, plus any lexical errors.
func scanAll(t *testing.T, src string) ([]Token, []string, []string) {
	t.Helper()
	var errs []string
	errh := func(line, col uint32, offs int, msg string) {
		errs = append(errs, fmt.Sprintf("%s@%d: %s", NewPos("", line, col), offs, msg))
	}
	s := NewScanner("", strings.NewReader(src), errh)

	var toks []Token
	var lits []string
	for i := 0; i < 100; i++ {
		s.Next()
		toks = append(toks, s.Token())
		lits = append(lits, s.Literal())
		if s.Token().IsEOF() {
			break
		}
	}
	return toks, lits, errs
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		tokens []Token
		lits   []string
	}{
		{"ident", "String", []Token{_Name, _EOF}, []string{"String", ""}},
		{"ident_digits", "u8", []Token{_Name, _EOF}, []string{"u8", ""}},
		{"underscore", "_", []Token{_Name, _EOF}, []string{"_", ""}},
		{"lifetime", "'a", []Token{_Lifetime, _EOF}, []string{"'a", ""}},
		{"lifetime_static", "'static", []Token{_Lifetime, _EOF}, []string{"'static", ""}},
		{"lifetime_anon", "'_", []Token{_Lifetime, _EOF}, []string{"'_", ""}},
		{"number", "32", []Token{_Number, _EOF}, []string{"32", ""}},
		{"number_suffix", "4usize", []Token{_Number, _EOF}, []string{"4usize", ""}},
		{"keywords", "impl dyn as mut const fn",
			[]Token{_Impl, _Dyn, _As, _Mut, _Const, _Fn, _EOF},
			[]string{"impl", "dyn", "as", "mut", "const", "fn", ""}},
		{"generic", "Vec<String>",
			[]Token{_Name, _Lss, _Name, _Gtr, _EOF},
			[]string{"Vec", "<", "String", ">", ""}},
		{"nested_close", "A<B<C>>",
			[]Token{_Name, _Lss, _Name, _Lss, _Name, _Gtr, _Gtr, _EOF},
			[]string{"A", "<", "B", "<", "C", ">", ">", ""}},
		{"path", "std::vec::Vec",
			[]Token{_Name, _Path, _Name, _Path, _Name, _EOF},
			[]string{"std", "::", "vec", "::", "Vec", ""}},
		{"reference", "&'a mut T",
			[]Token{_Amp, _Lifetime, _Mut, _Name, _EOF},
			[]string{"&", "'a", "mut", "T", ""}},
		{"closure", "Fn(u8) -> ()",
			[]Token{_Name, _Lparen, _Name, _Rparen, _Arrow, _Lparen, _Rparen, _EOF},
			[]string{"Fn", "(", "u8", ")", "->", "(", ")", ""}},
		{"array", "[u8; 4]",
			[]Token{_Lbrack, _Name, _Semi, _Number, _Rbrack, _EOF},
			[]string{"[", "u8", ";", "4", "]", ""}},
		{"pointer", "*const T,",
			[]Token{_Star, _Const, _Name, _Comma, _EOF},
			[]string{"*", "const", "T", ",", ""}},
		{"multiline", "Vec<\n  String\n>",
			[]Token{_Name, _Lss, _Name, _Gtr, _EOF},
			[]string{"Vec", "<", "String", ">", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, lits, errs := scanAll(t, tt.src)
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if len(toks) != len(tt.tokens) {
				t.Fatalf("got %d tokens %v, want %d %v", len(toks), toks, len(tt.tokens), tt.tokens)
			}
			for i := range toks {
				if toks[i] != tt.tokens[i] {
					t.Errorf("token[%d] = %v, want %v", i, toks[i], tt.tokens[i])
				}
				if lits[i] != tt.lits[i] {
					t.Errorf("lit[%d] = %q, want %q", i, lits[i], tt.lits[i])
				}
			}
		})
	}
}

func TestScanOffsets(t *testing.T) {
	s := NewScanner("", strings.NewReader("  Vec <\tu8>"), nil)

	want := [][2]int{{2, 5}, {6, 7}, {8, 10}, {10, 11}, {11, 11}}
	for i, w := range want {
		s.Next()
		start, end := s.Offsets()
		if start != w[0] || end != w[1] {
			t.Errorf("token %d (%v): offsets = [%d, %d), want [%d, %d)", i, s.Token(), start, end, w[0], w[1])
		}
	}
}

func TestScanPositions(t *testing.T) {
	s := NewScanner("", strings.NewReader("Vec<\n  String>"), nil)

	want := []string{"1:1", "1:4", "2:3", "2:9"}
	for i, w := range want {
		s.Next()
		if got := s.Pos().String(); got != w {
			t.Errorf("token %d (%v): pos = %s, want %s", i, s.Token(), got, w)
		}
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"single_colon", "a:b", "1:2@1: unexpected character ':' (did you mean '::'?)"},
		{"single_dash", "-", "1:1@0: unexpected character '-' (did you mean '->'?)"},
		{"spaced_dash", "Fn() - u8", "1:6@5: unexpected character '-' (did you mean '->'?)"},
		{"bad_char", "Vec{}", "1:4@3: unexpected character '{'"},
		{"bare_quote", "' a", "1:1@0: lifetime name expected after '"},
		{"empty_lifetime", "Vec<'>", "1:5@4: lifetime name expected after '"},
		{"second_line", "Vec<\n  a:b>", "2:4@8: unexpected character ':' (did you mean '::'?)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, errs := scanAll(t, tt.src)
			if len(errs) == 0 {
				t.Fatal("expected an error")
			}
			if errs[0] != tt.wantErr {
				t.Errorf("error = %q, want %q", errs[0], tt.wantErr)
			}
		})
	}
}
