package lexer

import "testing"

func tokenKinds(t *testing.T, src string) []TokenKind {
	t.Helper()
	l := New(src, "test.zn")
	var kinds []TokenKind
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == EOF {
			break
		}
	}
	return kinds
}

func TestLexBasicProgram(t *testing.T) {
	got := tokenKinds(t, `let s = "a" + 1 + true;`)
	want := []TokenKind{KwLet, Ident, Eq, String, Plus, Int, Plus, KwTrue, Semicolon, EOF}
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLexOperators(t *testing.T) {
	got := tokenKinds(t, `+= -= *= /= %= == != <= >= && || ++ -- ?`)
	want := []TokenKind{PlusEq, MinusEq, StarEq, SlashEq, PercentEq, EqEq, NotEq, LtEq, GtEq, AndAnd, OrOr, PlusPlus, MinusMinus, Question, EOF}
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestLexCharEscapes(t *testing.T) {
	l := New(`'\n' '\t' '\''`, "test.zn")
	want := []byte{'\n', '\t', '\''}
	for _, w := range want {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Kind != Char || tok.CharVal != w {
			t.Fatalf("got %+v, want char %q", tok, w)
		}
	}
}

func TestLexKeywords(t *testing.T) {
	got := tokenKinds(t, "struct class weak const extern func if else while for break continue return")
	want := []TokenKind{KwStruct, KwClass, KwWeak, KwConst, KwExtern, KwFunc, KwIf, KwElse, KwWhile, KwFor, KwBreak, KwContinue, KwReturn, EOF}
	if len(got) != len(want) {
		t.Fatalf("mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestLexBitwiseRejected(t *testing.T) {
	l := New("a & b", "test.zn")
	if _, err := l.Next(); err != nil {
		t.Fatalf("unexpected error on ident: %v", err)
	}
	if _, err := l.Next(); err == nil {
		t.Fatalf("expected error for bare '&'")
	}
}
