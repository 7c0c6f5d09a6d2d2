package scanner

import "testing"

func collect(t *testing.T, src string) []Token {
	t.Helper()
	s := New(src)
	var out []Token
	for {
		tok := s.Next()
		out = append(out, tok)
		if tok.Type == EOF || tok.Type == ERROR {
			break
		}
	}
	return out
}

func TestScannerPunctuationAndKeywords(t *testing.T) {
	toks := collect(t, "var x = 1 + 2;")
	want := []TokenType{VAR, IDENTIFIER, EQUAL, NUMBER, PLUS, NUMBER, SEMICOLON, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %v, want %v (%q)", i, toks[i].Type, tt, toks[i].Lexeme)
		}
	}
}

func TestScannerString(t *testing.T) {
	toks := collect(t, `"hello world"`)
	if toks[0].Type != STRING || toks[0].Lexeme != `"hello world"` {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestScannerUnterminatedString(t *testing.T) {
	toks := collect(t, `"hello`)
	if toks[0].Type != ERROR {
		t.Fatalf("expected ERROR token, got %+v", toks[0])
	}
}

func TestScannerNumber(t *testing.T) {
	for _, src := range []string{"123", "3.14", "0.5"} {
		toks := collect(t, src)
		if toks[0].Type != NUMBER || toks[0].Lexeme != src {
			t.Errorf("src %q: got %+v", src, toks[0])
		}
	}
}

func TestScannerLineComment(t *testing.T) {
	toks := collect(t, "1 // comment\n2")
	if len(toks) != 3 || toks[0].Type != NUMBER || toks[1].Type != NUMBER || toks[1].Line != 2 {
		t.Fatalf("got %+v", toks)
	}
}

func TestScannerKeywordVsIdentifier(t *testing.T) {
	toks := collect(t, "forest fun")
	if toks[0].Type != IDENTIFIER {
		t.Errorf("expected IDENTIFIER for 'forest', got %v", toks[0].Type)
	}
	if toks[1].Type != FUN {
		t.Errorf("expected FUN for 'fun', got %v", toks[1].Type)
	}
}

func TestScannerLineTracking(t *testing.T) {
	toks := collect(t, "var a = 1;\nvar b = 2;")
	if toks[0].Line != 1 {
		t.Fatalf("expected line 1, got %d", toks[0].Line)
	}
	var bTok Token
	for _, tok := range toks {
		if tok.Type == IDENTIFIER && tok.Lexeme == "b" {
			bTok = tok
		}
	}
	if bTok.Line != 2 {
		t.Fatalf("expected 'b' on line 2, got %d", bTok.Line)
	}
}
