package token

import "testing"

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		if tok.String() == "" {
			t.Errorf("missing string representation of token %d", tok)
		}
	}
}

func TestLookupIdent(t *testing.T) {
	for tok := PROCEDURE; tok <= RETURN; tok++ {
		if got := LookupIdent(tok.String()); got != tok {
			t.Errorf("LookupIdent(%q) = %v, want %v", tok.String(), got, tok)
		}
	}
	if got := LookupIdent("notakeyword"); got != IDENT {
		t.Errorf("LookupIdent(notakeyword) = %v, want IDENT", got)
	}
}

func TestIsKeyword(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		want := tok >= PROCEDURE && tok <= RETURN
		if got := tok.IsKeyword(); got != want {
			t.Errorf("%v.IsKeyword() = %t, want %t", tok, got, want)
		}
	}
}
