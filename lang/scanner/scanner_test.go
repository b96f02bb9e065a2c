package scanner_test

import (
	"testing"

	"github.com/jaugustosaba/madjit/lang/scanner"
	"github.com/jaugustosaba/madjit/lang/token"
	"github.com/stretchr/testify/require"
)

func TestScanFile(t *testing.T) {
	src := `procedure fact(n: integer): integer var r: integer begin
  r := 1;
  for i := 1 to n do
    r := r * i;
  done
  return r;
end fact;
`
	toks, err := scanner.ScanFile("fact.mad", []byte(src))
	require.NoError(t, err)

	var kinds []token.Token
	for _, tv := range toks {
		kinds = append(kinds, tv.Token)
	}
	require.Equal(t, token.EOF, kinds[len(kinds)-1])
	require.Contains(t, kinds, token.PROCEDURE)
	require.Contains(t, kinds, token.FOR)
	require.Contains(t, kinds, token.ASSIGN)
	require.Contains(t, kinds, token.RETURN)
}

func TestScanFileIllegalCharacter(t *testing.T) {
	_, err := scanner.ScanFile("bad.mad", []byte("procedure p() begin return 1 @ end p;"))
	require.Error(t, err)
}

func TestScanFileLongIdentifier(t *testing.T) {
	// the original lexer capped identifiers at MAX_LEXEME_SIZE (20); madjit's
	// scanner intentionally has no such limit.
	name := "a_very_long_identifier_name_well_past_twenty_chars"
	toks, err := scanner.ScanFile("long.mad", []byte(name))
	require.NoError(t, err)
	require.Equal(t, name, toks[0].Value.Raw)
}
