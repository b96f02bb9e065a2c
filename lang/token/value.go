package token

import "fmt"

// Value carries the scanned lexeme alongside its token kind and position.
// Only Token.INT tokens populate Int; all tokens populate Raw and Pos.
type Value struct {
	Raw string
	Pos Pos
	Int int64
}

// Position is the human-readable, file-qualified counterpart to Pos.
type Position struct {
	Filename string
	Line     int
	Col      int
}

func (p Position) String() string {
	if p.Line == 0 {
		return p.Filename
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
}

// IsValid reports whether the position carries known line/column
// information.
func (p Position) IsValid() bool { return p.Line > 0 && p.Col > 0 }
