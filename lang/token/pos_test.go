package token

import "testing"

func TestMakePosLineCol(t *testing.T) {
	cases := []struct{ line, col int }{
		{1, 1},
		{1, 20},
		{42, 7},
		{MaxLines, MaxCols},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		if gotLine != c.line || gotCol != c.col {
			t.Errorf("MakePos(%d, %d).LineCol() = (%d, %d)", c.line, c.col, gotLine, gotCol)
		}
		if p.Unknown() {
			t.Errorf("MakePos(%d, %d).Unknown() = true, want false", c.line, c.col)
		}
	}
}

func TestPosUnknown(t *testing.T) {
	var zero Pos
	if !zero.Unknown() {
		t.Errorf("zero Pos.Unknown() = false, want true")
	}
	if !MakePos(0, 3).Unknown() {
		t.Errorf("MakePos(0, 3).Unknown() = false, want true")
	}
	if !MakePos(3, 0).Unknown() {
		t.Errorf("MakePos(3, 0).Unknown() = false, want true")
	}
}
