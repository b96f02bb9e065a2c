package ast

import (
	"fmt"

	"github.com/jaugustosaba/madjit/lang/token"
)

type (
	// AssignStmt represents an assignment statement, e.g. x := y + z.
	AssignStmt struct {
		Left   Expr // any expression; the type checker rejects non-assignable ones
		Assign token.Pos
		Right  Expr
	}

	// ForStmt represents a `for id := from to to do ... done` loop. The loop
	// variable must be an already-declared local integer variable.
	ForStmt struct {
		For     token.Pos
		Name    string
		NamePos token.Pos
		From    Expr
		To      Expr
		Body    *Block
		Done    token.Pos
	}

	// ReturnStmt represents a `return [expr];` statement. Expr is nil for a
	// void procedure's bare `return;`.
	ReturnStmt struct {
		Return token.Pos
		Expr   Expr
		Semi   token.Pos
	}

	// ExprStmt is an expression used as a statement, which is only valid for
	// procedure calls.
	ExprStmt struct {
		X Expr // always *CallExpr
	}
)

func (n *AssignStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "assign", nil) }
func (n *AssignStmt) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *AssignStmt) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (*AssignStmt) BlockEnding() bool { return false }

func (n *ForStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "for "+n.Name, map[string]int{"stmts": len(n.Body.Stmts)})
}
func (n *ForStmt) Span() (start, end token.Pos) { return n.For, n.Done }
func (n *ForStmt) Walk(v Visitor) {
	Walk(v, n.From)
	Walk(v, n.To)
	Walk(v, n.Body)
}
func (*ForStmt) BlockEnding() bool { return false }

func (n *ReturnStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "return", nil) }
func (n *ReturnStmt) Span() (start, end token.Pos)  { return n.Return, n.Semi }
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Expr != nil {
		Walk(v, n.Expr)
	}
}
func (*ReturnStmt) BlockEnding() bool { return true }

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "exprstmt", nil) }
func (n *ExprStmt) Span() (start, end token.Pos)  { return n.X.Span() }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.X) }
func (*ExprStmt) BlockEnding() bool                { return false }
