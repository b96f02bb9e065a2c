package ast

import (
	"fmt"

	"github.com/jaugustosaba/madjit/lang/token"
)

type (
	// BinaryExpr represents a binary expression, e.g. x + y or x * y.
	BinaryExpr struct {
		Left  Expr
		OpPos token.Pos
		Op    token.Token // ADD or MULT
		Right Expr
	}

	// IdentExpr represents an identifier reference: a formal parameter, a
	// local variable, or a procedure/function name being called.
	IdentExpr struct {
		Name string
		Pos  token.Pos
	}

	// NumberExpr represents an integer literal.
	NumberExpr struct {
		Pos   token.Pos
		Raw   string
		Value int64
	}

	// CallExpr represents a procedure or function call. Proc is usually an
	// *IdentExpr naming the callee, but a chained call such as f(x)(y)
	// nests a *CallExpr here too.
	CallExpr struct {
		Proc   Expr
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}
)

func (*BinaryExpr) expr() {}
func (*IdentExpr) expr()  {}
func (*NumberExpr) expr() {}
func (*CallExpr) expr()   {}

func (n *BinaryExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Op.String(), nil) }
func (n *BinaryExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

func (n *IdentExpr) Format(f fmt.State, verb rune)  { format(f, verb, n, n.Name, nil) }
func (n *IdentExpr) Span() (start, end token.Pos)   { return n.Pos, n.Pos }
func (n *IdentExpr) Walk(_ Visitor)                 {}

func (n *NumberExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Raw, nil) }
func (n *NumberExpr) Span() (start, end token.Pos)  { return n.Pos, n.Pos }
func (n *NumberExpr) Walk(_ Visitor)                {}

func (n *CallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call", map[string]int{"args": len(n.Args)})
}
func (n *CallExpr) Span() (start, end token.Pos) {
	start, _ = n.Proc.Span()
	return start, n.Rparen
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Proc)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
