package ast

import (
	"fmt"

	"github.com/jaugustosaba/madjit/lang/token"
)

type (
	// Prog is the root of the AST: the ordered list of procedure
	// declarations that make up a source file.
	Prog struct {
		Name  string // filename, may be empty
		Procs []*ProcDecl
		EOF   token.Pos
	}

	// FParam is a single formal parameter of a procedure: name and declared
	// type name (always "integer" in this language, but kept as an
	// identifier to mirror how the original grammar spells it).
	FParam struct {
		Name     string
		NamePos  token.Pos
		Type     string
		TypePos  token.Pos
		NID      int // 0-based index among the procedure's formal parameters
	}

	// VarDecl is a single local variable declaration.
	VarDecl struct {
		Name    string
		NamePos token.Pos
		Type    string
		TypePos token.Pos
		NID     int // 0-based index among the procedure's local variables
	}

	// ProcDecl is a single procedure (or function, when ReturnType is
	// non-empty) declaration.
	ProcDecl struct {
		Proc       token.Pos
		Name       string
		NamePos    token.Pos
		FParams    []*FParam
		ReturnType string // empty for a void procedure
		ReturnPos  token.Pos
		Vars       []*VarDecl
		Body       *Block
		EndName    string
		EndPos     token.Pos
		// NameMismatch is set when the trailing `end <name>;` identifier
		// equals Name. Nothing downstream relies on it; it is purely a
		// diagnostic the driver can surface.
		NameMismatch bool
		Semi         token.Pos
	}

	// Block is an ordered sequence of statements.
	Block struct {
		Start token.Pos
		End   token.Pos
		Stmts []Stmt
	}
)

func (n *FParam) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("fparam %s: %s", n.Name, n.Type), nil)
}
func (n *FParam) Span() (start, end token.Pos) { return n.NamePos, n.TypePos }
func (n *FParam) Walk(_ Visitor)                {}

func (n *VarDecl) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("var %s: %s", n.Name, n.Type), nil)
}
func (n *VarDecl) Span() (start, end token.Pos) { return n.NamePos, n.TypePos }
func (n *VarDecl) Walk(_ Visitor)                {}

func (n *ProcDecl) Format(f fmt.State, verb rune) {
	label := "procedure " + n.Name
	if n.ReturnType != "" {
		label = "function " + n.Name
	}
	format(f, verb, n, label, map[string]int{
		"fparams": len(n.FParams),
		"vars":    len(n.Vars),
		"stmts":   len(n.Body.Stmts),
	})
}
func (n *ProcDecl) Span() (start, end token.Pos) { return n.Proc, n.Semi }
func (n *ProcDecl) Walk(v Visitor) {
	if n.Body != nil {
		Walk(v, n.Body)
	}
}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

func (n *Prog) Format(f fmt.State, verb rune) {
	format(f, verb, n, "prog", map[string]int{"procs": len(n.Procs)})
}
func (n *Prog) Span() (start, end token.Pos) {
	if len(n.Procs) == 0 {
		return n.EOF, n.EOF
	}
	start, _ = n.Procs[0].Span()
	return start, n.EOF
}
func (n *Prog) Walk(v Visitor) {
	for _, p := range n.Procs {
		Walk(v, p)
	}
}
