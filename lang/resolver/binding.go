package resolver

import (
	"fmt"

	"github.com/jaugustosaba/madjit/lang/ast"
	"github.com/jaugustosaba/madjit/lang/types"
)

// Kind says what kind of declaration a Binding points back to.
type Kind uint8

const (
	// Undefined means the identifier could not be resolved to any
	// declaration in scope.
	Undefined Kind = iota
	// FParam binds to a procedure's formal parameter.
	FParam
	// Var binds to a procedure-local variable (including a for-loop's
	// control variable, which is just an ordinary Var).
	Var
	// Proc binds to a procedure or function declaration.
	Proc
	// BuiltinType binds to a builtin type name (only "integer" exists).
	BuiltinType
)

var kindNames = [...]string{
	Undefined:   "undefined",
	FParam:      "fparam",
	Var:         "var",
	Proc:        "proc",
	BuiltinType: "type",
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return fmt.Sprintf("<invalid Kind %d>", k)
	}
	return kindNames[k]
}

// Binding ties an identifier occurrence to the declaration it refers to.
// It is the Go counterpart of the original program's Bind struct (a node
// in Context's linked association list).
type Binding struct {
	Kind Kind
	Name string

	// Index records the 0-based position into the owning procedure's
	// FParams (Kind==FParam) or Vars (Kind==Var); it is the slot number the
	// bytecode lowering and JIT address a local by. Zero for Proc and
	// BuiltinType bindings.
	Index int

	FParam *ast.FParam // set iff Kind == FParam
	Var    *ast.VarDecl // set iff Kind == Var
	Proc   *ProcInfo    // set iff Kind == Proc
	Type   *types.Type  // set for BuiltinType bindings, and for FParam and Var bindings once typecheck runs
}

// ProcInfo is the resolver's view of a single procedure declaration: its
// name binding plus enough bookkeeping for the later type-checking and
// lowering passes to find its formal parameters and locals without
// re-walking the AST.
type ProcInfo struct {
	Decl    *ast.ProcDecl
	NID     int // 0-based declaration order, used as the PROC instruction operand
	FParams []*Binding
	Vars    []*Binding
	Type    *types.Type // attached by the type checker
}
