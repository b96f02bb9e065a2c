// Package types implements madjit's (deliberately tiny) static type
// system: the single scalar Integer type and the Proc type synthesized for
// every procedure/function declaration, along with the actual-type
// attachment (type, lvalue-ness, constant-ness) the type checker assigns
// to every expression.
package types

import "fmt"

// Kind distinguishes the two shapes a Type can take.
type Kind int

const (
	// Uninitialized marks a Type value that has not yet been resolved.
	Uninitialized Kind = iota
	// KindInteger is the language's only scalar type.
	KindInteger
	// KindProc is the type of a procedure or function value.
	KindProc
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindProc:
		return "proc"
	default:
		return "uninitialized"
	}
}

// Type represents a resolved type: either the builtin Integer or a Proc
// type built from a procedure's formal parameter and return types.
type Type struct {
	Kind Kind
	Proc *ProcType // set iff Kind == KindProc
}

// ProcType describes the call signature of a procedure or function.
type ProcType struct {
	FParams    []*Type
	ReturnType *Type // nil for a void procedure
}

// Integer is the single builtin scalar type, analogous to the original
// program's global INTEGER singleton.
var Integer = &Type{Kind: KindInteger}

// Equal reports whether two types are structurally identical: same kind,
// and for Proc types, identical parameter types (by identity, since every
// declared type is interned to a single *Type) and return type.
func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil || t.Kind != other.Kind {
		return false
	}
	if t.Kind != KindProc {
		return true
	}
	a, b := t.Proc, other.Proc
	if len(a.FParams) != len(b.FParams) {
		return false
	}
	for i, fp := range a.FParams {
		if !fp.Equal(b.FParams[i]) {
			return false
		}
	}
	if (a.ReturnType == nil) != (b.ReturnType == nil) {
		return false
	}
	return a.ReturnType == nil || a.ReturnType.Equal(b.ReturnType)
}

func (t *Type) String() string {
	if t == nil {
		return "void"
	}
	if t.Kind != KindProc {
		return t.Kind.String()
	}
	ret := "void"
	if t.Proc.ReturnType != nil {
		ret = t.Proc.ReturnType.String()
	}
	return fmt.Sprintf("proc(%d) -> %s", len(t.Proc.FParams), ret)
}

// ActualType is the (type, lvalue, constant) triple the type checker
// attaches to every expression and to every declared binding (formal
// parameter, local variable, procedure name).
type ActualType struct {
	Type     *Type
	LValue   bool
	Constant bool
}
