package compiler

import (
	"fmt"

	"github.com/jaugustosaba/madjit/lang/ast"
	"github.com/jaugustosaba/madjit/lang/resolver"
	"github.com/jaugustosaba/madjit/lang/token"
	"github.com/jaugustosaba/madjit/lang/typecheck"
)

// Lower compiles a resolved, type-checked program into a bytecode Program.
// It fails only when no procedure named "main" exists; every other input
// is assumed to already be name-resolved and type-checked (code-gen.c
// never re-validates what earlier phases already verified).
//
// Unlike the original, which builds each procedure's instructions as a
// backward-linked list and only discovers pc indices once the list is
// materialized into an array, this builder appends directly to a slice and
// hands back the pc of each emitted instruction, so branch targets (the
// for-loop's JLT, and JMP back to the loop head) are recorded and patched
// without a second indexing pass.
func Lower(prog *ast.Prog, res *resolver.Result, tc *typecheck.Result) (*Program, error) {
	out := &Program{Entry: -1}
	for _, info := range res.ProcOrder {
		c := &compilerCtx{res: res, tc: tc, info: info}
		proc := c.lowerProc()
		out.Procs = append(out.Procs, proc)
		if proc.Name == "main" {
			out.Entry = len(out.Procs) - 1
		}
	}
	if out.Entry < 0 {
		return nil, fmt.Errorf("compiler: no procedure named %q found", "main")
	}
	return out, nil
}

type compilerCtx struct {
	res  *resolver.Result
	tc   *typecheck.Result
	info *resolver.ProcInfo
	code []Instruction
}

func (c *compilerCtx) pc() int { return len(c.code) }

func (c *compilerCtx) emit(op Opcode) int {
	c.code = append(c.code, Instruction{Op: op})
	return c.pc() - 1
}

func (c *compilerCtx) emitArg(op Opcode, arg int32) int {
	c.code = append(c.code, Instruction{Op: op, Arg: arg})
	return c.pc() - 1
}

func (c *compilerCtx) patchArg(pc int, arg int32) {
	c.code[pc].Arg = arg
}

func (c *compilerCtx) lowerProc() *Proc {
	decl := c.info.Decl

	// Procedure prologue: zero-push one slot per local variable, in
	// declaration order, reserving the frame's local storage.
	for range c.info.Vars {
		c.emitArg(PUSH, 0)
	}

	c.lowerBlock(decl.Body)

	// The original never emits a fall-through RETV for a void procedure
	// that lacks an explicit `return`; execution then runs past the end
	// of the instruction array. madjit mitigates this (a documented
	// deviation, see DESIGN.md) by synthesizing a trailing RETV so every
	// void procedure returns control to its caller. A function (one with a
	// return type) gets no synthesized return.
	if decl.ReturnType == "" && (len(c.code) == 0 || !isTerminalReturn(c.code[len(c.code)-1])) {
		c.emitArg(RETV, int32(len(c.info.FParams)))
	}

	return &Proc{
		Name:        decl.Name,
		NID:         c.info.NID,
		FParamCount: len(c.info.FParams),
		VarCount:    len(c.info.Vars),
		IsFunction:  decl.ReturnType != "",
		Code:        c.code,
	}
}

func isTerminalReturn(instr Instruction) bool { return instr.Op == RET || instr.Op == RETV }

func (c *compilerCtx) lowerBlock(block *ast.Block) {
	for _, stmt := range block.Stmts {
		c.lowerStmt(stmt)
	}
}

func (c *compilerCtx) lowerStmt(stmt ast.Stmt) {
	switch st := stmt.(type) {
	case *ast.AssignStmt:
		c.lowerExpr(st.Right, true)
		c.lowerExpr(st.Left, false)
		c.emit(STORE)

	case *ast.ForStmt:
		c.lowerFor(st)

	case *ast.ReturnStmt:
		n := int32(len(c.info.FParams))
		if st.Expr != nil {
			c.lowerExpr(st.Expr, true)
			c.emitArg(RET, n)
		} else {
			c.emitArg(RETV, n)
		}

	case *ast.ExprStmt:
		call := st.X.(*ast.CallExpr)
		c.lowerExpr(call, true)
		if c.callReturnsValue(call) {
			c.emit(POP)
		}

	default:
		panic(fmt.Sprintf("compiler: unhandled statement type %T", stmt))
	}
}

// lowerFor implements the §4.4 for-loop lowering: store `from` into the
// loop variable, then loop testing `to - i < 0` before each iteration,
// incrementing i and jumping back to the head after the body runs.
func (c *compilerCtx) lowerFor(st *ast.ForStmt) {
	bind := c.res.ForVars[st]
	idx := int32(bind.Index)

	c.lowerExpr(st.From, true)
	c.emitArg(VAR, idx)
	c.emit(STORE)

	c.lowerExpr(st.To, true)
	pcHead := c.pc()
	c.emit(DUP)
	c.emitArg(VAR, idx)
	c.emit(LOAD)
	c.emit(CMP)
	jltPC := c.emitArg(JLT, 0)

	c.lowerBlock(st.Body)

	c.emitArg(VAR, idx)
	c.emit(INC)
	c.emitArg(JMP, int32(pcHead))

	exitPC := c.pc()
	c.emit(POP)
	c.patchArg(jltPC, int32(exitPC))
}

// lowerExpr lowers expr. When rvalue is true, identifiers denoting a
// parameter or local are dereferenced with a trailing LOAD; when false,
// the expression must be an assignable address (an *ast.IdentExpr bound to
// a parameter or a local) and the LOAD is omitted so the address itself is
// left on the stack.
func (c *compilerCtx) lowerExpr(expr ast.Expr, rvalue bool) {
	switch e := expr.(type) {
	case *ast.IdentExpr:
		bind := c.res.Idents[e]
		switch bind.Kind {
		case resolver.FParam:
			c.emitArg(PARAM, int32(bind.Index))
			if rvalue {
				c.emit(LOAD)
			}
		case resolver.Var:
			c.emitArg(VAR, int32(bind.Index))
			if rvalue {
				c.emit(LOAD)
			}
		case resolver.Proc:
			c.emitArg(PROC, int32(bind.Proc.NID))
		default:
			panic(fmt.Sprintf("compiler: identifier %q has no addressable binding", e.Name))
		}

	case *ast.NumberExpr:
		c.emitArg(PUSH, int32(e.Value))

	case *ast.BinaryExpr:
		c.lowerExpr(e.Left, true)
		c.lowerExpr(e.Right, true)
		if e.Op == token.MULT {
			c.emit(MUL)
		} else {
			c.emit(ADD)
		}

	case *ast.CallExpr:
		for i := len(e.Args) - 1; i >= 0; i-- {
			c.lowerExpr(e.Args[i], true)
		}
		c.lowerExpr(e.Proc, false)
		if c.callReturnsValue(e) {
			c.emit(CALL)
		} else {
			c.emit(CALLV)
		}

	default:
		panic(fmt.Sprintf("compiler: unhandled expression type %T", expr))
	}
}

func (c *compilerCtx) callReturnsValue(call *ast.CallExpr) bool {
	at := c.tc.Exprs[call]
	return at != nil && at.Type != nil
}
