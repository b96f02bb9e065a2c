// Package typecheck implements madjit's two-phase static type checking:
// first every declared formal parameter, local variable and return type
// is attached to its resolved types.Type (attach_types in the original),
// then every statement and expression in every procedure body is checked
// (type_check in the original).
//
// The language has exactly one scalar type, so most of what this package
// checks is shape (lvalue-ness, arity, "is this actually a proc") rather
// than numeric promotion rules.
package typecheck

import (
	"fmt"

	"github.com/jaugustosaba/madjit/lang/ast"
	"github.com/jaugustosaba/madjit/lang/resolver"
	"github.com/jaugustosaba/madjit/lang/scanner"
	"github.com/jaugustosaba/madjit/lang/token"
	"github.com/jaugustosaba/madjit/lang/types"
)

// Result is the output of a successful type-checking pass: the actual
// type attached to every expression node.
type Result struct {
	Exprs map[ast.Expr]*types.ActualType
}

type checker struct {
	filename string
	res      *resolver.Result
	errors   scanner.ErrorList
	exprs    map[ast.Expr]*types.ActualType

	// curProc is the declaration whose body checkStmt/checkExpr is
	// currently walking, so a ReturnStmt can be checked against its own
	// procedure's declared return type.
	curProc *ast.ProcDecl
}

// Check type-checks prog using the bindings produced by resolver.Resolve
// and returns the attached actual types, or an error (built by
// scanner.ErrorList.Err) describing every type error found.
func Check(filename string, prog *ast.Prog, res *resolver.Result) (*Result, error) {
	c := &checker{
		filename: filename,
		res:      res,
		exprs:    make(map[ast.Expr]*types.ActualType),
	}

	c.attachTypes(prog)
	for _, info := range res.ProcOrder {
		c.curProc = info.Decl
		c.checkBlock(info.Decl.Body)
	}

	return &Result{Exprs: c.exprs}, c.errors.Err()
}

func (c *checker) error(pos token.Pos, msg string) {
	line, col := pos.LineCol()
	c.errors.Add(token.Position{Filename: c.filename, Line: line, Col: col}, msg)
}

// attachTypes is attach_types: resolve every FParam/Var/return-type
// binding's declared type name to its types.Type, then synthesize each
// procedure's own ProcType.
func (c *checker) attachTypes(prog *ast.Prog) {
	for _, decl := range prog.Procs {
		info := c.res.Procs[decl]

		for _, b := range info.FParams {
			b.Type = types.Integer
		}
		for _, b := range info.Vars {
			b.Type = types.Integer
		}

		var returnType *types.Type
		if decl.ReturnType != "" {
			// attach_return_type in the original unconditionally dereferences
			// the return type binding even for void procedures, which is
			// undefined behavior there; madjit only attaches a return type
			// when one was declared, matching do_return_bind's documented
			// (not its literal) intent.
			returnType = types.Integer
		}

		fparamTypes := make([]*types.Type, len(info.FParams))
		for i, b := range info.FParams {
			fparamTypes[i] = b.Type
		}
		info.Type = &types.Type{
			Kind: types.KindProc,
			Proc: &types.ProcType{FParams: fparamTypes, ReturnType: returnType},
		}
	}
}

func (c *checker) checkBlock(block *ast.Block) {
	for _, stmt := range block.Stmts {
		c.checkStmt(stmt)
	}
}

func (c *checker) checkStmt(stmt ast.Stmt) {
	switch st := stmt.(type) {
	case *ast.AssignStmt:
		lt := c.checkExpr(st.Left)
		rt := c.checkExpr(st.Right)
		if lt == nil || rt == nil {
			return
		}
		if !lt.LValue {
			start, _ := st.Left.Span()
			c.error(start, "left-hand side of assignment is not assignable")
			return
		}
		if lt.Constant {
			start, _ := st.Left.Span()
			c.error(start, "cannot assign to a constant")
			return
		}
		if !lt.Type.Equal(rt.Type) {
			start, _ := st.Right.Span()
			c.error(start, fmt.Sprintf("cannot assign %s to %s", rt.Type, lt.Type))
		}

	case *ast.ForStmt:
		from := c.checkExpr(st.From)
		to := c.checkExpr(st.To)
		if from != nil && from.Type != types.Integer {
			start, _ := st.From.Span()
			c.error(start, "for loop bound must be an integer expression")
		}
		if to != nil && to.Type != types.Integer {
			start, _ := st.To.Span()
			c.error(start, "for loop bound must be an integer expression")
		}
		if b, ok := c.res.ForVars[st]; ok && b.Type != types.Integer {
			c.error(st.NamePos, "for loop variable must be an integer")
		}
		c.checkBlock(st.Body)

	case *ast.ReturnStmt:
		isFunc := c.curProc.ReturnType != ""
		switch {
		case st.Expr != nil && !isFunc:
			start, _ := st.Expr.Span()
			c.error(start, fmt.Sprintf("procedure %q does not return a value", c.curProc.Name))
		case st.Expr == nil && isFunc:
			c.error(st.Return, fmt.Sprintf("function %q must return a value", c.curProc.Name))
		}
		if st.Expr != nil {
			c.checkExpr(st.Expr)
		}

	case *ast.ExprStmt:
		// ExprStmt only ever wraps a procedure call: a bare expression used
		// as a statement is otherwise meaningless. A malformed parse can
		// still produce one around a non-call (parseStmt records a syntax
		// error in that case, but the AST it returns is the best it could
		// build), so this is checked here rather than trusted, the same way
		// compiler.Lower trusts every other shape a resolved, type-checked
		// AST is documented to have.
		if _, ok := st.X.(*ast.CallExpr); !ok {
			start, _ := st.X.Span()
			c.error(start, "expression statement must be a procedure call")
			return
		}
		c.checkExpr(st.X)

	default:
		panic(fmt.Sprintf("typecheck: unhandled statement type %T", stmt))
	}
}

func (c *checker) checkExpr(expr ast.Expr) *types.ActualType {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		lt := c.checkExpr(e.Left)
		rt := c.checkExpr(e.Right)
		if lt == nil || rt == nil {
			return nil
		}
		if lt.Type != types.Integer || rt.Type != types.Integer {
			start, _ := e.Span()
			c.error(start, fmt.Sprintf("operator %s requires integer operands", e.Op))
			return nil
		}
		at := &types.ActualType{Type: types.Integer}
		c.exprs[e] = at
		return at

	case *ast.IdentExpr:
		b, ok := c.res.Idents[e]
		if !ok {
			return nil
		}
		var at *types.ActualType
		switch b.Kind {
		case resolver.FParam:
			at = &types.ActualType{Type: b.Type, LValue: true}
		case resolver.Var:
			at = &types.ActualType{Type: b.Type, LValue: true}
		case resolver.Proc:
			at = &types.ActualType{Type: b.Proc.Type, LValue: true, Constant: true}
		case resolver.BuiltinType:
			c.error(e.Pos, fmt.Sprintf("%q is a type, not a value", e.Name))
			return nil
		default:
			return nil
		}
		c.exprs[e] = at
		return at

	case *ast.NumberExpr:
		at := &types.ActualType{Type: types.Integer}
		c.exprs[e] = at
		return at

	case *ast.CallExpr:
		pt := c.checkExpr(e.Proc)
		if pt == nil {
			return nil
		}
		if pt.Type.Kind != types.KindProc {
			start, _ := e.Proc.Span()
			c.error(start, "called expression is not a procedure")
			return nil
		}
		sig := pt.Type.Proc
		if len(e.Args) != len(sig.FParams) {
			c.error(e.Lparen, fmt.Sprintf("expected %d argument(s), got %d", len(sig.FParams), len(e.Args)))
			return nil
		}
		ok := true
		for i, arg := range e.Args {
			at := c.checkExpr(arg)
			if at == nil {
				ok = false
				continue
			}
			if !at.Type.Equal(sig.FParams[i]) {
				start, _ := arg.Span()
				c.error(start, fmt.Sprintf("argument %d: expected %s, got %s", i+1, sig.FParams[i], at.Type))
				ok = false
			}
		}
		if !ok {
			return nil
		}
		at := &types.ActualType{Type: sig.ReturnType}
		c.exprs[e] = at
		return at

	default:
		panic(fmt.Sprintf("typecheck: unhandled expression type %T", expr))
	}
}
