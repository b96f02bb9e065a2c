package typecheck_test

import (
	"testing"

	"github.com/jaugustosaba/madjit/lang/ast"
	"github.com/jaugustosaba/madjit/lang/parser"
	"github.com/jaugustosaba/madjit/lang/resolver"
	"github.com/jaugustosaba/madjit/lang/typecheck"
	"github.com/jaugustosaba/madjit/lang/types"
	"github.com/stretchr/testify/require"
)

func mustCheck(t *testing.T, src string) (*ast.Prog, *resolver.Result, *typecheck.Result, error) {
	t.Helper()
	prog, err := parser.ParseFile("test.mad", []byte(src))
	require.NoError(t, err)
	res, err := resolver.Resolve("test.mad", prog)
	require.NoError(t, err)
	tc, err := typecheck.Check("test.mad", prog, res)
	return prog, res, tc, err
}

func TestCheckArityMismatchFails(t *testing.T) {
	_, _, _, err := mustCheck(t, `
procedure f(x:integer):integer;
begin
	return x;
end f;
procedure main:integer;
begin
	return f(1, 2);
end main;
`)
	require.Error(t, err)
}

func TestCheckReturnValueFromVoidProcedureFails(t *testing.T) {
	_, _, _, err := mustCheck(t, `
procedure main;
begin
	return 1;
end main;
`)
	require.Error(t, err)
}

func TestCheckBareReturnFromFunctionFails(t *testing.T) {
	_, _, _, err := mustCheck(t, `
procedure main: integer;
begin
	return;
end main;
`)
	require.Error(t, err)
}

func TestCheckAssignToLiteralFails(t *testing.T) {
	_, _, _, err := mustCheck(t, `
procedure main;
begin
	1 := 2;
end main;
`)
	require.Error(t, err)
}

func TestCheckAssignToProcedureNameFails(t *testing.T) {
	_, _, _, err := mustCheck(t, `
procedure f;
begin
end f;
procedure main;
begin
	f := 1;
end main;
`)
	require.Error(t, err)
}

func TestCheckProcTypeHasCorrectArity(t *testing.T) {
	_, res, _, err := mustCheck(t, `
procedure add(a, b: integer): integer;
begin
	return a + b;
end add;
`)
	require.NoError(t, err)
	info := res.ProcOrder[0]
	require.Equal(t, types.KindProc, info.Type.Kind)
	require.Len(t, info.Type.Proc.FParams, 2)
	require.Same(t, types.Integer, info.Type.Proc.ReturnType)
}

func TestCheckEveryExprHasActualType(t *testing.T) {
	prog, _, tc, err := mustCheck(t, `
procedure main:integer;
var r:integer;
begin
	r := 2 + 3 * 4;
	return r;
end main;
`)
	require.NoError(t, err)

	var visit ast.VisitorFunc
	visit = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir != ast.VisitEnter {
			return nil
		}
		if e, ok := n.(ast.Expr); ok {
			at, ok := tc.Exprs[e]
			require.True(t, ok, "expression %v missing actual type", e)
			require.NotNil(t, at.Type)
		}
		return visit
	}
	ast.Walk(visit, prog)
}

func TestCheckExprStmtRejectsNonCall(t *testing.T) {
	// ast.ExprStmt.X is documented to always be a *ast.CallExpr; the parser
	// never hands back a clean AST for source that violates this (it
	// records a syntax error instead), so the only way to exercise the
	// defense in typecheck.checkStmt is to build the AST by hand, as if a
	// future parser change slipped a bare expression statement through.
	prog := &ast.Prog{Procs: []*ast.ProcDecl{{
		Name: "main",
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ExprStmt{X: &ast.NumberExpr{Raw: "1", Value: 1}},
		}},
	}}}
	res, err := resolver.Resolve("test.mad", prog)
	require.NoError(t, err)
	_, err = typecheck.Check("test.mad", prog, res)
	require.Error(t, err)
}

func TestResolveForLoopVariableMustBeLocalNotParam(t *testing.T) {
	// the loop control variable must be a declared local (resolver.Var),
	// not a formal parameter, mirroring the original grammar's intent that
	// 'for' reuses an existing VAR binding.
	prog, err := parser.ParseFile("test.mad", []byte(`
procedure p(i: integer);
begin
	for i := 1 to 10 do
	done;
end p;
`))
	require.NoError(t, err)
	_, err = resolver.Resolve("test.mad", prog)
	require.Error(t, err)
}
