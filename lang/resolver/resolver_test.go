package resolver_test

import (
	"testing"

	"github.com/jaugustosaba/madjit/lang/ast"
	"github.com/jaugustosaba/madjit/lang/parser"
	"github.com/jaugustosaba/madjit/lang/resolver"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Prog {
	t.Helper()
	prog, err := parser.ParseFile("test.mad", []byte(src))
	require.NoError(t, err)
	return prog
}

func TestResolveRecursiveCall(t *testing.T) {
	prog := mustParse(t, `
procedure fact(n: integer): integer;
begin
	return n * fact(n);
end fact;
`)
	res, err := resolver.Resolve("test.mad", prog)
	require.NoError(t, err)
	require.Len(t, res.ProcOrder, 1)
	require.Same(t, prog.Procs[0], res.Procs[prog.Procs[0]].Decl)
}

func TestResolveUndeclaredIdentifier(t *testing.T) {
	prog := mustParse(t, `
procedure p;
begin
	x := 1;
end p;
`)
	_, err := resolver.Resolve("test.mad", prog)
	require.Error(t, err)
}

func TestResolveForLoopRequiresDeclaredVar(t *testing.T) {
	prog := mustParse(t, `
procedure p;
begin
	for i := 1 to 10 do
	done;
end p;
`)
	_, err := resolver.Resolve("test.mad", prog)
	require.Error(t, err)
}

func TestResolveVoidProcedureOk(t *testing.T) {
	prog := mustParse(t, `
procedure main;
begin
	return;
end;
`)
	_, err := resolver.Resolve("test.mad", prog)
	require.NoError(t, err)
}

func TestResolveMutualRecursion(t *testing.T) {
	prog := mustParse(t, `
procedure isEven(n: integer): integer;
begin
	return isOdd(n);
end isEven;
procedure isOdd(n: integer): integer;
begin
	return isEven(n);
end isOdd;
`)
	_, err := resolver.Resolve("test.mad", prog)
	require.NoError(t, err)
}
