package machine_test

import (
	"testing"

	"github.com/jaugustosaba/madjit/lang/compiler"
	"github.com/jaugustosaba/madjit/lang/machine"
	"github.com/jaugustosaba/madjit/lang/parser"
	"github.com/jaugustosaba/madjit/lang/resolver"
	"github.com/jaugustosaba/madjit/lang/typecheck"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) *compiler.Program {
	t.Helper()
	prog, err := parser.ParseFile("test.mad", []byte(src))
	require.NoError(t, err)
	res, err := resolver.Resolve("test.mad", prog)
	require.NoError(t, err)
	tc, err := typecheck.Check("test.mad", prog, res)
	require.NoError(t, err)
	out, err := compiler.Lower(prog, res, tc)
	require.NoError(t, err)
	return out
}

func run(t *testing.T, src string) int64 {
	t.Helper()
	out := compile(t, src)
	v, err := machine.Run(out)
	require.NoError(t, err)
	return v
}

func TestRunArithmeticPrecedence(t *testing.T) {
	// S1: 2 + 3 * 4 == 14
	got := run(t, `procedure main:integer; var r:integer; begin r := 2 + 3 * 4; return r; end main;`)
	require.EqualValues(t, 14, got)
}

func TestRunForLoopSum(t *testing.T) {
	// S2: sum 1..5 == 15
	got := run(t, `procedure main:integer; var s,i:integer; begin s := 0; for i := 1 to 5 do s := s + i; done; return s; end main;`)
	require.EqualValues(t, 15, got)
}

func TestRunCallSquare(t *testing.T) {
	// S3
	got := run(t, `procedure f(x:integer):integer; begin return x * x; end f; procedure main:integer; begin return f(7); end main;`)
	require.EqualValues(t, 49, got)
}

func TestRunFactorial(t *testing.T) {
	// S4
	got := run(t, `procedure fact(n:integer):integer; var r,i:integer; begin r := 1; for i := 1 to n do r := r * i; done; return r; end fact; procedure main:integer; begin return fact(5); end main;`)
	require.EqualValues(t, 120, got)
}

func TestRunForLoopZeroIterationsWhenFromGreaterThanTo(t *testing.T) {
	got := run(t, `procedure main:integer; var s,i:integer; begin s := 0; for i := 5 to 1 do s := s + 1; done; return s; end main;`)
	require.EqualValues(t, 0, got)
}

func TestRunForLoopOneIterationWhenFromEqualsTo(t *testing.T) {
	got := run(t, `procedure main:integer; var s,i:integer; begin s := 0; for i := 3 to 3 do s := s + 1; done; return s; end main;`)
	require.EqualValues(t, 1, got)
}

func TestRunVoidProcedureFallsThroughToSyntheticReturn(t *testing.T) {
	out := compile(t, `procedure main; begin end main;`)
	v, err := machine.Run(out)
	require.NoError(t, err)
	require.EqualValues(t, 0, v)
}

func TestRunRecursiveCallDiscardedReturnValue(t *testing.T) {
	// a value-returning call used as a bare statement: lowered to CALL
	// followed by POP, which discards the result.
	got := run(t, `
procedure noisy(n:integer):integer;
begin
	return n;
end noisy;
procedure main:integer;
var r:integer;
begin
	r := 0;
	noisy(5);
	r := r + 1;
	return r;
end main;
`)
	require.EqualValues(t, 1, got)
}
