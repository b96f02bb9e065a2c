package jit_test

import (
	"testing"

	"github.com/jaugustosaba/madjit/lang/compiler"
	"github.com/jaugustosaba/madjit/lang/jit"
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

// TestCompileTwoProcedures compiles a program in which main calls a second
// procedure and checks that Compile reports no error.
func TestCompileTwoProcedures(t *testing.T) {
	prog := compile(t, `
procedure f(x:integer):integer;
begin
	return x * x;
end f;
procedure main:integer;
begin
	return f(7);
end main;
`)
	_, err := jit.Compile(prog)
	require.NoError(t, err)
}

func TestCompileRejectsOversizedFrame(t *testing.T) {
	// 40 one-per-group parameters push the last one's frame offset past
	// what an 8-bit displacement can encode.
	groups := ""
	for i := 0; i < 40; i++ {
		if i > 0 {
			groups += "; "
		}
		groups += "p" + itoa(i) + ": integer"
	}
	src := "procedure f(" + groups + "): integer;\nbegin\n\treturn p0;\nend f;\nprocedure main;\nbegin\nend main;\n"
	prog := compile(t, src)
	_, err := jit.Compile(prog)
	require.Error(t, err)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

func TestRunArithmeticPrecedence(t *testing.T) {
	prog := compile(t, `procedure main:integer; var r:integer; begin r := 2 + 3 * 4; return r; end main;`)
	got, err := jit.Run(prog)
	require.NoError(t, err)
	require.EqualValues(t, 14, got)
}

func TestRunForLoopSum(t *testing.T) {
	prog := compile(t, `procedure main:integer; var s,i:integer; begin s := 0; for i := 1 to 5 do s := s + i; done; return s; end main;`)
	got, err := jit.Run(prog)
	require.NoError(t, err)
	require.EqualValues(t, 15, got)
}

func TestRunCallSquare(t *testing.T) {
	prog := compile(t, `procedure f(x:integer):integer; begin return x * x; end f; procedure main:integer; begin return f(7); end main;`)
	got, err := jit.Run(prog)
	require.NoError(t, err)
	require.EqualValues(t, 49, got)
}

func TestRunFactorial(t *testing.T) {
	prog := compile(t, `procedure fact(n:integer):integer; var r,i:integer; begin r := 1; for i := 1 to n do r := r * i; done; return r; end fact; procedure main:integer; begin return fact(5); end main;`)
	got, err := jit.Run(prog)
	require.NoError(t, err)
	require.EqualValues(t, 120, got)
}

// TestRunAgreesWithInterpreter is invariant #8: the interpreter and the
// JIT must compute identical results for identical programs.
func TestRunAgreesWithInterpreter(t *testing.T) {
	srcs := []string{
		`procedure main:integer; var r:integer; begin r := 2 + 3 * 4; return r; end main;`,
		`procedure main:integer; var s,i:integer; begin s := 0; for i := 1 to 5 do s := s + i; done; return s; end main;`,
		`procedure fact(n:integer):integer; var r,i:integer; begin r := 1; for i := 1 to n do r := r * i; done; return r; end fact; procedure main:integer; begin return fact(6); end main;`,
	}
	for _, src := range srcs {
		prog := compile(t, src)
		want, err := machine.Run(prog)
		require.NoError(t, err)
		got, err := jit.Run(prog)
		require.NoError(t, err)
		require.Equal(t, want, got, "for %q", src)
	}
}
