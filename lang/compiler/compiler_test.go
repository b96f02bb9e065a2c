package compiler_test

import (
	"testing"

	"github.com/jaugustosaba/madjit/lang/compiler"
	"github.com/jaugustosaba/madjit/lang/parser"
	"github.com/jaugustosaba/madjit/lang/resolver"
	"github.com/jaugustosaba/madjit/lang/typecheck"
	"github.com/stretchr/testify/require"
)

func mustLower(t *testing.T, src string) *compiler.Program {
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

func TestLowerFindsEntryPoint(t *testing.T) {
	out := mustLower(t, `
procedure main: integer;
begin
	return 42;
end main;
`)
	require.Equal(t, "main", out.Procs[out.Entry].Name)
}

func TestLowerMissingMain(t *testing.T) {
	prog, err := parser.ParseFile("test.mad", []byte(`procedure f; begin end f;`))
	require.NoError(t, err)
	res, err := resolver.Resolve("test.mad", prog)
	require.NoError(t, err)
	tc, err := typecheck.Check("test.mad", prog, res)
	require.NoError(t, err)
	_, err = compiler.Lower(prog, res, tc)
	require.Error(t, err)
}

func TestLowerForLoopBackpatchesJLT(t *testing.T) {
	out := mustLower(t, `
procedure main: integer;
var s, i: integer;
begin
	s := 0;
	for i := 1 to 5 do
		s := s + i;
	done;
	return s;
end main;
`)
	proc := out.Procs[out.Entry]
	var jltPC = -1
	for pc, instr := range proc.Code {
		if instr.Op == compiler.JLT {
			jltPC = pc
			break
		}
	}
	require.GreaterOrEqual(t, jltPC, 0)
	target := int(proc.Code[jltPC].Arg)
	require.Less(t, jltPC, target)
	require.Equal(t, compiler.POP, proc.Code[target].Op)
}

func TestLowerVoidProcGetsSyntheticReturn(t *testing.T) {
	out := mustLower(t, `procedure main; begin end main;`)
	proc := out.Procs[out.Entry]
	last := proc.Code[len(proc.Code)-1]
	require.Equal(t, compiler.RETV, last.Op)
	require.Equal(t, int32(0), last.Arg)
}

func TestLowerCallArgumentsReverseOrder(t *testing.T) {
	out := mustLower(t, `
procedure f(x, y: integer): integer;
begin
	return x;
end f;
procedure main: integer;
begin
	return f(7, 8);
end main;
`)
	main := out.Procs[out.Entry]
	require.Equal(t, compiler.Instruction{Op: compiler.PUSH, Arg: 8}, main.Code[0])
	require.Equal(t, compiler.Instruction{Op: compiler.PUSH, Arg: 7}, main.Code[1])
	var pushIdx, procIdx, callIdx = -1, -1, -1
	for pc, instr := range main.Code {
		switch instr.Op {
		case compiler.PUSH:
			pushIdx = pc
		case compiler.PROC:
			procIdx = pc
		case compiler.CALL:
			callIdx = pc
		}
	}
	require.True(t, pushIdx < procIdx && procIdx < callIdx)
}
