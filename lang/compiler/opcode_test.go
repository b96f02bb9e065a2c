package compiler_test

import (
	"strings"
	"testing"

	"github.com/jaugustosaba/madjit/lang/compiler"
	"github.com/stretchr/testify/require"
)

func TestOpcodeHasArg(t *testing.T) {
	noArg := []compiler.Opcode{
		compiler.POP, compiler.LOAD, compiler.STORE, compiler.DUP,
		compiler.ADD, compiler.MUL, compiler.INC, compiler.CMP,
		compiler.CALL, compiler.CALLV,
	}
	for _, op := range noArg {
		require.False(t, op.HasArg(), "%s should not carry an argument", op)
	}

	withArg := []compiler.Opcode{
		compiler.PUSH, compiler.VAR, compiler.PARAM, compiler.PROC,
		compiler.JMP, compiler.JLT, compiler.RET, compiler.RETV,
	}
	for _, op := range withArg {
		require.True(t, op.HasArg(), "%s should carry an argument", op)
	}
}

func TestProgramDump(t *testing.T) {
	p := &compiler.Program{
		Entry: 0,
		Procs: []*compiler.Proc{
			{
				Name: "main",
				Code: []compiler.Instruction{
					{Op: compiler.PUSH, Arg: 42},
					{Op: compiler.RET, Arg: 0},
				},
			},
		},
	}
	var buf strings.Builder
	require.NoError(t, p.Dump(&buf))
	out := buf.String()
	require.Contains(t, out, "Proc (0)")
	require.Contains(t, out, "0: PUSH 42")
	require.Contains(t, out, "1: RET 0")
}
