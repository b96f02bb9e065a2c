// Package jit compiles a lowered madjit bytecode program (package compiler)
// directly to native x86-64 machine code and executes it in place, as an
// alternative backend to the portable interpreter in package machine.
//
// Compilation happens in three passes: codegen.go encodes each procedure's
// instructions to fixed byte templates and backpatches intra-procedure
// jumps once every instruction in that procedure has a known offset; this
// file's link phase then lays every procedure out end to end within a
// single contiguous region and checks that every PROC instruction names a
// procedure of the program; exec.go copies the code into a mapping,
// patches every PROC instruction's 8-byte immediate to the callee's final
// absolute address, maps the region executable and invokes it.
package jit

import (
	"fmt"

	"github.com/jaugustosaba/madjit/lang/compiler"
)

// Program is a madjit bytecode program compiled to native code, laid out
// in a single contiguous region but not yet mapped executable.
type Program struct {
	procs []*compiledProc
	entry int
	size  int
}

// Compile translates every procedure in prog to x86-64 machine code and
// lays them out in one contiguous region, checking that every PROC
// reference names a procedure of prog. The PROC immediates themselves are
// patched by Load, once the region's address is known.
func Compile(prog *compiler.Program) (*Program, error) {
	out := &Program{entry: prog.Entry}

	offset := 0
	for _, p := range prog.Procs {
		cp, err := compileProc(p)
		if err != nil {
			return nil, err
		}
		cp.regionOffset = offset
		offset += cp.codeSize
		out.procs = append(out.procs, cp)
	}
	out.size = offset

	for _, cp := range out.procs {
		for pc, ic := range cp.instrs {
			if ic.immPatch < 0 {
				continue
			}
			if ic.procTarget < 0 || ic.procTarget >= len(out.procs) {
				return nil, fmt.Errorf("jit: procedure %q, pc %d: invalid procedure reference %d", cp.proc.Name, pc, ic.procTarget)
			}
		}
	}

	return out, nil
}

// Run links and executes prog's entry procedure with no arguments,
// returning the value of its RET, so callers can compare the two backends
// against each other. The RETV template does not set %rax, so for an
// entry procedure that returns through RETV the result is whatever %rax
// last held, not the 0 that machine.Run returns.
func Run(prog *compiler.Program) (int64, error) {
	compiled, err := Compile(prog)
	if err != nil {
		return 0, err
	}
	exe, err := compiled.Load()
	if err != nil {
		return 0, err
	}
	defer exe.Release()
	return exe.Invoke()
}
