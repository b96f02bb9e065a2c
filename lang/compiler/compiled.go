package compiler

import (
	"fmt"
	"io"
)

// Proc is the compiled bytecode for a single procedure or function.
type Proc struct {
	Name        string
	NID         int // program-wide declaration order, equal to ast.ProcDecl's index
	FParamCount int
	VarCount    int
	IsFunction  bool
	Code        []Instruction
}

// Program is the complete bytecode image for a madjit source file: every
// procedure's code, plus the index of the entry point (the procedure named
// "main").
type Program struct {
	Procs []*Proc
	Entry int // index into Procs of the procedure named "main"
}

// Dump writes a human-readable disassembly of p to w: one "Proc (i)"
// header per procedure followed by one "%6d: OP [operand]" line per
// instruction, matching the original driver's disassembly output.
func (p *Program) Dump(w io.Writer) error {
	for i, proc := range p.Procs {
		if _, err := fmt.Fprintf(w, "Proc (%d)\n", i); err != nil {
			return err
		}
		for pc, instr := range proc.Code {
			var err error
			if instr.Op.HasArg() {
				_, err = fmt.Fprintf(w, "%6d: %s %d\n", pc, instr.Op, instr.Arg)
			} else {
				_, err = fmt.Fprintf(w, "%6d: %s\n", pc, instr.Op)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
