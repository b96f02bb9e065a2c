// Package machine implements the portable bytecode interpreter: a single
// evaluation stack shared by every recursive procedure invocation, where
// each stack slot doubles as either a value or an in-stack address (an
// index into the very same stack), exactly as interp.c's eval stack does.
package machine

import (
	"fmt"

	"github.com/jaugustosaba/madjit/lang/compiler"
)

// DefaultStackSize is the evaluation stack's capacity in slots, matching
// the ≥10,240 minimum the original interpreter reserves.
const DefaultStackSize = 10240

// DefaultMaxCallDepth bounds recursive procedure invocation so a runaway
// recursive program fails with a reported error instead of exhausting the
// host goroutine's stack; the original has no such guard (unbounded C
// recursion simply overflows the native stack), so this is a deliberate
// safety addition, not a behavior the original exhibits.
const DefaultMaxCallDepth = 100000

// Machine executes a compiled Program's bytecode on a single evaluation
// stack. It is not safe for concurrent use, matching the original
// interpreter's single-threaded, synchronous execution model.
type Machine struct {
	// StackSize overrides DefaultStackSize when > 0.
	StackSize int
	// MaxCallDepth overrides DefaultMaxCallDepth when > 0.
	MaxCallDepth int

	prog  *compiler.Program
	stack []int64
	sp    int
	depth int
}

// Run executes prog's entry procedure (the one named "main") with no
// arguments and returns its final value: the value its RET instruction
// pops, or 0 if it returns via RETV.
func Run(prog *compiler.Program) (int64, error) {
	m := &Machine{}
	return m.Run(prog)
}

// Run executes prog's entry procedure using m's configured stack size and
// call-depth limit (or the defaults, if unset).
func (m *Machine) Run(prog *compiler.Program) (int64, error) {
	size := m.StackSize
	if size <= 0 {
		size = DefaultStackSize
	}
	m.prog = prog
	m.stack = make([]int64, size)
	m.sp = 0
	m.depth = 0

	entry := prog.Procs[prog.Entry]
	if len(entry.Code) == 0 {
		return 0, fmt.Errorf("machine: entry procedure %q has no code", entry.Name)
	}
	return m.call(prog.Entry)
}

func (m *Machine) push(v int64) error {
	if m.sp >= len(m.stack) {
		return fmt.Errorf("machine: evaluation stack overflow (capacity %d)", len(m.stack))
	}
	m.stack[m.sp] = v
	m.sp++
	return nil
}

func (m *Machine) pop() (int64, error) {
	if m.sp <= 0 {
		return 0, fmt.Errorf("machine: evaluation stack underflow")
	}
	m.sp--
	return m.stack[m.sp], nil
}

// call recursively executes the procedure at procIdx, capturing the
// current stack pointer as its frame base (bp), exactly like the
// original's recursive interp() entered on CALL/CALLV.
func (m *Machine) call(procIdx int) (int64, error) {
	if procIdx < 0 || procIdx >= len(m.prog.Procs) {
		return 0, fmt.Errorf("machine: invalid procedure id %d", procIdx)
	}
	maxDepth := m.MaxCallDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxCallDepth
	}
	m.depth++
	defer func() { m.depth-- }()
	if m.depth > maxDepth {
		return 0, fmt.Errorf("machine: call stack depth exceeded %d (possible infinite recursion)", maxDepth)
	}

	proc := m.prog.Procs[procIdx]
	bp := m.sp
	return m.exec(proc, bp)
}

// exec runs proc's bytecode with frame base bp until a RET or RETV
// instruction returns control (and a value) to the caller.
func (m *Machine) exec(proc *compiler.Proc, bp int) (int64, error) {
	code := proc.Code
	pc := 0
	for {
		if pc < 0 || pc >= len(code) {
			return 0, fmt.Errorf("machine: pc %d out of range in procedure %q", pc, proc.Name)
		}
		instr := code[pc]

		switch instr.Op {
		case compiler.ILLEGAL:
			return 0, fmt.Errorf("machine: illegal opcode in procedure %q at pc %d", proc.Name, pc)

		case compiler.PUSH:
			if err := m.push(int64(instr.Arg)); err != nil {
				return 0, err
			}
			pc++

		case compiler.POP:
			if _, err := m.pop(); err != nil {
				return 0, err
			}
			pc++

		case compiler.LOAD:
			addr, err := m.pop()
			if err != nil {
				return 0, err
			}
			if addr < 0 || int(addr) >= len(m.stack) {
				return 0, fmt.Errorf("machine: LOAD address %d out of range", addr)
			}
			if err := m.push(m.stack[addr]); err != nil {
				return 0, err
			}
			pc++

		case compiler.STORE:
			addr, err := m.pop()
			if err != nil {
				return 0, err
			}
			val, err := m.pop()
			if err != nil {
				return 0, err
			}
			if addr < 0 || int(addr) >= len(m.stack) {
				return 0, fmt.Errorf("machine: STORE address %d out of range", addr)
			}
			m.stack[addr] = val
			pc++

		case compiler.VAR:
			if err := m.push(int64(bp) + int64(instr.Arg)); err != nil {
				return 0, err
			}
			pc++

		case compiler.PARAM:
			if err := m.push(int64(bp) - int64(instr.Arg) - 1); err != nil {
				return 0, err
			}
			pc++

		case compiler.PROC:
			if err := m.push(int64(instr.Arg)); err != nil {
				return 0, err
			}
			pc++

		case compiler.DUP:
			if m.sp <= 0 {
				return 0, fmt.Errorf("machine: DUP on empty stack")
			}
			if err := m.push(m.stack[m.sp-1]); err != nil {
				return 0, err
			}
			pc++

		case compiler.ADD:
			b, err := m.pop()
			if err != nil {
				return 0, err
			}
			a, err := m.pop()
			if err != nil {
				return 0, err
			}
			if err := m.push(a + b); err != nil {
				return 0, err
			}
			pc++

		case compiler.MUL:
			b, err := m.pop()
			if err != nil {
				return 0, err
			}
			a, err := m.pop()
			if err != nil {
				return 0, err
			}
			if err := m.push(a * b); err != nil {
				return 0, err
			}
			pc++

		case compiler.INC:
			addr, err := m.pop()
			if err != nil {
				return 0, err
			}
			if addr < 0 || int(addr) >= len(m.stack) {
				return 0, fmt.Errorf("machine: INC address %d out of range", addr)
			}
			m.stack[addr]++
			pc++

		case compiler.CMP:
			right, err := m.pop()
			if err != nil {
				return 0, err
			}
			left, err := m.pop()
			if err != nil {
				return 0, err
			}
			if err := m.push(left - right); err != nil {
				return 0, err
			}
			pc++

		case compiler.JMP:
			pc = int(instr.Arg)

		case compiler.JLT:
			v, err := m.pop()
			if err != nil {
				return 0, err
			}
			if v < 0 {
				pc = int(instr.Arg)
			} else {
				pc++
			}

		case compiler.CALL:
			id, err := m.pop()
			if err != nil {
				return 0, err
			}
			ret, err := m.call(int(id))
			if err != nil {
				return 0, err
			}
			if err := m.push(ret); err != nil {
				return 0, err
			}
			pc++

		case compiler.CALLV:
			id, err := m.pop()
			if err != nil {
				return 0, err
			}
			if _, err := m.call(int(id)); err != nil {
				return 0, err
			}
			pc++

		case compiler.RET:
			val, err := m.pop()
			if err != nil {
				return 0, err
			}
			m.sp = bp - int(instr.Arg)
			return val, nil

		case compiler.RETV:
			m.sp = bp - int(instr.Arg)
			return 0, nil

		default:
			return 0, fmt.Errorf("machine: unknown opcode %v in procedure %q at pc %d", instr.Op, proc.Name, pc)
		}
	}
}
