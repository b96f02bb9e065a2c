package jit

import (
	"encoding/binary"
	"fmt"

	"github.com/jaugustosaba/madjit/lang/compiler"
)

// prologue is emitted once at the start of every compiled procedure's code
// region: push %rbp; mov %rsp, %rbp. There is no separate epilogue: the
// RET and RETV templates restore %rsp from %rbp and pop the caller's %rbp
// before returning, so the caller's frame base is intact after a call.
var prologue = []byte{0x55, 0x48, 0x89, 0xE5}

const prologueSize = 4

// instrCode is one bytecode instruction lowered to its native encoding,
// plus the bookkeeping needed to patch intra-procedure jumps and
// cross-procedure calls after every instruction in the procedure (and
// every procedure in the program) has been sized.
type instrCode struct {
	bytes []byte

	// relOffset is this instruction's byte offset from the start of the
	// procedure's code (i.e. right after the prologue).
	relOffset int

	// relPatch is the offset within bytes of a 4-byte rel32 displacement
	// that must be patched once the target instruction's offset is known,
	// or -1 if this instruction has no such displacement.
	relPatch   int
	jumpTarget int // target pc within the same procedure, valid iff relPatch >= 0

	// immPatch is the offset within bytes of an 8-byte absolute address
	// that must be patched once procedures are laid out in memory, or -1.
	immPatch   int
	procTarget int // target procedure index, valid iff immPatch >= 0
}

// imm8 encodes v as a signed byte, failing if it does not fit: the VAR and
// PARAM templates below address a procedure's frame with an 8-bit
// displacement, so a procedure with enough locals or parameters to exceed
// that range cannot be JIT-compiled.
func imm8(v int64) (byte, error) {
	if v < -128 || v > 127 {
		return 0, fmt.Errorf("frame offset %d does not fit in a signed byte", v)
	}
	return byte(int8(v)), nil
}

func encodeInstr(instr compiler.Instruction) (instrCode, error) {
	ic := instrCode{relPatch: -1, immPatch: -1}

	switch instr.Op {
	case compiler.PUSH:
		ic.bytes = pushImm64(uint64(int64(instr.Arg)))

	case compiler.PROC:
		ic.bytes = pushImm64(0) // patched by the link phase
		ic.immPatch = 2
		ic.procTarget = int(instr.Arg)

	case compiler.POP:
		ic.bytes = []byte{0x58} // pop %rax

	case compiler.LOAD:
		ic.bytes = []byte{
			0x58,             // pop %rax        (address)
			0x48, 0x8B, 0x00, // mov (%rax), %rax
			0x50, // push %rax
		}

	case compiler.STORE:
		ic.bytes = []byte{
			0x59,             // pop %rcx        (address)
			0x58,             // pop %rax        (value)
			0x48, 0x89, 0x01, // mov %rax, (%rcx)
		}

	case compiler.VAR:
		off, err := imm8(int64(instr.Arg)*8 + 8)
		if err != nil {
			return ic, fmt.Errorf("VAR: %w", err)
		}
		ic.bytes = []byte{
			0x48, 0x89, 0xE8, // mov %rbp, %rax
			0x48, 0x83, 0xE8, off, // sub $off, %rax
			0x50, // push %rax
		}

	case compiler.PARAM:
		off, err := imm8(int64(instr.Arg)*8 + 16)
		if err != nil {
			return ic, fmt.Errorf("PARAM: %w", err)
		}
		ic.bytes = []byte{
			0x48, 0x89, 0xE8, // mov %rbp, %rax
			0x48, 0x83, 0xC0, off, // add $off, %rax
			0x50, // push %rax
		}

	case compiler.DUP:
		ic.bytes = []byte{
			0x48, 0x8B, 0x04, 0x24, // mov (%rsp), %rax
			0x50, // push %rax
		}

	case compiler.ADD:
		ic.bytes = []byte{
			0x59,                   // pop %rcx
			0x58,                   // pop %rax
			0x48, 0x01, 0xC8, 0x50, // add %rcx, %rax ; push %rax
		}

	case compiler.MUL:
		ic.bytes = []byte{
			0x59, // pop %rcx
			0x58, // pop %rax
			0x48, 0x0F, 0xAF, 0xC1, // imul %rcx, %rax
			0x50, // push %rax
		}

	case compiler.INC:
		ic.bytes = []byte{
			0x58,             // pop %rax        (address)
			0x48, 0xFF, 0x00, // incq (%rax)
		}

	case compiler.CMP:
		ic.bytes = []byte{
			0x59,             // pop %rcx        (right)
			0x58,             // pop %rax        (left)
			0x48, 0x29, 0xC8, // sub %rcx, %rax
			0x50, // push %rax
		}

	case compiler.JMP:
		ic.bytes = []byte{0xE9, 0, 0, 0, 0} // jmp rel32
		ic.relPatch = 1
		ic.jumpTarget = int(instr.Arg)

	case compiler.JLT:
		// The original's own pseudocode pops into a 32-bit register and
		// does a 32-bit compare, which truncates the high bits of a
		// machine-word stack slot; values that only differ above bit 31
		// would then compare incorrectly. testq on the full 64-bit
		// register avoids that truncation while still branching on the
		// sign bit, which is all JLT ever needs.
		ic.bytes = []byte{
			0x58,                   // pop %rax
			0x48, 0x85, 0xC0,       // test %rax, %rax
			0x0F, 0x8C, 0, 0, 0, 0, // jl rel32
		}
		ic.relPatch = 6
		ic.jumpTarget = int(instr.Arg)

	case compiler.CALL:
		ic.bytes = []byte{
			0x58,             // pop %rax        (callee absolute address)
			0xFF, 0xD0,       // call *%rax
			0x50, // push %rax       (return value)
		}

	case compiler.CALLV:
		ic.bytes = []byte{
			0x58,       // pop %rax
			0xFF, 0xD0, // call *%rax
		}

	case compiler.RET:
		b := []byte{
			0x58,             // pop %rax        (return value)
			0x48, 0x89, 0xEC, // mov %rbp, %rsp
			0x5D,       // pop %rbp
			0xC2, 0, 0, // ret $imm16
		}
		binary.LittleEndian.PutUint16(b[6:], uint16(8*instr.Arg))
		ic.bytes = b

	case compiler.RETV:
		b := []byte{
			0x48, 0x89, 0xEC, // mov %rbp, %rsp
			0x5D,       // pop %rbp
			0xC2, 0, 0, // ret $imm16
		}
		binary.LittleEndian.PutUint16(b[4:], uint16(8*instr.Arg))
		ic.bytes = b

	default:
		return ic, fmt.Errorf("illegal opcode %v", instr.Op)
	}

	return ic, nil
}

func pushImm64(v uint64) []byte {
	b := make([]byte, 0, 11)
	b = append(b, 0x48, 0xB8) // movabs $imm64, %rax
	var imm [8]byte
	binary.LittleEndian.PutUint64(imm[:], v)
	b = append(b, imm[:]...)
	b = append(b, 0x50) // push %rax
	return b
}

// compiledProc is one procedure's native code, laid out but not yet
// relocated to its final address within the program's mmap'd region.
type compiledProc struct {
	proc          *compiler.Proc
	instrs        []instrCode
	codeSize      int // prologue + every instruction's encoded length
	regionOffset  int // byte offset from the start of the program's region
}

// compileProc encodes every instruction in p.Code, then backpatches every
// intra-procedure jump now that each instruction's offset is known. It
// does not yet know the procedure's final address, so PROC immediates are
// left as placeholders for the link phase.
func compileProc(p *compiler.Proc) (*compiledProc, error) {
	cp := &compiledProc{proc: p, instrs: make([]instrCode, len(p.Code))}

	// Reject a frame whose last local or parameter lies beyond the 8-bit
	// displacement range, whether or not the code references that slot.
	if n := p.VarCount; n > 0 {
		if _, err := imm8(int64(n-1)*8 + 8); err != nil {
			return nil, fmt.Errorf("jit: procedure %q: %d locals: %w", p.Name, n, err)
		}
	}
	if n := p.FParamCount; n > 0 {
		if _, err := imm8(int64(n-1)*8 + 16); err != nil {
			return nil, fmt.Errorf("jit: procedure %q: %d parameters: %w", p.Name, n, err)
		}
	}

	offset := 0
	for pc, instr := range p.Code {
		ic, err := encodeInstr(instr)
		if err != nil {
			return nil, fmt.Errorf("jit: procedure %q, pc %d: %w", p.Name, pc, err)
		}
		ic.relOffset = offset
		cp.instrs[pc] = ic
		offset += len(ic.bytes)
	}

	for pc := range cp.instrs {
		ic := &cp.instrs[pc]
		if ic.relPatch < 0 {
			continue
		}
		if ic.jumpTarget < 0 || ic.jumpTarget >= len(cp.instrs) {
			return nil, fmt.Errorf("jit: procedure %q, pc %d: jump target %d out of range", p.Name, pc, ic.jumpTarget)
		}
		targetOffset := cp.instrs[ic.jumpTarget].relOffset
		disp := int32(targetOffset - (ic.relOffset + len(ic.bytes)))
		binary.LittleEndian.PutUint32(ic.bytes[ic.relPatch:], uint32(disp))
	}

	cp.codeSize = prologueSize + offset
	return cp, nil
}
