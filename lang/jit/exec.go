package jit

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Executable is a Program mapped into an executable memory region. It
// holds the only reference to that region, so it must be released once
// the caller is done invoking it; the region is acquired immediately
// before invocation and released immediately after, never cached across
// calls.
type Executable struct {
	mem  []byte
	prog *Program
}

// Load copies p's native code into a fresh anonymous mapping, patches
// every PROC immediate to the callee's now-known absolute address, then
// switches the mapping from writable to executable. Two separate
// protection states are required because most platforms refuse to mark a
// page both writable and executable at once.
func (p *Program) Load() (*Executable, error) {
	if p.size == 0 {
		return nil, fmt.Errorf("jit: empty program")
	}

	mem, err := unix.Mmap(-1, 0, p.size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("jit: mmap: %w", err)
	}

	for _, cp := range p.procs {
		copy(mem[cp.regionOffset:], prologue)
		base := cp.regionOffset + prologueSize
		for _, ic := range cp.instrs {
			copy(mem[base+ic.relOffset:], ic.bytes)
		}
	}

	regionBase := uintptr(unsafe.Pointer(&mem[0]))
	for _, cp := range p.procs {
		base := cp.regionOffset + prologueSize
		for _, ic := range cp.instrs {
			if ic.immPatch < 0 {
				continue
			}
			callee := p.procs[ic.procTarget]
			addr := regionBase + uintptr(callee.regionOffset)
			pos := base + ic.relOffset + ic.immPatch
			binary.LittleEndian.PutUint64(mem[pos:pos+8], uint64(addr))
		}
	}

	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(mem)
		return nil, fmt.Errorf("jit: mprotect: %w", err)
	}

	return &Executable{mem: mem, prog: p}, nil
}

// Invoke calls the program's entry procedure with no arguments and
// returns its result. The mapped code expects nothing on entry beyond a
// valid %rsp, so the raw bytes can be called directly as a Go func value:
// a func value is itself a pointer to a record whose first word is the
// code's entry address, so wrapping a one-field struct holding that
// address and reinterpreting it as the func type produces a callable
// value without involving cgo.
func (e *Executable) Invoke() (int64, error) {
	entry := e.prog.procs[e.prog.entry]
	addr := uintptr(unsafe.Pointer(&e.mem[0])) + uintptr(entry.regionOffset)

	fn := makeEntryFunc(addr)
	return fn(), nil
}

type entryFunc func() int64

func makeEntryFunc(addr uintptr) entryFunc {
	codePtr := struct{ addr uintptr }{addr: addr}
	fnVal := unsafe.Pointer(&codePtr)
	return *(*entryFunc)(unsafe.Pointer(&fnVal))
}

// Release unmaps the executable region. Invoke must not be called again
// on e afterward.
func (e *Executable) Release() error {
	if e.mem == nil {
		return nil
	}
	err := unix.Munmap(e.mem)
	e.mem = nil
	return err
}
