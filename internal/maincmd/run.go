package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/jaugustosaba/madjit/lang/compiler"
	"github.com/jaugustosaba/madjit/lang/jit"
	"github.com/jaugustosaba/madjit/lang/machine"
	"github.com/jaugustosaba/madjit/lang/parser"
	"github.com/jaugustosaba/madjit/lang/resolver"
	"github.com/jaugustosaba/madjit/lang/typecheck"
)

// Run is the all-in-one driver: it compiles Config.InputFile through every
// phase of the pipeline, printing "<Phase> Ok" after each one succeeds,
// then runs the result through both the interpreter and the JIT backend.
// A phase failure other than a missing input file stops the chain without
// failing the command, matching the original tool's exit-status contract:
// only a failure to open the input file is reported as a process failure.
// "No Mem" is reserved for an actual out-of-memory condition (none of
// which Go's allocator surfaces as a recoverable error), so a missing
// input file and a failed JIT mapping are reported through printErrors
// instead of that line.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid configuration: %s\n", err)
		return err
	}
	return runFile(stdio, cfg)
}

func runFile(stdio mainer.Stdio, cfg Config) error {
	src, err := os.ReadFile(cfg.InputFile)
	if err != nil {
		printErrors(stdio, err)
		return err
	}

	prog, err := parser.ParseFile(cfg.InputFile, src)
	if err != nil {
		fmt.Fprintln(stdio.Stdout, "Syntax Error")
		printErrors(stdio, err)
		return nil
	}
	fmt.Fprintln(stdio.Stdout, "Syntax Ok")

	res, err := resolver.Resolve(cfg.InputFile, prog)
	if err != nil {
		printErrors(stdio, err)
		return nil
	}
	fmt.Fprintln(stdio.Stdout, "Names Ok")

	tc, err := typecheck.Check(cfg.InputFile, prog, res)
	if err != nil {
		printErrors(stdio, err)
		return nil
	}
	fmt.Fprintln(stdio.Stdout, "Types Ok")

	out, err := compiler.Lower(prog, res, tc)
	if err != nil {
		printErrors(stdio, err)
		return nil
	}
	fmt.Fprintln(stdio.Stdout, "Compiling Ok")

	if cfg.Verbose {
		if err := out.Dump(stdio.Stdout); err != nil {
			return nil
		}
	}

	stackSize := cfg.StackSize
	if stackSize <= 0 {
		stackSize = machine.DefaultStackSize
	}
	m := &machine.Machine{StackSize: stackSize}
	v, err := m.Run(out)
	if err != nil {
		printErrors(stdio, err)
		return nil
	}
	fmt.Fprintf(stdio.Stdout, "Eval %d\n", v)

	if cfg.DisableJIT {
		return nil
	}

	jv, err := jit.Run(out)
	if err != nil {
		printErrors(stdio, err)
		return nil
	}
	fmt.Fprintf(stdio.Stdout, "JIT Eval %d\n", jv)

	return nil
}

// printErrors writes err's message(s) to stderr, one line per diagnostic
// when err has an Unwrap() []error method (as scanner.ErrorList.Err's
// result does).
func printErrors(stdio mainer.Stdio, err error) {
	if el, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range el.Unwrap() {
			fmt.Fprintf(stdio.Stderr, "%s\n", e)
		}
		return
	}
	fmt.Fprintf(stdio.Stderr, "%s\n", err)
}
