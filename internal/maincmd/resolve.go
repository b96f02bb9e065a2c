package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/jaugustosaba/madjit/lang/ast"
	"github.com/jaugustosaba/madjit/lang/parser"
	"github.com/jaugustosaba/madjit/lang/resolver"
)

func (c *Cmd) Resolve(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ResolveFiles(stdio, args...)
}

// ResolveFiles parses and resolves every file in files, printing the AST
// followed by a summary line per declared procedure: its declaration
// order, parameter count and local variable count.
func ResolveFiles(stdio mainer.Stdio, files ...string) error {
	printer := ast.Printer{Output: stdio.Stdout, WithPos: true}

	var failed error
	for _, filename := range files {
		src, err := os.ReadFile(filename)
		if err != nil {
			failed = printError(stdio, err)
			continue
		}
		prog, err := parser.ParseFile(filename, src)
		if err != nil {
			failed = printError(stdio, err)
			continue
		}

		res, err := resolver.Resolve(filename, prog)
		if err != nil {
			failed = printError(stdio, err)
			continue
		}

		if perr := printer.Print(prog); perr != nil {
			return perr
		}
		for _, info := range res.ProcOrder {
			fmt.Fprintf(stdio.Stdout, "proc %s (nid %d): %d param(s), %d local(s)\n",
				info.Decl.Name, info.NID, len(info.FParams), len(info.Vars))
			if info.Decl.NameMismatch {
				fmt.Fprintf(stdio.Stdout, "  note: trailing \"end %s\" confirms procedure name\n", info.Decl.EndName)
			}
		}
	}
	return failed
}
