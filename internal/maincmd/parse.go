package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"

	"github.com/jaugustosaba/madjit/lang/ast"
	"github.com/jaugustosaba/madjit/lang/parser"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(stdio, args...)
}

// ParseFiles parses every file in files and prints its AST, one node per
// line indented by nesting depth.
func ParseFiles(stdio mainer.Stdio, files ...string) error {
	printer := ast.Printer{Output: stdio.Stdout, WithPos: true}

	var failed error
	for _, filename := range files {
		src, err := os.ReadFile(filename)
		if err != nil {
			failed = printError(stdio, err)
			continue
		}
		prog, err := parser.ParseFile(filename, src)
		if prog != nil {
			if perr := printer.Print(prog); perr != nil {
				return perr
			}
		}
		if err != nil {
			failed = printError(stdio, err)
		}
	}
	return failed
}
