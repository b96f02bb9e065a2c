package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/jaugustosaba/madjit/lang/scanner"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio, args...)
}

// TokenizeFiles scans every file in files and prints one
// "filename:line:col: TOKEN [lexeme]" line per token, in the order the
// files were given.
func TokenizeFiles(stdio mainer.Stdio, files ...string) error {
	var failed error
	for _, filename := range files {
		src, err := os.ReadFile(filename)
		if err != nil {
			failed = printError(stdio, err)
			continue
		}
		toks, err := scanner.ScanFile(filename, src)
		if err != nil {
			failed = printError(stdio, err)
			continue
		}
		for _, tv := range toks {
			line, col := tv.Value.Pos.LineCol()
			fmt.Fprintf(stdio.Stdout, "%s:%d:%d: %s", filename, line, col, tv.Token)
			if tv.Value.Raw != "" {
				fmt.Fprintf(stdio.Stdout, " %s", tv.Value.Raw)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	return failed
}
