package compiler_test

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jaugustosaba/madjit/internal/filetest"
	"github.com/jaugustosaba/madjit/lang/parser"
	"github.com/jaugustosaba/madjit/lang/resolver"
	"github.com/jaugustosaba/madjit/lang/typecheck"
	"github.com/stretchr/testify/require"

	"github.com/jaugustosaba/madjit/lang/compiler"
)

var updateDumpTests = flag.Bool("test.update-dump-tests", false, "update lang/compiler golden dump files")

// TestDump compiles every testdata/*.mad file and diffs its disassembly
// against the matching .want golden file, matching the teacher's
// golden-file test layout.
func TestDump(t *testing.T) {
	for _, fi := range filetest.SourceFiles(t, "testdata", ".mad") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join("testdata", fi.Name()))
			require.NoError(t, err)

			name := strings.TrimSuffix(fi.Name(), ".mad")
			prog, err := parser.ParseFile(name, src)
			require.NoError(t, err)
			res, err := resolver.Resolve(name, prog)
			require.NoError(t, err)
			tc, err := typecheck.Check(name, prog, res)
			require.NoError(t, err)
			out, err := compiler.Lower(prog, res, tc)
			require.NoError(t, err)

			var buf strings.Builder
			require.NoError(t, out.Dump(&buf))

			filetest.DiffOutput(t, fi, buf.String(), "testdata", updateDumpTests)
		})
	}
}
