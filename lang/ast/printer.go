package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer controls pretty-printing of the AST nodes.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// WithPos includes each node's line:col span in the printed output.
	WithPos bool

	// NodeFmt is the format string to use to print the nodes. The verb must
	// be either `s` or `v`, a width can be set, and the `#` and `-` flags are
	// supported. Defaults to `%v`.
	NodeFmt string
}

// Print pretty-prints the AST node n, one line per node, indented by
// nesting depth.
func (p *Printer) Print(n Node) error {
	pp := &printer{
		w:       p.Output,
		withPos: p.WithPos,
		nodeFmt: p.NodeFmt,
	}
	if pp.nodeFmt == "" {
		pp.nodeFmt = "%v"
	}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w       io.Writer
	withPos bool
	nodeFmt string
	depth   int
	err     error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}

	p.depth++
	p.printNode(n, p.depth-1)
	return p
}

func (p *printer) printNode(n Node, indent int) {
	if p.err != nil {
		return
	}

	format := "%s"
	args := []interface{}{strings.Repeat(". ", indent)}
	if p.withPos {
		start, end := n.Span()
		sl, sc := start.LineCol()
		el, ec := end.LineCol()
		format += "[%d:%d-%d:%d] "
		args = append(args, sl, sc, el, ec)
	}
	format += p.nodeFmt + "\n"
	args = append(args, n)

	_, p.err = fmt.Fprintf(p.w, format, args...)
}
