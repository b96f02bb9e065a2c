package parser

import (
	"github.com/jaugustosaba/madjit/lang/ast"
	"github.com/jaugustosaba/madjit/lang/token"
)

// parseBlock parses a sequence of statements up to (but not consuming) an
// 'end' or 'done' terminator. A block-ending statement (currently only
// ReturnStmt) may only appear last; anything parsed after one is still
// collected, but reported as a syntax error once, matching the original
// grammar's "return must end its block" shape.
func (p *parser) parseBlock() *ast.Block {
	block := &ast.Block{Start: p.val.Pos}
	var ending ast.Stmt
	var endingReported bool
	for p.tok != token.END && p.tok != token.DONE && p.tok != token.EOF {
		stmt := p.parseStmt()
		if ending != nil && !endingReported {
			pos, _ := stmt.Span()
			p.error(pos, "unreachable statement after return")
			endingReported = true
		} else if stmt.BlockEnding() {
			ending = stmt
		}
		block.Stmts = append(block.Stmts, stmt)
		p.expect(token.SEMI)
	}
	block.End = p.val.Pos
	return block
}
