package parser

import (
	"github.com/jaugustosaba/madjit/lang/ast"
	"github.com/jaugustosaba/madjit/lang/token"
)

// parseStmt parses a single statement: assignment, for-loop, return, or a
// bare call expression used as a statement.
func (p *parser) parseStmt() ast.Stmt {
	switch p.tok {
	case token.FOR:
		return p.parseForStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	default:
		expr := p.parseExpr()
		if p.tok == token.ASSIGN {
			assign := p.val.Pos
			p.advance()
			right := p.parseExpr()
			return &ast.AssignStmt{Left: expr, Assign: assign, Right: right}
		}
		if call, ok := expr.(*ast.CallExpr); ok {
			return &ast.ExprStmt{X: call}
		}
		p.error(p.val.Pos, "expected ':=' or a procedure call")
		return &ast.ExprStmt{X: expr}
	}
}

func (p *parser) parseForStmt() *ast.ForStmt {
	stmt := &ast.ForStmt{For: p.expect(token.FOR)}
	stmt.Name, stmt.NamePos = p.parseIdent()
	p.expect(token.ASSIGN)
	stmt.From = p.parseExpr()
	p.expect(token.TO)
	stmt.To = p.parseExpr()
	p.expect(token.DO)
	stmt.Body = p.parseBlock()
	stmt.Done = p.expect(token.DONE)
	return stmt
}

func (p *parser) parseReturnStmt() *ast.ReturnStmt {
	stmt := &ast.ReturnStmt{Return: p.expect(token.RETURN)}
	if p.tok != token.SEMI {
		stmt.Expr = p.parseExpr()
	}
	stmt.Semi = p.val.Pos
	return stmt
}
