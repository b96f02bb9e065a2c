package parser

import (
	"github.com/jaugustosaba/madjit/lang/ast"
	"github.com/jaugustosaba/madjit/lang/token"
)

// parseExpr parses the full expression grammar:
//
//	expr   := mult ('+' mult)*
//	mult   := single ('*' single)*
//	single := atom call*
//	call   := '(' (expr (',' expr)*)? ')'
//	atom   := IDENT | INT | '(' expr ')'
func (p *parser) parseExpr() ast.Expr { return p.parseAddExpr() }

func (p *parser) parseAddExpr() ast.Expr {
	left := p.parseMultExpr()
	for p.tok == token.ADD {
		pos := p.val.Pos
		p.advance()
		right := p.parseMultExpr()
		left = &ast.BinaryExpr{Left: left, OpPos: pos, Op: token.ADD, Right: right}
	}
	return left
}

func (p *parser) parseMultExpr() ast.Expr {
	left := p.parseSingleExpr()
	for p.tok == token.MULT {
		pos := p.val.Pos
		p.advance()
		right := p.parseSingleExpr()
		left = &ast.BinaryExpr{Left: left, OpPos: pos, Op: token.MULT, Right: right}
	}
	return left
}

func (p *parser) parseSingleExpr() ast.Expr {
	expr := p.parseAtomExpr()
	for p.tok == token.LPAREN {
		expr = p.parseCallExpr(expr)
	}
	return expr
}

func (p *parser) parseAtomExpr() ast.Expr {
	switch p.tok {
	case token.IDENT:
		name, pos := p.val.Raw, p.val.Pos
		p.advance()
		return &ast.IdentExpr{Name: name, Pos: pos}
	case token.INT:
		raw, pos, n := p.val.Raw, p.val.Pos, p.val.Int
		p.advance()
		return &ast.NumberExpr{Pos: pos, Raw: raw, Value: n}
	case token.LPAREN:
		p.advance()
		expr := p.parseExpr()
		p.expect(token.RPAREN)
		return expr
	default:
		p.errorExpected(p.val.Pos, "expression")
		pos := p.val.Pos
		p.advance()
		return &ast.NumberExpr{Pos: pos, Raw: "0"}
	}
}

func (p *parser) parseCallExpr(proc ast.Expr) *ast.CallExpr {
	call := &ast.CallExpr{Proc: proc, Lparen: p.expect(token.LPAREN)}
	if p.tok != token.RPAREN {
		for {
			call.Args = append(call.Args, p.parseExpr())
			if p.tok != token.COMMA {
				break
			}
			p.advance()
		}
	}
	call.Rparen = p.expect(token.RPAREN)
	return call
}
