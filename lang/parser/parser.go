// Package parser implements the recursive-descent parser that transforms
// madjit source code into an abstract syntax tree (AST).
package parser

import (
	"fmt"
	"strings"

	"github.com/jaugustosaba/madjit/lang/ast"
	"github.com/jaugustosaba/madjit/lang/scanner"
	"github.com/jaugustosaba/madjit/lang/token"
)

// ParseFile parses a single madjit source file and returns its AST and any
// syntax errors encountered. Unlike the original single-error-stops-parsing
// grammar, every syntax error found is collected and returned together (the
// returned error, if non-nil, comes from scanner.ErrorList.Err and its
// Unwrap method returns one error per diagnostic).
func ParseFile(filename string, src []byte) (*ast.Prog, error) {
	var p parser
	p.init(filename, src)
	prog := p.parseProg()
	return prog, p.errors.Err()
}

type parser struct {
	filename string
	scanner  scanner.Scanner
	errors   scanner.ErrorList

	tok token.Token
	val token.Value
}

func (p *parser) init(filename string, src []byte) {
	p.filename = filename
	p.scanner.Init(filename, src, p.errors.Add)
	p.advance()
}

func (p *parser) advance() {
	p.tok = p.scanner.Scan(&p.val)
}

func (p *parser) error(pos token.Pos, msg string) {
	line, col := pos.LineCol()
	p.errors.Add(token.Position{Filename: p.filename, Line: line, Col: col}, msg)
}

func (p *parser) errorExpected(pos token.Pos, want string) {
	msg := "expected " + want
	if pos == p.val.Pos {
		lit := p.tok.GoString()
		if p.val.Raw != "" && !p.tok.IsKeyword() {
			lit = p.val.Raw
		}
		msg += ", found " + lit
	}
	p.error(pos, msg)
}

// expect consumes the current token if it matches one of toks and returns
// its position; otherwise it records a syntax error and returns the
// position of the offending token without consuming it.
func (p *parser) expect(toks ...token.Token) token.Pos {
	pos := p.val.Pos
	for _, tok := range toks {
		if p.tok == tok {
			p.advance()
			return pos
		}
	}

	var buf strings.Builder
	for i, tok := range toks {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(tok.GoString())
	}
	lbl := buf.String()
	if len(toks) > 1 {
		lbl = "one of " + lbl
	}
	p.errorExpected(pos, lbl)
	return pos
}

func (p *parser) parseIdent() (string, token.Pos) {
	pos := p.val.Pos
	if p.tok != token.IDENT {
		p.errorExpected(pos, "identifier")
		return "", pos
	}
	name := p.val.Raw
	p.advance()
	return name, pos
}

// parseProg parses Prog := ProcDecl* EOF.
func (p *parser) parseProg() *ast.Prog {
	prog := &ast.Prog{Name: p.filename}
	for p.tok != token.EOF {
		before := p.tok
		proc := p.parseProcDecl()
		prog.Procs = append(prog.Procs, proc)
		if p.tok == before {
			// parseProcDecl made no progress; avoid an infinite loop on a
			// malformed file by forcing progress.
			p.advance()
		}
	}
	prog.EOF = p.val.Pos
	return prog
}

// parseProcDecl parses:
//
//	'procedure' IDENT FParams? (':' IDENT)? ';' Vars? 'begin' Stmt* 'end' IDENT? ';'
func (p *parser) parseProcDecl() *ast.ProcDecl {
	decl := &ast.ProcDecl{}
	decl.Proc = p.expect(token.PROCEDURE)
	decl.Name, decl.NamePos = p.parseIdent()

	decl.FParams = p.parseFParams()

	if p.tok == token.COLON {
		p.advance()
		decl.ReturnType, decl.ReturnPos = p.parseIdent()
	}

	p.expect(token.SEMI)
	decl.Vars = p.parseVars()

	p.expect(token.BEGIN)
	decl.Body = p.parseBlock()

	p.expect(token.END)
	if p.tok == token.IDENT {
		decl.EndName = p.val.Raw
		decl.EndPos = p.val.Pos
		decl.NameMismatch = decl.EndName == decl.Name
		p.advance()
	}
	decl.Semi = p.expect(token.SEMI)

	return decl
}

// parseFParams parses an optional '(' (FParamGroup (';' FParamGroup)*)? ')'.
// Each group shares a single declared type across one or more names, e.g.
// "(a, b: integer; c: integer)".
func (p *parser) parseFParams() []*ast.FParam {
	if p.tok != token.LPAREN {
		return nil
	}
	p.advance()

	var params []*ast.FParam
	if p.tok != token.RPAREN {
		for {
			group := p.parseFParamGroup(len(params))
			params = append(params, group...)
			if p.tok != token.SEMI {
				break
			}
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *parser) parseFParamGroup(startNID int) []*ast.FParam {
	var names []*ast.FParam
	for {
		name, pos := p.parseIdent()
		names = append(names, &ast.FParam{Name: name, NamePos: pos, NID: startNID + len(names)})
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.COLON)
	typ, typPos := p.parseIdent()
	for _, fp := range names {
		fp.Type = typ
		fp.TypePos = typPos
	}
	return names
}

// parseVars parses an optional 'var' VarGroup+ where each VarGroup is
// "name (, name)* ':' type ';'", matching the original grammar's
// one-or-more grouped variable declarations.
func (p *parser) parseVars() []*ast.VarDecl {
	if p.tok != token.VAR {
		return nil
	}
	p.advance()

	var vars []*ast.VarDecl
	for p.tok == token.IDENT {
		group := p.parseVarGroup(len(vars))
		vars = append(vars, group...)
	}
	return vars
}

func (p *parser) parseVarGroup(startNID int) []*ast.VarDecl {
	var names []*ast.VarDecl
	for {
		name, pos := p.parseIdent()
		names = append(names, &ast.VarDecl{Name: name, NamePos: pos, NID: startNID + len(names)})
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.COLON)
	typ, typPos := p.parseIdent()
	for _, v := range names {
		v.Type = typ
		v.TypePos = typPos
	}
	p.expect(token.SEMI)
	return names
}
