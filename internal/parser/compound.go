package parser

import (
	"fmt"

	"pyrefs/internal/ast"
	"pyrefs/internal/diag"
	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

// parseBlock reads the suite after ':' of a compound statement started by
// what on line headerLine.
func (p *Parser) parseBlock(what string, headerLine int) []ast.Stmt {
	p.expect(token.Colon, diag.SynExpectColon, "expected ':'")
	if !p.at(token.Newline) {
		return p.parseSimpleStatements()
	}
	p.advance()
	if !p.at(token.Indent) {
		if p.at(token.Invalid) {
			p.invalidToken()
		}
		p.errorAt(p.tok.Pos, diag.SynExpectIndent,
			fmt.Sprintf("expected an indented block after %s on line %d", what, headerLine+1))
	}
	p.advance()
	p.enter()
	var body []ast.Stmt
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		if p.eat(token.Newline) {
			continue
		}
		body = append(body, p.parseStatement()...)
	}
	p.eat(token.Dedent)
	p.leave()
	return body
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.advance().Pos
	s := &ast.If{Test: p.parseNamedExpr()}
	s.Body = p.parseBlock("'if' statement", start.Line)
	switch {
	case p.at(token.KwElif):
		s.Orelse = []ast.Stmt{p.parseIf()}
	case p.at(token.KwElse):
		els := p.advance().Pos
		s.Orelse = p.parseBlock("'else' statement", els.Line)
	}
	s.Loc = p.loc(start)
	return s
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.advance().Pos
	s := &ast.While{Test: p.parseNamedExpr()}
	s.Body = p.parseBlock("'while' statement", start.Line)
	if p.at(token.KwElse) {
		els := p.advance().Pos
		s.Orelse = p.parseBlock("'else' statement", els.Line)
	}
	s.Loc = p.loc(start)
	return s
}

func (p *Parser) parseFor(start source.Pos, async bool) ast.Stmt {
	p.expect(token.KwFor, diag.SynUnexpectedToken, "invalid syntax")
	s := &ast.For{Async: async}
	s.Target = p.parseTargetList()
	p.expect(token.KwIn, diag.SynUnexpectedToken, "invalid syntax")
	s.Iter = p.parseStarExpressions()
	s.Body = p.parseBlock("'for' statement", start.Line)
	if p.at(token.KwElse) {
		els := p.advance().Pos
		s.Orelse = p.parseBlock("'else' statement", els.Line)
	}
	s.Loc = p.loc(start)
	return s
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.advance().Pos
	s := &ast.Try{}
	s.Body = p.parseBlock("'try' statement", start.Line)
	for p.at(token.KwExcept) {
		hstart := p.advance().Pos
		star := p.eat(token.Star)
		if len(s.Handlers) > 0 && star != s.Star {
			p.errorAt(hstart, diag.SynInvalidSyntax, "cannot have both 'except' and 'except*' on the same 'try'")
		}
		s.Star = star
		h := &ast.ExceptHandler{}
		if !p.at(token.Colon) {
			h.Type = p.parseTest()
			if p.at(token.Comma) {
				p.errorAt(h.Type.Location().Pos, diag.SynInvalidSyntax, "multiple exception types must be parenthesized")
			}
			if p.eat(token.KwAs) {
				h.Name = p.expectName()
			}
		} else if star {
			p.errorAt(p.tok.Pos, diag.SynInvalidSyntax, "expected one or more exception types")
		}
		h.Body = p.parseBlock("'except' statement", hstart.Line)
		h.Loc = p.loc(hstart)
		s.Handlers = append(s.Handlers, h)
	}
	if p.at(token.KwElse) {
		if len(s.Handlers) == 0 {
			p.syntaxError()
		}
		els := p.advance().Pos
		s.Orelse = p.parseBlock("'else' statement", els.Line)
	}
	if p.at(token.KwFinally) {
		fin := p.advance().Pos
		s.Finalbody = p.parseBlock("'finally' statement", fin.Line)
	}
	if len(s.Handlers) == 0 && s.Finalbody == nil {
		if p.at(token.Invalid) {
			p.invalidToken()
		}
		p.errorAt(p.tok.Pos, diag.SynInvalidSyntax, "expected 'except' or 'finally' block")
	}
	s.Loc = p.loc(start)
	return s
}

func (p *Parser) parseWith(start source.Pos, async bool) ast.Stmt {
	p.expect(token.KwWith, diag.SynUnexpectedToken, "invalid syntax")
	s := &ast.With{Async: async}
	if p.at(token.LParen) {
		var items []*ast.WithItem
		ok := p.try(func() {
			p.advance()
			for {
				items = append(items, p.parseWithItem())
				if !p.eat(token.Comma) || p.at(token.RParen) {
					break
				}
			}
			p.expect(token.RParen, diag.SynUnclosedBracket, "invalid syntax")
			if !p.at(token.Colon) {
				p.syntaxError()
			}
		})
		if ok {
			s.Items = items
		}
	}
	if s.Items == nil {
		for {
			s.Items = append(s.Items, p.parseWithItem())
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	s.Body = p.parseBlock("'with' statement", start.Line)
	s.Loc = p.loc(start)
	return s
}

func (p *Parser) parseWithItem() *ast.WithItem {
	it := &ast.WithItem{ContextExpr: p.parseTest()}
	if p.eat(token.KwAs) {
		it.OptionalVars = p.parseStarTarget()
		p.setContext(it.OptionalVars, ast.Store, "assign to")
	}
	return it
}

func (p *Parser) parseDecorated() ast.Stmt {
	var decorators []ast.Expr
	for p.eat(token.At) {
		decorators = append(decorators, p.parseNamedExpr())
		if !p.at(token.Newline) {
			p.syntaxError()
		}
		p.advance()
	}
	switch p.tok.Kind {
	case token.KwDef:
		return p.parseFunctionDef(decorators, p.tok.Pos, false)
	case token.KwClass:
		return p.parseClassDef(decorators)
	case token.KwAsync:
		if p.peek(1).Kind == token.KwDef {
			return p.parseAsync(decorators)
		}
	}
	p.syntaxError()
	return nil
}

func (p *Parser) parseAsync(decorators []ast.Expr) ast.Stmt {
	start := p.advance().Pos
	switch p.tok.Kind {
	case token.KwDef:
		return p.parseFunctionDef(decorators, start, true)
	case token.KwFor:
		return p.parseFor(start, true)
	case token.KwWith:
		return p.parseWith(start, true)
	}
	p.syntaxError()
	return nil
}

func (p *Parser) parseFunctionDef(decorators []ast.Expr, start source.Pos, async bool) ast.Stmt {
	p.expect(token.KwDef, diag.SynUnexpectedToken, "invalid syntax")
	s := &ast.FunctionDef{Async: async, Decorators: decorators}
	s.Name = p.expectName()
	if p.at(token.LBracket) {
		s.TypeParams = p.parseTypeParams()
	}
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	s.Args = p.parseParameters(token.RParen, true)
	p.expect(token.RParen, diag.SynUnclosedBracket, "invalid syntax")
	if p.eat(token.Arrow) {
		s.Returns = p.parseTest()
	}
	s.Body = p.parseBlock("function definition", start.Line)
	s.Loc = p.loc(start)
	return s
}

func (p *Parser) parseClassDef(decorators []ast.Expr) ast.Stmt {
	start := p.advance().Pos
	s := &ast.ClassDef{Decorators: decorators}
	s.Name = p.expectName()
	if p.at(token.LBracket) {
		s.TypeParams = p.parseTypeParams()
	}
	if p.eat(token.LParen) {
		s.Bases, s.Keywords = p.parseCallArgs()
	}
	s.Body = p.parseBlock("class definition", start.Line)
	s.Loc = p.loc(start)
	return s
}

func (p *Parser) parseTypeParams() []ast.TypeParam {
	p.expect(token.LBracket, diag.SynUnexpectedToken, "invalid syntax")
	var out []ast.TypeParam
	for !p.at(token.RBracket) {
		start := p.tok.Pos
		switch {
		case p.eat(token.Star):
			name := p.expectName()
			out = append(out, &ast.TypeVarTuple{Loc: p.loc(start), Name: name})
		case p.eat(token.StarStar):
			name := p.expectName()
			out = append(out, &ast.ParamSpec{Loc: p.loc(start), Name: name})
		default:
			tv := &ast.TypeVar{Name: p.expectName()}
			if p.eat(token.Colon) {
				tv.Bound = p.parseTest()
			}
			tv.Loc = p.loc(start)
			out = append(out, tv)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	if len(out) == 0 {
		p.errorAt(p.tok.Pos, diag.SynInvalidSyntax, "Type parameter list cannot be empty")
	}
	p.expect(token.RBracket, diag.SynUnclosedBracket, "invalid syntax")
	return out
}
