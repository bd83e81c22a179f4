package parser

import (
	"fmt"

	"pyrefs/internal/ast"
	"pyrefs/internal/diag"
	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

// tryMatch parses a match statement when the line really is one. "match"
// is a soft keyword: if the header doesn't parse as "match subject:" the
// parser rewinds and tryMatch returns nil.
func (p *Parser) tryMatch() ast.Stmt {
	start := p.tok.Pos
	var subject ast.Expr
	ok := p.try(func() {
		p.advance()
		subject = p.parseMatchSubject()
		if !p.at(token.Colon) || p.peek(1).Kind != token.Newline {
			p.syntaxError()
		}
	})
	if !ok {
		return nil
	}
	p.advance()
	p.advance()
	if !p.at(token.Indent) {
		if p.at(token.Invalid) {
			p.invalidToken()
		}
		p.errorAt(p.tok.Pos, diag.SynExpectIndent, fmt.Sprintf("expected an indented block after 'match' statement on line %d", start.Line+1))
	}
	p.advance()
	p.enter()
	s := &ast.Match{Subject: subject}
	for !p.at(token.Dedent) && !p.at(token.EOF) {
		if p.eat(token.Newline) {
			continue
		}
		if !p.atSoft("case") {
			p.syntaxError()
		}
		s.Cases = append(s.Cases, p.parseCase())
	}
	p.eat(token.Dedent)
	p.leave()
	s.Loc = p.loc(start)
	return s
}

func (p *Parser) parseMatchSubject() ast.Expr {
	start := p.tok.Pos
	first := p.parseStarNamedExpression()
	if !p.at(token.Comma) {
		if _, ok := first.(*ast.Starred); ok {
			p.syntaxError()
		}
		return first
	}
	elts := []ast.Expr{first}
	for p.eat(token.Comma) && !p.at(token.Colon) {
		elts = append(elts, p.parseStarNamedExpression())
	}
	return &ast.Tuple{Loc: p.loc(start), Elts: elts}
}

func (p *Parser) parseCase() *ast.MatchCase {
	line := p.advance().Pos.Line
	c := &ast.MatchCase{Pattern: p.parsePatterns()}
	if p.eat(token.KwIf) {
		c.Guard = p.parseNamedExpr()
	}
	c.Body = p.parseBlock("'case' statement", line)
	return c
}

// parsePatterns: верхний уровень case, "case a, *rest:" — открытая последовательность
func (p *Parser) parsePatterns() ast.Pattern {
	start := p.tok.Pos
	first := p.parseMaybeStarPattern()
	if !p.at(token.Comma) {
		if _, ok := first.(*ast.MatchStar); ok {
			p.syntaxError()
		}
		return first
	}
	pats := []ast.Pattern{first}
	for p.eat(token.Comma) && !p.atOr(token.Colon, token.KwIf) {
		pats = append(pats, p.parseMaybeStarPattern())
	}
	return &ast.MatchSequence{Loc: p.loc(start), Patterns: pats}
}

func (p *Parser) parseMaybeStarPattern() ast.Pattern {
	if !p.at(token.Star) {
		return p.parseAsPattern()
	}
	start := p.advance().Pos
	name := p.expectName()
	if name == "_" {
		name = ""
	}
	return &ast.MatchStar{Loc: p.loc(start), Name: name}
}

func (p *Parser) parseAsPattern() ast.Pattern {
	start := p.tok.Pos
	pat := p.parseOrPattern()
	if !p.eat(token.KwAs) {
		return pat
	}
	nameTok := p.expect(token.Name, diag.SynInvalidTarget, "invalid pattern target")
	if nameTok.Text == "_" {
		p.errorAt(nameTok.Pos, diag.SynInvalidTarget, "cannot use '_' as a target")
	}
	return &ast.MatchAs{Loc: p.loc(start), Pattern: pat, Name: nameTok.Text}
}

func (p *Parser) parseOrPattern() ast.Pattern {
	start := p.tok.Pos
	first := p.parseClosedPattern()
	if !p.at(token.Pipe) {
		return first
	}
	pats := []ast.Pattern{first}
	for p.eat(token.Pipe) {
		pats = append(pats, p.parseClosedPattern())
	}
	return &ast.MatchOr{Loc: p.loc(start), Patterns: pats}
}

func (p *Parser) parseClosedPattern() ast.Pattern {
	p.enter()
	defer p.leave()
	start := p.tok.Pos
	switch p.tok.Kind {
	case token.KwNone, token.KwTrue, token.KwFalse:
		c := p.parseAtom().(*ast.Constant)
		return &ast.MatchSingleton{Loc: p.loc(start), Value: c}
	case token.Number, token.Minus:
		v := p.parseSignedNumber()
		return &ast.MatchValue{Loc: p.loc(start), Value: v}
	case token.String, token.FString:
		v := p.parseStrings()
		if _, ok := v.(*ast.JoinedStr); ok {
			p.errorAt(start, diag.SynInvalidSyntax, "patterns may only match literals and attribute lookups")
		}
		return &ast.MatchValue{Loc: p.loc(start), Value: v}
	case token.Name:
		return p.parseNamePattern()
	case token.LParen:
		p.advance()
		if p.eat(token.RParen) {
			return &ast.MatchSequence{Loc: p.loc(start)}
		}
		first := p.parseMaybeStarPattern()
		if !p.at(token.Comma) {
			if _, ok := first.(*ast.MatchStar); ok {
				p.syntaxError()
			}
			p.expect(token.RParen, diag.SynUnclosedBracket, "invalid syntax")
			return first
		}
		pats := []ast.Pattern{first}
		for p.eat(token.Comma) && !p.at(token.RParen) {
			pats = append(pats, p.parseMaybeStarPattern())
		}
		p.expect(token.RParen, diag.SynUnclosedBracket, "invalid syntax")
		return &ast.MatchSequence{Loc: p.loc(start), Patterns: pats}
	case token.LBracket:
		p.advance()
		var pats []ast.Pattern
		for !p.at(token.RBracket) {
			pats = append(pats, p.parseMaybeStarPattern())
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RBracket, diag.SynUnclosedBracket, "invalid syntax")
		return &ast.MatchSequence{Loc: p.loc(start), Patterns: pats}
	case token.LBrace:
		return p.parseMappingPattern()
	}
	p.syntaxError()
	return nil
}

// parseSignedNumber: литерал числа в образце, включая -1 и 1+2j
func (p *Parser) parseSignedNumber() ast.Expr {
	start := p.tok.Pos
	var e ast.Expr
	if p.at(token.Minus) {
		p.advance()
		num := p.expect(token.Number, diag.SynInvalidSyntax, "invalid syntax")
		c := numberConstant(num.Text)
		c.Loc = p.loc(num.Pos)
		e = &ast.UnaryOp{Loc: p.loc(start), Op: ast.USub, Operand: c}
	} else {
		num := p.expect(token.Number, diag.SynInvalidSyntax, "invalid syntax")
		c := numberConstant(num.Text)
		c.Loc = p.loc(start)
		e = c
	}
	if p.atOr(token.Plus, token.Minus) {
		op := ast.Add
		if p.advance().Kind == token.Minus {
			op = ast.Sub
		}
		num := p.expect(token.Number, diag.SynInvalidSyntax, "invalid syntax")
		c := numberConstant(num.Text)
		c.Loc = p.loc(num.Pos)
		if c.Kind != ast.ConstComplex {
			p.errorAt(num.Pos, diag.SynInvalidSyntax, "imaginary number required in complex literal")
		}
		e = &ast.BinOp{Loc: p.loc(start), Left: e, Op: op, Right: c}
	}
	return e
}

// parseNamePattern: захват, _, значение a.b.c или класс C(...)
func (p *Parser) parseNamePattern() ast.Pattern {
	start := p.tok.Pos
	nameTok := p.advance()
	var value ast.Expr = &ast.Name{Loc: p.loc(start), ID: nameTok.Text}
	dotted := false
	for p.eat(token.Dot) {
		attr := p.expectName()
		value = &ast.Attribute{Loc: p.loc(start), Value: value, Attr: attr}
		dotted = true
	}
	if p.at(token.LParen) {
		return p.parseClassPattern(start, value)
	}
	if dotted {
		return &ast.MatchValue{Loc: p.loc(start), Value: value}
	}
	if nameTok.Text == "_" {
		return &ast.MatchAs{Loc: p.loc(start)}
	}
	return &ast.MatchAs{Loc: p.loc(start), Name: nameTok.Text}
}

func (p *Parser) parseClassPattern(start source.Pos, cls ast.Expr) ast.Pattern {
	p.advance()
	m := &ast.MatchClass{Cls: cls}
	for !p.at(token.RParen) {
		if p.at(token.Name) && p.peek(1).Kind == token.Assign {
			m.KwdAttrs = append(m.KwdAttrs, p.advance().Text)
			p.advance()
			m.KwdPatterns = append(m.KwdPatterns, p.parseAsPattern())
		} else {
			if len(m.KwdAttrs) > 0 {
				p.errorAt(p.tok.Pos, diag.SynInvalidSyntax, "positional patterns follow keyword patterns")
			}
			m.Patterns = append(m.Patterns, p.parseAsPattern())
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, diag.SynUnclosedBracket, "invalid syntax")
	m.Loc = p.loc(start)
	return m
}

func (p *Parser) parseMappingPattern() ast.Pattern {
	start := p.advance().Pos
	m := &ast.MatchMapping{}
	for !p.at(token.RBrace) {
		if p.eat(token.StarStar) {
			m.Rest = p.expectName()
			p.eat(token.Comma)
			break
		}
		var key ast.Expr
		switch p.tok.Kind {
		case token.KwNone, token.KwTrue, token.KwFalse, token.String:
			key = p.parseAtom()
		case token.Number, token.Minus:
			key = p.parseSignedNumber()
		case token.Name:
			kstart := p.tok.Pos
			key = &ast.Name{ID: p.advance().Text}
			key.(*ast.Name).Loc = p.loc(kstart)
			if !p.at(token.Dot) {
				p.syntaxError()
			}
			for p.eat(token.Dot) {
				attr := p.expectName()
				key = &ast.Attribute{Loc: p.loc(kstart), Value: key, Attr: attr}
			}
		default:
			p.syntaxError()
		}
		p.expect(token.Colon, diag.SynExpectColon, "invalid syntax")
		m.Keys = append(m.Keys, key)
		m.Patterns = append(m.Patterns, p.parseAsPattern())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBracket, "invalid syntax")
	m.Loc = p.loc(start)
	return m
}
