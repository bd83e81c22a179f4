package parser

import (
	"strings"

	"pyrefs/internal/ast"
	"pyrefs/internal/diag"
	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

// parseAtom: имя, литерал или скобочная конструкция
func (p *Parser) parseAtom() ast.Expr {
	start := p.tok.Pos
	switch p.tok.Kind {
	case token.Name:
		t := p.advance()
		return &ast.Name{Loc: p.loc(start), ID: t.Text}
	case token.Number:
		t := p.advance()
		c := numberConstant(t.Text)
		c.Loc = p.loc(start)
		return c
	case token.String, token.FString:
		return p.parseStrings()
	case token.KwNone:
		p.advance()
		return &ast.Constant{Loc: p.loc(start), Kind: ast.ConstNone}
	case token.KwTrue, token.KwFalse:
		t := p.advance()
		return &ast.Constant{Loc: p.loc(start), Kind: ast.ConstBool, Bool: t.Kind == token.KwTrue}
	case token.Ellipsis:
		p.advance()
		return &ast.Constant{Loc: p.loc(start), Kind: ast.ConstEllipsis}
	case token.LParen:
		return p.parseParen()
	case token.LBracket:
		return p.parseListDisplay()
	case token.LBrace:
		return p.parseBraceDisplay()
	}
	p.syntaxError()
	return nil
}

// numberConstant classifies a NUMBER token; Text keeps the literal minus '_'.
func numberConstant(text string) *ast.Constant {
	text = strings.ReplaceAll(text, "_", "")
	c := &ast.Constant{Text: text, Kind: ast.ConstInt}
	lower := strings.ToLower(text)
	switch {
	case strings.HasSuffix(lower, "j"):
		c.Kind = ast.ConstComplex
	case strings.HasPrefix(lower, "0x"), strings.HasPrefix(lower, "0o"), strings.HasPrefix(lower, "0b"):
	case strings.ContainsAny(lower, ".e"):
		c.Kind = ast.ConstFloat
	}
	return c
}

func (p *Parser) parseParen() ast.Expr {
	start := p.advance().Pos
	p.enter()
	defer p.leave()
	if p.eat(token.RParen) {
		return &ast.Tuple{Loc: p.loc(start)}
	}
	if p.at(token.KwYield) {
		y := p.parseYield()
		p.expect(token.RParen, diag.SynUnclosedBracket, "invalid syntax")
		return y
	}
	first := p.parseStarNamedExpression()
	if p.atOr(token.KwFor, token.KwAsync) {
		gens := p.parseComprehensions()
		p.expect(token.RParen, diag.SynUnclosedBracket, "invalid syntax")
		return &ast.GeneratorExp{Loc: p.loc(start), Elt: first, Generators: gens}
	}
	if !p.at(token.Comma) {
		if s, ok := first.(*ast.Starred); ok {
			p.errorAt(s.Pos, diag.SynInvalidSyntax, "cannot use starred expression here")
		}
		p.expect(token.RParen, diag.SynUnclosedBracket, "invalid syntax")
		return first
	}
	elts := []ast.Expr{first}
	for p.eat(token.Comma) && !p.at(token.RParen) {
		elts = append(elts, p.parseStarNamedExpression())
	}
	p.expect(token.RParen, diag.SynUnclosedBracket, "invalid syntax")
	return &ast.Tuple{Loc: p.loc(start), Elts: elts}
}

func (p *Parser) parseListDisplay() ast.Expr {
	start := p.advance().Pos
	p.enter()
	defer p.leave()
	if p.eat(token.RBracket) {
		return &ast.List{Loc: p.loc(start)}
	}
	first := p.parseStarNamedExpression()
	if p.atOr(token.KwFor, token.KwAsync) {
		gens := p.parseComprehensions()
		p.expect(token.RBracket, diag.SynUnclosedBracket, "invalid syntax")
		return &ast.ListComp{Loc: p.loc(start), Elt: first, Generators: gens}
	}
	elts := []ast.Expr{first}
	for p.eat(token.Comma) && !p.at(token.RBracket) {
		elts = append(elts, p.parseStarNamedExpression())
	}
	p.expect(token.RBracket, diag.SynUnclosedBracket, "invalid syntax")
	return &ast.List{Loc: p.loc(start), Elts: elts}
}

// parseBraceDisplay: dict, set and their comprehensions
func (p *Parser) parseBraceDisplay() ast.Expr {
	start := p.advance().Pos
	p.enter()
	defer p.leave()
	if p.eat(token.RBrace) {
		return &ast.Dict{Loc: p.loc(start)}
	}
	if p.at(token.StarStar) {
		return p.parseDictRest(start, nil)
	}
	first := p.parseStarNamedExpression()
	if _, starred := first.(*ast.Starred); !starred && p.eat(token.Colon) {
		value := p.parseTest()
		if p.atOr(token.KwFor, token.KwAsync) {
			gens := p.parseComprehensions()
			p.expect(token.RBrace, diag.SynUnclosedBracket, "invalid syntax")
			return &ast.DictComp{Loc: p.loc(start), Key: first, Value: value, Generators: gens}
		}
		d := &ast.Dict{Keys: []ast.Expr{first}, Values: []ast.Expr{value}}
		if !p.eat(token.Comma) {
			p.expect(token.RBrace, diag.SynUnclosedBracket, "invalid syntax")
			d.Loc = p.loc(start)
			return d
		}
		return p.parseDictRest(start, d)
	}
	if p.atOr(token.KwFor, token.KwAsync) {
		gens := p.parseComprehensions()
		p.expect(token.RBrace, diag.SynUnclosedBracket, "invalid syntax")
		return &ast.SetComp{Loc: p.loc(start), Elt: first, Generators: gens}
	}
	elts := []ast.Expr{first}
	for p.eat(token.Comma) && !p.at(token.RBrace) {
		elts = append(elts, p.parseStarNamedExpression())
	}
	p.expect(token.RBrace, diag.SynUnclosedBracket, "invalid syntax")
	return &ast.Set{Loc: p.loc(start), Elts: elts}
}

// parseDictRest reads the remaining "key: value" and "**m" items of a dict
// display through the closing brace.
func (p *Parser) parseDictRest(start source.Pos, d *ast.Dict) ast.Expr {
	if d == nil {
		d = &ast.Dict{}
	}
	for !p.at(token.RBrace) {
		if p.eat(token.StarStar) {
			d.Keys = append(d.Keys, nil)
			d.Values = append(d.Values, p.parseBitOr())
		} else {
			k := p.parseTest()
			p.expect(token.Colon, diag.SynExpectColon, "':' expected after dictionary key")
			d.Keys = append(d.Keys, k)
			d.Values = append(d.Values, p.parseTest())
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBracket, "invalid syntax")
	d.Loc = p.loc(start)
	return d
}

func (p *Parser) parseComprehensions() []*ast.Comprehension {
	var gens []*ast.Comprehension
	for p.atOr(token.KwFor, token.KwAsync) {
		c := &ast.Comprehension{IsAsync: p.eat(token.KwAsync)}
		p.expect(token.KwFor, diag.SynUnexpectedToken, "invalid syntax")
		c.Target = p.parseTargetList()
		p.expect(token.KwIn, diag.SynUnexpectedToken, "invalid syntax")
		c.Iter = p.parseOrTest()
		for p.eat(token.KwIf) {
			c.Ifs = append(c.Ifs, p.parseOrTest())
		}
		gens = append(gens, c)
	}
	return gens
}
