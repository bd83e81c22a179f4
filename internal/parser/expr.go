package parser

import (
	"pyrefs/internal/ast"
	"pyrefs/internal/diag"
	"pyrefs/internal/token"
)

// parseStarExpressions: star_expressions — кортеж без скобок, если есть запятая
func (p *Parser) parseStarExpressions() ast.Expr {
	start := p.tok.Pos
	first := p.parseStarExpression()
	if !p.at(token.Comma) {
		return first
	}
	elts := []ast.Expr{first}
	for p.eat(token.Comma) {
		if !p.startsExpression() {
			break
		}
		elts = append(elts, p.parseStarExpression())
	}
	return &ast.Tuple{Loc: p.loc(start), Elts: elts}
}

func (p *Parser) parseStarExpression() ast.Expr {
	if p.at(token.Star) {
		start := p.advance().Pos
		v := p.parseBitOr()
		return &ast.Starred{Loc: p.loc(start), Value: v}
	}
	return p.parseTest()
}

// parseStarNamedExpression is an element of a list, set or tuple display.
func (p *Parser) parseStarNamedExpression() ast.Expr {
	if p.at(token.Star) {
		start := p.advance().Pos
		v := p.parseBitOr()
		return &ast.Starred{Loc: p.loc(start), Value: v}
	}
	return p.parseNamedExpr()
}

// startsExpression reports whether the current token can begin an expression.
func (p *Parser) startsExpression() bool {
	switch p.tok.Kind {
	case token.Name, token.Number, token.String, token.FString,
		token.KwNone, token.KwTrue, token.KwFalse, token.Ellipsis,
		token.LParen, token.LBracket, token.LBrace,
		token.Minus, token.Plus, token.Tilde, token.KwNot,
		token.KwLambda, token.KwAwait, token.Star, token.KwYield:
		return true
	}
	return false
}

func (p *Parser) parseNamedExpr() ast.Expr {
	if p.at(token.Name) && p.peek(1).Kind == token.ColonAssign {
		nameTok := p.advance()
		target := &ast.Name{Loc: p.loc(nameTok.Pos), ID: nameTok.Text, Ctx: ast.Store}
		p.advance()
		value := p.parseTest()
		return &ast.NamedExpr{Loc: p.loc(nameTok.Pos), Target: target, Value: value}
	}
	return p.parseTest()
}

// parseTest: expression — тернарный оператор или lambda
func (p *Parser) parseTest() ast.Expr {
	if p.at(token.KwLambda) {
		return p.parseLambda()
	}
	p.enter()
	defer p.leave()
	start := p.tok.Pos
	body := p.parseOrTest()
	if !p.at(token.KwIf) {
		return body
	}
	p.advance()
	test := p.parseOrTest()
	p.expect(token.KwElse, diag.SynUnexpectedToken, "expected 'else' after 'if' expression")
	orelse := p.parseTest()
	return &ast.IfExp{Loc: p.loc(start), Test: test, Body: body, Orelse: orelse}
}

func (p *Parser) parseLambda() ast.Expr {
	start := p.advance().Pos
	args := p.parseParameters(token.Colon, false)
	p.expect(token.Colon, diag.SynExpectColon, "expected ':'")
	body := p.parseTest()
	return &ast.Lambda{Loc: p.loc(start), Args: args, Body: body}
}

func (p *Parser) parseOrTest() ast.Expr {
	return p.parseBoolOp(token.KwOr, ast.Or, p.parseAndTest)
}

func (p *Parser) parseAndTest() ast.Expr {
	return p.parseBoolOp(token.KwAnd, ast.And, p.parseNotTest)
}

func (p *Parser) parseBoolOp(kw token.Kind, op ast.BoolOpKind, next func() ast.Expr) ast.Expr {
	start := p.tok.Pos
	first := next()
	if !p.at(kw) {
		return first
	}
	values := []ast.Expr{first}
	for p.eat(kw) {
		values = append(values, next())
	}
	return &ast.BoolOp{Loc: p.loc(start), Op: op, Values: values}
}

func (p *Parser) parseNotTest() ast.Expr {
	if p.at(token.KwNot) {
		start := p.advance().Pos
		p.enter()
		operand := p.parseNotTest()
		p.leave()
		return &ast.UnaryOp{Loc: p.loc(start), Op: ast.Not, Operand: operand}
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() ast.Expr {
	start := p.tok.Pos
	left := p.parseBitOr()
	var ops []ast.CmpOpKind
	var comparators []ast.Expr
	for {
		op, ok := p.compareOp()
		if !ok {
			break
		}
		ops = append(ops, op)
		comparators = append(comparators, p.parseBitOr())
	}
	if len(ops) == 0 {
		return left
	}
	return &ast.Compare{Loc: p.loc(start), Left: left, Ops: ops, Comparators: comparators}
}

// compareOp consumes a comparison operator, including "not in" and "is not".
func (p *Parser) compareOp() (ast.CmpOpKind, bool) {
	switch p.tok.Kind {
	case token.EqEq:
		p.advance()
		return ast.Eq, true
	case token.NotEq:
		p.advance()
		return ast.NotEq, true
	case token.Lt:
		p.advance()
		return ast.Lt, true
	case token.LtEq:
		p.advance()
		return ast.LtE, true
	case token.Gt:
		p.advance()
		return ast.Gt, true
	case token.GtEq:
		p.advance()
		return ast.GtE, true
	case token.KwIn:
		p.advance()
		return ast.In, true
	case token.KwNot:
		if p.peek(1).Kind == token.KwIn {
			p.advance()
			p.advance()
			return ast.NotIn, true
		}
	case token.KwIs:
		p.advance()
		if p.eat(token.KwNot) {
			return ast.IsNot, true
		}
		return ast.Is, true
	}
	return 0, false
}

// binary levels, lowest first
var binLevels = []map[token.Kind]ast.BinOpKind{
	{token.Pipe: ast.BitOr},
	{token.Caret: ast.BitXor},
	{token.Amp: ast.BitAnd},
	{token.Shl: ast.LShift, token.Shr: ast.RShift},
	{token.Plus: ast.Add, token.Minus: ast.Sub},
	{token.Star: ast.Mult, token.Slash: ast.Div, token.SlashSlash: ast.FloorDiv, token.Percent: ast.Mod, token.At: ast.MatMult},
}

func (p *Parser) parseBitOr() ast.Expr {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(level int) ast.Expr {
	if level == len(binLevels) {
		return p.parseFactor()
	}
	start := p.tok.Pos
	left := p.parseBinary(level + 1)
	for {
		op, ok := binLevels[level][p.tok.Kind]
		if !ok {
			return left
		}
		p.advance()
		right := p.parseBinary(level + 1)
		left = &ast.BinOp{Loc: p.loc(start), Left: left, Op: op, Right: right}
	}
}

func (p *Parser) parseFactor() ast.Expr {
	var op ast.UnaryOpKind
	switch p.tok.Kind {
	case token.Plus:
		op = ast.UAdd
	case token.Minus:
		op = ast.USub
	case token.Tilde:
		op = ast.Invert
	default:
		return p.parsePower()
	}
	start := p.advance().Pos
	p.enter()
	operand := p.parseFactor()
	p.leave()
	return &ast.UnaryOp{Loc: p.loc(start), Op: op, Operand: operand}
}

func (p *Parser) parsePower() ast.Expr {
	start := p.tok.Pos
	base := p.parseAwaitPrimary()
	if !p.eat(token.StarStar) {
		return base
	}
	p.enter()
	exp := p.parseFactor()
	p.leave()
	return &ast.BinOp{Loc: p.loc(start), Left: base, Op: ast.Pow, Right: exp}
}

func (p *Parser) parseAwaitPrimary() ast.Expr {
	if p.at(token.KwAwait) {
		start := p.advance().Pos
		v := p.parsePrimary()
		return &ast.Await{Loc: p.loc(start), Value: v}
	}
	return p.parsePrimary()
}

// parsePrimary: atom с цепочкой .attr, (call), [subscript]
func (p *Parser) parsePrimary() ast.Expr {
	start := p.tok.Pos
	e := p.parseAtom()
	for {
		switch p.tok.Kind {
		case token.Dot:
			p.advance()
			attr := p.expectName()
			e = &ast.Attribute{Loc: p.loc(start), Value: e, Attr: attr}
		case token.LParen:
			p.advance()
			args, kws := p.parseCallArgs()
			e = &ast.Call{Loc: p.loc(start), Func: e, Args: args, Keywords: kws}
		case token.LBracket:
			p.advance()
			p.enter()
			slice := p.parseSlices()
			p.leave()
			p.expect(token.RBracket, diag.SynUnclosedBracket, "invalid syntax")
			e = &ast.Subscript{Loc: p.loc(start), Value: e, Slice: slice}
		default:
			return e
		}
	}
}

func (p *Parser) parseSlices() ast.Expr {
	start := p.tok.Pos
	first := p.parseSlice()
	if !p.at(token.Comma) {
		return first
	}
	elts := []ast.Expr{first}
	for p.eat(token.Comma) && !p.at(token.RBracket) {
		elts = append(elts, p.parseSlice())
	}
	return &ast.Tuple{Loc: p.loc(start), Elts: elts}
}

func (p *Parser) parseSlice() ast.Expr {
	start := p.tok.Pos
	var lower ast.Expr
	if !p.at(token.Colon) {
		if p.at(token.Star) {
			return p.parseStarNamedExpression()
		}
		lower = p.parseNamedExpr()
		if !p.at(token.Colon) {
			return lower
		}
	}
	s := &ast.Slice{Lower: lower}
	p.advance()
	if !p.atOr(token.Colon, token.Comma, token.RBracket) {
		s.Upper = p.parseTest()
	}
	if p.eat(token.Colon) && !p.atOr(token.Comma, token.RBracket) {
		s.Step = p.parseTest()
	}
	s.Loc = p.loc(start)
	return s
}

func (p *Parser) parseYield() ast.Expr {
	start := p.advance().Pos
	if p.eat(token.KwFrom) {
		v := p.parseTest()
		return &ast.YieldFrom{Loc: p.loc(start), Value: v}
	}
	y := &ast.Yield{}
	if p.startsExpression() && !p.at(token.KwYield) {
		y.Value = p.parseStarExpressions()
	}
	y.Loc = p.loc(start)
	return y
}

// parseTargetList reads for-loop and comprehension targets, stopping
// before 'in'.
func (p *Parser) parseTargetList() ast.Expr {
	start := p.tok.Pos
	first := p.parseStarTarget()
	var target ast.Expr = first
	if p.at(token.Comma) {
		elts := []ast.Expr{first}
		for p.eat(token.Comma) && !p.at(token.KwIn) && !p.at(token.Assign) {
			elts = append(elts, p.parseStarTarget())
		}
		target = &ast.Tuple{Loc: p.loc(start), Elts: elts}
	}
	p.setContext(target, ast.Store, "assign to")
	return target
}

func (p *Parser) parseStarTarget() ast.Expr {
	if p.at(token.Star) {
		start := p.advance().Pos
		v := p.parseStarTarget()
		return &ast.Starred{Loc: p.loc(start), Value: v}
	}
	return p.parseBitOr()
}
