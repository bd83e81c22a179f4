package parser

import (
	"pyrefs/internal/ast"
	"pyrefs/internal/diag"
	"pyrefs/internal/token"
)

// parseCallArgs reads call arguments after '(' through the closing ')'.
func (p *Parser) parseCallArgs() ([]ast.Expr, []*ast.Keyword) {
	open := p.toks[p.idx-1].Pos
	p.enter()
	defer p.leave()
	var (
		args      []ast.Expr
		kws       []*ast.Keyword
		sawKw     bool
		sawKwRest bool
	)
	for !p.at(token.RParen) {
		start := p.tok.Pos
		switch {
		case p.eat(token.StarStar):
			v := p.parseTest()
			kws = append(kws, &ast.Keyword{Loc: p.loc(start), Value: v})
			sawKwRest = true
		case p.at(token.Star):
			p.advance()
			v := p.parseTest()
			args = append(args, &ast.Starred{Loc: p.loc(start), Value: v})
		case p.at(token.Name) && p.peek(1).Kind == token.Assign:
			name := p.advance().Text
			p.advance()
			v := p.parseTest()
			kws = append(kws, &ast.Keyword{Loc: p.loc(start), Name: name, Value: v})
			sawKw = true
		default:
			e := p.parseNamedExpr()
			if p.atOr(token.KwFor, token.KwAsync) {
				gens := p.parseComprehensions()
				e = &ast.GeneratorExp{Elt: e, Generators: gens}
				if len(args) > 0 || len(kws) > 0 || !p.at(token.RParen) {
					p.errorAt(start, diag.SynInvalidSyntax, "Generator expression must be parenthesized")
				}
				// единственный аргумент-генератор занимает и скобки вызова
				p.advance()
				e.(*ast.GeneratorExp).Loc = p.loc(open)
				return []ast.Expr{e}, nil
			}
			if p.at(token.Assign) {
				p.errorAt(start, diag.SynInvalidSyntax, `expression cannot contain assignment, perhaps you meant "=="?`)
			}
			switch {
			case sawKwRest:
				p.errorAt(start, diag.SynInvalidSyntax, "positional argument follows keyword argument unpacking")
			case sawKw:
				p.errorAt(start, diag.SynInvalidSyntax, "positional argument follows keyword argument")
			}
			args = append(args, e)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, diag.SynUnclosedBracket, "invalid syntax")
	return args, kws
}

// parseParameters reads a def or lambda signature up to, not including,
// closing. Annotations are allowed only in def.
func (p *Parser) parseParameters(closing token.Kind, annotations bool) *ast.Arguments {
	a := &ast.Arguments{}
	var (
		params     []*ast.Arg // позиционные, пока не встретили '/'
		sawDefault bool
		sawStar    bool
		sawSlash   bool
	)
	for !p.at(closing) {
		start := p.tok.Pos
		switch {
		case p.at(token.Slash):
			p.advance()
			if sawSlash || sawStar || len(params) == 0 {
				p.errorAt(start, diag.SynInvalidSyntax, "at least one argument must precede /")
			}
			a.PosOnly = params
			params = nil
			sawSlash = true
		case p.at(token.StarStar):
			p.advance()
			a.Kwarg = p.parseParam(annotations, false)
			if p.eat(token.Comma) && !p.at(closing) {
				p.errorAt(p.tok.Pos, diag.SynInvalidSyntax, "arguments cannot follow var-keyword argument")
			}
			if !p.at(closing) {
				p.syntaxError()
			}
			continue
		case p.at(token.Star):
			p.advance()
			if sawStar {
				p.errorAt(start, diag.SynInvalidSyntax, "* argument may appear only once")
			}
			sawStar = true
			if p.at(token.Name) {
				a.Vararg = p.parseParam(annotations, true)
			} else if p.at(closing) || (p.at(token.Comma) && p.peek(1).Kind == closing) {
				p.errorAt(start, diag.SynInvalidSyntax, "named arguments must follow bare *")
			}
		default:
			arg := p.parseParam(annotations, false)
			var def ast.Expr
			if p.eat(token.Assign) {
				def = p.parseTest()
			}
			if sawStar {
				a.KwOnly = append(a.KwOnly, arg)
				a.KwDefaults = append(a.KwDefaults, def)
				break
			}
			if def != nil {
				sawDefault = true
				a.Defaults = append(a.Defaults, def)
			} else if sawDefault {
				p.errorAt(start, diag.SynInvalidSyntax, "parameter without a default follows parameter with a default")
			}
			params = append(params, arg)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	a.Args = params
	return a
}

func (p *Parser) parseParam(annotations, star bool) *ast.Arg {
	start := p.tok.Pos
	arg := &ast.Arg{Name: p.expectName()}
	if annotations && p.eat(token.Colon) {
		if star && p.at(token.Star) {
			arg.Annotation = p.parseStarExpression()
		} else {
			arg.Annotation = p.parseTest()
		}
	}
	arg.Loc = p.loc(start)
	return arg
}
