package parser

import (
	"strings"

	"pyrefs/internal/ast"
	"pyrefs/internal/diag"
	"pyrefs/internal/token"
)

func (p *Parser) parseFile() *ast.Module {
	mod := &ast.Module{}
	for !p.at(token.EOF) {
		if p.eat(token.Newline) {
			continue
		}
		mod.Body = append(mod.Body, p.parseStatement()...)
	}
	return mod
}

// parseStatement разбирает одну строку: составной оператор или набор простых через ';'
func (p *Parser) parseStatement() []ast.Stmt {
	switch p.tok.Kind {
	case token.KwIf:
		return []ast.Stmt{p.parseIf()}
	case token.KwWhile:
		return []ast.Stmt{p.parseWhile()}
	case token.KwFor:
		return []ast.Stmt{p.parseFor(p.tok.Pos, false)}
	case token.KwTry:
		return []ast.Stmt{p.parseTry()}
	case token.KwWith:
		return []ast.Stmt{p.parseWith(p.tok.Pos, false)}
	case token.KwDef:
		return []ast.Stmt{p.parseFunctionDef(nil, p.tok.Pos, false)}
	case token.KwClass:
		return []ast.Stmt{p.parseClassDef(nil)}
	case token.At:
		return []ast.Stmt{p.parseDecorated()}
	case token.KwAsync:
		return []ast.Stmt{p.parseAsync(nil)}
	case token.Name:
		if p.atSoft("match") {
			if s := p.tryMatch(); s != nil {
				return []ast.Stmt{s}
			}
		}
	case token.Indent, token.Dedent, token.Invalid:
		p.syntaxError()
	}
	return p.parseSimpleStatements()
}

func (p *Parser) parseSimpleStatements() []ast.Stmt {
	var out []ast.Stmt
	for {
		out = append(out, p.parseSmallStatement())
		if !p.eat(token.Semicolon) || p.at(token.Newline) {
			break
		}
	}
	if !p.at(token.Newline) {
		p.syntaxError()
	}
	p.advance()
	return out
}

func (p *Parser) atStmtEnd() bool {
	return p.atOr(token.Newline, token.Semicolon, token.EOF)
}

func (p *Parser) parseSmallStatement() ast.Stmt {
	start := p.tok.Pos
	switch p.tok.Kind {
	case token.KwPass:
		p.advance()
		return &ast.Pass{Loc: p.loc(start)}
	case token.KwBreak:
		p.advance()
		return &ast.Break{Loc: p.loc(start)}
	case token.KwContinue:
		p.advance()
		return &ast.Continue{Loc: p.loc(start)}
	case token.KwReturn:
		p.advance()
		s := &ast.Return{}
		if !p.atStmtEnd() {
			s.Value = p.parseStarExpressions()
		}
		s.Loc = p.loc(start)
		return s
	case token.KwRaise:
		p.advance()
		s := &ast.Raise{}
		if !p.atStmtEnd() {
			s.Exc = p.parseTest()
			if p.eat(token.KwFrom) {
				s.Cause = p.parseTest()
			}
		}
		s.Loc = p.loc(start)
		return s
	case token.KwGlobal, token.KwNonlocal:
		kw := p.advance().Kind
		var names []string
		for {
			names = append(names, p.expectName())
			if !p.eat(token.Comma) {
				break
			}
		}
		if kw == token.KwGlobal {
			return &ast.Global{Loc: p.loc(start), Names: names}
		}
		return &ast.Nonlocal{Loc: p.loc(start), Names: names}
	case token.KwDel:
		p.advance()
		s := &ast.Delete{}
		for {
			t := p.parseBitOr()
			p.setContext(t, ast.Del, "delete")
			s.Targets = append(s.Targets, t)
			if !p.eat(token.Comma) || p.atStmtEnd() {
				break
			}
		}
		s.Loc = p.loc(start)
		return s
	case token.KwAssert:
		p.advance()
		s := &ast.Assert{Test: p.parseTest()}
		if p.eat(token.Comma) {
			s.Msg = p.parseTest()
		}
		s.Loc = p.loc(start)
		return s
	case token.KwImport:
		return p.parseImport()
	case token.KwFrom:
		return p.parseImportFrom()
	case token.Name:
		if p.atSoft("type") && p.peek(1).Kind == token.Name &&
			(p.peek(2).Kind == token.Assign || p.peek(2).Kind == token.LBracket) {
			return p.parseTypeAlias()
		}
	}
	return p.parseExprStatement()
}

func (p *Parser) expectName() string {
	if !p.at(token.Name) {
		p.syntaxError()
	}
	return p.advance().Text
}

// parseImport: import a.b as c, d
func (p *Parser) parseImport() ast.Stmt {
	start := p.advance().Pos
	s := &ast.Import{}
	for {
		s.Names = append(s.Names, p.parseAlias(true))
		if !p.eat(token.Comma) {
			break
		}
	}
	s.Loc = p.loc(start)
	return s
}

// parseAlias reads "name [as asname]"; dotted allows a.b.c.
func (p *Parser) parseAlias(dotted bool) *ast.Alias {
	start := p.tok.Pos
	var name string
	if dotted {
		name = p.parseDottedName()
	} else {
		name = p.expectName()
	}
	a := &ast.Alias{Name: name}
	if p.eat(token.KwAs) {
		a.AsName = p.expectName()
	}
	a.Loc = p.loc(start)
	return a
}

func (p *Parser) parseDottedName() string {
	var sb strings.Builder
	sb.WriteString(p.expectName())
	for p.eat(token.Dot) {
		sb.WriteByte('.')
		sb.WriteString(p.expectName())
	}
	return sb.String()
}

// parseImportFrom: from ..pkg.mod import (a as b, c) | *
func (p *Parser) parseImportFrom() ast.Stmt {
	start := p.advance().Pos
	s := &ast.ImportFrom{}
	for {
		if p.eat(token.Dot) {
			s.Level++
		} else if p.eat(token.Ellipsis) {
			s.Level += 3
		} else {
			break
		}
	}
	if !p.at(token.KwImport) || s.Level == 0 {
		s.Module = p.parseDottedName()
	}
	p.expect(token.KwImport, diag.SynUnexpectedToken, "invalid syntax")
	switch {
	case p.at(token.Star):
		st := p.advance().Pos
		s.Names = []*ast.Alias{{Loc: p.loc(st), Name: "*"}}
	case p.eat(token.LParen):
		for {
			s.Names = append(s.Names, p.parseAlias(false))
			if !p.eat(token.Comma) || p.at(token.RParen) {
				break
			}
		}
		p.expect(token.RParen, diag.SynUnclosedBracket, "invalid syntax")
	default:
		for {
			s.Names = append(s.Names, p.parseAlias(false))
			if !p.eat(token.Comma) {
				break
			}
			if p.atStmtEnd() {
				p.errorAt(p.tok.Pos, diag.SynInvalidSyntax, "trailing comma not allowed without surrounding parentheses")
			}
		}
	}
	s.Loc = p.loc(start)
	return s
}

func (p *Parser) parseTypeAlias() ast.Stmt {
	start := p.advance().Pos
	nameTok := p.advance()
	s := &ast.TypeAlias{}
	s.Name = &ast.Name{Loc: p.loc(nameTok.Pos), ID: nameTok.Text, Ctx: ast.Store}
	if p.at(token.LBracket) {
		s.TypeParams = p.parseTypeParams()
	}
	p.expect(token.Assign, diag.SynUnexpectedToken, "invalid syntax")
	s.Value = p.parseTest()
	s.Loc = p.loc(start)
	return s
}

// parseExprStatement: выражение, присваивание, аннотированное или составное присваивание
func (p *Parser) parseExprStatement() ast.Stmt {
	start := p.tok.Pos
	parenthesized := p.at(token.LParen)
	var first ast.Expr
	if p.at(token.KwYield) {
		first = p.parseYield()
	} else {
		first = p.parseStarExpressions()
	}
	switch {
	case p.at(token.Colon):
		p.advance()
		p.checkSingleTarget(first, "annotated")
		s := &ast.AnnAssign{Target: first, Annotation: p.parseTest()}
		_, isName := first.(*ast.Name)
		s.Simple = isName && !parenthesized
		if p.eat(token.Assign) {
			s.Value = p.parseAssignValue()
		}
		s.Loc = p.loc(start)
		return s
	case p.tok.Kind.IsAugAssign():
		op := augOps[p.advance().Kind]
		p.checkSingleTarget(first, "augmented")
		s := &ast.AugAssign{Target: first, Op: op, Value: p.parseAssignValue()}
		s.Loc = p.loc(start)
		return s
	case p.at(token.Assign):
		targets := []ast.Expr{first}
		var value ast.Expr
		for p.eat(token.Assign) {
			value = p.parseAssignValue()
			targets = append(targets, value)
		}
		targets = targets[:len(targets)-1]
		for _, t := range targets {
			p.setContext(t, ast.Store, "assign to")
		}
		s := &ast.Assign{Targets: targets, Value: value}
		s.Loc = p.loc(start)
		return s
	}
	s := &ast.ExprStmt{Value: first}
	s.Loc = p.loc(start)
	return s
}

func (p *Parser) parseAssignValue() ast.Expr {
	if p.at(token.KwYield) {
		return p.parseYield()
	}
	return p.parseStarExpressions()
}

var augOps = map[token.Kind]ast.BinOpKind{
	token.PlusAssign:       ast.Add,
	token.MinusAssign:      ast.Sub,
	token.StarAssign:       ast.Mult,
	token.AtAssign:         ast.MatMult,
	token.SlashAssign:      ast.Div,
	token.PercentAssign:    ast.Mod,
	token.AmpAssign:        ast.BitAnd,
	token.PipeAssign:       ast.BitOr,
	token.CaretAssign:      ast.BitXor,
	token.ShlAssign:        ast.LShift,
	token.ShrAssign:        ast.RShift,
	token.StarStarAssign:   ast.Pow,
	token.SlashSlashAssign: ast.FloorDiv,
}
