package parser

import (
	"fmt"
	"slices"

	"pyrefs/internal/ast"
	"pyrefs/internal/diag"
	"pyrefs/internal/lexer"
	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

const defaultMaxDepth = 200

type Options struct {
	// NoEndPositions builds a tree where no node knows its end.
	NoEndPositions bool
	// TouchedLines are lines rewritten by error recovery; nodes whose extent
	// covers one of them get no end position.
	TouchedLines []int
	MaxTokens    int
	// MaxDepth bounds expression and block nesting (0 = default).
	MaxDepth int
}

// SyntaxError is the first error that stopped the parse.
type SyntaxError struct {
	Pos  source.Pos
	Msg  string
	Code diag.Code
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line+1, e.Pos.Col+1, e.Msg)
}

// Diagnostic converts the error into a diagnostic record.
func (e *SyntaxError) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{Code: e.Code, Pos: e.Pos, Message: e.Msg}
}

// bailout прерывает разбор на первой ошибке
type bailout struct{}

// Parser — состояние парсера на один буфер
type Parser struct {
	buf     *source.Buffer
	opts    Options
	toks    []token.Token
	idx     int
	tok     token.Token // текущий токен
	lastEnd source.Pos  // конец последнего значимого токена
	depth   int
	touched map[int]bool
	err     *SyntaxError
}

// Parse parses a whole module.
func Parse(buf *source.Buffer, opts Options) (mod *ast.Module, err error) {
	p := newParser(buf, opts, lexer.Tokenize(buf, lexer.Options{MaxTokens: opts.MaxTokens}))
	defer p.recoverInto(&err)
	mod = p.parseFile()
	return mod, nil
}

// ParseExpr parses a single expression (a whole buffer holding one line
// of expression text, as in eval mode).
func ParseExpr(buf *source.Buffer, opts Options) (e ast.Expr, err error) {
	toks := lexer.Tokenize(buf, lexer.Options{MaxTokens: opts.MaxTokens, Expr: true})
	p := newParser(buf, opts, toks)
	defer p.recoverInto(&err)
	e = p.parseStarExpressions()
	if !p.at(token.EOF) {
		p.syntaxError()
	}
	return e, nil
}

func newParser(buf *source.Buffer, opts Options, all []token.Token) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	toks := make([]token.Token, 0, len(all))
	for _, t := range all {
		if t.Kind == token.Comment || t.Kind == token.NL {
			continue
		}
		toks = append(toks, t)
	}
	p := &Parser{buf: buf, opts: opts, toks: toks}
	if len(opts.TouchedLines) > 0 {
		p.touched = make(map[int]bool, len(opts.TouchedLines))
		for _, l := range opts.TouchedLines {
			p.touched[l] = true
		}
	}
	p.tok = p.toks[0]
	return p
}

func (p *Parser) recoverInto(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(bailout); !ok {
		panic(r)
	}
	*err = p.err
}

func (p *Parser) at(k token.Kind) bool {
	return p.tok.Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.tok.Kind)
}

// atSoft reports whether the current token is the soft keyword word.
func (p *Parser) atSoft(word string) bool {
	return p.tok.IsSoft(word)
}

// peek returns the token n positions ahead of the current one.
func (p *Parser) peek(n int) token.Token {
	i := p.idx + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

// advance — съедает текущий токен и возвращает его
func (p *Parser) advance() token.Token {
	tok := p.tok
	switch tok.Kind {
	case token.Newline, token.Indent, token.Dedent, token.EOF:
	default:
		p.lastEnd = tok.End
	}
	if p.idx < len(p.toks)-1 {
		p.idx++
	}
	p.tok = p.toks[p.idx]
	return tok
}

const genericMsg = "invalid syntax"

// expect — ожидаем конкретный токен, иначе ошибка с позицией текущего.
// Общее "invalid syntax" уступает ошибкам токенизатора, как в syntaxError.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) token.Token {
	if !p.at(k) {
		if p.at(token.Invalid) || msg == genericMsg {
			p.syntaxError()
		}
		p.errorAt(p.tok.Pos, code, msg)
	}
	return p.advance()
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

type mark struct {
	idx     int
	lastEnd source.Pos
	depth   int
}

func (p *Parser) mark() mark { return mark{p.idx, p.lastEnd, p.depth} }

func (p *Parser) reset(m mark) {
	p.idx, p.lastEnd, p.depth = m.idx, m.lastEnd, m.depth
	p.tok = p.toks[p.idx]
}

// try runs f speculatively: a syntax error inside f rewinds the parser and
// reports false.
func (p *Parser) try(f func()) (ok bool) {
	m := p.mark()
	defer func() {
		if r := recover(); r != nil {
			if _, isBail := r.(bailout); !isBail {
				panic(r)
			}
			p.err = nil
			p.reset(m)
			ok = false
		}
	}()
	f()
	return true
}

// loc builds the extent of a node that started at start and ends with the
// last consumed token.
func (p *Parser) loc(start source.Pos) ast.Loc {
	l := ast.Loc{Pos: start, End: p.lastEnd}
	l.HasEnd = !p.opts.NoEndPositions && !p.touches(start.Line, p.lastEnd.Line)
	return l
}

func (p *Parser) touches(from, to int) bool {
	if p.touched == nil {
		return false
	}
	for l := from; l <= to; l++ {
		if p.touched[l] {
			return true
		}
	}
	return false
}

func (p *Parser) enter() {
	p.depth++
	if p.depth > p.opts.MaxDepth {
		p.errorAt(p.tok.Pos, diag.SynInvalidSyntax, "too many nested parentheses")
	}
}

func (p *Parser) leave() { p.depth-- }

// errorAt останавливает разбор
func (p *Parser) errorAt(pos source.Pos, code diag.Code, msg string) {
	p.err = &SyntaxError{Pos: pos, Msg: msg, Code: code}
	panic(bailout{})
}

// invalidToken stops at a token the lexer rejected, with the lexer's message.
func (p *Parser) invalidToken() {
	d := p.tok.Diag
	if d == nil {
		p.errorAt(p.tok.Pos, diag.SynInvalidSyntax, "invalid token")
	}
	p.errorAt(d.Pos, d.Code, d.Message)
}

// syntaxError reports a generic "invalid syntax" at the current token. Like
// CPython, a tokenizer error further down the file takes precedence over a
// generic error. An unclosed bracket only wins when the failure sits on a
// later line than the bracket itself.
func (p *Parser) syntaxError() {
	switch p.tok.Kind {
	case token.Invalid:
		p.invalidToken()
	case token.Indent:
		p.errorAt(p.tok.Pos, diag.SynUnexpectedIndent, "unexpected indent")
	case token.Dedent:
		p.errorAt(p.tok.Pos, diag.SynUnexpectedIndent, "unexpected unindent")
	case token.EOF:
		p.errorAt(p.tok.Pos, diag.SynInvalidSyntax, "unexpected EOF while parsing")
	}
	for i := p.idx + 1; i < len(p.toks); i++ {
		t := p.toks[i]
		if t.Kind != token.Invalid || t.Diag == nil {
			continue
		}
		// незакрытая скобка важнее только если ошибка ниже её строки
		if t.Diag.Code == diag.LexNeverClosed && p.tok.Pos.Line <= t.Diag.Pos.Line {
			break
		}
		p.tok = t
		p.invalidToken()
	}
	p.errorAt(p.tok.Pos, diag.SynInvalidSyntax, genericMsg)
}
