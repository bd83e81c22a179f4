package lexer

import (
	"fmt"

	"pyrefs/internal/diag"
	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

type indentLevel struct {
	width int    // ширина с табами, раскрытыми до кратного 8
	raw   string // полный текст отступа
}

// Lexer turns Python source into a token stream: NEWLINE/NL, INDENT/DEDENT,
// comments and the usual NAME/NUMBER/STRING/OP tokens. It never stops on an
// error: problems are reported and surface as Invalid tokens.
type Lexer struct {
	buf    *source.Buffer
	cursor Cursor
	opts   Options

	queue   []token.Token // готовые токены (DEDENT-серии, хвост на EOF)
	indents []indentLevel
	parens  []token.Token // открытые скобки

	atLineStart bool
	lineHasCode bool // на текущей логической строке уже был значимый токен
	count       int
	done        bool
}

// New creates a lexer over buf.
func New(buf *source.Buffer, opts Options) *Lexer {
	src := buf.Text()
	start, limit := opts.Start, opts.Limit
	if limit == 0 || int(limit) > len(src) {
		limit = uint32(len(src))
	}
	if start > limit {
		start = limit
	}
	lx := &Lexer{
		buf:         buf,
		cursor:      NewCursor(src, start, limit, buf.PosAt(start)),
		opts:        opts,
		indents:     []indentLevel{{}},
		atLineStart: !opts.Expr,
	}
	return lx
}

// Tokenize lexes the whole buffer and returns every token, EOF included.
func Tokenize(buf *source.Buffer, opts Options) []token.Token {
	lx := New(buf, opts)
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	for len(lx.queue) == 0 {
		if lx.done {
			return lx.eofToken()
		}
		lx.scan()
	}
	tok := lx.queue[0]
	lx.queue = lx.queue[1:]
	return tok
}

func (lx *Lexer) eofToken() token.Token {
	p := lx.cursor.Pos()
	return token.Token{Kind: token.EOF, Span: source.Span{Start: lx.cursor.Off, End: lx.cursor.Off}, Pos: p, End: p}
}

// scan кладёт в очередь как минимум один токен (или помечает done).
func (lx *Lexer) scan() {
	if lx.opts.MaxTokens > 0 && lx.count >= lx.opts.MaxTokens {
		lx.invalidAt(lx.cursor.Mark(), diag.LexTooManyTokens, lx.cursor.Pos(),
			fmt.Sprintf("too many tokens (limit %d)", lx.opts.MaxTokens))
		lx.done = true
		return
	}
	if lx.atLineStart && len(lx.parens) == 0 {
		lx.atLineStart = false
		if lx.lineIndent() {
			return
		}
	}
	lx.skipBlanks()
	c := &lx.cursor
	if c.EOF() {
		lx.finish()
		return
	}
	m := c.Mark()
	b := c.Peek()
	switch {
	case b == '#':
		for !c.EOF() && c.Peek() != '\n' {
			c.Bump()
		}
		lx.emit(token.Comment, m)
	case b == '\\':
		c.Bump()
		if c.Eat('\n') {
			return
		}
		if c.EOF() {
			lx.invalidAt(m, diag.LexEOFInStatement, lx.pos(m), "unexpected EOF while parsing")
			return
		}
		lx.invalidAt(m, diag.LexUnknownChar, lx.pos(m), "unexpected character after line continuation character")
	case b == '\n':
		c.Bump()
		if len(lx.parens) > 0 || !lx.lineHasCode || lx.opts.Expr {
			lx.emit(token.NL, m)
		} else {
			lx.emit(token.Newline, m)
		}
		lx.lineHasCode = false
		lx.atLineStart = !lx.opts.Expr && len(lx.parens) == 0
	case b == '\'' || b == '"':
		lx.scanString(m, "")
	case isDigit(b) || (b == '.' && isDigit(c.PeekAt(1))):
		lx.scanNumber(m)
	case isIdentStartByte(b):
		lx.scanIdentOrPrefixed(m)
	default:
		lx.scanOperator(m)
	}
}

// skipBlanks пропускает пробелы, табы и form feed внутри строки.
func (lx *Lexer) skipBlanks() {
	for {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\f', '\r', '\v':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

// finish queues the tail of the stream: errors for unclosed brackets, the
// final NEWLINE, pending DEDENTs and EOF.
func (lx *Lexer) finish() {
	m := lx.cursor.Mark()
	if len(lx.parens) > 0 {
		open := lx.parens[len(lx.parens)-1]
		lx.invalidAt(m, diag.LexNeverClosed, open.Pos, fmt.Sprintf("'%s' was never closed", open.Text))
		lx.parens = nil
	}
	if lx.lineHasCode && !lx.opts.Expr {
		lx.emit(token.Newline, m)
		lx.lineHasCode = false
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.emit(token.Dedent, m)
	}
	lx.queue = append(lx.queue, lx.eofToken())
	lx.done = true
}

func (lx *Lexer) pos(m Mark) source.Pos {
	return source.Pos{Line: m.Line, Col: m.Col}
}

// emit создает токен от метки до курсора и кладет его в очередь.
func (lx *Lexer) emit(kind token.Kind, m Mark) token.Token {
	c := &lx.cursor
	tok := token.Token{
		Kind: kind,
		Span: c.SpanFrom(m),
		Text: c.Src[m.Off:c.Off],
		Pos:  lx.pos(m),
		End:  c.Pos(),
	}
	switch kind {
	case token.Comment, token.NL, token.Newline, token.Indent, token.Dedent, token.EOF:
	default:
		lx.lineHasCode = true
	}
	lx.count++
	lx.queue = append(lx.queue, tok)
	return tok
}

// invalidAt reports a problem at pos and queues an Invalid token covering the
// text from m to the cursor.
func (lx *Lexer) invalidAt(m Mark, code diag.Code, pos source.Pos, msg string) {
	lx.report(code, pos, msg)
	d := &diag.Diagnostic{Code: code, Pos: pos, Message: msg}
	lx.emit(token.Invalid, m)
	lx.queue[len(lx.queue)-1].Diag = d
}
