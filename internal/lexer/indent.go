package lexer

import (
	"strings"

	"pyrefs/internal/diag"
	"pyrefs/internal/token"
)

const tabSize = 8

// lineIndent measures the indentation of a fresh logical line and queues
// INDENT/DEDENT tokens. Blank and comment-only lines don't count. Reports
// whether anything was queued.
func (lx *Lexer) lineIndent() bool {
	c := &lx.cursor
	start := c.Mark()
	width := 0
loop:
	for {
		switch c.Peek() {
		case ' ':
			width++
		case '\t':
			width = (width/tabSize + 1) * tabSize
		case '\f':
			width = 0
		default:
			break loop
		}
		c.Bump()
	}
	if c.EOF() {
		return false
	}
	switch c.Peek() {
	case '#', '\n', '\r':
		return false
	case '\\':
		if c.PeekAt(1) == '\n' {
			// строка-продолжение без кода: отступ берём у следующей
			return false
		}
	}
	raw := c.Src[start.Off:c.Off]
	top := lx.indents[len(lx.indents)-1]
	switch {
	case width > top.width:
		lx.indents = append(lx.indents, indentLevel{width: width, raw: raw})
		tok := token.Token{
			Kind: token.Indent,
			Span: c.SpanFrom(start),
			Text: indentDelta(top.raw, raw),
			Pos:  lx.pos(start),
			End:  c.Pos(),
		}
		lx.count++
		lx.queue = append(lx.queue, tok)
		return true
	case width < top.width:
		at := c.Mark()
		if !lx.hasLevel(width) {
			// как tokenize: ошибка вместо DEDENT, уровень молча подстраиваем
			for len(lx.indents) > 1 && lx.indents[len(lx.indents)-1].width > width {
				lx.indents = lx.indents[:len(lx.indents)-1]
			}
			lx.indents = append(lx.indents, indentLevel{width: width, raw: raw})
			lx.invalidAt(at, diag.LexUnindentMismatch, lx.pos(at),
				"unindent does not match any outer indentation level")
			return true
		}
		for lx.indents[len(lx.indents)-1].width > width {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emit(token.Dedent, at)
		}
		return true
	}
	return false
}

// indentDelta returns the part of raw that the new block adds to outer.
func indentDelta(outer, raw string) string {
	if strings.HasPrefix(raw, outer) {
		return raw[len(outer):]
	}
	return raw
}

func (lx *Lexer) hasLevel(width int) bool {
	for _, lvl := range lx.indents {
		if lvl.width == width {
			return true
		}
	}
	return false
}
