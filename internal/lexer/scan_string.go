package lexer

import (
	"fmt"

	"pyrefs/internal/diag"
	"pyrefs/internal/token"
)

// scanString reads a (possibly prefixed) string literal whose opening quote
// is at the cursor. F-strings are read as one token, nested replacement
// fields included; the parser splits them later.
func (lx *Lexer) scanString(m Mark, prefix string) {
	c := &lx.cursor
	_, fstr := stringPrefix(prefix)
	q := c.Peek()
	triple := c.PeekAt(1) == q && c.PeekAt(2) == q
	if triple {
		c.BumpN(3)
	} else {
		c.Bump()
	}
	if lx.skipStringBody(q, triple, fstr) {
		kind := token.String
		if fstr {
			kind = token.FString
		}
		lx.emit(kind, m)
		return
	}
	kind := "string literal"
	if triple {
		kind = "triple-quoted string literal"
		for !c.EOF() {
			c.Bump()
		}
	} else {
		for !c.EOF() && c.Peek() != '\n' {
			c.Bump()
		}
	}
	lx.invalidAt(m, diag.LexUnterminatedString, lx.pos(m),
		fmt.Sprintf("unterminated %s (detected at line %d)", kind, c.Line+1))
}

// skipStringBody advances past the closing quote and reports whether it was
// found. Backslash escapes the next character even in raw strings.
func (lx *Lexer) skipStringBody(q byte, triple, fstr bool) bool {
	c := &lx.cursor
	for !c.EOF() {
		b := c.Peek()
		switch {
		case b == '\\':
			c.Bump()
			if c.EOF() {
				return false
			}
			if nb := c.Peek(); fstr && (nb == '{' || nb == '}') {
				continue
			}
			c.Bump()
		case b == q:
			if !triple {
				c.Bump()
				return true
			}
			if c.PeekAt(1) == q && c.PeekAt(2) == q {
				c.BumpN(3)
				return true
			}
			c.Bump()
		case b == '\n' && !triple:
			return false
		case fstr && b == '{':
			if c.PeekAt(1) == '{' {
				c.BumpN(2)
				continue
			}
			c.Bump()
			if !lx.skipField(q, triple) {
				return false
			}
		default:
			c.Bump()
		}
	}
	return false
}

// skipField skips a replacement field after its '{' up to and including the
// matching '}'. Nested strings may reuse the enclosing quote.
func (lx *Lexer) skipField(q byte, triple bool) bool {
	c := &lx.cursor
	depth := 0
	for !c.EOF() {
		b := c.Peek()
		switch {
		case b == '\n' && !triple:
			return false
		case b == '\'' || b == '"':
			if !lx.skipNested("") {
				return false
			}
		case isIdentStartByte(b):
			start := c.Off
			for !c.EOF() && (isIdentStartByte(c.Peek()) || isDigit(c.Peek())) {
				c.Bump()
			}
			if nq := c.Peek(); nq == '\'' || nq == '"' {
				if ok, _ := stringPrefix(c.Src[start:c.Off]); ok && !lx.skipNested(c.Src[start:c.Off]) {
					return false
				}
			}
		case b == '(' || b == '[' || b == '{':
			depth++
			c.Bump()
		case b == ')' || b == ']':
			depth--
			c.Bump()
		case b == '}':
			c.Bump()
			if depth <= 0 {
				return true
			}
			depth--
		case b == ':' && depth <= 0:
			c.Bump()
			return lx.skipFormatSpec(q, triple)
		default:
			c.Bump()
		}
	}
	return false
}

func (lx *Lexer) skipNested(prefix string) bool {
	c := &lx.cursor
	_, fstr := stringPrefix(prefix)
	q := c.Peek()
	triple := c.PeekAt(1) == q && c.PeekAt(2) == q
	if triple {
		c.BumpN(3)
	} else {
		c.Bump()
	}
	return lx.skipStringBody(q, triple, fstr)
}

// skipFormatSpec skips a format spec, which may hold nested fields, through
// the '}' closing its replacement field.
func (lx *Lexer) skipFormatSpec(q byte, triple bool) bool {
	c := &lx.cursor
	for !c.EOF() {
		b := c.Peek()
		switch {
		case b == '{':
			c.Bump()
			if !lx.skipField(q, triple) {
				return false
			}
		case b == '}':
			c.Bump()
			return true
		case b == '\n' && !triple:
			return false
		case b == q && (!triple || (c.PeekAt(1) == q && c.PeekAt(2) == q)):
			return false
		case b == '\\':
			c.BumpN(2)
		default:
			c.Bump()
		}
	}
	return false
}
