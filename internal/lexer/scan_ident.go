package lexer

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"pyrefs/internal/diag"
	"pyrefs/internal/token"
)

// scanIdentOrPrefixed reads an identifier, a keyword, or the prefix of a
// string literal such as rb'..' or f"..".
func (lx *Lexer) scanIdentOrPrefixed(m Mark) {
	c := &lx.cursor
	r, size := utf8.DecodeRuneInString(c.Src[c.Off:c.Limit])
	if !isIdentStart(r) {
		c.BumpN(size)
		lx.invalidAt(m, diag.LexUnknownChar, lx.pos(m), fmt.Sprintf("invalid character '%c' (U+%04X)", r, r))
		return
	}
	ascii := r < utf8.RuneSelf
	c.BumpN(size)
	for !c.EOF() {
		r, size = utf8.DecodeRuneInString(c.Src[c.Off:c.Limit])
		if !isIdentContinue(r) {
			break
		}
		if r >= utf8.RuneSelf {
			ascii = false
		}
		c.BumpN(size)
	}
	text := c.Src[m.Off:c.Off]
	if q := c.Peek(); q == '\'' || q == '"' {
		if ok, _ := stringPrefix(text); ok {
			lx.scanString(m, text)
			return
		}
	}
	if kw, ok := token.LookupKeyword(text); ok {
		lx.emit(kw, m)
		return
	}
	tok := lx.emit(token.Name, m)
	if !ascii {
		// идентификаторы сравниваются после NFKC
		lx.queue[len(lx.queue)-1].Text = norm.NFKC.String(tok.Text)
	}
}
