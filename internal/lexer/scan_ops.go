package lexer

import (
	"fmt"
	"unicode/utf8"

	"pyrefs/internal/diag"
	"pyrefs/internal/token"
)

// scanOperator reads the longest operator spelling at the cursor and keeps
// track of bracket nesting.
func (lx *Lexer) scanOperator(m Mark) {
	c := &lx.cursor
	for n := uint32(3); n >= 1; n-- {
		if c.Off+n > c.Limit {
			continue
		}
		kind, ok := token.LookupOperator(c.Src[c.Off : c.Off+n])
		if !ok {
			continue
		}
		c.BumpN(int(n))
		switch kind {
		case token.LParen, token.LBracket, token.LBrace:
			lx.parens = append(lx.parens, lx.emit(kind, m))
			return
		case token.RParen, token.RBracket, token.RBrace:
			if len(lx.parens) == 0 {
				lx.invalidAt(m, diag.LexUnmatchedBracket, lx.pos(m), fmt.Sprintf("unmatched '%s'", c.Src[m.Off:c.Off]))
				return
			}
			open := lx.parens[len(lx.parens)-1]
			if !closes(open.Kind, kind) {
				lx.invalidAt(m, diag.LexUnmatchedBracket, lx.pos(m),
					fmt.Sprintf("closing parenthesis '%s' does not match opening parenthesis '%s'", c.Src[m.Off:c.Off], open.Text))
				return
			}
			lx.parens = lx.parens[:len(lx.parens)-1]
		}
		lx.emit(kind, m)
		return
	}
	r, size := utf8.DecodeRuneInString(c.Src[c.Off:c.Limit])
	c.BumpN(size)
	lx.invalidAt(m, diag.LexUnknownChar, lx.pos(m), fmt.Sprintf("invalid character '%c' (U+%04X)", r, r))
}

func closes(open, closeKind token.Kind) bool {
	switch open {
	case token.LParen:
		return closeKind == token.RParen
	case token.LBracket:
		return closeKind == token.RBracket
	default:
		return closeKind == token.RBrace
	}
}
