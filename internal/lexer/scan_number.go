package lexer

import (
	"unicode/utf8"

	"pyrefs/internal/diag"
	"pyrefs/internal/token"
)

// keywords that may directly follow a number literal ("1if x else 2").
var afterNumberKeywords = map[string]bool{
	"and": true, "or": true, "in": true, "is": true, "not": true,
	"if": true, "else": true, "for": true,
}

func (lx *Lexer) scanNumber(m Mark) {
	c := &lx.cursor
	bad := ""
	if c.Peek() == '0' && (c.PeekAt(1)|0x20 == 'x' || c.PeekAt(1)|0x20 == 'o' || c.PeekAt(1)|0x20 == 'b') {
		base := c.PeekAt(1) | 0x20
		c.BumpN(2)
		if c.Peek() == '_' {
			c.Bump()
		}
		digits := lx.scanDigits(func(b byte) bool {
			switch base {
			case 'x':
				return isHexDigit(b)
			case 'o':
				return b >= '0' && b <= '7'
			default:
				return b == '0' || b == '1'
			}
		})
		if digits == 0 {
			bad = "invalid " + map[byte]string{'x': "hexadecimal", 'o': "octal", 'b': "binary"}[base] + " literal"
		}
	} else {
		intStart := c.Off
		intDigits := lx.scanDigits(isDigit)
		intPart := c.Src[intStart:c.Off]
		isFloat := false
		if c.Peek() == '.' {
			isFloat = true
			c.Bump()
			lx.scanDigits(isDigit)
		}
		if c.Peek()|0x20 == 'e' {
			save := c.Mark()
			c.Bump()
			if c.Peek() == '+' || c.Peek() == '-' {
				c.Bump()
			}
			if lx.scanDigits(isDigit) == 0 {
				c.Reset(save)
			} else {
				isFloat = true
			}
		}
		imag := false
		if c.Peek()|0x20 == 'j' {
			c.Bump()
			imag = true
		}
		if !isFloat && !imag && intDigits > 1 && intPart[0] == '0' && hasNonZero(intPart) {
			bad = "leading zeros in decimal integer literals are not permitted"
		}
	}
	if c.Peek() == '_' && bad == "" {
		c.Bump()
		bad = "invalid decimal literal"
	}
	if bad == "" && !c.EOF() && isIdentStartByte(c.Peek()) && !lx.keywordAhead() {
		r, size := utf8.DecodeRuneInString(c.Src[c.Off:c.Limit])
		if isIdentStart(r) {
			c.BumpN(size)
			bad = "invalid decimal literal"
		}
	}
	if bad != "" {
		lx.invalidAt(m, diag.LexBadNumber, lx.pos(m), bad)
		return
	}
	lx.emit(token.Number, m)
}

// scanDigits reads digits accepted by ok with single '_' separators between
// them and returns how many digits were read.
func (lx *Lexer) scanDigits(ok func(byte) bool) int {
	c := &lx.cursor
	n := 0
	for !c.EOF() {
		b := c.Peek()
		if ok(b) {
			c.Bump()
			n++
			continue
		}
		if b == '_' && n > 0 && ok(c.PeekAt(1)) {
			c.Bump()
			continue
		}
		break
	}
	return n
}

func (lx *Lexer) keywordAhead() bool {
	c := &lx.cursor
	end := c.Off
	for end < c.Limit && (isDigit(c.Src[end]) || isIdentStartByte(c.Src[end]) && c.Src[end] < utf8.RuneSelf) {
		end++
	}
	return afterNumberKeywords[c.Src[c.Off:end]]
}

func hasNonZero(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '_' {
			return true
		}
	}
	return false
}
