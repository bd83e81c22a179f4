package lexer

import (
	"unicode"
	"unicode/utf8"
)

func isDigit(b byte) bool    { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool { return isDigit(b) || (b|0x20 >= 'a' && b|0x20 <= 'f') }

// isIdentStartByte — ASCII буква, '_' или начало многобайтового символа
// (окончательная проверка в scanIdent).
func isIdentStartByte(b byte) bool {
	return b == '_' || (b|0x20 >= 'a' && b|0x20 <= 'z') || b >= utf8.RuneSelf
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) ||
		unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r) || unicode.Is(unicode.Other_ID_Continue, r)
}

// stringPrefix reports whether p (any case) is a valid string prefix and
// whether it makes an f-string.
func stringPrefix(p string) (ok, fstr bool) {
	if len(p) == 0 || len(p) > 2 {
		return false, false
	}
	var r, b, u, f int
	for i := 0; i < len(p); i++ {
		switch p[i] | 0x20 {
		case 'r':
			r++
		case 'b':
			b++
		case 'u':
			u++
		case 'f':
			f++
		default:
			return false, false
		}
	}
	if r > 1 || b > 1 || u > 1 || f > 1 {
		return false, false
	}
	if u == 1 && len(p) > 1 {
		return false, false
	}
	if b == 1 && f == 1 {
		return false, false
	}
	return true, f == 1
}

func isRawPrefix(p string) bool {
	for i := 0; i < len(p); i++ {
		if p[i]|0x20 == 'r' {
			return true
		}
	}
	return false
}
