package consteval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Repr renders v the way Python's repr() does.
func Repr(v Value) string {
	var sb strings.Builder
	writeRepr(&sb, v, false)
	return sb.String()
}

// ASCII renders v the way Python's ascii() does: repr with every
// non-ASCII character escaped.
func ASCII(v Value) string {
	var sb strings.Builder
	writeRepr(&sb, v, true)
	return sb.String()
}

// Str renders v the way Python's str() does.
func Str(v Value) string {
	if v.Kind == KindStr {
		return v.Str
	}
	return Repr(v)
}

func writeRepr(sb *strings.Builder, v Value, ascii bool) {
	switch v.Kind {
	case KindNone:
		sb.WriteString("None")
	case KindBool:
		if v.Bool {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case KindEllipsis:
		sb.WriteString("Ellipsis")
	case KindInt:
		sb.WriteString(v.Int.String())
	case KindFloat:
		sb.WriteString(floatRepr(v.Float))
	case KindComplex:
		sb.WriteString(complexRepr(v.Complex))
	case KindStr:
		quoteStr(sb, v.Str, ascii)
	case KindBytes:
		quoteBytes(sb, v.Str)
	case KindList:
		writeSeq(sb, "[", "]", v.Elts, ascii)
	case KindTuple:
		if len(v.Elts) == 1 {
			sb.WriteByte('(')
			writeRepr(sb, v.Elts[0], ascii)
			sb.WriteString(",)")
			return
		}
		writeSeq(sb, "(", ")", v.Elts, ascii)
	case KindSet:
		if len(v.Elts) == 0 {
			sb.WriteString("set()")
			return
		}
		writeSeq(sb, "{", "}", v.Elts, ascii)
	case KindDict:
		sb.WriteByte('{')
		for i := range v.Keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeRepr(sb, v.Keys[i], ascii)
			sb.WriteString(": ")
			writeRepr(sb, v.Elts[i], ascii)
		}
		sb.WriteByte('}')
	}
}

func writeSeq(sb *strings.Builder, open, closing string, elts []Value, ascii bool) {
	sb.WriteString(open)
	for i, e := range elts {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeRepr(sb, e, ascii)
	}
	sb.WriteString(closing)
}

// floatRepr is the shortest round-tripping form, switching to exponent
// notation outside 1e-4 <= |f| < 1e16.
func floatRepr(f float64) string {
	s := shortFloat(f)
	if !strings.ContainsAny(s, ".eni") {
		s += ".0"
	}
	return s
}

// shortFloat is floatRepr without the forced ".0"; complex parts use it.
func shortFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0"
		}
		return "0"
	}
	exp := decimalExponent(strconv.FormatFloat(f, 'e', -1, 64))
	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// decimalExponent extracts the exponent of a number formatted with 'e'.
func decimalExponent(s string) int {
	i := strings.LastIndexAny(s, "eE")
	if i < 0 {
		return 0
	}
	n, _ := strconv.Atoi(s[i+1:])
	return n
}

func complexRepr(c complex128) string {
	re, im := real(c), imag(c)
	ims := shortFloat(im)
	if re == 0 && !math.Signbit(re) {
		return ims + "j"
	}
	sign := "+"
	if strings.HasPrefix(ims, "-") {
		sign = ""
	}
	return fmt.Sprintf("(%s%s%sj)", shortFloat(re), sign, ims)
}

func quoteStr(sb *strings.Builder, s string, ascii bool) {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		q = '"'
	}
	sb.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < ' ' || r == 0x7f:
			fmt.Fprintf(sb, `\x%02x`, r)
		case r < utf8.RuneSelf:
			sb.WriteRune(r)
		case !ascii && isPrintable(r):
			sb.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(sb, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(sb, `\u%04x`, r)
		default:
			fmt.Fprintf(sb, `\U%08x`, r)
		}
	}
	sb.WriteByte(q)
}

// isPrintable approximates str.isprintable for one character: everything
// but separators other than the plain space, control and format characters,
// and unassigned code points.
func isPrintable(r rune) bool {
	if r == ' ' {
		return true
	}
	return unicode.IsPrint(r)
}

func quoteBytes(sb *strings.Builder, b string) {
	q := byte('\'')
	if strings.IndexByte(b, '\'') >= 0 && strings.IndexByte(b, '"') < 0 {
		q = '"'
	}
	sb.WriteByte('b')
	sb.WriteByte(q)
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == q || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < ' ' || c >= 0x7f:
			fmt.Fprintf(sb, `\x%02x`, c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(q)
}
