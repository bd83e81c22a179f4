package consteval

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"pyrefs/internal/ast"
)

func (st *state) joinedStr(n *ast.JoinedStr) (Value, error) {
	var sb strings.Builder
	for _, part := range n.Values {
		switch p := part.(type) {
		case *ast.Constant:
			sb.WriteString(p.Str)
		case *ast.FormattedValue:
			s, err := st.formatted(p)
			if err != nil {
				return Value{}, err
			}
			sb.WriteString(s)
		default:
			return Value{}, unsupported("f-string part %s", exprKind(part))
		}
		if sb.Len() > st.ev.limits.MaxBytes {
			return Value{}, st.tooLong(StrValue(""))
		}
	}
	return StrValue(sb.String()), nil
}

// formatted renders one replacement field: conversion first, then the
// format spec.
func (st *state) formatted(fv *ast.FormattedValue) (string, error) {
	v, err := st.eval(fv.Value)
	if err != nil {
		return "", err
	}
	switch fv.Conversion {
	case 's':
		v = StrValue(Str(v))
	case 'r':
		v = StrValue(Repr(v))
	case 'a':
		v = StrValue(ASCII(v))
	}
	spec := ""
	if fv.FormatSpec != nil {
		sv, err := st.joinedStr(fv.FormatSpec)
		if err != nil {
			return "", err
		}
		spec = sv.Str
	}
	return Format(v, spec, st.ev.limits.MaxBytes)
}

// FormatSpec is a parsed standard format specifier:
//
//	[[fill]align][sign]["z"]["#"]["0"][width][grouping]["." precision][type]
type FormatSpec struct {
	Fill      rune
	FillSet   bool
	Align     byte // 0, '<', '>', '^' or '='
	Sign      byte // 0, '+', '-' or ' '
	NoNegZero bool
	Alt       bool
	Zero      bool
	Width     int
	Grouping  byte // 0, ',' or '_'
	Precision int  // -1 when absent
	Type      byte
}

// ParseFormatSpec parses the part of a replacement field after ':'.
func ParseFormatSpec(spec string) (FormatSpec, error) {
	fs := FormatSpec{Fill: ' ', Precision: -1}
	s := spec
	if r, size := utf8.DecodeRuneInString(s); size > 0 && len(s) > size && isAlign(s[size]) {
		fs.Fill, fs.FillSet, fs.Align = r, true, s[size]
		s = s[size+1:]
	} else if len(s) > 0 && isAlign(s[0]) {
		fs.Align = s[0]
		s = s[1:]
	}
	if len(s) > 0 && (s[0] == '+' || s[0] == '-' || s[0] == ' ') {
		fs.Sign = s[0]
		s = s[1:]
	}
	if len(s) > 0 && s[0] == 'z' {
		fs.NoNegZero = true
		s = s[1:]
	}
	if len(s) > 0 && s[0] == '#' {
		fs.Alt = true
		s = s[1:]
	}
	if len(s) > 0 && s[0] == '0' {
		fs.Zero = true
		s = s[1:]
	}
	var ok bool
	if fs.Width, s, ok = leadingInt(s); !ok {
		return fs, evalError("ValueError", "Too many decimal digits in format string")
	}
	if len(s) > 0 && (s[0] == ',' || s[0] == '_') {
		fs.Grouping = s[0]
		s = s[1:]
		if len(s) > 0 && (s[0] == ',' || s[0] == '_') {
			return fs, evalError("ValueError", "Cannot specify both ',' and '_'.")
		}
	}
	if len(s) > 0 && s[0] == '.' {
		var digits string
		if fs.Precision, digits, ok = leadingInt(s[1:]); !ok {
			return fs, evalError("ValueError", "Too many decimal digits in format string")
		}
		if len(digits) == len(s)-1 {
			return fs, evalError("ValueError", "Format specifier missing precision")
		}
		s = digits
	}
	if len(s) > 1 {
		return fs, evalError("ValueError", "Invalid format specifier '%s'", spec)
	}
	if len(s) == 1 {
		fs.Type = s[0]
	}
	if fs.Zero && !fs.FillSet {
		fs.Fill = '0'
	}
	return fs, nil
}

func isAlign(c byte) bool { return c == '<' || c == '>' || c == '^' || c == '=' }

// leadingInt consumes decimal digits; a missing number yields 0 (or -1 via
// the caller's default check) and reports false only on overflow.
func leadingInt(s string) (int, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, true
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || n > math.MaxInt32 {
		return 0, s, false
	}
	return n, s[i:], true
}

// Format is Python's format(v, spec). maxLen bounds the padded result.
func Format(v Value, spec string, maxLen int) (string, error) {
	if spec == "" {
		return Str(v), nil
	}
	fs, err := ParseFormatSpec(spec)
	if err != nil {
		return "", err
	}
	if fs.Width > maxLen || fs.Precision > maxLen {
		return "", evalError("MemoryError", "format width exceeds %d", maxLen)
	}
	if v.Kind != KindStr && fs.Zero && fs.Align == 0 {
		// у чисел '0' без выравнивания значит "нули после знака"
		fs.Align = '='
	}
	switch v.Kind {
	case KindStr:
		return formatStr(v.Str, fs)
	case KindBool, KindInt:
		return formatInt(v.bigInt(), fs)
	case KindFloat:
		return formatFloat(v.Float, fs)
	case KindComplex:
		return "", unsupported("complex format spec")
	}
	return "", typeError("unsupported format string passed to %s.__format__", v.TypeName())
}

func formatStr(s string, fs FormatSpec) (string, error) {
	switch {
	case fs.Type != 0 && fs.Type != 's':
		return "", badType(fs.Type, "str")
	case fs.Sign != 0:
		return "", evalError("ValueError", "Sign not allowed in string format specifier")
	case fs.Alt:
		return "", evalError("ValueError", "Alternate form (#) not allowed in string format specifier")
	case fs.Align == '=':
		return "", evalError("ValueError", "'=' alignment not allowed in string format specifier")
	case fs.Grouping != 0:
		return "", evalError("ValueError", "Cannot specify '%c' with 's'.", fs.Grouping)
	}
	if fs.Precision >= 0 {
		if r := []rune(s); len(r) > fs.Precision {
			s = string(r[:fs.Precision])
		}
	}
	return pad("", s, fs, '<'), nil
}

func badType(t byte, typ string) error {
	return evalError("ValueError", "Unknown format code '%c' for object of type '%s'", t, typ)
}

func formatInt(i *big.Int, fs FormatSpec) (string, error) {
	switch fs.Type {
	case 'e', 'E', 'f', 'F', 'g', 'G', '%':
		f, _ := new(big.Float).SetInt(i).Float64()
		return formatFloat(f, fs)
	case 0, 'd', 'n', 'b', 'o', 'x', 'X', 'c':
	default:
		return "", badType(fs.Type, "int")
	}
	if fs.Precision >= 0 {
		return "", evalError("ValueError", "Precision not allowed in integer format specifier")
	}
	if fs.Type == 'c' {
		if fs.Sign != 0 {
			return "", evalError("ValueError", "Sign not allowed with integer format specifier 'c'")
		}
		if !i.IsInt64() || i.Int64() < 0 || i.Int64() > utf8.MaxRune {
			return "", evalError("OverflowError", "%%c arg not in range(0x110000)")
		}
		return pad("", string(rune(i.Int64())), fs, '>'), nil
	}
	base, prefix, groupEvery := 10, "", 3
	switch fs.Type {
	case 'b':
		base, prefix, groupEvery = 2, "0b", 4
	case 'o':
		base, prefix, groupEvery = 8, "0o", 4
	case 'x', 'X':
		base, prefix, groupEvery = 16, "0x", 4
	}
	if fs.Grouping == ',' && base != 10 {
		return "", evalError("ValueError", "Cannot specify ',' with '%c'.", fs.Type)
	}
	if fs.Type == 'n' && fs.Grouping != 0 {
		return "", evalError("ValueError", "Cannot specify '%c' with 'n'.", fs.Grouping)
	}
	digits := new(big.Int).Abs(i).Text(base)
	if fs.Type == 'X' {
		digits = strings.ToUpper(digits)
		prefix = "0X"
	}
	if !fs.Alt {
		prefix = ""
	}
	sign := signPrefix(i.Sign() < 0, fs.Sign)
	digits = groupDigits(digits, "", fs, groupEvery, len(sign)+len(prefix))
	return pad(sign+prefix, digits, fs, '>'), nil
}

func signPrefix(neg bool, sign byte) string {
	switch {
	case neg:
		return "-"
	case sign == '+':
		return "+"
	case sign == ' ':
		return " "
	}
	return ""
}

// groupDigits inserts the grouping separator into an integer digit run and,
// for '0' padding, widens it with zeros the way CPython pads grouped
// numbers. frac is text that follows the digits (".5", "e+10", "%").
func groupDigits(digits, frac string, fs FormatSpec, every, prefixLen int) string {
	zeroPad := fs.Align == '=' && fs.Fill == '0'
	if fs.Grouping == 0 {
		if zeroPad {
			for prefixLen+len(digits)+utf8.RuneCountInString(frac) < fs.Width {
				digits = "0" + digits
			}
		}
		return digits + frac
	}
	group := func(d string) string {
		var sb strings.Builder
		for j, c := range d {
			if j > 0 && (len(d)-j)%every == 0 {
				sb.WriteByte(fs.Grouping)
			}
			sb.WriteRune(c)
		}
		return sb.String()
	}
	out := group(digits)
	if zeroPad {
		for prefixLen+len(out)+utf8.RuneCountInString(frac) < fs.Width {
			digits = "0" + digits
			out = group(digits)
		}
	}
	return out + frac
}

// pad applies fill and alignment; sign goes before '=' padding.
func pad(sign, body string, fs FormatSpec, defAlign byte) string {
	n := utf8.RuneCountInString(sign) + utf8.RuneCountInString(body)
	if n >= fs.Width {
		return sign + body
	}
	fill := strings.Repeat(string(fs.Fill), fs.Width-n)
	align := fs.Align
	if align == 0 {
		align = defAlign
	}
	switch align {
	case '<':
		return sign + body + fill
	case '^':
		half := (fs.Width - n) / 2
		left := strings.Repeat(string(fs.Fill), half)
		right := strings.Repeat(string(fs.Fill), fs.Width-n-half)
		return left + sign + body + right
	case '=':
		return sign + fill + body
	}
	return fill + sign + body
}

func formatFloat(f float64, fs FormatSpec) (string, error) {
	switch fs.Type {
	case 0, 'e', 'E', 'f', 'F', 'g', 'G', 'n', '%':
	default:
		return "", badType(fs.Type, "float")
	}
	prec := fs.Precision
	neg := math.Signbit(f) && !math.IsNaN(f)
	abs := math.Abs(f)
	var body string
	switch fs.Type {
	case 0:
		if prec < 0 {
			body = floatRepr(abs)
			if fs.Alt && !strings.ContainsAny(body, ".eni") {
				body += "."
			}
		} else {
			body = generalFloat(abs, max(prec, 1), fs.Alt)
			if !strings.ContainsAny(body, ".eni") {
				body += ".0"
			}
		}
	case 'e', 'E':
		if prec < 0 {
			prec = 6
		}
		body = strconv.FormatFloat(abs, 'e', prec, 64)
		if fs.Alt && prec == 0 {
			body = strings.Replace(body, "e", ".e", 1)
		}
	case 'f', 'F', '%':
		if prec < 0 {
			prec = 6
		}
		if fs.Type == '%' {
			abs *= 100
		}
		body = strconv.FormatFloat(abs, 'f', prec, 64)
		if fs.Alt && prec == 0 {
			body += "."
		}
	case 'g', 'G', 'n':
		if prec < 0 {
			prec = 6
		}
		body = generalFloat(abs, max(prec, 1), fs.Alt)
	}
	switch {
	case math.IsNaN(f):
		body = "nan"
	case math.IsInf(f, 0):
		body = "inf"
	}
	if fs.Type == '%' {
		body += "%"
	}
	if fs.Type == 'E' || fs.Type == 'F' || fs.Type == 'G' {
		body = strings.ToUpper(body)
	}
	if fs.NoNegZero && neg && isZeroText(body) {
		neg = false
	}
	sign := signPrefix(neg, fs.Sign)
	if fs.Grouping != 0 || (fs.Align == '=' && fs.Fill == '0') {
		digits, frac := splitFloatDigits(body)
		if digits != "" {
			body = groupDigits(digits, frac, fs, 3, len(sign))
		}
	}
	return pad(sign, body, fs, '>'), nil
}

// generalFloat is the 'g' presentation: fixed or exponent notation by
// magnitude, trailing zeros dropped unless alt.
func generalFloat(f float64, prec int, alt bool) string {
	if f == 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		if alt && f == 0 {
			return "0." + strings.Repeat("0", prec-1)
		}
		return strconv.FormatFloat(f, 'g', prec, 64)
	}
	exp := decimalExponent(strconv.FormatFloat(f, 'e', prec-1, 64))
	var s string
	if exp >= -4 && exp < prec {
		s = strconv.FormatFloat(f, 'f', prec-1-exp, 64)
	} else {
		s = strconv.FormatFloat(f, 'e', prec-1, 64)
	}
	if alt {
		if !strings.Contains(s, ".") {
			if i := strings.IndexAny(s, "eE"); i >= 0 {
				s = s[:i] + "." + s[i:]
			} else {
				s += "."
			}
		}
		return s
	}
	mant, expPart := s, ""
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mant, expPart = s[:i], s[i:]
	}
	if strings.Contains(mant, ".") {
		mant = strings.TrimRight(strings.TrimRight(mant, "0"), ".")
	}
	return mant + expPart
}

// splitFloatDigits separates the integer digits of a formatted float from
// the rest; digits is empty for inf and nan.
func splitFloatDigits(body string) (digits, rest string) {
	i := 0
	for i < len(body) && body[i] >= '0' && body[i] <= '9' {
		i++
	}
	return body[:i], body[i:]
}

func isZeroText(s string) bool {
	for _, c := range s {
		if c >= '1' && c <= '9' {
			return false
		}
		if c == 'e' || c == 'E' {
			break
		}
	}
	return true
}
