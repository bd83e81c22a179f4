package consteval

import (
	"math"
	"math/big"
	"strings"
)

// percentFormat evaluates printf-style str % args. Only the bare
// conversions %s, %r, %a, %d, %i and %% are understood; flags, width,
// precision and mapping keys make the expression unsupported.
func (st *state) percentFormat(format, args Value) (Value, error) {
	items := []Value{args}
	if args.Kind == KindTuple {
		items = args.Elts
	}
	var sb strings.Builder
	next := 0
	s := format.Str
	for {
		i := strings.IndexByte(s, '%')
		if i < 0 {
			sb.WriteString(s)
			break
		}
		sb.WriteString(s[:i])
		if i+1 >= len(s) {
			return Value{}, evalError("ValueError", "incomplete format")
		}
		conv := s[i+1]
		s = s[i+2:]
		if conv == '%' {
			sb.WriteByte('%')
			continue
		}
		if !strings.ContainsRune("sradi", rune(conv)) {
			return Value{}, unsupported("%%%c conversion in str formatting", conv)
		}
		if next >= len(items) {
			return Value{}, typeError("not enough arguments for format string")
		}
		text, err := percentConvert(conv, items[next])
		if err != nil {
			return Value{}, err
		}
		next++
		sb.WriteString(text)
		if sb.Len() > st.ev.limits.MaxBytes {
			return Value{}, st.tooLong(format)
		}
	}
	// dict или list в роли единственного аргумента считается mapping
	mapping := args.Kind == KindDict || args.Kind == KindList
	if next < len(items) && !mapping {
		return Value{}, typeError("not all arguments converted during string formatting")
	}
	return StrValue(sb.String()), nil
}

func percentConvert(conv byte, v Value) (string, error) {
	switch conv {
	case 's':
		return Str(v), nil
	case 'r':
		return Repr(v), nil
	case 'a':
		return ASCII(v), nil
	}
	switch v.Kind {
	case KindBool, KindInt:
		return v.bigInt().String(), nil
	case KindFloat:
		switch {
		case math.IsNaN(v.Float):
			return "", evalError("ValueError", "cannot convert float NaN to integer")
		case math.IsInf(v.Float, 0):
			return "", evalError("OverflowError", "cannot convert float infinity to integer")
		}
		i, _ := big.NewFloat(math.Trunc(v.Float)).Int(nil)
		return i.String(), nil
	}
	return "", typeError("%%%c format: a real number is required, not %s", conv, v.TypeName())
}
