package consteval

import (
	"math/big"

	"pyrefs/internal/ast"
)

func (st *state) subscript(n *ast.Subscript) (Value, error) {
	v, err := st.eval(n.Value)
	if err != nil {
		return Value{}, err
	}
	if sl, ok := n.Slice.(*ast.Slice); ok {
		return st.slice(v, sl)
	}
	key, err := st.eval(n.Slice)
	if err != nil {
		return Value{}, err
	}
	return index(v, key)
}

// index is v[key] for a single key.
func index(v, key Value) (Value, error) {
	switch v.Kind {
	case KindDict:
		if err := hashable(key); err != nil {
			return Value{}, err
		}
		i := indexOf(v.Keys, key)
		if i < 0 {
			return Value{}, evalError("KeyError", "%s", Repr(key))
		}
		return v.Elts[i], nil
	case KindStr, KindBytes, KindList, KindTuple:
		if !key.isIntegral() {
			return Value{}, typeError("%s indices must be integers or slices, not %s", v.TypeName(), key.TypeName())
		}
		n := v.Len()
		i := key.bigInt()
		if i.Sign() < 0 {
			i = new(big.Int).Add(i, big.NewInt(int64(n)))
		}
		if i.Sign() < 0 || i.Cmp(big.NewInt(int64(n))) >= 0 {
			return Value{}, evalError("IndexError", "%s index out of range", v.TypeName())
		}
		k := int(i.Int64())
		switch v.Kind {
		case KindStr:
			return StrValue(string([]rune(v.Str)[k])), nil
		case KindBytes:
			return Int64Value(int64(v.Str[k])), nil
		}
		return v.Elts[k], nil
	}
	return Value{}, typeError("'%s' object is not subscriptable", v.TypeName())
}

func (st *state) slice(v Value, sl *ast.Slice) (Value, error) {
	if !v.isSequence() {
		if v.Kind == KindDict {
			return Value{}, typeError("unhashable type: 'slice'")
		}
		return Value{}, typeError("'%s' object is not subscriptable", v.TypeName())
	}
	var bounds [3]*big.Int
	for i, x := range []ast.Expr{sl.Lower, sl.Upper, sl.Step} {
		if x == nil {
			continue
		}
		b, err := st.eval(x)
		if err != nil {
			return Value{}, err
		}
		switch {
		case b.Kind == KindNone:
		case b.isIntegral():
			bounds[i] = b.bigInt()
		default:
			return Value{}, typeError("slice indices must be integers or None or have an __index__ method")
		}
	}
	start, stop, step, err := sliceIndices(bounds, v.Len())
	if err != nil {
		return Value{}, err
	}
	var picks []int
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		picks = append(picks, i)
	}
	switch v.Kind {
	case KindStr:
		runes := []rune(v.Str)
		out := make([]rune, len(picks))
		for j, i := range picks {
			out[j] = runes[i]
		}
		return StrValue(string(out)), nil
	case KindBytes:
		out := make([]byte, len(picks))
		for j, i := range picks {
			out[j] = v.Str[i]
		}
		return BytesValue(string(out)), nil
	}
	elts := make([]Value, len(picks))
	for j, i := range picks {
		elts[j] = v.Elts[i]
	}
	return Value{Kind: v.Kind, Elts: elts}, nil
}

// sliceIndices is slice.indices(length): clamps start and stop into the
// sequence for the given step direction.
func sliceIndices(b [3]*big.Int, length int) (start, stop, step int, err error) {
	step = 1
	if b[2] != nil {
		if b[2].Sign() == 0 {
			return 0, 0, 0, evalError("ValueError", "slice step cannot be zero")
		}
		step = clampInt(b[2])
	}
	lower, upper := 0, length
	if step < 0 {
		lower, upper = -1, length-1
	}
	adjust := func(x *big.Int, def int) int {
		if x == nil {
			return def
		}
		i := clampInt(x)
		if i < 0 {
			i += length
			if i < lower {
				i = lower
			}
		} else if i > upper {
			i = upper
		}
		return i
	}
	if step < 0 {
		return adjust(b[0], upper), adjust(b[1], lower), step, nil
	}
	return adjust(b[0], lower), adjust(b[1], upper), step, nil
}

// indices are clamped well past any sequence the limits allow
const maxIndex = 1 << 30

func clampInt(x *big.Int) int {
	switch {
	case x.Cmp(big.NewInt(maxIndex)) > 0:
		return maxIndex
	case x.Cmp(big.NewInt(-maxIndex)) < 0:
		return -maxIndex
	}
	return int(x.Int64())
}
