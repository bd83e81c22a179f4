package consteval

import (
	"math"
	"math/big"
	"strings"

	"pyrefs/internal/ast"
)

// Equal is Python ==. Numbers compare across int, float and complex.
func Equal(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return numEqual(a, b)
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone, KindEllipsis:
		return true
	case KindStr, KindBytes:
		return a.Str == b.Str
	case KindList, KindTuple:
		if len(a.Elts) != len(b.Elts) {
			return false
		}
		for i := range a.Elts {
			if !Equal(a.Elts[i], b.Elts[i]) {
				return false
			}
		}
		return true
	case KindSet:
		if len(a.Elts) != len(b.Elts) {
			return false
		}
		for _, e := range a.Elts {
			if indexOf(b.Elts, e) < 0 {
				return false
			}
		}
		return true
	case KindDict:
		if len(a.Keys) != len(b.Keys) {
			return false
		}
		for i, k := range a.Keys {
			j := indexOf(b.Keys, k)
			if j < 0 || !Equal(a.Elts[i], b.Elts[j]) {
				return false
			}
		}
		return true
	}
	return false
}

func numEqual(a, b Value) bool {
	if a.isIntegral() && b.isIntegral() {
		return a.bigInt().Cmp(b.bigInt()) == 0
	}
	if a.Kind == KindComplex || b.Kind == KindComplex {
		ac, bc := complexParts(a), complexParts(b)
		return realEqual(ac[0], bc[0]) && realEqual(ac[1], bc[1])
	}
	return realCmp(a, b) == 0
}

func complexParts(v Value) [2]Value {
	if v.Kind == KindComplex {
		return [2]Value{FloatValue(real(v.Complex)), FloatValue(imag(v.Complex))}
	}
	return [2]Value{v, FloatValue(0)}
}

func realEqual(a, b Value) bool { return realCmp(a, b) == 0 }

// realCmp compares two real numbers exactly, ints against floats
// included. NaN compares unequal to everything (result 2).
func realCmp(a, b Value) int {
	if a.isIntegral() && b.isIntegral() {
		return a.bigInt().Cmp(b.bigInt())
	}
	af, bf := exactFloat(a), exactFloat(b)
	if af == nil || bf == nil {
		return 2
	}
	return af.Cmp(bf)
}

// exactFloat converts a real to an exact big.Float; nil for NaN.
func exactFloat(v Value) *big.Float {
	if v.Kind == KindFloat {
		if math.IsNaN(v.Float) {
			return nil
		}
		return new(big.Float).SetFloat64(v.Float)
	}
	return new(big.Float).SetInt(v.bigInt())
}

func indexOf(elts []Value, v Value) int {
	for i, e := range elts {
		if Equal(e, v) {
			return i
		}
	}
	return -1
}

// hashable reports whether v may be a set element or dict key.
func hashable(v Value) error {
	switch v.Kind {
	case KindList, KindSet, KindDict:
		return typeError("unhashable type: '%s'", v.TypeName())
	case KindTuple:
		for _, e := range v.Elts {
			if err := hashable(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// less is Python a < b, for the types that define an ordering.
func less(a, b Value, op string) (bool, error) {
	switch {
	case a.IsNumber() && b.IsNumber():
		if a.Kind == KindComplex || b.Kind == KindComplex {
			return false, orderError(op, a, b)
		}
		return realCmp(a, b) == -1, nil
	case a.Kind != b.Kind:
		return false, orderError(op, a, b)
	case a.Kind == KindStr || a.Kind == KindBytes:
		return a.Str < b.Str, nil
	case a.Kind == KindList || a.Kind == KindTuple:
		for i := 0; i < len(a.Elts) && i < len(b.Elts); i++ {
			if Equal(a.Elts[i], b.Elts[i]) {
				continue
			}
			return less(a.Elts[i], b.Elts[i], op)
		}
		return len(a.Elts) < len(b.Elts), nil
	case a.Kind == KindSet:
		return len(a.Elts) < len(b.Elts) && subset(a, b), nil
	}
	return false, orderError(op, a, b)
}

func subset(a, b Value) bool {
	for _, e := range a.Elts {
		if indexOf(b.Elts, e) < 0 {
			return false
		}
	}
	return true
}

func orderError(op string, a, b Value) error {
	return typeError("'%s' not supported between instances of '%s' and '%s'", op, a.TypeName(), b.TypeName())
}

// contains is Python "needle in haystack".
func contains(haystack, needle Value) (bool, error) {
	switch haystack.Kind {
	case KindStr:
		if needle.Kind != KindStr {
			return false, typeError("'in <string>' requires string as left operand, not %s", needle.TypeName())
		}
		return strings.Contains(haystack.Str, needle.Str), nil
	case KindBytes:
		switch {
		case needle.Kind == KindBytes:
			return strings.Contains(haystack.Str, needle.Str), nil
		case needle.isIntegral():
			n := needle.bigInt()
			if !n.IsInt64() || n.Int64() < 0 || n.Int64() > 255 {
				return false, evalError("ValueError", "byte must be in range(0, 256)")
			}
			return strings.IndexByte(haystack.Str, byte(n.Int64())) >= 0, nil
		}
		return false, typeError("a bytes-like object is required, not '%s'", needle.TypeName())
	case KindList, KindTuple:
		return indexOf(haystack.Elts, needle) >= 0, nil
	case KindSet:
		if err := hashable(needle); err != nil {
			return false, err
		}
		return indexOf(haystack.Elts, needle) >= 0, nil
	case KindDict:
		if err := hashable(needle); err != nil {
			return false, err
		}
		return indexOf(haystack.Keys, needle) >= 0, nil
	}
	return false, typeError("argument of type '%s' is not iterable", haystack.TypeName())
}

// identical approximates Python "is" for freshly evaluated constants:
// singletons are themselves, equal immutable scalars and tuples are the
// same object, mutable containers never are.
func identical(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindList, KindSet, KindDict:
		return false
	case KindFloat:
		return math.Float64bits(a.Float) == math.Float64bits(b.Float)
	}
	return Equal(a, b)
}

func compare(op ast.CmpOpKind, a, b Value) (bool, error) {
	switch op {
	case ast.Eq:
		return Equal(a, b), nil
	case ast.NotEq:
		return !Equal(a, b), nil
	case ast.Lt:
		return less(a, b, "<")
	case ast.Gt:
		return less(b, a, ">")
	case ast.LtE:
		return lessEqual(a, b, "<=")
	case ast.GtE:
		return lessEqual(b, a, ">=")
	case ast.Is:
		return identical(a, b), nil
	case ast.IsNot:
		return !identical(a, b), nil
	case ast.In:
		return contains(b, a)
	case ast.NotIn:
		ok, err := contains(b, a)
		return !ok, err
	}
	return false, unsupported("comparison %s", op)
}

func lessEqual(a, b Value, op string) (bool, error) {
	if a.Kind == KindSet && b.Kind == KindSet {
		return subset(a, b), nil
	}
	if a.IsNumber() && b.IsNumber() && a.Kind != KindComplex && b.Kind != KindComplex {
		c := realCmp(a, b)
		return c == -1 || c == 0, nil
	}
	lt, err := less(a, b, op)
	if err != nil || lt {
		return lt, err
	}
	return Equal(a, b), nil
}
