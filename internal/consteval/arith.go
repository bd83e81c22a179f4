package consteval

import (
	"math"
	"math/big"
	"math/cmplx"
	"strings"

	"pyrefs/internal/ast"
)

var binOpSymbols = map[ast.BinOpKind]string{
	ast.Add: "+", ast.Sub: "-", ast.Mult: "*", ast.MatMult: "@", ast.Div: "/",
	ast.Mod: "%", ast.Pow: "** or pow()", ast.LShift: "<<", ast.RShift: ">>",
	ast.BitOr: "|", ast.BitXor: "^", ast.BitAnd: "&", ast.FloorDiv: "//",
}

func (st *state) unary(op ast.UnaryOpKind, v Value) (Value, error) {
	switch op {
	case ast.Not:
		return BoolValue(!v.Truth()), nil
	case ast.UAdd:
		switch {
		case v.isIntegral():
			return IntValue(v.bigInt()), nil
		case v.IsNumber():
			return v, nil
		}
		return Value{}, typeError("bad operand type for unary +: '%s'", v.TypeName())
	case ast.USub:
		switch v.Kind {
		case KindBool, KindInt:
			return IntValue(new(big.Int).Neg(v.bigInt())), nil
		case KindFloat:
			return FloatValue(-v.Float), nil
		case KindComplex:
			return ComplexValue(-v.Complex), nil
		}
		return Value{}, typeError("bad operand type for unary -: '%s'", v.TypeName())
	case ast.Invert:
		if v.isIntegral() {
			return IntValue(new(big.Int).Not(v.bigInt())), nil
		}
		return Value{}, typeError("bad operand type for unary ~: '%s'", v.TypeName())
	}
	return Value{}, unsupported("unary %s", op)
}

func (st *state) binary(op ast.BinOpKind, a, b Value) (Value, error) {
	switch {
	case a.IsNumber() && b.IsNumber():
		return st.numeric(op, a, b)
	case op == ast.Mod && a.Kind == KindStr:
		return st.percentFormat(a, b)
	case op == ast.Mod && a.Kind == KindBytes:
		return Value{}, unsupported("bytes formatting with %%")
	case op == ast.Add && a.Kind == b.Kind && a.isSequence():
		return st.concat(a, b)
	case op == ast.Mult && a.isSequence() && b.isIntegral():
		return st.repeat(a, b)
	case op == ast.Mult && b.isSequence() && a.isIntegral():
		return st.repeat(b, a)
	case a.Kind == KindSet && b.Kind == KindSet:
		return setOp(op, a, b)
	case op == ast.BitOr && a.Kind == KindDict && b.Kind == KindDict:
		out := Value{Kind: KindDict}
		for _, d := range []Value{a, b} {
			for i := range d.Keys {
				dictSet(&out, d.Keys[i], d.Elts[i])
			}
		}
		return out, nil
	}
	return Value{}, unsupportedOperand(binOpSymbols[op], a, b)
}

func (st *state) numeric(op ast.BinOpKind, a, b Value) (Value, error) {
	if a.isIntegral() && b.isIntegral() {
		if a.Kind == KindBool && b.Kind == KindBool {
			// bool & bool остаётся bool
			switch op {
			case ast.BitAnd:
				return BoolValue(a.Bool && b.Bool), nil
			case ast.BitOr:
				return BoolValue(a.Bool || b.Bool), nil
			case ast.BitXor:
				return BoolValue(a.Bool != b.Bool), nil
			}
		}
		return st.intOp(op, a.bigInt(), b.bigInt())
	}
	if a.Kind == KindComplex || b.Kind == KindComplex {
		return complexOp(op, a, b)
	}
	x, err := a.toFloat()
	if err != nil {
		return Value{}, err
	}
	y, err := b.toFloat()
	if err != nil {
		return Value{}, err
	}
	return floatOp(op, x, y, a, b)
}

func (st *state) intOp(op ast.BinOpKind, x, y *big.Int) (Value, error) {
	z := new(big.Int)
	switch op {
	case ast.Add:
		z.Add(x, y)
	case ast.Sub:
		z.Sub(x, y)
	case ast.Mult:
		if x.BitLen()+y.BitLen() > st.ev.limits.MaxIntBits+1 {
			return Value{}, st.intTooLarge()
		}
		z.Mul(x, y)
	case ast.Div:
		if y.Sign() == 0 {
			return Value{}, evalError("ZeroDivisionError", "division by zero")
		}
		f, _ := new(big.Rat).SetFrac(x, y).Float64()
		if math.IsInf(f, 0) {
			return Value{}, evalError("OverflowError", "integer division result too large for a float")
		}
		return FloatValue(f), nil
	case ast.FloorDiv, ast.Mod:
		if y.Sign() == 0 {
			return Value{}, evalError("ZeroDivisionError", "integer division or modulo by zero")
		}
		q, r := floorDivMod(x, y)
		if op == ast.Mod {
			return IntValue(r), nil
		}
		return IntValue(q), nil
	case ast.Pow:
		return st.intPow(x, y)
	case ast.LShift, ast.RShift:
		if y.Sign() < 0 {
			return Value{}, evalError("ValueError", "negative shift count")
		}
		if op == ast.RShift {
			if !y.IsInt64() || y.Int64() > int64(x.BitLen()) {
				if x.Sign() < 0 {
					return Int64Value(-1), nil
				}
				return Int64Value(0), nil
			}
			// Rsh у big.Int для отрицательных уже округляет вниз
			return IntValue(z.Rsh(x, uint(y.Int64()))), nil
		}
		if x.Sign() == 0 {
			return Int64Value(0), nil
		}
		if !y.IsInt64() || int64(x.BitLen())+y.Int64() > int64(st.ev.limits.MaxIntBits) {
			return Value{}, st.intTooLarge()
		}
		z.Lsh(x, uint(y.Int64()))
	case ast.BitAnd:
		z.And(x, y)
	case ast.BitOr:
		z.Or(x, y)
	case ast.BitXor:
		z.Xor(x, y)
	default:
		return Value{}, unsupportedOperand(binOpSymbols[op], IntValue(x), IntValue(y))
	}
	return st.checkInt(z)
}

// floorDivMod rounds the quotient toward negative infinity, so the
// remainder takes the sign of the divisor.
func floorDivMod(x, y *big.Int) (q, r *big.Int) {
	q, r = new(big.Int).QuoRem(x, y, new(big.Int))
	if r.Sign() != 0 && r.Sign() != y.Sign() {
		q.Sub(q, big.NewInt(1))
		r.Add(r, y)
	}
	return q, r
}

func (st *state) intPow(x, y *big.Int) (Value, error) {
	if y.Sign() < 0 {
		fx, _ := new(big.Float).SetInt(x).Float64()
		fy, _ := new(big.Float).SetInt(y).Float64()
		if fx == 0 {
			return Value{}, evalError("ZeroDivisionError", "0.0 cannot be raised to a negative power")
		}
		if math.IsInf(fx, 0) {
			return Value{}, evalError("OverflowError", "int too large to convert to float")
		}
		return FloatValue(math.Pow(fx, fy)), nil
	}
	// 0, 1 и -1 в любой степени остаются маленькими
	if x.CmpAbs(big.NewInt(1)) <= 0 {
		if x.Sign() < 0 && y.Bit(0) == 0 {
			return Int64Value(1), nil
		}
		if y.Sign() == 0 {
			return Int64Value(1), nil
		}
		return IntValue(new(big.Int).Set(x)), nil
	}
	limit := int64(st.ev.limits.MaxIntBits)
	if !y.IsInt64() || y.Int64() > limit || (int64(x.BitLen())-1)*y.Int64() > limit {
		return Value{}, st.intTooLarge()
	}
	return st.checkInt(new(big.Int).Exp(x, y, nil))
}

// floatOp applies op to two floats; a and b are the original operands for
// error messages.
func floatOp(op ast.BinOpKind, x, y float64, a, b Value) (Value, error) {
	switch op {
	case ast.Add:
		return FloatValue(x + y), nil
	case ast.Sub:
		return FloatValue(x - y), nil
	case ast.Mult:
		return FloatValue(x * y), nil
	case ast.Div:
		if y == 0 {
			return Value{}, evalError("ZeroDivisionError", "float division by zero")
		}
		return FloatValue(x / y), nil
	case ast.FloorDiv, ast.Mod:
		if y == 0 {
			if op == ast.Mod {
				return Value{}, evalError("ZeroDivisionError", "float modulo")
			}
			return Value{}, evalError("ZeroDivisionError", "float floor division by zero")
		}
		div, mod := floatDivMod(x, y)
		if op == ast.Mod {
			return FloatValue(mod), nil
		}
		return FloatValue(div), nil
	case ast.Pow:
		return floatPow(x, y)
	}
	return Value{}, unsupportedOperand(binOpSymbols[op], a, b)
}

// floatDivMod is CPython's float floor division and modulo.
func floatDivMod(x, y float64) (float64, float64) {
	mod := math.Mod(x, y)
	div := (x - mod) / y
	if mod != 0 {
		if (y < 0) != (mod < 0) {
			mod += y
			div -= 1
		}
	} else {
		mod = math.Copysign(0, y)
	}
	var floordiv float64
	if div != 0 {
		floordiv = math.Floor(div)
		if div-floordiv > 0.5 {
			floordiv += 1
		}
	} else {
		floordiv = math.Copysign(0, x/y)
	}
	return floordiv, mod
}

func floatPow(x, y float64) (Value, error) {
	if x == 0 && y < 0 {
		return Value{}, evalError("ZeroDivisionError", "zero to a negative power")
	}
	if x < 0 && !math.IsInf(x, 0) && y != math.Trunc(y) && !math.IsInf(y, 0) {
		// отрицательное основание в дробной степени даёт complex
		return ComplexValue(cmplx.Pow(complex(x, 0), complex(y, 0))), nil
	}
	r := math.Pow(x, y)
	if math.IsInf(r, 0) && !math.IsInf(x, 0) && !math.IsInf(y, 0) {
		return Value{}, evalError("OverflowError", "(34, 'Numerical result out of range')")
	}
	return FloatValue(r), nil
}

func complexOp(op ast.BinOpKind, a, b Value) (Value, error) {
	x, err := a.toComplex()
	if err != nil {
		return Value{}, err
	}
	y, err := b.toComplex()
	if err != nil {
		return Value{}, err
	}
	switch op {
	case ast.Add:
		return ComplexValue(x + y), nil
	case ast.Sub:
		return ComplexValue(x - y), nil
	case ast.Mult:
		return ComplexValue(x * y), nil
	case ast.Div:
		if y == 0 {
			return Value{}, evalError("ZeroDivisionError", "complex division by zero")
		}
		return ComplexValue(x / y), nil
	case ast.Pow:
		if x == 0 {
			if imag(y) != 0 || real(y) < 0 {
				return Value{}, evalError("ZeroDivisionError", "0.0 to a negative or complex power")
			}
			if y == 0 {
				return ComplexValue(1), nil
			}
			return ComplexValue(0), nil
		}
		return ComplexValue(cmplx.Pow(x, y)), nil
	}
	return Value{}, unsupportedOperand(binOpSymbols[op], a, b)
}

func (st *state) concat(a, b Value) (Value, error) {
	if a.Kind == KindStr || a.Kind == KindBytes {
		if len(a.Str)+len(b.Str) > st.ev.limits.MaxBytes {
			return Value{}, st.tooLong(a)
		}
		return Value{Kind: a.Kind, Str: a.Str + b.Str}, nil
	}
	elts := make([]Value, 0, len(a.Elts)+len(b.Elts))
	elts = append(append(elts, a.Elts...), b.Elts...)
	return st.checkLen(Value{Kind: a.Kind, Elts: elts})
}

func (st *state) repeat(seq, count Value) (Value, error) {
	n := count.bigInt()
	if n.Sign() <= 0 {
		return Value{Kind: seq.Kind}, nil
	}
	size := len(seq.Str)
	if seq.Kind == KindList || seq.Kind == KindTuple {
		size = len(seq.Elts)
	}
	if size == 0 {
		return seq, nil
	}
	if !n.IsInt64() || n.Int64() > int64(st.ev.limits.MaxBytes/size) {
		return Value{}, st.tooLong(seq)
	}
	k := int(n.Int64())
	if seq.Kind == KindStr || seq.Kind == KindBytes {
		return Value{Kind: seq.Kind, Str: strings.Repeat(seq.Str, k)}, nil
	}
	elts := make([]Value, 0, size*k)
	for range k {
		elts = append(elts, seq.Elts...)
	}
	return Value{Kind: seq.Kind, Elts: elts}, nil
}

func setOp(op ast.BinOpKind, a, b Value) (Value, error) {
	out := Value{Kind: KindSet}
	add := func(v Value) {
		if indexOf(out.Elts, v) < 0 {
			out.Elts = append(out.Elts, v)
		}
	}
	switch op {
	case ast.BitOr:
		for _, v := range a.Elts {
			add(v)
		}
		for _, v := range b.Elts {
			add(v)
		}
	case ast.BitAnd:
		for _, v := range a.Elts {
			if indexOf(b.Elts, v) >= 0 {
				add(v)
			}
		}
	case ast.Sub:
		for _, v := range a.Elts {
			if indexOf(b.Elts, v) < 0 {
				add(v)
			}
		}
	case ast.BitXor:
		for _, v := range a.Elts {
			if indexOf(b.Elts, v) < 0 {
				add(v)
			}
		}
		for _, v := range b.Elts {
			if indexOf(a.Elts, v) < 0 {
				add(v)
			}
		}
	default:
		return Value{}, unsupportedOperand(binOpSymbols[op], a, b)
	}
	return out, nil
}
