package consteval

import (
	"math"
	"math/big"
)

type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindComplex
	KindStr
	KindBytes
	KindList
	KindTuple
	KindSet
	KindDict
	KindEllipsis
)

var kindNames = [...]string{
	KindNone:     "NoneType",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindComplex:  "complex",
	KindStr:      "str",
	KindBytes:    "bytes",
	KindList:     "list",
	KindTuple:    "tuple",
	KindSet:      "set",
	KindDict:     "dict",
	KindEllipsis: "ellipsis",
}

func (k Kind) String() string { return kindNames[k] }

// Value is the result of an evaluation. Which fields are meaningful depends
// on Kind:
//
//	KindBool            Bool
//	KindInt             Int (never nil)
//	KindFloat           Float
//	KindComplex         Complex
//	KindStr, KindBytes  Str (raw bytes for KindBytes)
//	KindList, KindTuple Elts
//	KindSet             Elts, in insertion order, no duplicates
//	KindDict            Keys and Elts in parallel, in insertion order
//
// Values are treated as immutable once returned.
type Value struct {
	Kind    Kind
	Bool    bool
	Int     *big.Int
	Float   float64
	Complex complex128
	Str     string
	Elts    []Value
	Keys    []Value
}

var (
	None     = Value{Kind: KindNone}
	True     = Value{Kind: KindBool, Bool: true}
	False    = Value{Kind: KindBool}
	Ellipsis = Value{Kind: KindEllipsis}
)

func BoolValue(b bool) Value {
	if b {
		return True
	}
	return False
}

func IntValue(i *big.Int) Value       { return Value{Kind: KindInt, Int: i} }
func Int64Value(i int64) Value        { return IntValue(big.NewInt(i)) }
func FloatValue(f float64) Value      { return Value{Kind: KindFloat, Float: f} }
func ComplexValue(c complex128) Value { return Value{Kind: KindComplex, Complex: c} }
func StrValue(s string) Value         { return Value{Kind: KindStr, Str: s} }
func BytesValue(b string) Value       { return Value{Kind: KindBytes, Str: b} }
func ListValue(elts []Value) Value    { return Value{Kind: KindList, Elts: elts} }
func TupleValue(elts []Value) Value   { return Value{Kind: KindTuple, Elts: elts} }

// TypeName is the Python type name, used in error messages.
func (v Value) TypeName() string { return v.Kind.String() }

// IsNumber reports bool, int, float and complex; bool counts as an int the
// way Python's numeric tower does.
func (v Value) IsNumber() bool {
	switch v.Kind {
	case KindBool, KindInt, KindFloat, KindComplex:
		return true
	}
	return false
}

func (v Value) isIntegral() bool { return v.Kind == KindBool || v.Kind == KindInt }

func (v Value) isSequence() bool {
	switch v.Kind {
	case KindStr, KindBytes, KindList, KindTuple:
		return true
	}
	return false
}

// bigInt returns the integer value of a bool or int.
func (v Value) bigInt() *big.Int {
	if v.Kind == KindBool {
		if v.Bool {
			return big.NewInt(1)
		}
		return new(big.Int)
	}
	return v.Int
}

// toFloat converts a real number to float64, failing the way Python does
// for integers too large to represent.
func (v Value) toFloat() (float64, error) {
	switch v.Kind {
	case KindBool, KindInt:
		f, _ := new(big.Float).SetInt(v.bigInt()).Float64()
		if math.IsInf(f, 0) {
			return 0, evalError("OverflowError", "int too large to convert to float")
		}
		return f, nil
	case KindFloat:
		return v.Float, nil
	}
	return 0, typeError("must be real number, not %s", v.TypeName())
}

func (v Value) toComplex() (complex128, error) {
	if v.Kind == KindComplex {
		return v.Complex, nil
	}
	f, err := v.toFloat()
	return complex(f, 0), err
}

// Truth is Python truthiness.
func (v Value) Truth() bool {
	switch v.Kind {
	case KindNone:
		return false
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int.Sign() != 0
	case KindFloat:
		return v.Float != 0
	case KindComplex:
		return v.Complex != 0
	case KindStr, KindBytes:
		return v.Str != ""
	case KindList, KindTuple, KindSet, KindDict:
		return len(v.Elts) > 0
	}
	return true
}

// Len is the Python len() of a sized value, -1 otherwise.
func (v Value) Len() int {
	switch v.Kind {
	case KindStr:
		return len([]rune(v.Str))
	case KindBytes:
		return len(v.Str)
	case KindList, KindTuple, KindSet, KindDict:
		return len(v.Elts)
	}
	return -1
}
