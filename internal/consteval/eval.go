package consteval

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"pyrefs/internal/ast"
)

const (
	DefaultMaxBytes   = 1 << 20
	DefaultMaxIntBits = 4096
	defaultMaxDepth   = 200
)

// Limits bounds what an evaluation may build. Zero fields take defaults.
type Limits struct {
	// MaxBytes caps the length of string and bytes results, and the element
	// count of sequence results.
	MaxBytes int
	// MaxIntBits caps the bit length of integer results.
	MaxIntBits int
	// MaxDepth caps expression nesting.
	MaxDepth int
}

func (l Limits) withDefaults() Limits {
	if l.MaxBytes <= 0 {
		l.MaxBytes = DefaultMaxBytes
	}
	if l.MaxIntBits <= 0 {
		l.MaxIntBits = DefaultMaxIntBits
	}
	if l.MaxDepth <= 0 {
		l.MaxDepth = defaultMaxDepth
	}
	return l
}

// Evaluator evaluates expressions under fixed limits. The zero value uses
// the defaults; an Evaluator has no other state and is safe to share.
type Evaluator struct {
	limits Limits
}

func New(limits Limits) *Evaluator {
	return &Evaluator{limits: limits.withDefaults()}
}

// Eval evaluates e with the default limits.
func Eval(e ast.Expr) (Value, error) {
	return New(Limits{}).Eval(e)
}

// Eval evaluates e. The error wraps ErrUnsupported or ErrEvaluation.
func (ev *Evaluator) Eval(e ast.Expr) (Value, error) {
	if ev.limits == (Limits{}) {
		ev = New(Limits{})
	}
	st := &state{ev: ev}
	return st.eval(e)
}

// state is one evaluation run.
type state struct {
	ev    *Evaluator
	depth int
}

func (st *state) eval(e ast.Expr) (Value, error) {
	if e == nil {
		return Value{}, unsupported("empty expression")
	}
	st.depth++
	defer func() { st.depth-- }()
	if st.depth > st.ev.limits.MaxDepth {
		return Value{}, evalError("RecursionError", "expression nested too deeply")
	}
	switch n := e.(type) {
	case *ast.Constant:
		return st.constant(n)
	case *ast.Name:
		switch n.ID {
		case "True":
			return True, nil
		case "False":
			return False, nil
		case "None":
			return None, nil
		}
		return Value{}, unsupported("name %q", n.ID)
	case *ast.List:
		elts, err := st.evalAll(n.Elts)
		if err != nil {
			return Value{}, err
		}
		return ListValue(elts), nil
	case *ast.Tuple:
		elts, err := st.evalAll(n.Elts)
		if err != nil {
			return Value{}, err
		}
		return TupleValue(elts), nil
	case *ast.Set:
		return st.set(n)
	case *ast.Dict:
		return st.dict(n)
	case *ast.UnaryOp:
		v, err := st.eval(n.Operand)
		if err != nil {
			return Value{}, err
		}
		return st.unary(n.Op, v)
	case *ast.BinOp:
		l, err := st.eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		r, err := st.eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		return st.binary(n.Op, l, r)
	case *ast.BoolOp:
		return st.boolOp(n)
	case *ast.Compare:
		return st.compareChain(n)
	case *ast.IfExp:
		test, err := st.eval(n.Test)
		if err != nil {
			return Value{}, err
		}
		if test.Truth() {
			return st.eval(n.Body)
		}
		return st.eval(n.Orelse)
	case *ast.Subscript:
		return st.subscript(n)
	case *ast.JoinedStr:
		return st.joinedStr(n)
	case *ast.FormattedValue:
		s, err := st.formatted(n)
		if err != nil {
			return Value{}, err
		}
		return StrValue(s), nil
	}
	return Value{}, unsupported("%s", exprKind(e))
}

func (st *state) evalAll(exprs []ast.Expr) ([]Value, error) {
	out := make([]Value, 0, len(exprs))
	for _, x := range exprs {
		if _, ok := x.(*ast.Starred); ok {
			return nil, unsupported("starred expression")
		}
		v, err := st.eval(x)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (st *state) constant(c *ast.Constant) (Value, error) {
	switch c.Kind {
	case ast.ConstNone:
		return None, nil
	case ast.ConstBool:
		return BoolValue(c.Bool), nil
	case ast.ConstEllipsis:
		return Ellipsis, nil
	case ast.ConstStr:
		return st.checkLen(StrValue(c.Str))
	case ast.ConstBytes:
		return st.checkLen(BytesValue(c.Str))
	case ast.ConstInt:
		i, ok := parseInt(c.Text)
		if !ok {
			return Value{}, evalError("ValueError", "invalid integer literal %q", c.Text)
		}
		return st.checkInt(i)
	case ast.ConstFloat:
		f, err := parseFloat(c.Text)
		if err != nil {
			return Value{}, err
		}
		return FloatValue(f), nil
	case ast.ConstComplex:
		f, err := parseFloat(c.Text[:len(c.Text)-1])
		if err != nil {
			return Value{}, err
		}
		return ComplexValue(complex(0, f)), nil
	}
	return Value{}, unsupported("constant")
}

func parseInt(text string) (*big.Int, bool) {
	base := 10
	digits := text
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			digits = text[2:]
		}
	}
	return new(big.Int).SetString(digits, base)
}

// parseFloat accepts anything a float literal may hold; out-of-range
// literals become infinities like in Python.
func parseFloat(text string) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, nil
		}
		return 0, evalError("ValueError", "invalid float literal %q", text)
	}
	return f, nil
}

func (st *state) set(n *ast.Set) (Value, error) {
	elts, err := st.evalAll(n.Elts)
	if err != nil {
		return Value{}, err
	}
	out := Value{Kind: KindSet}
	for _, e := range elts {
		if err := hashable(e); err != nil {
			return Value{}, err
		}
		if indexOf(out.Elts, e) < 0 {
			out.Elts = append(out.Elts, e)
		}
	}
	return out, nil
}

func (st *state) dict(n *ast.Dict) (Value, error) {
	out := Value{Kind: KindDict}
	for i, kx := range n.Keys {
		v, err := st.eval(n.Values[i])
		if err != nil {
			return Value{}, err
		}
		if kx == nil {
			// {**m}
			if v.Kind != KindDict {
				return Value{}, typeError("'%s' object is not a mapping", v.TypeName())
			}
			for j := range v.Keys {
				dictSet(&out, v.Keys[j], v.Elts[j])
			}
			continue
		}
		k, err := st.eval(kx)
		if err != nil {
			return Value{}, err
		}
		if err := hashable(k); err != nil {
			return Value{}, err
		}
		dictSet(&out, k, v)
	}
	return out, nil
}

// dictSet keeps the first key object and the last value, like dict does.
func dictSet(d *Value, k, v Value) {
	if i := indexOf(d.Keys, k); i >= 0 {
		d.Elts[i] = v
		return
	}
	d.Keys = append(d.Keys, k)
	d.Elts = append(d.Elts, v)
}

func (st *state) boolOp(n *ast.BoolOp) (Value, error) {
	var v Value
	for i, x := range n.Values {
		var err error
		v, err = st.eval(x)
		if err != nil {
			return Value{}, err
		}
		if i == len(n.Values)-1 {
			break
		}
		// and: первый ложный операнд, or: первый истинный
		if v.Truth() == (n.Op == ast.Or) {
			return v, nil
		}
	}
	return v, nil
}

func (st *state) compareChain(n *ast.Compare) (Value, error) {
	left, err := st.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	for i, op := range n.Ops {
		right, err := st.eval(n.Comparators[i])
		if err != nil {
			return Value{}, err
		}
		ok, err := compare(op, left, right)
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return False, nil
		}
		left = right
	}
	return True, nil
}

func (st *state) checkInt(i *big.Int) (Value, error) {
	if i.BitLen() > st.ev.limits.MaxIntBits {
		return Value{}, st.intTooLarge()
	}
	return IntValue(i), nil
}

func (st *state) checkLen(v Value) (Value, error) {
	n := len(v.Str)
	if !(v.Kind == KindStr || v.Kind == KindBytes) {
		n = len(v.Elts)
	}
	if n > st.ev.limits.MaxBytes {
		return Value{}, st.tooLong(v)
	}
	return v, nil
}

func (st *state) intTooLarge() error {
	return evalError("OverflowError", "integer result exceeds %d bits", st.ev.limits.MaxIntBits)
}

func (st *state) tooLong(v Value) error {
	return evalError("MemoryError", "%s result exceeds %d", v.TypeName(), st.ev.limits.MaxBytes)
}

// exprKind names an expression node for error messages.
func exprKind(e ast.Expr) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", e), "*ast.")
}
