package consteval

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyrefs/internal/parser"
	"pyrefs/internal/source"
)

func evalText(t *testing.T, text string) (Value, error) {
	t.Helper()
	e, err := parser.ParseExpr(source.NewBuffer(text), parser.Options{})
	require.NoError(t, err, text)
	return Eval(e)
}

func mustEval(t *testing.T, text string) Value {
	t.Helper()
	v, err := evalText(t, text)
	require.NoError(t, err, text)
	return v
}

func TestEvalRepr(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"(1,)", "(1,)"},
		{"()", "()"},
		{"{1, 2, 2, 1}", "{1, 2}"},
		{"{'a': 1, 'b': 2, 'a': 3}", "{'a': 3, 'b': 2}"},
		{"{1: 'x', True: 'y'}", "{1: 'y'}"},
		{"{**{'a': 1}, 'b': 2}", "{'a': 1, 'b': 2}"},
		{"None", "None"},
		{"...", "Ellipsis"},
		{"0xff", "255"},
		{"0o17 + 0b101", "20"},
		{"1_000_000", "1000000"},
		{"1.5e3", "1500.0"},
		{"1e16", "1e+16"},
		{"1e-5", "1e-05"},
		{"0.1 + 0.2", "0.30000000000000004"},
		{"2j", "2j"},
		{"1 + 2j", "(1+2j)"},
		{"1 - 2j", "(1-2j)"},
		{"-7 // 2", "-4"},
		{"-7 % 2", "1"},
		{"7 % -2", "-1"},
		{"7 // -2", "-4"},
		{"-7.5 // 2", "-4.0"},
		{"-7.5 % 2", "0.5"},
		{"7 / 2", "3.5"},
		{"4 / 2", "2.0"},
		{"2 ** 10", "1024"},
		{"2 ** -1", "0.5"},
		{"(-2) ** 3", "-8"},
		{"-2 ** 2", "-4"},
		{"2 ** 100", "1267650600228229401496703205376"},
		{"1 << 70", "1180591620717411303424"},
		{"-9 >> 1", "-5"},
		{"~5", "-6"},
		{"~True", "-2"},
		{"True + True", "2"},
		{"True & False", "False"},
		{"True | 0", "1"},
		{"6 & 3 | 8 ^ 1", "11"},
		{"+True", "1"},
		{"not 0", "True"},
		{"'ab' * 3", "'ababab'"},
		{"2 * [0]", "[0, 0]"},
		{"[1] * -1", "[]"},
		{"'a' + 'b'", "'ab'"},
		{"b'a' + b'b'", "b'ab'"},
		{"(1, 2) + (3,)", "(1, 2, 3)"},
		{"{1, 2} | {3}", "{1, 2, 3}"},
		{"{1, 2} & {2, 3}", "{2}"},
		{"{1, 2} - {2}", "{1}"},
		{"{1, 2} ^ {2, 3}", "{1, 3}"},
		{"{'a': 1} | {'a': 2, 'b': 3}", "{'a': 2, 'b': 3}"},
		{"0 or '' or 'x'", "'x'"},
		{"1 and [] and 2", "[]"},
		{"0 or ''", "''"},
		{"'a' if 1 > 2 else 'b'", "'b'"},
		{"'abc'[1]", "'b'"},
		{"'abc'[-1]", "'c'"},
		{"b'abc'[0]", "97"},
		{"'abcdef'[1:4]", "'bcd'"},
		{"'abcdef'[::-1]", "'fedcba'"},
		{"'abcdef'[::2]", "'ace'"},
		{"[1, 2, 3, 4][-3:]", "[2, 3, 4]"},
		{"[1, 2, 3][5:]", "[]"},
		{"(1, 2, 3)[10:0:-1]", "(3, 2)"},
		{"{'k': [1, 2]}['k'][1]", "2"},
		{"{(1, 2): 'p'}[1, 2]", "'p'"},
		{"'it\\'s'", `"it's"`},
		{"'a\\nb'", `'a\nb'`},
		{"b'\\x00\\xff'", `b'\x00\xff'`},
		{"'é'", "'é'"},
	}
	for _, tt := range tests {
		v, err := evalText(t, tt.expr)
		if assert.NoError(t, err, tt.expr) {
			assert.Equal(t, tt.want, Repr(v), tt.expr)
		}
	}
}

func TestChainedComparisons(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"1 < 2 < 0", false},
		{"1 < 2 < 3", true},
		{"1 == 1.0", true},
		{"1 == 1 + 0j", true},
		{"True == 1", true},
		{"[1, 2] < [1, 3]", true},
		{"(1, 2) <= (1, 2)", true},
		{"'abc' < 'abd'", true},
		{"{1} < {1, 2}", true},
		{"{1, 2} <= {1, 2}", true},
		{"'b' in 'abc'", true},
		{"3 not in [1, 2]", true},
		{"'k' in {'k': 1}", true},
		{"97 in b'abc'", true},
		{"None is None", true},
		{"[] is []", false},
		{"1 is not 2", true},
		{"2 ** 64 > 1e19", true},
		{"2 ** 53 + 1 == 2 ** 53", false},
		{"2 ** 53 + 1 == 2.0 ** 53", false},
		{"[1, 2] == (1, 2)", false},
		{"{1: 2} == {1: 2}", true},
		{"'a' != b'a'", true},
	}
	for _, tt := range tests {
		v := mustEval(t, tt.expr)
		assert.Equal(t, KindBool, v.Kind, tt.expr)
		assert.Equal(t, tt.want, v.Bool, tt.expr)
	}
}

func TestComparisonShortCircuits(t *testing.T) {
	// правая часть цепочки после ложной пары не вычисляется
	v := mustEval(t, "1 > 2 < (1 // 0)")
	assert.Equal(t, False, v)
	v = mustEval(t, "0 and 1 // 0")
	assert.Equal(t, "0", Repr(v))
	v = mustEval(t, "1 if True else 1 // 0")
	assert.Equal(t, "1", Repr(v))
}

func TestUnsupported(t *testing.T) {
	for _, expr := range []string{
		"f()",
		"os.path",
		"x",
		"[x for x in y]",
		"lambda: 1",
		"(y := 1)",
		"[*a]",
		"b'%s' % b'x'",
		"'%5s' % 'x'",
		"'%(k)s' % {'k': 1}",
		"'%f' % 1.0",
		"__import__",
	} {
		_, err := evalText(t, expr)
		assert.ErrorIs(t, err, ErrUnsupported, expr)
		assert.False(t, errors.Is(err, ErrEvaluation), expr)
	}
}

func TestEvaluationErrors(t *testing.T) {
	for _, expr := range []string{
		"1 / 0",
		"1 // 0",
		"1 % 0",
		"1.0 / 0",
		"0 ** -1",
		"[1][5]",
		"'abc'[3]",
		"{'a': 1}['b']",
		"{[1]: 2}",
		"{[1]}",
		"1 + 'a'",
		"'a' < 1",
		"1j < 2j",
		"[1][::0]",
		"1 << -1",
		"'a' in 1",
		"1 in 'abc'",
		"None[0]",
		"[1]['a']",
		"2 ** 5000",
		"1 << 5000",
		"'x' * (2 ** 30)",
		"f'{1:abc}'",
		"f'{\"s\":+}'",
		"f'{[]:>3}'",
		"'%s %s' % ('a',)",
		"'%s' % ('a', 'b')",
		"'abc' % 'x'",
		"'%d' % 'x'",
		"'%d' % 1j",
		"'abc%' % ()",
	} {
		_, err := evalText(t, expr)
		assert.ErrorIs(t, err, ErrEvaluation, expr)
	}
}

func TestEvaluationErrorNamesException(t *testing.T) {
	_, err := evalText(t, "{'a': 1}['b']")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KeyError: 'b'")
}

func TestLimits(t *testing.T) {
	ev := New(Limits{MaxBytes: 8, MaxIntBits: 16})
	e, err := parser.ParseExpr(source.NewBuffer("'abc' * 3"), parser.Options{})
	require.NoError(t, err)
	_, err = ev.Eval(e)
	assert.ErrorIs(t, err, ErrEvaluation)

	e, err = parser.ParseExpr(source.NewBuffer("2 ** 16"), parser.Options{})
	require.NoError(t, err)
	_, err = ev.Eval(e)
	assert.ErrorIs(t, err, ErrEvaluation)

	e, err = parser.ParseExpr(source.NewBuffer("2 ** 15"), parser.Options{})
	require.NoError(t, err)
	v, err := ev.Eval(e)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Int.Cmp(big.NewInt(32768)))
}

func TestDeepNesting(t *testing.T) {
	text := strings.Repeat("-", 50) + "1"
	v := mustEval(t, text)
	assert.Equal(t, "1", Repr(v))

	ev := New(Limits{MaxDepth: 10})
	e, err := parser.ParseExpr(source.NewBuffer(text), parser.Options{})
	require.NoError(t, err)
	_, err = ev.Eval(e)
	assert.ErrorIs(t, err, ErrEvaluation)
}

func TestZeroEvaluatorUsesDefaults(t *testing.T) {
	var ev Evaluator
	e, err := parser.ParseExpr(source.NewBuffer("'a' * 3"), parser.Options{})
	require.NoError(t, err)
	v, err := ev.Eval(e)
	require.NoError(t, err)
	assert.Equal(t, "aaa", v.Str)
}

func TestStructuralValues(t *testing.T) {
	v := mustEval(t, "[1, 2, 3]")
	require.Equal(t, KindList, v.Kind)
	require.Len(t, v.Elts, 3)
	for i, e := range v.Elts {
		assert.Equal(t, KindInt, e.Kind)
		assert.Equal(t, int64(i+1), e.Int.Int64())
	}

	v = mustEval(t, "{'a': (1, 'b'), 2: {3}}")
	require.Equal(t, KindDict, v.Kind)
	assert.True(t, Equal(v, mustEval(t, "{2: {3}, 'a': (1, 'b')}")))
	assert.Equal(t, 2, v.Len())

	assert.Equal(t, "set()", Repr(mustEval(t, "{1} - {1}")))
	assert.Equal(t, "{}", Repr(mustEval(t, "{}")))
}

func TestPercentFormatting(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"'pkg.%s' % 'mod'", "pkg.mod"},
		{"'%s.%s' % ('a', 'b')", "a.b"},
		{"'%r' % 'x'", "'x'"},
		{"'%a' % 'é'", `'\xe9'`},
		{"'%d%%' % 50", "50%"},
		{"'%i' % True", "1"},
		{"'%d' % -3.7", "-3"},
		{"'%s' % ((1, 2),)", "(1, 2)"},
		{"'%s' % [1]", "[1]"},
		{"'plain' % ()", "plain"},
		{"'plain' % {'k': 1}", "plain"},
		{"'%s' % None", "None"},
	}
	for _, tt := range tests {
		v := mustEval(t, tt.expr)
		assert.Equal(t, KindStr, v.Kind, tt.expr)
		assert.Equal(t, tt.want, v.Str, tt.expr)
	}

	ev := New(Limits{MaxBytes: 4})
	e, err := parser.ParseExpr(source.NewBuffer("'%s%s' % ('abc', 'def')"), parser.Options{})
	require.NoError(t, err)
	_, err = ev.Eval(e)
	assert.ErrorIs(t, err, ErrEvaluation)
}
