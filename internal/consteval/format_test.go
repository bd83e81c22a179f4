package consteval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFStrings(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{`f"{'a':>5}"`, "    a"},
		{`f"{'abc':^7}"`, "  abc  "},
		{`f"{'abc':*<6}"`, "abc***"},
		{`f"{'abcdef':.3}"`, "abc"},
		{`f"{'ab':05}"`, "ab000"},
		{`f"{42:05}"`, "00042"},
		{`f"{-42:05}"`, "-0042"},
		{`f"{5:<05}"`, "50000"},
		{`f"{42:+d}"`, "+42"},
		{`f"{42: d}"`, " 42"},
		{`f"{1234567:,}"`, "1,234,567"},
		{`f"{1234567:_}"`, "1_234_567"},
		{`f"{123:010,}"`, "00,000,123"},
		{`f"{255:#x}"`, "0xff"},
		{`f"{255:#X}"`, "0XFF"},
		{`f"{255:b}"`, "11111111"},
		{`f"{255:#o}"`, "0o377"},
		{`f"{0xdeadbeef:_x}"`, "dead_beef"},
		{`f"{65:c}"`, "A"},
		{`f"{1234:n}"`, "1234"},
		{`f"{5:.1f}"`, "5.0"},
		{`f"{3.14159:.2f}"`, "3.14"},
		{`f"{3.14159:8.3f}"`, "   3.142"},
		{`f"{3.14159:08.2f}"`, "00003.14"},
		{`f"{1234.5:,.2f}"`, "1,234.50"},
		{`f"{0.25:%}"`, "25.000000%"},
		{`f"{0.25:.1%}"`, "25.0%"},
		{`f"{12345.678:e}"`, "1.234568e+04"},
		{`f"{12345.678:.2E}"`, "1.23E+04"},
		{`f"{0.0001234:g}"`, "0.0001234"},
		{`f"{1234567.0:g}"`, "1.23457e+06"},
		{`f"{1.0:g}"`, "1"},
		{`f"{1.0:#g}"`, "1.00000"},
		{`f"{1.0:.3}"`, "1.0"},
		{`f"{1234.5:.2}"`, "1.2e+03"},
		{`f"{3.0:+}"`, "+3.0"},
		{`f"{-0.0:z.1f}"`, "0.0"},
		{`f"{1e400:f}"`, "inf"},
		{`f"{1e400:F}"`, "INF"},
		{`f"{-1e400:10}"`, "      -inf"},
		{`f"{True}"`, "True"},
		{`f"{True:d}"`, "1"},
		{`f"{True:>5}"`, "    1"},
		{`f"{None}"`, "None"},
		{`f"{'x'!r}"`, "'x'"},
		{`f"{'é'!a}"`, `'\xe9'`},
		{`f"{[1, 'a']!s}"`, "[1, 'a']"},
		{`f"{1+1=}"`, "1+1=2"},
		{`f"{'a':{'>'}{3}}"`, "  a"},
		{`f"{3.14159:{'.'}{2}f}"`, "3.14"},
		{`f"{12:{'0'}{4}}"`, "0012"},
		{`f"a{{b}}c"`, "a{b}c"},
		{`f"os" f".{'path'}"`, "os.path"},
		{`"pkg." f"{'mod'}"`, "pkg.mod"},
	}
	for _, tt := range tests {
		v, err := evalText(t, tt.expr)
		if assert.NoError(t, err, tt.expr) {
			assert.Equal(t, KindStr, v.Kind, tt.expr)
			assert.Equal(t, tt.want, v.Str, tt.expr)
		}
	}
}

func TestParseFormatSpec(t *testing.T) {
	fs, err := ParseFormatSpec("*^+#012_.3f")
	require.NoError(t, err)
	assert.Equal(t, '*', fs.Fill)
	assert.Equal(t, byte('^'), fs.Align)
	assert.Equal(t, byte('+'), fs.Sign)
	assert.True(t, fs.Alt)
	assert.True(t, fs.Zero)
	assert.Equal(t, 12, fs.Width)
	assert.Equal(t, byte('_'), fs.Grouping)
	assert.Equal(t, 3, fs.Precision)
	assert.Equal(t, byte('f'), fs.Type)

	fs, err = ParseFormatSpec(">")
	require.NoError(t, err)
	assert.Equal(t, byte('>'), fs.Align)
	assert.Equal(t, -1, fs.Precision)

	for _, bad := range []string{".", ",_", "5xx", "99999999999"} {
		_, err := ParseFormatSpec(bad)
		assert.ErrorIs(t, err, ErrEvaluation, bad)
	}
}

func TestFormatRejectsHugeWidth(t *testing.T) {
	_, err := Format(StrValue("a"), "2000000", DefaultMaxBytes)
	assert.ErrorIs(t, err, ErrEvaluation)
}

func TestReprRoundTrips(t *testing.T) {
	assert.Equal(t, `'a"b'`, Repr(StrValue(`a"b`)))
	assert.Equal(t, `"a'b"`, Repr(StrValue(`a'b`)))
	assert.Equal(t, `'a\'"b'`, Repr(StrValue(`a'"b`)))
	assert.Equal(t, `'\x00\t'`, Repr(StrValue("\x00\t")))
	assert.Equal(t, `'\u2028'`, Repr(StrValue("\u2028")))
	assert.Equal(t, `'\U0001f600'`, ASCII(StrValue("\U0001f600")))
	assert.Equal(t, "-0.0", Repr(FloatValue(negZero())))
	assert.Equal(t, "1000000.0", Repr(FloatValue(1e6)))
	assert.Equal(t, "0.0001", Repr(FloatValue(1e-4)))
	assert.Equal(t, "(1+0j)", Repr(ComplexValue(1)))
	assert.Equal(t, "{1: (2,)}", Repr(Value{Kind: KindDict, Keys: []Value{Int64Value(1)}, Elts: []Value{TupleValue([]Value{Int64Value(2)})}}))
	assert.Equal(t, "hi", Str(StrValue("hi")))
}

func negZero() float64 {
	z := 0.0
	return -z
}
