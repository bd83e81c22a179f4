package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

func splitFirst(t *testing.T, text string) (*source.Buffer, []FPart, error) {
	t.Helper()
	buf := source.NewBuffer(text)
	toks := Tokenize(buf, Options{})
	require.Equal(t, token.FString, toks[0].Kind)
	parts, err := SplitFString(buf, toks[0])
	return buf, parts, err
}

func text(buf *source.Buffer, sp source.Span) string {
	return buf.Text()[sp.Start:sp.End]
}

func TestSplitFStringFields(t *testing.T) {
	buf, parts, err := splitFirst(t, `f"a{b!r:>{w}}c{{d}}{e=}"`)
	require.NoError(t, err)
	require.Len(t, parts, 4)

	assert.False(t, parts[0].Field)
	assert.Equal(t, "a", text(buf, parts[0].Span))

	assert.True(t, parts[1].Field)
	assert.Equal(t, "b", text(buf, parts[1].Expr))
	assert.Equal(t, byte('r'), parts[1].Conv)
	require.True(t, parts[1].HasSpec)
	require.Len(t, parts[1].Spec, 2)
	assert.Equal(t, ">", text(buf, parts[1].Spec[0].Span))
	assert.Equal(t, "w", text(buf, parts[1].Spec[1].Expr))

	assert.Equal(t, "c{{d}}", text(buf, parts[2].Span))

	assert.True(t, parts[3].Debug)
	assert.Equal(t, "e", text(buf, parts[3].Expr))
}

func TestSplitFStringNestedQuotes(t *testing.T) {
	buf, parts, err := splitFirst(t, `f"{d["k"]:{'x'}}"`)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, `d["k"]`, text(buf, parts[0].Expr))
}

func TestSplitFStringComparisonIsNotDebug(t *testing.T) {
	buf, parts, err := splitFirst(t, `f"{a==b}{a!=b}{a<=b}"`)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	for i, want := range []string{"a==b", "a!=b", "a<=b"} {
		assert.False(t, parts[i].Debug)
		assert.Equal(t, want, text(buf, parts[i].Expr))
	}
}

func TestSplitFStringErrors(t *testing.T) {
	for _, src := range []string{`f"{}"`, `f"{x!z}"`, `f"}"`, `f"{x#}"`} {
		_, _, err := splitFirst(t, src)
		var fe *FStringError
		assert.ErrorAs(t, err, &fe, src)
	}
}
