package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyrefs/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	var r Reporter = b
	r.Report(LexUnknownChar, source.Pos{Line: 0, Col: 3}, "unexpected '$'")
	r.Report(SynInvalidSyntax, source.Pos{Line: 1}, "invalid syntax")
	r.Report(SynUnexpectedToken, source.Pos{Line: 2}, "unexpected token")

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 1, b.Dropped())
	assert.True(t, b.HasErrors())
	first, ok := b.First()
	require.True(t, ok)
	assert.Equal(t, LexUnknownChar, first.Code)
}

func TestBagUnlimitedAndNil(t *testing.T) {
	b := NewBag(0)
	for i := range 100 {
		b.Report(SynInvalidSyntax, source.Pos{Line: i}, "x")
	}
	assert.Equal(t, 100, b.Len())
	assert.Zero(t, b.Dropped())

	var nilBag *Bag
	assert.False(t, nilBag.HasErrors())
	assert.False(t, nilBag.Add(Diagnostic{}))
	_, ok := nilBag.First()
	assert.False(t, ok)
	assert.Nil(t, nilBag.Items())
}

func TestCodeIDs(t *testing.T) {
	assert.Equal(t, "LEX1001", LexUnknownChar.ID())
	assert.Equal(t, "SYN2011", SynInvalidSyntax.ID())
	assert.Equal(t, "IO4001", IOLoadFileError.ID())
	assert.Equal(t, "E0000", UnknownCode.ID())
	assert.Equal(t, "Invalid syntax", SynInvalidSyntax.Title())
	assert.Equal(t, "Unknown error", Code(9999).Title())
}
