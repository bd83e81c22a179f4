package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyrefs/internal/recovery"
	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

func TestTokenize(t *testing.T) {
	f := source.FromBytes("t.py", []byte("import os\n"), source.FileVirtual)
	res := Tokenize(f, 10)
	require.NotEmpty(t, res.Tokens)
	assert.Equal(t, token.EOF, res.Tokens[len(res.Tokens)-1].Kind)
	assert.False(t, res.Bag.HasErrors())

	f = source.FromBytes("t.py", []byte("s = 'open\n"), source.FileVirtual)
	assert.True(t, Tokenize(f, 10).Bag.HasErrors())
}

func TestParseReportsRepairs(t *testing.T) {
	f := source.FromBytes("t.py", []byte("import os\nx = (\nimport sys\n"), source.FileVirtual)
	res, err := Parse(context.Background(), f, recovery.Options{}, 10)
	require.NoError(t, err)
	assert.False(t, res.Unrecoverable)
	require.NotNil(t, res.Recovery.Module)
	require.Equal(t, 1, res.Bag.Len())
	assert.Equal(t, 1, res.Bag.Items()[0].Pos.Line)

	f = source.FromBytes("t.py", []byte(unrecoverable), source.FileVirtual)
	res, err = Parse(context.Background(), f, recovery.Options{}, 10)
	require.NoError(t, err)
	assert.True(t, res.Unrecoverable)
	assert.Nil(t, res.Recovery.Module)
}

func TestParseDiagnosticLimit(t *testing.T) {
	f := source.FromBytes("t.py", []byte("import os\nx = (\nimport sys\ny = (\nimport re\n"), source.FileVirtual)
	res, err := Parse(context.Background(), f, recovery.Options{}, 1)
	require.NoError(t, err)
	require.False(t, res.Unrecoverable)
	assert.Equal(t, 1, res.Bag.Len())
	assert.Equal(t, len(res.Recovery.Repairs)-1, res.Bag.Dropped())
}
