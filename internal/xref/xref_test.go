package xref

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyrefs/internal/parser"
	"pyrefs/internal/recovery"
	"pyrefs/internal/source"
	"pyrefs/internal/testkit"
)

func rng(l1, c1, l2, c2 int) source.Range {
	return source.Range{Start: source.Pos{Line: l1, Col: c1}, End: source.Pos{Line: l2, Col: c2}}
}

func find(t *testing.T, text string, popts parser.Options) []Reference {
	t.Helper()
	buf := source.NewBuffer(text)
	mod, err := parser.Parse(buf, popts)
	require.NoError(t, err, text)
	refs := Find(buf, mod, Options{})
	ranges := make([]source.Range, len(refs))
	for i, r := range refs {
		ranges[i] = r.Range
	}
	require.NoError(t, testkit.CheckRangeInvariants(buf, ranges))
	return refs
}

func names(refs []Reference) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Name
	}
	return out
}

func TestStaticImports(t *testing.T) {
	refs := find(t, "import os, sys\nfrom . import x\nfrom ..pkg.mod import y\nimport os.path as p\n", parser.Options{})
	require.Equal(t, []string{"os", "sys", ".", "..pkg.mod", "os.path"}, names(refs))
	assert.Equal(t, rng(0, 0, 0, 14), refs[0].Range)
	assert.Equal(t, refs[0].Range, refs[1].Range)
	assert.Equal(t, rng(1, 0, 1, 15), refs[2].Range)
	assert.Equal(t, rng(2, 0, 2, 23), refs[3].Range)
	assert.Equal(t, KindImport, refs[0].Kind)
	assert.Equal(t, KindFrom, refs[3].Kind)
}

func TestTopLevelImportCount(t *testing.T) {
	refs := find(t, "import a\nimport b\n\nimport c\nx = 1\nimport d\n", parser.Options{})
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(refs))
}

func TestNestedImports(t *testing.T) {
	text := "def f():\n    import json\n    if x:\n        from a.b import c\n\nclass K:\n    import re\n"
	refs := find(t, text, parser.Options{})
	assert.Equal(t, []string{"json", "a.b", "re"}, names(refs))
	assert.Equal(t, rng(1, 4, 1, 15), refs[0].Range)
}

func TestDynamicImportSpansCall(t *testing.T) {
	refs := find(t, `m = importlib.import_module("os.path")`+"\n", parser.Options{})
	require.Len(t, refs, 1)
	assert.Equal(t, "os.path", refs[0].Name)
	assert.Equal(t, KindDynamic, refs[0].Kind)
	assert.Equal(t, rng(0, 4, 0, 38), refs[0].Range)
}

func TestDynamicImportForms(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"__import__('json')", []string{"json"}},
		{"import_module('a' + '.b')", []string{"a.b"}},
		{"__import__(name='yaml')", []string{"yaml"}},
		{"importlib.__import__('x', None)", []string{"x"}},
		{`import_module(f"pkg.{'mod'}")`, []string{"pkg.mod"}},
		{"import_module('a' if 1 < 2 < 3 else 'b')", []string{"a"}},
		{"import_module(compute())", nil},
		{"import_module(1)", nil},
		{"import_module()", nil},
		{"other.import_module('a')", nil},
		{"load('a')", nil},
		{"f(__import__('inner'))", []string{"inner"}},
		{"import_module(name=pick(__import__('b')))", []string{"b"}},
		{"import_module(__import__('c'))", []string{"c"}},
	}
	for _, tt := range tests {
		refs := find(t, tt.text+"\n", parser.Options{})
		if tt.want == nil {
			assert.Empty(t, refs, tt.text)
			continue
		}
		assert.Equal(t, tt.want, names(refs), tt.text)
	}
}

func TestPendingResolvedByNextNode(t *testing.T) {
	refs := find(t, "import os   \n\nx = 1\n", parser.Options{NoEndPositions: true})
	require.Len(t, refs, 1)
	assert.Equal(t, rng(0, 0, 0, 9), refs[0].Range)
}

func TestPendingFlushedAtEnd(t *testing.T) {
	refs := find(t, "import a\nimport b, c  \n\n", parser.Options{NoEndPositions: true})
	require.Equal(t, []string{"a", "b", "c"}, names(refs))
	assert.Equal(t, rng(0, 0, 0, 8), refs[0].Range)
	assert.Equal(t, rng(1, 0, 1, 11), refs[1].Range)
	assert.Equal(t, refs[1].Range, refs[2].Range)
}

func TestPendingMultiLineStatement(t *testing.T) {
	text := "from pkg import (\n    a,\n    b,\n)\nprint(1)\n"
	refs := find(t, text, parser.Options{NoEndPositions: true})
	require.Len(t, refs, 1)
	assert.Equal(t, rng(0, 0, 3, 1), refs[0].Range)

	withEnds := find(t, text, parser.Options{})
	assert.Equal(t, refs[0].Range, withEnds[0].Range)
}

func TestPendingSnapKeepsPunctuation(t *testing.T) {
	// граница ищется только по пробелам, запятая попадает в диапазон
	refs := find(t, "x = [__import__('a'), __import__('b')]\n", parser.Options{NoEndPositions: true})
	require.Equal(t, []string{"a", "b"}, names(refs))
	assert.Equal(t, rng(0, 5, 0, 21), refs[0].Range)
	assert.Equal(t, rng(0, 22, 0, 38), refs[1].Range)
}

func TestRepairedFileMatchesDeletedLine(t *testing.T) {
	broken := "import os\nx = (\nimport sys\n"
	res, err := recovery.Parse(context.Background(), source.NewBuffer(broken), recovery.Options{})
	require.NoError(t, err)
	refs := Find(res.Buffer, res.Module, Options{})

	clean := find(t, "import os\nimport sys\n", parser.Options{})
	require.Equal(t, names(clean), names(refs))
	assert.Equal(t, rng(0, 0, 0, 9), refs[0].Range)
	assert.Equal(t, rng(2, 0, 2, 10), refs[1].Range)
}

func TestEmptyModule(t *testing.T) {
	assert.Empty(t, find(t, "", parser.Options{}))
	assert.Empty(t, find(t, "# nothing\n", parser.Options{NoEndPositions: true}))
}
