package driver

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyrefs/internal/observ"
	"pyrefs/internal/resolve"
	"pyrefs/internal/source"
	"pyrefs/internal/testkit"
)

const unrecoverable = "x = (1,\n  2 3,\n)\n"

func staticResolver() *resolve.Static {
	return &resolve.Static{
		Builtins: resolve.NewBuiltinSet("os", "sys", "json"),
		Mappings: map[string][]string{"yaml": {"PyYAML", "types-PyYAML"}},
	}
}

func extractText(t *testing.T, text string, opts Options) *Result {
	t.Helper()
	if opts.Resolver == nil {
		opts.Resolver = staticResolver()
	}
	f := source.FromBytes("test.py", []byte(text), source.FileVirtual)
	res, err := Extract(context.Background(), f, opts)
	require.NoError(t, err)
	ranges := make([]source.Range, len(res.Refs))
	for i, r := range res.Refs {
		ranges[i] = r.Range
	}
	require.NoError(t, testkit.CheckRangeInvariants(f.Buffer, ranges))
	return res
}

func recordNames(refs []Record) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Name
	}
	return out
}

func TestExtractExpandsProviders(t *testing.T) {
	res := extractText(t, "import os\nimport yaml\nimport requests\n", Options{})
	require.Equal(t, []string{"os", "PyYAML", "types-PyYAML", "requests"}, recordNames(res.Refs))
	assert.True(t, res.Refs[0].IsBuiltin)
	assert.False(t, res.Refs[1].IsBuiltin)
	assert.Equal(t, res.Refs[1].Range, res.Refs[2].Range)
	assert.Equal(t, 1, res.Attempts)
	assert.Empty(t, res.Repaired)
	assert.False(t, res.Unrecoverable)
}

func TestTopLevelImportsYieldOneRecordEach(t *testing.T) {
	var sb strings.Builder
	for _, m := range []string{"os", "sys", "json", "numpy", "attr", "click"} {
		sb.WriteString("import " + m + "\n")
	}
	res := extractText(t, sb.String(), Options{Resolver: &resolve.Static{Builtins: resolve.NewBuiltinSet("os", "sys", "json")}})
	require.Len(t, res.Refs, 6)
	for i, r := range res.Refs {
		assert.Equal(t, i < 3, r.IsBuiltin, r.Name)
		assert.Equal(t, i, r.Range.Start.Line)
	}
}

func TestExtractRepairsBrokenLine(t *testing.T) {
	res := extractText(t, "import os\nx = (\nimport sys\n", Options{})
	assert.Equal(t, []string{"os", "sys"}, recordNames(res.Refs))
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, []int{1}, res.Repaired)
}

func TestExtractUnrecoverableIsEmpty(t *testing.T) {
	for range 2 {
		res := extractText(t, "import os\n"+unrecoverable, Options{})
		assert.True(t, res.Unrecoverable)
		assert.NotNil(t, res.Refs)
		assert.Empty(t, res.Refs)
	}
}

func TestExtractDynamic(t *testing.T) {
	res := extractText(t, "import importlib\nm = importlib.import_module('yaml.loader')\nn = importlib.import_module(pick())\n", Options{})
	assert.Equal(t, []string{"importlib", "PyYAML", "types-PyYAML"}, recordNames(res.Refs))
}

func TestExtractQuick(t *testing.T) {
	res := extractText(t, "import os\ndef broken(:\nfrom yaml import load\n", Options{Quick: true})
	assert.Equal(t, []string{"os", "PyYAML", "types-PyYAML"}, recordNames(res.Refs))
	assert.Zero(t, res.Attempts)
	require.Len(t, res.Timing.Phases, 2)
	assert.Equal(t, "quickscan", res.Timing.Phases[0].Name)
}

func TestExtractCache(t *testing.T) {
	cache, err := OpenDiskCache("pyrefs", t.TempDir())
	require.NoError(t, err)
	opts := Options{Cache: cache}

	first := extractText(t, "import os\nx = (\nimport yaml\n", opts)
	assert.False(t, first.Cached)
	second := extractText(t, "import os\nx = (\nimport yaml\n", opts)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Refs, second.Refs)
	assert.Equal(t, first.Repaired, second.Repaired)
	assert.Equal(t, first.Attempts, second.Attempts)

	// другой режим и другой резолвер дают другой ключ
	assert.False(t, extractText(t, "import os\nx = (\nimport yaml\n", Options{Cache: cache, Quick: true}).Cached)
	other := Options{Cache: cache, Resolver: &resolve.Static{}}
	assert.False(t, extractText(t, "import os\nx = (\nimport yaml\n", other).Cached)

	bad := extractText(t, unrecoverable, opts)
	assert.False(t, bad.Cached)
	bad = extractText(t, unrecoverable, opts)
	assert.True(t, bad.Cached)
	assert.True(t, bad.Unrecoverable)
	assert.NotNil(t, bad.Refs)

	n, err := cache.DropAll()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.False(t, extractText(t, "import os\nx = (\nimport yaml\n", opts).Cached)
}

func TestExtractHook(t *testing.T) {
	var mu sync.Mutex
	var events []string
	hook := func(ev observ.Event) {
		mu.Lock()
		defer mu.Unlock()
		status := "start"
		if ev.Done {
			status = "end"
		}
		events = append(events, ev.Phase+":"+status)
	}
	extractText(t, "import os\n", Options{Hook: hook})
	assert.Equal(t, []string{"recover:start", "recover:end", "walk:start", "walk:end", "resolve:start", "resolve:end"}, events)
}

func TestExtractErrors(t *testing.T) {
	f := source.FromBytes("x.py", []byte("import os\n"), source.FileVirtual)
	_, err := Extract(context.Background(), f, Options{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Extract(ctx, f, Options{Resolver: staticResolver()})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = ExtractFile(context.Background(), "/definitely/missing.py", Options{Resolver: staticResolver()})
	assert.Error(t, err)
}

func TestTimingJSON(t *testing.T) {
	res := extractText(t, "import os\n", Options{})
	data, err := TimingJSON(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"extract"`)
	assert.Contains(t, string(data), `"path":"test.py"`)
	assert.Contains(t, string(data), `"name":"walk"`)
}
