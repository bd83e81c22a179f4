package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return root
}

func TestMatcher(t *testing.T) {
	m, err := NewMatcher(nil, DefaultExclude)
	require.NoError(t, err)
	tests := []struct {
		path string
		want bool
	}{
		{"a.py", true},
		{"pkg/b.py", true},
		{"pkg/stubs.pyi", true},
		{"notes.txt", false},
		{".venv/lib/site.py", false},
		{"pkg/__pycache__/b.py", false},
		{"deep/.git/hooks/x.py", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Match(tt.path), tt.path)
	}

	m, err = NewMatcher([]string{"src/**"}, []string{"**/test_*.py"})
	require.NoError(t, err)
	assert.True(t, m.Match("src/a/b.py"))
	assert.False(t, m.Match("lib/a.py"))
	assert.False(t, m.Match("src/test_a.py"))

	_, err = NewMatcher([]string{"[unclosed"}, nil)
	assert.Error(t, err)
}

func TestScanDir(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py":              "import os\n",
		"pkg/b.py":          "import yaml\nx = (\nfrom . import c\n",
		"pkg/broken.py":     unrecoverable,
		".venv/lib/skip.py": "import skipped\n",
		"notes.txt":         "import nothing\n",
		"pkg/sub/typed.pyi": "import json\n",
	})

	var mu sync.Mutex
	var seen []ProgressEvent
	results, err := ScanDir(context.Background(), root, Options{Resolver: staticResolver()}, ScanOptions{
		Exclude: DefaultExclude,
		Jobs:    2,
		Progress: func(ev ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, ev)
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.Path
		require.NoError(t, r.Err, r.Path)
	}
	assert.Equal(t, []string{"a.py", "pkg/b.py", "pkg/broken.py", "pkg/sub/typed.pyi"}, paths)

	assert.Equal(t, []string{"os"}, recordNames(results[0].Result.Refs))
	assert.Equal(t, []string{"PyYAML", "types-PyYAML", "."}, recordNames(results[1].Result.Refs))
	assert.True(t, results[2].Result.Unrecoverable)
	assert.Equal(t, "pkg/sub/typed.pyi", results[3].Result.Path)

	require.Len(t, seen, 4)
	done := make([]int, len(seen))
	for i, ev := range seen {
		done[i] = ev.Done
		assert.Equal(t, 4, ev.Total)
	}
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, done)
}

func TestScanDirEmptyAndCancelled(t *testing.T) {
	results, err := ScanDir(context.Background(), t.TempDir(), Options{Resolver: staticResolver()}, ScanOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)

	root := writeTree(t, map[string]string{"a.py": "import os\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ScanDir(ctx, root, Options{Resolver: staticResolver()}, ScanOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRelPaths(t *testing.T) {
	root := writeTree(t, map[string]string{"x.py": "", "y/z.py": "", ".venv/v.py": ""})
	paths, err := RelPaths(root, ScanOptions{Exclude: DefaultExclude})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.py", "y/z.py"}, paths)
}
