package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `

[mappings]
yaml = ["PyYAML"]

[cache]
enabled = false
`

type record struct {
	Name      string `json:"name"`
	IsBuiltin bool   `json:"is_builtin"`
	Range     struct {
		Start struct{ Line, Character int }
		End   struct{ Line, Character int }
	} `json:"range"`
}

// run executes the CLI with a fresh command tree and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "pyrefs.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(testConfig), 0o644))

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfg, "--color", "off"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func decodeRecords(t *testing.T, s string) []record {
	t.Helper()
	var recs []record
	require.NoError(t, json.Unmarshal([]byte(s), &recs), s)
	return recs
}

func TestScanStdin(t *testing.T) {
	out, _, err := run(t, "import os\nimport yaml, requests\n", "scan", "--offline")
	require.NoError(t, err)
	recs := decodeRecords(t, out)
	require.Len(t, recs, 3)

	assert.Equal(t, "os", recs[0].Name)
	assert.True(t, recs[0].IsBuiltin)
	assert.Equal(t, 0, recs[0].Range.Start.Line)
	assert.Equal(t, 9, recs[0].Range.End.Character)

	assert.Equal(t, "PyYAML", recs[1].Name)
	assert.False(t, recs[1].IsBuiltin)
	assert.Equal(t, "requests", recs[2].Name)
	assert.Equal(t, recs[1].Range, recs[2].Range)
}

func TestScanUnrecoverableIsEmpty(t *testing.T) {
	out, _, err := run(t, "x = (1,\n  2 3,\n)\n", "scan", "--offline")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestScanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("from . import x\n"), 0o644))

	out, _, err := run(t, "", "scan", "--offline", "--format", "yaml", path)
	require.NoError(t, err)
	assert.Contains(t, out, "name: .")
	assert.Contains(t, out, "is_builtin: false")

	out, _, err = run(t, "", "scan", "--offline", "--format", "pretty", path)
	require.NoError(t, err)
	assert.Contains(t, out, "mod.py:1:1-1:16 .")
}

func TestScanQuick(t *testing.T) {
	out, _, err := run(t, "import json\n", "scan", "--offline", "--quick")
	require.NoError(t, err)
	recs := decodeRecords(t, out)
	require.Len(t, recs, 1)
	assert.Equal(t, "json", recs[0].Name)
	assert.True(t, recs[0].IsBuiltin)
}

func TestScanTimings(t *testing.T) {
	_, errOut, err := run(t, "import os\n", "--timings", "scan", "--offline", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, errOut, "timings:")
	assert.Contains(t, errOut, "walk")
}

func TestScanBadFlags(t *testing.T) {
	_, _, err := run(t, "", "scan", "--format", "xml")
	require.Error(t, err)
	_, _, err = run(t, "", "--log-level", "loud", "scan")
	require.Error(t, err)
	_, _, err = run(t, "", "--trace-level", "everything", "scan")
	require.Error(t, err)
}

func TestScanTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	_, _, err := run(t, "import os\n", "scan", "--offline", "--trace", path, "--trace-level", "debug")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var ev struct{ Name, Kind string }
		require.NoError(t, json.Unmarshal([]byte(line), &ev), line)
		if ev.Kind == "end" {
			names = append(names, ev.Name)
		}
	}
	assert.Contains(t, names, "extract")
	assert.Contains(t, names, "parse-attempt")
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("a.py", "import os\n")
	write("pkg/b.py", "import yaml\n")
	write(".venv/lib/c.py", "import skipped\n")
	write("notes.txt", "import nothing\n")

	out, _, err := run(t, "", "dir", "--offline", "--jobs", "2", root)
	require.NoError(t, err)

	var files []struct {
		Path string   `json:"path"`
		Refs []record `json:"refs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &files), out)
	require.Len(t, files, 2)
	assert.Equal(t, "a.py", files[0].Path)
	assert.Equal(t, "os", files[0].Refs[0].Name)
	assert.Equal(t, "pkg/b.py", files[1].Path)
	assert.Equal(t, "PyYAML", files[1].Refs[0].Name)

	out, _, err = run(t, "", "dir", "--offline", "--exclude", "pkg/**", "--format", "pretty", root)
	require.NoError(t, err)
	assert.Contains(t, out, "a.py:1:1-1:10 os")
	assert.NotContains(t, out, "b.py")
}

func TestDirRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.py")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, _, err := run(t, "", "dir", path)
	require.Error(t, err)
}

func TestTokenize(t *testing.T) {
	out, _, err := run(t, "import os\n", "tokenize", "--format", "json")
	require.NoError(t, err)
	var toks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &toks), out)
	require.NotEmpty(t, toks)
	assert.Equal(t, "os", toks[1]["text"])
}

func TestParse(t *testing.T) {
	out, _, err := run(t, "import os\nx = = 1\n", "parse")
	require.NoError(t, err)
	assert.Contains(t, out, "attempts: 2")
	assert.Contains(t, out, "repair line 2")
	assert.Contains(t, out, "Import 0:0-0:9")

	out, _, err = run(t, "x = (1,\n  2 3,\n)\n", "parse")
	require.NoError(t, err)
	assert.Contains(t, out, "unrecoverable")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version", "--format", "json", "--full")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "pyrefs", payload.Tool)
	assert.NotEmpty(t, payload.Version)
	assert.Equal(t, "unknown", payload.BuildDate)

	out, _, err = run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pyrefs "), out)
}

func TestCacheCommands(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	out, _, err := run(t, "", "cache", "dir")
	require.NoError(t, err)
	dir := strings.TrimSpace(out)
	assert.Equal(t, "pyrefs", filepath.Base(dir))

	out, _, err = run(t, "", "cache", "clean")
	require.NoError(t, err)
	assert.Contains(t, out, dir)
}

func TestReadColorMode(t *testing.T) {
	tests := []struct {
		in   string
		want colorMode
		ok   bool
	}{
		{"", colorAuto, true},
		{"ON", colorOn, true},
		{"never", colorOff, true},
		{"sometimes", "", false},
	}
	for _, tt := range tests {
		got, err := readColorMode(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.False(t, wantColor(colorAuto, &bytes.Buffer{}))
	assert.True(t, wantColor(colorOn, &bytes.Buffer{}))
}

func TestAffects(t *testing.T) {
	path := filepath.Join(string(filepath.Separator), "src", "a.py")
	assert.True(t, affects(fsnotify.Event{Name: path, Op: fsnotify.Write}, path))
	assert.True(t, affects(fsnotify.Event{Name: path, Op: fsnotify.Create}, path))
	assert.False(t, affects(fsnotify.Event{Name: path, Op: fsnotify.Chmod}, path))
	assert.False(t, affects(fsnotify.Event{Name: path + "x", Op: fsnotify.Write}, path))
}

func TestWatchLoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("import os\n"), 0o644))

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, w, path, func() error {
			changed <- struct{}{}
			return nil
		})
	}()

	require.NoError(t, os.WriteFile(path, []byte("import sys\n"), 0o644))
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
