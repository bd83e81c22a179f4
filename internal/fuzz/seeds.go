package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

// pythonSeeds cover the import forms and the syntax errors the repair loop
// has to step over.
var pythonSeeds = []string{
	"",
	"import os\n",
	"import os.path as p, sys\n",
	"from . import x\n",
	"from ..pkg.mod import (a,\n  b as c)\n",
	"from __future__ import annotations\n",
	"__import__('json')\n",
	"importlib.import_module(name='yaml')\n",
	"import_module('a' + '.b')\n",
	"__import__(f'{\"x\"}y')\n",
	"def f():\n    import requests\n    return requests\n",
	"@decorator\ndef f():\n    import a\n",
	"class C:\n    from typing import List\n",
	"import a\nx = (\nimport b\n",
	"x = (1,\n  2 3,\n)\n",
	"if True:\n  import a\n    import b\n",
	"import a; import b\n",
	"s = '''\nimport fake\n'''\nimport real\n",
	"\tif x:\n\timport a\n",
	"import a, b, c   \n",
	"match x:\n    case 1:\n        import y\n",
	"lambda: __import__('z')\n",
	"async def f():\n    await g()\n    import h\n",
	"x = [i for i in range(3)]\nimport k\n",
	"print(f'{a!r:>{width}}')\nimport m\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range pythonSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.py файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".py" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
