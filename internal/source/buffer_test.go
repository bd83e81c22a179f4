package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferLines(t *testing.T) {
	b := NewBuffer("import os\n\nx = 1\n")
	require.Equal(t, 4, b.LineCount())
	assert.Equal(t, "import os", b.Line(0))
	assert.Equal(t, "", b.Line(1))
	assert.Equal(t, "", b.Line(3))
	assert.Equal(t, "", b.Line(99))
	assert.Equal(t, Pos{Line: 3, Col: -1}, b.LastPos())
}

func TestOffsetRoundTrip(t *testing.T) {
	b := NewBuffer("αβ = 1\nimport γ\n")
	for _, p := range []Pos{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 7}, {2, 0}} {
		off := b.Offset(p)
		assert.Equal(t, p, b.PosAt(off), "pos %v off %d", p, off)
	}
	// α and β are two bytes each
	assert.Equal(t, uint32(4), b.Offset(Pos{0, 2}))
}

func TestRuneAt(t *testing.T) {
	b := NewBuffer("ab\ncé")
	r, ok := b.RuneAt(Pos{1, 1})
	require.True(t, ok)
	assert.Equal(t, 'é', r)
	_, ok = b.RuneAt(Pos{1, 2})
	assert.False(t, ok)
}

func TestSnapBack(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		bound Pos
		want  Pos
	}{
		{"same line", "import os   x", Pos{0, 11}, Pos{0, 9}},
		{"previous line", "import os\n  \nx", Pos{2, -1}, Pos{0, 9}},
		{"column past line", "import os\ny", Pos{1, 5}, Pos{0, 9}},
		{"trailing newline at eof", "import os\n", Pos{1, -1}, Pos{0, 9}},
		{"only whitespace", "   \n\t\n", Pos{2, -1}, Pos{0, 0}},
		{"on non-space", "abc", Pos{0, 1}, Pos{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.text)
			assert.Equal(t, tt.want, b.SnapBack(tt.bound))
		})
	}
}

func TestReplaceLineCreatesNewBuffer(t *testing.T) {
	b := NewBuffer("a\nb(\nc")
	nb := b.ReplaceLine(1, "pass")
	assert.Equal(t, "a\nb(\nc", b.Text())
	assert.Equal(t, "a\npass\nc", nb.Text())
	assert.Same(t, b, b.ReplaceLine(7, "x"))
}

func TestUsesTabs(t *testing.T) {
	assert.False(t, NewBuffer("if x:\n    y").UsesTabs())
	assert.True(t, NewBuffer("if x:\n\ty").UsesTabs())
}

func TestFromBytesNormalizes(t *testing.T) {
	f := FromBytes("a.py", []byte{0xEF, 0xBB, 0xBF, 'x', '\r', '\n', 'y'}, FileVirtual)
	assert.Equal(t, "x\ny", f.Buffer.Text())
	assert.NotZero(t, f.Flags&FileHadBOM)
	assert.NotZero(t, f.Flags&FileNormalizedCRLF)
	assert.NotZero(t, f.Flags&FileVirtual)
}

func TestRead(t *testing.T) {
	f, err := Read("<stdin>", strings.NewReader("import os"))
	require.NoError(t, err)
	assert.Equal(t, "<stdin>", f.Path)
	assert.Equal(t, 1, f.Buffer.LineCount())
}

func TestIsSpace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\f', '\v', '\r', 0x1c, 0xa0} {
		assert.True(t, IsSpace(r), "%U", r)
	}
	assert.False(t, IsSpace('x'))
}

func TestCodingDeclaration(t *testing.T) {
	src := []byte("# -*- coding: latin-1 -*-\r\ns = 'caf\xe9'\r\n")
	f := FromBytes("l1.py", src, 0)
	assert.Equal(t, "# -*- coding: latin-1 -*-\ns = 'café'\n", f.Buffer.Text())
	assert.Equal(t, "latin-1", f.Encoding)
	assert.NotZero(t, f.Flags&FileTranscoded)
	assert.NotZero(t, f.Flags&FileNormalizedCRLF)

	utf := FromBytes("u.py", []byte("# coding: utf-8\nx = 'é'\n"), 0)
	assert.Zero(t, utf.Flags&FileTranscoded)
	assert.Empty(t, utf.Encoding)
}

func TestDeclaredCoding(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"#!/usr/bin/env python\n# vim: set fileencoding=CP1252 :\n", "cp1252"},
		{"# coding=iso-8859-15\n", "iso-8859-15"},
		{"import os\n# coding: latin-1\n", ""},
		{"\n\n# coding: latin-1\n", ""},
		{"x = 'coding: latin-1'\n", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, declaredCoding([]byte(tt.src)), tt.src)
	}
}

func TestBOMWinsOverDeclaration(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, "# coding: latin-1\nx = 'é'\n"...)
	f := FromBytes("b.py", src, 0)
	assert.Zero(t, f.Flags&FileTranscoded)
	assert.Contains(t, f.Buffer.Text(), "'é'")
}

func TestUnknownCodingKeepsBytes(t *testing.T) {
	f := FromBytes("k.py", []byte("# coding: klingon\nx = 1\n"), 0)
	assert.Zero(t, f.Flags&FileTranscoded)
	assert.Equal(t, "# coding: klingon\nx = 1\n", f.Buffer.Text())
}
