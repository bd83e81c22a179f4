package source

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Buffer is an immutable source text together with its line index.
// Lines never include the terminating '\n'; a trailing newline yields a
// final empty line.
type Buffer struct {
	text   string
	lines  []string
	starts []uint32 // byte offset of each line start
}

// NewBuffer splits text into lines and builds the line index.
func NewBuffer(text string) *Buffer {
	if _, err := safecast.Conv[uint32](len(text)); err != nil {
		panic(fmt.Errorf("source text too large: %w", err))
	}
	lines := strings.Split(text, "\n")
	starts := make([]uint32, len(lines))
	var off uint32
	for i, line := range lines {
		starts[i] = off
		off += uint32(len(line)) + 1
	}
	return &Buffer{text: text, lines: lines, starts: starts}
}

// FromLines joins lines with '\n' into a new Buffer.
func FromLines(lines []string) *Buffer {
	return NewBuffer(strings.Join(lines, "\n"))
}

// Text returns the whole source text.
func (b *Buffer) Text() string { return b.text }

// LineCount returns the number of lines (at least one).
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns line n (0-based) or "" when out of range.
func (b *Buffer) Line(n int) string {
	if n < 0 || n >= len(b.lines) {
		return ""
	}
	return b.lines[n]
}

// Lines returns a copy of the line slice.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// LineLen returns the length of line n in code points.
func (b *Buffer) LineLen(n int) int {
	return utf8.RuneCountInString(b.Line(n))
}

// UsesTabs reports whether any line starts with a tab.
func (b *Buffer) UsesTabs() bool {
	for _, line := range b.lines {
		if strings.HasPrefix(line, "\t") {
			return true
		}
	}
	return false
}

// Offset converts a position into a byte offset. Columns past the end of a
// line clamp to the line end; lines past the end clamp to len(text).
func (b *Buffer) Offset(p Pos) uint32 {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(b.lines) {
		return uint32(len(b.text))
	}
	line := b.lines[p.Line]
	off := b.starts[p.Line]
	col := 0
	for i := range line {
		if col == p.Col {
			return off + uint32(i)
		}
		col++
	}
	return off + uint32(len(line))
}

// PosAt converts a byte offset into a position.
func (b *Buffer) PosAt(off uint32) Pos {
	if int(off) > len(b.text) {
		off = uint32(len(b.text))
	}
	lo, hi := 0, len(b.starts)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if b.starts[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi
	if line < 0 {
		line = 0
	}
	start := b.starts[line]
	end := min(int(off), int(start)+len(b.lines[line]))
	col := utf8.RuneCountInString(b.text[start:end])
	return Pos{Line: line, Col: col}
}

// RuneAt returns the character at p and whether p is inside a line.
func (b *Buffer) RuneAt(p Pos) (rune, bool) {
	if p.Line < 0 || p.Line >= len(b.lines) || p.Col < 0 {
		return 0, false
	}
	col := 0
	for _, r := range b.lines[p.Line] {
		if col == p.Col {
			return r, true
		}
		col++
	}
	return 0, false
}

// LastPos returns the position of the last character of the buffer, which
// may lie outside its line when the buffer ends with an empty line.
func (b *Buffer) LastPos() Pos {
	last := len(b.lines) - 1
	return Pos{Line: last, Col: b.LineLen(last) - 1}
}

// SnapBack walks backward from bound, skipping whitespace and crossing to
// the end of the previous line whenever the column leaves the current line,
// and returns the position just past the first non-whitespace character
// found. Walking past the start of the buffer yields (0, 0).
func (b *Buffer) SnapBack(bound Pos) Pos {
	line, col := bound.Line, bound.Col
	if line >= len(b.lines) {
		line = len(b.lines) - 1
		col = b.LineLen(line) - 1
	}
	var runes []rune
	if line >= 0 {
		runes = []rune(b.lines[line])
	}
	for {
		for col < 0 || col >= len(runes) {
			line--
			if line < 0 {
				return Pos{}
			}
			runes = []rune(b.lines[line])
			col = len(runes) - 1
		}
		if !IsSpace(runes[col]) {
			break
		}
		col--
	}
	return Pos{Line: line, Col: col + 1}
}

// ReplaceLine returns a new Buffer with line n replaced by text.
func (b *Buffer) ReplaceLine(n int, text string) *Buffer {
	lines := b.Lines()
	if n < 0 || n >= len(lines) {
		return b
	}
	lines[n] = text
	return FromLines(lines)
}

// Slice returns the text between two positions.
func (b *Buffer) Slice(r Range) string {
	start, end := b.Offset(r.Start), b.Offset(r.End)
	if end < start {
		return ""
	}
	return b.text[start:end]
}
