package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"pyrefs/internal/source"
)

// Cursor представляет собой позицию в тексте вместе с (line, col).
type Cursor struct {
	Src  string
	Off  uint32
	Line int
	Col  int // в code points
	// Limit is the exclusive upper bound for Off.
	Limit uint32
}

// NewCursor creates a cursor over src[start:limit] that reports positions
// starting at origin.
func NewCursor(src string, start, limit uint32, origin source.Pos) Cursor {
	if _, err := safecast.Conv[uint32](len(src)); err != nil {
		panic(fmt.Errorf("len source overflow: %w", err))
	}
	return Cursor{Src: src, Off: start, Line: origin.Line, Col: origin.Col, Limit: limit}
}

// EOF проверяет, достигнут ли конец диапазона
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Src[c.Off]
}

// PeekAt читает байт со смещением n от текущего, иначе 0
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.Limit {
		return 0
	}
	return c.Src[c.Off+n]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Src[c.Off]
	c.Off++
	switch {
	case b == '\n':
		c.Line++
		c.Col = 0
	case b&0xC0 != 0x80:
		c.Col++
	}
	return b
}

// BumpN moves n bytes forward.
func (c *Cursor) BumpN(n int) {
	for i := 0; i < n; i++ {
		c.Bump()
	}
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Src[c.Off] == b {
		c.Bump()
		return true
	}
	return false
}

// Mark это метка, что бы быстро получать Span и позицию читаемого фрагмента
type Mark struct {
	Off  uint32
	Line int
	Col  int
}

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark{Off: c.Off, Line: c.Line, Col: c.Col}
}

// Pos returns the current position.
func (c *Cursor) Pos() source.Pos {
	return source.Pos{Line: c.Line, Col: c.Col}
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{Start: m.Off, End: c.Off}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off, c.Line, c.Col = m.Off, m.Line, m.Col
}

// HasPrefix reports whether the remaining input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	end := c.Off + uint32(len(s))
	return end <= c.Limit && c.Src[c.Off:end] == s
}
