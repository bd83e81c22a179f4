package lexer

import (
	"strings"

	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

// FPart is one piece of an f-string body: literal text or a replacement
// field. Literal spans cover raw source text, escapes and doubled braces
// included.
type FPart struct {
	Field bool
	Span  source.Span // literal text, or the field without its braces

	Expr    source.Span // field expression
	Debug   bool        // self-documenting "{x=}"
	Conv    byte        // 0, 's', 'r' or 'a'
	HasSpec bool
	Spec    []FPart
}

// FStringError describes a malformed f-string body.
type FStringError struct {
	Pos source.Pos
	Msg string
}

func (e *FStringError) Error() string { return e.Msg }

// SplitFString splits the body of an FString token into parts.
func SplitFString(buf *source.Buffer, tok token.Token) ([]FPart, error) {
	text := tok.Text
	plen := strings.IndexAny(text, `'"`)
	if plen < 0 {
		return nil, &FStringError{Pos: tok.Pos, Msg: "f-string: missing quote"}
	}
	qlen := 1
	if strings.HasPrefix(text[plen:], `"""`) || strings.HasPrefix(text[plen:], `'''`) {
		qlen = 3
	}
	start := tok.Span.Start + uint32(plen+qlen)
	end := tok.Span.End - uint32(qlen)
	if end < start {
		end = start
	}
	fs := &Lexer{buf: buf, cursor: NewCursor(buf.Text(), start, end, buf.PosAt(start))}
	return fs.splitParts(false)
}

func (lx *Lexer) fstringErr(msg string) error {
	return &FStringError{Pos: lx.cursor.Pos(), Msg: msg}
}

// splitParts reads literal text and fields. Inside a format spec it stops
// at the '}' that closes the enclosing field, leaving it unread.
func (lx *Lexer) splitParts(inSpec bool) ([]FPart, error) {
	c := &lx.cursor
	var parts []FPart
	litStart := c.Off
	flush := func() {
		if c.Off > litStart {
			parts = append(parts, FPart{Span: source.Span{Start: litStart, End: c.Off}})
		}
	}
	for !c.EOF() {
		switch b := c.Peek(); {
		case b == '\\':
			c.Bump()
			if nb := c.Peek(); nb != '{' && nb != '}' {
				c.Bump()
			}
		case b == '{':
			if !inSpec && c.PeekAt(1) == '{' {
				c.BumpN(2)
				continue
			}
			flush()
			c.Bump()
			field, err := lx.splitField()
			if err != nil {
				return nil, err
			}
			parts = append(parts, field)
			litStart = c.Off
		case b == '}':
			if inSpec {
				flush()
				return parts, nil
			}
			if c.PeekAt(1) == '}' {
				c.BumpN(2)
				continue
			}
			return nil, lx.fstringErr("f-string: single '}' is not allowed")
		default:
			c.Bump()
		}
	}
	if inSpec {
		return nil, lx.fstringErr("f-string: expecting '}'")
	}
	flush()
	return parts, nil
}

// splitField reads a replacement field after its '{', through its '}'.
func (lx *Lexer) splitField() (FPart, error) {
	c := &lx.cursor
	field := FPart{Field: true}
	fieldStart := c.Off
	exprEnd := uint32(0)
	depth := 0
scan:
	for {
		if c.EOF() {
			return field, lx.fstringErr("f-string: expecting '}'")
		}
		b := c.Peek()
		switch {
		case b == '\'' || b == '"':
			if !lx.skipNested("") {
				return field, lx.fstringErr("f-string: unterminated string")
			}
		case isIdentStartByte(b):
			start := c.Off
			for !c.EOF() && (isIdentStartByte(c.Peek()) || isDigit(c.Peek())) {
				c.Bump()
			}
			if nq := c.Peek(); nq == '\'' || nq == '"' {
				if ok, _ := stringPrefix(c.Src[start:c.Off]); ok && !lx.skipNested(c.Src[start:c.Off]) {
					return field, lx.fstringErr("f-string: unterminated string")
				}
			}
		case b == '(' || b == '[' || b == '{':
			depth++
			c.Bump()
		case (b == ')' || b == ']' || b == '}') && depth > 0:
			depth--
			c.Bump()
		case b == '}' || (b == ':' && depth == 0):
			break scan
		case b == '!' && c.PeekAt(1) != '=' && depth == 0:
			break scan
		case b == '=' && depth == 0 && c.PeekAt(1) != '=' && !strings.ContainsRune("=!<>", rune(c.Src[c.Off-1])) && lx.debugEquals():
			exprEnd = c.Off
			field.Debug = true
			c.Bump()
			break scan
		case b == '#':
			return field, lx.fstringErr("f-string expression part cannot include '#'")
		default:
			c.Bump()
		}
	}
	if exprEnd == 0 {
		exprEnd = c.Off
	}
	field.Expr = source.Span{Start: fieldStart, End: exprEnd}
	if strings.TrimSpace(c.Src[fieldStart:exprEnd]) == "" {
		return field, lx.fstringErr("f-string: valid expression required before '}'")
	}
	lx.skipBlanks()
	if c.Eat('!') {
		conv := c.Peek()
		if conv != 's' && conv != 'r' && conv != 'a' {
			return field, lx.fstringErr("f-string: invalid conversion character: expected 's', 'r', or 'a'")
		}
		c.Bump()
		field.Conv = conv
	}
	if c.Eat(':') {
		spec, err := lx.splitParts(true)
		if err != nil {
			return field, err
		}
		field.HasSpec = true
		field.Spec = spec
	}
	if !c.Eat('}') {
		return field, lx.fstringErr("f-string: expecting '}'")
	}
	field.Span = source.Span{Start: fieldStart, End: c.Off - 1}
	return field, nil
}

// debugEquals reports whether the '=' at the cursor is the self-documenting
// marker, i.e. only blanks stand between it and '}', '!' or ':'.
func (lx *Lexer) debugEquals() bool {
	c := &lx.cursor
	for i := c.Off + 1; i < c.Limit; i++ {
		switch c.Src[i] {
		case ' ', '\t', '\n':
			continue
		case '}', '!', ':':
			return true
		default:
			return false
		}
	}
	return false
}
