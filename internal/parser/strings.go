package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"pyrefs/internal/ast"
	"pyrefs/internal/diag"
	"pyrefs/internal/lexer"
	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

// parseStrings joins adjacent string literals. Any f-string in the run
// turns the result into a JoinedStr.
func (p *Parser) parseStrings() ast.Expr {
	start := p.tok.Pos
	var (
		values   []ast.Expr
		sb       strings.Builder // текущий кусок литерального текста
		litStart source.Pos
		hasF     bool
		bytesLit int // 0 = ещё неизвестно, 1 = bytes, 2 = str
	)
	flush := func() {
		if sb.Len() == 0 {
			return
		}
		values = append(values, &ast.Constant{Loc: p.loc(litStart), Kind: ast.ConstStr, Str: sb.String()})
		sb.Reset()
	}
	for p.atOr(token.String, token.FString) {
		t := p.tok
		prefix, body, bodyOff := splitLiteral(t.Text)
		isBytes := strings.ContainsAny(prefix, "bB")
		kind := 2
		if isBytes {
			kind = 1
		}
		if bytesLit != 0 && bytesLit != kind {
			p.errorAt(t.Pos, diag.SynInvalidSyntax, "cannot mix bytes and nonbytes literals")
		}
		bytesLit = kind
		raw := strings.ContainsAny(prefix, "rR")
		if t.Kind == token.FString {
			hasF = true
			parts, err := lexer.SplitFString(p.buf, t)
			if err != nil {
				var fe *lexer.FStringError
				if errors.As(err, &fe) {
					p.errorAt(fe.Pos, diag.SynBadFString, fe.Msg)
				}
				p.errorAt(t.Pos, diag.SynBadFString, err.Error())
			}
			p.advance()
			for _, part := range parts {
				if !part.Field {
					if sb.Len() == 0 {
						litStart = p.buf.PosAt(part.Span.Start)
					}
					sb.WriteString(p.fstringLiteral(part.Span, raw, t.Pos))
					continue
				}
				if part.Debug {
					if sb.Len() == 0 {
						litStart = p.buf.PosAt(part.Span.Start)
					}
					sb.WriteString(p.debugText(part))
				}
				flush()
				values = append(values, p.formattedValue(part, raw, t.Pos))
			}
			continue
		}
		p.advance()
		s, err := decodeLiteral(body, raw, isBytes)
		if err != nil {
			p.errorAt(t.Pos, diag.SynInvalidSyntax, err.Error())
		}
		if sb.Len() == 0 {
			litStart = p.buf.PosAt(t.Span.Start + uint32(bodyOff))
		}
		sb.WriteString(s)
	}
	if !hasF {
		c := &ast.Constant{Loc: p.loc(start), Kind: ast.ConstStr, Str: sb.String()}
		if bytesLit == 1 {
			c.Kind = ast.ConstBytes
		}
		return c
	}
	flush()
	return &ast.JoinedStr{Loc: p.loc(start), Values: values}
}

// splitLiteral returns the prefix and body of a string token and the byte
// offset of the body.
func splitLiteral(text string) (prefix, body string, off int) {
	plen := strings.IndexAny(text, `'"`)
	if plen < 0 {
		return text, "", len(text)
	}
	q := 1
	if len(text)-plen >= 6 && (strings.HasPrefix(text[plen:], `"""`) || strings.HasPrefix(text[plen:], `'''`)) {
		q = 3
	}
	end := len(text) - q
	if end < plen+q {
		end = plen + q
	}
	return text[:plen], text[plen+q : end], plen + q
}

func (p *Parser) fstringLiteral(span source.Span, raw bool, at source.Pos) string {
	text := p.buf.Text()[span.Start:span.End]
	text = strings.ReplaceAll(strings.ReplaceAll(text, "{{", "{"), "}}", "}")
	s, err := decodeLiteral(text, raw, false)
	if err != nil {
		p.errorAt(at, diag.SynInvalidSyntax, err.Error())
	}
	return s
}

// debugText is the "expr=" prefix a self-documenting field prints, blanks
// around '=' kept.
func (p *Parser) debugText(part lexer.FPart) string {
	src := p.buf.Text()
	end := part.Expr.End + 1
	for end < part.Span.End && (src[end] == ' ' || src[end] == '\t' || src[end] == '\n') {
		end++
	}
	return src[part.Expr.Start:end]
}

func (p *Parser) formattedValue(part lexer.FPart, raw bool, at source.Pos) ast.Expr {
	fv := &ast.FormattedValue{Loc: p.spanLoc(part.Span), Value: p.subExpr(part.Expr), Conversion: part.Conv}
	if part.Debug && part.Conv == 0 && !part.HasSpec {
		fv.Conversion = 'r'
	}
	if !part.HasSpec {
		return fv
	}
	spec := &ast.JoinedStr{Loc: fv.Loc}
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			spec.Values = append(spec.Values, &ast.Constant{Loc: fv.Loc, Kind: ast.ConstStr, Str: sb.String()})
			sb.Reset()
		}
	}
	for _, sp := range part.Spec {
		if !sp.Field {
			sb.WriteString(p.fstringLiteral(sp.Span, raw, at))
			continue
		}
		flush()
		spec.Values = append(spec.Values, p.formattedValue(sp, raw, at))
	}
	flush()
	fv.FormatSpec = spec
	return fv
}

// spanLoc locates a replacement field: span plus its braces.
func (p *Parser) spanLoc(span source.Span) ast.Loc {
	start := p.buf.PosAt(span.Start - 1)
	end := p.buf.PosAt(span.End + 1)
	return ast.Loc{
		Pos:    start,
		End:    end,
		HasEnd: !p.opts.NoEndPositions && !p.touches(start.Line, end.Line),
	}
}

// subExpr parses the expression of an f-string replacement field in place,
// so its nodes carry real file positions.
func (p *Parser) subExpr(span source.Span) ast.Expr {
	toks := lexer.Tokenize(p.buf, lexer.Options{Expr: true, Start: span.Start, Limit: span.End})
	sub := newParser(p.buf, p.opts, toks)
	sub.depth = p.depth
	var e ast.Expr
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(bailout); !ok {
					panic(r)
				}
				p.err = sub.err
				panic(bailout{})
			}
		}()
		if sub.at(token.KwYield) {
			e = sub.parseYield()
		} else {
			e = sub.parseStarExpressions()
		}
		if !sub.at(token.EOF) {
			sub.syntaxError()
		}
	}()
	return e
}

// decodeLiteral resolves backslash escapes. Bytes come back as a string
// holding the raw byte values.
func decodeLiteral(body string, raw, isBytes bool) (string, error) {
	if isBytes {
		for i := 0; i < len(body); i++ {
			if body[i] >= utf8.RuneSelf {
				return "", fmt.Errorf("bytes can only contain ASCII literal characters")
			}
		}
	}
	if raw || !strings.Contains(body, `\`) {
		return body, nil
	}
	var sb strings.Builder
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			sb.WriteByte(c)
			i++
			continue
		}
		esc := body[i+1]
		i += 2
		switch esc {
		case '\n':
		case '\\', '\'', '"':
			sb.WriteByte(esc)
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i - 1
			for i < len(body) && i-j < 3 && body[i] >= '0' && body[i] <= '7' {
				i++
			}
			v, _ := strconv.ParseUint(body[j:i], 8, 32)
			if isBytes {
				sb.WriteByte(byte(v))
			} else {
				sb.WriteRune(rune(v))
			}
		case 'x', 'u', 'U':
			n := map[byte]int{'x': 2, 'u': 4, 'U': 8}[esc]
			if isBytes && esc != 'x' {
				sb.WriteByte('\\')
				sb.WriteByte(esc)
				continue
			}
			if i+n > len(body) {
				return "", truncatedEscape(esc)
			}
			v, err := strconv.ParseUint(body[i:i+n], 16, 32)
			if err != nil {
				return "", truncatedEscape(esc)
			}
			i += n
			switch {
			case isBytes:
				sb.WriteByte(byte(v))
			case v > utf8.MaxRune:
				return "", fmt.Errorf("(unicode error) 'unicodeescape' codec can't decode bytes: illegal Unicode character")
			default:
				sb.WriteRune(rune(v))
			}
		default:
			// \N{...} и неизвестные escape остаются как есть
			sb.WriteByte('\\')
			sb.WriteByte(esc)
		}
	}
	return sb.String(), nil
}

func truncatedEscape(esc byte) error {
	width := map[byte]string{'x': "XX", 'u': "XXXX", 'U': "XXXXXXXX"}[esc]
	return fmt.Errorf("(unicode error) 'unicodeescape' codec can't decode bytes: truncated \\%c%s escape", esc, width)
}
