package recovery

import (
	"strings"

	"pyrefs/internal/diag"
	"pyrefs/internal/lexer"
	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

// syntheticLine builds the statement that replaces line: "pass" indented
// to fit the block the line sits in.
func syntheticLine(buf *source.Buffer, line int) string {
	toks := lexer.Tokenize(buf, lexer.Options{})
	var indents []string
	pop := func() {
		// лишний DEDENT просто игнорируем
		if len(indents) > 0 {
			indents = indents[:len(indents)-1]
		}
	}
	lastColon := false
	stop := -1
	for i, t := range toks {
		if t.Pos.Line == line || (t.IsNewline() && t.Pos.Line == line-1) {
			stop = i
			break
		}
		switch t.Kind {
		case token.Colon:
			lastColon = true
		case token.Indent, token.Dedent, token.Newline, token.NL, token.Comment:
		default:
			lastColon = false
		}
		switch t.Kind {
		case token.Indent:
			indents = append(indents, t.Text)
		case token.Dedent:
			pop()
		}
	}
	// остановились на переводе строки перед строкой с ошибкой: смотрим,
	// что идёт дальше
	if stop >= 0 && toks[stop].Pos.Line != line && stop+1 < len(toks) {
		next := toks[stop+1]
		switch {
		case isUnindentError(next):
			pop()
		case next.Kind == token.Indent:
			if lastColon {
				indents = append(indents, next.Text)
			}
		case lastColon:
			if len(indents) > 0 {
				indents = append(indents, indents[len(indents)-1])
			} else {
				indents = append(indents, defaultIndent(buf))
			}
		}
	}
	return strings.Join(indents, "") + "pass"
}

func isUnindentError(t token.Token) bool {
	return t.Kind == token.Invalid && t.Diag != nil && t.Diag.Code == diag.LexUnindentMismatch
}

// defaultIndent is a tab when any line starts with one, four spaces otherwise.
func defaultIndent(buf *source.Buffer) string {
	if buf.UsesTabs() {
		return "\t"
	}
	return "    "
}
