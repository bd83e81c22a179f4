package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyrefs/internal/diag"
	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

func lex(t *testing.T, text string) ([]token.Token, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	toks := Tokenize(source.NewBuffer(text), Options{Reporter: bag})
	require.NotEmpty(t, toks)
	require.Equal(t, token.EOF, toks[len(toks)-1].Kind)
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestSimpleImport(t *testing.T) {
	toks, bag := lex(t, "import os.path as p\n")
	assert.False(t, bag.HasErrors())
	assert.Equal(t, []token.Kind{
		token.KwImport, token.Name, token.Dot, token.Name, token.KwAs, token.Name, token.Newline, token.EOF,
	}, kinds(toks))
	assert.Equal(t, source.Pos{Line: 0, Col: 7}, toks[1].Pos)
	assert.Equal(t, source.Pos{Line: 0, Col: 9}, toks[1].End)
	assert.Equal(t, "path", toks[3].Text)
}

func TestNewlineAtEOFWithoutTrailingNewline(t *testing.T) {
	toks, _ := lex(t, "x = 1")
	assert.Equal(t, []token.Kind{token.Name, token.Assign, token.Number, token.Newline, token.EOF}, kinds(toks))
	assert.Equal(t, "", toks[3].Text)
}

func TestBlankAndCommentLinesAreNL(t *testing.T) {
	toks, _ := lex(t, "\n# hi\nx\n")
	assert.Equal(t, []token.Kind{
		token.NL, token.Comment, token.NL, token.Name, token.Newline, token.EOF,
	}, kinds(toks))
}

func TestIndentDeltaText(t *testing.T) {
	src := "if a:\n  if b:\n      pass\nx\n"
	toks, bag := lex(t, src)
	assert.False(t, bag.HasErrors())
	var indents []string
	dedents := 0
	for _, tok := range toks {
		switch tok.Kind {
		case token.Indent:
			indents = append(indents, tok.Text)
		case token.Dedent:
			dedents++
		}
	}
	assert.Equal(t, []string{"  ", "    "}, indents)
	assert.Equal(t, 2, dedents)
	assert.Equal(t, "      ", strings.Join(indents, ""))
}

func TestDedentsAtEOF(t *testing.T) {
	toks, _ := lex(t, "def f():\n\treturn 1")
	ks := kinds(toks)
	assert.Equal(t, []token.Kind{token.Newline, token.Dedent, token.EOF}, ks[len(ks)-3:])
}

func TestUnindentMismatch(t *testing.T) {
	toks, bag := lex(t, "if a:\n    b\n  c\n")
	require.True(t, bag.HasErrors())
	first, _ := bag.First()
	assert.Equal(t, diag.LexUnindentMismatch, first.Code)
	assert.Equal(t, 2, first.Pos.Line)
	var bad *token.Token
	for i := range toks {
		if toks[i].Kind == token.Invalid {
			bad = &toks[i]
			break
		}
	}
	require.NotNil(t, bad)
	require.NotNil(t, bad.Diag)
	assert.Equal(t, diag.LexUnindentMismatch, bad.Diag.Code)
}

func TestBracketsSuppressNewline(t *testing.T) {
	toks, _ := lex(t, "f(a,\n  b)\n")
	assert.Equal(t, []token.Kind{
		token.Name, token.LParen, token.Name, token.Comma, token.NL,
		token.Name, token.RParen, token.Newline, token.EOF,
	}, kinds(toks))
}

func TestBackslashContinuation(t *testing.T) {
	toks, _ := lex(t, "x = 1 + \\\n    2\n")
	assert.Equal(t, []token.Kind{
		token.Name, token.Assign, token.Number, token.Plus, token.Number, token.Newline, token.EOF,
	}, kinds(toks))
	assert.Equal(t, 1, toks[4].Pos.Line)
}

func TestUnclosedBracketReportedAtOpening(t *testing.T) {
	_, bag := lex(t, "x = (1,\ny = 2\n")
	first, ok := bag.First()
	require.True(t, ok)
	assert.Equal(t, diag.LexNeverClosed, first.Code)
	assert.Equal(t, source.Pos{Line: 0, Col: 4}, first.Pos)
	assert.Contains(t, first.Message, "'(' was never closed")
}

func TestUnmatchedClosingBracket(t *testing.T) {
	toks, bag := lex(t, "x)\n")
	assert.True(t, bag.HasErrors())
	assert.Equal(t, token.Invalid, toks[1].Kind)
	assert.Equal(t, diag.LexUnmatchedBracket, toks[1].Diag.Code)
}

func TestNumbers(t *testing.T) {
	for _, src := range []string{"0", "00", "1_000", "0x_ff", "0o17", "0b1010", "1.5", ".5", "1.", "1e10", "1E-3", "3j", "1.5J", "1_0.0_1e+1_0"} {
		toks, bag := lex(t, src)
		assert.False(t, bag.HasErrors(), src)
		assert.Equal(t, token.Number, toks[0].Kind, src)
		assert.Equal(t, src, toks[0].Text, src)
	}
	for _, src := range []string{"012", "0x", "1_", "1abc"} {
		toks, bag := lex(t, src)
		assert.True(t, bag.HasErrors(), src)
		assert.Equal(t, token.Invalid, toks[0].Kind, src)
	}
	toks, bag := lex(t, "1if x else 2")
	assert.False(t, bag.HasErrors())
	assert.Equal(t, token.KwIf, toks[1].Kind)
}

func TestStrings(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{`'a'`, token.String},
		{`"a\"b"`, token.String},
		{`r"\d"`, token.String},
		{`Rb'\x00'`, token.String},
		{`u"x"`, token.String},
		{"'''a\nb'''", token.String},
		{`f"{x}"`, token.FString},
		{`rf'{x!r:>{w}}'`, token.FString},
		{`f"{d["k"]}"`, token.FString},
		{`f"{{literal}}"`, token.FString},
		{`f"{f'{x}'}"`, token.FString},
	}
	for _, tt := range tests {
		toks, bag := lex(t, tt.src)
		assert.False(t, bag.HasErrors(), tt.src)
		assert.Equal(t, tt.kind, toks[0].Kind, tt.src)
		assert.Equal(t, tt.src, toks[0].Text, tt.src)
	}
}

func TestUnterminatedString(t *testing.T) {
	toks, bag := lex(t, "x = 'abc\ny = 1\n")
	first, ok := bag.First()
	require.True(t, ok)
	assert.Equal(t, diag.LexUnterminatedString, first.Code)
	assert.Equal(t, source.Pos{Line: 0, Col: 4}, first.Pos)
	assert.Equal(t, token.Invalid, toks[2].Kind)
	assert.Equal(t, "'abc", toks[2].Text)
	// the next line still lexes
	assert.Equal(t, "y", toks[4].Text)

	_, bag = lex(t, "s = \"\"\"never\nclosed\n")
	first, _ = bag.First()
	assert.Contains(t, first.Message, "triple-quoted")
}

func TestStringPrefixVersusName(t *testing.T) {
	toks, _ := lex(t, "br = rb'x'")
	assert.Equal(t, token.Name, toks[0].Kind)
	assert.Equal(t, token.String, toks[2].Kind)
	toks, _ = lex(t, "ub'x'")
	assert.Equal(t, token.Name, toks[0].Kind)
}

func TestOperatorsLongestMatch(t *testing.T) {
	toks, _ := lex(t, "a **= b // c -> ... := != <<=")
	assert.Equal(t, []token.Kind{
		token.Name, token.StarStarAssign, token.Name, token.SlashSlash, token.Name,
		token.Arrow, token.Ellipsis, token.ColonAssign, token.NotEq, token.ShlAssign,
		token.Newline, token.EOF,
	}, kinds(toks))
}

func TestUnicodeIdentifiersNormalized(t *testing.T) {
	toks, bag := lex(t, "ﬁle = αβ")
	assert.False(t, bag.HasErrors())
	assert.Equal(t, "file", toks[0].Text)
	assert.Equal(t, source.Pos{Line: 0, Col: 6}, toks[2].Pos)
	assert.Equal(t, source.Pos{Line: 0, Col: 8}, toks[2].End)
}

func TestInvalidCharacter(t *testing.T) {
	toks, bag := lex(t, "a = $b")
	first, _ := bag.First()
	assert.Equal(t, diag.LexUnknownChar, first.Code)
	assert.Equal(t, token.Invalid, toks[2].Kind)
	assert.Equal(t, "b", toks[3].Text)
}

func TestTokenLimit(t *testing.T) {
	bag := diag.NewBag(0)
	toks := Tokenize(source.NewBuffer("a b c d e f"), Options{Reporter: bag, MaxTokens: 3})
	first, _ := bag.First()
	assert.Equal(t, diag.LexTooManyTokens, first.Code)
	assert.Equal(t, token.Invalid, toks[3].Kind)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}

func TestExprModeRange(t *testing.T) {
	buf := source.NewBuffer("s = f'{a +\n b}'")
	toks := Tokenize(buf, Options{Expr: true, Start: 7, Limit: 13})
	assert.Equal(t, []token.Kind{token.Name, token.Plus, token.NL, token.Name, token.EOF}, kinds(toks))
	assert.Equal(t, source.Pos{Line: 0, Col: 7}, toks[0].Pos)
	assert.Equal(t, source.Pos{Line: 1, Col: 1}, toks[3].Pos)
}

func TestNeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{"", "\\", "'", "\"\"\"", "f'{", "f'{x!'", "((((", "\t\t\n  \n\tx", "0x", "\x00\xff", "f'{'", "}"}
	for _, src := range inputs {
		assert.NotPanics(t, func() { Tokenize(source.NewBuffer(src), Options{}) }, "%q", src)
	}
}
