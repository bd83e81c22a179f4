package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyrefs/internal/ast"
	"pyrefs/internal/diag"
	"pyrefs/internal/source"
)

func parse(t *testing.T, text string) *ast.Module {
	t.Helper()
	mod, err := Parse(source.NewBuffer(text), Options{})
	require.NoError(t, err)
	return mod
}

func parseErr(t *testing.T, text string) *SyntaxError {
	t.Helper()
	_, err := Parse(source.NewBuffer(text), Options{})
	require.Error(t, err)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	return se
}

func TestImportStatements(t *testing.T) {
	mod := parse(t, "import os.path as p, sys\nfrom ..pkg import (a as b, c,)\nfrom . import x\n")
	require.Len(t, mod.Body, 3)

	imp := mod.Body[0].(*ast.Import)
	require.Len(t, imp.Names, 2)
	assert.Equal(t, "os.path", imp.Names[0].Name)
	assert.Equal(t, "p", imp.Names[0].AsName)
	assert.Equal(t, source.Pos{Line: 0, Col: 0}, imp.Pos)
	assert.Equal(t, source.Pos{Line: 0, Col: 24}, imp.End)
	assert.True(t, imp.HasEnd)

	from := mod.Body[1].(*ast.ImportFrom)
	assert.Equal(t, 2, from.Level)
	assert.Equal(t, "pkg", from.Module)
	require.Len(t, from.Names, 2)
	assert.Equal(t, "b", from.Names[0].AsName)

	rel := mod.Body[2].(*ast.ImportFrom)
	assert.Equal(t, 1, rel.Level)
	assert.Equal(t, "", rel.Module)
}

func TestDynamicImportCallShape(t *testing.T) {
	mod := parse(t, "m = importlib.import_module('a.b', package=__name__)\n")
	as := mod.Body[0].(*ast.Assign)
	call := as.Value.(*ast.Call)
	attr := call.Func.(*ast.Attribute)
	assert.Equal(t, "import_module", attr.Attr)
	assert.Equal(t, "importlib", attr.Value.(*ast.Name).ID)
	require.Len(t, call.Args, 1)
	assert.Equal(t, "a.b", call.Args[0].(*ast.Constant).Str)
	require.Len(t, call.Keywords, 1)
	assert.Equal(t, "package", call.Keywords[0].Name)
	assert.Equal(t, source.Pos{Line: 0, Col: 4}, call.Pos)
	assert.Equal(t, ast.Store, as.Targets[0].(*ast.Name).Ctx)
}

func TestParenthesizedPrimaryStartsAtParen(t *testing.T) {
	mod := parse(t, "(a).b + 1\n")
	bin := mod.Body[0].(*ast.ExprStmt).Value.(*ast.BinOp)
	assert.Equal(t, 0, bin.Pos.Col)
	attr := bin.Left.(*ast.Attribute)
	assert.Equal(t, 0, attr.Pos.Col)
	assert.Equal(t, 1, attr.Value.(*ast.Name).Pos.Col)
}

func TestCompoundStatements(t *testing.T) {
	src := strings.Join([]string{
		"@dec",
		"async def f(a, /, b=1, *args, c, d=2, **kw) -> int:",
		"    try:",
		"        import x",
		"    except* (E1, E2) as e:",
		"        pass",
		"    finally:",
		"        return [i for i in range(3) if i]",
		"class C(Base, metaclass=M):",
		"    x: int = 0",
		"    def g[T](self): ...",
		"with open(p) as fh, (yield):",
		"    pass",
		"",
	}, "\n")
	mod := parse(t, src)
	require.Len(t, mod.Body, 3)

	fn := mod.Body[0].(*ast.FunctionDef)
	assert.True(t, fn.Async)
	assert.Len(t, fn.Decorators, 1)
	assert.Len(t, fn.Args.PosOnly, 1)
	assert.Len(t, fn.Args.Args, 1)
	assert.Equal(t, "args", fn.Args.Vararg.Name)
	assert.Len(t, fn.Args.KwOnly, 2)
	assert.Nil(t, fn.Args.KwDefaults[0])
	assert.Equal(t, "kw", fn.Args.Kwarg.Name)
	assert.Len(t, fn.Args.Defaults, 1)
	// позиция функции с декоратором начинается с def
	assert.Equal(t, source.Pos{Line: 1, Col: 0}, fn.Pos)

	try := fn.Body[0].(*ast.Try)
	assert.True(t, try.Star)
	assert.Equal(t, "e", try.Handlers[0].Name)
	ret := try.Finalbody[0].(*ast.Return)
	comp := ret.Value.(*ast.ListComp)
	assert.Len(t, comp.Generators[0].Ifs, 1)

	cls := mod.Body[1].(*ast.ClassDef)
	assert.Len(t, cls.Bases, 1)
	assert.Equal(t, "metaclass", cls.Keywords[0].Name)
	ann := cls.Body[0].(*ast.AnnAssign)
	assert.True(t, ann.Simple)
	g := cls.Body[1].(*ast.FunctionDef)
	assert.Len(t, g.TypeParams, 1)

	with := mod.Body[2].(*ast.With)
	require.Len(t, with.Items, 2)
	assert.Equal(t, "fh", with.Items[0].OptionalVars.(*ast.Name).ID)
}

func TestFStringFields(t *testing.T) {
	mod := parse(t, "s = f\"a{x!r}b{y=}{z:>{w}}\"\n")
	js := mod.Body[0].(*ast.Assign).Value.(*ast.JoinedStr)
	require.Len(t, js.Values, 5)
	assert.Equal(t, "a", js.Values[0].(*ast.Constant).Str)

	fx := js.Values[1].(*ast.FormattedValue)
	assert.Equal(t, byte('r'), fx.Conversion)
	x := fx.Value.(*ast.Name)
	assert.Equal(t, "x", x.ID)
	assert.Equal(t, source.Pos{Line: 0, Col: 8}, x.Pos)

	assert.Equal(t, "by=", js.Values[2].(*ast.Constant).Str)
	fy := js.Values[3].(*ast.FormattedValue)
	assert.Equal(t, byte('r'), fy.Conversion)

	fz := js.Values[4].(*ast.FormattedValue)
	require.NotNil(t, fz.FormatSpec)
	require.Len(t, fz.FormatSpec.Values, 2)
	assert.Equal(t, ">", fz.FormatSpec.Values[0].(*ast.Constant).Str)
	assert.Equal(t, "w", fz.FormatSpec.Values[1].(*ast.FormattedValue).Value.(*ast.Name).ID)
}

func TestStringConcatenationAndEscapes(t *testing.T) {
	mod := parse(t, "x = 'a\\tb' \"\\x41\" r'\\n'\ny = b'\\x00\\n'\n")
	s := mod.Body[0].(*ast.Assign).Value.(*ast.Constant)
	assert.Equal(t, ast.ConstStr, s.Kind)
	assert.Equal(t, "a\tbA\\n", s.Str)
	b := mod.Body[1].(*ast.Assign).Value.(*ast.Constant)
	assert.Equal(t, ast.ConstBytes, b.Kind)
	assert.Equal(t, "\x00\n", b.Str)
}

func TestNumbers(t *testing.T) {
	cases := map[string]ast.ConstKind{
		"1_000": ast.ConstInt, "0xFF": ast.ConstInt, "1.5": ast.ConstFloat,
		"1e3": ast.ConstFloat, "2j": ast.ConstComplex, "0b1_0": ast.ConstInt,
	}
	for text, kind := range cases {
		c := numberConstant(text)
		assert.Equal(t, kind, c.Kind, text)
		assert.NotContains(t, c.Text, "_", text)
	}
}

func TestMatchStatement(t *testing.T) {
	src := strings.Join([]string{
		"match cmd:",
		"    case [\"go\", d] if d:",
		"        pass",
		"    case Point(x=0) | _:",
		"        pass",
		"    case {\"k\": 1, **rest}:",
		"        pass",
		"match = 1",
		"match(x)",
		"",
	}, "\n")
	mod := parse(t, src)
	require.Len(t, mod.Body, 3)
	m := mod.Body[0].(*ast.Match)
	require.Len(t, m.Cases, 3)
	seq := m.Cases[0].Pattern.(*ast.MatchSequence)
	assert.Len(t, seq.Patterns, 2)
	assert.NotNil(t, m.Cases[0].Guard)
	or := m.Cases[1].Pattern.(*ast.MatchOr)
	cls := or.Patterns[0].(*ast.MatchClass)
	assert.Equal(t, []string{"x"}, cls.KwdAttrs)
	assert.Equal(t, "rest", m.Cases[2].Pattern.(*ast.MatchMapping).Rest)

	_, ok := mod.Body[1].(*ast.Assign)
	assert.True(t, ok)
	_, ok = mod.Body[2].(*ast.ExprStmt).Value.(*ast.Call)
	assert.True(t, ok)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"unclosed paren", "x = (1,\n", 0, "'(' was never closed"},
		{"innermost unclosed", "f([1,\n", 0, "'[' was never closed"},
		{"missing block", "if x:\nfoo()\n", 1, "expected an indented block after 'if' statement on line 1"},
		{"unexpected indent", "  x = 1\n", 0, "unexpected indent"},
		{"unindent mismatch", "if x:\n    a\n  b\n", 2, "unindent does not match any outer indentation level"},
		{"bad target", "f() = 1\n", 0, "cannot assign to function call"},
		{"augmented tuple", "a, b += 1\n", 0, "'tuple' is an illegal expression for augmented assignment"},
		{"keyword order", "f(a=1, b)\n", 0, "positional argument follows keyword argument"},
		{"default order", "def f(a=1, b): pass\n", 0, "parameter without a default follows parameter with a default"},
		{"mixed bytes", "x = b'a' 'b'\n", 0, "cannot mix bytes and nonbytes literals"},
		{"empty fstring field", "x = f'{}'\n", 0, "f-string: valid expression required before '}'"},
		{"generic", "def f(:\n    pass\n", 0, "invalid syntax"},
		{"missing except", "try:\n    pass\nx = 1\n", 2, "expected 'except' or 'finally' block"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := parseErr(t, tt.src)
			assert.Equal(t, tt.line, se.Pos.Line)
			assert.Equal(t, tt.msg, se.Msg)
		})
	}
}

func TestUnclosedBracketReportsOpeningPosition(t *testing.T) {
	se := parseErr(t, "import a\nfoo(1,\n  2\nbar = 3\n")
	assert.Equal(t, source.Pos{Line: 1, Col: 3}, se.Pos)
	assert.Equal(t, "'(' was never closed", se.Msg)
	assert.Equal(t, "2:4: '(' was never closed", se.Error())
}

func TestUnclosedBracketOnFailingLineKeepsGenericError(t *testing.T) {
	se := parseErr(t, "def f(:\n    pass\n")
	assert.Equal(t, source.Pos{Line: 0, Col: 6}, se.Pos)
	assert.Equal(t, "invalid syntax", se.Msg)
	assert.Equal(t, diag.SynInvalidSyntax, se.Code)
	assert.Equal(t, "1:7: invalid syntax", se.Error())

	// ошибка строкой ниже скобки - побеждает незакрытая скобка
	se = parseErr(t, "x = (1,\ny = 2\n")
	assert.Equal(t, source.Pos{Line: 0, Col: 4}, se.Pos)
	assert.Equal(t, "'(' was never closed", se.Msg)
}

func TestTouchedLinesDropEnds(t *testing.T) {
	buf := source.NewBuffer("import a\nimport b\nif x:\n    pass\n")
	mod, err := Parse(buf, Options{TouchedLines: []int{3}})
	require.NoError(t, err)
	assert.True(t, mod.Body[0].(*ast.Import).HasEnd)
	assert.True(t, mod.Body[1].(*ast.Import).HasEnd)
	ifs := mod.Body[2].(*ast.If)
	assert.False(t, ifs.HasEnd)
	assert.True(t, ifs.Test.(*ast.Name).HasEnd)
	assert.False(t, ifs.Body[0].(*ast.Pass).HasEnd)
}

func TestNoEndPositions(t *testing.T) {
	mod, err := Parse(source.NewBuffer("import a\n"), Options{NoEndPositions: true})
	require.NoError(t, err)
	ast.Inspect(mod, func(n ast.Node) bool {
		if l, ok := n.(ast.Located); ok {
			assert.False(t, l.Location().HasEnd)
		}
		return true
	})
}

func TestDepthLimit(t *testing.T) {
	src := "x = " + strings.Repeat("(", 300) + strings.Repeat(")", 300) + "\n"
	se := parseErr(t, src)
	assert.Equal(t, "too many nested parentheses", se.Msg)
}

func TestParseExpr(t *testing.T) {
	e, err := ParseExpr(source.NewBuffer("'a' + b.c"), Options{})
	require.NoError(t, err)
	bin := e.(*ast.BinOp)
	assert.Equal(t, ast.Add, bin.Op)

	_, err = ParseExpr(source.NewBuffer("a b"), Options{})
	assert.Error(t, err)
}
