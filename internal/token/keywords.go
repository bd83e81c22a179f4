package token

var keywords = map[string]Kind{
	"False":    KwFalse,
	"None":     KwNone,
	"True":     KwTrue,
	"and":      KwAnd,
	"as":       KwAs,
	"assert":   KwAssert,
	"async":    KwAsync,
	"await":    KwAwait,
	"break":    KwBreak,
	"class":    KwClass,
	"continue": KwContinue,
	"def":      KwDef,
	"del":      KwDel,
	"elif":     KwElif,
	"else":     KwElse,
	"except":   KwExcept,
	"finally":  KwFinally,
	"for":      KwFor,
	"from":     KwFrom,
	"global":   KwGlobal,
	"if":       KwIf,
	"import":   KwImport,
	"in":       KwIn,
	"is":       KwIs,
	"lambda":   KwLambda,
	"nonlocal": KwNonlocal,
	"not":      KwNot,
	"or":       KwOr,
	"pass":     KwPass,
	"raise":    KwRaise,
	"return":   KwReturn,
	"try":      KwTry,
	"while":    KwWhile,
	"with":     KwWith,
	"yield":    KwYield,
}

var kindText = map[Kind]string{}

func init() {
	for text, k := range keywords {
		kindText[k] = text
	}
	for text, k := range operators {
		kindText[k] = text
	}
}

// LookupKeyword returns the keyword kind for ident. Soft keywords are not
// keywords here.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// operators maps every operator spelling to its kind.
var operators = map[string]Kind{
	"(": LParen, ")": RParen, "[": LBracket, "]": RBracket, "{": LBrace, "}": RBrace,
	":": Colon, ",": Comma, ";": Semicolon, "+": Plus, "-": Minus, "*": Star,
	"/": Slash, "|": Pipe, "&": Amp, "<": Lt, ">": Gt, "=": Assign, ".": Dot,
	"%": Percent, "==": EqEq, "!=": NotEq, "<=": LtEq, ">=": GtEq, "~": Tilde,
	"^": Caret, "<<": Shl, ">>": Shr, "**": StarStar, "//": SlashSlash, "@": At,
	"->": Arrow, "...": Ellipsis, ":=": ColonAssign, "!": Bang,
	"+=": PlusAssign, "-=": MinusAssign, "*=": StarAssign, "/=": SlashAssign,
	"%=": PercentAssign, "&=": AmpAssign, "|=": PipeAssign, "^=": CaretAssign,
	"<<=": ShlAssign, ">>=": ShrAssign, "**=": StarStarAssign,
	"//=": SlashSlashAssign, "@=": AtAssign,
}

// LookupOperator returns the kind for an operator spelling.
func LookupOperator(text string) (Kind, bool) {
	k, ok := operators[text]
	return k, ok
}
