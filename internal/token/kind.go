package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token (ERRORTOKEN).
	Invalid Kind = iota
	// EOF marks the end of the source input (ENDMARKER).
	EOF

	// Name is an identifier, including the soft keywords match/case/type/_.
	Name
	// Number is any numeric literal.
	Number
	// String is a plain, raw or bytes string literal, prefix and quotes included.
	String
	// FString is an f-string literal, prefix and quotes included.
	FString
	// Comment is a '#' comment up to the end of the line.
	Comment

	// Newline ends a logical line.
	Newline
	// NL is a non-logical line break (blank line, comment line, inside brackets).
	NL
	// Indent opens a block; its text is the added indentation only.
	Indent
	// Dedent closes a block.
	Dedent

	kwBegin
	KwFalse
	KwNone
	KwTrue
	KwAnd
	KwAs
	KwAssert
	KwAsync
	KwAwait
	KwBreak
	KwClass
	KwContinue
	KwDef
	KwDel
	KwElif
	KwElse
	KwExcept
	KwFinally
	KwFor
	KwFrom
	KwGlobal
	KwIf
	KwImport
	KwIn
	KwIs
	KwLambda
	KwNonlocal
	KwNot
	KwOr
	KwPass
	KwRaise
	KwReturn
	KwTry
	KwWhile
	KwWith
	KwYield
	kwEnd

	LParen           // (
	RParen           // )
	LBracket         // [
	RBracket         // ]
	LBrace           // {
	RBrace           // }
	Colon            // :
	Comma            // ,
	Semicolon        // ;
	Plus             // +
	Minus            // -
	Star             // *
	Slash            // /
	Pipe             // |
	Amp              // &
	Lt               // <
	Gt               // >
	Assign           // =
	Dot              // .
	Percent          // %
	EqEq             // ==
	NotEq            // !=
	LtEq             // <=
	GtEq             // >=
	Tilde            // ~
	Caret            // ^
	Shl              // <<
	Shr              // >>
	StarStar         // **
	SlashSlash       // //
	At               // @
	Arrow            // ->
	Ellipsis         // ...
	ColonAssign      // :=
	Bang             // ! (f-string conversions only)
	PlusAssign       // +=
	MinusAssign      // -=
	StarAssign       // *=
	SlashAssign      // /=
	PercentAssign    // %=
	AmpAssign        // &=
	PipeAssign       // |=
	CaretAssign      // ^=
	ShlAssign        // <<=
	ShrAssign        // >>=
	StarStarAssign   // **=
	SlashSlashAssign // //=
	AtAssign         // @=
)

var kindNames = map[Kind]string{
	Invalid: "ERRORTOKEN",
	EOF:     "ENDMARKER",
	Name:    "NAME",
	Number:  "NUMBER",
	String:  "STRING",
	FString: "FSTRING",
	Comment: "COMMENT",
	Newline: "NEWLINE",
	NL:      "NL",
	Indent:  "INDENT",
	Dedent:  "DEDENT",
}

// String returns the tokenize-style name of the kind, or the operator or
// keyword text.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if text, ok := kindText[k]; ok {
		return text
	}
	return "UNKNOWN"
}

// IsKeyword reports whether k is a hard keyword.
func (k Kind) IsKeyword() bool {
	return k > kwBegin && k < kwEnd
}

// IsOp reports whether k is an operator or delimiter.
func (k Kind) IsOp() bool {
	return k >= LParen && k <= AtAssign
}

// IsAugAssign reports whether k is an augmented assignment operator.
func (k Kind) IsAugAssign() bool {
	return k >= PlusAssign && k <= AtAssign
}
