package token

import (
	"pyrefs/internal/diag"
	"pyrefs/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	Pos  source.Pos // start
	End  source.Pos // exclusive
	// Diag is set on Invalid tokens: the problem the lexer reported for them.
	Diag *diag.Diagnostic
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, FString:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Name }

// IsSoft reports whether the token is the soft keyword word.
func (t Token) IsSoft(word string) bool { return t.Kind == Name && t.Text == word }

// IsNewline reports whether the token is NEWLINE or NL.
func (t Token) IsNewline() bool { return t.Kind == Newline || t.Kind == NL }
