package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexTokenTooLong       Code = 1004
	LexEOFInStatement     Code = 1005
	LexUnindentMismatch   Code = 1006
	LexTooManyTokens      Code = 1007
	LexUnmatchedBracket   Code = 1008
	LexNeverClosed        Code = 1009

	// Синтаксические
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynUnclosedBracket  Code = 2002
	SynExpectExpression Code = 2003
	SynExpectIdentifier Code = 2004
	SynExpectColon      Code = 2005
	SynExpectIndent     Code = 2006
	SynUnexpectedIndent Code = 2007
	SynInvalidTarget    Code = 2008
	SynBadFString       Code = 2009
	SynExpectNewline    Code = 2010
	SynInvalidSyntax    Code = 2011

	// I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Invalid character",
	LexUnterminatedString: "Unterminated string literal",
	LexBadNumber:          "Invalid number literal",
	LexTokenTooLong:       "Token too long",
	LexEOFInStatement:     "Unexpected EOF in multi-line statement",
	LexUnindentMismatch:   "Unindent does not match any outer indentation level",
	LexTooManyTokens:      "Too many tokens",
	LexUnmatchedBracket:   "Unmatched closing bracket",
	LexNeverClosed:        "Bracket was never closed",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynUnclosedBracket:    "Bracket was never closed",
	SynExpectExpression:   "Expected expression",
	SynExpectIdentifier:   "Expected identifier",
	SynExpectColon:        "Expected ':'",
	SynExpectIndent:       "Expected an indented block",
	SynUnexpectedIndent:   "Unexpected indent",
	SynInvalidTarget:      "Invalid assignment target",
	SynBadFString:         "Invalid f-string",
	SynExpectNewline:      "Expected end of statement",
	SynInvalidSyntax:      "Invalid syntax",
	IOLoadFileError:       "Failed to load file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
