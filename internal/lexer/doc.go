// Package lexer tokenizes Python source.
//
// Tokens follow the Python tokenizer: NEWLINE ends a logical line, NL is a
// line break that doesn't (blank lines, comments, inside brackets), INDENT
// text is the indentation the block adds to its parent so joining the
// open INDENT texts gives the full indentation of a line. Lexical problems
// are reported through Options.Reporter and appear in the stream as Invalid
// tokens carrying their diagnostic.
package lexer
