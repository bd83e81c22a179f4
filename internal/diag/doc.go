// Package diag holds the lexical and syntax errors found in a Python
// buffer. Codes are stable numbers in LEX, SYN and IO ranges. The lexer
// reports into a Bag through the Reporter interface; the parser turns its
// SyntaxError into a Diagnostic for the parse debug view.
package diag
