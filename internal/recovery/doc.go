// Package recovery turns a possibly broken Python file into a syntax tree.
//
// Parse runs the strict parser; every time it fails, the failing line is
// replaced by a "pass" statement indented to fit the surrounding block and
// the parse starts over. The loop ends when the parse succeeds, when the
// same error shows up twice in a row (ErrUnrecoverable) or when it has run
// once per source line plus two.
package recovery
