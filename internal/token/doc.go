// Package token defines lexical token kinds for Python source.
// Invariants:
//   - Token.Text is a slice of the original source (no copies), except for
//     Indent (the indentation delta) and Dedent/Newline at EOF (empty).
//   - Token.Pos/End are zero-based; columns count code points.
//   - Soft keywords (match, case, type, _) are lexed as Name and recognized
//     by the parser.
package token
