package diag

import (
	"fmt"

	"pyrefs/internal/source"
)

// Diagnostic is one lexical or syntax error. Every diagnostic pyrefs
// produces is an error; warnings have no producer.
type Diagnostic struct {
	Code    Code
	Pos     source.Pos
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at %s: %s", d.Code.ID(), d.Pos, d.Message)
}

// Reporter receives diagnostics from the lexer.
type Reporter interface {
	Report(code Code, pos source.Pos, msg string)
}
