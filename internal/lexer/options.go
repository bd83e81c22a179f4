package lexer

import (
	"pyrefs/internal/diag"
	"pyrefs/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
	// MaxTokens stops the lexer with an error after that many tokens (0 = no limit).
	MaxTokens int
	// Expr lexes a bare expression (f-string replacement field): no
	// indentation tracking and every line break is NL.
	Expr bool
	// Start/Limit restrict lexing to src[Start:Limit] when Limit > 0.
	Start, Limit uint32
}

func (lx *Lexer) report(code diag.Code, pos source.Pos, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, pos, msg)
	}
}
