package driver

import (
	"context"
	"errors"

	"pyrefs/internal/diag"
	"pyrefs/internal/lexer"
	"pyrefs/internal/recovery"
	"pyrefs/internal/source"
	"pyrefs/internal/token"
)

// Debug views behind `pyrefs tokenize` and `pyrefs parse`. Neither resolves
// anything; they show what the lexer and the repair loop see.

type TokenizeResult struct {
	File   *source.File
	Tokens []token.Token // always ends with EOF
	Bag    *diag.Bag
}

// Tokenize lexes f, collecting at most maxDiagnostics errors (0 = all).
func Tokenize(f *source.File, maxDiagnostics int) *TokenizeResult {
	bag := diag.NewBag(maxDiagnostics)
	toks := lexer.Tokenize(f.Buffer, lexer.Options{Reporter: bag})
	return &TokenizeResult{File: f, Tokens: toks, Bag: bag}
}

type ParseResult struct {
	File     *source.File
	Recovery *recovery.Result
	// Unrecoverable is set when the repair loop gave up; Recovery.Module is nil.
	Unrecoverable bool
	// Bag holds one diagnostic per repaired syntax error, in repair order.
	Bag *diag.Bag
}

// Parse runs the repair loop alone.
func Parse(ctx context.Context, f *source.File, opts recovery.Options, maxDiagnostics int) (*ParseResult, error) {
	rec, err := recovery.Parse(ctx, f.Buffer, opts)
	switch {
	case errors.Is(err, recovery.ErrUnrecoverable):
	case err != nil:
		return nil, err
	}
	res := &ParseResult{
		File:          f,
		Recovery:      rec,
		Unrecoverable: err != nil,
		Bag:           diag.NewBag(maxDiagnostics),
	}
	for _, r := range rec.Repairs {
		res.Bag.Add(r.Err.Diagnostic())
	}
	return res, nil
}
