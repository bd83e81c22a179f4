package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"pyrefs/internal/diag"
	"pyrefs/internal/lexer"
	"pyrefs/internal/quickscan"
	"pyrefs/internal/recovery"
	"pyrefs/internal/source"
	"pyrefs/internal/testkit"
	"pyrefs/internal/token"
	"pyrefs/internal/xref"
)

const maxFuzzInput = 1 << 16 // 64 KiB

// parseTimeout is the maximum time allowed for repairing a single input.
// Longer runs point at a loop that does not converge.
const parseTimeout = 5 * time.Second

func clampInput(input []byte) *source.Buffer {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return source.FromBytes("fuzz.py", append([]byte(nil), input...), source.FileVirtual).Buffer
}

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		buf := clampInput(input)
		bag := diag.NewBag(64)
		toks := lexer.Tokenize(buf, lexer.Options{Reporter: bag})
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end in EOF")
		}
		for i := 1; i < len(toks); i++ {
			if toks[i].Pos.Less(toks[i-1].Pos) {
				t.Fatalf("token %d at %s precedes token %d at %s", i, toks[i].Pos, i-1, toks[i-1].Pos)
			}
		}
	})
}

// FuzzRecoveryReferences checks that the repair loop terminates and that
// every reference found in the repaired tree has a well-formed range.
func FuzzRecoveryReferences(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		buf := clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan error, 1)
		var res *recovery.Result
		go func() {
			var err error
			res, err = recovery.Parse(ctx, buf, recovery.Options{})
			done <- err
		}()
		var err error
		select {
		case err = <-done:
		case <-ctx.Done():
			t.Fatalf("repair did not finish in %s", parseTimeout)
		}
		if errors.Is(err, recovery.ErrUnrecoverable) {
			return
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		refs := xref.Find(res.Buffer, res.Module, xref.Options{})
		ranges := make([]source.Range, len(refs))
		for i, r := range refs {
			ranges[i] = r.Range
		}
		if err := testkit.CheckRangeInvariants(res.Buffer, ranges); err != nil {
			t.Fatal(err)
		}
	})
}

func FuzzQuickScan(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		buf := clampInput(input)
		for _, r := range quickscan.Scan(buf) {
			if !r.Range.Start.Less(r.Range.End) {
				t.Fatalf("%s: empty range %s", r.Name, r.Range)
			}
			if r.Range.End.Line >= buf.LineCount() {
				t.Fatalf("%s: range %s past the last line", r.Name, r.Range)
			}
		}
	})
}
