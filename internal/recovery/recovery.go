package recovery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"pyrefs/internal/ast"
	"pyrefs/internal/ctxlog"
	"pyrefs/internal/parser"
	"pyrefs/internal/source"
	"pyrefs/internal/trace"
)

// ErrUnrecoverable reports input the repair loop could not bring to a
// parseable state. Callers treat it as "no references", not as a failure.
var ErrUnrecoverable = errors.New("source cannot be repaired")

type Options struct {
	// Parser is passed to every attempt; TouchedLines is filled by the loop.
	Parser parser.Options
	// MaxAttempts overrides the default cap of LineCount()+2 when > 0.
	MaxAttempts int
}

// Repair is one rewritten line.
type Repair struct {
	Err  *parser.SyntaxError
	Line int
	Text string // the synthetic statement that replaced the line
}

type Result struct {
	Module   *ast.Module
	Buffer   *source.Buffer // text the tree was built from
	Repairs  []Repair
	Attempts int

	touched []int // sorted, unique
}

// Touched returns the rewritten lines in ascending order.
func (r *Result) Touched() []int {
	return slices.Clone(r.touched)
}

func (r *Result) addRepair(rep Repair) {
	r.Repairs = append(r.Repairs, rep)
	if i, found := slices.BinarySearch(r.touched, rep.Line); !found {
		r.touched = slices.Insert(r.touched, i, rep.Line)
	}
}

// Parse parses buf, repairing lines until the parse succeeds. On
// ErrUnrecoverable the returned Result still lists the attempts made.
func Parse(ctx context.Context, buf *source.Buffer, opts Options) (*Result, error) {
	log := ctxlog.FromContext(ctx)

	limit := opts.MaxAttempts
	if limit <= 0 {
		limit = buf.LineCount() + 2
	}
	res := &Result{Buffer: buf}
	var prev *parser.SyntaxError
	for res.Attempts < limit {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Attempts++
		_, span := trace.Start(ctx, trace.ScopeAttempt, "parse-attempt")
		span.Attr("attempt", strconv.Itoa(res.Attempts))

		popts := opts.Parser
		popts.TouchedLines = res.touched
		mod, err := parser.Parse(res.Buffer, popts)
		if err == nil {
			span.End("ok")
			res.Module = mod
			return res, nil
		}
		var se *parser.SyntaxError
		if !errors.As(err, &se) {
			span.End("error")
			return res, err
		}
		span.Attr("error", se.Error())
		if prev != nil && prev.Pos == se.Pos {
			span.End("stuck")
			log.Debug("repair made no progress", "line", se.Pos.Line+1, "col", se.Pos.Col+1, "msg", se.Msg)
			return res, ErrUnrecoverable
		}
		prev = se

		line := min(se.Pos.Line, res.Buffer.LineCount()-1)
		text := syntheticLine(res.Buffer, line)
		log.Debug("repairing line", "line", line+1, "error", se.Msg, "replacement", text)
		res.addRepair(Repair{Err: se, Line: line, Text: text})
		res.Buffer = res.Buffer.ReplaceLine(line, text)
		span.End("repaired")
	}
	return res, fmt.Errorf("%w: gave up after %d attempts", ErrUnrecoverable, res.Attempts)
}
