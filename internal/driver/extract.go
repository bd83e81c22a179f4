package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"pyrefs/internal/consteval"
	"pyrefs/internal/ctxlog"
	"pyrefs/internal/observ"
	"pyrefs/internal/quickscan"
	"pyrefs/internal/recovery"
	"pyrefs/internal/resolve"
	"pyrefs/internal/source"
	"pyrefs/internal/trace"
	"pyrefs/internal/xref"
)

// Record is one output entry: a provider name for a located reference.
type Record struct {
	Name      string       `json:"name" yaml:"name" msgpack:"name"`
	IsBuiltin bool         `json:"is_builtin" yaml:"is_builtin" msgpack:"is_builtin"`
	Range     source.Range `json:"range" yaml:"range" msgpack:"range"`
}

type Options struct {
	Resolver  resolve.Resolver
	Recovery  recovery.Options
	Evaluator *consteval.Evaluator
	// Cache may be nil.
	Cache *DiskCache
	// Quick scans lines with regular expressions instead of parsing.
	Quick bool
	// Hook sees every phase boundary; may be nil.
	Hook observ.Hook
}

type Result struct {
	Path string
	// Refs is never nil; unrecoverable input yields an empty slice.
	Refs          []Record
	Attempts      int
	Repaired      []int
	Unrecoverable bool
	Cached        bool
	Timing        observ.Report
}

// ExtractFile loads path and extracts its references.
func ExtractFile(ctx context.Context, path string, opts Options) (*Result, error) {
	f, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	return Extract(ctx, f, opts)
}

// Extract runs repair, walk and resolution over one file. Input that cannot
// be repaired is not an error: the result is empty and Unrecoverable is set.
func Extract(ctx context.Context, f *source.File, opts Options) (*Result, error) {
	if opts.Resolver == nil {
		return nil, errors.New("driver: no resolver")
	}
	log := ctxlog.FromContext(ctx).With("file", f.Path)
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "extract")
	span.Attr("file", f.Path)

	timer := observ.NewTimer(opts.Hook)
	res := &Result{Path: f.Path, Refs: []Record{}}
	defer func() {
		res.Timing = timer.Report()
		span.End(strconv.Itoa(len(res.Refs)) + " refs")
	}()

	var key CacheKey
	if opts.Cache != nil {
		key = cacheKey(f, opts.Resolver.Fingerprint(ctx), opts.Quick)
		var payload DiskPayload
		ok, err := opts.Cache.Get(key, &payload)
		if err != nil {
			log.Debug("cache entry unreadable", "err", err)
		}
		if ok {
			payload.apply(res)
			return res, nil
		}
	}

	var raw []xref.Reference
	if opts.Quick {
		_, done := phase(ctx, timer, "quickscan")
		raw = quickscan.Scan(f.Buffer)
		done(strconv.Itoa(len(raw)) + " refs")
	} else {
		rctx, done := phase(ctx, timer, "recover")
		rec, err := recovery.Parse(rctx, f.Buffer, opts.Recovery)
		if rec != nil {
			res.Attempts = rec.Attempts
			res.Repaired = rec.Touched()
		}
		switch {
		case errors.Is(err, recovery.ErrUnrecoverable):
			done("unrecoverable")
			log.Info("source could not be repaired", "attempts", res.Attempts)
			res.Unrecoverable = true
			res.Repaired = nil
			storeResult(ctx, opts.Cache, key, res)
			return res, nil
		case err != nil:
			done("error")
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
		done(fmt.Sprintf("%d attempts", rec.Attempts))

		_, done = phase(ctx, timer, "walk")
		raw = xref.Find(rec.Buffer, rec.Module, xref.Options{Evaluator: opts.Evaluator, Logger: log})
		done(strconv.Itoa(len(raw)) + " refs")
	}

	pctx, done := phase(ctx, timer, "resolve")
	refs, err := expand(pctx, opts.Resolver, raw)
	if err != nil {
		done("error")
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	done(fmt.Sprintf("%d records", len(refs)))
	res.Refs = refs
	storeResult(ctx, opts.Cache, key, res)
	return res, nil
}

// expand turns each raw reference into one record per provider.
func expand(ctx context.Context, r resolve.Resolver, raw []xref.Reference) ([]Record, error) {
	out := make([]Record, 0, len(raw))
	for _, ref := range raw {
		res, err := r.Resolve(ctx, ref.Name)
		if err != nil {
			return nil, err
		}
		for _, p := range res.Providers {
			out = append(out, Record{Name: p, IsBuiltin: res.IsBuiltin, Range: ref.Range})
		}
	}
	return out, nil
}

func storeResult(ctx context.Context, c *DiskCache, key CacheKey, res *Result) {
	if c == nil {
		return
	}
	if err := c.Put(key, newPayload(res)); err != nil {
		ctxlog.FromContext(ctx).Debug("cache write failed", "err", err)
	}
}

// phase opens a timed phase that is also a trace span, so work started
// under the returned context nests inside it.
func phase(ctx context.Context, t *observ.Timer, name string) (context.Context, func(note string)) {
	ctx, span := trace.Start(ctx, trace.ScopePhase, name)
	stop := t.Start(name)
	return ctx, func(note string) {
		stop(note)
		span.End(note)
	}
}
