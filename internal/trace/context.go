package trace

import "context"

type tracerKey struct{}

type spanKey struct{}

// FromContext extracts the Tracer from context, or Nop without one.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// Start begins a span under the span already carried by ctx and returns a
// context carrying the new one, so nested work is parented to it.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, parentOf(ctx))
	if span.id == 0 {
		// span отфильтрован уровнем: родитель остаётся прежним
		return ctx, span
	}
	return context.WithValue(ctx, spanKey{}, span.id), span
}

func parentOf(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}
