// Package trace records span events for pyrefs runs: driver phases, files
// of a directory scan and every parse attempt of the repair loop.
//
// Enable tracing via command-line flags:
//
//	pyrefs scan --trace=- --trace-level=detail broken.py
//
// Levels:
//
//   - LevelOff: no tracing
//   - LevelPhase: driver phases (recover, walk, resolve)
//   - LevelDetail: per-file events of a directory scan
//   - LevelDebug: every parse attempt and line repair
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePhase, "recover")
//	defer span.End("")
//
// Start parents the new span to the one ctx already carries.
package trace
