// Package trace provides the tracing subsystem for trebuchet runs.
//
// Tracing replaces ad-hoc debug printing: every file, line and token the
// driver processes can be reported as an event, filtered by level.
//
// # Usage
//
//	trebuchet sum --trace=- --trace-level=detail input.txt
//
// # Tracers
//
//   - Nop: zero-overhead no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped when a run fails
//   - ModeBoth: stream and ring behind one Tracer
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only ring dumps on failure
//   - LevelPhase: driver and per-file boundaries
//   - LevelDetail: one event per line with its value
//   - LevelDebug: everything including individual tokens
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFile, "sum", parentID)
//	defer span.End("")
package trace
