// Package trace records what the compiler is doing and for how long.
//
// Enable it from the command line:
//
//	walter build --trace=- --trace-level=detail
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: failed spans and error points only
//   - LevelPhase: commands and pipeline stages
//   - LevelDetail: plus per-module parse and compile spans
//   - LevelDebug: everything, including cache lookups
//
// # Context Propagation
//
// The tracer and the current span travel in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Begin(ctx, trace.ScopeStage, "lower")
//	defer span.End("")
package trace
