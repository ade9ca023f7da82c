// Package trace records what the compiler is doing, for diagnosing slow or
// stuck builds.
//
// # Usage
//
//	chad build --trace=pass --trace-out=- chad.toml
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: circular buffer, dumped when the compiler crashes
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only crash dumps
//   - LevelPass: build stages and pass boundaries
//   - LevelUnit: per-unit spans
//   - LevelFn: everything, including one span per analyzed or
//     specialized function
//
// # Scopes
//
//   - ScopeBuild: the build as a whole and its stages
//   - ScopePass: load, symbols, sema, mono
//   - ScopeUnit: one compilation unit inside a pass
//   - ScopeFn: one function
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.BeginIn(ctx, trace.ScopePass, "sema")
//	defer span.End("")
//	ctx = trace.WithParent(ctx, span)
package trace
