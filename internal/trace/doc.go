// Package trace records what the generator is doing: driver runs, one span
// per generation pass, per-file work in the batch driver and per-root block
// emission.
//
// Enable it from the command line:
//
//	quanta gen --trace=- --trace-level=detail workspace.xml
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "generate", 0)
//	defer span.End("")
//
// LevelPhase shows driver and pass spans, LevelDetail adds files, and
// LevelDebug adds individual root blocks. A RingTracer keeps the most recent
// events in memory so they can be dumped when a run fails.
package trace
