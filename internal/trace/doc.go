// Package trace is a self-diagnostic tracer for the timeline recorder's
// own internals — the collaborator spec.md §6's trace_timeline flag asks
// for ("internal tracing of the recorder itself"), kept separate from
// the Chrome Trace Event output internal/timeline produces for callers.
// Where internal/timeline's Event records a caller's trace point, this
// package's Event records what the recorder was doing while it serviced
// that call: which thread rotated a block, which reporter reclaimed it,
// how long a reclaim fan-out took.
//
// # Usage
//
// Enable self-tracing via timelinectl's --trace-level flag (--trace picks
// the output path, "-" for stderr):
//
//	timelinectl run --trace-level=phase --trace=-
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - Nop: zero-overhead no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer for crash dumps
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: no tracing
//   - LevelError: no span scope is emitted; only heartbeats pass
//   - LevelPhase: facade-level boundaries (Init/Cleanup/Clear)
//   - LevelDetail: per-recorder events (block rotation, reclamation)
//   - LevelDebug: everything, including per-block detail
//
// # Scopes
//
// Events are categorized by scope:
//
//   - ScopeFacade: Timeline.Init/Cleanup/Clear
//   - ScopeRecorder: recorder-level block allocation/rotation
//   - ScopeReclaim: ReclaimCachedBlocksFromThreads fan-out
//   - ScopeBlock: individual block lifecycle (most detailed)
//
// # Context Propagation
//
// Tracers are propagated via context, the same shape internal/timeline
// uses for isolate propagation:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeRecorder, "ring.rotate", parentID)
//	defer span.End("")
package trace
