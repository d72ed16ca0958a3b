// Package timeline is an in-process event recorder that produces traces in
// the Chrome Trace Event JSON format.
//
// Instrumentation points emit short-lived events — instantaneous marks,
// duration spans, asynchronous flows, counters, metadata — through a
// [Stream]. Writers pay almost no synchronization cost: each goroutine
// caches its own [Block] and only takes a shared lock when that block is
// exhausted. A reporter goroutine (or process shutdown) reclaims every
// goroutine's cached block before rendering a snapshot to JSON.
//
// # Architecture
//
//   - [Event] and [Arguments] are the record and its key/value payload.
//   - [Block] is a fixed-capacity, goroutine-owned array of events.
//   - [Stream] gates event creation by name (API, GC, Isolate, ...).
//   - [Recorder] is a tagged variant of retention strategies: ring,
//     startup, endless, and file/platform. [NewRingRecorder],
//     [NewStartupRecorder], [NewEndlessRecorder], [NewFileRecorder] and
//     [NewPlatformRecorder] construct them.
//   - [RecorderLock] is the shutdown gate: an RCU-style in-flight counter
//     that blocks teardown until every writer has completed.
//   - [Timeline] is the process-wide facade: it owns exactly one recorder
//     and the static stream table, and mediates Init/Cleanup/Clear.
//
// # Usage
//
//	tl := timeline.New()
//	if err := tl.Init(timeline.Config{TimelineRecorder: "ring"}); err != nil {
//		log.Fatal(err)
//	}
//	defer tl.Cleanup()
//
//	stream := tl.Stream("GC")
//	if ev := stream.StartEvent(context.Background()); ev != nil {
//		ev.Instant("sweep", timeline.NowMicros())
//		ev.Complete()
//	}
package timeline
