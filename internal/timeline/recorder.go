package timeline

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"surge-timeline/internal/trace"
)

// Recorder is the tagged-variant operations interface every retention
// strategy (ring, startup, endless, file/platform) implements. Spec §9
// calls for modeling the original's virtual-inheritance recorder
// hierarchy this way in a language without it.
type Recorder interface {
	// Name identifies the strategy (e.g. "Ring"), surfaced by
	// diagnostics and the timelinectl flags command.
	Name() string

	// StartEvent obtains a writable event slot, or nil if the strategy
	// has no room left (only the startup recorder ever declines once
	// enabled). Called with the recorder-lock already held by the
	// caller (Stream.StartEvent); StartEvent itself manages the
	// per-thread block lock.
	StartEvent() *Event

	// CompleteEvent returns a slot obtained from StartEvent. It must be
	// called from the same goroutine, exactly once, after the event has
	// been filled in.
	CompleteEvent(e *Event)

	// Clear discards all retained events.
	Clear()

	// Snapshot reclaims nothing by itself — callers normally call
	// [Timeline.ReclaimCachedBlocksFromThreads] first — and returns a
	// filtered copy of currently retained events, block by block in the
	// strategy's visiting order, each block's events in write order. Events
	// from different blocks are not merged into one time order.
	Snapshot(filter EventFilter) Snapshot

	// Close releases any resources the strategy owns beyond its events
	// (the file recorder's consumer goroutine). Block-based strategies
	// return nil.
	Close() error
}

// Snapshot is a point-in-time, filtered copy of a recorder's retained
// events, ready for JSON serialization.
type Snapshot struct {
	Events           []Event
	TimeOriginMicros int64
	TimeExtentMicros int64
	ThreadNames      map[uint64]string
}

// blockPool is the strategy-specific half of a block-based recorder: how
// to obtain a new block and in what order to visit existing ones. Ring,
// Startup, and Endless each implement this and embed a
// *blockRecorderCore to get the shared per-thread slot protocol,
// reclamation, and snapshot machinery for free — the "helper trait" spec
// §9 calls for.
type blockPool interface {
	getNewBlockLocked() *Block
	forEachBlock(visit func(*Block) bool)
	clearLocked()
}

// blockRecorderCore implements the per-thread slot protocol from spec
// §4.3 and the reclamation/iteration machinery from §4.5, parameterized
// over a blockPool.
type blockRecorderCore struct {
	mu       sync.Mutex // recorder.lock
	registry *ThreadRegistry
	name     string
	pool     blockPool
	tracer   trace.Tracer

	timeLow  int64
	timeHigh int64
}

func newBlockRecorderCore(name string, registry *ThreadRegistry, pool blockPool) *blockRecorderCore {
	return &blockRecorderCore{name: name, registry: registry, pool: pool, tracer: trace.Nop}
}

// SetTracer attaches a self-diagnostic tracer, normally wired up by
// [Timeline.Init] when cfg.TraceTimeline is set. A nil tracer is treated
// as trace.Nop.
func (c *blockRecorderCore) SetTracer(t trace.Tracer) {
	if t == nil {
		t = trace.Nop
	}
	c.tracer = t
}

func (c *blockRecorderCore) Name() string { return c.name }

// StartEvent implements spec §4.3: lock the calling thread's block lock
// and keep it held; rotate or allocate a block under recorder.lock only
// when necessary; reserve the next slot.
func (c *blockRecorderCore) StartEvent() *Event {
	th := c.registry.Current()
	th.blockMu.Lock()

	switch {
	case th.block != nil && th.block.IsFull():
		span := trace.Begin(c.tracer, trace.ScopeRecorder, c.name+".rotate", 0)
		c.mu.Lock()
		th.block.Finish()
		th.block = c.pool.getNewBlockLocked()
		c.mu.Unlock()
		span.End("")
	case th.block == nil:
		span := trace.Begin(c.tracer, trace.ScopeRecorder, c.name+".allocate", 0)
		c.mu.Lock()
		th.block = c.pool.getNewBlockLocked()
		c.mu.Unlock()
		span.End("")
	}

	if th.block == nil {
		th.blockMu.Unlock()
		return nil
	}
	return th.block.startEvent()
}

// CompleteEvent implements spec §4.3's CompleteEvent: simply release the
// thread's block lock. No other state changes — the slot was already
// populated by the caller before Complete was invoked.
func (c *blockRecorderCore) CompleteEvent(e *Event) {
	if e == nil {
		return
	}
	c.registry.Current().blockMu.Unlock()
}

// FinishBlock marks a block finished under recorder.lock, used by
// reclamation to hand a stolen block back to the pool.
func (c *blockRecorderCore) FinishBlock(b *Block) {
	if b == nil {
		return
	}
	c.mu.Lock()
	b.Finish()
	c.mu.Unlock()
}

// Reclaim implements spec §4.5's ReclaimCachedBlocksFromThreads: for
// every registered thread, steal its cached block under that thread's
// own lock (never the recorder lock) and finish it. Threads are
// independent of one another, so the walk fans out with a bounded
// errgroup instead of the strictly sequential walk the single-threaded
// original used — only FinishBlock's brief recorder.lock critical
// section needs to serialize.
func (c *blockRecorderCore) Reclaim() {
	span := trace.Begin(c.tracer, trace.ScopeReclaim, c.name+".reclaim", 0)
	defer span.End("")

	threads := c.registry.Threads()
	var g errgroup.Group
	g.SetLimit(reclaimConcurrency())
	for _, th := range threads {
		th := th
		g.Go(func() error {
			th.blockMu.Lock()
			b := th.block
			th.block = nil
			th.blockMu.Unlock()
			c.FinishBlock(b)
			return nil
		})
	}
	_ = g.Wait()
}

func reclaimConcurrency() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

func (c *blockRecorderCore) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pool.clearLocked()
}

func (c *blockRecorderCore) resetTimeTracking() {
	c.timeHigh = 0
	c.timeLow = maxInt64
}

func (c *blockRecorderCore) reportTime(micros int64) {
	if micros > c.timeHigh {
		c.timeHigh = micros
	}
	if micros < c.timeLow {
		c.timeLow = micros
	}
}

func (c *blockRecorderCore) timeOriginMicros() int64 {
	if c.timeHigh == 0 {
		return 0
	}
	return c.timeLow
}

func (c *blockRecorderCore) timeExtentMicros() int64 {
	if c.timeHigh == 0 {
		return 0
	}
	return c.timeHigh - c.timeLow
}

func (c *blockRecorderCore) threadNames() map[uint64]string {
	names := make(map[uint64]string)
	for _, th := range c.registry.Threads() {
		if n := th.Name(); n != "" {
			names[th.id] = n
		}
	}
	return names
}

// Snapshot implements spec §4.5's reporter-side iteration: re-lock the
// recorder, reset time tracking, walk the pool's blocks in its chosen
// order, and keep every event that passes the filter's block, event, and
// time-window predicates.
func (c *blockRecorderCore) Snapshot(filter EventFilter) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetTimeTracking()
	origin, extent := filter.Window()

	var events []Event
	c.pool.forEachBlock(func(b *Block) bool {
		if !filter.IncludeBlock(b) {
			return true
		}
		for i := 0; i < b.Length(); i++ {
			ev := b.At(i)
			if filter.IncludeEvent(ev) && ev.Within(origin, extent) {
				c.reportTime(ev.LowTime())
				c.reportTime(ev.HighTime())
				events = append(events, *ev)
			}
		}
		return true
	})

	return Snapshot{
		Events:           events,
		TimeOriginMicros: c.timeOriginMicros(),
		TimeExtentMicros: c.timeExtentMicros(),
		ThreadNames:      c.threadNames(),
	}
}

func (c *blockRecorderCore) Close() error { return nil }
