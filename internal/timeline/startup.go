package timeline

import "surge-timeline/internal/trace"

// StartupRecorder is a fixed-capacity block recorder that, unlike
// [RingRecorder], never recycles a block: once every block in the pool has
// been handed out, GetNewBlock returns nil and writers silently drop
// events from then on (spec §4.4's "startup" strategy — meant to capture
// the first N events of a process and nothing after).
type StartupRecorder struct {
	core *blockRecorderCore

	blockSize int
	blocks    []*Block
	cursor    int
}

// NewStartupRecorder returns a StartupRecorder with room for capacity
// blocks of blockSize events each.
func NewStartupRecorder(registry *ThreadRegistry, capacity, blockSize int) *StartupRecorder {
	if capacity <= 0 {
		capacity = 1
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	r := &StartupRecorder{blockSize: blockSize, blocks: make([]*Block, 0, capacity)}
	r.core = newBlockRecorderCore("Startup", registry, r)
	return r
}

func (r *StartupRecorder) getNewBlockLocked() *Block {
	if r.cursor == cap(r.blocks) {
		return nil
	}
	b := NewBlock(r.blockSize, int64(r.cursor))
	th := r.core.registry.Current()
	b.Open(th.id)
	r.blocks = append(r.blocks, b)
	r.cursor++
	return b
}

func (r *StartupRecorder) forEachBlock(visit func(*Block) bool) {
	for _, b := range r.blocks {
		if !visit(b) {
			return
		}
	}
}

func (r *StartupRecorder) clearLocked() {
	r.blocks = r.blocks[:0]
	r.cursor = 0
}

func (r *StartupRecorder) Name() string                        { return r.core.Name() }
func (r *StartupRecorder) StartEvent() *Event                  { return r.core.StartEvent() }
func (r *StartupRecorder) CompleteEvent(e *Event)               { r.core.CompleteEvent(e) }
func (r *StartupRecorder) Clear()                               { r.core.Clear() }
func (r *StartupRecorder) Snapshot(filter EventFilter) Snapshot { return r.core.Snapshot(filter) }
func (r *StartupRecorder) Close() error                         { return r.core.Close() }

// Full reports whether the pool is exhausted — once true, no new block is
// handed out, so StartEvent returns nil for any goroutine whose cached
// block is full or absent. A goroutine whose cached block still has room
// keeps getting slots from it.
func (r *StartupRecorder) Full() bool { return r.cursor == cap(r.blocks) }

// Reclaim steals every thread's cached block, per spec §4.5.
func (r *StartupRecorder) Reclaim() { r.core.Reclaim() }

// SetTracer wires a self-diagnostic tracer into the shared core; see
// [blockRecorderCore.SetTracer].
func (r *StartupRecorder) SetTracer(t trace.Tracer) { r.core.SetTracer(t) }
