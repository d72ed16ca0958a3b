package timeline

import "surge-timeline/internal/trace"

// RingRecorder retains the most recent capacity blocks, overwriting the
// oldest once full — spec §4.4's "ring" strategy, modeled on the
// original's fixed-size circular TimelineEventRingRecorder.
type RingRecorder struct {
	core *blockRecorderCore

	blockSize int
	blocks    []*Block
	cursor    int // index of the next block to allocate
	wrapped   bool
}

// NewRingRecorder returns a RingRecorder holding up to capacity blocks of
// blockSize events each.
func NewRingRecorder(registry *ThreadRegistry, capacity, blockSize int) *RingRecorder {
	if capacity <= 0 {
		capacity = 1
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	r := &RingRecorder{blockSize: blockSize, blocks: make([]*Block, capacity)}
	r.core = newBlockRecorderCore("Ring", registry, r)
	return r
}

func (r *RingRecorder) getNewBlockLocked() *Block {
	th := r.core.registry.Current()

	b := r.blocks[r.cursor]
	switch {
	case b == nil:
		b = NewBlock(r.blockSize, int64(r.cursor))
		r.blocks[r.cursor] = b
	case !r.reclaimSlotLocked(b):
		// The slot's block is still open under a writer we can't stop
		// without risking a lock-order deadlock against that writer's
		// own rotation (see reclaimSlotLocked). Leave it alone and mint
		// a fresh block in its place; the old one drops out of the ring
		// once its owner finishes it, same as any other overwritten
		// slot under the ring's lossy retention policy.
		b = NewBlock(r.blockSize, int64(r.cursor))
		r.blocks[r.cursor] = b
	}
	b.Open(th.id)

	r.cursor++
	if r.cursor == len(r.blocks) {
		r.cursor = 0
		r.wrapped = true
	}
	return b
}

// reclaimSlotLocked resets b for reuse, reporting whether it succeeded.
// If b is already finished, resetting it is safe outright: nothing holds
// a reference to its fields anymore. If b is still open, its owning
// thread might be mid-append inside Block.startEvent, which touches the
// same b.length/b.events fields Reset zeroes — Reset must not run
// concurrently with that.
//
// The natural fix is to take the owner's blockMu before resetting, but
// StartEvent always acquires its own blockMu before it can need
// recorder.lock (the lock getNewBlockLocked is already called under), so
// blocking here on owner.blockMu while holding recorder.lock would
// deadlock against an owner that's simultaneously blocked on
// recorder.lock to rotate its own block. TryLock sidesteps that: either
// it succeeds and the slot is reclaimed, or it doesn't and the caller
// falls back to a fresh block instead of waiting.
func (r *RingRecorder) reclaimSlotLocked(b *Block) bool {
	if !b.InUse() {
		b.Reset()
		return true
	}

	owner := r.core.registry.handleByID(b.ThreadID())
	if owner == nil {
		return false
	}
	if !owner.blockMu.TryLock() {
		return false
	}
	defer owner.blockMu.Unlock()

	if owner.block == b {
		owner.block = nil
	}
	b.Reset()
	return true
}

// forEachBlock visits blocks oldest-first: once the ring has wrapped, that
// is the current cursor position (the slot about to be overwritten next);
// before it wraps, it is simply index 0.
func (r *RingRecorder) forEachBlock(visit func(*Block) bool) {
	start := 0
	if r.wrapped {
		start = r.cursor
	}
	n := len(r.blocks)
	for i := 0; i < n; i++ {
		b := r.blocks[(start+i)%n]
		if b == nil {
			continue
		}
		if !visit(b) {
			return
		}
	}
}

func (r *RingRecorder) clearLocked() {
	// TODO(timeline): Clear is meant for between-run resets, not hot-path
	// use, so it doesn't go through reclaimSlotLocked. A Clear racing a
	// live writer has the same unsynchronized Reset/startEvent exposure
	// getNewBlockLocked used to have.
	for _, b := range r.blocks {
		if b != nil {
			b.Reset()
		}
	}
	r.cursor = 0
	r.wrapped = false
}

func (r *RingRecorder) Name() string                            { return r.core.Name() }
func (r *RingRecorder) StartEvent() *Event                      { return r.core.StartEvent() }
func (r *RingRecorder) CompleteEvent(e *Event)                  { r.core.CompleteEvent(e) }
func (r *RingRecorder) Clear()                                  { r.core.Clear() }
func (r *RingRecorder) Snapshot(filter EventFilter) Snapshot     { return r.core.Snapshot(filter) }
func (r *RingRecorder) Close() error                            { return r.core.Close() }

func (r *RingRecorder) TimeOriginMicros() int64 { return r.core.timeOriginMicros() }
func (r *RingRecorder) TimeExtentMicros() int64 { return r.core.timeExtentMicros() }

// Reclaim steals every thread's cached block, per spec §4.5.
func (r *RingRecorder) Reclaim() { r.core.Reclaim() }

// SetTracer wires a self-diagnostic tracer into the shared core; see
// [blockRecorderCore.SetTracer].
func (r *RingRecorder) SetTracer(t trace.Tracer) { r.core.SetTracer(t) }
