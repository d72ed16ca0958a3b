package timeline

import "surge-timeline/internal/trace"

// EndlessRecorder retains every block ever allocated in a singly-linked
// list with monotonically increasing block indices — spec §4.4's
// "endless" strategy. Memory is unbounded; it exists for short-lived
// processes or offline analysis where losing events is unacceptable.
type EndlessRecorder struct {
	core *blockRecorderCore

	blockSize int
	head      *Block
	tail      *Block
	nextIndex int64
}

// NewEndlessRecorder returns an EndlessRecorder allocating blockSize
// events per block.
func NewEndlessRecorder(registry *ThreadRegistry, blockSize int) *EndlessRecorder {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	r := &EndlessRecorder{blockSize: blockSize}
	r.core = newBlockRecorderCore("Endless", registry, r)
	return r
}

func (r *EndlessRecorder) getNewBlockLocked() *Block {
	b := NewBlock(r.blockSize, r.nextIndex)
	r.nextIndex++
	th := r.core.registry.Current()
	b.Open(th.id)

	if r.tail == nil {
		r.head = b
		r.tail = b
	} else {
		r.tail.next = b
		r.tail = b
	}
	return b
}

func (r *EndlessRecorder) forEachBlock(visit func(*Block) bool) {
	for b := r.head; b != nil; b = b.next {
		if !visit(b) {
			return
		}
	}
}

func (r *EndlessRecorder) clearLocked() {
	r.head = nil
	r.tail = nil
	r.nextIndex = 0
}

func (r *EndlessRecorder) Name() string                        { return r.core.Name() }
func (r *EndlessRecorder) StartEvent() *Event                  { return r.core.StartEvent() }
func (r *EndlessRecorder) CompleteEvent(e *Event)               { r.core.CompleteEvent(e) }
func (r *EndlessRecorder) Clear()                               { r.core.Clear() }
func (r *EndlessRecorder) Snapshot(filter EventFilter) Snapshot { return r.core.Snapshot(filter) }
func (r *EndlessRecorder) Close() error                         { return r.core.Close() }

// Reclaim steals every thread's cached block, per spec §4.5.
func (r *EndlessRecorder) Reclaim() { r.core.Reclaim() }

// SetTracer wires a self-diagnostic tracer into the shared core; see
// [blockRecorderCore.SetTracer].
func (r *EndlessRecorder) SetTracer(t trace.Tracer) { r.core.SetTracer(t) }

// BlockCount returns the number of blocks currently retained, for tests
// and diagnostics.
func (r *EndlessRecorder) BlockCount() int {
	n := 0
	r.core.mu.Lock()
	for b := r.head; b != nil; b = b.next {
		n++
	}
	r.core.mu.Unlock()
	return n
}
