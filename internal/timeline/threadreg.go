package timeline

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// goroutineID extracts the calling goroutine's id by parsing
// runtime.Stack's header line. This mirrors the technique the rest of the
// pack uses to avoid linkname/unsafe tricks (see span.go's getGoroutineID
// in the tracer this package is adapted from); it is best-effort and only
// used as a cache key, never for correctness-critical identity.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		return 0
	}
	b = b[len(prefix):]
	end := bytes.IndexByte(b, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(b[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ThreadHandle stands in for an OSThread: it is the collaborator a block
// recorder needs to cache a per-writer block and the lock guarding it.
// Callers never construct one directly; [ThreadRegistry.Current] hands
// out exactly one ThreadHandle per live goroutine.
type ThreadHandle struct {
	// id is the stable "trace id" assigned when the handle is created; it
	// is what ends up in the serialized "tid" field.
	id uint64

	name atomic.Pointer[string]

	// blockMu is timeline_block_lock: held across an event's lifetime by
	// whichever recorder currently owns this thread's cached block.
	blockMu sync.Mutex
	block   *Block
}

// ID returns the trace id serialized as "tid" in trace-event JSON.
func (h *ThreadHandle) ID() uint64 { return h.id }

// Name returns the human-readable name set via SetName, or "" if none was
// set. A nameless thread is omitted from the "thread_name" metadata
// events the serializer emits (matching the host-original's behavior of
// only naming threads that were explicitly named).
func (h *ThreadHandle) Name() string {
	if p := h.name.Load(); p != nil {
		return *p
	}
	return ""
}

// SetName attaches a human-readable name to the thread, surfaced later as
// a "thread_name" metadata event.
func (h *ThreadHandle) SetName(name string) {
	h.name.Store(&name)
}

// ThreadRegistry is the collaborator the spec calls "the OS-thread
// registry": enumeration of live threads, a per-thread lock, and a
// per-thread open-block slot. Go has no OS-thread-local storage
// equivalent, so threads are keyed by goroutine id — a soft identity
// that is stable for a goroutine's lifetime, which is all the per-thread
// slot protocol needs.
type ThreadRegistry struct {
	byGoroutine sync.Map // goroutine id (uint64) -> *ThreadHandle
	nextID      atomic.Uint64

	mu      sync.Mutex // guards threads; only taken when registering a new handle
	threads []*ThreadHandle
}

// NewThreadRegistry returns an empty registry.
func NewThreadRegistry() *ThreadRegistry {
	return &ThreadRegistry{}
}

// Current returns the calling goroutine's ThreadHandle, creating one on
// first use. The fast path (an already-registered goroutine) only touches
// a sync.Map, keeping the hot path close to lock-free.
func (r *ThreadRegistry) Current() *ThreadHandle {
	gid := goroutineID()
	if v, ok := r.byGoroutine.Load(gid); ok {
		return v.(*ThreadHandle)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check under the registration lock: another goroutine with the
	// same (rare, zero) gid lookup failure may have raced us here.
	if v, ok := r.byGoroutine.Load(gid); ok {
		return v.(*ThreadHandle)
	}
	h := &ThreadHandle{id: r.nextID.Add(1)}
	r.byGoroutine.Store(gid, h)
	r.threads = append(r.threads, h)
	return h
}

// Threads returns a snapshot of every thread handle ever registered, in
// registration order. Used by reclamation and by thread_name metadata
// emission; it is safe to call concurrently with Current.
func (r *ThreadRegistry) Threads() []*ThreadHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ThreadHandle, len(r.threads))
	copy(out, r.threads)
	return out
}

// handleByID returns the registered handle whose trace id matches id, or
// nil. Used by the ring recorder to find the owner of a block it's about
// to recycle, since a Block only remembers the id, not the handle.
func (r *ThreadRegistry) handleByID(id uint64) *ThreadHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, th := range r.threads {
		if th.id == id {
			return th
		}
	}
	return nil
}
