package timeline

import (
	"runtime"
	"sync/atomic"
)

// RecorderLock is the RCU-like shutdown gate described in spec §4.7: a
// shutdown flag plus an in-flight writer counter. Every event-emitting
// call brackets itself between Enter and Exit so that teardown can wait
// for all in-flight writes to finish before freeing the recorder.
type RecorderLock struct {
	shutdown    atomic.Bool
	outstanding atomic.Int64
}

// Enter records one in-flight write. It returns false, without having
// registered anything, if shutdown has already been requested — in which
// case the caller must not touch the recorder. The increment-then-check
// ordering (rather than check-then-increment) is what lets WaitForShutdown
// observe a count that never again leaves zero once it returns: any Enter
// racing the shutdown flag undoes its own increment before returning.
func (r *RecorderLock) Enter() bool {
	r.outstanding.Add(1)
	if r.shutdown.Load() {
		r.outstanding.Add(-1)
		return false
	}
	return true
}

// Exit releases one in-flight write registered by a successful Enter.
func (r *RecorderLock) Exit() {
	r.outstanding.Add(-1)
}

// IsShuttingDown reports whether WaitForShutdown has been called.
func (r *RecorderLock) IsShuttingDown() bool {
	return r.shutdown.Load()
}

// WaitForShutdown marks the lock as shutting down and blocks until every
// outstanding writer has called Exit. After it returns, no later Enter
// call can leave the counter above zero, so it is safe to free the
// recorder.
func (r *RecorderLock) WaitForShutdown() {
	r.shutdown.Store(true)
	for r.outstanding.Load() != 0 {
		runtime.Gosched()
	}
}

// reset clears the lock back to its zero state, used by the facade when
// a Timeline is reused after Cleanup.
func (r *RecorderLock) reset() {
	r.shutdown.Store(false)
	r.outstanding.Store(0)
}

// Scope brackets a single Enter/Exit pair with a deferrable Close, mirror
// of the original's RecorderLockScope RAII helper used around
// Timeline::Clear and Timeline::ReclaimCachedBlocksFromThreads.
type Scope struct {
	lock    *RecorderLock
	entered bool
}

// NewScope enters the lock and returns a Scope; Close must be called
// exactly once, typically via defer.
func (r *RecorderLock) NewScope() *Scope {
	return &Scope{lock: r, entered: r.Enter()}
}

// IsShuttingDown reports whether the scope failed to enter (because
// shutdown was already in progress) or the lock is shutting down now.
func (s *Scope) IsShuttingDown() bool {
	return !s.entered || s.lock.IsShuttingDown()
}

// Close releases the scope's Enter, if it succeeded.
func (s *Scope) Close() {
	if s.entered {
		s.lock.Exit()
		s.entered = false
	}
}
