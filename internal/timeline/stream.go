package timeline

import (
	"context"
	"sync/atomic"
)

// Stream is a named, independently-enabled channel of events — the "cat"
// field in Chrome Trace Event JSON. Streams are declared once by the
// [Timeline] that owns them and outlive every event created through them.
type Stream struct {
	name            string
	platformAlias   string
	hasStaticLabels bool
	enabled         atomic.Bool

	owner *Timeline
}

// Name returns the stream's name.
func (s *Stream) Name() string { return s.name }

// Enabled reports whether the stream currently accepts events.
func (s *Stream) Enabled() bool { return s.enabled.Load() }

// SetEnabled toggles the stream.
func (s *Stream) SetEnabled(v bool) { s.enabled.Store(v) }

// StartEvent is the writer-side entry point (spec §4.2): it enters the
// recorder-lock, checks that the stream is enabled and a recorder exists
// and shutdown is not underway, and then asks the recorder for a
// writable slot. It returns nil — having already released the lock — on
// any of those failures; the only way to hold a non-nil Event afterward
// is to eventually call [Event.Complete] on it.
func (s *Stream) StartEvent(ctx context.Context) *Event {
	if s.owner == nil {
		return nil
	}
	if !s.owner.lock.Enter() {
		return nil
	}
	rec := s.owner.recorderUnsafe()
	if !s.Enabled() || rec == nil || s.owner.lock.IsShuttingDown() {
		s.owner.lock.Exit()
		return nil
	}
	ev := rec.StartEvent()
	if ev == nil {
		s.owner.lock.Exit()
		return nil
	}
	isolateID, isolateGroupID := IsolateFromContext(ctx)
	ev.bind(s, s.owner, s.owner.threadRegistry.Current().id, isolateID, isolateGroupID, s.owner.clock)
	return ev
}

type isolateCtxKey struct{}

type isolateInfo struct {
	id      uint64
	groupID uint64
}

// WithIsolate attaches isolate identifiers to ctx, to be read by the next
// [Stream.StartEvent] call made with it. This plays the role the
// original's ambient "current isolate" thread-local played; Go code
// threads the value explicitly instead.
func WithIsolate(ctx context.Context, isolateID, isolateGroupID uint64) context.Context {
	return context.WithValue(ctx, isolateCtxKey{}, isolateInfo{id: isolateID, groupID: isolateGroupID})
}

// IsolateFromContext returns the isolate identifiers attached by
// WithIsolate, or (NoIsolate, NoIsolate) if none were attached.
func IsolateFromContext(ctx context.Context) (isolateID, isolateGroupID uint64) {
	if ctx == nil {
		return NoIsolate, NoIsolate
	}
	if info, ok := ctx.Value(isolateCtxKey{}).(isolateInfo); ok {
		return info.id, info.groupID
	}
	return NoIsolate, NoIsolate
}
