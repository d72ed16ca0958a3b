package timeline

import (
	"context"
	"sync/atomic"
)

// This file is the Go rendition of spec §6's "native entry points" — the
// narrow surface a language binding calls into user-level
// reportTaskEvent/reportFlowEvent/reportInstantEvent. All three route
// through the "Dart" stream; when that stream is disabled they are
// no-ops, per spec §7, without allocating any argument storage.

// TaskPhase is the restricted phase alphabet reportTaskEvent accepts,
// spec §6: n (async instant), b (async begin), e (async end), B (begin),
// E (end).
type TaskPhase byte

const (
	TaskInstant TaskPhase = 'n'
	TaskBegin   TaskPhase = 'b'
	TaskEnd     TaskPhase = 'e'
	TaskSyncBegin TaskPhase = 'B'
	TaskSyncEnd   TaskPhase = 'E'
)

// FlowType mirrors the three flow phases reportFlowEvent accepts.
type FlowType uint8

const (
	FlowBegin FlowType = iota
	FlowStep
	FlowEnd
)

var nextTaskID atomic.Int64

// GetNextTaskId returns a fresh, process-wide unique async/task
// correlation id, spec §6's getNextTaskId().
func GetNextTaskId() int64 { return nextTaskID.Add(1) }

// IsDartStreamEnabled reports whether tl's "Dart" stream currently
// accepts events — spec §6's isDartStreamEnabled().
func (tl *Timeline) IsDartStreamEnabled() bool {
	s := tl.Stream("Dart")
	return s != nil && s.Enabled()
}

// GetTraceClock returns the facade's monotonic clock reading in
// microseconds — spec §6's getTraceClock().
func (tl *Timeline) GetTraceClock() int64 {
	if tl.clock != nil {
		return tl.clock.NowMicros()
	}
	return NowMicros()
}

// ReportTaskEvent implements spec §6's reportTaskEvent: id is the
// async/begin-end correlation id, phase selects which Event constructor
// to call, name becomes the label, and argsJSON — if non-empty — is
// attached as a pre-serialized argument object. The event always goes to
// the "Dart" stream; category is not used.
func (tl *Timeline) ReportTaskEvent(ctx context.Context, id int64, phase TaskPhase, category, name, argsJSON string) {
	switch phase {
	case TaskInstant, TaskBegin, TaskEnd, TaskSyncBegin, TaskSyncEnd:
	default:
		// Unreachable from a well-behaved binding; spec §7 treats an
		// invalid phase glyph as a programmer error in the binding, not
		// a recoverable condition. Drop the event before any slot is
		// reserved for it rather than emit garbage.
		return
	}
	stream := tl.Stream("Dart")
	if stream == nil {
		return
	}
	ev := stream.StartEvent(ctx)
	if ev == nil {
		return
	}
	now := tl.GetTraceClock()
	switch phase {
	case TaskInstant:
		ev.AsyncInstant(name, id, now)
	case TaskBegin:
		ev.AsyncBegin(name, id, now)
	case TaskEnd:
		ev.AsyncEnd(name, id, now)
	case TaskSyncBegin:
		ev.Begin(name, id, now, NoThreadCPUTime)
	case TaskSyncEnd:
		ev.End(name, id, now, NoThreadCPUTime)
	}
	completeWithArgs(ev, argsJSON)
}

// ReportFlowEvent implements spec §6's reportFlowEvent.
func (tl *Timeline) ReportFlowEvent(ctx context.Context, category, name string, flowType FlowType, flowID int64, argsJSON string) {
	stream := tl.Stream("Dart")
	if stream == nil {
		return
	}
	ev := stream.StartEvent(ctx)
	if ev == nil {
		return
	}
	now := tl.GetTraceClock()
	switch flowType {
	case FlowBegin:
		ev.FlowBegin(name, flowID, now)
	case FlowStep:
		ev.FlowStep(name, flowID, now)
	case FlowEnd:
		ev.FlowEnd(name, flowID, now)
	}
	completeWithArgs(ev, argsJSON)
}

// ReportInstantEvent implements spec §6's reportInstantEvent.
func (tl *Timeline) ReportInstantEvent(ctx context.Context, category, name, argsJSON string) {
	stream := tl.Stream("Dart")
	if stream == nil {
		return
	}
	ev := stream.StartEvent(ctx)
	if ev == nil {
		return
	}
	ev.Instant(name, tl.GetTraceClock())
	completeWithArgs(ev, argsJSON)
}

func completeWithArgs(ev *Event, argsJSON string) {
	if argsJSON == "" || argsJSON == "{}" {
		ev.Complete()
		return
	}
	ev.CompleteWithPreSerializedArgs(argsJSON)
}
