package timeline

import "math"

// Phase is the kind of trace point an [Event] records — the "ph" glyph
// family in Chrome Trace Event JSON.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseBegin
	PhaseEnd
	PhaseDuration
	PhaseInstant
	PhaseAsyncBegin
	PhaseAsyncInstant
	PhaseAsyncEnd
	PhaseCounter
	PhaseFlowBegin
	PhaseFlowStep
	PhaseFlowEnd
	PhaseMetadata
)

func (p Phase) String() string {
	switch p {
	case PhaseBegin:
		return "begin"
	case PhaseEnd:
		return "end"
	case PhaseDuration:
		return "duration"
	case PhaseInstant:
		return "instant"
	case PhaseAsyncBegin:
		return "async-begin"
	case PhaseAsyncInstant:
		return "async-instant"
	case PhaseAsyncEnd:
		return "async-end"
	case PhaseCounter:
		return "counter"
	case PhaseFlowBegin:
		return "flow-begin"
	case PhaseFlowStep:
		return "flow-step"
	case PhaseFlowEnd:
		return "flow-end"
	case PhaseMetadata:
		return "metadata"
	default:
		return "none"
	}
}

// NoIsolate is the sentinel isolate/isolate-group id meaning "not
// attached to any isolate", matching the ILLEGAL_PORT convention of the
// host this package is modeled on.
const NoIsolate uint64 = 0

// Event is one record of a trace point. An Event is only valid between a
// [Stream.StartEvent] call and the matching [Event.Complete], or while it
// lives inside a block that has not yet been reclaimed; callers must not
// retain a pointer to it past Complete, since the slot may be recycled.
type Event struct {
	Label     string
	ownsLabel bool

	phase Phase
	t0    int64 // TimeOrigin
	t1    int64 // end of a closed duration; overloaded with a correlation id for async/flow/begin/end
	ct0   int64 // thread-CPU time origin, or NoThreadCPUTime
	ct1   int64

	threadID       uint64
	isolateID      uint64
	isolateGroupID uint64

	stream *Stream
	args   Arguments

	preSerializedArgs bool

	// next chains heap-allocated events in the file recorder's FIFO.
	// Unused by block-based recorders.
	next *Event

	owner *Timeline
	clock Clock
}

// bind attaches identity (thread, isolate, owning stream/timeline) to a
// freshly handed-out event slot, prior to one of the phase constructors
// stamping timing information. Go has no thread-local "OSThread::Current"
// or "Isolate::Current" to read implicitly inside each phase constructor,
// so identity travels explicitly through bind instead — the context.Context
// based isolate propagation in [WithIsolate] plays the role the original's
// ambient thread/isolate globals played.
func (e *Event) bind(stream *Stream, owner *Timeline, threadID, isolateID, isolateGroupID uint64, clock Clock) {
	e.reset()
	e.stream = stream
	e.owner = owner
	e.threadID = threadID
	e.isolateID = isolateID
	e.isolateGroupID = isolateGroupID
	e.clock = clock
}

func (e *Event) reset() {
	e.phase = PhaseNone
	e.Label = ""
	e.ownsLabel = false
	e.t0, e.t1 = 0, 0
	e.ct0, e.ct1 = NoThreadCPUTime, NoThreadCPUTime
	e.args.Reset()
	e.preSerializedArgs = false
	e.next = nil
	e.stream = nil
	e.threadID = 0
	e.isolateID = NoIsolate
	e.isolateGroupID = NoIsolate
	e.owner = nil
}

// init stamps a fresh phase + label onto an already-bound event. It does
// not touch identity (thread/isolate/stream), mirroring the original's
// separation between TimelineEvent::Init (identity) and the phase
// constructors that call it once per emission — restructured here since
// identity is now set once at bind time instead of rediscovered from
// ambient thread-local state on every call.
func (e *Event) init(phase Phase, label string) {
	e.phase = phase
	e.Label = label
	e.t0, e.t1 = 0, 0
	e.ct0, e.ct1 = NoThreadCPUTime, NoThreadCPUTime
	e.args.Reset()
	e.preSerializedArgs = false
	e.ownsLabel = false
}

// AsyncBegin marks the start of an asynchronous operation identified by
// asyncID, emitted as Chrome phase "b".
func (e *Event) AsyncBegin(label string, asyncID, micros int64) {
	e.init(PhaseAsyncBegin, label)
	e.t0 = micros
	e.t1 = asyncID
}

// AsyncInstant marks an instant within an asynchronous operation ("n").
func (e *Event) AsyncInstant(label string, asyncID, micros int64) {
	e.init(PhaseAsyncInstant, label)
	e.t0 = micros
	e.t1 = asyncID
}

// AsyncEnd marks the end of an asynchronous operation ("e").
func (e *Event) AsyncEnd(label string, asyncID, micros int64) {
	e.init(PhaseAsyncEnd, label)
	e.t0 = micros
	e.t1 = asyncID
}

// DurationBegin opens a duration event that must later be closed with
// DurationEnd. Until closed, TimeDuration reports elapsed time against
// the clock rather than a fixed end timestamp.
func (e *Event) DurationBegin(label string, micros, threadMicros int64) {
	e.init(PhaseDuration, label)
	e.t0 = micros
	e.ct0 = threadMicros
}

// DurationEnd closes a duration previously opened with DurationBegin.
func (e *Event) DurationEnd(micros, threadMicros int64) {
	e.t1 = micros
	e.ct1 = threadMicros
}

// Duration records an already-complete span in a single call.
func (e *Event) Duration(label string, startMicros, endMicros, threadStartMicros, threadEndMicros int64) {
	e.init(PhaseDuration, label)
	e.t0 = startMicros
	e.t1 = endMicros
	e.ct0 = threadStartMicros
	e.ct1 = threadEndMicros
}

// Instant records a point-in-time mark ("i", scope "p").
func (e *Event) Instant(label string, micros int64) {
	e.init(PhaseInstant, label)
	e.t0 = micros
}

// Begin records the opening half of a correlated begin/end pair ("B").
func (e *Event) Begin(label string, id, micros, threadMicros int64) {
	e.init(PhaseBegin, label)
	e.t0 = micros
	e.ct0 = threadMicros
	e.t1 = id
}

// End records the closing half of a correlated begin/end pair ("E").
func (e *Event) End(label string, id, micros, threadMicros int64) {
	e.init(PhaseEnd, label)
	e.t0 = micros
	e.ct0 = threadMicros
	e.t1 = id
}

// Counter records a named numeric sample ("C"); the value itself travels
// in the event's arguments.
func (e *Event) Counter(label string, micros int64) {
	e.init(PhaseCounter, label)
	e.t0 = micros
}

// FlowBegin starts a flow correlated by flowID ("s").
func (e *Event) FlowBegin(label string, flowID, micros int64) {
	e.init(PhaseFlowBegin, label)
	e.t0 = micros
	e.t1 = flowID
}

// FlowStep records an intermediate step of a flow ("t").
func (e *Event) FlowStep(label string, flowID, micros int64) {
	e.init(PhaseFlowStep, label)
	e.t0 = micros
	e.t1 = flowID
}

// FlowEnd closes a flow ("f", with "bp":"e").
func (e *Event) FlowEnd(label string, flowID, micros int64) {
	e.init(PhaseFlowEnd, label)
	e.t0 = micros
	e.t1 = flowID
}

// Metadata records a metadata event ("M").
func (e *Event) Metadata(label string, micros int64) {
	e.init(PhaseMetadata, label)
	e.t0 = micros
}

// CompleteWithPreSerializedArgs attaches a single already-JSON-encoded
// argument object and completes the event in one step. It is the
// entry point the language-binding-style helpers in reporthelpers.go use,
// mirroring TimelineEvent::CompleteWithPreSerializedArgs.
func (e *Event) CompleteWithPreSerializedArgs(argsJSON string) {
	e.preSerializedArgs = true
	e.args.SetLen(1)
	e.args.Set(0, "Reported Arguments", argsJSON)
	e.Complete()
}

// Complete publishes the event back to its owning recorder and releases
// the recorder-lock slot acquired by Stream.StartEvent. After Complete
// returns, the event's backing slot may be reused; callers must not keep
// a reference to it.
func (e *Event) Complete() {
	if e.owner == nil {
		return
	}
	if rec := e.owner.recorderUnsafe(); rec != nil {
		rec.CompleteEvent(e)
	}
	e.owner.lock.Exit()
}

// Args gives callers write access to the event's argument vector before
// Complete is called.
func (e *Event) Args() *Arguments { return &e.args }

// StreamName returns the owning stream's name, or "" if the event has no
// stream (e.g. it was constructed directly for testing).
func (e *Event) StreamName() string {
	if e.stream == nil {
		return ""
	}
	return e.stream.name
}

// ThreadID returns the trace id of the thread that created the event.
func (e *Event) ThreadID() uint64 { return e.threadID }

// IsolateID and IsolateGroupID return the attached isolate identifiers,
// or [NoIsolate] if none were attached.
func (e *Event) IsolateID() uint64      { return e.isolateID }
func (e *Event) IsolateGroupID() uint64 { return e.isolateGroupID }

// Phase returns the event's phase.
func (e *Event) Phase() Phase { return e.phase }

// Id returns the 64-bit correlation id overloaded onto t1 for
// async/flow/begin/end phases.
func (e *Event) Id() int64 { return e.t1 }

// IsValid reports whether the event currently holds a real phase, i.e.
// it is not an empty/reset slot.
func (e *Event) IsValid() bool { return e.phase != PhaseNone }

func (e *Event) isFinishedDuration() bool {
	return e.phase == PhaseDuration && e.t1 != 0
}

// TimeOrigin returns the event's primary timestamp in microseconds.
func (e *Event) TimeOrigin() int64 { return e.t0 }

// TimeEnd returns the end timestamp of a finished duration. It is only
// meaningful when IsValid and the phase is PhaseDuration with a nonzero
// end.
func (e *Event) TimeEnd() int64 { return e.t1 }

// LowTime and HighTime bound the event's time interval, used by
// recorders to track the overall time window of a snapshot.
func (e *Event) LowTime() int64 { return e.t0 }

func (e *Event) HighTime() int64 {
	if e.phase == PhaseDuration {
		return e.t1
	}
	return e.t0
}

// TimeDuration returns the event's span length in microseconds. For an
// open duration (t1 == 0) it is "now" minus the start time, read from the
// event's clock at call time.
func (e *Event) TimeDuration() int64 {
	if e.phase != PhaseDuration {
		return 0
	}
	if e.t1 == 0 {
		return e.now() - e.t0
	}
	return e.t1 - e.t0
}

func (e *Event) now() int64 {
	if e.clock != nil {
		return e.clock.NowMicros()
	}
	return NowMicros()
}

// HasThreadCPUTime reports whether this event carries a thread-CPU
// timestamp (ct0 != NoThreadCPUTime).
func (e *Event) HasThreadCPUTime() bool { return e.ct0 != NoThreadCPUTime }

// ThreadCPUTimeOrigin returns the thread-CPU start timestamp. Only valid
// when HasThreadCPUTime is true.
func (e *Event) ThreadCPUTimeOrigin() int64 { return e.ct0 }

// ThreadCPUTimeDuration returns the thread-CPU span length, using the
// clock's current reading if the span is still open (ct1 == NoThreadCPUTime).
func (e *Event) ThreadCPUTimeDuration() int64 {
	if e.ct1 == NoThreadCPUTime {
		cpu := NoThreadCPUTime
		if e.clock != nil {
			cpu = e.clock.ThreadCPUMicros()
		}
		return cpu - e.ct0
	}
	return e.ct1 - e.ct0
}

// Within reports whether the event falls inside the window
// [originMicros, originMicros+extentMicros]. A window with either bound
// equal to -1 matches unconditionally. Closed durations match by
// interval intersection; everything else matches by containment of its
// single timestamp.
func (e *Event) Within(originMicros, extentMicros int64) bool {
	if originMicros == -1 || extentMicros == -1 {
		return true
	}
	if e.isFinishedDuration() {
		e0, e1 := e.TimeOrigin(), e.TimeEnd()
		r0, r1 := originMicros, originMicros+extentMicros
		return !(r1 < e0 || e1 < r0)
	}
	delta := e.TimeOrigin() - originMicros
	return delta >= 0 && delta <= extentMicros
}

const maxInt64 = math.MaxInt64
