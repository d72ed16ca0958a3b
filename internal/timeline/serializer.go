package timeline

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// jsonWriter is the concrete rendition of spec §6's "JSON writer
// primitive": open/close object/array, scalar property writes, and a
// raw splice for already-serialized payloads. It is written directly
// against an io.Writer rather than building values first, since the
// event volume a recorder can produce makes an intermediate tree
// wasteful on the hot serialization path.
type jsonWriter struct {
	w   io.Writer
	err error
}

func newJSONWriter(w io.Writer) *jsonWriter { return &jsonWriter{w: w} }

func (j *jsonWriter) raw(s string) {
	if j.err != nil {
		return
	}
	_, j.err = io.WriteString(j.w, s)
}

func (j *jsonWriter) quote(s string) {
	j.raw(strconv.Quote(s))
}

func (j *jsonWriter) openObject() { j.raw("{") }
func (j *jsonWriter) closeObject() { j.raw("}") }

// property writes `"name":` followed by the already-encoded value v,
// with a leading comma if this is not the object's first property.
func (j *jsonWriter) property(first *bool, name, rawValue string) {
	if !*first {
		j.raw(",")
	}
	*first = false
	j.quote(name)
	j.raw(":")
	j.raw(rawValue)
}

func (j *jsonWriter) stringProperty(first *bool, name, value string) {
	j.property(first, name, strconv.Quote(value))
}

func (j *jsonWriter) intProperty(first *bool, name string, value int64) {
	j.property(first, name, strconv.FormatInt(value, 10))
}

// phaseGlyph returns the Chrome Trace Event "ph" character for a phase,
// per spec §4.1's table.
func phaseGlyph(p Phase) string {
	switch p {
	case PhaseBegin:
		return "B"
	case PhaseEnd:
		return "E"
	case PhaseDuration:
		return "X"
	case PhaseInstant:
		return "i"
	case PhaseAsyncBegin:
		return "b"
	case PhaseAsyncInstant:
		return "n"
	case PhaseAsyncEnd:
		return "e"
	case PhaseCounter:
		return "C"
	case PhaseFlowBegin:
		return "s"
	case PhaseFlowStep:
		return "t"
	case PhaseFlowEnd:
		return "f"
	case PhaseMetadata:
		return "M"
	default:
		return "?"
	}
}

// hexID formats a correlation id the way Chrome Trace Event expects for
// async/flow phases: lowercase hex, no leading "0x".
func hexID(id int64) string {
	return strconv.FormatUint(uint64(id), 16)
}

// writeArgs emits the "args" property. A pre-serialized event carries
// exactly one argument whose value is already a JSON object; per spec
// §4.6 it is spliced verbatim and then re-opened to append isolate ids
// when present, rather than re-encoded. Otherwise each name/value pair
// becomes a JSON string property.
func writeArgs(j *jsonWriter, e *Event, first *bool) {
	if !*first {
		j.raw(",")
	}
	*first = false
	j.quote("args")
	j.raw(":")

	hasIsolate := e.isolateID != NoIsolate || e.isolateGroupID != NoIsolate

	if e.preSerializedArgs && e.args.Len() == 1 {
		_, payload := e.args.At(0)
		payload = strings.TrimSpace(payload)
		if !hasIsolate {
			j.raw(payload)
			return
		}
		// Re-open the spliced object to append isolate ids, per §4.6.
		body := strings.TrimSuffix(payload, "}")
		empty := strings.TrimSpace(body) == "{"
		j.raw(body)
		if !empty {
			j.raw(",")
		}
		// The comma before the first appended property, if any, was
		// already written above — argFirst starts true either way.
		argFirst := true
		writeIsolateProps(j, e, &argFirst)
		j.raw("}")
		return
	}

	j.openObject()
	argFirst := true
	for i := 0; i < e.args.Len(); i++ {
		name, value := e.args.At(i)
		j.stringProperty(&argFirst, name, value)
	}
	if hasIsolate {
		writeIsolateProps(j, e, &argFirst)
	}
	j.closeObject()
}

func writeIsolateProps(j *jsonWriter, e *Event, first *bool) {
	if e.isolateID != NoIsolate {
		j.intProperty(first, "isolateId", int64(e.isolateID))
	}
	if e.isolateGroupID != NoIsolate {
		j.intProperty(first, "isolateGroupId", int64(e.isolateGroupID))
	}
}

// writeEventJSON writes one Chrome Trace Event JSON object for e (no
// surrounding array brackets or trailing separator — callers that emit a
// sequence of these are responsible for the commas between them).
// writeEventJSON never emits thread_name events — see
// writeThreadNameJSON for that.
func writeEventJSON(w io.Writer, e *Event, pid int64) error {
	j := newJSONWriter(w)
	j.openObject()

	first := true
	j.stringProperty(&first, "name", e.Label)
	if e.stream != nil {
		j.stringProperty(&first, "cat", e.stream.name)
	} else {
		j.property(&first, "cat", "null")
	}
	j.intProperty(&first, "tid", int64(e.threadID))
	j.intProperty(&first, "pid", pid)
	j.intProperty(&first, "ts", e.TimeOrigin())
	if e.HasThreadCPUTime() {
		j.intProperty(&first, "tts", e.ThreadCPUTimeOrigin())
	}
	j.stringProperty(&first, "ph", phaseGlyph(e.phase))

	switch e.phase {
	case PhaseDuration:
		j.intProperty(&first, "dur", e.t1-e.t0)
		if e.HasThreadCPUTime() && e.ct1 != NoThreadCPUTime {
			j.intProperty(&first, "tdur", e.ct1-e.ct0)
		}
	case PhaseBegin, PhaseEnd, PhaseAsyncBegin, PhaseAsyncInstant, PhaseAsyncEnd,
		PhaseFlowBegin, PhaseFlowStep, PhaseFlowEnd:
		j.stringProperty(&first, "id", hexID(e.Id()))
		if e.phase == PhaseFlowEnd {
			j.stringProperty(&first, "bp", "e")
		}
	}
	if e.phase == PhaseInstant {
		j.stringProperty(&first, "s", "p")
	}

	writeArgs(j, e, &first)
	j.closeObject()
	return j.err
}

// writeThreadNameJSON emits the "thread_name" metadata event spec §4's
// supplemented feature #2 recovers from the original's
// TimelineEventRecorder::PrintJSONMeta: one ph:"M" event per named
// thread, ahead of the real trace events.
func writeThreadNameJSON(w io.Writer, pid int64, threadID uint64, name string) error {
	j := newJSONWriter(w)
	j.openObject()
	first := true
	j.stringProperty(&first, "name", "thread_name")
	j.property(&first, "cat", "null")
	j.intProperty(&first, "tid", int64(threadID))
	j.intProperty(&first, "pid", pid)
	j.intProperty(&first, "ts", 0)
	j.stringProperty(&first, "ph", "M")
	j.raw(",")
	j.quote("args")
	j.raw(":")
	j.openObject()
	argFirst := true
	j.stringProperty(&argFirst, "name", fmt.Sprintf("%s (%d)", name, threadID))
	j.closeObject()
	j.closeObject()
	return j.err
}

// WriteServiceJSON renders snap as the service-endpoint shape spec §6
// names: {"type":"Timeline","traceEvents":[...],"timeOriginMicros":...,
// "timeExtentMicros":...}. Thread-name metadata events (spec
// SUPPLEMENTED FEATURES #2) are emitted first, in thread-id order, ahead
// of the real trace events so tools see names before first use.
func WriteServiceJSON(w io.Writer, snap Snapshot, pid int64) error {
	j := newJSONWriter(w)
	j.openObject()
	first := true
	j.stringProperty(&first, "type", "Timeline")

	j.raw(",")
	j.quote("traceEvents")
	j.raw(":[")
	wroteAny := false
	for _, id := range sortedThreadIDs(snap.ThreadNames) {
		if wroteAny {
			j.raw(",")
		}
		if j.err == nil {
			j.err = writeThreadNameJSON(j.w, pid, id, snap.ThreadNames[id])
		}
		wroteAny = true
	}
	for i := range snap.Events {
		if wroteAny {
			j.raw(",")
		}
		if j.err == nil {
			j.err = writeEventJSON(j.w, &snap.Events[i], pid)
		}
		wroteAny = true
	}
	j.raw("]")

	j.intProperty(&first, "timeOriginMicros", snap.TimeOriginMicros)
	j.intProperty(&first, "timeExtentMicros", snap.TimeExtentMicros)
	j.closeObject()
	return j.err
}

// WriteFileJSON renders snap as the bare-array shape spec §6 names for
// the file recorder's own format: [ event, event, ... ] with no wrapping
// object. Block-based recorders use this when a caller asks them to dump
// to a file instead of the service-protocol shape.
func WriteFileJSON(w io.Writer, snap Snapshot, pid int64) error {
	j := newJSONWriter(w)
	j.raw("[\n")
	wroteAny := false
	for _, id := range sortedThreadIDs(snap.ThreadNames) {
		if wroteAny {
			j.raw(",\n")
		}
		if j.err == nil {
			j.err = writeThreadNameJSON(j.w, pid, id, snap.ThreadNames[id])
		}
		wroteAny = true
	}
	for i := range snap.Events {
		if wroteAny {
			j.raw(",\n")
		}
		if j.err == nil {
			j.err = writeEventJSON(j.w, &snap.Events[i], pid)
		}
		wroteAny = true
	}
	j.raw("\n]\n")
	return j.err
}

func sortedThreadIDs(names map[uint64]string) []uint64 {
	ids := make([]uint64, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
