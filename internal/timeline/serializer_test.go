package timeline

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSerializePreSerializedArgsNoIsolate(t *testing.T) {
	var e Event
	e.Instant("x", 1)
	e.CompleteWithPreSerializedArgs(`{"a":1,"b":2}`)

	var buf strings.Builder
	if err := writeEventJSON(&buf, &e, 1); err != nil {
		t.Fatalf("writeEventJSON: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"args":{"a":1,"b":2}`) {
		t.Fatalf("pre-serialized args must be spliced verbatim, got: %s", out)
	}
}

func TestSerializePreSerializedArgsWithIsolate(t *testing.T) {
	var e Event
	e.Instant("x", 1)
	e.isolateID = 7
	e.isolateGroupID = 9
	e.CompleteWithPreSerializedArgs(`{"a":1}`)

	var buf strings.Builder
	if err := writeEventJSON(&buf, &e, 1); err != nil {
		t.Fatalf("writeEventJSON: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"a":1`) || !strings.Contains(out, `"isolateId":7`) || !strings.Contains(out, `"isolateGroupId":9`) {
		t.Fatalf("expected spliced object plus isolate ids, got: %s", out)
	}
	if strings.Contains(out, ",}") || strings.Contains(out, "{,") {
		t.Fatalf("re-opened object must not have stray commas: %s", out)
	}
}

func TestSerializeEmptyPreSerializedArgsWithIsolate(t *testing.T) {
	var e Event
	e.Instant("x", 1)
	e.isolateID = 7
	e.CompleteWithPreSerializedArgs(`{}`)

	var buf strings.Builder
	writeEventJSON(&buf, &e, 1)
	out := buf.String()
	if !strings.Contains(out, `"args":{"isolateId":7}`) {
		t.Fatalf("empty spliced object plus isolate id must have no leading comma, got: %s", out)
	}
}

func TestSerializeFlowEndHasBreakpoint(t *testing.T) {
	var e Event
	e.FlowEnd("f", 0xABC, 300)

	var buf strings.Builder
	writeEventJSON(&buf, &e, 1)
	out := buf.String()
	if !strings.Contains(out, `"ph":"f"`) || !strings.Contains(out, `"id":"abc"`) || !strings.Contains(out, `"bp":"e"`) {
		t.Fatalf("flow end must carry ph:f, lowercase hex id, and bp:e, got: %s", out)
	}
}

func TestSerializeDurationHasDurAndTdur(t *testing.T) {
	var e Event
	e.Duration("x", 10, 20, 1, 4)

	var buf strings.Builder
	writeEventJSON(&buf, &e, 1)
	out := buf.String()
	if !strings.Contains(out, `"dur":10`) || !strings.Contains(out, `"tdur":3`) {
		t.Fatalf("expected dur:10 and tdur:3, got: %s", out)
	}
}

func TestSerializeNoThreadCPUTimeOmitsTtsAndTdur(t *testing.T) {
	var e Event
	e.Duration("x", 10, 20, NoThreadCPUTime, NoThreadCPUTime)

	var buf strings.Builder
	writeEventJSON(&buf, &e, 1)
	out := buf.String()
	if strings.Contains(out, `"tts"`) || strings.Contains(out, `"tdur"`) {
		t.Fatalf("ct0 == -1 must omit tts/tdur, got: %s", out)
	}
}

func TestWriteFileJSONSeparators(t *testing.T) {
	snap := Snapshot{}
	var e0, e1 Event
	e0.Instant("a", 1)
	e1.Instant("b", 2)
	snap.Events = []Event{e0, e1}

	var buf strings.Builder
	if err := WriteFileJSON(&buf, snap, 1); err != nil {
		t.Fatalf("WriteFileJSON: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "[\n") || !strings.HasSuffix(out, "]\n") {
		t.Fatalf("expected [\\n ... ]\\n framing, got: %s", out)
	}
	if strings.Count(out, `"name":"a"`) != 1 || strings.Count(out, `"name":"b"`) != 1 {
		t.Fatalf("expected exactly one of each event, got: %s", out)
	}
}

// TestWriteFileJSONThreadNamesOnlyIsValidJSON covers exactly the shape
// that used to trip WriteFileJSON's unconditional ",\n" after every
// thread-name entry: named threads with no surviving events, where the
// separator written after the *last* thread name left a trailing comma
// before the closing "]\n".
func TestWriteFileJSONThreadNamesOnlyIsValidJSON(t *testing.T) {
	snap := Snapshot{ThreadNames: map[uint64]string{1: "gc-worker", 2: "compiler"}}

	var buf strings.Builder
	if err := WriteFileJSON(&buf, snap, 7); err != nil {
		t.Fatalf("WriteFileJSON: %v", err)
	}
	out := buf.String()

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("WriteFileJSON produced invalid JSON: %v\noutput: %s", err, out)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 thread_name entries, got %d: %s", len(decoded), out)
	}
}

// TestWriteFileJSONThreadNamesAndEventsIsValidJSON covers the mixed case:
// both loops contribute entries, so the separator between the last
// thread name and the first event must be present exactly once.
func TestWriteFileJSONThreadNamesAndEventsIsValidJSON(t *testing.T) {
	snap := Snapshot{ThreadNames: map[uint64]string{3: "finalizer"}}
	var e Event
	e.Instant("x", 1)
	snap.Events = []Event{e}

	var buf strings.Builder
	if err := WriteFileJSON(&buf, snap, 7); err != nil {
		t.Fatalf("WriteFileJSON: %v", err)
	}
	out := buf.String()

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("WriteFileJSON produced invalid JSON: %v\noutput: %s", err, out)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 1 thread_name entry + 1 event, got %d: %s", len(decoded), out)
	}
}

func TestWriteServiceJSONShape(t *testing.T) {
	snap := Snapshot{TimeOriginMicros: 5, TimeExtentMicros: 15}
	var e Event
	e.Instant("a", 1)
	snap.Events = []Event{e}

	var buf strings.Builder
	if err := WriteServiceJSON(&buf, snap, 1); err != nil {
		t.Fatalf("WriteServiceJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"type":"Timeline"`, `"traceEvents":[`, `"timeOriginMicros":5`, `"timeExtentMicros":15`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in: %s", want, out)
		}
	}
}
