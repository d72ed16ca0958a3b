package trace

import (
	"bytes"
	"testing"
)

func TestRingTracerWrapsAndSnapshotsInOrder(t *testing.T) {
	rt := NewRingTracer(3, LevelDebug)
	for i := 0; i < 5; i++ {
		ev := sampleEvent()
		ev.Name = string(rune('a' + i))
		rt.Emit(&ev)
	}

	snap := rt.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("Snapshot() len = %d, want 3", len(snap))
	}
	var names []byte
	for _, ev := range snap {
		names = append(names, ev.Name[0])
	}
	if string(names) != "cde" {
		t.Fatalf("Snapshot() order = %q, want %q", names, "cde")
	}
}

func TestRingTracerRespectsLevel(t *testing.T) {
	rt := NewRingTracer(4, LevelPhase)
	detailed := sampleEvent()
	detailed.Scope = ScopeBlock
	rt.Emit(&detailed)
	if len(rt.Snapshot()) != 0 {
		t.Fatal("RingTracer at LevelPhase should drop ScopeBlock events")
	}

	coarse := sampleEvent()
	coarse.Scope = ScopeFacade
	rt.Emit(&coarse)
	if len(rt.Snapshot()) != 1 {
		t.Fatal("RingTracer at LevelPhase should keep ScopeFacade events")
	}
}

func TestRingTracerDump(t *testing.T) {
	rt := NewRingTracer(2, LevelDebug)
	ev := sampleEvent()
	rt.Emit(&ev)

	var buf bytes.Buffer
	if err := rt.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatalf("Dump error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("Dump wrote nothing")
	}
}
