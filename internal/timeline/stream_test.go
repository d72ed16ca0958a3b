package timeline

import (
	"context"
	"testing"
)

func TestStreamStartEventDisabledStreamReturnsNil(t *testing.T) {
	tl := New()
	if err := tl.Init(Config{TimelineRecorder: "ring"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer tl.Cleanup()

	s := tl.Stream("GC")
	if s.Enabled() {
		t.Fatal("streams must start disabled unless selected by config")
	}
	if ev := s.StartEvent(context.Background()); ev != nil {
		t.Fatal("StartEvent on a disabled stream must return nil")
	}
}

func TestStreamStartEventEnabledProducesEvent(t *testing.T) {
	tl := New()
	if err := tl.Init(Config{TimelineRecorder: "ring", TimelineStreams: "GC"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer tl.Cleanup()

	s := tl.Stream("GC")
	if !s.Enabled() {
		t.Fatal("timeline_streams=GC must enable the GC stream")
	}
	ev := s.StartEvent(context.Background())
	if ev == nil {
		t.Fatal("StartEvent on an enabled stream with a live recorder must succeed")
	}
	ev.Instant("sweep", 1000)
	ev.Complete()
}

func TestStreamStartEventAfterShutdownFails(t *testing.T) {
	tl := New()
	if err := tl.Init(Config{TimelineRecorder: "ring", TimelineStreams: "all"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s := tl.Stream("GC")
	tl.Cleanup()

	if ev := s.StartEvent(context.Background()); ev != nil {
		t.Fatal("StartEvent after Cleanup must return nil")
	}
}

func TestWithIsolatePropagation(t *testing.T) {
	ctx := WithIsolate(context.Background(), 5, 6)
	id, group := IsolateFromContext(ctx)
	if id != 5 || group != 6 {
		t.Fatalf("got (%d,%d), want (5,6)", id, group)
	}

	id, group = IsolateFromContext(context.Background())
	if id != NoIsolate || group != NoIsolate {
		t.Fatal("a context with no isolate attached must report NoIsolate")
	}
}
