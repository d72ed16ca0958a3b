package timeline

import "testing"

func TestEndlessRecorderCapturesAllEvents(t *testing.T) {
	reg := NewThreadRegistry()
	r := NewEndlessRecorder(reg, 4)

	const k = 25
	for i := 0; i < k; i++ {
		ev := r.StartEvent()
		if ev == nil {
			t.Fatal("endless recorder must never return nil")
		}
		ev.Instant("x", int64(i))
		r.CompleteEvent(ev)
	}
	r.Reclaim()

	snap := r.Snapshot(NewFilter())
	if len(snap.Events) != k {
		t.Fatalf("got %d events, want %d", len(snap.Events), k)
	}
}

func TestEndlessRecorderBlockIndicesIncrease(t *testing.T) {
	reg := NewThreadRegistry()
	r := NewEndlessRecorder(reg, 1)
	for i := 0; i < 3; i++ {
		ev := r.StartEvent()
		ev.Instant("x", int64(i))
		r.CompleteEvent(ev)
	}
	r.Reclaim()

	var last int64 = -1
	r.forEachBlock(func(b *Block) bool {
		if b.Index() <= last {
			t.Fatal("block indices must be strictly increasing")
		}
		last = b.Index()
		return true
	})
}

func TestEndlessRecorderClear(t *testing.T) {
	reg := NewThreadRegistry()
	r := NewEndlessRecorder(reg, 4)
	ev := r.StartEvent()
	ev.Instant("x", 1)
	r.CompleteEvent(ev)
	r.Reclaim()
	r.Clear()
	if r.BlockCount() != 0 {
		t.Fatal("Clear must drop every retained block")
	}
}
