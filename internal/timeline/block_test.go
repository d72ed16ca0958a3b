package timeline

import "testing"

func TestBlockLifecycleStates(t *testing.T) {
	b := NewBlock(2, 0)
	if !b.IsEmpty() || b.InUse() {
		t.Fatal("fresh block must be empty and not in use")
	}
	b.Open(7)
	if !b.InUse() || b.ThreadID() != 7 {
		t.Fatal("Open must mark in-use and record the thread id")
	}
	ev := b.startEvent()
	ev.Instant("a", 1)
	if b.IsFull() {
		t.Fatal("one event in a capacity-2 block must not be full")
	}
	ev2 := b.startEvent()
	ev2.Instant("b", 2)
	if !b.IsFull() {
		t.Fatal("two events in a capacity-2 block must be full")
	}
	b.Finish()
	if b.InUse() {
		t.Fatal("Finish must clear in-use")
	}
	if b.Length() != 2 {
		t.Fatalf("finished block should retain its events, got length %d", b.Length())
	}
}

func TestBlockResetDiscardsEvents(t *testing.T) {
	b := NewBlock(2, 0)
	b.Open(1)
	b.startEvent().Instant("a", 1)
	b.Reset()
	if !b.IsEmpty() || b.InUse() {
		t.Fatal("Reset must return the block to empty/not-in-use")
	}
}

func TestBlockCheckMonotoneTimeOrigin(t *testing.T) {
	b := NewBlock(3, 0)
	b.Open(5)
	b.startEvent().Instant("a", 10)
	e := b.startEvent()
	e.Instant("b", 20)
	e.threadID = 5
	b.At(0).threadID = 5
	if !b.Check() {
		t.Fatal("non-decreasing TimeOrigin and matching thread id must pass Check")
	}
}

func TestBlockCheckDetectsOutOfOrder(t *testing.T) {
	b := NewBlock(2, 0)
	b.Open(1)
	e0 := b.startEvent()
	e0.Instant("a", 20)
	e0.threadID = 1
	e1 := b.startEvent()
	e1.Instant("b", 10)
	e1.threadID = 1
	if b.Check() {
		t.Fatal("decreasing TimeOrigin must fail Check")
	}
}
