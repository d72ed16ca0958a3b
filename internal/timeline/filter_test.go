package timeline

import "testing"

func TestFilterDefaultUnconditional(t *testing.T) {
	f := NewFilter()
	origin, extent := f.Window()
	if origin != -1 || extent != -1 {
		t.Fatal("NewFilter must have no time restriction")
	}
	if !f.IncludeBlock(nil) || !f.IncludeEvent(&Event{}) {
		t.Fatal("default Filter must include every block and event")
	}
}

func TestIsolateFilterRestrictsByIsolate(t *testing.T) {
	f := NewIsolateFilter(42)
	e1 := &Event{isolateID: 42}
	e2 := &Event{isolateID: 7}
	if !f.IncludeEvent(e1) {
		t.Fatal("matching isolate id must be included")
	}
	if f.IncludeEvent(e2) {
		t.Fatal("non-matching isolate id must be excluded")
	}
}
