package timeline

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

type closableBuffer struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

func (b *closableBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *closableBuffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *closableBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFileRecorderWritesWellFormedArray(t *testing.T) {
	reg := NewThreadRegistry()
	w := &closableBuffer{}
	r := NewFileRecorder(reg, NewSystemClock(), w, 123, nil)

	for i := 0; i < 3; i++ {
		ev := r.StartEvent()
		ev.bind(nil, nil, 1, NoIsolate, NoIsolate, nil)
		ev.Instant("x", int64(i))
		r.CompleteEvent(ev)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	out := w.String()
	if !strings.HasPrefix(out, "[\n") {
		t.Fatalf("expected file recorder output to open with [\\n, got %q", out[:minInt(10, len(out))])
	}
	if !strings.HasSuffix(out, "]\n") {
		t.Fatalf("expected file recorder output to close with ]\\n, got %q", out)
	}
	if !w.closed {
		t.Fatal("Close must close the underlying writer")
	}
	if strings.Count(out, "\"name\":\"x\"") != 3 {
		t.Fatalf("expected 3 events in output, got: %s", out)
	}
}

func TestFileRecorderNilWriterBecomesSilentSink(t *testing.T) {
	reg := NewThreadRegistry()
	var warned bool
	r := NewFileRecorder(reg, NewSystemClock(), nil, 1, func(string, ...any) { warned = true })
	if !warned {
		t.Fatal("a nil writer must log a warning, per spec §7")
	}
	ev := r.StartEvent()
	if ev == nil {
		t.Fatal("StartEvent must still hand out events even with no writer")
	}
	ev.Instant("x", 1)
	r.CompleteEvent(ev) // must not panic or block
	if err := r.Close(); err != nil {
		t.Fatalf("Close on a nil-writer file recorder returned error: %v", err)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
