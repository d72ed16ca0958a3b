package timeline

import (
	"io"
	"sync"
)

// FileWriter is the collaborator contract spec §6 calls "File I/O
// callbacks": open/write/close, kept deliberately narrow so a host can
// back it with a plain *os.File, a network socket, or a test buffer.
type FileWriter interface {
	io.Writer
	io.Closer
}

// FileRecorder streams completed events straight to a JSON array on an
// underlying [FileWriter] instead of retaining them in memory (spec
// §4.4's "file" strategy). Each completed event is pushed onto a FIFO
// (linked through [Event.next], exactly as the original threads its
// heap-allocated events) and a dedicated consumer goroutine drains it,
// serializing one JSON object per line.
type FileRecorder struct {
	*PlatformRecorder

	w    FileWriter
	pid  int64
	warn func(string, ...any)

	mu       sync.Mutex
	cond     *sync.Cond
	head     *Event
	tail     *Event
	shutdown bool
	wrote    bool

	done chan struct{}
}

// NewFileRecorder opens a FileRecorder writing to w. If w is nil (the
// host's open callback failed or was never supplied), per spec §7 the
// recorder logs a warning via warn and becomes a silent sink: StartEvent
// still hands out events — the host's reporting call sites keep working —
// but nothing is ever written.
func NewFileRecorder(registry *ThreadRegistry, clock Clock, w FileWriter, pid int64, warn func(string, ...any)) *FileRecorder {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	r := &FileRecorder{w: w, pid: pid, warn: warn, done: make(chan struct{})}
	r.cond = sync.NewCond(&r.mu)
	r.PlatformRecorder = NewPlatformRecorder("File", registry, clock, fileSink{r})

	if w == nil {
		warn("timeline: file recorder has no writer; events will be dropped")
		close(r.done)
		return r
	}
	if _, err := io.WriteString(w, "[\n"); err != nil {
		warn("timeline: file recorder failed to write header: %v", err)
	}
	go r.run()
	return r
}

// fileSink adapts FileRecorder's queue-push into the PlatformSink
// interface CompleteEvent expects.
type fileSink struct{ r *FileRecorder }

func (s fileSink) OnEvent(e *Event) {
	cp := *e
	s.r.push(&cp)
}

func (r *FileRecorder) push(e *Event) {
	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		return
	}
	e.next = nil
	if r.tail == nil {
		r.head = e
		r.tail = e
	} else {
		r.tail.next = e
		r.tail = e
	}
	r.mu.Unlock()
	r.cond.Signal()
}

func (r *FileRecorder) pop() *Event {
	e := r.head
	if e == nil {
		return nil
	}
	r.head = e.next
	if r.head == nil {
		r.tail = nil
	}
	e.next = nil
	return e
}

// run is the dedicated consumer goroutine: pop, serialize, write,
// ",\n"-separated, until told to shut down and the queue has drained.
func (r *FileRecorder) run() {
	defer close(r.done)
	for {
		r.mu.Lock()
		for r.head == nil && !r.shutdown {
			r.cond.Wait()
		}
		e := r.pop()
		shuttingDown := r.shutdown
		r.mu.Unlock()

		if e == nil {
			if shuttingDown {
				return
			}
			continue
		}
		r.write(e)
	}
}

func (r *FileRecorder) write(e *Event) {
	r.mu.Lock()
	first := !r.wrote
	r.wrote = true
	r.mu.Unlock()

	if !first {
		if _, err := io.WriteString(r.w, ",\n"); err != nil {
			r.warn("timeline: file recorder write error: %v", err)
			return
		}
	}
	if err := writeEventJSON(r.w, e, r.pid); err != nil {
		r.warn("timeline: file recorder write error: %v", err)
	}
}

// Close publishes the shutdown flag, wakes the consumer, joins it, drains
// whatever is left in the queue synchronously, writes the closing "]\n",
// and closes the underlying writer — spec §4.4's clean-close sequence.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		return nil
	}
	r.shutdown = true
	r.mu.Unlock()
	r.cond.Broadcast()
	<-r.done

	if r.w == nil {
		return r.PlatformRecorder.Close()
	}

	r.mu.Lock()
	for {
		e := r.pop()
		r.mu.Unlock()
		if e == nil {
			break
		}
		r.write(e)
		r.mu.Lock()
	}

	if _, err := io.WriteString(r.w, "]\n"); err != nil {
		r.warn("timeline: file recorder failed to write footer: %v", err)
	}
	if err := r.w.Close(); err != nil {
		r.warn("timeline: file recorder close error: %v", err)
	}
	return r.PlatformRecorder.Close()
}
