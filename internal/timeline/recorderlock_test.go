package timeline

import (
	"sync"
	"testing"
)

func TestRecorderLockEnterExitBalance(t *testing.T) {
	var l RecorderLock
	if !l.Enter() {
		t.Fatal("Enter must succeed before shutdown")
	}
	if l.outstanding.Load() != 1 {
		t.Fatalf("outstanding = %d, want 1", l.outstanding.Load())
	}
	l.Exit()
	if l.outstanding.Load() != 0 {
		t.Fatalf("outstanding = %d, want 0", l.outstanding.Load())
	}
}

func TestRecorderLockEnterFailsAfterShutdown(t *testing.T) {
	var l RecorderLock
	l.WaitForShutdown()
	if l.Enter() {
		t.Fatal("Enter must fail once shutdown has been requested")
	}
	if l.outstanding.Load() != 0 {
		t.Fatal("a failed Enter must not leave outstanding above zero")
	}
}

func TestRecorderLockWaitForShutdownBlocksUntilDrained(t *testing.T) {
	var l RecorderLock
	if !l.Enter() {
		t.Fatal("Enter must succeed")
	}

	done := make(chan struct{})
	go func() {
		l.WaitForShutdown()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("WaitForShutdown returned before the outstanding writer exited")
	default:
	}

	l.Exit()
	<-done
	if l.outstanding.Load() != 0 {
		t.Fatal("outstanding must be zero after WaitForShutdown returns")
	}
}

func TestRecorderLockNeverNegative(t *testing.T) {
	var l RecorderLock
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Enter() {
				l.Exit()
			}
		}()
	}
	wg.Wait()
	if l.outstanding.Load() < 0 {
		t.Fatal("outstanding must never go negative")
	}
}

func TestRecorderLockScope(t *testing.T) {
	var l RecorderLock
	s := l.NewScope()
	if s.IsShuttingDown() {
		t.Fatal("scope should not report shutting down before WaitForShutdown")
	}
	s.Close()
	if l.outstanding.Load() != 0 {
		t.Fatal("Scope.Close must release its Enter")
	}
}
