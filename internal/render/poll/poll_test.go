package poll

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeStatus is a controllable StatusQuerier.
type fakeStatus struct {
	mu      sync.Mutex
	running map[string]bool
}

func newFakeStatus() *fakeStatus {
	return &fakeStatus{running: make(map[string]bool)}
}

func (f *fakeStatus) set(id string, running bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running[id] = running
}

func (f *fakeStatus) Running(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running[id]
}

func TestWatch_CompletesFinishedJob(t *testing.T) {
	status := newFakeStatus()
	w := NewWatcher(status, nil, WithInterval(5*time.Millisecond))
	defer w.Stop()

	done := make(chan struct{})
	if err := w.Watch("job", func() { close(done) }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("completion never fired for finished job")
	}
}

func TestWatch_WaitsForCompletion(t *testing.T) {
	status := newFakeStatus()
	status.set("job", true)
	w := NewWatcher(status, nil, WithInterval(5*time.Millisecond))
	defer w.Stop()

	var fired atomic.Bool
	if err := w.Watch("job", func() { fired.Store(true) }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if fired.Load() {
		t.Fatal("completion fired while job still running")
	}

	status.set("job", false)

	deadline := time.After(time.Second)
	for !fired.Load() {
		select {
		case <-deadline:
			t.Fatal("completion never fired after job finished")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestWatch_ExactlyOnce(t *testing.T) {
	status := newFakeStatus()
	w := NewWatcher(status, nil, WithInterval(time.Millisecond))
	defer w.Stop()

	var calls atomic.Int32
	if err := w.Watch("job", func() { calls.Add(1) }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Let many intervals elapse past completion.
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("expected exactly one completion, got %d", got)
	}
	if w.Outstanding() != 0 {
		t.Errorf("expected no outstanding polls, got %d", w.Outstanding())
	}
}

func TestWatch_AfterStop(t *testing.T) {
	status := newFakeStatus()
	w := NewWatcher(status, nil, WithInterval(time.Millisecond))
	w.Stop()

	if err := w.Watch("job", func() { t.Error("callback fired after stop") }); err != ErrWatcherStopped {
		t.Errorf("expected ErrWatcherStopped, got %v", err)
	}
}

func TestStop_CancelsOutstanding(t *testing.T) {
	status := newFakeStatus()
	status.set("job", true)
	w := NewWatcher(status, nil, WithInterval(time.Millisecond))

	var fired atomic.Bool
	if err := w.Watch("job", func() { fired.Store(true) }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	w.Stop()
	status.set("job", false)
	time.Sleep(30 * time.Millisecond)

	if fired.Load() {
		t.Error("callback fired after watcher stopped")
	}
	if w.Outstanding() != 0 {
		t.Errorf("expected no outstanding polls after stop, got %d", w.Outstanding())
	}
}

func TestWatch_MultipleJobs(t *testing.T) {
	status := newFakeStatus()
	status.set("a", true)
	status.set("b", true)
	w := NewWatcher(status, nil, WithInterval(time.Millisecond))
	defer w.Stop()

	var completed sync.Map
	for _, id := range []string{"a", "b"} {
		id := id
		if err := w.Watch(id, func() { completed.Store(id, true) }); err != nil {
			t.Fatalf("Watch(%s) failed: %v", id, err)
		}
	}

	// Finish b first, then a.
	status.set("b", false)
	waitFor(t, func() bool { _, ok := completed.Load("b"); return ok })
	if _, ok := completed.Load("a"); ok {
		t.Fatal("job a completed while still running")
	}

	status.set("a", false)
	waitFor(t, func() bool { _, ok := completed.Load("a"); return ok })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition never satisfied")
		case <-time.After(2 * time.Millisecond):
		}
	}
}
