package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	w, err := NewWatcher(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	fired := make(chan string, 1)
	if err := w.Watch(path, func(p string) { fired <- p }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("two"), 0o644); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}

	select {
	case p := <-fired:
		if filepath.Base(p) != "doc.md" {
			t.Errorf("expected event for doc.md, got %q", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("write event never delivered")
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.md")
	sibling := filepath.Join(dir, "sibling.md")
	for _, p := range []string{watched, sibling} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}

	w, err := NewWatcher(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	var count atomic.Int32
	if err := w.Watch(watched, func(string) { count.Add(1) }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(sibling, []byte("y"), 0o644); err != nil {
		t.Fatalf("rewrite sibling: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if count.Load() != 0 {
		t.Errorf("expected no events for sibling writes, got %d", count.Load())
	}
}

func TestWatcher_Unwatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	w, err := NewWatcher(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	var count atomic.Int32
	if err := w.Watch(path, func(string) { count.Add(1) }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	w.Unwatch(path)

	if err := os.WriteFile(path, []byte("y"), 0o644); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	if count.Load() != 0 {
		t.Errorf("expected no events after Unwatch, got %d", count.Load())
	}
}

func TestWatcher_WatchAfterClose(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := w.Watch("/tmp/whatever", func(string) {}); err != ErrWatcherClosed {
		t.Errorf("expected ErrWatcherClosed, got %v", err)
	}
}

func TestWatcher_CloseTwice(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
