package host

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestScheduler_RunsTasksInOrder(t *testing.T) {
	s := NewScheduler()
	s.Start()
	defer s.Stop(context.Background())

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		if err := s.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			wg.Done()
		}); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		if v != i {
			t.Fatalf("expected tasks in post order, got %v", got)
		}
	}
}

func TestScheduler_Serialized(t *testing.T) {
	s := NewScheduler()
	s.Start()
	defer s.Stop(context.Background())

	var inside int
	var maxInside int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		if err := s.Post(func() {
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			wg.Done()
		}); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}
	wg.Wait()

	if maxInside != 1 {
		t.Errorf("expected at most one task in flight, saw %d", maxInside)
	}
}

func TestScheduler_PostAfterStop(t *testing.T) {
	s := NewScheduler()
	s.Start()
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if err := s.Post(func() {}); err != ErrSchedulerStopped {
		t.Errorf("expected ErrSchedulerStopped, got %v", err)
	}
}

func TestScheduler_StopNotRunning(t *testing.T) {
	s := NewScheduler()
	if err := s.Stop(context.Background()); err != ErrSchedulerNotRunning {
		t.Errorf("expected ErrSchedulerNotRunning, got %v", err)
	}
}

func TestScheduler_PanicRecovery(t *testing.T) {
	var recovered any
	done := make(chan struct{})

	s := NewScheduler(WithPanicHandler(func(r any) {
		recovered = r
		close(done)
	}))
	s.Start()
	defer s.Stop(context.Background())

	if err := s.Post(func() { panic("boom") }); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("panic handler never invoked")
	}
	if recovered != "boom" {
		t.Errorf("expected recovered value 'boom', got %v", recovered)
	}

	// The loop must survive the panic.
	ran := make(chan struct{})
	if err := s.Post(func() { close(ran) }); err != nil {
		t.Fatalf("Post after panic failed: %v", err)
	}
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("scheduler stopped processing after panic")
	}
}
