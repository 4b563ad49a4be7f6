// Package host provides the serialized execution context the render
// pipeline runs on. All host-visible callbacks (commands, poller
// completions, file events) execute one at a time on a single
// scheduler goroutine, which is what lets the rest of the system
// avoid fine-grained locking around orchestration state.
package host

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Errors returned by scheduler operations.
var (
	ErrSchedulerStopped    = errors.New("scheduler is stopped")
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
)

// DefaultQueueSize is the task queue capacity used by NewScheduler.
const DefaultQueueSize = 256

// Poster accepts work to run on the host's serialized context.
// Components that only need to hand off callbacks depend on this
// instead of the full Scheduler.
type Poster interface {
	Post(fn func()) error
}

// Scheduler runs posted tasks one at a time on a dedicated
// goroutine. Tasks run in post order.
type Scheduler struct {
	tasks   chan func()
	quit    chan struct{}
	done    chan struct{}
	running atomic.Bool
	stopped atomic.Bool

	// panicHandler is invoked when a task panics. The loop keeps
	// running afterwards.
	panicHandler func(recovered any)

	startOnce sync.Once
	stopOnce  sync.Once
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithQueueSize sets the task queue capacity.
func WithQueueSize(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.tasks = make(chan func(), n)
		}
	}
}

// WithPanicHandler sets a handler for panics escaping posted tasks.
func WithPanicHandler(fn func(recovered any)) SchedulerOption {
	return func(s *Scheduler) {
		s.panicHandler = fn
	}
}

// NewScheduler creates a stopped scheduler. Call Start to begin
// processing tasks.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		tasks: make(chan func(), DefaultQueueSize),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the scheduler goroutine. Starting twice is a no-op.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.running.Store(true)
		go s.loop()
	})
}

// Post queues fn for execution on the scheduler goroutine. It blocks
// if the queue is full. Returns ErrSchedulerStopped after Stop.
func (s *Scheduler) Post(fn func()) error {
	if s.stopped.Load() {
		return ErrSchedulerStopped
	}
	select {
	case s.tasks <- fn:
		return nil
	case <-s.quit:
		return ErrSchedulerStopped
	}
}

// Stop shuts the scheduler down. Queued tasks that have not started
// are dropped. Stop waits for the loop to exit or the context to be
// cancelled.
func (s *Scheduler) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return ErrSchedulerNotRunning
	}
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.quit)
	})
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the scheduler loop is active.
func (s *Scheduler) IsRunning() bool {
	return s.running.Load() && !s.stopped.Load()
}

func (s *Scheduler) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case fn := <-s.tasks:
			s.run(fn)
		}
	}
}

func (s *Scheduler) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if s.panicHandler != nil {
				s.panicHandler(r)
			}
		}
	}()
	fn()
}
