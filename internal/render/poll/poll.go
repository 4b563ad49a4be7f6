// Package poll converts fire-and-forget asynchronous render jobs
// into completion callbacks without blocking the caller.
//
// A Watcher checks a job's run state on a fixed interval. Once the
// job is observed in any terminal state the check stops and the
// completion callback runs exactly once, posted to the host's
// serialized scheduler so it never races other host callbacks.
// Success and failure are not distinguished here; callers inspect
// the output file instead.
package poll

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/inkline/internal/host"
)

// DefaultInterval is the job polling period.
const DefaultInterval = 100 * time.Millisecond

// ErrWatcherStopped is returned by Watch after Stop.
var ErrWatcherStopped = errors.New("watcher is stopped")

// StatusQuerier answers whether a job is still running. Unknown job
// ids must report not running.
type StatusQuerier interface {
	Running(jobID string) bool
}

// Watcher polls outstanding jobs to completion.
type Watcher struct {
	querier  StatusQuerier
	poster   host.Poster
	interval time.Duration

	mu      sync.Mutex
	stops   map[string]chan struct{}
	stopped bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval overrides the polling period. Tests use short
// intervals.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// NewWatcher creates a watcher that queries job state from querier
// and delivers completions through poster. A nil poster invokes
// callbacks directly on the polling goroutine.
func NewWatcher(querier StatusQuerier, poster host.Poster, opts ...Option) *Watcher {
	w := &Watcher{
		querier:  querier,
		poster:   poster,
		interval: DefaultInterval,
		stops:    make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts polling the given job. When the job is first observed
// finished, onComplete is invoked exactly once on the host scheduler
// and the poll stops. Watching an already-finished job completes on
// the first tick. Returns ErrWatcherStopped after Stop, in which
// case onComplete never fires.
func (w *Watcher) Watch(jobID string, onComplete func()) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWatcherStopped
	}
	stop := make(chan struct{})
	w.stops[jobID] = stop
	w.mu.Unlock()

	go w.poll(jobID, stop, onComplete)
	return nil
}

// poll runs the recurring check for one job.
func (w *Watcher) poll(jobID string, stop chan struct{}, onComplete func()) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var once sync.Once
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if w.querier.Running(jobID) {
				continue
			}
			once.Do(func() {
				w.forget(jobID)
				w.deliver(onComplete)
			})
			return
		}
	}
}

// deliver hands the completion to the host scheduler. If posting
// fails, or the watcher was stopped while the final tick was in
// flight, the materialization is silently dropped.
func (w *Watcher) deliver(onComplete func()) {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}
	if w.poster == nil {
		onComplete()
		return
	}
	_ = w.poster.Post(onComplete)
}

// forget removes a job's stop channel once polling ends.
func (w *Watcher) forget(jobID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.stops, jobID)
}

// Outstanding returns the number of jobs still being polled.
func (w *Watcher) Outstanding() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.stops)
}

// Stop cancels all outstanding polls without invoking their
// callbacks. Further Watch calls fail.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	for id, stop := range w.stops {
		close(stop)
		delete(w.stops, id)
	}
}
