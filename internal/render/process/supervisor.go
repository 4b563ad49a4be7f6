package process

import (
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Supervisor manages render jobs with lifecycle tracking and cleanup.
//
// Finished jobs are retained until Release or shutdown so that a
// poller asking about a job that exited between two polls still
// observes a terminal state instead of an unknown id.
//
// Supervisor is safe for concurrent use.
type Supervisor struct {
	mu   sync.RWMutex
	jobs map[string]*Job

	// closed indicates the supervisor has been shut down.
	closed atomic.Bool

	// maxJobs limits the number of concurrent jobs (0 = unlimited).
	maxJobs int

	// onJobExit is called when a job's process exits.
	onJobExit func(j *Job)
}

// SupervisorOption configures a Supervisor instance.
type SupervisorOption func(*Supervisor)

// WithMaxJobs sets the maximum number of concurrent render jobs.
// A value of 0 (default) means unlimited.
func WithMaxJobs(max int) SupervisorOption {
	return func(s *Supervisor) {
		s.maxJobs = max
	}
}

// WithJobExitCallback sets a callback for when jobs exit.
func WithJobExitCallback(fn func(j *Job)) SupervisorOption {
	return func(s *Supervisor) {
		s.onJobExit = fn
	}
}

// NewSupervisor creates a new render job supervisor.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		jobs: make(map[string]*Job),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches a renderer command as a managed job.
//
// outputPath is the file the renderer is expected to produce; the
// supervisor does not verify it, callers check readability after
// the job finishes. Returns ErrSupervisorShutdown after Shutdown.
func (s *Supervisor) Start(renderer, outputPath string, cmd *exec.Cmd) (*Job, error) {
	return s.StartWithID(uuid.New().String(), renderer, outputPath, cmd)
}

// StartWithID launches a job with a caller-chosen id. Useful for
// deterministic tests.
func (s *Supervisor) StartWithID(id, renderer, outputPath string, cmd *exec.Cmd) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check shutdown state under lock to prevent race.
	if s.closed.Load() {
		return nil, ErrSupervisorShutdown
	}

	if s.maxJobs > 0 && s.runningLocked() >= s.maxJobs {
		return nil, fmt.Errorf("render job limit reached: %d", s.maxJobs)
	}

	if _, exists := s.jobs[id]; exists {
		return nil, fmt.Errorf("job ID already exists: %s", id)
	}

	job := newJob(id, renderer, outputPath, cmd)

	// Start before tracking so failed starts are never tracked.
	if err := job.start(); err != nil {
		return nil, err
	}

	s.jobs[id] = job

	go s.monitorJob(job)

	return job, nil
}

// runningLocked counts jobs still running. Caller holds s.mu.
func (s *Supervisor) runningLocked() int {
	n := 0
	for _, j := range s.jobs {
		if j.IsRunning() {
			n++
		}
	}
	return n
}

// monitorJob watches for job exit and runs the exit callback.
func (s *Supervisor) monitorJob(job *Job) {
	<-job.Done()

	if s.onJobExit != nil {
		func() {
			defer func() {
				// Callback panics must not take down the supervisor.
				_ = recover()
			}()
			s.onJobExit(job)
		}()
	}
}

// Get returns a job by ID, or nil if unknown.
func (s *Supervisor) Get(id string) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs[id]
}

// Running reports whether the given job is still running. Unknown
// ids report false: a job the supervisor no longer tracks is in a
// terminal state as far as polling is concerned.
func (s *Supervisor) Running(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return ok && j.IsRunning()
}

// Release drops a finished job from tracking. Running jobs are left
// in place. Unknown ids are ignored.
func (s *Supervisor) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok && j.HasExited() {
		delete(s.jobs, id)
	}
}

// List returns all tracked jobs.
func (s *Supervisor) List() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		result = append(result, j)
	}
	return result
}

// Count returns the number of tracked jobs.
func (s *Supervisor) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Shutdown terminates all running jobs gracefully.
//
// It first sends SIGTERM and waits up to timeout for processes to
// exit; anything still running afterwards is killed. Shutdown blocks
// until every process has exited.
func (s *Supervisor) Shutdown(timeout time.Duration) {
	if s.closed.Swap(true) {
		return // Already shutting down
	}

	s.mu.RLock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.RUnlock()

	for _, j := range jobs {
		if j.IsRunning() {
			_ = j.Terminate()
		}
	}

	deadline := time.After(timeout)
	for _, j := range jobs {
		select {
		case <-j.Done():
		case <-deadline:
			if j.IsRunning() {
				_ = j.Kill()
			}
			<-j.Done()
		}
	}

	s.mu.Lock()
	s.jobs = make(map[string]*Job)
	s.mu.Unlock()
}
