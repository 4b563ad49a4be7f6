package process

import (
	"bytes"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// State represents the state of a render job.
type State int

const (
	// StateCreated indicates the job has been created but not started.
	StateCreated State = iota
	// StateRunning indicates the job's process is currently running.
	StateRunning
	// StateExited indicates the process has exited normally or with an error.
	StateExited
	// StateKilled indicates the process was killed by a signal.
	StateKilled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateKilled:
		return "killed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Job represents one external renderer invocation.
//
// Job wraps an exec.Cmd with lifecycle tracking. Renderers write
// their output to files, so no stdio is piped; stderr is captured
// in memory for diagnostics. Job is safe for concurrent use.
type Job struct {
	// ID is the unique identifier for this job.
	ID string

	// Renderer is the id of the renderer that started the job.
	Renderer string

	// OutputPath is the file the renderer is expected to produce.
	OutputPath string

	// Cmd is the underlying exec.Cmd.
	Cmd *exec.Cmd

	// Started is the time the job was started.
	Started time.Time

	// stderr captures the renderer's error output.
	stderr bytes.Buffer

	// done is closed when the process exits.
	done chan struct{}

	// state tracks the current job state.
	state atomic.Int32

	// exitCode stores the exit code after the process exits.
	exitCode atomic.Int32

	// exitErr stores any error from Wait().
	exitErr error

	// mu protects exitErr.
	mu sync.RWMutex

	// waitOnce ensures Wait is only called once.
	waitOnce sync.Once
}

// newJob creates a Job wrapping the given command. The command must
// not be started yet; use Supervisor.Start.
func newJob(id, renderer, outputPath string, cmd *exec.Cmd) *Job {
	j := &Job{
		ID:         id,
		Renderer:   renderer,
		OutputPath: outputPath,
		Cmd:        cmd,
		done:       make(chan struct{}),
	}
	if cmd.Stderr == nil {
		cmd.Stderr = &j.stderr
	}
	j.state.Store(int32(StateCreated))
	j.exitCode.Store(-1) // -1 indicates not exited
	return j
}

// State returns the current job state.
func (j *Job) State() State {
	return State(j.state.Load())
}

// ExitCode returns the process exit code, or -1 before exit.
func (j *Job) ExitCode() int {
	return int(j.exitCode.Load())
}

// ExitError returns any error from waiting on the process.
func (j *Job) ExitError() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.exitErr
}

// Stderr returns the renderer's captured error output so far.
func (j *Job) Stderr() string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.stderr.String()
}

// Done returns a channel that is closed when the process exits.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// IsRunning returns true if the process is currently running.
func (j *Job) IsRunning() bool {
	return j.State() == StateRunning
}

// HasExited returns true if the process has exited or was killed.
func (j *Job) HasExited() bool {
	state := j.State()
	return state == StateExited || state == StateKilled
}

// PID returns the process ID, or -1 if not started.
func (j *Job) PID() int {
	if j.Cmd.Process == nil {
		return -1
	}
	return j.Cmd.Process.Pid
}

// Kill sends SIGKILL to the job's process.
func (j *Job) Kill() error {
	if !j.IsRunning() || j.Cmd.Process == nil {
		return ErrJobNotStarted
	}
	return j.Cmd.Process.Kill()
}

// Terminate sends SIGTERM to the job's process.
func (j *Job) Terminate() error {
	if !j.IsRunning() || j.Cmd.Process == nil {
		return ErrJobNotStarted
	}
	return j.Cmd.Process.Signal(syscall.SIGTERM)
}

// start starts the process and begins tracking it.
func (j *Job) start() error {
	if j.State() != StateCreated {
		return ErrJobAlreadyStarted
	}

	if err := j.Cmd.Start(); err != nil {
		return fmt.Errorf("start render job: %w", err)
	}

	j.Started = time.Now()
	j.state.Store(int32(StateRunning))

	go j.waitLoop()

	return nil
}

// waitLoop waits for the process to exit and updates state.
func (j *Job) waitLoop() {
	j.waitOnce.Do(func() {
		err := j.Cmd.Wait()

		j.mu.Lock()
		j.exitErr = err
		j.mu.Unlock()

		exitCode := 0
		state := StateExited

		if err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				exitCode = exitErr.ExitCode()
				if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
					state = StateKilled
				}
			} else {
				exitCode = -1
			}
		}

		j.exitCode.Store(int32(exitCode))
		j.state.Store(int32(state))
		close(j.done)
	})
}
