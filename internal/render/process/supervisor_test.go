package process

import (
	"os/exec"
	"testing"
	"time"
)

func TestSupervisor_StartTracksJob(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	cmd := exec.Command("true")
	job, err := s.StartWithID("job-1", "mermaid", "/tmp/out.png", cmd)
	if err != nil {
		t.Fatalf("StartWithID failed: %v", err)
	}

	if job.ID != "job-1" {
		t.Errorf("expected ID 'job-1', got %q", job.ID)
	}
	if job.Renderer != "mermaid" {
		t.Errorf("expected renderer 'mermaid', got %q", job.Renderer)
	}
	if s.Get("job-1") != job {
		t.Error("expected Get to return the started job")
	}
}

func TestSupervisor_DuplicateID(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	if _, err := s.StartWithID("dup", "d2", "", exec.Command("sleep", "5")); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if _, err := s.StartWithID("dup", "d2", "", exec.Command("true")); err == nil {
		t.Error("expected error starting job with duplicate ID")
	}
}

func TestSupervisor_RunningTransition(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	job, err := s.StartWithID("fast", "gnuplot", "", exec.Command("true"))
	if err != nil {
		t.Fatalf("StartWithID failed: %v", err)
	}

	select {
	case <-job.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("job never finished")
	}

	if s.Running("fast") {
		t.Error("expected Running to report false after exit")
	}
	if !job.HasExited() {
		t.Error("expected HasExited after done channel closed")
	}
	if job.ExitCode() != 0 {
		t.Errorf("expected exit code 0, got %d", job.ExitCode())
	}
}

func TestSupervisor_RunningUnknownID(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	if s.Running("never-started") {
		t.Error("expected unknown job to report not running")
	}
}

func TestSupervisor_FinishedJobStillQueryable(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	job, err := s.StartWithID("kept", "plantuml", "", exec.Command("true"))
	if err != nil {
		t.Fatalf("StartWithID failed: %v", err)
	}
	<-job.Done()

	// The job exited but must remain queryable until released.
	if s.Get("kept") == nil {
		t.Fatal("expected finished job to stay tracked")
	}

	s.Release("kept")
	if s.Get("kept") != nil {
		t.Error("expected job gone after Release")
	}
}

func TestSupervisor_ReleaseRunningJobIgnored(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	job, err := s.StartWithID("slow", "mermaid", "", exec.Command("sleep", "10"))
	if err != nil {
		t.Fatalf("StartWithID failed: %v", err)
	}

	s.Release("slow")
	if s.Get("slow") != job {
		t.Error("expected running job to survive Release")
	}
}

func TestSupervisor_NonZeroExit(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	job, err := s.StartWithID("fail", "mermaid", "", exec.Command("false"))
	if err != nil {
		t.Fatalf("StartWithID failed: %v", err)
	}
	<-job.Done()

	if job.ExitCode() != 1 {
		t.Errorf("expected exit code 1, got %d", job.ExitCode())
	}
	if job.State() != StateExited {
		t.Errorf("expected StateExited, got %v", job.State())
	}
}

func TestSupervisor_StartAfterShutdown(t *testing.T) {
	s := NewSupervisor()
	s.Shutdown(time.Second)

	if _, err := s.Start("mermaid", "", exec.Command("true")); err != ErrSupervisorShutdown {
		t.Errorf("expected ErrSupervisorShutdown, got %v", err)
	}
}

func TestSupervisor_ShutdownKillsRunning(t *testing.T) {
	s := NewSupervisor()

	job, err := s.StartWithID("hang", "mermaid", "", exec.Command("sleep", "60"))
	if err != nil {
		t.Fatalf("StartWithID failed: %v", err)
	}

	start := time.Now()
	s.Shutdown(500 * time.Millisecond)

	if !job.HasExited() {
		t.Error("expected job to be terminated by shutdown")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("shutdown took too long: %v", elapsed)
	}
	if s.Count() != 0 {
		t.Errorf("expected no tracked jobs after shutdown, got %d", s.Count())
	}
}

func TestSupervisor_ExitCallback(t *testing.T) {
	exited := make(chan *Job, 1)
	s := NewSupervisor(WithJobExitCallback(func(j *Job) {
		exited <- j
	}))
	defer s.Shutdown(time.Second)

	if _, err := s.StartWithID("cb", "d2", "", exec.Command("true")); err != nil {
		t.Fatalf("StartWithID failed: %v", err)
	}

	select {
	case j := <-exited:
		if j.ID != "cb" {
			t.Errorf("expected callback for job 'cb', got %q", j.ID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("exit callback never fired")
	}
}

func TestJob_State_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateCreated, "created"},
		{StateRunning, "running"},
		{StateExited, "exited"},
		{StateKilled, "killed"},
		{State(99), "unknown(99)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
