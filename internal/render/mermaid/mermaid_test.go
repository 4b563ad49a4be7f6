package mermaid

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/inkline/internal/render"
	"github.com/dshills/inkline/internal/render/process"
)

func TestID(t *testing.T) {
	r := New(nil, "")
	if r.ID() != "mermaid" {
		t.Errorf("expected id mermaid, got %q", r.ID())
	}
}

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		opts render.Options
		want []string
	}{
		{
			"no options",
			render.Options{},
			[]string{"-i", "in.mmd", "-o", "out.png"},
		},
		{
			"all options",
			render.Options{Background: "transparent", Theme: "dark", Scale: 2, Width: 800, Height: 600},
			[]string{"-i", "in.mmd", "-o", "out.png", "-b", "transparent", "-t", "dark", "-s", "2", "-w", "800", "-H", "600"},
		},
		{
			"theme only",
			render.Options{Theme: "forest"},
			[]string{"-i", "in.mmd", "-o", "out.png", "-t", "forest"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildArgs("in.mmd", "out.png", tt.opts)
			if len(got) != len(tt.want) {
				t.Fatalf("buildArgs = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("buildArgs = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestRender_CacheHit(t *testing.T) {
	dir := t.TempDir()
	r := New(nil, dir) // nil supervisor: a cache hit must not dispatch

	source := "graph TD; A-->B"
	out := render.CacheFile(dir, "mermaid", source, "png")
	if err := os.WriteFile(out, []byte("cached png"), 0o644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	result, err := r.Render(source, render.Options{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if result.Async() {
		t.Error("expected synchronous result on cache hit")
	}
	if result.Path != out {
		t.Errorf("expected cached path %q, got %q", out, result.Path)
	}
}

func TestRender_DispatchesJob(t *testing.T) {
	dir := t.TempDir()
	sup := process.NewSupervisor()
	defer sup.Shutdown(time.Second)

	// "true" exits immediately without writing output; Render must
	// still hand back a job id and the source file must exist.
	r := New(sup, dir, WithBinary("true"))

	result, err := r.Render("graph TD; A-->B", render.Options{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !result.Async() {
		t.Fatal("expected async result with job id")
	}

	job := sup.Get(result.JobID)
	if job == nil {
		t.Fatal("expected job tracked by supervisor")
	}
	<-job.Done()

	src := filepath.Join(dir, filepath.Base(result.Path[:len(result.Path)-4]+".mmd"))
	if _, err := os.Stat(src); err != nil {
		t.Errorf("expected source file written: %v", err)
	}
	if render.Readable(result.Path) {
		t.Error("expected no output from stub binary")
	}
}
