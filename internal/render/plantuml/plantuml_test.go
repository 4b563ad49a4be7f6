package plantuml

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dshills/inkline/internal/render"
	"github.com/dshills/inkline/internal/render/process"
)

func TestID(t *testing.T) {
	r := New(nil, "")
	if r.ID() != "plantuml" {
		t.Errorf("expected id plantuml, got %q", r.ID())
	}
}

func TestWrapSource(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"bare source gets guards", "A -> B", "@startuml\nA -> B\n@enduml\n"},
		{"already guarded", "@startuml\nA -> B\n@enduml", "@startuml\nA -> B\n@enduml"},
		{"mindmap guard kept", "@startmindmap\n* root\n@endmindmap", "@startmindmap\n* root\n@endmindmap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapSource(tt.source); got != tt.want {
				t.Errorf("wrapSource = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_CacheHit(t *testing.T) {
	dir := t.TempDir()
	r := New(nil, dir)

	source := "A -> B"
	out := render.CacheFile(dir, "plantuml", source, "png")
	if err := os.WriteFile(out, []byte("cached"), 0o644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	result, err := r.Render(source, render.Options{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if result.Async() {
		t.Error("expected synchronous cache hit")
	}
}

func TestRender_WritesGuardedSource(t *testing.T) {
	dir := t.TempDir()
	sup := process.NewSupervisor()
	defer sup.Shutdown(time.Second)

	r := New(sup, dir, WithBinary("true"))
	result, err := r.Render("A -> B", render.Options{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !result.Async() {
		t.Fatal("expected async result")
	}

	src := strings.TrimSuffix(result.Path, ".png") + ".puml"
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read source file: %v", err)
	}
	if !strings.HasPrefix(string(data), "@startuml") {
		t.Errorf("expected guarded source, got %q", data)
	}
}
