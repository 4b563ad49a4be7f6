// Package plantuml renders PlantUML diagram source through the
// plantuml CLI as an asynchronous job.
package plantuml

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dshills/inkline/internal/render"
	"github.com/dshills/inkline/internal/render/process"
)

// DefaultBinary is the plantuml executable name.
const DefaultBinary = "plantuml"

// Renderer runs plantuml against diagram source. PlantUML names the
// output file after the input, so the source file shares the output
// path's base name.
type Renderer struct {
	bin        string
	supervisor *process.Supervisor
	cacheDir   string
}

// Option configures the renderer.
type Option func(*Renderer)

// WithBinary overrides the plantuml executable path.
func WithBinary(bin string) Option {
	return func(r *Renderer) {
		r.bin = bin
	}
}

// New creates a plantuml renderer.
func New(supervisor *process.Supervisor, cacheDir string, opts ...Option) *Renderer {
	r := &Renderer{
		bin:        DefaultBinary,
		supervisor: supervisor,
		cacheDir:   cacheDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the renderer identifier.
func (r *Renderer) ID() string { return "plantuml" }

// Render dispatches the source to plantuml. Cached output resolves
// synchronously.
func (r *Renderer) Render(source string, opts render.Options) (render.Result, error) {
	out := render.CacheFile(r.cacheDir, r.ID(), source, "png")
	if render.Readable(out) {
		return render.Result{Path: out}, nil
	}

	src := strings.TrimSuffix(out, ".png") + ".puml"
	if err := render.WriteSource(src, wrapSource(source)); err != nil {
		return render.Result{}, err
	}

	args := []string{"-tpng", src, "-o", filepath.Dir(out)}
	cmd := exec.Command(r.bin, args...)
	job, err := r.supervisor.Start(r.ID(), out, cmd)
	if err != nil {
		return render.Result{}, fmt.Errorf("dispatch plantuml job: %w", err)
	}
	return render.Result{Path: out, JobID: job.ID}, nil
}

// wrapSource adds @startuml/@enduml guards when the source omits
// them, which fenced blocks usually do.
func wrapSource(source string) string {
	trimmed := strings.TrimSpace(source)
	if strings.HasPrefix(trimmed, "@start") {
		return source
	}
	return "@startuml\n" + source + "\n@enduml\n"
}
