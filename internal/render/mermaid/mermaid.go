// Package mermaid renders Mermaid diagram source through the
// mermaid-cli (mmdc) as an asynchronous job.
package mermaid

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dshills/inkline/internal/render"
	"github.com/dshills/inkline/internal/render/process"
)

// DefaultBinary is the mermaid-cli executable name.
const DefaultBinary = "mmdc"

// Renderer runs mmdc against diagram source.
type Renderer struct {
	bin        string
	supervisor *process.Supervisor
	cacheDir   string
}

// Option configures the renderer.
type Option func(*Renderer)

// WithBinary overrides the mmdc executable path.
func WithBinary(bin string) Option {
	return func(r *Renderer) {
		r.bin = bin
	}
}

// New creates a mermaid renderer that runs jobs under the given
// supervisor and writes output into cacheDir.
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
func (r *Renderer) ID() string { return "mermaid" }

// Render dispatches the source to mmdc. Unchanged source whose
// output is already cached resolves synchronously without spawning
// a process; otherwise a job id is returned and the output file
// appears when the job finishes.
func (r *Renderer) Render(source string, opts render.Options) (render.Result, error) {
	out := render.CacheFile(r.cacheDir, r.ID(), source, "png")
	if render.Readable(out) {
		return render.Result{Path: out}, nil
	}

	src := strings.TrimSuffix(out, ".png") + ".mmd"
	if err := render.WriteSource(src, source); err != nil {
		return render.Result{}, err
	}

	cmd := exec.Command(r.bin, buildArgs(src, out, opts)...)
	job, err := r.supervisor.Start(r.ID(), out, cmd)
	if err != nil {
		return render.Result{}, fmt.Errorf("dispatch mermaid job: %w", err)
	}
	return render.Result{Path: out, JobID: job.ID}, nil
}

// buildArgs translates options to mmdc flags.
func buildArgs(src, out string, opts render.Options) []string {
	args := []string{"-i", src, "-o", out}
	if opts.Background != "" {
		args = append(args, "-b", opts.Background)
	}
	if opts.Theme != "" {
		args = append(args, "-t", opts.Theme)
	}
	if opts.Scale != 0 {
		args = append(args, "-s", strconv.FormatFloat(opts.Scale, 'f', -1, 64))
	}
	if opts.Width != 0 {
		args = append(args, "-w", strconv.Itoa(opts.Width))
	}
	if opts.Height != 0 {
		args = append(args, "-H", strconv.Itoa(opts.Height))
	}
	return args
}
