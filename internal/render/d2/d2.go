// Package d2 renders D2 diagram source synchronously through the d2
// CLI. d2 renders quickly enough that the call completes inline.
package d2

import (
	"os/exec"
	"strconv"
	"strings"

	"github.com/dshills/inkline/internal/render"
)

// DefaultBinary is the d2 executable name.
const DefaultBinary = "d2"

// Renderer runs d2 against diagram source.
type Renderer struct {
	bin      string
	cacheDir string
}

// Option configures the renderer.
type Option func(*Renderer)

// WithBinary overrides the d2 executable path.
func WithBinary(bin string) Option {
	return func(r *Renderer) {
		r.bin = bin
	}
}

// New creates a d2 renderer writing output into cacheDir.
func New(cacheDir string, opts ...Option) *Renderer {
	r := &Renderer{
		bin:      DefaultBinary,
		cacheDir: cacheDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the renderer identifier.
func (r *Renderer) ID() string { return "d2" }

// Render runs d2 to completion. A failed run is not an error here;
// the missing output file makes the orchestrator skip the diagram.
func (r *Renderer) Render(source string, opts render.Options) (render.Result, error) {
	out := render.CacheFile(r.cacheDir, r.ID(), source, "png")
	if render.Readable(out) {
		return render.Result{Path: out}, nil
	}

	src := strings.TrimSuffix(out, ".png") + ".d2"
	if err := render.WriteSource(src, source); err != nil {
		return render.Result{}, err
	}

	cmd := exec.Command(r.bin, buildArgs(src, out, opts)...)
	// Best effort: exit status is reflected by output readability.
	_ = cmd.Run()

	return render.Result{Path: out}, nil
}

// buildArgs translates options to d2 flags.
func buildArgs(src, out string, opts render.Options) []string {
	var args []string
	if opts.Theme != "" {
		args = append(args, "--theme", opts.Theme)
	}
	if opts.Scale != 0 {
		args = append(args, "--scale", strconv.FormatFloat(opts.Scale, 'f', -1, 64))
	}
	return append(args, src, out)
}
