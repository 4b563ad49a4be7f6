// Package gnuplot renders Gnuplot plot source synchronously through
// the gnuplot CLI. The plot script is wrapped with a PNG terminal
// preamble directing output to the cache file.
package gnuplot

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/dshills/inkline/internal/render"
)

// DefaultBinary is the gnuplot executable name.
const DefaultBinary = "gnuplot"

// Renderer runs gnuplot against plot source.
type Renderer struct {
	bin      string
	cacheDir string
}

// Option configures the renderer.
type Option func(*Renderer)

// WithBinary overrides the gnuplot executable path.
func WithBinary(bin string) Option {
	return func(r *Renderer) {
		r.bin = bin
	}
}

// New creates a gnuplot renderer writing output into cacheDir.
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
func (r *Renderer) ID() string { return "gnuplot" }

// Render runs gnuplot to completion. Failures surface as an
// unreadable output file, not an error.
func (r *Renderer) Render(source string, opts render.Options) (render.Result, error) {
	out := render.CacheFile(r.cacheDir, r.ID(), source, "png")
	if render.Readable(out) {
		return render.Result{Path: out}, nil
	}

	src := strings.TrimSuffix(out, ".png") + ".gp"
	if err := render.WriteSource(src, script(source, out, opts)); err != nil {
		return render.Result{}, err
	}

	cmd := exec.Command(r.bin, src)
	_ = cmd.Run()

	return render.Result{Path: out}, nil
}

// script prepends the terminal preamble to the plot source.
func script(source, out string, opts render.Options) string {
	var b strings.Builder
	b.WriteString("set terminal pngcairo")
	if opts.Width != 0 && opts.Height != 0 {
		fmt.Fprintf(&b, " size %d,%d", opts.Width, opts.Height)
	}
	if opts.Background != "" {
		fmt.Fprintf(&b, " background '%s'", opts.Background)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "set output '%s'\n", out)
	b.WriteString(source)
	b.WriteString("\n")
	return b.String()
}
