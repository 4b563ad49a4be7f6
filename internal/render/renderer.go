// Package render defines the renderer contract: a named capability
// that turns diagram source text into an image file, either
// immediately or through an asynchronous external job.
package render

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Renderer turns diagram source text into an image file.
//
// Render returns a Result whose Path points at the output file. For
// synchronous renderers the file is ready (or the renderer failed)
// when Render returns. Asynchronous renderers additionally return a
// JobID; the file is ready once the job reaches a terminal state.
type Renderer interface {
	// ID returns the renderer identifier diagrams reference, e.g.
	// "mermaid".
	ID() string

	// Render produces the image for the given source text.
	Render(source string, opts Options) (Result, error)
}

// Result is the outcome of dispatching one diagram to a renderer.
type Result struct {
	// Path is the output image file. For async results the file
	// appears only after the job finishes, and possibly not even
	// then if the renderer failed.
	Path string

	// JobID identifies the external job when the render is
	// asynchronous. Empty for synchronous results.
	JobID string
}

// Async reports whether the result must be awaited via the job
// poller before the output file can exist.
func (r Result) Async() bool {
	return r.JobID != ""
}

// CacheFile returns the deterministic output path for a piece of
// diagram source. The same source always maps to the same file, so
// unchanged diagrams hit the renderer's previous output.
func CacheFile(cacheDir, rendererID, source, ext string) string {
	sum := sha256.Sum256([]byte(source))
	name := fmt.Sprintf("%s-%s.%s", rendererID, hex.EncodeToString(sum[:8]), ext)
	return filepath.Join(cacheDir, name)
}

// WriteSource writes diagram source to a scratch file next to the
// eventual output, creating the cache directory if needed.
func WriteSource(path, source string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return fmt.Errorf("write diagram source: %w", err)
	}
	return nil
}

// Readable reports whether a render output file exists and is
// non-empty. Renderers that fail often leave nothing or an empty
// file behind; both count as unreadable.
func Readable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
