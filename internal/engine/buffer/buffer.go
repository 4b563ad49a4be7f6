package buffer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

// Errors returned by buffer operations.
var (
	ErrRowOutOfRange = errors.New("row out of range")
	ErrRangeInvalid  = errors.New("invalid range")
)

// ID uniquely identifies a buffer within a session.
type ID int64

// nextID hands out buffer identifiers.
var nextID atomic.Int64

// Buffer holds the text content of one open document together with
// the metadata the render pipeline needs: a stable identifier, the
// file path, and the detected filetype. All methods are thread-safe.
type Buffer struct {
	mu       sync.RWMutex
	id       ID
	path     string
	filetype string
	lines    []string
	revision uint64
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithFiletype overrides the filetype detected from the path.
func WithFiletype(ft string) Option {
	return func(b *Buffer) {
		b.filetype = ft
	}
}

// New creates a buffer from raw content. The filetype is detected
// from the path extension unless overridden with WithFiletype.
func New(path, content string, opts ...Option) *Buffer {
	b := &Buffer{
		id:       ID(nextID.Add(1)),
		path:     path,
		filetype: DetectFiletype(path),
		lines:    splitLines(content),
		revision: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load reads a file from disk into a new buffer.
func Load(path string, opts ...Option) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(path, string(data), opts...), nil
}

// ID returns the buffer's identifier.
func (b *Buffer) ID() ID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.id
}

// Path returns the file path backing the buffer. Empty for scratch buffers.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// Filetype returns the buffer's content type, e.g. "markdown" or "org".
func (b *Buffer) Filetype() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filetype
}

// Revision returns the buffer's revision counter. It increments on
// every content change.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// LineCount returns the number of lines in the buffer.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Line returns the content of the given 0-indexed row without its
// line ending.
func (b *Buffer) Line(row int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if row < 0 || row >= len(b.lines) {
		return "", ErrRowOutOfRange
	}
	return b.lines[row], nil
}

// Lines returns a copy of all lines in the buffer.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// SetContent replaces the buffer's content and bumps the revision.
func (b *Buffer) SetContent(content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = splitLines(content)
	b.revision++
}

// Reload re-reads the backing file from disk. Buffers without a
// path are left untouched.
func (b *Buffer) Reload() error {
	b.mu.RLock()
	path := b.path
	b.mu.RUnlock()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	b.SetContent(string(data))
	return nil
}

// DetectFiletype maps a file path to a content type identifier.
// Unknown extensions map to the empty string.
func DetectFiletype(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return "markdown"
	case ".org":
		return "org"
	case ".norg":
		return "norg"
	default:
		return ""
	}
}

// splitLines splits content into lines, normalizing CRLF endings.
// A trailing newline does not produce a final empty line beyond the
// one an editor would show.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return []string{""}
	}
	return strings.Split(content, "\n")
}
