// Package image wraps the creation, painting, and disposal of
// inline terminal images. A Backend speaks one terminal graphics
// protocol; the Manager layers the lifecycle rules on top: creation
// and first paint are separate steps, and disposal is safe on
// images that were never painted.
package image

import (
	"errors"

	"github.com/dshills/inkline/internal/engine/buffer"
	"github.com/dshills/inkline/internal/host"
)

// Errors returned by the image package.
var (
	ErrNoBackend          = errors.New("no terminal graphics backend detected")
	ErrHandleDisposed     = errors.New("image handle already disposed")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrPlacementNoSurface = errors.New("placement has no window")
)

// Placement describes where and how an image is shown.
type Placement struct {
	// Buffer is the owning buffer.
	Buffer buffer.ID

	// Window is the display surface the image binds to.
	Window host.WindowID

	// Anchor is the top-left cell the image is drawn at.
	Anchor buffer.Point

	// MaxColumns clamps the displayed width in cells. Zero means
	// no clamp.
	MaxColumns int

	// Padding is the number of blank columns left of the image.
	Padding int

	// Inline places the image in the text flow rather than as a
	// floating overlay.
	Inline bool
}

// Handle is a live displayed image. It satisfies the registry's
// image contract: Render paints, Clear releases.
type Handle interface {
	Render() error
	Clear() error
}

// Backend creates image handles for one terminal graphics protocol.
type Backend interface {
	// Name identifies the protocol, e.g. "kitty".
	Name() string

	// FromFile creates an image bound to the placement. The image
	// is not painted until its Render is called.
	FromFile(path string, p Placement) (Handle, error)
}

// Manager wraps a backend with lifecycle handling.
type Manager struct {
	backend Backend

	// cellWidth/cellHeight approximate the terminal's cell size in
	// pixels, used to fit raster output into a column budget.
	cellWidth  int
	cellHeight int
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithCellSize overrides the assumed terminal cell size in pixels.
func WithCellSize(w, h int) ManagerOption {
	return func(m *Manager) {
		if w > 0 {
			m.cellWidth = w
		}
		if h > 0 {
			m.cellHeight = h
		}
	}
}

// NewManager creates a manager on top of the given backend.
func NewManager(backend Backend, opts ...ManagerOption) *Manager {
	m := &Manager{
		backend:    backend,
		cellWidth:  DefaultCellWidth,
		cellHeight: DefaultCellHeight,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backend returns the wrapped backend.
func (m *Manager) Backend() Backend {
	return m.backend
}

// Materialize creates an image bound to the given buffer and window
// at the anchor, with inline and padded display semantics. The image
// is not painted; the caller triggers Render separately. Output
// wider than the placement's column budget is downscaled on disk
// before transmission.
func (m *Manager) Materialize(path string, buf buffer.ID, win host.WindowID, anchor buffer.Point, maxColumns int) (Handle, error) {
	if m.backend == nil {
		return nil, ErrNoBackend
	}

	if maxColumns > 0 {
		maxPx := maxColumns * m.cellWidth
		if err := FitWidth(path, maxPx); err != nil {
			// A scaling failure leaves the original file; the
			// protocol clamps display width regardless.
			_ = err
		}
	}

	return m.backend.FromFile(path, Placement{
		Buffer:     buf,
		Window:     win,
		Anchor:     anchor,
		MaxColumns: maxColumns,
		Padding:    1,
		Inline:     true,
	})
}

// Dispose releases a handle's screen resources. Nil handles and
// never-rendered handles are fine.
func (m *Manager) Dispose(h Handle) error {
	if h == nil {
		return nil
	}
	return h.Clear()
}
