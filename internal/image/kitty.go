package image

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"sync"
)

// kittyChunkSize is the maximum base64 payload per graphics escape.
const kittyChunkSize = 4096

// KittyBackend speaks the Kitty terminal graphics protocol. Images
// are transmitted as base64 PNG chunks and deleted by id, so
// disposal genuinely removes them from the screen.
type KittyBackend struct {
	mu     sync.Mutex
	w      io.Writer
	nextID uint32

	cellWidth  int
	cellHeight int
}

// KittyOption configures the backend.
type KittyOption func(*KittyBackend)

// WithKittyCellSize overrides the assumed cell size in pixels.
func WithKittyCellSize(w, h int) KittyOption {
	return func(b *KittyBackend) {
		if w > 0 {
			b.cellWidth = w
		}
		if h > 0 {
			b.cellHeight = h
		}
	}
}

// NewKitty creates a kitty backend writing escapes to w.
func NewKitty(w io.Writer, opts ...KittyOption) *KittyBackend {
	b := &KittyBackend{
		w:          w,
		nextID:     1,
		cellWidth:  DefaultCellWidth,
		cellHeight: DefaultCellHeight,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name identifies the protocol.
func (b *KittyBackend) Name() string { return "kitty" }

// FromFile creates an unpainted image handle for the file.
func (b *KittyBackend) FromFile(path string, p Placement) (Handle, error) {
	if p.Window == 0 {
		return nil, ErrPlacementNoSurface
	}
	pxW, pxH, err := Size(path)
	if err != nil {
		return nil, err
	}
	cols, rows := CellExtent(pxW, pxH, b.cellWidth, b.cellHeight, p.MaxColumns)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.mu.Unlock()

	return &kittyHandle{
		backend:   b,
		id:        id,
		path:      path,
		placement: p,
		cols:      cols,
		rows:      rows,
	}, nil
}

// ClearAll deletes every placement the terminal currently shows,
// including images transmitted by earlier processes.
func (b *KittyBackend) ClearAll() error {
	return b.write([]byte("\x1b_Ga=d,q=2\x1b\\"))
}

// write serializes escape output across handles.
func (b *KittyBackend) write(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.w.Write(data)
	return err
}

// kittyHandle is one transmitted image.
type kittyHandle struct {
	backend   *KittyBackend
	id        uint32
	path      string
	placement Placement
	cols      int
	rows      int

	mu       sync.Mutex
	rendered bool
	disposed bool
}

// Render transmits and displays the image at its anchor.
func (h *kittyHandle) Render() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return ErrHandleDisposed
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		return err
	}
	payload := base64.StdEncoding.EncodeToString(data)

	var out []byte
	// Anchor is 0-indexed; the terminal cursor address is 1-based.
	out = append(out, fmt.Sprintf("\x1b[s\x1b[%d;%dH",
		h.placement.Anchor.Row+1, h.placement.Anchor.Col+1+h.placement.Padding)...)

	first := true
	for len(payload) > 0 {
		n := len(payload)
		if n > kittyChunkSize {
			n = kittyChunkSize
		}
		chunk := payload[:n]
		payload = payload[n:]

		ctrl := "m=1"
		if len(payload) == 0 {
			ctrl = "m=0"
		}
		if first {
			ctrl = fmt.Sprintf("f=100,a=T,i=%d,q=2,c=%d,r=%d,%s", h.id, h.cols, h.rows, ctrl)
			first = false
		}
		out = append(out, fmt.Sprintf("\x1b_G%s;%s\x1b\\", ctrl, chunk)...)
	}
	out = append(out, "\x1b[u"...)

	if err := h.backend.write(out); err != nil {
		return err
	}
	h.rendered = true
	return nil
}

// Clear deletes the image from the screen. Safe on images that were
// never rendered; calling it twice is a no-op.
func (h *kittyHandle) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return nil
	}
	h.disposed = true
	if !h.rendered {
		return nil
	}
	return h.backend.write([]byte(fmt.Sprintf("\x1b_Ga=d,d=i,i=%d,q=2\x1b\\", h.id)))
}
