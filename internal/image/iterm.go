package image

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"sync"
)

// ITermBackend speaks the iTerm2 inline images protocol (OSC 1337).
// The protocol has no deletion primitive, so Clear erases the cell
// rows the image occupied.
type ITermBackend struct {
	mu sync.Mutex
	w  io.Writer

	cellWidth  int
	cellHeight int
}

// NewITerm creates an iTerm2 backend writing escapes to w.
func NewITerm(w io.Writer) *ITermBackend {
	return &ITermBackend{
		w:          w,
		cellWidth:  DefaultCellWidth,
		cellHeight: DefaultCellHeight,
	}
}

// Name identifies the protocol.
func (b *ITermBackend) Name() string { return "iterm2" }

// FromFile creates an unpainted image handle for the file.
func (b *ITermBackend) FromFile(path string, p Placement) (Handle, error) {
	if p.Window == 0 {
		return nil, ErrPlacementNoSurface
	}
	pxW, pxH, err := Size(path)
	if err != nil {
		return nil, err
	}
	cols, rows := CellExtent(pxW, pxH, b.cellWidth, b.cellHeight, p.MaxColumns)

	return &itermHandle{
		backend:   b,
		path:      path,
		placement: p,
		cols:      cols,
		rows:      rows,
	}, nil
}

func (b *ITermBackend) write(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.w.Write(data)
	return err
}

// itermHandle is one displayed inline image.
type itermHandle struct {
	backend   *ITermBackend
	path      string
	placement Placement
	cols      int
	rows      int

	mu       sync.Mutex
	rendered bool
	disposed bool
}

// Render transmits and displays the image at its anchor.
func (h *itermHandle) Render() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return ErrHandleDisposed
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		return err
	}

	var out []byte
	out = append(out, fmt.Sprintf("\x1b[s\x1b[%d;%dH",
		h.placement.Anchor.Row+1, h.placement.Anchor.Col+1+h.placement.Padding)...)
	out = append(out, fmt.Sprintf("\x1b]1337;File=inline=1;size=%d;width=%d;preserveAspectRatio=1:%s\x07",
		len(data), h.cols, base64.StdEncoding.EncodeToString(data))...)
	out = append(out, "\x1b[u"...)

	if err := h.backend.write(out); err != nil {
		return err
	}
	h.rendered = true
	return nil
}

// Clear erases the rows the image occupied. Safe on images that
// were never rendered.
func (h *itermHandle) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return nil
	}
	h.disposed = true
	if !h.rendered {
		return nil
	}

	var out []byte
	out = append(out, "\x1b[s"...)
	for i := 0; i < h.rows; i++ {
		out = append(out, fmt.Sprintf("\x1b[%d;1H\x1b[2K", h.placement.Anchor.Row+1+i)...)
	}
	out = append(out, "\x1b[u"...)
	return h.backend.write(out)
}
