// Package integration defines the contract for locating diagrams in
// buffers of a given content type, and the manager that resolves the
// active integration for a buffer.
package integration

import (
	"github.com/dshills/inkline/internal/diagram"
	"github.com/dshills/inkline/internal/engine/buffer"
	"github.com/dshills/inkline/internal/render"
)

// Integration knows how to find diagrams within buffers of its
// declared content types.
type Integration interface {
	// ID names the integration, e.g. "markdown".
	ID() string

	// Filetypes lists the content types this integration handles.
	Filetypes() []string

	// Renderers returns the renderer set available to diagrams this
	// integration discovers, in preference order.
	Renderers() []render.Renderer

	// Diagrams returns the diagrams currently present in the
	// buffer, in document order. The returned records carry no
	// image handle.
	Diagrams(buf *buffer.Buffer) ([]*diagram.Diagram, error)

	// AnchorOffset is the row correction applied to discovered
	// ranges when this integration's document format reports them
	// off the intended display origin. Zero for most formats.
	AnchorOffset() int
}

// ResolveRenderer finds a renderer by id within an integration's
// renderer set. A miss is a configuration invariant violation, not
// a recoverable runtime condition.
func ResolveRenderer(in Integration, id string) (render.Renderer, error) {
	for _, r := range in.Renderers() {
		if r.ID() == id {
			return r, nil
		}
	}
	return nil, ErrRendererNotFound
}
