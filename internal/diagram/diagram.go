package diagram

import (
	"fmt"

	"github.com/dshills/inkline/internal/engine/buffer"
)

// Image is the displayed-image resource bound to a materialized
// diagram. Concrete handles are produced by the image package.
type Image interface {
	// Render paints the image on its window.
	Render() error
	// Clear releases the image's screen resources. Safe to call on
	// an image that was never rendered.
	Clear() error
}

// Diagram represents one discovered diagram instance inside a buffer.
//
// A Diagram is created by an integration query each time the
// orchestrator renders a buffer, and removed from the registry when
// the buffer is cleared. A Diagram with a nil Image is a pending
// record that has not yet been materialized.
type Diagram struct {
	// BufferID identifies the owning buffer.
	BufferID buffer.ID

	// Source is the raw diagram-language text to render.
	Source string

	// RendererID identifies which renderer produces the image.
	RendererID string

	// Range locates where the image is anchored in the buffer.
	Range buffer.Range

	// Image is the live displayed-image handle once materialized.
	// Nil before render and after clear.
	Image Image
}

// String returns a short description for logging.
func (d *Diagram) String() string {
	return fmt.Sprintf("diagram{buf=%d renderer=%s range=%s}", d.BufferID, d.RendererID, d.Range)
}
