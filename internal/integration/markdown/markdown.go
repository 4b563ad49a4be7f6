// Package markdown locates diagram source inside fenced code blocks
// of markdown buffers.
package markdown

import (
	"strings"

	"github.com/dshills/inkline/internal/diagram"
	"github.com/dshills/inkline/internal/engine/buffer"
	"github.com/dshills/inkline/internal/integration"
	"github.com/dshills/inkline/internal/render"
)

// Integration discovers ```mermaid style fenced blocks.
type Integration struct {
	renderers []render.Renderer
}

// New creates a markdown integration with the given renderer set.
func New(renderers ...render.Renderer) *Integration {
	return &Integration{renderers: renderers}
}

// ID returns the integration identifier.
func (i *Integration) ID() string { return "markdown" }

// Filetypes lists the content types this integration handles.
func (i *Integration) Filetypes() []string { return []string{"markdown"} }

// Renderers returns the renderer set in preference order.
func (i *Integration) Renderers() []render.Renderer { return i.renderers }

// AnchorOffset is zero: markdown ranges anchor where they are
// reported.
func (i *Integration) AnchorOffset() int { return 0 }

// Diagrams scans the buffer for fenced code blocks whose language
// maps to one of the integration's renderers. Unclosed fences are
// ignored.
func (i *Integration) Diagrams(buf *buffer.Buffer) ([]*diagram.Diagram, error) {
	lines := buf.Lines()
	var out []*diagram.Diagram

	for row := 0; row < len(lines); row++ {
		fence, lang, ok := fenceOpen(lines[row])
		if !ok {
			continue
		}

		closeRow := -1
		for scan := row + 1; scan < len(lines); scan++ {
			if fenceClose(lines[scan], fence) {
				closeRow = scan
				break
			}
		}
		if closeRow < 0 {
			break // unclosed fence swallows the rest of the buffer
		}

		rendererID := integration.NormalizeLanguage(lang)
		if rendererID != "" && i.hasRenderer(rendererID) {
			out = append(out, &diagram.Diagram{
				BufferID:   buf.ID(),
				Source:     strings.Join(lines[row+1:closeRow], "\n"),
				RendererID: rendererID,
				Range: buffer.NewRange(
					buffer.Point{Row: row},
					buffer.Point{Row: closeRow + 1},
				),
			})
		}
		row = closeRow
	}
	return out, nil
}

func (i *Integration) hasRenderer(id string) bool {
	for _, r := range i.renderers {
		if r.ID() == id {
			return true
		}
	}
	return false
}

// fenceOpen reports whether a line opens a fenced code block and
// returns the fence marker and language tag.
func fenceOpen(line string) (fence, lang string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, marker) {
			rest := strings.TrimPrefix(trimmed, marker)
			// A language tag containing the marker is a close, not
			// an open.
			if strings.Contains(rest, marker) {
				return "", "", false
			}
			return marker, strings.TrimSpace(rest), true
		}
	}
	return "", "", false
}

// fenceClose reports whether a line closes a block opened with the
// given fence marker.
func fenceClose(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == fence
}
