// Package org locates diagram source inside #+begin_src blocks of
// org buffers.
//
// Org block ranges are reported one row below the intended display
// origin, so this integration carries a one-row upward anchor
// correction.
package org

import (
	"strings"

	"github.com/dshills/inkline/internal/diagram"
	"github.com/dshills/inkline/internal/engine/buffer"
	"github.com/dshills/inkline/internal/integration"
	"github.com/dshills/inkline/internal/render"
)

// Integration discovers #+begin_src blocks.
type Integration struct {
	renderers []render.Renderer
}

// New creates an org integration with the given renderer set.
func New(renderers ...render.Renderer) *Integration {
	return &Integration{renderers: renderers}
}

// ID returns the integration identifier.
func (i *Integration) ID() string { return "org" }

// Filetypes lists the content types this integration handles.
func (i *Integration) Filetypes() []string { return []string{"org"} }

// Renderers returns the renderer set in preference order.
func (i *Integration) Renderers() []render.Renderer { return i.renderers }

// AnchorOffset shifts anchors one row up; org reports block ranges
// one row below the display origin.
func (i *Integration) AnchorOffset() int { return -1 }

// Diagrams scans the buffer for source blocks whose language maps
// to one of the integration's renderers.
func (i *Integration) Diagrams(buf *buffer.Buffer) ([]*diagram.Diagram, error) {
	lines := buf.Lines()
	var out []*diagram.Diagram

	for row := 0; row < len(lines); row++ {
		lang, ok := blockOpen(lines[row])
		if !ok {
			continue
		}

		closeRow := -1
		for scan := row + 1; scan < len(lines); scan++ {
			if blockClose(lines[scan]) {
				closeRow = scan
				break
			}
		}
		if closeRow < 0 {
			break
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

// blockOpen reports whether a line opens a source block and returns
// its language tag.
func blockOpen(line string) (lang string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "#+begin_src") {
		return "", false
	}
	rest := strings.TrimSpace(trimmed[len("#+begin_src"):])
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", true
	}
	return fields[0], true
}

// blockClose reports whether a line closes a source block.
func blockClose(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "#+end_src")
}
