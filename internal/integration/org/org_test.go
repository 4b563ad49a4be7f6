package org

import (
	"testing"

	"github.com/dshills/inkline/internal/engine/buffer"
	"github.com/dshills/inkline/internal/render"
)

type stubRenderer struct {
	id string
}

func (s *stubRenderer) ID() string { return s.id }

func (s *stubRenderer) Render(string, render.Options) (render.Result, error) {
	return render.Result{}, nil
}

func newIntegration() *Integration {
	return New(&stubRenderer{id: "mermaid"}, &stubRenderer{id: "gnuplot"})
}

func TestDiagrams_SingleBlock(t *testing.T) {
	content := "* Heading\n\n#+begin_src mermaid\ngraph TD;\n#+end_src\n"
	buf := buffer.New("notes.org", content)

	diagrams, err := newIntegration().Diagrams(buf)
	if err != nil {
		t.Fatalf("Diagrams failed: %v", err)
	}
	if len(diagrams) != 1 {
		t.Fatalf("expected 1 diagram, got %d", len(diagrams))
	}

	d := diagrams[0]
	if d.RendererID != "mermaid" {
		t.Errorf("expected renderer mermaid, got %q", d.RendererID)
	}
	if d.Source != "graph TD;" {
		t.Errorf("unexpected source %q", d.Source)
	}
	if d.Range.Start.Row != 2 {
		t.Errorf("expected start row 2, got %d", d.Range.Start.Row)
	}
}

func TestDiagrams_CaseInsensitiveMarkers(t *testing.T) {
	content := "#+BEGIN_SRC gnuplot\nplot sin(x)\n#+END_SRC\n"
	buf := buffer.New("notes.org", content)

	diagrams, err := newIntegration().Diagrams(buf)
	if err != nil {
		t.Fatalf("Diagrams failed: %v", err)
	}
	if len(diagrams) != 1 || diagrams[0].RendererID != "gnuplot" {
		t.Fatalf("expected uppercase markers to parse, got %v", diagrams)
	}
}

func TestDiagrams_IgnoresOtherLanguages(t *testing.T) {
	content := "#+begin_src python\nprint('hi')\n#+end_src\n"
	buf := buffer.New("notes.org", content)

	diagrams, err := newIntegration().Diagrams(buf)
	if err != nil {
		t.Fatalf("Diagrams failed: %v", err)
	}
	if len(diagrams) != 0 {
		t.Errorf("expected no diagrams, got %d", len(diagrams))
	}
}

func TestDiagrams_UnclosedBlock(t *testing.T) {
	content := "#+begin_src mermaid\ngraph TD;\n"
	buf := buffer.New("notes.org", content)

	diagrams, err := newIntegration().Diagrams(buf)
	if err != nil {
		t.Fatalf("Diagrams failed: %v", err)
	}
	if len(diagrams) != 0 {
		t.Errorf("expected no diagrams from unclosed block, got %d", len(diagrams))
	}
}

func TestAnchorOffset(t *testing.T) {
	if got := newIntegration().AnchorOffset(); got != -1 {
		t.Errorf("expected one-row upward correction, got %d", got)
	}
}

func TestBlockOpen(t *testing.T) {
	tests := []struct {
		line     string
		wantLang string
		wantOK   bool
	}{
		{"#+begin_src mermaid", "mermaid", true},
		{"  #+begin_src d2 :results none", "d2", true},
		{"#+BEGIN_SRC gnuplot", "gnuplot", true},
		{"#+begin_src", "", true},
		{"#+begin_quote", "", false},
		{"text", "", false},
	}

	for _, tt := range tests {
		lang, ok := blockOpen(tt.line)
		if lang != tt.wantLang || ok != tt.wantOK {
			t.Errorf("blockOpen(%q) = (%q, %v), want (%q, %v)",
				tt.line, lang, ok, tt.wantLang, tt.wantOK)
		}
	}
}
