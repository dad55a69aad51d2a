package preview

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/google/uuid"

	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/renderer"
	"github.com/dshills/folio/internal/renderer/surface"
)

const resumeLayout = `{"sections": [
	{"type": "header", "content": "John Doe", "position": {"x": 297.6, "y": 50},
	 "font": "Helvetica-Bold", "size": 28, "color": "#1e40af", "align": "center", "text_anchor": "middle"},
	{"type": "section_header", "content": "EDUCATION", "position": {"x": 50, "y": 150},
	 "font": "Helvetica-Bold", "size": 14, "color": "#1e40af"},
	{"type": "line", "position": {"x": 50, "y": 155}, "end_position": {"x": 545, "y": 155}, "color": "#1e40af", "width": 1}
]}`

func newTestSession(t *testing.T) (*Session, *surface.Recorder) {
	t.Helper()
	rec := surface.NewRecorder(layout.PageWidth, layout.PageHeight)
	return NewSession(rec, DefaultOptions()), rec
}

func TestSessionID(t *testing.T) {
	s, _ := newTestSession(t)
	if _, err := uuid.Parse(s.ID()); err != nil {
		t.Errorf("session id should be a uuid: %v", err)
	}

	other, _ := newTestSession(t)
	if s.ID() == other.ID() {
		t.Error("sessions should have distinct ids")
	}
}

func TestSessionLoadBytes(t *testing.T) {
	s, rec := newTestSession(t)

	if err := s.LoadBytes([]byte(resumeLayout)); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	if s.Document().Len() != 3 {
		t.Errorf("expected 3 sections, got %d", s.Document().Len())
	}
	if rec.Count(surface.OpDrawText) != 2 || rec.Count(surface.OpStrokeLine) != 1 {
		t.Errorf("expected the loaded document to be painted, got %v", rec.Ops())
	}
}

func TestSessionLoadBytesRejectedKeepsPrior(t *testing.T) {
	s, rec := newTestSession(t)
	if err := s.LoadBytes([]byte(resumeLayout)); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	prior := s.Document()
	paints := rec.Count(surface.OpClear)

	err := s.LoadBytes([]byte(`{"page": {}}`))
	if !errors.Is(err, layout.ErrMissingSections) {
		t.Fatalf("expected ErrMissingSections, got %v", err)
	}
	if s.Document() != prior {
		t.Error("rejected layout must not replace the bound document")
	}
	if rec.Count(surface.OpClear) != paints {
		t.Error("rejected layout must not repaint")
	}
}

func TestSessionLoadNil(t *testing.T) {
	s, _ := newTestSession(t)
	if err := s.Load(nil); !errors.Is(err, ErrNoDocument) {
		t.Errorf("expected ErrNoDocument, got %v", err)
	}
}

func TestSessionControlSurface(t *testing.T) {
	s, rec := newTestSession(t)
	if err := s.LoadBytes([]byte(resumeLayout)); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}

	steps := []struct {
		name string
		op   func() error
		want float64
	}{
		{"zoom in", s.ZoomIn, 1.2},
		{"zoom in again", s.ZoomIn, 1.44},
		{"zoom out", s.ZoomOut, 1.152},
		{"reset", s.ResetZoom, 1},
		{"zoom out from 1", s.ZoomOut, 0.8},
	}

	for _, step := range steps {
		if err := step.op(); err != nil {
			t.Fatalf("%s failed: %v", step.name, err)
		}
		if diff := s.Scale() - step.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: expected scale %v, got %v", step.name, step.want, s.Scale())
		}
	}

	// One paint for the load and one per committed change.
	if got := rec.Count(surface.OpClear); got != 6 {
		t.Errorf("expected 6 paints, got %d", got)
	}
}

func TestSessionLoadResetsZoom(t *testing.T) {
	s, _ := newTestSession(t)
	if err := s.LoadBytes([]byte(resumeLayout)); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	_ = s.ZoomIn()

	if err := s.LoadBytes([]byte(resumeLayout)); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	if s.Scale() != 1 {
		t.Errorf("new document should reset zoom, got %v", s.Scale())
	}
}

func TestSessionClose(t *testing.T) {
	s, rec := newTestSession(t)
	if err := s.LoadBytes([]byte(resumeLayout)); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	_ = s.ZoomIn()
	before := len(rec.Ops())

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if s.Document() != nil {
		t.Error("Close should drop the document")
	}
	if s.Scale() != 1 {
		t.Errorf("Close should reset zoom, got %v", s.Scale())
	}
	if len(rec.Ops()) != before {
		t.Error("Close should not paint")
	}

	// Zooming a closed preview changes the scale but paints nothing.
	_ = s.ZoomIn()
	if len(rec.Ops()) != before {
		t.Error("zoom without a document should not paint")
	}
}

func TestSessionRedraw(t *testing.T) {
	s, rec := newTestSession(t)
	if err := s.LoadBytes([]byte(resumeLayout)); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}

	if err := s.Redraw(); err != nil {
		t.Fatalf("Redraw failed: %v", err)
	}
	if rec.Count(surface.OpClear) != 2 {
		t.Errorf("expected forced repaint, got %d paints", rec.Count(surface.OpClear))
	}
}

func TestSessionOnRendered(t *testing.T) {
	s, _ := newTestSession(t)

	var last renderer.Stats
	s.OnRendered(func(st renderer.Stats) { last = st })

	if err := s.LoadBytes([]byte(resumeLayout)); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	if last.Sections != 3 || last.Drawn != 3 {
		t.Errorf("unexpected stats %+v", last)
	}
}

func TestSessionSnapshot(t *testing.T) {
	s, _ := newTestSession(t)

	var buf bytes.Buffer
	if err := s.Snapshot(&buf); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}

	if err := s.LoadBytes([]byte(resumeLayout)); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	_ = s.ZoomOut()

	if err := s.Snapshot(&buf); err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("snapshot is not a png: %v", err)
	}

	// 595x842 at 0.8
	if b := img.Bounds(); b.Dx() != 476 || b.Dy() != 674 {
		t.Errorf("expected 476x674, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestSessionSnapshotIgnoresPageExtents(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"huge", `{"width": 1e6, "height": 1e6}`},
		{"double", `{"width": 1190, "height": 1684}`},
		{"small", `{"width": 100, "height": 100}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t)
			if err := s.LoadBytes([]byte(`{"page": ` + tt.page + `, "sections": []}`)); err != nil {
				t.Fatalf("LoadBytes failed: %v", err)
			}

			var buf bytes.Buffer
			if err := s.Snapshot(&buf); err != nil {
				t.Fatalf("Snapshot failed: %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("snapshot is not a png: %v", err)
			}
			if b := img.Bounds(); b.Dx() != layout.PageWidth || b.Dy() != layout.PageHeight {
				t.Errorf("expected %dx%d, got %dx%d", layout.PageWidth, layout.PageHeight, b.Dx(), b.Dy())
			}
		})
	}
}
