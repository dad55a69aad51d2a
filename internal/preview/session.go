// Package preview hosts a layout preview session: the bound document, the
// zoom state and the scheduler that repaints the surface when either
// changes.
package preview

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/logging"
	"github.com/dshills/folio/internal/renderer"
	"github.com/dshills/folio/internal/renderer/surface"
	"github.com/dshills/folio/internal/zoom"
)

// Options configures a Session.
type Options struct {
	Render renderer.Options
	Zoom   zoom.Options
	Logger *logging.Logger
}

// DefaultOptions returns the default session options.
func DefaultOptions() Options {
	return Options{
		Render: renderer.DefaultOptions(),
		Zoom:   zoom.DefaultOptions(),
	}
}

// Session is one preview of build results on a surface.
// It exposes the control surface used by the host UI: ZoomIn, ZoomOut
// and ResetZoom.
type Session struct {
	id        uuid.UUID
	opts      Options
	log       *logging.Logger
	zoom      *zoom.Controller
	renderer  *renderer.Renderer
	scheduler *Scheduler

	fontsOnce sync.Once
	fonts     *surface.FontBank
}

// NewSession creates a session painting onto s.
func NewSession(s surface.Surface, opts Options) *Session {
	id := uuid.New()

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.WithComponent("preview").WithField("session", id.String())

	r := renderer.New(s, opts.Render)
	r.SetLogger(log)
	z := zoom.New(opts.Zoom)

	return &Session{
		id:        id,
		opts:      opts,
		log:       log,
		zoom:      z,
		renderer:  r,
		scheduler: NewScheduler(r, z, log),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// Scheduler returns the session's redraw scheduler.
func (s *Session) Scheduler() *Scheduler {
	return s.scheduler
}

// OnRendered registers a callback run after every repaint.
func (s *Session) OnRendered(fn func(renderer.Stats)) {
	s.scheduler.OnRendered(fn)
}

// Document returns the bound document, or nil.
func (s *Session) Document() *layout.Document {
	return s.scheduler.Document()
}

// Scale returns the current zoom factor.
func (s *Session) Scale() float64 {
	return s.zoom.Current()
}

// Load binds a new build result, replacing any previous document, and
// resets the zoom. A nil document is rejected with ErrNoDocument.
func (s *Session) Load(doc *layout.Document) error {
	if doc == nil {
		return ErrNoDocument
	}
	s.log.Info("document loaded", "sections", doc.Len())
	return s.scheduler.SetDocument(doc)
}

// LoadBytes decodes a layout and binds it. On decode failure the
// previously bound document stays in place.
func (s *Session) LoadBytes(data []byte) error {
	doc, err := layout.Decode(data)
	if err != nil {
		s.log.Warn("layout rejected", "error", err)
		return fmt.Errorf("loading layout: %w", err)
	}
	return s.Load(doc)
}

// Close ends the preview: the document is dropped and the zoom reset.
// The surface keeps its last frame.
func (s *Session) Close() error {
	s.log.Info("preview closed")
	return s.scheduler.SetDocument(nil)
}

// ZoomIn multiplies the scale by the zoom-in factor if it stays in range.
func (s *Session) ZoomIn() error {
	s.zoom.ZoomIn()
	return s.scheduler.Notify()
}

// ZoomOut multiplies the scale by the zoom-out factor if it stays in range.
func (s *Session) ZoomOut() error {
	s.zoom.ZoomOut()
	return s.scheduler.Notify()
}

// ResetZoom returns the scale to 1.
func (s *Session) ResetZoom() error {
	s.zoom.Reset()
	return s.scheduler.Notify()
}

// ZoomBy applies an arbitrary factor with the same range rules.
func (s *Session) ZoomBy(factor float64) error {
	s.zoom.ZoomBy(factor)
	return s.scheduler.Notify()
}

// Redraw repaints the current state unconditionally.
func (s *Session) Redraw() error {
	s.scheduler.MarkFullRedraw()
	return s.scheduler.Notify()
}

// Snapshot renders the bound document at the current scale into a fresh
// raster sized to the canonical page and writes it as PNG. The document's
// page block does not change the raster extents.
func (s *Session) Snapshot(w io.Writer) error {
	doc := s.Document()
	if doc == nil {
		return ErrNoDocument
	}

	s.fontsOnce.Do(func() {
		s.fonts = surface.NewFontBank()
	})

	scale := s.Scale()
	width, height := layout.DefaultPage().ScaledSize(scale)
	ras := surface.NewRasterWithFonts(width, height, s.fonts)

	if _, err := renderer.New(ras, s.renderer.Options()).Render(doc, scale); err != nil {
		return fmt.Errorf("rendering snapshot: %w", err)
	}
	return ras.EncodePNG(w)
}
