package preview

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/logging"
	"github.com/dshills/folio/internal/renderer"
	"github.com/dshills/folio/internal/zoom"
)

// Scheduler repaints whenever the (document, scale) pair changes.
//
// Every repaint is a full clear-and-paint; there is no partial
// invalidation. Renders run synchronously on the goroutine that reported
// the change. A change reported while a render is in flight is coalesced:
// the in-flight render loops once more with the latest state instead of
// re-entering the renderer.
type Scheduler struct {
	renderer *renderer.Renderer
	zoom     *zoom.Controller
	log      *logging.Logger

	doc atomic.Pointer[layout.Document]

	mu         sync.Mutex
	rendering  bool
	pending    bool
	fullRedraw bool
	painted    bool
	lastDoc    *layout.Document
	lastScale  float64
	onRendered func(renderer.Stats)
}

// NewScheduler creates a scheduler observing z and painting with r.
func NewScheduler(r *renderer.Renderer, z *zoom.Controller, log *logging.Logger) *Scheduler {
	if log == nil {
		log = logging.Nop()
	}
	return &Scheduler{
		renderer: r,
		zoom:     z,
		log:      log.WithComponent("scheduler"),
	}
}

// OnRendered registers a callback run after every completed render,
// outside the scheduler lock. It may report further changes.
func (s *Scheduler) OnRendered(fn func(renderer.Stats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRendered = fn
}

// Document returns the bound document, or nil.
func (s *Scheduler) Document() *layout.Document {
	return s.doc.Load()
}

// SetDocument atomically replaces the bound document and resets the zoom
// to its default, then repaints. Passing nil unbinds the document.
func (s *Scheduler) SetDocument(doc *layout.Document) error {
	s.doc.Store(doc)
	s.zoom.Reset()
	return s.Notify()
}

// MarkFullRedraw forces the next Notify to repaint even if the pair is
// unchanged, e.g. after the surface was resized.
func (s *Scheduler) MarkFullRedraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fullRedraw = true
}

// Notify reports that the document or scale may have changed and repaints
// if they did.
func (s *Scheduler) Notify() error {
	s.mu.Lock()
	if s.rendering {
		s.pending = true
		s.mu.Unlock()
		return nil
	}
	s.rendering = true
	s.mu.Unlock()

	for {
		err := s.renderIfChanged()

		s.mu.Lock()
		if err != nil || !s.pending {
			s.rendering = false
			s.pending = false
			s.mu.Unlock()
			return err
		}
		s.pending = false
		s.mu.Unlock()
	}
}

// renderIfChanged paints the latest pair unless it was already painted.
func (s *Scheduler) renderIfChanged() error {
	doc := s.doc.Load()
	scale := s.zoom.Current()

	s.mu.Lock()
	unchanged := s.painted && !s.fullRedraw && doc == s.lastDoc && scale == s.lastScale
	s.fullRedraw = false
	onRendered := s.onRendered
	s.mu.Unlock()

	if unchanged {
		return nil
	}

	stats, err := s.renderer.Render(doc, scale)
	if err != nil {
		s.log.Error("render failed", "error", err)
		return err
	}

	s.mu.Lock()
	s.painted = true
	s.lastDoc = doc
	s.lastScale = scale
	s.mu.Unlock()

	s.log.Debug("rendered",
		"sections", stats.Sections,
		"drawn", stats.Drawn,
		"skipped", stats.Skipped,
		"scale", scale,
	)

	// Nothing was painted for an unbound document.
	if onRendered != nil && doc != nil {
		onRendered(stats)
	}
	return nil
}
