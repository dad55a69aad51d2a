package renderer

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/logging"
	"github.com/dshills/folio/internal/renderer/surface"
)

// ErrSurfaceUnavailable indicates no drawable target is bound.
var ErrSurfaceUnavailable = errors.New("no surface bound")

// Options configures the renderer.
type Options struct {
	// Background is the opaque color the surface is cleared to.
	Background layout.Color
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Background: layout.ColorWhite,
	}
}

// Stats summarizes one render pass.
type Stats struct {
	Sections int     // sections in the document
	Drawn    int     // sections that produced a draw or stroke
	Skipped  int     // sections of unrecognized kind
	Scale    float64 // factor applied to the surface
	Elapsed  time.Duration
}

// Renderer is the rendering facade.
// It owns its surface while a render is in progress; callers must not
// invoke Render concurrently (the preview scheduler serializes calls).
type Renderer struct {
	mu sync.RWMutex

	opts    Options
	surface surface.Surface
	log     *logging.Logger

	frameCount uint64
}

// New creates a renderer bound to the given surface.
func New(s surface.Surface, opts Options) *Renderer {
	return &Renderer{
		opts:    opts,
		surface: s,
		log:     logging.Nop(),
	}
}

// SetLogger sets the logger used for debug output.
func (r *Renderer) SetLogger(l *logging.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l == nil {
		l = logging.Nop()
	}
	r.log = l.WithComponent("renderer")
}

// SetSurface binds a different surface. Passing nil unbinds it.
func (r *Renderer) SetSurface(s surface.Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surface = s
}

// Surface returns the bound surface.
func (r *Renderer) Surface() surface.Surface {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.surface
}

// Options returns the current options.
func (r *Renderer) Options() Options {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.opts
}

// SetOptions updates the renderer options.
func (r *Renderer) SetOptions(opts Options) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts = opts
}

// FrameCount returns the number of completed renders.
func (r *Renderer) FrameCount() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frameCount
}

// Render paints doc at the given scale.
//
// A missing surface is fatal for the call and returns ErrSurfaceUnavailable.
// A nil document is a no-op that leaves the surface untouched. A
// non-positive or non-finite scale is treated as 1.
func (r *Renderer) Render(doc *layout.Document, scale float64) (Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.surface == nil {
		return Stats{}, ErrSurfaceUnavailable
	}
	if doc == nil {
		return Stats{}, nil
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}

	start := time.Now()
	stats := Stats{Sections: doc.Len(), Scale: scale}

	r.surface.Clear(r.opts.Background)
	r.surface.Scale(scale)

	for i, s := range doc.All() {
		if r.paint(s) {
			stats.Drawn++
			continue
		}
		stats.Skipped++
		r.log.Debug("skipping section", "index", i, "kind", string(s.Kind()))
	}

	r.frameCount++
	stats.Elapsed = time.Since(start)
	return stats, nil
}

// paint issues the operations for one section.
// Returns false for kinds that paint nothing.
func (r *Renderer) paint(s layout.Section) bool {
	switch s := s.(type) {
	case layout.TextSection:
		r.surface.SetFillColor(s.Color)
		r.surface.DrawText(s.Content, s.Position, s.ResolvedFont(), s.Alignment(), s.Color)
		return true
	case layout.LineSection:
		r.surface.StrokeLine(s.Position, s.EndPosition, s.Color, s.Width)
		return true
	default:
		return false
	}
}
