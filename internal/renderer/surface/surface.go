// Package surface provides the paintable targets for the renderer.
//
// A Surface exposes the minimal capability set the renderer needs: clear,
// scale, fill color, text and line strokes. Any target implementing it is
// interchangeable: the Recorder keeps an op log for tests, Raster paints
// into an image.RGBA, and Terminal draws a coarse preview with tcell.
package surface

import "github.com/dshills/folio/internal/layout"

// Surface defines the interface for paintable targets.
// Positions, sizes and widths passed to the drawing methods are in
// document units; the surface applies the current Scale factor once when
// mapping them to its native extents.
type Surface interface {
	// Size returns the native extents of the surface.
	Size() (width, height int)

	// Clear paints the whole surface with an opaque background.
	Clear(bg layout.Color)

	// Scale sets the uniform factor from document units to native units.
	// It replaces the previous factor; it does not compound.
	Scale(factor float64)

	// SetFillColor sets the color used by subsequent fills.
	SetFillColor(c layout.Color)

	// DrawText draws text with its anchor point at the given position.
	// For AlignLeft the anchor is the start of the baseline; for
	// AlignCenter it is the middle of the baseline.
	DrawText(text string, at layout.Point, font layout.Font, align layout.Align, c layout.Color)

	// StrokeLine strokes a straight segment.
	StrokeLine(from, to layout.Point, c layout.Color, width float64)
}
