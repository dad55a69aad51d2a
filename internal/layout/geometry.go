package layout

// Canonical page extents in document units (A4 portrait, points).
const (
	PageWidth  = 595
	PageHeight = 842
)

// Point is a position in document units.
type Point struct {
	X, Y float64
}

// Pt creates a point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Scaled returns the point multiplied by factor on both axes.
func (p Point) Scaled(factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

// Page describes the authoring page of a document.
type Page struct {
	Width       float64
	Height      float64
	MarginLeft  float64
	MarginRight float64
	MarginTop   float64
}

// DefaultPage returns the canonical portrait page with 50 unit margins.
func DefaultPage() Page {
	return Page{
		Width:       PageWidth,
		Height:      PageHeight,
		MarginLeft:  50,
		MarginRight: 50,
		MarginTop:   50,
	}
}

// ScaledSize returns the pixel extents needed to hold the page at factor,
// rounded up so no content is clipped.
func (p Page) ScaledSize(factor float64) (width, height int) {
	w := p.Width * factor
	h := p.Height * factor
	width = int(w)
	if float64(width) < w {
		width++
	}
	height = int(h)
	if float64(height) < h {
		height++
	}
	return width, height
}
