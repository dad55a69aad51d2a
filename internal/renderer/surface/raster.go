package surface

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/dshills/folio/internal/layout"
)

// Raster paints into an in-memory RGBA image.
type Raster struct {
	img   *image.RGBA
	fonts *FontBank
	scale float64
	fill  layout.Color
}

// NewRaster creates a raster surface with the given pixel extents.
func NewRaster(width, height int) *Raster {
	return NewRasterWithFonts(width, height, NewFontBank())
}

// NewRasterWithFonts creates a raster surface sharing a font bank.
func NewRasterWithFonts(width, height int, fonts *FontBank) *Raster {
	return &Raster{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		fonts: fonts,
		scale: 1,
		fill:  layout.ColorBlack,
	}
}

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Clear(bg layout.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(bg.ToRGBA()), image.Point{}, draw.Src)
}

func (r *Raster) Scale(factor float64) {
	r.scale = factor
}

func (r *Raster) SetFillColor(c layout.Color) {
	r.fill = c
}

func (r *Raster) DrawText(text string, at layout.Point, f layout.Font, align layout.Align, c layout.Color) {
	if text == "" {
		return
	}

	// Glyphs taller than the image cannot land on it whole.
	px := min(f.Size*r.scale, float64(r.img.Bounds().Dy()))

	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c.ToRGBA()),
		Face: r.fonts.Face(f.Style, px),
	}

	p := at.Scaled(r.scale)
	if !finite(p) {
		return
	}
	x := toFixed(p.X)
	if align == layout.AlignCenter {
		x -= d.MeasureString(text) / 2
	}
	d.Dot = fixed.Point26_6{X: x, Y: toFixed(p.Y)}
	d.DrawString(text)
}

// StrokeLine fills the stroke as a quad of the scaled width with square
// caps. The quad is clipped to the image before it is rasterized.
func (r *Raster) StrokeLine(from, to layout.Point, c layout.Color, width float64) {
	a := from.Scaled(r.scale)
	b := to.Scaled(r.scale)
	half := max(width*r.scale, 1) / 2

	ux, uy := 1.0, 0.0
	if l := math.Hypot(b.X-a.X, b.Y-a.Y); l > 0 {
		ux, uy = (b.X-a.X)/l, (b.Y-a.Y)/l
	}
	ex, ey := ux*half, uy*half
	nx, ny := -ey, ex

	quad := []layout.Point{
		{X: a.X - ex + nx, Y: a.Y - ey + ny},
		{X: b.X + ex + nx, Y: b.Y + ey + ny},
		{X: b.X + ex - nx, Y: b.Y + ey - ny},
		{X: a.X - ex - nx, Y: a.Y - ey - ny},
	}
	if !finite(quad...) {
		return
	}

	bounds := r.img.Bounds()
	clip := clipRect{maxX: float64(bounds.Dx()), maxY: float64(bounds.Dy())}
	poly := clip.polygon(quad)
	if len(poly) < 3 {
		return
	}

	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
	for _, p := range poly[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
	z.Draw(r.img, bounds, image.NewUniform(c.ToRGBA()), image.Point{})
}

// Image returns the painted image. The image is shared, not copied.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// EncodePNG writes the image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
