package surface

import (
	"math"

	"github.com/dshills/folio/internal/layout"
)

// clipRect is an axis-aligned clip region in surface coordinates.
type clipRect struct {
	minX, minY, maxX, maxY float64
}

// segment clips a-b to the rect with Liang-Barsky. ok is false when no
// part of the segment lies inside.
func (c clipRect) segment(a, b layout.Point) (layout.Point, layout.Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	edges := [4][2]float64{
		{-dx, a.X - c.minX},
		{dx, c.maxX - a.X},
		{-dy, a.Y - c.minY},
		{dy, c.maxY - a.Y},
	}

	t0, t1 := 0.0, 1.0
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = max(t0, t)
		} else {
			t1 = min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}

	return layout.Point{X: a.X + t0*dx, Y: a.Y + t0*dy},
		layout.Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

// polygon clips a convex polygon to the rect with Sutherland-Hodgman.
// The result is empty when nothing remains.
func (c clipRect) polygon(poly []layout.Point) []layout.Point {
	poly = clipEdge(poly, func(p layout.Point) float64 { return p.X - c.minX })
	poly = clipEdge(poly, func(p layout.Point) float64 { return c.maxX - p.X })
	poly = clipEdge(poly, func(p layout.Point) float64 { return p.Y - c.minY })
	poly = clipEdge(poly, func(p layout.Point) float64 { return c.maxY - p.Y })

	for i := range poly {
		poly[i].X = min(max(poly[i].X, c.minX), c.maxX)
		poly[i].Y = min(max(poly[i].Y, c.minY), c.maxY)
	}
	return poly
}

// clipEdge keeps the part of poly where dist is non-negative.
func clipEdge(poly []layout.Point, dist func(layout.Point) float64) []layout.Point {
	if len(poly) == 0 {
		return nil
	}

	out := make([]layout.Point, 0, len(poly)+1)
	prev := poly[len(poly)-1]
	dp := dist(prev)
	for _, p := range poly {
		d := dist(p)
		if (d >= 0) != (dp >= 0) {
			t := dp / (dp - d)
			out = append(out, layout.Point{
				X: prev.X + (p.X-prev.X)*t,
				Y: prev.Y + (p.Y-prev.Y)*t,
			})
		}
		if d >= 0 {
			out = append(out, p)
		}
		prev, dp = p, d
	}
	return out
}

func finite(pts ...layout.Point) bool {
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}
