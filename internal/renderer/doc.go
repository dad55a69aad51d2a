// Package renderer paints layout documents onto a surface.
//
// The renderer is a pure mapping from (document, scale) to an ordered
// sequence of surface operations:
//   - Clear the surface to an opaque background
//   - Apply the zoom factor once as a uniform scale
//   - Paint sections in document order (painter's algorithm)
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│      preview.Session / Scheduler        │
//	├─────────────────────────────────────────┤
//	│           Renderer (Facade)             │
//	├─────────────────────────────────────────┤
//	│          Surface Abstraction            │
//	├─────────────────────────────────────────┤
//	│  Recorder │ Raster (x/image) │ tcell    │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	r := renderer.New(surface.NewRaster(595, 842), renderer.DefaultOptions())
//	stats, err := r.Render(doc, 1.0)
package renderer
