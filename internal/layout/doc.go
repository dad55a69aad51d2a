// Package layout holds the page model consumed by the renderer.
//
// A Document is an immutable, ordered list of Sections whose absolute
// positions were computed by an external build step. Order is paint order:
// later sections overlap earlier ones. Documents are replaced wholesale
// when a new build result arrives and are never edited in place.
//
// Coordinates are expressed in document units on a portrait A4 page
// (595x842), origin at the top-left corner with y growing downward.
// Text positions name the baseline anchor point.
//
// Usage:
//
//	doc, err := layout.Decode(data)
//	if err != nil {
//		return err
//	}
//	for i, s := range doc.All() {
//		...
//	}
package layout
