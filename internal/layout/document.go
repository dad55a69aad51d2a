package layout

import (
	"iter"
	"slices"
)

// Document is an immutable page of sections.
// The zero value and a nil *Document are both empty documents; renderers
// treat a nil *Document as "nothing bound".
type Document struct {
	page     Page
	sections []Section
}

// New creates a document on page from the given sections, in paint order.
// The slice is copied.
func New(page Page, sections ...Section) *Document {
	return &Document{
		page:     page,
		sections: slices.Clone(sections),
	}
}

// Page returns the authoring page.
func (d *Document) Page() Page {
	if d == nil {
		return DefaultPage()
	}
	return d.page
}

// Len returns the number of sections.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.sections)
}

// Section returns the i-th section in paint order.
func (d *Document) Section(i int) Section {
	return d.sections[i]
}

// All iterates sections in paint order.
func (d *Document) All() iter.Seq2[int, Section] {
	return func(yield func(int, Section) bool) {
		if d == nil {
			return
		}
		for i, s := range d.sections {
			if !yield(i, s) {
				return
			}
		}
	}
}

// CountKind returns the number of sections with the given kind.
func (d *Document) CountKind(kind Kind) int {
	n := 0
	for _, s := range d.All() {
		if s.Kind() == kind {
			n++
		}
	}
	return n
}
