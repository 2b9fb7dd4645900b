package model

import "fmt"

// ContentRange identifies one of the item collections sharing a paging surface
type ContentRange int

const (
	// RangeA is the first range (apps on the customize surface, the only range on the desktop)
	RangeA ContentRange = iota
	// RangeB is the second range (widgets on the customize surface)
	RangeB
)

// String returns a readable name for the range
func (r ContentRange) String() string {
	switch r {
	case RangeA:
		return "RangeA"
	case RangeB:
		return "RangeB"
	default:
		return fmt.Sprintf("ContentRange(%d)", int(r))
	}
}

// PageKind tags what a page holds; the populate callback switches on it
type PageKind int

const (
	PageKindIcons PageKind = iota
	PageKindWidgets
)

// String returns a readable name for the kind
func (k PageKind) String() string {
	if k == PageKindWidgets {
		return "widgets"
	}
	return "icons"
}

// Item is one entry placed on a page: an app icon or a widget whose preview
// has to be rendered off the UI thread
type Item struct {
	ID    string
	Label string
	// SpanX/SpanY are only meaningful for widgets
	SpanX int
	SpanY int
}

// PageContent is the tagged page variant handed to populate callbacks
type PageContent struct {
	Kind  PageKind
	Items []Item
}

// PageDescriptor is the engine's record of one logical page
type PageDescriptor struct {
	ID           string
	LogicalIndex int
	Range        ContentRange
	Dirty        bool
	VisualSlot   int
}

// LoadWindow is the inclusive range of visual slots eligible for population
type LoadWindow struct {
	Lower int
	Upper int
}

// Contains reports whether slot lies inside the window
func (w LoadWindow) Contains(slot int) bool {
	return slot >= w.Lower && slot <= w.Upper
}

// Empty reports whether the window covers no slot
func (w LoadWindow) Empty() bool {
	return w.Upper < w.Lower
}

// Len returns the number of slots covered by the window
func (w LoadWindow) Len() int {
	if w.Empty() {
		return 0
	}
	return w.Upper - w.Lower + 1
}
