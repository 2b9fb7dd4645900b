package ui

import (
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/pager/internal/model"
)

// PrimaryPointerID is the id given to the single pointer fyne reports
const PrimaryPointerID = 0

// PointerAdapter turns fyne's touch, mouse and drag callbacks into the
// engine's pointer samples. Fyne delivers one pointer per widget, so every
// sample carries PrimaryPointerID. A release may arrive through both the
// up handler and DragEnd; only the first one is forwarded.
type PointerAdapter struct {
	now  func() time.Time
	sink func(model.PointerEvent)

	down bool
	last fyne.Position
}

// NewPointerAdapter creates an adapter forwarding samples to sink
func NewPointerAdapter(now func() time.Time, sink func(model.PointerEvent)) *PointerAdapter {
	if now == nil {
		now = time.Now
	}
	return &PointerAdapter{now: now, sink: sink}
}

// IsDown reports whether a pointer sequence is in progress
func (pa *PointerAdapter) IsDown() bool {
	return pa.down
}

// Down starts a sequence at pos
func (pa *PointerAdapter) Down(pos fyne.Position) {
	if pa.down {
		// A lost up; close the old sequence where it was
		pa.emit(model.PointerCancel, pa.last)
	}
	pa.down = true
	pa.last = pos
	pa.emit(model.PointerDown, pos)
}

// Move reports the pointer at pos. A move without a down starts a sequence.
func (pa *PointerAdapter) Move(pos fyne.Position) {
	if !pa.down {
		pa.Down(pos)
		return
	}
	if pos == pa.last {
		return
	}
	pa.last = pos
	pa.emit(model.PointerMove, pos)
}

// Up ends the sequence at pos
func (pa *PointerAdapter) Up(pos fyne.Position) {
	if !pa.down {
		return
	}
	pa.down = false
	pa.last = pos
	pa.emit(model.PointerUp, pos)
}

// UpAtLast ends the sequence where the pointer was last seen, as on DragEnd
func (pa *PointerAdapter) UpAtLast() {
	pa.Up(pa.last)
}

// Cancel abandons the sequence
func (pa *PointerAdapter) Cancel() {
	if !pa.down {
		return
	}
	pa.down = false
	pa.emit(model.PointerCancel, pa.last)
}

func (pa *PointerAdapter) emit(phase model.PointerPhase, pos fyne.Position) {
	if pa.sink != nil {
		pa.sink(model.SinglePointer(phase, PrimaryPointerID, pos.X, pos.Y, pa.now()))
	}
}
