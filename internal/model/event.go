package model

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
)

// PointerPhase is the kind of a raw pointer sample
type PointerPhase int

const (
	PointerDown PointerPhase = iota
	PointerMove
	PointerUp
	PointerCancel
	// PointerSecondaryDown is an additional finger landing
	PointerSecondaryDown
	// PointerSecondaryUp is a non-last finger lifting
	PointerSecondaryUp
)

// String returns a readable name for the phase
func (p PointerPhase) String() string {
	switch p {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	case PointerSecondaryDown:
		return "pointer-down"
	case PointerSecondaryUp:
		return "pointer-up"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Pointer is one finger within a sample
type Pointer struct {
	ID       int
	Position fyne.Position
}

// PointerEvent is a sample of every finger currently down. For Down/Up/
// SecondaryDown/SecondaryUp, ActionID names the finger that changed.
type PointerEvent struct {
	Phase    PointerPhase
	ActionID int
	Pointers []Pointer
	Time     time.Time
}

// Find returns the position of pointer id within the sample
func (e PointerEvent) Find(id int) (fyne.Position, bool) {
	for _, p := range e.Pointers {
		if p.ID == id {
			return p.Position, true
		}
	}
	return fyne.Position{}, false
}

// Primary returns the first pointer of the sample
func (e PointerEvent) Primary() Pointer {
	if len(e.Pointers) == 0 {
		return Pointer{ID: NoPointer}
	}
	return e.Pointers[0]
}

// SinglePointer builds a one-finger event
func SinglePointer(phase PointerPhase, id int, x, y float32, at time.Time) PointerEvent {
	return PointerEvent{
		Phase:    phase,
		ActionID: id,
		Pointers: []Pointer{{ID: id, Position: fyne.NewPos(x, y)}},
		Time:     at,
	}
}
