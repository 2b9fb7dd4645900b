package gesture

import (
	"math"

	"fyne.io/fyne/v2"

	"github.com/ytget/pager/internal/model"
)

// PinchDetector accumulates the shrinking distance between the first two
// fingers of a touch sequence
type PinchDetector struct {
	threshold float32
	tracking  bool
	fired     bool
	idA, idB  int
	start     float32
}

// NewPinchDetector creates a detector firing once the fingers moved
// threshold px closer together
func NewPinchDetector(threshold float32) *PinchDetector {
	return &PinchDetector{threshold: threshold}
}

// Begin starts tracking when the sample has at least two fingers
func (pd *PinchDetector) Begin(ev model.PointerEvent) {
	if len(ev.Pointers) < 2 {
		return
	}
	a, b := ev.Pointers[0], ev.Pointers[1]
	pd.tracking = true
	pd.fired = false
	pd.idA, pd.idB = a.ID, b.ID
	pd.start = distance(a.Position, b.Position)
}

// Update returns true exactly once per sequence, when the accumulated pinch
// distance reaches the threshold
func (pd *PinchDetector) Update(ev model.PointerEvent) bool {
	if !pd.tracking || pd.fired {
		return false
	}
	a, okA := ev.Find(pd.idA)
	b, okB := ev.Find(pd.idB)
	if !okA || !okB {
		return false
	}
	if pd.start-distance(a, b) >= pd.threshold {
		pd.fired = true
		return true
	}
	return false
}

// Tracking reports whether a two-finger sequence is being observed
func (pd *PinchDetector) Tracking() bool {
	return pd.tracking
}

// Reset stops tracking
func (pd *PinchDetector) Reset() {
	pd.tracking = false
	pd.fired = false
}

func distance(a, b fyne.Position) float32 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return float32(math.Hypot(dx, dy))
}
