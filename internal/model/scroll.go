package model

// NoPointer marks the absence of an active pointer
const NoPointer = -1

// ScrollState is the single mutable scroll record of a paging surface.
// Only the gesture and physics components write it.
type ScrollState struct {
	// CurrentOffset is the visual offset, damped while overscrolling
	CurrentOffset float32
	// TargetOffset is where the running interpolation ends
	TargetOffset float32
	// UnboundedOffset is the raw offset the finger asked for
	UnboundedOffset float32
	TouchState      TouchState
	ActivePointerID int
	// VelocityEstimate is in px/s, positive when content moves right
	VelocityEstimate float32
}

// NewScrollState returns a resting state at offset zero
func NewScrollState() ScrollState {
	return ScrollState{ActivePointerID: NoPointer}
}

// HasActivePointer reports whether a pointer is currently tracked
func (s ScrollState) HasActivePointer() bool {
	return s.ActivePointerID != NoPointer
}

// IsOverscrolled reports whether the visual offset diverges from the raw one
func (s ScrollState) IsOverscrolled() bool {
	return s.CurrentOffset != s.UnboundedOffset
}
