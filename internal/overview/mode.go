package overview

import "fmt"

// Mode is the overview state
type Mode int

const (
	ModeNormal Mode = iota
	ModeEntering
	ModePreviews
	ModeExiting
)

// String returns a readable mode name
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeEntering:
		return "Entering"
	case ModePreviews:
		return "Previews"
	case ModeExiting:
		return "Exiting"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// IsActive reports whether the overview owns input
func (m Mode) IsActive() bool {
	return m != ModeNormal
}

// IsTransition reports whether the mode is an entry or exit animation
func (m Mode) IsTransition() bool {
	return m == ModeEntering || m == ModeExiting
}
