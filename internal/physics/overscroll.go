package physics

import (
	"math"
)

// Curve selects the overscroll response
type Curve int

const (
	// CurveAccelerated is used by the apps/widgets browser
	CurveAccelerated Curve = iota
	// CurveDamped is used by the desktop
	CurveDamped
	// CurveNone pins the offset at the bounds
	CurveNone
)

// Overscroll tuning
const (
	AccelerateFactor = 2
	DampFactor       = 0.14
)

// AcceleratedOverscroll maps an overscroll amount to its visual offset. The
// response is linear and clamped: half a screen of real scroll reaches the
// full visual limit of one screen.
func AcceleratedOverscroll(amount, screen float32) float32 {
	if screen <= 0 {
		return 0
	}
	f := AccelerateFactor * (amount / screen)
	if f == 0 {
		return 0
	}
	if abs32(f) >= 1 {
		f /= abs32(f)
	}
	return round32(f * screen)
}

// DampedOverscroll maps an overscroll amount through a cubic ease and the
// fixed damping factor
func DampedOverscroll(amount, screen float32) float32 {
	if screen <= 0 {
		return 0
	}
	f := amount / screen
	if f == 0 {
		return 0
	}
	f = f / abs32(f) * influenceCurve(abs32(f))
	if abs32(f) >= 1 {
		f /= abs32(f)
	}
	return round32(DampFactor * f * screen)
}

// influenceCurve is a cubic ease-out on [0,1]
func influenceCurve(f float32) float32 {
	f -= 1
	return f*f*f + 1
}

// Overscroll applies curve c to amount
func (c Curve) Overscroll(amount, screen float32) float32 {
	switch c {
	case CurveAccelerated:
		return AcceleratedOverscroll(amount, screen)
	case CurveDamped:
		return DampedOverscroll(amount, screen)
	default:
		return 0
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func round32(v float32) float32 {
	return float32(math.Round(float64(v)))
}
