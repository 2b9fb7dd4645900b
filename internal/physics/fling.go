package physics

import (
	"math"
	"time"
)

// Release thresholds as fractions of the page width
const (
	SignificantMoveThreshold = 0.4
	ReturnToOriginThreshold  = 0.33
)

// Snap duration tuning
const (
	snapDurationScale       = 4.5
	distanceInfluenceFactor = 0.1
)

// ReleaseKind is the outcome of a finger release
type ReleaseKind int

const (
	// ReleaseSnapToNearest settles on whichever page is closest
	ReleaseSnapToNearest ReleaseKind = iota
	// ReleaseAdjacent advances one page in Direction
	ReleaseAdjacent
	// ReleaseOrigin returns to the page the gesture started on
	ReleaseOrigin
)

// String returns a readable name for the kind
func (k ReleaseKind) String() string {
	switch k {
	case ReleaseAdjacent:
		return "adjacent"
	case ReleaseOrigin:
		return "origin"
	default:
		return "nearest"
	}
}

// Release describes a finger release
type Release struct {
	// DownDelta is x(up) - x(down); positive means the finger moved right
	DownDelta float32
	// Velocity is px/s, positive when the finger moves right
	Velocity    float32
	TotalMotion float32
	PageWidth   float32
}

// Thresholds configures the release decision
type Thresholds struct {
	MinFlingLength float32
	SnapVelocity   float32
}

// Decision is the result of DecideRelease
type Decision struct {
	Kind ReleaseKind
	// Direction is -1 for the previous page, +1 for the next, 0 otherwise
	Direction      int
	Fling          bool
	Significant    bool
	ReturnToOrigin bool
}

// DecideRelease chooses where a released scroll settles. A fling needs both
// TotalMotion > MinFlingLength and |Velocity| > SnapVelocity (both exclusive).
// A release whose displacement exceeds ReturnToOriginThreshold while the
// velocity points the other way returns to the origin page, unless that
// velocity is itself a fling, which then wins.
func DecideRelease(r Release, th Thresholds) Decision {
	d := Decision{
		Fling:       r.TotalMotion > th.MinFlingLength && abs32(r.Velocity) > th.SnapVelocity,
		Significant: abs32(r.DownDelta) > r.PageWidth*SignificantMoveThreshold,
	}
	d.ReturnToOrigin = abs32(r.DownDelta) > r.PageWidth*ReturnToOriginThreshold &&
		r.Velocity != 0 && sign(r.Velocity) != sign(r.DownDelta)

	switch {
	case d.ReturnToOrigin && !d.Fling:
		d.Kind = ReleaseOrigin
	case d.Fling:
		d.Kind = ReleaseAdjacent
		d.Direction = -sign(r.Velocity)
	case d.Significant:
		d.Kind = ReleaseAdjacent
		d.Direction = -sign(r.DownDelta)
	default:
		d.Kind = ReleaseSnapToNearest
	}
	return d
}

// distanceInfluence bends the snap distance so the duration depends less on
// raw pixel distance
func distanceInfluence(ratio float32) float32 {
	f := float64(ratio) - 0.5
	f *= distanceInfluenceFactor * math.Pi / 2
	return float32(math.Sin(f))
}

// EffectiveSnapDistance converts a pixel delta into the distance used by
// SnapDuration
func EffectiveSnapDistance(delta, halfScreen float32) float32 {
	if halfScreen <= 0 {
		return abs32(delta)
	}
	ratio := abs32(delta) / (2 * halfScreen)
	if ratio > 1 {
		ratio = 1
	}
	return halfScreen + halfScreen*distanceInfluence(ratio)
}

// SnapDuration returns round(4.5 * 1000 * |distance / velocity|) milliseconds,
// with velocity floored at minVelocity
func SnapDuration(distance, velocity, minVelocity float32) time.Duration {
	v := abs32(velocity)
	if v < minVelocity {
		v = minVelocity
	}
	if v <= 0 {
		return 0
	}
	ms := math.Round(snapDurationScale * 1000 * math.Abs(float64(distance)/float64(v)))
	return time.Duration(ms) * time.Millisecond
}

func sign(v float32) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
