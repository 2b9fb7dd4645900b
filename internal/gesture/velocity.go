package gesture

import (
	"time"
)

// Velocity tracking constants
const (
	VelocityHorizon    = 100 * time.Millisecond
	maxVelocitySamples = 20
)

type velocitySample struct {
	x, y float32
	at   time.Time
}

// VelocityTracker estimates pointer velocity from the samples of the last
// VelocityHorizon. Velocities are in px/s.
type VelocityTracker struct {
	samples []velocitySample
	max     float32
}

// NewVelocityTracker creates a tracker clamping results to ±max (0 disables clamping)
func NewVelocityTracker(max float32) *VelocityTracker {
	return &VelocityTracker{
		samples: make([]velocitySample, 0, maxVelocitySamples),
		max:     max,
	}
}

// Add records a position sample
func (vt *VelocityTracker) Add(x, y float32, at time.Time) {
	if len(vt.samples) == maxVelocitySamples {
		copy(vt.samples, vt.samples[1:])
		vt.samples = vt.samples[:maxVelocitySamples-1]
	}
	vt.samples = append(vt.samples, velocitySample{x: x, y: y, at: at})
}

// Clear drops every sample
func (vt *VelocityTracker) Clear() {
	vt.samples = vt.samples[:0]
}

// Velocity returns the (vx, vy) estimate over the horizon ending at the newest sample
func (vt *VelocityTracker) Velocity() (float32, float32) {
	n := len(vt.samples)
	if n < 2 {
		return 0, 0
	}
	newest := vt.samples[n-1]
	oldest := newest
	for i := n - 2; i >= 0; i-- {
		if newest.at.Sub(vt.samples[i].at) > VelocityHorizon {
			break
		}
		oldest = vt.samples[i]
	}
	dt := newest.at.Sub(oldest.at).Seconds()
	if dt <= 0 {
		return 0, 0
	}
	vx := float32(float64(newest.x-oldest.x) / dt)
	vy := float32(float64(newest.y-oldest.y) / dt)
	return vt.clamp(vx), vt.clamp(vy)
}

func (vt *VelocityTracker) clamp(v float32) float32 {
	if vt.max <= 0 {
		return v
	}
	if v > vt.max {
		return vt.max
	}
	if v < -vt.max {
		return -vt.max
	}
	return v
}
