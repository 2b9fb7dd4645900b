package gesture

import (
	"math"
	"testing"
)

func tan(theta float64) float64 { return math.Tan(theta) }

func TestVelocityTracker(t *testing.T) {
	vt := NewVelocityTracker(0)
	if vx, vy := vt.Velocity(); vx != 0 || vy != 0 {
		t.Errorf("empty tracker = (%v,%v), expected zero", vx, vy)
	}

	vt.Add(0, 0, at(0))
	vt.Add(10, 0, at(10))
	vt.Add(20, 5, at(20))
	vx, vy := vt.Velocity()
	if vx != 1000 {
		t.Errorf("vx = %v, expected 1000", vx)
	}
	if vy != 250 {
		t.Errorf("vy = %v, expected 250", vy)
	}
}

func TestVelocityTrackerHorizon(t *testing.T) {
	vt := NewVelocityTracker(0)
	vt.Add(0, 0, at(0))
	vt.Add(500, 0, at(10))
	// Samples older than the horizon are ignored.
	vt.Add(500, 0, at(300))
	vt.Add(520, 0, at(320))
	if vx, _ := vt.Velocity(); vx != 1000 {
		t.Errorf("vx = %v, expected 1000", vx)
	}
}

func TestVelocityTrackerClamp(t *testing.T) {
	vt := NewVelocityTracker(3000)
	vt.Add(0, 0, at(0))
	vt.Add(-100, 0, at(10))
	if vx, _ := vt.Velocity(); vx != -3000 {
		t.Errorf("vx = %v, expected -3000", vx)
	}

	vt.Clear()
	vt.Add(1, 1, at(50))
	if vx, _ := vt.Velocity(); vx != 0 {
		t.Errorf("vx after clear = %v, expected 0", vx)
	}
}

func TestVelocityTrackerCapacity(t *testing.T) {
	vt := NewVelocityTracker(0)
	for i := 0; i < 3*maxVelocitySamples; i++ {
		vt.Add(float32(i), 0, at(i))
	}
	if len(vt.samples) != maxVelocitySamples {
		t.Errorf("samples = %d, expected %d", len(vt.samples), maxVelocitySamples)
	}
	if vx, _ := vt.Velocity(); vx != 1000 {
		t.Errorf("vx = %v, expected 1000", vx)
	}
}
