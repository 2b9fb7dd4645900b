package overview

import (
	"math"
	"time"

	"fyne.io/fyne/v2"
)

// Inertia is the decaying velocity pan that continues after a fling
type Inertia struct {
	Friction     float32 // exponential decay rate per second
	StopVelocity float32

	vx, vy float32
}

// Start sets the initial velocity in units per second
func (in *Inertia) Start(vx, vy float32) {
	in.vx, in.vy = vx, vy
	if in.speed() < in.StopVelocity {
		in.Stop()
	}
}

// Stop ends the pan
func (in *Inertia) Stop() {
	in.vx, in.vy = 0, 0
}

// Active reports whether the pan is still moving
func (in *Inertia) Active() bool {
	return in.vx != 0 || in.vy != 0
}

// Velocity returns the current velocity
func (in *Inertia) Velocity() (float32, float32) {
	return in.vx, in.vy
}

// Step advances the pan by dt and returns the displacement. Velocity decays
// by exp(-Friction*dt) and the pan stops once it falls below StopVelocity.
func (in *Inertia) Step(dt time.Duration) fyne.Delta {
	if !in.Active() || dt <= 0 {
		return fyne.Delta{}
	}
	secs := float32(dt.Seconds())
	decay := float32(math.Exp(float64(-in.Friction * secs)))

	// exact integral of v*exp(-k*t) over the step
	var travel float32
	if in.Friction > 0 {
		travel = (1 - decay) / in.Friction
	} else {
		travel = secs
	}
	d := fyne.Delta{DX: in.vx * travel, DY: in.vy * travel}

	in.vx *= decay
	in.vy *= decay
	if in.speed() < in.StopVelocity {
		in.Stop()
	}
	return d
}

func (in *Inertia) speed() float32 {
	return float32(math.Hypot(float64(in.vx), float64(in.vy)))
}
