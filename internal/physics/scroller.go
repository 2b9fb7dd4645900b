package physics

import (
	"time"
)

// Interpolator maps elapsed fraction [0,1] to travelled fraction [0,1]
type Interpolator func(t float32) float32

// QuinticEaseOut decelerates towards the end of a snap
var QuinticEaseOut Interpolator = func(t float32) float32 {
	t -= 1
	return t*t*t*t*t + 1
}

// Scroller is a time-driven interpolation between two offsets
type Scroller struct {
	now      func() time.Time
	interp   Interpolator
	start    float32
	final    float32
	curr     float32
	began    time.Time
	duration time.Duration
	finished bool
}

// NewScroller creates a finished scroller reading time from now
func NewScroller(now func() time.Time, interp Interpolator) *Scroller {
	if now == nil {
		now = time.Now
	}
	if interp == nil {
		interp = QuinticEaseOut
	}
	return &Scroller{now: now, interp: interp, finished: true}
}

// StartScroll begins moving from start by delta over duration
func (s *Scroller) StartScroll(start, delta float32, duration time.Duration) {
	s.start = start
	s.curr = start
	s.final = start + delta
	s.began = s.now()
	s.duration = duration
	s.finished = false
	if duration <= 0 {
		s.curr = s.final
	}
}

// ComputeOffset advances the interpolation to the current time. It returns
// false once the scroller had already finished before this call.
func (s *Scroller) ComputeOffset() bool {
	if s.finished {
		return false
	}
	elapsed := s.now().Sub(s.began)
	if elapsed >= s.duration {
		s.curr = s.final
		s.finished = true
		return true
	}
	t := float32(float64(elapsed) / float64(s.duration))
	s.curr = s.start + (s.final-s.start)*s.interp(t)
	return true
}

// IsFinished reports whether the interpolation reached its end or was stopped
func (s *Scroller) IsFinished() bool {
	return s.finished
}

// ForceFinished stops the interpolation where it is
func (s *Scroller) ForceFinished() {
	s.finished = true
}

// Shift moves every offset of the interpolation by d
func (s *Scroller) Shift(d float32) {
	s.start += d
	s.final += d
	s.curr += d
}

// Current returns the last computed offset
func (s *Scroller) Current() float32 {
	return s.curr
}

// Final returns the offset the interpolation ends at
func (s *Scroller) Final() float32 {
	return s.final
}

// Duration returns the length of the running interpolation
func (s *Scroller) Duration() time.Duration {
	return s.duration
}
