package physics

import (
	"time"

	"github.com/ytget/pager/internal/model"
)

// WrapFunc normalizes an offset for circular paging. It returns the
// equivalent offset inside the wrap band and whether it differs from the input.
type WrapFunc func(offset float32) (float32, bool)

// Params configures a Physics
type Params struct {
	ScreenWidth      float32
	Curve            Curve
	MinFlingVelocity float32
	MinSnapVelocity  float32
	PageSnapDuration time.Duration
}

// Physics owns the offsets of a ScrollState and the snap interpolation
type Physics struct {
	params   Params
	state    *model.ScrollState
	scroller *Scroller

	minScroll float32
	maxScroll float32
	wrap      WrapFunc

	settlePending bool
	onSettle      func()
}

// New creates a physics writing into state
func New(params Params, state *model.ScrollState, now func() time.Time) *Physics {
	return &Physics{
		params:   params,
		state:    state,
		scroller: NewScroller(now, QuinticEaseOut),
	}
}

// SetBounds sets the non-overscrolled scroll range
func (p *Physics) SetBounds(min, max float32) {
	if max < min {
		panic("physics: scroll bounds inverted")
	}
	p.minScroll, p.maxScroll = min, max
}

// Bounds returns the non-overscrolled scroll range
func (p *Physics) Bounds() (float32, float32) {
	return p.minScroll, p.maxScroll
}

// SetWrap installs the circular normalization; nil disables wrapping
func (p *Physics) SetWrap(wrap WrapFunc) {
	p.wrap = wrap
}

// SetScreenWidth updates the width overscroll curves scale with
func (p *Physics) SetScreenWidth(width float32) {
	p.params.ScreenWidth = width
}

// OnSettle registers the callback fired once per completed snap
func (p *Physics) OnSettle(fn func()) {
	p.onSettle = fn
}

// ScrollBy moves the unbounded offset by dx
func (p *Physics) ScrollBy(dx float32) {
	p.ScrollTo(p.state.UnboundedOffset + dx)
}

// ScrollTo moves to x. Inside the bounds the offset is applied as is; past
// them it is routed through the overscroll curve, keeping the raw value in
// UnboundedOffset. With wrapping installed the offset is normalized into the
// wrap band instead and never overscrolls.
func (p *Physics) ScrollTo(x float32) {
	if p.wrap != nil {
		if nx, wrapped := p.wrap(x); wrapped {
			p.shiftAnimation(nx - x)
			x = nx
		}
		p.state.UnboundedOffset = x
		p.state.CurrentOffset = x
		return
	}

	p.state.UnboundedOffset = x
	switch {
	case x < p.minScroll:
		p.state.CurrentOffset = p.minScroll + p.params.Curve.Overscroll(x-p.minScroll, p.params.ScreenWidth)
	case x > p.maxScroll:
		p.state.CurrentOffset = p.maxScroll + p.params.Curve.Overscroll(x-p.maxScroll, p.params.ScreenWidth)
	default:
		p.state.CurrentOffset = x
	}
}

// Jump moves to x without animation and cancels any running snap
func (p *Physics) Jump(x float32) {
	p.scroller.ForceFinished()
	p.settlePending = false
	p.state.TargetOffset = x
	p.ScrollTo(x)
	p.state.TargetOffset = p.state.CurrentOffset
}

// Shift translates every offset by d without visual change; used when the
// pager re-bases a wrapped position
func (p *Physics) Shift(d float32) {
	p.state.UnboundedOffset += d
	p.state.CurrentOffset += d
	p.shiftAnimation(d)
}

func (p *Physics) shiftAnimation(d float32) {
	p.state.TargetOffset += d
	p.scroller.Shift(d)
}

// SnapTo animates from the unbounded offset to target over duration
func (p *Physics) SnapTo(target float32, duration time.Duration) {
	start := p.state.UnboundedOffset
	p.state.TargetOffset = target
	p.scroller.StartScroll(start, target-start, duration)
	p.settlePending = true
}

// SnapWithVelocity animates to target with a duration derived from the
// release velocity. Slow releases use the fixed page snap duration.
func (p *Physics) SnapWithVelocity(target, velocity float32) time.Duration {
	if abs32(velocity) < p.params.MinFlingVelocity {
		p.SnapTo(target, p.params.PageSnapDuration)
		return p.params.PageSnapDuration
	}
	half := p.params.ScreenWidth / 2
	delta := target - p.state.UnboundedOffset
	distance := EffectiveSnapDistance(delta, half)
	duration := SnapDuration(distance, velocity, p.params.MinSnapVelocity)
	p.SnapTo(target, duration)
	return duration
}

// Tick advances the snap to the current time. It returns true while the
// surface is still moving or settled during this call.
func (p *Physics) Tick() bool {
	if p.scroller.ComputeOffset() {
		p.ScrollTo(p.scroller.Current())
		if !p.scroller.IsFinished() {
			return true
		}
	}
	if !p.settlePending {
		return false
	}
	p.settlePending = false
	if !p.state.HasActivePointer() {
		p.state.TouchState = model.TouchRest
	}
	if p.onSettle != nil {
		p.onSettle()
	}
	return true
}

// Abort stops the snap at the current offset; the pending settle still fires
// on the next Tick
func (p *Physics) Abort() {
	p.scroller.ForceFinished()
	p.state.TargetOffset = p.state.CurrentOffset
}

// Finish completes the snap at its final offset; the pending settle still
// fires on the next Tick
func (p *Physics) Finish() {
	if p.scroller.IsFinished() {
		return
	}
	final := p.scroller.Final()
	p.scroller.ForceFinished()
	p.ScrollTo(final)
	p.state.TargetOffset = p.state.CurrentOffset
}

// IsAnimating reports whether a snap is running
func (p *Physics) IsAnimating() bool {
	return !p.scroller.IsFinished()
}

// SettlePending reports whether a settle notification is still owed
func (p *Physics) SettlePending() bool {
	return p.settlePending
}

// RemainingDistance returns how far the running snap still has to travel
func (p *Physics) RemainingDistance() float32 {
	if p.scroller.IsFinished() {
		return 0
	}
	return abs32(p.scroller.Final() - p.scroller.Current())
}

// State returns a copy of the scroll state
func (p *Physics) State() model.ScrollState {
	return *p.state
}
