package gesture

import (
	"math"

	"github.com/ytget/pager/internal/model"
)

// Angle thresholds for horizontal paging. Below StartDampingAngle the plain
// paging slop applies; between it and MaxSwipeAngle the slop grows
// continuously; above MaxSwipeAngle motion never starts a page scroll.
const (
	StartDampingAngle = math.Pi / 6
	MaxSwipeAngle     = math.Pi / 3
	SlopDampingFactor = 4
)

// ActionKind enumerates what the pager has to do after a sample
type ActionKind int

const (
	ActionNone ActionKind = iota
	// ActionAbortAnimation stops a running snap because the finger caught it
	ActionAbortAnimation
	// ActionBeginScroll marks the transition into Scrolling
	ActionBeginScroll
	// ActionScroll carries a horizontal scroll delta
	ActionScroll
	// ActionRelease ends a scroll with fling data
	ActionRelease
	// ActionEdgeRelease ends an edge tap; Direction is -1 (prev) or +1 (next)
	ActionEdgeRelease
	// ActionTap is an up without any scroll
	ActionTap
	// ActionCancel ends the sequence without a decision
	ActionCancel
	// ActionPinch asks for the page overview
	ActionPinch
)

// String returns a readable name for the action kind
func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionAbortAnimation:
		return "abort"
	case ActionBeginScroll:
		return "begin-scroll"
	case ActionScroll:
		return "scroll"
	case ActionRelease:
		return "release"
	case ActionEdgeRelease:
		return "edge-release"
	case ActionTap:
		return "tap"
	case ActionCancel:
		return "cancel"
	case ActionPinch:
		return "pinch"
	default:
		return "unknown"
	}
}

// Action is the classifier's verdict for one sample
type Action struct {
	Kind ActionKind
	// Delta is the scroll amount for ActionScroll, positive towards later pages
	Delta float32
	// Velocity is the horizontal release velocity in px/s, positive when the finger moves right
	Velocity float32
	// DownDelta is x(up) - x(down) of the active pointer
	DownDelta float32
	// TotalMotion is the accumulated absolute horizontal motion
	TotalMotion float32
	// Direction is -1 or +1 for ActionEdgeRelease
	Direction int
	X, Y      float32
}

// Animation exposes what the classifier needs to know about a running snap
type Animation interface {
	IsAnimating() bool
	RemainingDistance() float32
}

// Params configures a Classifier
type Params struct {
	TouchSlop       float32
	PagingTouchSlop float32
	EdgeZoneWidth   float32
	ViewportWidth   float32
	PinchThreshold  float32
	MaxVelocity     float32
	// AngleDamping enables the angle-scaled slop used on the desktop, where
	// pages host vertically scrolling widgets
	AngleDamping bool
}

// Classifier maintains the touch state machine of one paging surface
type Classifier struct {
	params   Params
	state    *model.ScrollState
	anim     Animation
	velocity *VelocityTracker
	pinch    *PinchDetector

	downX, downY float32
	lastX, lastY float32
	totalMotion  float32

	// pinchAllowed is consulted before firing ActionPinch
	pinchAllowed func() bool
}

// NewClassifier creates a classifier writing into state
func NewClassifier(params Params, state *model.ScrollState, anim Animation) *Classifier {
	return &Classifier{
		params:   params,
		state:    state,
		anim:     anim,
		velocity: NewVelocityTracker(params.MaxVelocity),
		pinch:    NewPinchDetector(params.PinchThreshold),
	}
}

// SetPinchGate installs the predicate that blocks pinch entry mid-transition
func (c *Classifier) SetPinchGate(allowed func() bool) {
	c.pinchAllowed = allowed
}

// SetViewportWidth updates the width used for the edge zones
func (c *Classifier) SetViewportWidth(width float32) {
	c.params.ViewportWidth = width
}

// TotalMotion returns the accumulated horizontal motion of the current sequence
func (c *Classifier) TotalMotion() float32 {
	return c.totalMotion
}

// DownPosition returns where the active pointer went down (or was reseeded)
func (c *Classifier) DownPosition() (float32, float32) {
	return c.downX, c.downY
}

// Handle classifies one sample
func (c *Classifier) Handle(ev model.PointerEvent) Action {
	switch ev.Phase {
	case model.PointerDown:
		return c.onDown(ev)
	case model.PointerMove:
		if !c.state.HasActivePointer() {
			// First sample of the sequence was lost; treat this move as the down.
			return c.onDown(ev)
		}
		return c.onMove(ev)
	case model.PointerUp:
		if !c.state.HasActivePointer() {
			c.reset()
			return Action{Kind: ActionNone}
		}
		return c.onUp(ev)
	case model.PointerCancel:
		return c.onCancel()
	case model.PointerSecondaryDown:
		if !c.state.HasActivePointer() {
			c.onDown(ev)
		}
		c.pinch.Begin(ev)
		return Action{Kind: ActionNone}
	case model.PointerSecondaryUp:
		c.onSecondaryUp(ev)
		return Action{Kind: ActionNone}
	}
	return Action{Kind: ActionNone}
}

func (c *Classifier) onDown(ev model.PointerEvent) Action {
	p := ev.Primary()
	if ev.Phase == model.PointerDown || ev.Phase == model.PointerSecondaryDown {
		if pos, ok := ev.Find(ev.ActionID); ok {
			p = model.Pointer{ID: ev.ActionID, Position: pos}
		}
	}
	x, y := p.Position.X, p.Position.Y

	c.downX, c.downY = x, y
	c.lastX, c.lastY = x, y
	c.totalMotion = 0
	c.state.ActivePointerID = p.ID
	c.velocity.Clear()
	c.velocity.Add(x, y, ev.Time)
	c.pinch.Reset()
	if len(ev.Pointers) >= 2 {
		c.pinch.Begin(ev)
	}

	// A finger landing on a running snap either catches it (keeps scrolling)
	// or stops it when it is nearly done.
	if c.anim != nil && c.anim.IsAnimating() {
		if c.anim.RemainingDistance() >= c.params.TouchSlop {
			c.state.TouchState = model.TouchScrolling
			return Action{Kind: ActionBeginScroll, X: x, Y: y}
		}
		c.state.TouchState = model.TouchRest
		c.classifyEdge(x)
		return Action{Kind: ActionAbortAnimation, X: x, Y: y}
	}

	c.state.TouchState = model.TouchRest
	c.classifyEdge(x)
	return Action{Kind: ActionNone, X: x, Y: y}
}

func (c *Classifier) classifyEdge(x float32) {
	if c.params.EdgeZoneWidth <= 0 || c.params.ViewportWidth <= 0 {
		return
	}
	if x < c.params.EdgeZoneWidth {
		c.state.TouchState = model.TouchSnapPrevEdge
	} else if x > c.params.ViewportWidth-c.params.EdgeZoneWidth {
		c.state.TouchState = model.TouchSnapNextEdge
	}
}

func (c *Classifier) onMove(ev model.PointerEvent) Action {
	if len(ev.Pointers) >= 2 {
		if !c.pinch.Tracking() {
			c.pinch.Begin(ev)
		} else if c.pinch.Update(ev) && c.pinchPermitted() {
			return Action{Kind: ActionPinch, X: ev.Primary().Position.X, Y: ev.Primary().Position.Y}
		}
	}

	pos, ok := ev.Find(c.state.ActivePointerID)
	if !ok {
		return Action{Kind: ActionNone}
	}
	x, y := pos.X, pos.Y
	c.velocity.Add(x, y, ev.Time)
	c.state.VelocityEstimate, _ = c.velocity.Velocity()

	if c.state.TouchState == model.TouchScrolling {
		delta := c.lastX - x
		c.totalMotion += abs32(delta)
		c.lastX, c.lastY = x, y
		if delta == 0 {
			return Action{Kind: ActionNone, X: x, Y: y}
		}
		return Action{Kind: ActionScroll, Delta: delta, X: x, Y: y, TotalMotion: c.totalMotion}
	}

	if c.determineScrollingStart(x, y) {
		c.state.TouchState = model.TouchScrolling
		c.totalMotion += abs32(c.lastX - x)
		c.lastX, c.lastY = x, y
		return Action{Kind: ActionBeginScroll, X: x, Y: y, TotalMotion: c.totalMotion}
	}
	return Action{Kind: ActionNone, X: x, Y: y}
}

// determineScrollingStart applies the paging slop, scaled up continuously
// between StartDampingAngle and MaxSwipeAngle
func (c *Classifier) determineScrollingStart(x, y float32) bool {
	dx := abs32(x - c.downX)
	dy := abs32(y - c.downY)

	scale := float32(1)
	if c.params.AngleDamping {
		if dx == 0 {
			return false
		}
		theta := math.Atan(float64(dy / dx))
		if theta > MaxSwipeAngle {
			return false
		}
		if theta > StartDampingAngle {
			extra := math.Sqrt((theta - StartDampingAngle) / (MaxSwipeAngle - StartDampingAngle))
			scale = float32(1 + SlopDampingFactor*extra)
		}
	} else if dy > dx {
		return false
	}
	return dx > c.params.PagingTouchSlop*scale
}

func (c *Classifier) onUp(ev model.PointerEvent) Action {
	pos, ok := ev.Find(c.state.ActivePointerID)
	if !ok {
		pos = ev.Primary().Position
	}
	x, y := pos.X, pos.Y

	var action Action
	switch c.state.TouchState {
	case model.TouchScrolling:
		c.velocity.Add(x, y, ev.Time)
		vx, _ := c.velocity.Velocity()
		c.totalMotion += abs32(c.lastX - x)
		action = Action{
			Kind:        ActionRelease,
			Velocity:    vx,
			DownDelta:   x - c.downX,
			TotalMotion: c.totalMotion,
			Delta:       c.lastX - x,
			X:           x,
			Y:           y,
		}
	case model.TouchSnapPrevEdge:
		action = Action{Kind: ActionEdgeRelease, Direction: -1, X: x, Y: y}
	case model.TouchSnapNextEdge:
		action = Action{Kind: ActionEdgeRelease, Direction: 1, X: x, Y: y}
	default:
		action = Action{Kind: ActionTap, X: x, Y: y}
	}
	c.reset()
	return action
}

func (c *Classifier) onCancel() Action {
	wasScrolling := c.state.TouchState == model.TouchScrolling
	c.reset()
	if wasScrolling {
		return Action{Kind: ActionCancel}
	}
	return Action{Kind: ActionNone}
}

// onSecondaryUp moves tracking to another finger when the active one lifts.
// Down and last positions are reseeded to that finger's current position so
// the scroll does not jump.
func (c *Classifier) onSecondaryUp(ev model.PointerEvent) {
	c.pinch.Reset()
	if ev.ActionID != c.state.ActivePointerID {
		return
	}
	for _, p := range ev.Pointers {
		if p.ID == ev.ActionID {
			continue
		}
		c.state.ActivePointerID = p.ID
		c.downX, c.downY = p.Position.X, p.Position.Y
		c.lastX, c.lastY = p.Position.X, p.Position.Y
		c.velocity.Clear()
		c.velocity.Add(p.Position.X, p.Position.Y, ev.Time)
		return
	}
}

func (c *Classifier) pinchPermitted() bool {
	return c.pinchAllowed == nil || c.pinchAllowed()
}

func (c *Classifier) reset() {
	c.state.TouchState = model.TouchRest
	c.state.ActivePointerID = model.NoPointer
	c.velocity.Clear()
	c.pinch.Reset()
}

// Reset abandons the current sequence, as when another mode takes over input
func (c *Classifier) Reset() {
	c.reset()
	c.totalMotion = 0
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
