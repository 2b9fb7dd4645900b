package overview

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/pager/internal/gesture"
	"github.com/ytget/pager/internal/model"
	"github.com/ytget/pager/internal/physics"
)

// NoSelection is reported by HitTest when a point misses every page
const NoSelection = -1

// Transform places one page: top-left position and uniform scale
type Transform struct {
	Pos   fyne.Position
	Scale float32
}

// Lerp interpolates between two transforms
func Lerp(a, b Transform, t float32) Transform {
	return Transform{
		Pos: fyne.NewPos(
			a.Pos.X+(b.Pos.X-a.Pos.X)*t,
			a.Pos.Y+(b.Pos.Y-a.Pos.Y)*t,
		),
		Scale: a.Scale + (b.Scale-a.Scale)*t,
	}
}

// Params configures a Controller
type Params struct {
	Solver       Solver
	Container    fyne.Size
	Page         fyne.Size
	Transition   time.Duration
	TouchSlop    float32
	MaxVelocity  float32
	Friction     float32
	StopVelocity float32
}

// Controller runs the overview mode of one paging surface
type Controller struct {
	params Params
	now    func() time.Time

	mode     Mode
	count    int
	layout   Layout
	live     []Transform
	liveFn   func() []Transform
	start    time.Time
	progress float32
	selected int

	pan      fyne.Position
	inertia  Inertia
	lastTick time.Time

	tracker  *gesture.VelocityTracker
	pointer  int
	down     fyne.Position
	last     fyne.Position
	dragging bool

	onChange func(entering bool)
	onSelect func(page int)
}

// NewController creates a controller in ModeNormal. liveFn returns the
// transform every page has outside the overview.
func NewController(params Params, now func() time.Time, liveFn func() []Transform) *Controller {
	if params.Solver == nil {
		panic("overview: nil solver")
	}
	if now == nil {
		now = time.Now
	}
	return &Controller{
		params:   params,
		now:      now,
		liveFn:   liveFn,
		selected: NoSelection,
		pointer:  model.NoPointer,
		tracker:  gesture.NewVelocityTracker(params.MaxVelocity),
		inertia:  Inertia{Friction: params.Friction, StopVelocity: params.StopVelocity},
	}
}

// SetModeCallback sets the callback fired when entry or exit starts
func (c *Controller) SetModeCallback(fn func(entering bool)) {
	c.onChange = fn
}

// SetSelectCallback sets the callback fired with the page chosen on exit
func (c *Controller) SetSelectCallback(fn func(page int)) {
	c.onSelect = fn
}

// SetContainer updates the container size; the layout is re-solved if the
// overview is showing
func (c *Controller) SetContainer(size fyne.Size) {
	c.params.Container = size
	if c.mode.IsActive() && c.count > 0 {
		c.layout = c.params.Solver.Solve(size, c.params.Page, c.count)
		c.clampPan()
	}
}

// SetPageSize updates the full-size page the overview scales down
func (c *Controller) SetPageSize(size fyne.Size) {
	c.params.Page = size
	if c.mode.IsActive() && c.count > 0 {
		c.layout = c.params.Solver.Solve(c.params.Container, size, c.count)
		c.clampPan()
	}
}

// Mode returns the current mode
func (c *Controller) Mode() Mode {
	return c.mode
}

// Layout returns the solved layout of the current overview
func (c *Controller) Layout() Layout {
	return c.layout
}

// Pan returns the current pan offset
func (c *Controller) Pan() fyne.Position {
	return c.pan
}

// Enter starts the entry animation around page current. It is refused
// unless the mode is Normal.
func (c *Controller) Enter(count, current int) bool {
	if c.mode != ModeNormal {
		return false
	}
	if current < 0 || current >= count {
		panic(fmt.Sprintf("overview: page %d out of range [0,%d)", current, count))
	}
	c.count = count
	c.selected = current
	c.layout = c.params.Solver.Solve(c.params.Container, c.params.Page, count)
	c.live = c.liveTransforms()
	c.pan = fyne.Position{}
	c.centerOn(current)
	c.inertia.Stop()
	c.begin(ModeEntering)
	if c.onChange != nil {
		c.onChange(true)
	}
	return true
}

// Exit starts the exit animation toward page. The select callback runs
// first so the live transforms already reflect the chosen page.
func (c *Controller) Exit(page int) bool {
	if c.mode != ModePreviews {
		return false
	}
	if page < 0 || page >= c.count {
		panic(fmt.Sprintf("overview: page %d out of range [0,%d)", page, c.count))
	}
	c.selected = page
	c.inertia.Stop()
	c.dragging = false
	if c.onSelect != nil {
		c.onSelect(page)
	}
	c.live = c.liveTransforms()
	c.begin(ModeExiting)
	if c.onChange != nil {
		c.onChange(false)
	}
	return true
}

// Dismiss exits back to the page the overview was entered from, as when the
// drag handle is released
func (c *Controller) Dismiss() bool {
	return c.Exit(c.selected)
}

// Tick advances transitions and inertia; reports whether anything moved
func (c *Controller) Tick() bool {
	now := c.now()
	switch c.mode {
	case ModeEntering, ModeExiting:
		c.progress = 1
		if c.params.Transition > 0 {
			c.progress = min(float32(now.Sub(c.start))/float32(c.params.Transition), 1)
		}
		if c.progress >= 1 {
			if c.mode == ModeEntering {
				c.mode = ModePreviews
			} else {
				c.mode = ModeNormal
				c.count = 0
			}
		}
		c.lastTick = now
		return true
	case ModePreviews:
		dt := now.Sub(c.lastTick)
		c.lastTick = now
		if !c.inertia.Active() || c.dragging {
			return false
		}
		d := c.inertia.Step(dt)
		before := c.pan
		c.pan = fyne.NewPos(c.pan.X+d.DX, c.pan.Y+d.DY)
		if c.clampPan() {
			c.inertia.Stop()
		}
		return c.pan != before
	}
	return false
}

// Transforms returns the transform of every page for the current frame
func (c *Controller) Transforms() []Transform {
	switch c.mode {
	case ModeEntering:
		return c.blend(physics.QuinticEaseOut(c.progress))
	case ModeExiting:
		return c.blend(1 - physics.QuinticEaseOut(c.progress))
	case ModePreviews:
		return c.solved()
	}
	return c.liveTransforms()
}

// HitTest returns the page under pos in the overview, or NoSelection
func (c *Controller) HitTest(pos fyne.Position) int {
	if c.mode != ModePreviews {
		return NoSelection
	}
	w := c.params.Page.Width * c.layout.Scale
	h := c.params.Page.Height * c.layout.Scale
	for i, t := range c.solved() {
		if pos.X >= t.Pos.X && pos.X < t.Pos.X+w && pos.Y >= t.Pos.Y && pos.Y < t.Pos.Y+h {
			return i
		}
	}
	return NoSelection
}

// HandleEvent consumes pointer input while the overview is active: drag
// pans, a release after a drag flings with inertia, a tap selects the page
// under it or dismisses the overview on empty space. Input during entry and
// exit is swallowed. Reports whether the event was consumed.
func (c *Controller) HandleEvent(ev model.PointerEvent) bool {
	if !c.mode.IsActive() {
		return false
	}
	if c.mode != ModePreviews {
		return true
	}

	switch ev.Phase {
	case model.PointerDown:
		p := ev.Primary()
		c.pointer = p.ID
		c.down, c.last = p.Position, p.Position
		c.dragging = false
		c.inertia.Stop()
		c.tracker.Clear()
		c.tracker.Add(p.Position.X, p.Position.Y, ev.Time)
	case model.PointerMove:
		pos, ok := ev.Find(c.pointer)
		if !ok {
			return true
		}
		c.tracker.Add(pos.X, pos.Y, ev.Time)
		if !c.dragging {
			dx, dy := pos.X-c.down.X, pos.Y-c.down.Y
			if dx*dx+dy*dy < c.params.TouchSlop*c.params.TouchSlop {
				return true
			}
			c.dragging = true
		}
		c.pan = fyne.NewPos(c.pan.X-(pos.X-c.last.X), c.pan.Y-(pos.Y-c.last.Y))
		c.clampPan()
		c.last = pos
	case model.PointerUp:
		pos, ok := ev.Find(c.pointer)
		if !ok {
			pos = c.last
		}
		if c.dragging {
			vx, vy := c.tracker.Velocity()
			c.inertia.Start(-vx, -vy)
			c.lastTick = ev.Time
		} else if page := c.HitTest(pos); page != NoSelection {
			c.Exit(page)
		} else {
			c.Dismiss()
		}
		c.dragging = false
		c.pointer = model.NoPointer
	case model.PointerCancel:
		c.dragging = false
		c.pointer = model.NoPointer
	}
	return true
}

func (c *Controller) begin(mode Mode) {
	c.mode = mode
	c.start = c.now()
	c.lastTick = c.start
	c.progress = 0
}

func (c *Controller) blend(t float32) []Transform {
	solved := c.solved()
	out := make([]Transform, len(solved))
	for i := range solved {
		from := Transform{Scale: 1}
		if i < len(c.live) {
			from = c.live[i]
		}
		out[i] = Lerp(from, solved[i], t)
	}
	return out
}

func (c *Controller) solved() []Transform {
	out := make([]Transform, len(c.layout.Offsets))
	for i, off := range c.layout.Offsets {
		out[i] = Transform{
			Pos:   fyne.NewPos(off.X-c.pan.X, off.Y-c.pan.Y),
			Scale: c.layout.Scale,
		}
	}
	return out
}

func (c *Controller) liveTransforms() []Transform {
	if c.liveFn == nil {
		return nil
	}
	return c.liveFn()
}

// centerOn pans so page sits as close to the container center as the
// bounds allow
func (c *Controller) centerOn(page int) {
	if page >= len(c.layout.Offsets) {
		return
	}
	off := c.layout.Offsets[page]
	w := c.params.Page.Width * c.layout.Scale
	h := c.params.Page.Height * c.layout.Scale
	c.pan = fyne.NewPos(
		off.X+w/2-c.params.Container.Width/2,
		off.Y+h/2-c.params.Container.Height/2,
	)
	c.clampPan()
}

// clampPan keeps the pan inside the matrix extent; reports whether it hit a
// bound
func (c *Controller) clampPan() bool {
	maxX := max(c.layout.Extent.Width-c.params.Container.Width, 0)
	maxY := max(c.layout.Extent.Height-c.params.Container.Height, 0)
	x := min(max(c.pan.X, 0), maxX)
	y := min(max(c.pan.Y, 0), maxY)
	hit := x != c.pan.X || y != c.pan.Y
	c.pan = fyne.NewPos(x, y)
	return hit
}
