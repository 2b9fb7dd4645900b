package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/pager/internal/model"
	"github.com/ytget/pager/internal/pager"
	"github.com/ytget/pager/internal/prefetch"
)

const (
	// Frame is the virtual frame interval
	Frame = 16 * time.Millisecond
	// FlingDuration is how long a fling swipe lasts
	FlingDuration = 40 * time.Millisecond
	// TapDuration is the time between down and up of a tap
	TapDuration = 50 * time.Millisecond
	// swipeMoves is the number of move samples per swipe
	swipeMoves = 8
	// drainPolls bounds the final wait for running snaps and preview jobs
	drainPolls = 400
	drainPoll  = 5 * time.Millisecond
)

// Clock is a virtual clock shared with the prefetch workers
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

// NewClock starts a clock at start
func NewClock(start time.Time) *Clock {
	return &Clock{t: start}
}

// Now returns the virtual time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

// Simulator replays scripted gestures against a headless customize surface
// and prints the host callbacks
type Simulator struct {
	customize *pager.Customize
	clock     *Clock
	start     time.Time
	out       io.Writer
	size      fyne.Size
}

// NewSimulator builds the surface over apps and widgets. p.Now, p.Post and
// the callbacks are set by the simulator.
func NewSimulator(p pager.Params, apps, widgets []model.Item, out io.Writer) (*Simulator, error) {
	s := &Simulator{
		clock: NewClock(time.Unix(0, 0)),
		out:   out,
		size:  fyne.NewSize(p.Options.PageWidth, p.Options.PageHeight),
	}
	s.start = s.clock.Now()

	p.Now = s.clock.Now
	p.Post = nil
	c, err := pager.NewCustomize(p, apps, widgets, pager.Callbacks{
		OnPageSwitch:         s.onPageSwitch,
		OnPreviewModeChanged: s.onPreviewModeChanged,
		RequestPagePopulate:  s.onPopulate,
		OnPreviewsReady:      s.onPreviewsReady,
	})
	if err != nil {
		return nil, err
	}
	s.customize = c
	return s, nil
}

// Close stops the surface and releases every preview
func (s *Simulator) Close() {
	s.customize.Close()
}

// Engine returns the simulated engine
func (s *Simulator) Engine() *pager.Engine {
	return s.customize.Engine()
}

// Run starts the surface, replays steps and waits for everything to settle
func (s *Simulator) Run(steps []Step) error {
	s.customize.Start()
	for _, step := range steps {
		s.logf("> %s", step)
		if err := s.apply(step); err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
	}
	s.drain()
	e := s.Engine()
	s.logf("done page=%d offset=%.1f", e.CurrentPage(), e.State().CurrentOffset)
	return nil
}

func (s *Simulator) apply(step Step) error {
	e := s.Engine()
	a := step.Args
	switch step.Op {
	case OpDrag:
		s.swipe(a[0], a[1], time.Duration(a[2])*time.Millisecond)
	case OpFling:
		s.swipe(a[0], a[1], FlingDuration)
	case OpTap:
		y := s.size.Height / 2
		s.emit(model.SinglePointer(model.PointerDown, 0, a[0], y, s.clock.Now()))
		s.advance(TapDuration)
		s.emit(model.SinglePointer(model.PointerUp, 0, a[0], y, s.clock.Now()))
	case OpPinch:
		s.pinch()
	case OpOverview:
		if !e.ExitOverview() {
			s.logf("overview not active")
		}
	case OpWait:
		s.advance(time.Duration(a[0]) * time.Millisecond)
	case OpPage:
		slot := int(a[0])
		if _, ok := e.Page(slot); !ok {
			return fmt.Errorf("%w: slot %d", pager.ErrNoPage, slot)
		}
		e.SnapToPage(slot)
	case OpNext, OpPrev:
		dir := 1
		if step.Op == OpPrev {
			dir = -1
		}
		if !e.PageBy(dir) {
			s.logf("no page in that direction")
		}
	}
	return nil
}

// swipe drags horizontally across the middle of the page
func (s *Simulator) swipe(from, to float32, d time.Duration) {
	y := s.size.Height / 2
	s.emit(model.SinglePointer(model.PointerDown, 0, from, y, s.clock.Now()))
	for i := 1; i <= swipeMoves; i++ {
		s.advance(d / swipeMoves)
		x := from + (to-from)*float32(i)/swipeMoves
		s.emit(model.SinglePointer(model.PointerMove, 0, x, y, s.clock.Now()))
	}
	s.emit(model.SinglePointer(model.PointerUp, 0, to, y, s.clock.Now()))
}

// pinch brings two fingers together around the page center
func (s *Simulator) pinch() {
	cx, y := s.size.Width/2, s.size.Height/2
	sample := func(phase model.PointerPhase, id int, spread float32) model.PointerEvent {
		return model.PointerEvent{
			Phase:    phase,
			ActionID: id,
			Pointers: []model.Pointer{
				{ID: 0, Position: fyne.NewPos(cx-spread, y)},
				{ID: 1, Position: fyne.NewPos(cx+spread, y)},
			},
			Time: s.clock.Now(),
		}
	}
	spread := s.size.Width / 4
	s.emit(model.SinglePointer(model.PointerDown, 0, cx-spread, y, s.clock.Now()))
	s.emit(sample(model.PointerSecondaryDown, 1, spread))
	for i := 1; i <= swipeMoves; i++ {
		s.advance(Frame)
		s.emit(sample(model.PointerMove, 0, spread*(1-0.5*float32(i)/swipeMoves)))
	}
	s.emit(sample(model.PointerSecondaryUp, 1, spread/2))
	s.emit(model.SinglePointer(model.PointerUp, 0, cx-spread/2, y, s.clock.Now()))
}

func (s *Simulator) emit(ev model.PointerEvent) {
	s.Engine().HandleEvent(ev)
}

// advance runs frames covering d of virtual time
func (s *Simulator) advance(d time.Duration) {
	for d > 0 {
		dt := min(Frame, d)
		s.clock.Advance(dt)
		s.Engine().Tick()
		d -= dt
	}
}

// drain ticks until the snap has settled and no preview job is live. The
// workers render in real time, so every poll also yields a little.
func (s *Simulator) drain() {
	for i := 0; i < drainPolls; i++ {
		s.clock.Advance(Frame)
		changed := s.Engine().Tick()
		if !changed && len(s.Engine().Queue().Jobs()) == 0 {
			return
		}
		time.Sleep(drainPoll)
	}
	s.logf("gave up waiting for %d preview jobs", len(s.Engine().Queue().Jobs()))
}

func (s *Simulator) onPageSwitch(slot int) {
	logical, r := s.Engine().Mapper().ToLogical(slot)
	s.logf("switch page=%d %s %d/%d", slot, r, logical+1, s.Engine().Mapper().Count(r))
}

func (s *Simulator) onPreviewModeChanged(entering bool) {
	s.logf("overview entering=%v", entering)
}

func (s *Simulator) onPopulate(slot int, immediate bool) {
	content, _ := s.customize.Content(slot)
	s.logf("populate page=%d immediate=%v kind=%s items=%d", slot, immediate, content.Kind, len(content.Items))
}

func (s *Simulator) onPreviewsReady(slot int, previews []*prefetch.Artifact) {
	placeholders := 0
	for _, a := range previews {
		if a.Placeholder {
			placeholders++
		}
	}
	s.logf("previews page=%d count=%d placeholders=%d", slot, len(previews), placeholders)
}

func (s *Simulator) logf(format string, args ...any) {
	elapsed := s.clock.Now().Sub(s.start).Milliseconds()
	fmt.Fprintf(s.out, "[%6dms] "+format+"\n", append([]any{elapsed}, args...)...)
}
