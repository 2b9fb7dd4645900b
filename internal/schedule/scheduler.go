package schedule

import (
	"fmt"

	"github.com/ytget/pager/internal/model"
)

// NoPage asks Invalidate to keep the current page
const NoPage = -1

// Populator fills one page. immediate is true for the page the caller is
// switching to; the others may populate asynchronously.
type Populator func(slot int, immediate bool)

// Layout describes the slot axis the scheduler works on
type Layout interface {
	VisualCount() int
	IsBuffer(visual int) bool
}

// Scheduler tracks dirty pages and the load window around the current page
type Scheduler struct {
	layout     Layout
	lookAhead  int
	lookBehind int

	dirty     []bool
	current   int
	window    model.LoadWindow
	populate  Populator
	onWindow  func(model.LoadWindow)
	animating func() bool

	deferred    bool
	deferredFor int
}

// New creates a scheduler with every page dirty
func New(layout Layout, lookAhead, lookBehind int) *Scheduler {
	if lookAhead < 0 || lookBehind < 0 {
		panic(fmt.Sprintf("schedule: negative look distance %d/%d", lookAhead, lookBehind))
	}
	s := &Scheduler{
		lookAhead:  lookAhead,
		lookBehind: lookBehind,
		animating:  func() bool { return false },
		window:     model.LoadWindow{Lower: 0, Upper: -1},
	}
	s.Reset(layout)
	return s
}

// SetPopulator sets the callback that fills a page
func (s *Scheduler) SetPopulator(fn Populator) {
	s.populate = fn
}

// SetWindowHook sets a callback invoked on every window recomputation
func (s *Scheduler) SetWindowHook(fn func(model.LoadWindow)) {
	s.onWindow = fn
}

// SetAnimating sets the probe used to defer population while scrolling
func (s *Scheduler) SetAnimating(fn func() bool) {
	if fn == nil {
		fn = func() bool { return false }
	}
	s.animating = fn
}

// Reset replaces the layout after a structural change and marks every page
// dirty. The current page is clamped onto the last real page.
func (s *Scheduler) Reset(layout Layout) {
	s.layout = layout
	n := layout.VisualCount()
	s.dirty = make([]bool, n)
	for i := range s.dirty {
		s.dirty[i] = !layout.IsBuffer(i)
	}
	if s.current >= n {
		s.current = n - 1
	}
	for s.current > 0 && layout.IsBuffer(s.current) {
		s.current--
	}
	if s.current < 0 {
		s.current = 0
	}
	s.deferred = false
}

// Current returns the current page slot
func (s *Scheduler) Current() int {
	return s.current
}

// SetCurrent records a page switch without loading anything
func (s *Scheduler) SetCurrent(slot int) {
	s.check(slot)
	s.current = slot
}

// Window returns the most recently computed load window
func (s *Scheduler) Window() model.LoadWindow {
	return s.window
}

// IsDirty reports whether slot still needs population
func (s *Scheduler) IsDirty(slot int) bool {
	s.check(slot)
	return s.dirty[slot]
}

// MarkDirty flags a single page for repopulation
func (s *Scheduler) MarkDirty(slot int) {
	s.check(slot)
	if !s.layout.IsBuffer(slot) {
		s.dirty[slot] = true
	}
}

// Invalidate marks every page dirty. A concrete page becomes current
// synchronously, then the pages around it are loaded.
func (s *Scheduler) Invalidate(slot int, immediateOnly bool) {
	for i := range s.dirty {
		s.dirty[i] = !s.layout.IsBuffer(i)
	}
	if slot != NoPage {
		s.SetCurrent(slot)
	}
	s.LoadAssociatedPages(s.current, immediateOnly)
}

// ComputeWindow returns the window spanning current and target widened by the
// look distances and clamped to the slot axis
func (s *Scheduler) ComputeWindow(current, target int) model.LoadWindow {
	lo, hi := current, target
	if lo > hi {
		lo, hi = hi, lo
	}
	lo -= s.lookBehind
	hi += s.lookAhead
	if lo < 0 {
		lo = 0
	}
	if last := s.layout.VisualCount() - 1; hi > last {
		hi = last
	}
	return model.LoadWindow{Lower: lo, Upper: hi}
}

// LoadAssociatedPages populates every dirty page in the window around target.
// While the scroll is animating the work is deferred until Settle, unless
// immediateOnly asks for target alone right now. Reports whether anything
// was populated.
func (s *Scheduler) LoadAssociatedPages(target int, immediateOnly bool) bool {
	s.check(target)

	if immediateOnly {
		return s.fill(target, true)
	}
	if s.animating() {
		s.deferred = true
		s.deferredFor = target
		return false
	}
	s.deferred = false

	s.window = s.ComputeWindow(s.current, target)
	if s.onWindow != nil {
		s.onWindow(s.window)
	}

	populated := false
	for slot := s.window.Lower; slot <= s.window.Upper; slot++ {
		if s.fill(slot, slot == target) {
			populated = true
		}
	}
	return populated
}

// Deferred reports whether a load is waiting for the scroll to settle
func (s *Scheduler) Deferred() bool {
	return s.deferred
}

// Settle runs a load deferred by LoadAssociatedPages
func (s *Scheduler) Settle() bool {
	if !s.deferred {
		return false
	}
	target := s.deferredFor
	s.deferred = false
	if target >= len(s.dirty) {
		target = len(s.dirty) - 1
	}
	if target < 0 {
		return false
	}
	return s.LoadAssociatedPages(target, false)
}

func (s *Scheduler) fill(slot int, immediate bool) bool {
	if !s.dirty[slot] || s.layout.IsBuffer(slot) {
		return false
	}
	s.dirty[slot] = false
	if s.populate != nil {
		s.populate(slot, immediate)
	}
	return true
}

func (s *Scheduler) check(slot int) {
	if slot < 0 || slot >= len(s.dirty) {
		panic(fmt.Sprintf("schedule: page %d out of range [0,%d)", slot, len(s.dirty)))
	}
}
