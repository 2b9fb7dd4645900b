package pager

import (
	"math"

	"github.com/ytget/pager/internal/physics"
)

// SnapToPage animates to the page in slot. A page in the other content range
// is shown without animation.
func (e *Engine) SnapToPage(slot int) {
	e.checkSlot(slot)
	if e.mapper.RangeOf(slot) != e.active {
		e.jumpTo(slot)
		return
	}
	e.snap(e.slotOffset(slot), slot, 0, false)
}

// PageBy snaps dir pages forward (positive) or back, wrapping when circular.
// Reports false when there is no such page.
func (e *Engine) PageBy(dir int) bool {
	if !e.hasPages() || dir == 0 {
		return false
	}
	offset, slot, ok := e.adjacent(dir)
	if !ok {
		return false
	}
	e.snap(offset, slot, 0, false)
	return true
}

// snap starts the animation to offset, which rests on slot once any wrap
// normalization has run
func (e *Engine) snap(offset float32, slot int, velocity float32, withVelocity bool) {
	e.next = slot
	e.queue.SetTarget(e.current, slot)
	if withVelocity {
		e.physics.SnapWithVelocity(offset, velocity)
	} else {
		e.physics.SnapTo(offset, e.opts.PageSnapDuration.Duration)
	}
	e.scheduler.LoadAssociatedPages(slot, false)
}

// snapToDestination settles on the page nearest to the current offset
func (e *Engine) snapToDestination() {
	w := e.opts.SlotWidth()
	k := float32(math.Round(float64(e.state.UnboundedOffset / w)))
	slot := e.nearestSlot(e.state.UnboundedOffset)
	offset := e.slotOffset(slot)
	if e.opts.Circular {
		// stay in the frame of the current offset; the wrap lands on slot
		offset = k * w
	}
	e.snap(offset, slot, 0, false)
}

// release applies the fling, significant-move and return-to-origin rules
func (e *Engine) release(downDelta, velocity, totalMotion float32) {
	d := physics.DecideRelease(physics.Release{
		DownDelta:   downDelta,
		Velocity:    velocity,
		TotalMotion: totalMotion,
		PageWidth:   e.opts.PageWidth,
	}, physics.Thresholds{
		MinFlingLength: e.opts.MinFlingLength,
		SnapVelocity:   e.opts.SnapVelocity,
	})

	switch d.Kind {
	case physics.ReleaseAdjacent:
		if offset, slot, ok := e.adjacent(d.Direction); ok {
			e.snap(offset, slot, velocity, true)
			return
		}
	case physics.ReleaseOrigin:
		e.snap(e.frameOffset(e.current), e.current, velocity, true)
		return
	}
	e.snapToDestination()
}

// adjacent returns the snap offset and resting slot dir pages from the
// current page
func (e *Engine) adjacent(dir int) (float32, int, bool) {
	first, last := e.mapper.Bounds(e.active)
	target := e.current + dir
	offset := e.frameOffset(e.current) + float32(dir)*e.opts.SlotWidth()
	if target >= first && target <= last {
		return offset, target, true
	}
	if !e.opts.Circular {
		return 0, 0, false
	}
	logical := e.mapper.Resolve(target-first, e.active)
	return offset, e.mapper.ToVisual(logical, e.active), true
}

// frameOffset returns the rest offset of slot in the wrap period closest to
// the current offset
func (e *Engine) frameOffset(slot int) float32 {
	offset := e.slotOffset(slot)
	if !e.opts.Circular {
		return offset
	}
	period := float32(e.mapper.Count(e.active)) * e.opts.SlotWidth()
	cur := e.state.UnboundedOffset
	for offset-cur > period/2 {
		offset -= period
	}
	for cur-offset > period/2 {
		offset += period
	}
	return offset
}

// nearestSlot maps an offset to the closest page of the active range,
// wrapping when circular and clamping otherwise
func (e *Engine) nearestSlot(offset float32) int {
	first, last := e.mapper.Bounds(e.active)
	k := int(math.Round(float64(offset / e.opts.SlotWidth())))
	if e.opts.Circular {
		return e.mapper.ToVisual(e.mapper.Resolve(k-first, e.active), e.active)
	}
	return min(max(k, first), last)
}

// onSettle runs once per completed snap
func (e *Engine) onSettle() {
	if !e.hasPages() {
		return
	}
	page := e.nearestSlot(e.state.CurrentOffset)
	if !e.state.HasActivePointer() {
		e.physics.Jump(e.slotOffset(page))
	}
	e.next = NoPage
	e.setCurrent(page)
	e.queue.SetTarget(page, page)
	if !e.scheduler.Settle() {
		e.scheduler.LoadAssociatedPages(page, false)
	}
}

// place moves to slot without animation, switching ranges if needed
func (e *Engine) place(slot int) {
	if r := e.mapper.RangeOf(slot); r != e.active {
		e.active = r
		e.configureRange()
	}
	e.physics.Jump(e.slotOffset(slot))
	e.next = NoPage
	e.setCurrent(slot)
	e.cb.scrollPositionChanged(e.state.CurrentOffset)
}

// jumpTo places slot and loads the pages around it
func (e *Engine) jumpTo(slot int) {
	e.place(slot)
	e.queue.SetTarget(slot, slot)
	e.scheduler.LoadAssociatedPages(slot, false)
}

func (e *Engine) setCurrent(slot int) {
	e.scheduler.SetCurrent(slot)
	if slot == e.current {
		return
	}
	e.current = slot
	e.cb.pageSwitch(slot)
}
