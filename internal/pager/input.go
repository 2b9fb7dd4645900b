package pager

import (
	"github.com/ytget/pager/internal/gesture"
	"github.com/ytget/pager/internal/model"
)

// HandleEvent feeds one pointer sample to the surface. While the overview is
// showing it owns the input; otherwise the classifier decides what the
// sample means for the scroll.
func (e *Engine) HandleEvent(ev model.PointerEvent) {
	if e.closed || !e.hasPages() {
		return
	}
	if e.overview.HandleEvent(ev) {
		return
	}

	a := e.classifier.Handle(ev)
	switch a.Kind {
	case gesture.ActionAbortAnimation:
		e.physics.Finish()
	case gesture.ActionBeginScroll:
		if e.physics.IsAnimating() {
			e.physics.Abort()
			e.next = NoPage
		}
	case gesture.ActionScroll:
		e.physics.ScrollBy(a.Delta)
		e.cb.scrollPositionChanged(e.state.CurrentOffset)
	case gesture.ActionRelease:
		e.release(a.DownDelta, a.Velocity, a.TotalMotion)
	case gesture.ActionEdgeRelease:
		if !e.PageBy(a.Direction) {
			e.snapToDestination()
		}
	case gesture.ActionTap, gesture.ActionCancel:
		if !e.physics.IsAnimating() && !e.atRest() {
			e.snapToDestination()
		}
	case gesture.ActionPinch:
		e.EnterOverview()
	}
}

// atRest reports whether the offset sits exactly on the current page
func (e *Engine) atRest() bool {
	return e.state.UnboundedOffset == e.slotOffset(e.current) &&
		e.state.CurrentOffset == e.state.UnboundedOffset
}
