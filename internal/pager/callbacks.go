package pager

import "github.com/ytget/pager/internal/prefetch"

// Callbacks are the host notifications of an Engine. Every callback runs on
// the goroutine that calls HandleEvent and Tick. Nil callbacks are skipped.
type Callbacks struct {
	// OnPageSwitch reports the new current page slot after a settle or jump
	OnPageSwitch func(page int)
	// OnScrollPositionChanged reports the visual offset after it moved
	OnScrollPositionChanged func(offset float32)
	// OnPreviewModeChanged reports the start of overview entry (true) or exit
	OnPreviewModeChanged func(entering bool)
	// RequestPagePopulate asks the host to fill a page. immediate is set for
	// the page being switched to.
	RequestPagePopulate func(page int, immediate bool)
	// OnPreviewsReady hands over the finished previews of a page. The
	// receiver owns the artifacts; without this callback they are released.
	OnPreviewsReady func(page int, previews []*prefetch.Artifact)
}

func (cb Callbacks) pageSwitch(page int) {
	if cb.OnPageSwitch != nil {
		cb.OnPageSwitch(page)
	}
}

func (cb Callbacks) scrollPositionChanged(offset float32) {
	if cb.OnScrollPositionChanged != nil {
		cb.OnScrollPositionChanged(offset)
	}
}

func (cb Callbacks) previewModeChanged(entering bool) {
	if cb.OnPreviewModeChanged != nil {
		cb.OnPreviewModeChanged(entering)
	}
}

func (cb Callbacks) requestPagePopulate(page int, immediate bool) {
	if cb.RequestPagePopulate != nil {
		cb.RequestPagePopulate(page, immediate)
	}
}
