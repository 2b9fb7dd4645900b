package ui

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/pager/internal/model"
	"github.com/ytget/pager/internal/pager"
)

// PageSource returns the object drawn for a real page slot, or nil
type PageSource func(slot int) fyne.CanvasObject

// PagerWidget shows an engine's pages and feeds it touch and mouse input
type PagerWidget struct {
	widget.BaseWidget

	engine  *pager.Engine
	pages   PageSource
	pointer *PointerAdapter
	anim    *fyne.Animation
}

// NewPagerWidget creates a widget over engine. The engine is driven from the
// UI goroutine; call Start to run its frame ticker.
func NewPagerWidget(engine *pager.Engine, pages PageSource) *PagerWidget {
	w := &PagerWidget{engine: engine, pages: pages}
	w.pointer = NewPointerAdapter(nil, w.handle)
	w.ExtendBaseWidget(w)
	return w
}

// Engine returns the driven engine
func (w *PagerWidget) Engine() *pager.Engine {
	return w.engine
}

// SetEngine swaps the driven engine, as after a settings change
func (w *PagerWidget) SetEngine(engine *pager.Engine, pages PageSource) {
	w.pointer.Cancel()
	w.engine = engine
	w.pages = pages
	if size := w.Size(); size.Width > 0 && size.Height > 0 {
		engine.SetViewport(size)
	}
	w.Refresh()
}

// Start runs the frame ticker
func (w *PagerWidget) Start() {
	if w.anim != nil {
		return
	}
	w.anim = fyne.NewAnimation(TickerCycle, func(float32) {
		if w.engine != nil && w.engine.Tick() {
			w.Refresh()
		}
	})
	w.anim.Curve = fyne.AnimationLinear
	w.anim.RepeatCount = fyne.AnimationRepeatForever
	w.anim.Start()
}

// Stop halts the frame ticker
func (w *PagerWidget) Stop() {
	if w.anim == nil {
		return
	}
	w.anim.Stop()
	w.anim = nil
}

// Resize sizes the pages to the widget
func (w *PagerWidget) Resize(size fyne.Size) {
	w.BaseWidget.Resize(size)
	if w.engine != nil {
		w.engine.SetViewport(size)
		w.Refresh()
	}
}

func (w *PagerWidget) handle(ev model.PointerEvent) {
	if w.engine == nil {
		return
	}
	w.engine.HandleEvent(ev)
	w.Refresh()
}

// TouchDown implements mobile.Touchable
func (w *PagerWidget) TouchDown(ev *mobile.TouchEvent) {
	w.pointer.Down(ev.Position)
}

// TouchUp implements mobile.Touchable
func (w *PagerWidget) TouchUp(ev *mobile.TouchEvent) {
	w.pointer.Up(ev.Position)
}

// TouchCancel implements mobile.Touchable
func (w *PagerWidget) TouchCancel(*mobile.TouchEvent) {
	w.pointer.Cancel()
}

// MouseDown implements desktop.Mouseable
func (w *PagerWidget) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	w.pointer.Down(ev.Position)
}

// MouseUp implements desktop.Mouseable
func (w *PagerWidget) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	w.pointer.Up(ev.Position)
}

// Dragged implements fyne.Draggable
func (w *PagerWidget) Dragged(ev *fyne.DragEvent) {
	w.pointer.Move(ev.Position)
}

// DragEnd implements fyne.Draggable
func (w *PagerWidget) DragEnd() {
	w.pointer.UpAtLast()
}

// Scrolled pages with the wheel, one page per event
func (w *PagerWidget) Scrolled(ev *fyne.ScrollEvent) {
	if w.engine == nil || w.pointer.IsDown() {
		return
	}
	d := ev.Scrolled.DX
	if d == 0 {
		d = ev.Scrolled.DY
	}
	switch {
	case d < 0:
		w.engine.PageBy(1)
	case d > 0:
		w.engine.PageBy(-1)
	default:
		return
	}
	w.Refresh()
}

// CreateRenderer implements fyne.Widget
func (w *PagerWidget) CreateRenderer() fyne.WidgetRenderer {
	return &pagerRenderer{
		w:   w,
		dim: canvas.NewRectangle(themeColor(ColorNameOverviewDim)),
	}
}

type pagerRenderer struct {
	w       *PagerWidget
	dim     *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *pagerRenderer) Layout(size fyne.Size) {
	r.objects = nil
	e := r.w.engine
	if e == nil || r.w.pages == nil || e.PageCount() == 0 {
		return
	}
	if e.Overview().Mode().IsActive() {
		r.layoutOverview(size)
		return
	}
	r.layoutPages(size)
}

// layoutPages places the slots crossing the viewport. A buffer slot shows
// the real page it mirrors, and a page shows in one place only.
func (r *pagerRenderer) layoutPages(size fyne.Size) {
	e := r.w.engine
	m := e.Mapper()
	opts := e.Options()
	slotW := opts.SlotWidth()
	if slotW <= 0 {
		return
	}
	offset := e.State().CurrentOffset
	first := int(math.Floor(float64(offset / slotW)))
	last := int(math.Ceil(float64((offset + size.Width) / slotW)))
	placed := make(map[int]bool, last-first+1)
	for slot := first; slot <= last; slot++ {
		if slot < 0 || slot >= m.VisualCount() {
			continue
		}
		x := e.SlotOffset(slot) - offset + opts.PageSpacing
		if x >= size.Width || x+opts.PageWidth <= 0 {
			continue
		}
		page := slot
		if m.IsBuffer(slot) {
			logical, rg, ok := m.Mirror(slot)
			if !ok {
				continue
			}
			page = m.ToVisual(logical, rg)
		}
		if placed[page] {
			continue
		}
		obj := r.w.pages(page)
		if obj == nil {
			continue
		}
		placed[page] = true
		obj.Move(fyne.NewPos(x, 0))
		obj.Resize(fyne.NewSize(opts.PageWidth, size.Height))
		r.objects = append(r.objects, obj)
	}
}

// layoutOverview scales the active range's pages onto a dimmed backdrop
func (r *pagerRenderer) layoutOverview(size fyne.Size) {
	e := r.w.engine
	m := e.Mapper()
	opts := e.Options()
	r.dim.FillColor = themeColor(ColorNameOverviewDim)
	r.dim.Move(fyne.NewPos(0, 0))
	r.dim.Resize(size)
	r.objects = append(r.objects, r.dim)
	for logical, t := range e.Overview().Transforms() {
		obj := r.w.pages(m.ToVisual(logical, e.ActiveRange()))
		if obj == nil {
			continue
		}
		obj.Move(t.Pos)
		obj.Resize(fyne.NewSize(opts.PageWidth*t.Scale, opts.PageHeight*t.Scale))
		r.objects = append(r.objects, obj)
	}
}

func (r *pagerRenderer) MinSize() fyne.Size {
	return fyne.NewSize(MinTouchTargetSize, MinTouchTargetSize)
}

func (r *pagerRenderer) Refresh() {
	r.Layout(r.w.Size())
	canvas.Refresh(r.w)
}

func (r *pagerRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *pagerRenderer) Destroy() {}

var (
	_ mobile.Touchable  = (*PagerWidget)(nil)
	_ desktop.Mouseable = (*PagerWidget)(nil)
	_ fyne.Draggable    = (*PagerWidget)(nil)
	_ fyne.Scrollable   = (*PagerWidget)(nil)
)
