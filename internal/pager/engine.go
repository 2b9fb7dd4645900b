package pager

import (
	"errors"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/pager/internal/config"
	"github.com/ytget/pager/internal/gesture"
	"github.com/ytget/pager/internal/model"
	"github.com/ytget/pager/internal/overview"
	"github.com/ytget/pager/internal/pageindex"
	"github.com/ytget/pager/internal/physics"
	"github.com/ytget/pager/internal/prefetch"
	"github.com/ytget/pager/internal/schedule"
)

// NoPage marks the absence of a pending target page
const NoPage = -1

// ErrNoPage is returned when a page index or id does not name a page
var ErrNoPage = errors.New("pager: no such page")

// Params configures an Engine
type Params struct {
	Options  config.Options
	CountA   int
	CountB   int
	PageIDs  []string // persisted page order, range A then range B
	Renderer prefetch.Renderer
	// Post runs fn on the UI goroutine; nil makes Tick deliver completions
	Post func(fn func())
	Now  func() time.Time
	// AngleDamping enables the angle-scaled paging slop of the desktop
	AngleDamping bool
}

// Engine is one paging surface. HandleEvent, Tick and every other method
// must be called from the same goroutine.
type Engine struct {
	opts config.Options
	now  func() time.Time
	cb   Callbacks
	ids  []string

	state      model.ScrollState
	mapper     *pageindex.Mapper
	classifier *gesture.Classifier
	physics    *physics.Physics
	scheduler  *schedule.Scheduler
	queue      *prefetch.Queue
	overview   *overview.Controller
	drainMail  bool

	pages    []model.PageDescriptor
	slotPage []int
	active   model.ContentRange
	current  int
	next     int
	started  bool
	closed   bool
}

// New creates an engine. Invalid options are reported as errors; negative
// page counts are a caller bug and panic.
func New(p Params, cb Callbacks) (*Engine, error) {
	if err := p.Options.Validate(); err != nil {
		return nil, fmt.Errorf("pager: %w", err)
	}
	if p.Renderer == nil {
		return nil, errors.New("pager: nil preview renderer")
	}
	solver, err := overview.NewSolver(p.Options.OverviewSolver, p.Options.OverviewColumns)
	if err != nil {
		return nil, fmt.Errorf("pager: %w", err)
	}
	if p.Now == nil {
		p.Now = time.Now
	}

	opts := p.Options
	e := &Engine{
		opts:      opts,
		now:       p.Now,
		cb:        cb,
		ids:       append([]string(nil), p.PageIDs...),
		state:     model.NewScrollState(),
		mapper:    pageindex.New(p.CountA, p.CountB),
		next:      NoPage,
		drainMail: p.Post == nil,
	}

	e.physics = physics.New(physics.Params{
		ScreenWidth:      opts.PageWidth,
		Curve:            curveFor(opts.Overscroll),
		MinFlingVelocity: opts.MinFlingVelocity,
		MinSnapVelocity:  opts.MinSnapVelocity,
		PageSnapDuration: opts.PageSnapDuration.Duration,
	}, &e.state, p.Now)
	e.physics.OnSettle(e.onSettle)

	e.classifier = gesture.NewClassifier(gesture.Params{
		TouchSlop:       opts.TouchSlop,
		PagingTouchSlop: opts.PagingTouchSlop(),
		EdgeZoneWidth:   opts.EdgeZoneWidth,
		ViewportWidth:   opts.PageWidth,
		PinchThreshold:  opts.PinchThreshold,
		MaxVelocity:     opts.MaxVelocity,
		AngleDamping:    p.AngleDamping,
	}, &e.state, e.physics)

	e.queue = prefetch.NewQueue(prefetch.Options{
		Workers:  opts.PrefetchWorkers,
		Delay:    opts.PrefetchDelay.Duration,
		Renderer: p.Renderer,
		Post:     p.Post,
		Now:      p.Now,
	})
	e.queue.SetCompletionCallback(e.onPreviews)

	e.scheduler = schedule.New(e.mapper, opts.LookAhead, opts.LookBehind)
	e.scheduler.SetPopulator(e.populate)
	e.scheduler.SetWindowHook(e.prune)
	e.scheduler.SetAnimating(e.physics.IsAnimating)

	e.overview = overview.NewController(overview.Params{
		Solver:       solver,
		Container:    fyne.NewSize(opts.PageWidth, opts.PageHeight),
		Page:         fyne.NewSize(opts.PageWidth, opts.PageHeight),
		Transition:   opts.OverviewTransition.Duration,
		TouchSlop:    opts.TouchSlop,
		MaxVelocity:  opts.MaxVelocity,
		Friction:     opts.InertiaFriction,
		StopVelocity: opts.InertiaStopVelocity,
	}, p.Now, e.liveTransforms)
	e.overview.SetModeCallback(e.cb.previewModeChanged)
	e.overview.SetSelectCallback(e.onOverviewSelect)
	e.classifier.SetPinchGate(func() bool { return e.overview.Mode() == overview.ModeNormal })

	e.rebuild()
	e.active = model.RangeA
	if p.CountA == 0 && p.CountB > 0 {
		e.active = model.RangeB
	}
	e.configureRange()
	if e.hasPages() {
		first, _ := e.mapper.Bounds(e.active)
		e.current = first
		e.scheduler.SetCurrent(first)
		e.physics.Jump(e.slotOffset(first))
	}
	return e, nil
}

// Start launches the prefetch workers and populates the pages around the
// current page
func (e *Engine) Start() {
	if e.started || e.closed {
		return
	}
	e.started = true
	e.queue.Start()
	if e.hasPages() {
		e.queue.SetTarget(e.current, e.current)
		e.scheduler.LoadAssociatedPages(e.current, false)
	}
}

// Close cancels every prefetch job and stops the workers
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.queue.Close()
}

// CurrentPage returns the current page slot
func (e *Engine) CurrentPage() int {
	return e.current
}

// NextPage returns the slot a running snap heads to, or NoPage
func (e *Engine) NextPage() int {
	return e.next
}

// ActiveRange returns the content range the user is paging through
func (e *Engine) ActiveRange() model.ContentRange {
	return e.active
}

// PageCount returns the number of real pages over both ranges
func (e *Engine) PageCount() int {
	return len(e.pages)
}

// Mapper returns the slot layout
func (e *Engine) Mapper() *pageindex.Mapper {
	return e.mapper
}

// State returns a copy of the scroll state
func (e *Engine) State() model.ScrollState {
	return e.state
}

// Overview returns the overview controller for rendering
func (e *Engine) Overview() *overview.Controller {
	return e.overview
}

// Queue returns the prefetch queue
func (e *Engine) Queue() *prefetch.Queue {
	return e.queue
}

// Page returns the descriptor of the page in slot
func (e *Engine) Page(slot int) (model.PageDescriptor, bool) {
	if slot < 0 || slot >= len(e.slotPage) || e.slotPage[slot] < 0 {
		return model.PageDescriptor{}, false
	}
	return e.pages[e.slotPage[slot]], true
}

// Pages returns every page descriptor in slot order
func (e *Engine) Pages() []model.PageDescriptor {
	return append([]model.PageDescriptor(nil), e.pages...)
}

// PageID returns the persisted id of the page in slot
func (e *Engine) PageID(slot int) (string, error) {
	d, ok := e.Page(slot)
	if !ok {
		return "", fmt.Errorf("%w: slot %d", ErrNoPage, slot)
	}
	return d.ID, nil
}

// FindPage returns the slot of the page with the given id
func (e *Engine) FindPage(id string) (int, bool) {
	for _, d := range e.pages {
		if d.ID == id {
			return d.VisualSlot, true
		}
	}
	return NoPage, false
}

// SlotOffset returns the scroll offset at which slot is at rest
func (e *Engine) SlotOffset(slot int) float32 {
	return e.slotOffset(slot)
}

// Options returns the options in effect, including the page size set by
// SetViewport
func (e *Engine) Options() config.Options {
	return e.opts
}

// SetViewport resizes the visible area. Pages take the viewport size; a
// running snap is completed on its target page at the new size.
func (e *Engine) SetViewport(size fyne.Size) {
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	e.classifier.SetViewportWidth(size.Width)
	e.physics.SetScreenWidth(size.Width)
	e.overview.SetContainer(size)
	if size.Width == e.opts.PageWidth && size.Height == e.opts.PageHeight {
		return
	}

	e.opts.PageWidth, e.opts.PageHeight = size.Width, size.Height
	e.overview.SetPageSize(size)
	e.configureRange()
	if !e.hasPages() {
		return
	}
	target := e.current
	if e.next != NoPage {
		target = e.next
	}
	if e.started {
		e.jumpTo(target)
	} else {
		e.place(target)
	}
}

// SetContentCounts rebuilds the page layout after the item counts changed.
// All prefetch jobs are cancelled and the current page keeps its logical
// index where it still exists.
func (e *Engine) SetContentCounts(countA, countB int) {
	logical, r := 0, e.active
	if e.hasPages() {
		logical, r = e.mapper.ToLogical(e.current)
	}
	e.queue.CancelAll(prefetch.ReasonDirty)

	e.mapper = pageindex.New(countA, countB)
	e.rebuild()
	e.scheduler.Reset(e.mapper)

	e.active = r
	if e.mapper.Count(r) == 0 {
		e.active = otherRange(r)
		logical = 0
	}
	e.configureRange()
	if !e.hasPages() {
		e.current, e.next = 0, NoPage
		return
	}
	if n := e.mapper.Count(e.active); logical >= n {
		logical = n - 1
	}
	e.jumpTo(e.mapper.ToVisual(logical, e.active))
}

// Invalidate marks every page dirty. A concrete slot becomes the current
// page synchronously; NoPage keeps the current one. immediateOnly limits
// population to that page.
func (e *Engine) Invalidate(slot int, immediateOnly bool) {
	if !e.hasPages() {
		return
	}
	e.queue.CancelAll(prefetch.ReasonDirty)
	for i := range e.pages {
		e.pages[i].Dirty = true
	}
	if slot != NoPage {
		e.checkSlot(slot)
		e.place(slot)
		e.queue.SetTarget(slot, slot)
	}
	e.scheduler.Invalidate(schedule.NoPage, immediateOnly)
}

// InvalidatePage marks one page dirty, cancelling its prefetch job, and
// repopulates it if it lies in the load window
func (e *Engine) InvalidatePage(slot int) {
	e.checkSlot(slot)
	e.pages[e.slotPage[slot]].Dirty = true
	e.scheduler.MarkDirty(slot)
	e.queue.Cancel(slot, prefetch.ReasonDirty)
	e.scheduler.LoadAssociatedPages(e.current, false)
}

// RequestPreviewJob queues a preview job for the items of the page in slot
func (e *Engine) RequestPreviewJob(slot int, items []model.Item) (prefetch.Handle, error) {
	e.checkSlot(slot)
	return e.queue.Submit(slot, items)
}

// Tick advances the snap, the overview and preview delivery by one frame.
// Reports whether anything changed.
func (e *Engine) Tick() bool {
	changed := false
	if e.physics.Tick() {
		changed = true
		e.cb.scrollPositionChanged(e.state.CurrentOffset)
	}
	if e.overview.Tick() {
		changed = true
	}
	if e.drainMail && e.queue.RunPending() > 0 {
		changed = true
	}
	return changed
}

// EnterOverview opens the page overview around the current page
func (e *Engine) EnterOverview() bool {
	if !e.hasPages() || e.overview.Mode() != overview.ModeNormal {
		return false
	}
	e.physics.Finish()
	e.classifier.Reset()
	logical, _ := e.mapper.ToLogical(e.current)
	return e.overview.Enter(e.mapper.Count(e.active), logical)
}

// ExitOverview leaves the overview back to the page it was entered from
func (e *Engine) ExitOverview() bool {
	return e.overview.Dismiss()
}

func (e *Engine) onOverviewSelect(logical int) {
	e.jumpTo(e.mapper.ToVisual(logical, e.active))
}

func (e *Engine) liveTransforms() []overview.Transform {
	if !e.hasPages() {
		return nil
	}
	count := e.mapper.Count(e.active)
	out := make([]overview.Transform, count)
	for i := range out {
		x := e.slotOffset(e.mapper.ToVisual(i, e.active)) - e.state.CurrentOffset
		out[i] = overview.Transform{Pos: fyne.NewPos(x, 0), Scale: 1}
	}
	return out
}

// populate runs for every dirty page the scheduler loads
func (e *Engine) populate(slot int, immediate bool) {
	if i := e.slotPage[slot]; i >= 0 {
		e.pages[i].Dirty = false
	}
	e.cb.requestPagePopulate(slot, immediate)
}

// prune cancels prefetch work that left the load window. The cancelled pages
// go back to dirty so they repopulate once the window returns to them.
func (e *Engine) prune(window model.LoadWindow) {
	for _, slot := range e.queue.CancelOutside(window) {
		if i := e.slotPage[slot]; i >= 0 {
			e.pages[i].Dirty = true
		}
		e.scheduler.MarkDirty(slot)
	}
}

func (e *Engine) onPreviews(res prefetch.Result) {
	if e.cb.OnPreviewsReady == nil {
		prefetch.ReleaseAll(res.Artifacts)
		return
	}
	e.cb.OnPreviewsReady(res.Key.Page, res.Artifacts)
}

// rebuild recreates the page records from the mapper
func (e *Engine) rebuild() {
	if n := e.mapper.Count(model.RangeA) + e.mapper.Count(model.RangeB); len(e.ids) > 0 && len(e.ids) != n {
		log.Printf("pager: %d persisted page ids for %d pages", len(e.ids), n)
	}
	e.pages = e.mapper.Descriptors(e.ids)
	e.slotPage = make([]int, e.mapper.VisualCount())
	for i := range e.slotPage {
		e.slotPage[i] = -1
	}
	for i, d := range e.pages {
		e.slotPage[d.VisualSlot] = i
	}
}

// configureRange points the physics bounds and wrap at the active range
func (e *Engine) configureRange() {
	if e.mapper.Count(e.active) == 0 {
		e.physics.SetWrap(nil)
		e.physics.SetBounds(0, 0)
		return
	}
	first, last := e.mapper.Bounds(e.active)
	e.physics.SetBounds(e.slotOffset(first), e.slotOffset(last))
	if e.opts.Circular {
		e.physics.SetWrap(e.mapper.Wrap(e.active, e.opts.SlotWidth()))
	} else {
		e.physics.SetWrap(nil)
	}
}

func (e *Engine) hasPages() bool {
	return e.mapper.Count(e.active) > 0
}

func (e *Engine) slotOffset(slot int) float32 {
	return float32(slot) * e.opts.SlotWidth()
}

// checkSlot panics unless slot holds a real page
func (e *Engine) checkSlot(slot int) {
	if _, ok := e.Page(slot); !ok {
		panic(fmt.Sprintf("pager: slot %d is not a page (visual count %d)", slot, e.mapper.VisualCount()))
	}
}

func otherRange(r model.ContentRange) model.ContentRange {
	if r == model.RangeA {
		return model.RangeB
	}
	return model.RangeA
}

func curveFor(c config.OverscrollCurve) physics.Curve {
	switch c {
	case config.OverscrollDamped:
		return physics.CurveDamped
	case config.OverscrollNone:
		return physics.CurveNone
	default:
		return physics.CurveAccelerated
	}
}
