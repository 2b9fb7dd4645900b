package pager

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/ytget/pager/internal/config"
	"github.com/ytget/pager/internal/model"
	"github.com/ytget/pager/internal/overview"
	"github.com/ytget/pager/internal/prefetch"
)

// fakeClock is shared with the prefetch workers
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, item model.Item, pool *prefetch.Pool) (*prefetch.Artifact, error) {
	return pool.Wrap(item.ID, pool.Get(2, 2)), nil
}

func (stubRenderer) Placeholder(item model.Item, pool *prefetch.Pool) *prefetch.Artifact {
	return pool.Placeholder(item.ID, 2, 2)
}

type recorder struct {
	switches  []int
	modes     []bool
	populated []int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnPageSwitch:         func(page int) { r.switches = append(r.switches, page) },
		OnPreviewModeChanged: func(entering bool) { r.modes = append(r.modes, entering) },
		RequestPagePopulate:  func(page int, immediate bool) { r.populated = append(r.populated, page) },
	}
}

func testOptions(circular bool) config.Options {
	opts := config.Defaults()
	opts.Circular = circular
	opts.PrefetchDelay = config.Duration{}
	return opts
}

func newTestEngine(t *testing.T, circular bool, countA, countB int) (*Engine, *fakeClock, *recorder) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(0, 0)}
	rec := &recorder{}
	e, err := New(Params{
		Options:  testOptions(circular),
		CountA:   countA,
		CountB:   countB,
		Renderer: stubRenderer{},
		Now:      clock.Now,
	}, rec.callbacks())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e, clock, rec
}

// swipe replays a one-finger gesture through xs, one sample per step
func swipe(e *Engine, clock *fakeClock, step time.Duration, xs ...float32) {
	e.HandleEvent(model.SinglePointer(model.PointerDown, 0, xs[0], 400, clock.Now()))
	for _, x := range xs[1 : len(xs)-1] {
		e.HandleEvent(model.SinglePointer(model.PointerMove, 0, x, 400, clock.Advance(step)))
	}
	e.HandleEvent(model.SinglePointer(model.PointerUp, 0, xs[len(xs)-1], 400, clock.Advance(step)))
}

func settle(e *Engine, clock *fakeClock) {
	for i := 0; i < 200; i++ {
		clock.Advance(16 * time.Millisecond)
		e.Tick()
		if !e.physics.IsAnimating() && !e.physics.SettlePending() {
			return
		}
	}
}

func onBoundary(e *Engine) bool {
	w := e.opts.SlotWidth()
	off := e.State().CurrentOffset
	return math.Mod(float64(off), float64(w)) == 0
}

func TestFlingToNextPage(t *testing.T) {
	e, clock, rec := newTestEngine(t, false, 3, 0)
	e.Start()

	swipe(e, clock, 10*time.Millisecond, 300, 280, 200, 100, 90)
	if e.NextPage() != 1 {
		t.Errorf("NextPage() = %d, expected 1", e.NextPage())
	}
	settle(e, clock)

	if e.CurrentPage() != 1 {
		t.Errorf("CurrentPage() = %d, expected 1", e.CurrentPage())
	}
	if got := e.State().CurrentOffset; got != 480 {
		t.Errorf("CurrentOffset = %v, expected 480", got)
	}
	if e.State().TouchState != model.TouchRest {
		t.Errorf("TouchState = %s, expected %s", e.State().TouchState, model.TouchRest)
	}
	if diff := cmp.Diff([]int{1}, rec.switches); diff != "" {
		t.Errorf("page switches mismatch (-expected +got):\n%s", diff)
	}
}

func TestSlowDragSnapsBack(t *testing.T) {
	e, clock, rec := newTestEngine(t, false, 3, 0)
	e.Start()

	e.HandleEvent(model.SinglePointer(model.PointerDown, 0, 300, 400, clock.Now()))
	e.HandleEvent(model.SinglePointer(model.PointerMove, 0, 280, 400, clock.Advance(100*time.Millisecond)))
	e.HandleEvent(model.SinglePointer(model.PointerMove, 0, 250, 400, clock.Advance(100*time.Millisecond)))
	if got := e.State().CurrentOffset; got != 30 {
		t.Errorf("CurrentOffset while dragging = %v, expected 30", got)
	}
	e.HandleEvent(model.SinglePointer(model.PointerUp, 0, 250, 400, clock.Advance(200*time.Millisecond)))
	settle(e, clock)

	if e.CurrentPage() != 0 || e.State().CurrentOffset != 0 {
		t.Errorf("page/offset = %d/%v, expected 0/0", e.CurrentPage(), e.State().CurrentOffset)
	}
	if len(rec.switches) != 0 {
		t.Errorf("page switches = %v, expected none", rec.switches)
	}
}

func TestOverscrollAtFirstPage(t *testing.T) {
	e, clock, _ := newTestEngine(t, false, 3, 0)
	e.Start()

	e.HandleEvent(model.SinglePointer(model.PointerDown, 0, 100, 400, clock.Now()))
	e.HandleEvent(model.SinglePointer(model.PointerMove, 0, 120, 400, clock.Advance(100*time.Millisecond)))
	e.HandleEvent(model.SinglePointer(model.PointerMove, 0, 180, 400, clock.Advance(100*time.Millisecond)))

	st := e.State()
	if st.UnboundedOffset != -60 {
		t.Errorf("UnboundedOffset = %v, expected -60", st.UnboundedOffset)
	}
	if !st.IsOverscrolled() || st.CurrentOffset >= 0 {
		t.Errorf("CurrentOffset = %v, expected accelerated overscroll below 0", st.CurrentOffset)
	}

	e.HandleEvent(model.SinglePointer(model.PointerUp, 0, 180, 400, clock.Advance(300*time.Millisecond)))
	settle(e, clock)
	if e.State().CurrentOffset != 0 || e.CurrentPage() != 0 {
		t.Errorf("offset/page = %v/%d, expected 0/0", e.State().CurrentOffset, e.CurrentPage())
	}
}

func TestCircularWrapBackward(t *testing.T) {
	e, clock, rec := newTestEngine(t, true, 3, 0)
	e.Start()

	swipe(e, clock, 10*time.Millisecond, 100, 120, 200, 260)
	if e.NextPage() != 2 {
		t.Errorf("NextPage() = %d, expected 2", e.NextPage())
	}
	settle(e, clock)

	if e.CurrentPage() != 2 {
		t.Errorf("CurrentPage() = %d, expected 2", e.CurrentPage())
	}
	if got := e.State().CurrentOffset; got != 960 {
		t.Errorf("CurrentOffset = %v, expected 960", got)
	}
	if diff := cmp.Diff([]int{2}, rec.switches); diff != "" {
		t.Errorf("page switches mismatch (-expected +got):\n%s", diff)
	}
}

func TestEdgeTapWrapsForward(t *testing.T) {
	e, clock, rec := newTestEngine(t, true, 3, 2)
	e.Start()
	e.Invalidate(2, false)

	swipe(e, clock, 10*time.Millisecond, 470, 470)
	settle(e, clock)

	if e.CurrentPage() != 0 || e.State().CurrentOffset != 0 {
		t.Errorf("page/offset = %d/%v, expected 0/0", e.CurrentPage(), e.State().CurrentOffset)
	}
	if diff := cmp.Diff([]int{2, 0}, rec.switches); diff != "" {
		t.Errorf("page switches mismatch (-expected +got):\n%s", diff)
	}
}

func TestRangeBWrapsBackward(t *testing.T) {
	e, clock, _ := newTestEngine(t, true, 3, 2)
	e.Start()

	e.SnapToPage(5)
	if e.ActiveRange() != model.RangeB || e.CurrentPage() != 5 {
		t.Fatalf("range/page = %s/%d, expected RangeB/5", e.ActiveRange(), e.CurrentPage())
	}

	swipe(e, clock, 10*time.Millisecond, 10, 10)
	settle(e, clock)

	if e.CurrentPage() != 6 {
		t.Errorf("CurrentPage() = %d, expected 6", e.CurrentPage())
	}
	if got := e.State().CurrentOffset; got != 2880 {
		t.Errorf("CurrentOffset = %v, expected 2880", got)
	}
}

func TestEdgeTapStopsAtBoundWithoutWrap(t *testing.T) {
	e, clock, rec := newTestEngine(t, false, 3, 0)
	e.Start()

	swipe(e, clock, 10*time.Millisecond, 10, 10)
	settle(e, clock)

	if e.CurrentPage() != 0 || len(rec.switches) != 0 {
		t.Errorf("page = %d switches = %v, expected to stay on 0", e.CurrentPage(), rec.switches)
	}
}

func TestSettledOffsetsLieOnPageBoundaries(t *testing.T) {
	for _, circular := range []bool{false, true} {
		e, clock, _ := newTestEngine(t, circular, 5, 0)
		e.Start()
		rnd := rand.New(rand.NewSource(7))

		for i := 0; i < 40; i++ {
			x := float32(60 + rnd.Intn(360))
			xs := []float32{x}
			for j := 0; j < 2+rnd.Intn(5); j++ {
				x += float32(rnd.Intn(241) - 120)
				xs = append(xs, x)
			}
			swipe(e, clock, time.Duration(5+rnd.Intn(40))*time.Millisecond, xs...)
			settle(e, clock)

			st := e.State()
			if st.TouchState != model.TouchRest {
				t.Fatalf("circular=%v step %d: TouchState = %s", circular, i, st.TouchState)
			}
			if !onBoundary(e) {
				t.Fatalf("circular=%v step %d: settled at %v, not a page boundary", circular, i, st.CurrentOffset)
			}
			if st.CurrentOffset != e.SlotOffset(e.CurrentPage()) {
				t.Fatalf("circular=%v step %d: offset %v does not match page %d", circular, i, st.CurrentOffset, e.CurrentPage())
			}
		}
	}
}

func TestCatchRunningSnap(t *testing.T) {
	e, clock, _ := newTestEngine(t, false, 4, 0)
	e.Start()

	e.SnapToPage(2)
	clock.Advance(50 * time.Millisecond)
	e.Tick()

	// a finger landing far from the end catches the snap mid-flight
	e.HandleEvent(model.SinglePointer(model.PointerDown, 0, 240, 400, clock.Now()))
	if e.physics.IsAnimating() {
		t.Fatal("snap still running after the finger caught it")
	}
	if e.State().TouchState != model.TouchScrolling {
		t.Errorf("TouchState = %s, expected %s", e.State().TouchState, model.TouchScrolling)
	}
	e.HandleEvent(model.SinglePointer(model.PointerUp, 0, 240, 400, clock.Advance(300*time.Millisecond)))
	settle(e, clock)

	if !onBoundary(e) {
		t.Errorf("settled at %v, not a page boundary", e.State().CurrentOffset)
	}
}

func TestLoadWindowDeferredUntilSettle(t *testing.T) {
	e, clock, rec := newTestEngine(t, false, 10, 0)
	e.Start()
	if diff := cmp.Diff([]int{0, 1, 2}, rec.populated); diff != "" {
		t.Fatalf("initial populate mismatch (-expected +got):\n%s", diff)
	}

	rec.populated = nil
	e.SnapToPage(4)
	if len(rec.populated) != 0 {
		t.Errorf("populated %v while the snap was animating", rec.populated)
	}
	settle(e, clock)

	if diff := cmp.Diff([]int{3, 4, 5, 6}, rec.populated); diff != "" {
		t.Errorf("populate after settle mismatch (-expected +got):\n%s", diff)
	}
	d, _ := e.Page(6)
	if d.Dirty {
		t.Error("page 6 still dirty after population")
	}
	d, _ = e.Page(9)
	if !d.Dirty {
		t.Error("page 9 populated outside the window")
	}
}

func TestInvalidateJumpsSynchronously(t *testing.T) {
	e, _, rec := newTestEngine(t, false, 10, 0)
	e.Start()
	rec.populated = nil

	e.Invalidate(7, true)

	if e.CurrentPage() != 7 || e.State().CurrentOffset != 7*480 {
		t.Errorf("page/offset = %d/%v, expected 7/3360", e.CurrentPage(), e.State().CurrentOffset)
	}
	if diff := cmp.Diff([]int{7}, rec.populated); diff != "" {
		t.Errorf("populate mismatch (-expected +got):\n%s", diff)
	}
}

func TestInvalidateRetargetsPrefetch(t *testing.T) {
	e, _, _ := newTestEngine(t, false, 10, 0)

	e.Invalidate(7, true)
	for _, slot := range []int{5, 7} {
		if _, err := e.RequestPreviewJob(slot, []model.Item{{ID: "w", SpanX: 1, SpanY: 1}}); err != nil {
			t.Fatalf("RequestPreviewJob(%d) error = %v", slot, err)
		}
	}

	tests := []struct {
		slot     int
		expected int
	}{
		{7, 0},
		{5, 2},
	}
	for _, tt := range tests {
		job, ok := e.Queue().Job(tt.slot)
		if !ok {
			t.Fatalf("Job(%d) not found", tt.slot)
		}
		if job.Priority != tt.expected {
			t.Errorf("Job(%d).Priority = %d, expected %d", tt.slot, job.Priority, tt.expected)
		}
	}
}

func TestSetContentCounts(t *testing.T) {
	e, _, rec := newTestEngine(t, false, 10, 2)
	e.Start()
	e.Invalidate(8, false)

	e.SetContentCounts(4, 2)

	if e.CurrentPage() != 3 {
		t.Errorf("CurrentPage() = %d, expected clamp to 3", e.CurrentPage())
	}
	if e.Mapper().VisualCount() != 8 || e.PageCount() != 6 {
		t.Errorf("visual/pages = %d/%d, expected 8/6", e.Mapper().VisualCount(), e.PageCount())
	}
	if got := rec.switches[len(rec.switches)-1]; got != 3 {
		t.Errorf("last page switch = %d, expected 3", got)
	}

	e.SetContentCounts(0, 2)
	if e.ActiveRange() != model.RangeB || e.CurrentPage() != 2 {
		t.Errorf("range/page = %s/%d, expected RangeB/2", e.ActiveRange(), e.CurrentPage())
	}
}

func TestPageIDs(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	e, err := New(Params{
		Options:  testOptions(false),
		CountA:   2,
		CountB:   1,
		PageIDs:  []string{"home", "work", "widgets"},
		Renderer: stubRenderer{},
		Now:      clock.Now,
	}, Callbacks{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer e.Close()

	if id, err := e.PageID(4); err != nil || id != "widgets" {
		t.Errorf("PageID(4) = %q, %v, expected widgets", id, err)
	}
	if _, err := e.PageID(2); err == nil {
		t.Error("PageID(2) on a buffer slot returned no error")
	}
	if slot, ok := e.FindPage("work"); !ok || slot != 1 {
		t.Errorf("FindPage(work) = %d, %v, expected 1", slot, ok)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	opts := testOptions(false)
	opts.PageWidth = 0
	if _, err := New(Params{Options: opts, Renderer: stubRenderer{}}, Callbacks{}); err == nil {
		t.Error("New() accepted a zero page width")
	}
	if _, err := New(Params{Options: testOptions(false)}, Callbacks{}); err == nil {
		t.Error("New() accepted a nil renderer")
	}
}

func TestSnapToBufferPanics(t *testing.T) {
	e, _, _ := newTestEngine(t, false, 3, 2)
	defer func() {
		if recover() == nil {
			t.Error("SnapToPage(3) on a buffer slot did not panic")
		}
	}()
	e.SnapToPage(3)
}

func pinch(e *Engine, clock *fakeClock) {
	at := clock.Now()
	two := func(phase model.PointerPhase, id int, spread float32, at time.Time) model.PointerEvent {
		return model.PointerEvent{
			Phase:    phase,
			ActionID: id,
			Pointers: []model.Pointer{
				{ID: 0, Position: fyne.NewPos(240-spread, 400)},
				{ID: 1, Position: fyne.NewPos(240+spread, 400)},
			},
			Time: at,
		}
	}
	e.HandleEvent(model.SinglePointer(model.PointerDown, 0, 140, 400, at))
	e.HandleEvent(two(model.PointerSecondaryDown, 1, 100, at))
	e.HandleEvent(two(model.PointerMove, 0, 90, clock.Advance(16*time.Millisecond)))
	e.HandleEvent(two(model.PointerMove, 0, 70, clock.Advance(16*time.Millisecond)))
}

func TestPinchEntersOverview(t *testing.T) {
	e, clock, rec := newTestEngine(t, false, 4, 0)
	e.Start()

	pinch(e, clock)
	if e.Overview().Mode() != overview.ModeEntering {
		t.Fatalf("overview mode = %s, expected %s", e.Overview().Mode(), overview.ModeEntering)
	}
	// fingers lifting during the entry are swallowed
	e.HandleEvent(model.SinglePointer(model.PointerUp, 0, 170, 400, clock.Now()))

	clock.Advance(time.Second)
	e.Tick()
	if e.Overview().Mode() != overview.ModePreviews {
		t.Fatalf("overview mode = %s, expected %s", e.Overview().Mode(), overview.ModePreviews)
	}

	layout := e.Overview().Layout()
	target := layout.Offsets[2]
	x := target.X + 10 - e.Overview().Pan().X
	y := target.Y + 10 - e.Overview().Pan().Y
	e.HandleEvent(model.SinglePointer(model.PointerDown, 0, x, y, clock.Now()))
	e.HandleEvent(model.SinglePointer(model.PointerUp, 0, x, y, clock.Advance(30*time.Millisecond)))

	if e.CurrentPage() != 2 {
		t.Errorf("CurrentPage() = %d, expected 2", e.CurrentPage())
	}
	clock.Advance(time.Second)
	e.Tick()
	if e.Overview().Mode() != overview.ModeNormal {
		t.Errorf("overview mode = %s, expected %s", e.Overview().Mode(), overview.ModeNormal)
	}
	if diff := cmp.Diff([]bool{true, false}, rec.modes); diff != "" {
		t.Errorf("mode changes mismatch (-expected +got):\n%s", diff)
	}
}
