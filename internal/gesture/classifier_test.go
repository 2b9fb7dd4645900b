package gesture

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/pager/internal/model"
)

type fakeAnimation struct {
	animating bool
	remaining float32
}

func (f *fakeAnimation) IsAnimating() bool          { return f.animating }
func (f *fakeAnimation) RemainingDistance() float32 { return f.remaining }

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func testParams() Params {
	return Params{
		TouchSlop:       8,
		PagingTouchSlop: 16,
		EdgeZoneWidth:   24,
		ViewportWidth:   480,
		PinchThreshold:  20,
		MaxVelocity:     8000,
		AngleDamping:    true,
	}
}

func newTestClassifier() (*Classifier, *model.ScrollState) {
	state := model.NewScrollState()
	return NewClassifier(testParams(), &state, &fakeAnimation{}), &state
}

func twoPointers(phase model.PointerPhase, action int, a, b fyne.Position, ms int) model.PointerEvent {
	return model.PointerEvent{
		Phase:    phase,
		ActionID: action,
		Pointers: []model.Pointer{{ID: 0, Position: a}, {ID: 1, Position: b}},
		Time:     at(ms),
	}
}

func TestDownClassifiesEdges(t *testing.T) {
	tests := []struct {
		x        float32
		expected model.TouchState
	}{
		{240, model.TouchRest},
		{10, model.TouchSnapPrevEdge},
		{470, model.TouchSnapNextEdge},
		{24, model.TouchRest},
	}

	for _, test := range tests {
		c, state := newTestClassifier()
		c.Handle(model.SinglePointer(model.PointerDown, 0, test.x, 300, at(0)))
		if state.TouchState != test.expected {
			t.Errorf("Down at x=%v: touch state = %s, expected %s", test.x, state.TouchState, test.expected)
		}
		if state.ActivePointerID != 0 {
			t.Errorf("Down at x=%v: active pointer = %d, expected 0", test.x, state.ActivePointerID)
		}
	}
}

func TestPagingSlop(t *testing.T) {
	c, state := newTestClassifier()
	c.Handle(model.SinglePointer(model.PointerDown, 0, 240, 300, at(0)))

	if a := c.Handle(model.SinglePointer(model.PointerMove, 0, 228, 300, at(10))); a.Kind != ActionNone {
		t.Errorf("Move inside paging slop = %s, expected none", a.Kind)
	}
	if state.TouchState != model.TouchRest {
		t.Fatalf("touch state = %s, expected Rest", state.TouchState)
	}

	if a := c.Handle(model.SinglePointer(model.PointerMove, 0, 220, 300, at(20))); a.Kind != ActionBeginScroll {
		t.Fatalf("Move past paging slop = %s, expected begin-scroll", a.Kind)
	}
	if state.TouchState != model.TouchScrolling {
		t.Fatalf("touch state = %s, expected Scrolling", state.TouchState)
	}

	a := c.Handle(model.SinglePointer(model.PointerMove, 0, 200, 300, at(30)))
	if a.Kind != ActionScroll || a.Delta != 20 {
		t.Errorf("Scroll action = %s/%v, expected scroll/20", a.Kind, a.Delta)
	}

	// Scrolling stays sticky even for vertical motion.
	c.Handle(model.SinglePointer(model.PointerMove, 0, 200, 500, at(40)))
	if state.TouchState != model.TouchScrolling {
		t.Errorf("touch state after vertical move = %s, expected Scrolling", state.TouchState)
	}
}

func TestAngleDampedSlop(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float32
		starts bool
	}{
		{"shallow", 20, 5, true},
		{"diagonal short", 40, 40, false},
		{"diagonal long", 80, 80, true},
		{"steep", 100, 300, false},
		{"vertical", 0, 100, false},
	}

	for _, test := range tests {
		c, state := newTestClassifier()
		c.Handle(model.SinglePointer(model.PointerDown, 0, 240, 300, at(0)))
		c.Handle(model.SinglePointer(model.PointerMove, 0, 240-test.dx, 300+test.dy, at(16)))
		started := state.TouchState == model.TouchScrolling
		if started != test.starts {
			t.Errorf("%s: scrolling = %v, expected %v", test.name, started, test.starts)
		}
	}
}

func TestSlopScalesContinuously(t *testing.T) {
	// Between the damping and cutoff angles a larger angle must never need
	// less horizontal travel than a smaller one.
	required := func(theta float64) float32 {
		for dx := float32(1); dx < 400; dx++ {
			c, state := newTestClassifier()
			dy := dx * float32(tan(theta))
			c.Handle(model.SinglePointer(model.PointerDown, 0, 440, 300, at(0)))
			c.Handle(model.SinglePointer(model.PointerMove, 0, 440-dx, 300+dy, at(16)))
			if state.TouchState == model.TouchScrolling {
				return dx
			}
		}
		return 400
	}

	prev := required(StartDampingAngle - 0.01)
	for _, theta := range []float64{0.55, 0.65, 0.75, 0.85, 0.95, 1.0} {
		r := required(theta)
		if r < prev {
			t.Errorf("required travel at %.2f rad = %v, smaller than %v at a lower angle", theta, r, prev)
		}
		prev = r
	}
}

func TestImplicitDown(t *testing.T) {
	c, state := newTestClassifier()

	a := c.Handle(model.SinglePointer(model.PointerMove, 4, 300, 300, at(0)))
	if a.Kind != ActionNone {
		t.Errorf("first move = %s, expected none", a.Kind)
	}
	if state.ActivePointerID != 4 {
		t.Fatalf("active pointer = %d, expected 4", state.ActivePointerID)
	}
	if x, _ := c.DownPosition(); x != 300 {
		t.Errorf("down x = %v, expected 300", x)
	}

	c.Handle(model.SinglePointer(model.PointerMove, 4, 250, 300, at(16)))
	if state.TouchState != model.TouchScrolling {
		t.Errorf("touch state = %s, expected Scrolling", state.TouchState)
	}
}

func TestPointerReassignmentReseeds(t *testing.T) {
	c, state := newTestClassifier()
	c.Handle(model.SinglePointer(model.PointerDown, 0, 200, 300, at(0)))
	c.Handle(model.SinglePointer(model.PointerMove, 0, 150, 300, at(16)))
	if state.TouchState != model.TouchScrolling {
		t.Fatalf("touch state = %s, expected Scrolling", state.TouchState)
	}

	c.Handle(twoPointers(model.PointerSecondaryDown, 1, fyne.NewPos(150, 300), fyne.NewPos(350, 300), 20))
	c.Handle(twoPointers(model.PointerMove, 0, fyne.NewPos(140, 300), fyne.NewPos(380, 300), 30))
	c.Handle(twoPointers(model.PointerSecondaryUp, 0, fyne.NewPos(140, 300), fyne.NewPos(390, 300), 40))

	if state.ActivePointerID != 1 {
		t.Fatalf("active pointer = %d, expected 1", state.ActivePointerID)
	}
	if x, _ := c.DownPosition(); x != 390 {
		t.Errorf("reseeded down x = %v, expected current position 390 not 350", x)
	}

	a := c.Handle(model.SinglePointer(model.PointerMove, 1, 380, 300, at(50)))
	if a.Kind != ActionScroll || a.Delta != 10 {
		t.Errorf("scroll after reassignment = %s/%v, expected scroll/10", a.Kind, a.Delta)
	}
}

func TestPinchEntersOverview(t *testing.T) {
	c, _ := newTestClassifier()
	c.Handle(model.SinglePointer(model.PointerDown, 0, 140, 300, at(0)))
	c.Handle(twoPointers(model.PointerSecondaryDown, 1, fyne.NewPos(140, 300), fyne.NewPos(340, 300), 10))

	if a := c.Handle(twoPointers(model.PointerMove, 0, fyne.NewPos(145, 300), fyne.NewPos(335, 300), 20)); a.Kind == ActionPinch {
		t.Fatal("pinch fired before the threshold")
	}
	if a := c.Handle(twoPointers(model.PointerMove, 0, fyne.NewPos(150, 300), fyne.NewPos(330, 300), 30)); a.Kind != ActionPinch {
		t.Fatalf("pinch of 20px = %s, expected pinch", a.Kind)
	}
	if a := c.Handle(twoPointers(model.PointerMove, 0, fyne.NewPos(170, 300), fyne.NewPos(310, 300), 40)); a.Kind == ActionPinch {
		t.Error("pinch fired twice in one sequence")
	}
}

func TestPinchGate(t *testing.T) {
	c, _ := newTestClassifier()
	c.SetPinchGate(func() bool { return false })
	c.Handle(twoPointers(model.PointerSecondaryDown, 1, fyne.NewPos(100, 300), fyne.NewPos(300, 300), 0))
	if a := c.Handle(twoPointers(model.PointerMove, 0, fyne.NewPos(150, 300), fyne.NewPos(250, 300), 10)); a.Kind == ActionPinch {
		t.Error("pinch fired while the gate is closed")
	}
}

func TestReleaseCarriesFlingData(t *testing.T) {
	c, state := newTestClassifier()
	c.Handle(model.SinglePointer(model.PointerDown, 0, 400, 300, at(0)))
	c.Handle(model.SinglePointer(model.PointerMove, 0, 380, 300, at(10)))
	c.Handle(model.SinglePointer(model.PointerMove, 0, 350, 300, at(20)))
	a := c.Handle(model.SinglePointer(model.PointerUp, 0, 320, 300, at(30)))

	if a.Kind != ActionRelease {
		t.Fatalf("up = %s, expected release", a.Kind)
	}
	if a.DownDelta != -80 {
		t.Errorf("DownDelta = %v, expected -80", a.DownDelta)
	}
	if a.Velocity >= 0 {
		t.Errorf("Velocity = %v, expected negative for a leftward swipe", a.Velocity)
	}
	if a.TotalMotion != 80 {
		t.Errorf("TotalMotion = %v, expected 80", a.TotalMotion)
	}
	if state.TouchState != model.TouchRest || state.HasActivePointer() {
		t.Errorf("state after up = %s/%d, expected Rest with no pointer", state.TouchState, state.ActivePointerID)
	}
}

func TestEdgeAndTapRelease(t *testing.T) {
	c, _ := newTestClassifier()
	c.Handle(model.SinglePointer(model.PointerDown, 0, 5, 300, at(0)))
	if a := c.Handle(model.SinglePointer(model.PointerUp, 0, 6, 300, at(50))); a.Kind != ActionEdgeRelease || a.Direction != -1 {
		t.Errorf("prev edge up = %s/%d, expected edge-release/-1", a.Kind, a.Direction)
	}

	c.Handle(model.SinglePointer(model.PointerDown, 0, 475, 300, at(100)))
	if a := c.Handle(model.SinglePointer(model.PointerUp, 0, 475, 300, at(150))); a.Kind != ActionEdgeRelease || a.Direction != 1 {
		t.Errorf("next edge up = %s/%d, expected edge-release/1", a.Kind, a.Direction)
	}

	c.Handle(model.SinglePointer(model.PointerDown, 0, 240, 300, at(200)))
	if a := c.Handle(model.SinglePointer(model.PointerUp, 0, 241, 300, at(250))); a.Kind != ActionTap {
		t.Errorf("plain up = %s, expected tap", a.Kind)
	}
}

func TestCancel(t *testing.T) {
	c, state := newTestClassifier()
	c.Handle(model.SinglePointer(model.PointerDown, 0, 300, 300, at(0)))
	c.Handle(model.SinglePointer(model.PointerMove, 0, 250, 300, at(10)))
	if a := c.Handle(model.SinglePointer(model.PointerCancel, 0, 250, 300, at(20))); a.Kind != ActionCancel {
		t.Errorf("cancel while scrolling = %s, expected cancel", a.Kind)
	}
	if state.TouchState != model.TouchRest {
		t.Errorf("state after cancel = %s, expected Rest", state.TouchState)
	}
}

func TestDownCatchesAnimation(t *testing.T) {
	state := model.NewScrollState()
	anim := &fakeAnimation{animating: true, remaining: 120}
	c := NewClassifier(testParams(), &state, anim)

	if a := c.Handle(model.SinglePointer(model.PointerDown, 0, 240, 300, at(0))); a.Kind != ActionBeginScroll {
		t.Errorf("down on a long snap = %s, expected begin-scroll", a.Kind)
	}
	if state.TouchState != model.TouchScrolling {
		t.Errorf("touch state = %s, expected Scrolling", state.TouchState)
	}
	c.Handle(model.SinglePointer(model.PointerUp, 0, 240, 300, at(10)))

	anim.remaining = 3
	if a := c.Handle(model.SinglePointer(model.PointerDown, 0, 240, 300, at(20))); a.Kind != ActionAbortAnimation {
		t.Errorf("down on a nearly settled snap = %s, expected abort", a.Kind)
	}
	if state.TouchState != model.TouchRest {
		t.Errorf("touch state = %s, expected Rest", state.TouchState)
	}
}
