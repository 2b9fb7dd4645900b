package model

import (
	"testing"
	"time"
)

func TestLoadWindow(t *testing.T) {
	tests := []struct {
		window LoadWindow
		slot   int
		in     bool
		length int
	}{
		{LoadWindow{Lower: 0, Upper: 4}, 0, true, 5},
		{LoadWindow{Lower: 0, Upper: 4}, 4, true, 5},
		{LoadWindow{Lower: 0, Upper: 4}, 5, false, 5},
		{LoadWindow{Lower: 3, Upper: 7}, 2, false, 5},
		{LoadWindow{Lower: 1, Upper: 0}, 0, false, 0},
	}

	for _, test := range tests {
		if result := test.window.Contains(test.slot); result != test.in {
			t.Errorf("%+v.Contains(%d) = %v, expected %v", test.window, test.slot, result, test.in)
		}
		if result := test.window.Len(); result != test.length {
			t.Errorf("%+v.Len() = %d, expected %d", test.window, result, test.length)
		}
	}
}

func TestTierForPriority(t *testing.T) {
	tests := []struct {
		priority int
		expected PriorityTier
	}{
		{-1, TierLessFavorable},
		{0, TierLessFavorable},
		{1, TierLowest},
		{7, TierLowest},
	}

	for _, test := range tests {
		if result := TierForPriority(test.priority); result != test.expected {
			t.Errorf("TierForPriority(%d) = %s, expected %s", test.priority, result, test.expected)
		}
	}
}

func TestPointerEvent_Find(t *testing.T) {
	now := time.Now()
	ev := SinglePointer(PointerMove, 3, 10, 20, now)

	pos, ok := ev.Find(3)
	if !ok || pos.X != 10 || pos.Y != 20 {
		t.Errorf("Find(3) = %v, %v, expected (10,20), true", pos, ok)
	}
	if _, ok := ev.Find(4); ok {
		t.Error("Find(4) should not find an absent pointer")
	}
	if ev.Primary().ID != 3 {
		t.Errorf("Primary().ID = %d, expected 3", ev.Primary().ID)
	}
	if (PointerEvent{}).Primary().ID != NoPointer {
		t.Error("Primary() of an empty event should be NoPointer")
	}
}

func TestScrollState_Defaults(t *testing.T) {
	s := NewScrollState()
	if s.HasActivePointer() {
		t.Error("new state should have no active pointer")
	}
	if s.TouchState != TouchRest {
		t.Errorf("new state touch = %s, expected Rest", s.TouchState)
	}
	s.UnboundedOffset = -40
	if !s.IsOverscrolled() {
		t.Error("diverging offsets should report overscroll")
	}
}
