package prefetch

import (
	"testing"

	"github.com/ytget/pager/internal/model"
)

func TestNormalizedPriority(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		target   int
		others   []int
		expected int
	}{
		{"single job far away", 5, 0, nil, 0},
		{"closest of several", 2, 0, []int{3, 5}, 0},
		{"one behind closest", 3, 0, []int{2, 5}, 1},
		{"true minimum not last seen", 6, 0, []int{1, 4}, 5},
		{"tie with other", 4, 2, []int{0}, 0},
		{"target itself", 7, 7, []int{6, 9}, 0},
	}

	for _, tt := range tests {
		got := normalizedPriority(tt.page, tt.target, tt.others)
		if got != tt.expected {
			t.Errorf("%s: normalizedPriority(%d, %d, %v) = %d, expected %d", tt.name, tt.page, tt.target, tt.others, got, tt.expected)
		}
	}
}

func TestDirectionalTier(t *testing.T) {
	tests := []struct {
		page, current, target, priority int
		expected                        model.PriorityTier
	}{
		{5, 3, 4, 0, model.TierLessFavorable},
		{2, 3, 4, 0, model.TierLowest},
		{4, 3, 2, 0, model.TierLowest},
		{1, 3, 2, 0, model.TierLessFavorable},
		{3, 3, 3, 1, model.TierLowest},
		{2, 3, 3, 0, model.TierLessFavorable},
	}

	for _, tt := range tests {
		got := directionalTier(tt.page, tt.current, tt.target, tt.priority)
		if got != tt.expected {
			t.Errorf("directionalTier(%d, %d, %d, %d) = %s, expected %s", tt.page, tt.current, tt.target, tt.priority, got, tt.expected)
		}
	}
}
