package prefetch

import (
	"math"

	"github.com/ytget/pager/internal/model"
)

// rawDistance is the page distance between page and the scroll target
func rawDistance(page, target int) int {
	d := page - target
	if d < 0 {
		return -d
	}
	return d
}

// normalizedPriority returns raw - min(raw, minOther), where minOther is the
// smallest distance to target among the other live jobs. A page with no
// closer competitor gets priority 0 however far away it is.
func normalizedPriority(page, target int, others []int) int {
	raw := rawDistance(page, target)
	minOther := math.MaxInt
	for _, p := range others {
		if d := rawDistance(p, target); d < minOther {
			minOther = d
		}
	}
	return raw - min(raw, minOther)
}

// directionalTier applies the look-ahead rule: while the scroll heads toward
// target, jobs on the side it leaves behind drop to the lowest tier
func directionalTier(page, current, target, priority int) model.PriorityTier {
	switch {
	case target > current && page < current:
		return model.TierLowest
	case target < current && page > current:
		return model.TierLowest
	}
	return model.TierForPriority(priority)
}
