package model

import "time"

// PriorityTier is the scheduler hint a prefetch job maps to
type PriorityTier int

const (
	// TierLessFavorable is just below foreground work; nearest jobs get it
	TierLessFavorable PriorityTier = iota
	// TierLowest is used for everything else
	TierLowest
)

// String returns a readable tier name
func (t PriorityTier) String() string {
	if t == TierLessFavorable {
		return "less-favorable"
	}
	return "lowest"
}

// TierForPriority maps a normalized priority to its tier. Only two tiers are
// effective: 0 maps to TierLessFavorable, 1 and above map to TierLowest.
func TierForPriority(priority int) PriorityTier {
	if priority <= 0 {
		return TierLessFavorable
	}
	return TierLowest
}

// PrefetchJob is the bookkeeping record of one preview prefetch attempt
type PrefetchJob struct {
	ID         string
	PageIndex  int
	Generation uint64
	Priority   int
	Tier       PriorityTier
	Status     JobStatus
	Items      int
	SubmitAt   time.Time
	StartAt    time.Time // earliest time a worker may pick the job
	FinishedAt time.Time
}

// Key returns the (page, generation) identity of the job
func (j PrefetchJob) Key() JobKey {
	return JobKey{Page: j.PageIndex, Generation: j.Generation}
}

// JobKey identifies a job attempt; a completion whose key no longer matches
// the live job for its page is stale
type JobKey struct {
	Page       int
	Generation uint64
}
