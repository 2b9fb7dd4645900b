package prefetch

import (
	"context"

	"github.com/ytget/pager/internal/model"
)

// Renderer produces the preview of one item. It runs on worker goroutines.
type Renderer interface {
	// Render draws item into a bitmap taken from pool
	Render(ctx context.Context, item model.Item, pool *Pool) (*Artifact, error)
	// Placeholder returns the fallback artifact for an item that failed
	Placeholder(item model.Item, pool *Pool) *Artifact
}

// Prefetcher defines the interface the pager uses to request previews.
// Update callbacks may run on worker goroutines; completions always run on
// the UI goroutine.
type Prefetcher interface {
	SetCompletionCallback(func(Result))
	SetUpdateCallback(func(*model.PrefetchJob))
	Start()
	SetTarget(current, target int)
	Submit(page int, items []model.Item) (Handle, error)
	Cancel(page int, reason Reason) bool
	CancelOutside(window model.LoadWindow) []int
	CancelAll(reason Reason) int
	Job(page int) (model.PrefetchJob, bool)
	Jobs() []model.PrefetchJob
	RunPending() int
	Close()
}

var _ Prefetcher = (*Queue)(nil)
