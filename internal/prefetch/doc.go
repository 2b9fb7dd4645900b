package prefetch

// Package prefetch renders per-item preview bitmaps for pages off the UI
// goroutine. Jobs are keyed by (page, generation), reprioritized whenever the
// scroll target moves, cancelled cooperatively between items, and hand their
// finished buffers back to the UI goroutine through a poster. Bitmaps come
// from a Pool and are released exactly once whether the job completes, is
// cancelled, or turns out to be stale.
