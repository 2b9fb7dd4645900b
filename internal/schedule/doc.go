package schedule

// Package schedule keeps the per-page dirty bits of a paging surface and
// decides which pages are populated when the current or target page changes.
// It runs on the UI goroutine only.
