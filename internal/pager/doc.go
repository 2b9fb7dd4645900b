package pager

// Package pager composes the gesture classifier, scroll physics, page index
// mapper, content scheduler, preview prefetch queue and overview mode into one
// paging surface driven by pointer events and a per-frame Tick. Customize
// layers the apps and widgets content ranges on top of an Engine.
