package gesture

// Package gesture turns raw pointer samples into paging decisions: touch state
// classification with angle-damped paging slop, velocity estimation, edge taps
// and the pinch that opens the page overview. It never touches scroll offsets
// directly; it returns Actions that the pager applies to the physics.
