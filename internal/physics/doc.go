package physics

// Package physics owns the scroll offsets of a paging surface: bounded and
// overscrolled scrolling, the time-driven snap interpolation polled once per
// frame, the release decision (fling, significant move, return to origin)
// and snap duration math.
