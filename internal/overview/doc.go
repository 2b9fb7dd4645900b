package overview

// Package overview implements the zoomed-out "all pages" mode of a paging
// surface: the Normal/Entering/Previews/Exiting state machine, pluggable page
// matrix solvers, inertial panning and the time-driven interpolation between
// each page's live transform and its solved overview transform.
