package pageindex

// Package pageindex maps logical pages of the two content ranges onto the
// visual slots of a single scroll axis, including the two buffer slots that
// let circular paging pre-render the page on the far side of a wrap.
