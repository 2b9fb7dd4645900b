package model

// Package model defines the data shared across the paging engine: scroll and
// touch state, page descriptors for the two content ranges, load windows,
// pointer events and prefetch job records. Structures are plain values owned
// by the UI thread; workers only ever see copies.
