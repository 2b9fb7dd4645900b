package platform

// Package platform contains host filesystem glue: the per-user data
// directory, the persisted page order and item icon lookup.
