package preview

// Package preview renders item previews for the prefetch queue by scaling
// item icons into pooled bitmaps.
