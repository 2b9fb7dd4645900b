package preview

import (
	"context"
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/ytget/pager/internal/model"
	"github.com/ytget/pager/internal/prefetch"
)

// DefaultCellSize is the preview size of a 1x1 item
var DefaultCellSize = image.Pt(96, 96)

// ErrNoIcon is returned when an item has no icon to render
var ErrNoIcon = errors.New("preview: no icon")

// IconSource looks up the source image of an item
type IconSource interface {
	Icon(id string) (image.Image, bool)
}

// Icons is an in-memory IconSource keyed by item id
type Icons map[string]image.Image

// Icon returns the icon of id
func (m Icons) Icon(id string) (image.Image, bool) {
	img, ok := m[id]
	return img, ok && img != nil
}

// Renderer scales icons into bitmaps of cell size times the item span.
// It is safe for concurrent use as long as the IconSource is.
type Renderer struct {
	icons  IconSource
	cell   image.Point
	scaler draw.Scaler
}

// NewRenderer creates a renderer over icons. A zero cell uses DefaultCellSize.
func NewRenderer(icons IconSource, cell image.Point) *Renderer {
	if cell.X <= 0 || cell.Y <= 0 {
		cell = DefaultCellSize
	}
	return &Renderer{icons: icons, cell: cell, scaler: draw.CatmullRom}
}

// Size returns the bitmap size used for item
func (r *Renderer) Size(item model.Item) image.Point {
	return image.Pt(r.cell.X*max(item.SpanX, 1), r.cell.Y*max(item.SpanY, 1))
}

// Render draws the icon of item centered and aspect-fitted into a pooled bitmap
func (r *Renderer) Render(ctx context.Context, item model.Item, pool *prefetch.Pool) (*prefetch.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, ok := r.icons.Icon(item.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoIcon, item.ID)
	}
	sb := src.Bounds()
	if sb.Empty() {
		return nil, fmt.Errorf("%w: %s has an empty image", ErrNoIcon, item.ID)
	}

	size := r.Size(item)
	a := pool.Wrap(item.ID, pool.Get(size.X, size.Y))
	r.scaler.Scale(a.Image, FitRect(sb.Size(), size), src, sb, draw.Over, nil)
	if err := ctx.Err(); err != nil {
		a.Release()
		return nil, err
	}
	return a, nil
}

// Placeholder returns a flat artifact of the item's size
func (r *Renderer) Placeholder(item model.Item, pool *prefetch.Pool) *prefetch.Artifact {
	size := r.Size(item)
	return pool.Placeholder(item.ID, size.X, size.Y)
}

// FitRect returns the largest rectangle with the aspect ratio of src that
// fits in dst, centered
func FitRect(src, dst image.Point) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 {
		return image.Rectangle{Max: dst}
	}
	w, h := dst.X, src.Y*dst.X/src.X
	if h > dst.Y {
		w, h = src.X*dst.Y/src.Y, dst.Y
	}
	x := (dst.X - w) / 2
	y := (dst.Y - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

var _ prefetch.Renderer = (*Renderer)(nil)
