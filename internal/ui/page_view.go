package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/pager/internal/model"
	"github.com/ytget/pager/internal/prefetch"
	"github.com/ytget/pager/internal/preview"
)

// PageView draws one page as a grid of cells: app icons on icon pages,
// rendered previews on widget pages
type PageView struct {
	widget.BaseWidget

	cellsX, cellsY int
	icons          preview.IconSource
	content        model.PageContent
	previews       map[string]image.Image
}

// NewPageView creates an empty page of cellsX x cellsY cells
func NewPageView(cellsX, cellsY int, icons preview.IconSource) *PageView {
	pv := &PageView{
		cellsX: max(cellsX, 1),
		cellsY: max(cellsY, 1),
		icons:  icons,
	}
	pv.ExtendBaseWidget(pv)
	return pv
}

// SetContent replaces the page items. Previews of the old content are
// forgotten since their bitmaps go back to the pool on repopulation.
func (pv *PageView) SetContent(content model.PageContent) {
	pv.content = content
	pv.previews = nil
	pv.Refresh()
}

// Content returns the page items
func (pv *PageView) Content() model.PageContent {
	return pv.content
}

// SetPreviews shows rendered previews. The artifacts must stay live while
// they are shown.
func (pv *PageView) SetPreviews(list []*prefetch.Artifact) {
	pv.previews = make(map[string]image.Image, len(list))
	for _, a := range list {
		if a == nil || a.Released() || a.Image == nil {
			continue
		}
		pv.previews[a.ItemID] = a.Image
	}
	pv.Refresh()
}

// PreviewCount returns how many previews are shown
func (pv *PageView) PreviewCount() int {
	return len(pv.previews)
}

// imageFor returns what to draw for item, or nil for a bare cell
func (pv *PageView) imageFor(item model.Item) image.Image {
	if img, ok := pv.previews[item.ID]; ok {
		return img
	}
	if pv.content.Kind == model.PageKindIcons && pv.icons != nil {
		if img, ok := pv.icons.Icon(item.ID); ok {
			return img
		}
	}
	return nil
}

// CreateRenderer creates the widget renderer
func (pv *PageView) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(themeColor(ColorNamePage))
	background.CornerRadius = PageCornerRadius
	r := &pageViewRenderer{view: pv, background: background}
	r.Refresh()
	return r
}

type pageCell struct {
	background *canvas.Rectangle
	image      *canvas.Image
	label      *canvas.Text
}

// pageViewRenderer renders the page grid
type pageViewRenderer struct {
	view       *PageView
	background *canvas.Rectangle
	cells      []*pageCell
	objects    []fyne.CanvasObject
}

// Layout arranges the cells row by row
func (r *pageViewRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.background.Move(fyne.NewPos(0, 0))

	pv := r.view
	w := size.Width / float32(pv.cellsX)
	h := size.Height / float32(pv.cellsY)
	for i, c := range r.cells {
		col := i % pv.cellsX
		row := i / pv.cellsX
		pos := fyne.NewPos(float32(col)*w+CellPadding, float32(row)*h+CellPadding)
		cellSize := fyne.NewSize(max(w-2*CellPadding, 0), max(h-2*CellPadding, 0))

		c.background.Move(pos)
		c.background.Resize(cellSize)

		imageSize := fyne.NewSize(cellSize.Width, max(cellSize.Height-CellLabelHeight, 0))
		c.image.Move(pos)
		c.image.Resize(imageSize)

		c.label.Move(fyne.NewPos(pos.X, pos.Y+imageSize.Height))
		c.label.Resize(fyne.NewSize(cellSize.Width, CellLabelHeight))
	}
}

// MinSize returns the minimum size
func (r *pageViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(
		float32(r.view.cellsX)*MinTouchTargetSize,
		float32(r.view.cellsY)*(MinTouchTargetSize+CellLabelHeight),
	)
}

// Refresh rebuilds the cells from the page content
func (r *pageViewRenderer) Refresh() {
	pv := r.view
	items := pv.content.Items
	if limit := pv.cellsX * pv.cellsY; len(items) > limit {
		items = items[:limit]
	}

	cellColor := themeColor(ColorNameCell)
	if pv.content.Kind == model.PageKindWidgets {
		cellColor = themeColor(ColorNameWidgetCell)
	}

	for len(r.cells) < len(items) {
		bg := canvas.NewRectangle(cellColor)
		bg.CornerRadius = CellCornerRadius
		img := &canvas.Image{FillMode: canvas.ImageFillContain}
		label := canvas.NewText("", themeColor(theme.ColorNameForeground))
		label.Alignment = fyne.TextAlignCenter
		label.TextSize = theme.CaptionTextSize()
		r.cells = append(r.cells, &pageCell{background: bg, image: img, label: label})
	}
	r.cells = r.cells[:len(items)]

	r.background.FillColor = themeColor(ColorNamePage)
	r.background.Refresh()
	r.objects = append(r.objects[:0], r.background)
	for i, item := range items {
		c := r.cells[i]
		c.background.FillColor = cellColor
		c.image.Image = pv.imageFor(item)
		c.label.Text = item.Label
		c.background.Refresh()
		c.image.Refresh()
		c.label.Refresh()
		r.objects = append(r.objects, c.background, c.image, c.label)
	}
	r.Layout(pv.Size())
}

// Objects returns the canvas objects
func (r *pageViewRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up the renderer
func (r *pageViewRenderer) Destroy() {}
