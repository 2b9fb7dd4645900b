package ui

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"

	"github.com/ytget/pager/internal/model"
	"github.com/ytget/pager/internal/prefetch"
	"github.com/ytget/pager/internal/preview"
)

func iconItems(ids ...string) []model.Item {
	out := make([]model.Item, len(ids))
	for i, id := range ids {
		out[i] = model.Item{ID: id, Label: id, SpanX: 1, SpanY: 1}
	}
	return out
}

func TestPageViewCells(t *testing.T) {
	test.NewApp()

	icon := image.NewRGBA(image.Rect(0, 0, 4, 4))
	pv := NewPageView(2, 2, preview.Icons{"mail": icon})
	pv.Resize(fyne.NewSize(200, 200))
	pv.SetContent(model.PageContent{Kind: model.PageKindIcons, Items: iconItems("mail", "maps")})

	objects := test.WidgetRenderer(pv).Objects()
	// background plus rectangle, image and label per cell
	if len(objects) != 7 {
		t.Fatalf("len(Objects()) = %d, expected 7", len(objects))
	}
	if img := objects[2].(*canvas.Image).Image; img != icon {
		t.Errorf("first cell image = %v, expected the mail icon", img)
	}
	if img := objects[5].(*canvas.Image).Image; img != nil {
		t.Errorf("second cell image = %v, expected none", img)
	}
	if text := objects[6].(*canvas.Text).Text; text != "maps" {
		t.Errorf("second cell label = %q, expected %q", text, "maps")
	}

	cell := objects[1]
	if pos := cell.Position(); pos != fyne.NewPos(CellPadding, CellPadding) {
		t.Errorf("first cell position = %v, expected padding offset", pos)
	}
	if size := cell.Size(); size.Width != 100-2*CellPadding {
		t.Errorf("first cell width = %v, expected %v", size.Width, 100-2*CellPadding)
	}
}

func TestPageViewClipsToGrid(t *testing.T) {
	test.NewApp()

	pv := NewPageView(2, 1, nil)
	pv.SetContent(model.PageContent{Kind: model.PageKindIcons, Items: iconItems("a", "b", "c")})

	if n := len(test.WidgetRenderer(pv).Objects()); n != 7 {
		t.Errorf("len(Objects()) = %d, expected 7", n)
	}
}

func TestPageViewPreviews(t *testing.T) {
	test.NewApp()

	pool := prefetch.NewPool()
	clock := pool.Wrap("clock", pool.Get(8, 8))
	stale := pool.Wrap("weather", pool.Get(8, 8))
	stale.Release()

	pv := NewPageView(2, 2, nil)
	pv.SetContent(model.PageContent{Kind: model.PageKindWidgets, Items: iconItems("clock", "weather")})
	pv.SetPreviews([]*prefetch.Artifact{clock, stale, nil})

	if n := pv.PreviewCount(); n != 1 {
		t.Fatalf("PreviewCount() = %d, expected 1", n)
	}
	objects := test.WidgetRenderer(pv).Objects()
	if img := objects[2].(*canvas.Image).Image; img != image.Image(clock.Image) {
		t.Errorf("clock cell image = %v, expected the preview", img)
	}

	pv.SetContent(model.PageContent{Kind: model.PageKindWidgets, Items: iconItems("clock")})
	if n := pv.PreviewCount(); n != 0 {
		t.Errorf("PreviewCount() after SetContent = %d, expected 0", n)
	}
}
