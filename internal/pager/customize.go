package pager

import (
	"log"

	"github.com/ytget/pager/internal/model"
	"github.com/ytget/pager/internal/prefetch"
)

// Customize is the apps and widgets browser: range A pages hold app icons,
// range B pages hold widgets whose previews are rendered by the prefetch
// queue. It keeps the populated content and the delivered previews of every
// page.
type Customize struct {
	engine  *Engine
	perPage int
	apps    []model.Item
	widgets []model.Item
	host    Callbacks

	contents map[int]model.PageContent
	previews map[int][]*prefetch.Artifact
}

// NewCustomize creates the browser over apps and widgets. Page counts are
// derived from the grid size in p.Options; p.CountA and p.CountB are ignored.
// Previews passed to host.OnPreviewsReady stay owned by Customize.
func NewCustomize(p Params, apps, widgets []model.Item, host Callbacks) (*Customize, error) {
	c := &Customize{
		perPage:  p.Options.ItemsPerPage(),
		apps:     append([]model.Item(nil), apps...),
		widgets:  append([]model.Item(nil), widgets...),
		host:     host,
		contents: make(map[int]model.PageContent),
		previews: make(map[int][]*prefetch.Artifact),
	}
	p.CountA = pagesFor(len(apps), c.perPage)
	p.CountB = pagesFor(len(widgets), c.perPage)

	cb := host
	cb.RequestPagePopulate = c.populate
	cb.OnPreviewsReady = c.previewsReady
	e, err := New(p, cb)
	if err != nil {
		return nil, err
	}
	c.engine = e
	return c, nil
}

// Engine returns the underlying paging surface
func (c *Customize) Engine() *Engine {
	return c.engine
}

// Start starts the engine
func (c *Customize) Start() {
	c.engine.Start()
}

// Close stops the engine and releases every preview
func (c *Customize) Close() {
	c.engine.Close()
	for page := range c.previews {
		c.dropPreviews(page)
	}
}

// Content returns what was last populated into slot
func (c *Customize) Content(slot int) (model.PageContent, bool) {
	content, ok := c.contents[slot]
	return content, ok
}

// Previews returns the previews delivered for slot. They stay owned by
// Customize and are valid until the page is repopulated.
func (c *Customize) Previews(slot int) []*prefetch.Artifact {
	return c.previews[slot]
}

// SetItems replaces both item lists and rebuilds the pages
func (c *Customize) SetItems(apps, widgets []model.Item) {
	c.apps = append([]model.Item(nil), apps...)
	c.widgets = append([]model.Item(nil), widgets...)
	for page := range c.previews {
		c.dropPreviews(page)
	}
	clear(c.contents)
	c.engine.SetContentCounts(pagesFor(len(c.apps), c.perPage), pagesFor(len(c.widgets), c.perPage))
}

// populate fills one page and queues preview rendering for widget pages
func (c *Customize) populate(slot int, immediate bool) {
	logical, r := c.engine.Mapper().ToLogical(slot)
	content := model.PageContent{Kind: model.PageKindIcons, Items: pageItems(c.apps, logical, c.perPage)}
	if r == model.RangeB {
		content = model.PageContent{Kind: model.PageKindWidgets, Items: pageItems(c.widgets, logical, c.perPage)}
	}
	c.contents[slot] = content

	if content.Kind == model.PageKindWidgets && len(content.Items) > 0 {
		c.dropPreviews(slot)
		if _, err := c.engine.RequestPreviewJob(slot, content.Items); err != nil {
			log.Printf("pager: page %d previews not requested: %v", slot, err)
		}
	}
	c.host.requestPagePopulate(slot, immediate)
}

func (c *Customize) previewsReady(slot int, previews []*prefetch.Artifact) {
	c.dropPreviews(slot)
	c.previews[slot] = previews
	if c.host.OnPreviewsReady != nil {
		c.host.OnPreviewsReady(slot, previews)
	}
}

func (c *Customize) dropPreviews(slot int) {
	if old, ok := c.previews[slot]; ok {
		prefetch.ReleaseAll(old)
		delete(c.previews, slot)
	}
}

// pagesFor returns how many pages of perPage cells hold n items
func pagesFor(n, perPage int) int {
	return (n + perPage - 1) / perPage
}

func pageItems(items []model.Item, page, perPage int) []model.Item {
	start := page * perPage
	if start >= len(items) {
		return nil
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}
