package platform

import (
	"fmt"

	"github.com/ytget/pager/internal/model"
)

var demoAppNames = []string{
	"Mail", "Maps", "Camera", "Clock", "Music", "Notes", "Phone", "Photos",
	"Calendar", "Files", "Weather", "Browser", "Chat", "Contacts", "Store",
}

var demoWidgetNames = []string{"Clock", "Weather", "Calendar", "Music", "Notes", "Battery"}

// demoSpans cycle over the widget catalog
var demoSpans = [][2]int{{2, 1}, {2, 2}, {1, 1}, {4, 2}}

// DemoItems returns a catalog of apps and widgets used when no real item
// source is wired
func DemoItems(apps, widgets int) ([]model.Item, []model.Item) {
	appItems := make([]model.Item, apps)
	for i := range appItems {
		name := demoAppNames[i%len(demoAppNames)]
		if i >= len(demoAppNames) {
			name = fmt.Sprintf("%s %d", name, i/len(demoAppNames)+1)
		}
		appItems[i] = model.Item{ID: fmt.Sprintf("app-%02d", i+1), Label: name, SpanX: 1, SpanY: 1}
	}

	widgetItems := make([]model.Item, widgets)
	for i := range widgetItems {
		span := demoSpans[i%len(demoSpans)]
		name := demoWidgetNames[i%len(demoWidgetNames)]
		widgetItems[i] = model.Item{
			ID:    fmt.Sprintf("widget-%02d", i+1),
			Label: fmt.Sprintf("%s %dx%d", name, span[0], span[1]),
			SpanX: span[0],
			SpanY: span[1],
		}
	}
	return appItems, widgetItems
}

// ItemIDs returns the ids of every item in order
func ItemIDs(lists ...[]model.Item) []string {
	var ids []string
	for _, list := range lists {
		for _, item := range list {
			ids = append(ids, item.ID)
		}
	}
	return ids
}
