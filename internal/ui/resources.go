package ui

import (
	"fyne.io/fyne/v2"
)

const (
	AppIcon = "pager.png"
)

// LoadLogoResource loads the app icon from its file path
func LoadLogoResource() (fyne.Resource, error) {
	return fyne.LoadResourceFromPath(AppIcon)
}
