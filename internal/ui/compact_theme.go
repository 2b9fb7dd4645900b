package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Launcher colour names understood by LauncherTheme
const (
	ColorNamePage        fyne.ThemeColorName = "launcherPage"
	ColorNameCell        fyne.ThemeColorName = "launcherCell"
	ColorNameWidgetCell  fyne.ThemeColorName = "launcherWidgetCell"
	ColorNameOverviewDim fyne.ThemeColorName = "launcherOverviewDim"
)

// LauncherTheme is a compact theme with the launcher's page and cell colours
type LauncherTheme struct{}

// NewLauncherTheme creates the launcher theme
func NewLauncherTheme() fyne.Theme {
	return &LauncherTheme{}
}

// Color returns theme colors
func (t *LauncherTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	dark := variant == theme.VariantDark
	switch name {
	case ColorNamePage:
		if dark {
			return color.RGBA{R: 30, G: 30, B: 34, A: 255}
		}
		return color.RGBA{R: 236, G: 239, B: 244, A: 255}
	case ColorNameCell:
		if dark {
			return color.RGBA{R: 48, G: 48, B: 54, A: 255}
		}
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	case ColorNameWidgetCell:
		if dark {
			return color.RGBA{R: 38, G: 50, B: 72, A: 255}
		}
		return color.RGBA{R: 220, G: 232, B: 250, A: 255}
	case ColorNameOverviewDim:
		return color.RGBA{A: 96}
	case theme.ColorNamePrimary:
		return color.RGBA{R: 25, G: 118, B: 210, A: 255}
	case theme.ColorNameBackground:
		if dark {
			return color.RGBA{R: 18, G: 18, B: 18, A: 255}
		}
		return color.RGBA{R: 250, G: 250, B: 250, A: 255}
	}

	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *LauncherTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *LauncherTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *LauncherTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameText:
		return 13
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 3
	}

	return theme.DefaultTheme().Size(name)
}

// themeColor resolves name against the running app's theme
func themeColor(name fyne.ThemeColorName) color.Color {
	app := fyne.CurrentApp()
	if app == nil {
		return NewLauncherTheme().Color(name, theme.VariantLight)
	}
	return app.Settings().Theme().Color(name, app.Settings().ThemeVariant())
}
