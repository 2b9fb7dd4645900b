package ui

// Package ui contains the Fyne front end of the launcher: the paging widget
// that feeds pointer input to the engine and ticks it every frame, the page
// grid views, the toolbar and the settings dialog. All UI strings are
// localized via Localization.
