package ui

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/pager/internal/config"
)

// MobileUI provides mobile-specific UI enhancements
type MobileUI struct {
	app fyne.App
}

// NewMobileUI creates a new mobile UI helper
func NewMobileUI(app fyne.App) *MobileUI {
	return &MobileUI{app: app}
}

// IsMobileDevice checks if the app is running on a mobile device
func (m *MobileUI) IsMobileDevice() bool {
	return fyne.CurrentDevice().IsMobile()
}

// GetDeviceOrientation returns the current device orientation
func (m *MobileUI) GetDeviceOrientation() fyne.DeviceOrientation {
	return fyne.CurrentDevice().Orientation()
}

// IsLandscape returns true if device is in landscape orientation
func (m *MobileUI) IsLandscape() bool {
	orientation := m.GetDeviceOrientation()
	return orientation == fyne.OrientationHorizontalLeft || orientation == fyne.OrientationHorizontalRight
}

// EdgeZoneWidth returns the width of the edge tap zones. Fingers need a
// wider target than a mouse.
func (m *MobileUI) EdgeZoneWidth() float32 {
	if m.IsMobileDevice() {
		return MobileEdgeZoneWidth
	}
	return DesktopEdgeZoneWidth
}

// GridCells returns the page grid for the current orientation
func (m *MobileUI) GridCells(opts config.Options) (int, int) {
	if m.IsMobileDevice() && m.IsLandscape() && opts.CellsY > opts.CellsX {
		return opts.CellsY, opts.CellsX
	}
	return opts.CellsX, opts.CellsY
}

// AdaptOptions tunes opts for the device the app runs on
func (m *MobileUI) AdaptOptions(opts config.Options) config.Options {
	opts.EdgeZoneWidth = m.EdgeZoneWidth()
	opts.CellsX, opts.CellsY = m.GridCells(opts)
	return opts
}

// UseAngleDamping reports whether paging slop should grow with the drag
// angle. Desktop drags are often diagonal, touch drags are not.
func (m *MobileUI) UseAngleDamping() bool {
	return !m.IsMobileDevice()
}
