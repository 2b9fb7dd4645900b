package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconOverview = "▦"
	IconPrev     = "‹"
	IconNext     = "›"
	IconWidget   = "▣"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	PageLabelFormat    = "%d / %d"
)

// Page layout sizing
const (
	CellPadding      float32 = 6
	CellLabelHeight  float32 = 18
	CellCornerRadius float32 = 8
	PageCornerRadius float32 = 12

	// Touch target minimum size (iOS/Android guidelines)
	MinTouchTargetSize float32 = 44
)

// Edge zone widths for the engine
const (
	DesktopEdgeZoneWidth float32 = 24
	MobileEdgeZoneWidth  float32 = 32
)

// Frame ticker. The animation runs forever; its duration only sets how often
// fyne restarts the cycle.
const (
	TickerCycle = time.Second
)

// Dialog sizing
const (
	SettingsDialogWidth  float32 = 420
	SettingsDialogHeight float32 = 520
)

// Notifications
const (
	NotificationAutoHide = 2 * time.Second
)
