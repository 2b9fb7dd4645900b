package ui

import (
	"fmt"
	"image"
	"log"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/pager/internal/config"
	"github.com/ytget/pager/internal/model"
	"github.com/ytget/pager/internal/pager"
	"github.com/ytget/pager/internal/platform"
	"github.com/ytget/pager/internal/prefetch"
	"github.com/ytget/pager/internal/preview"
)

// RootUI is the launcher window: the app and widget pages on one paging
// surface, with a toolbar to page, switch ranges and open the overview
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	localization *Localization
	mobile       *MobileUI
	icons        preview.IconSource
	apps         []model.Item
	widgets      []model.Item
	orderPath    string

	customize *pager.Customize
	pager     *PagerWidget
	views     map[int]*PageView
	cellsX    int
	cellsY    int

	pageLabel   *widget.Label
	appsBtn     *widget.Button
	widgetsBtn  *widget.Button
	overviewBtn *widget.Button
	prevBtn     *widget.Button
	nextBtn     *widget.Button

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
	notificationHide      *time.Timer
}

// NewRootUI creates the launcher over apps and widgets and starts paging.
// The page order is kept in dataDir.
func NewRootUI(window fyne.Window, app fyne.App, apps, widgets []model.Item, icons preview.IconSource, dataDir string) (*RootUI, error) {
	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		settings:     settings,
		localization: localization,
		mobile:       NewMobileUI(app),
		icons:        icons,
		apps:         apps,
		widgets:      widgets,
		orderPath:    filepath.Join(dataDir, platform.PageOrderFileName),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	customize, err := ui.newCustomize()
	if err != nil {
		return nil, err
	}
	ui.customize = customize
	ui.pager = NewPagerWidget(customize.Engine(), ui.pageObject)

	ui.setupUI()
	ui.watchQueue()
	customize.Start()
	ui.pager.Start()
	ui.updatePageLabel()

	log.Printf("RootUI initialized with %d apps and %d widgets", len(apps), len(widgets))
	return ui, nil
}

// Close stops paging, saves the page order and releases every preview
func (ui *RootUI) Close() {
	ui.pager.Stop()
	ui.savePageOrder()
	ui.customize.Close()
}

// newCustomize builds a browser from the stored settings, sized to the
// pager when it already has a size
func (ui *RootUI) newCustomize() (*pager.Customize, error) {
	opts := ui.mobile.AdaptOptions(ui.settings.Options())
	if ui.pager != nil {
		if size := ui.pager.Size(); size.Width > 0 && size.Height > 0 {
			opts.PageWidth, opts.PageHeight = size.Width, size.Height
		}
	}

	ids, err := platform.LoadPageOrder(ui.orderPath)
	if err != nil {
		log.Printf("Failed to load page order: %v", err)
	}

	ui.cellsX, ui.cellsY = opts.CellsX, opts.CellsY
	ui.views = make(map[int]*PageView)
	cell := image.Pt(int(opts.PageWidth)/opts.CellsX, int(opts.PageHeight)/opts.CellsY)

	// Callbacks of a replaced browser are ignored
	var c *pager.Customize
	c, err = pager.NewCustomize(pager.Params{
		Options:      opts,
		PageIDs:      ids,
		Renderer:     preview.NewRenderer(ui.icons, cell),
		Post:         fyne.Do,
		AngleDamping: ui.mobile.UseAngleDamping(),
	}, ui.apps, ui.widgets, pager.Callbacks{
		OnPageSwitch: func(int) {
			if c == ui.customize {
				ui.updatePageLabel()
			}
		},
		OnPreviewModeChanged: ui.onPreviewModeChanged,
		RequestPagePopulate: func(slot int, _ bool) {
			if c == ui.customize {
				ui.onPopulate(slot)
			}
		},
		OnPreviewsReady: func(slot int, previews []*prefetch.Artifact) {
			if c == ui.customize {
				ui.pageView(slot).SetPreviews(previews)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.appsBtn = widget.NewButton(ui.localization.GetText(KeyApps), func() { ui.showRange(model.RangeA) })
	ui.widgetsBtn = widget.NewButton(IconWidget+" "+ui.localization.GetText(KeyWidgets), func() { ui.showRange(model.RangeB) })

	ui.prevBtn = widget.NewButton(IconPrev, func() { ui.pageBy(-1) })
	ui.prevBtn.Importance = widget.LowImportance
	ui.nextBtn = widget.NewButton(IconNext, func() { ui.pageBy(1) })
	ui.nextBtn.Importance = widget.LowImportance
	ui.pageLabel = widget.NewLabel("")
	ui.pageLabel.Alignment = fyne.TextAlignCenter

	ui.overviewBtn = widget.NewButton(IconOverview, ui.onToggleOverview)
	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	toolbar := container.NewBorder(
		nil,
		nil,
		container.NewHBox(ui.appsBtn, ui.widgetsBtn),
		container.NewHBox(ui.overviewBtn, settingsBtn),
		container.NewCenter(container.NewHBox(ui.prevBtn, ui.pageLabel, ui.nextBtn)),
	)

	// Create notification panel under the toolbar (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewHBox(ui.notificationSpinner, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	content := container.NewBorder(
		container.NewVBox(toolbar, ui.notificationContainer),
		nil,
		nil,
		nil,
		ui.pager,
	)
	ui.window.SetContent(content)
	ui.window.Canvas().SetOnTypedKey(ui.onTypedKey)

	log.Printf("UI setup completed successfully")
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	viewMenu := fyne.NewMenu(ui.localization.GetText(KeyOverview),
		fyne.NewMenuItem(ui.localization.GetText(KeyOverview), ui.onToggleOverview),
		fyne.NewMenuItem(ui.localization.GetText(KeyPrevPage), func() { ui.pageBy(-1) }),
		fyne.NewMenuItem(ui.localization.GetText(KeyNextPage), func() { ui.pageBy(1) }),
	)

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		viewMenu,
		languageMenu,
	)
	ui.window.SetMainMenu(mainMenu)
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	// Recreate menu to update checkmarks
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.appsBtn.SetText(ui.localization.GetText(KeyApps))
	ui.widgetsBtn.SetText(IconWidget + " " + ui.localization.GetText(KeyWidgets))
	ui.updatePageLabel()
}

func (ui *RootUI) engine() *pager.Engine {
	return ui.customize.Engine()
}

// pageView returns the view of slot, creating an empty one on first use
func (ui *RootUI) pageView(slot int) *PageView {
	pv, ok := ui.views[slot]
	if !ok {
		pv = NewPageView(ui.cellsX, ui.cellsY, ui.icons)
		ui.views[slot] = pv
	}
	return pv
}

func (ui *RootUI) pageObject(slot int) fyne.CanvasObject {
	return ui.pageView(slot)
}

func (ui *RootUI) onPopulate(slot int) {
	content, ok := ui.customize.Content(slot)
	if !ok {
		return
	}
	ui.pageView(slot).SetContent(content)
}

// showRange switches to the first page of r
func (ui *RootUI) showRange(r model.ContentRange) {
	e := ui.engine()
	m := e.Mapper()
	if m.Count(r) == 0 || e.ActiveRange() == r {
		return
	}
	e.SnapToPage(m.ToVisual(0, r))
	ui.pager.Refresh()
}

func (ui *RootUI) pageBy(dir int) {
	if ui.engine().PageBy(dir) {
		ui.pager.Refresh()
	}
}

// onToggleOverview enters or leaves the page overview
func (ui *RootUI) onToggleOverview() {
	e := ui.engine()
	if e.Overview().Mode().IsActive() {
		e.ExitOverview()
	} else {
		e.EnterOverview()
	}
	ui.pager.Refresh()
}

func (ui *RootUI) onPreviewModeChanged(entering bool) {
	if entering {
		ui.overviewBtn.Importance = widget.HighImportance
	} else {
		ui.overviewBtn.Importance = widget.MediumImportance
	}
	ui.overviewBtn.Refresh()
}

// onTypedKey pages with the arrow keys and leaves the overview on Escape
func (ui *RootUI) onTypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyLeft, fyne.KeyPageUp:
		ui.pageBy(-1)
	case fyne.KeyRight, fyne.KeyPageDown:
		ui.pageBy(1)
	case fyne.KeyEscape:
		if ui.engine().ExitOverview() {
			ui.pager.Refresh()
		}
	}
}

// updatePageLabel shows the current page within its range
func (ui *RootUI) updatePageLabel() {
	e := ui.engine()
	if e.PageCount() == 0 {
		ui.pageLabel.SetText(fmt.Sprintf(PageLabelFormat, 0, 0))
		return
	}
	m := e.Mapper()
	logical, r := m.ToLogical(e.CurrentPage())
	name := ui.localization.GetText(KeyApps)
	if r == model.RangeB {
		name = ui.localization.GetText(KeyWidgets)
	}
	ui.pageLabel.SetText(name + MiddleDotSeparator + fmt.Sprintf(PageLabelFormat, logical+1, m.Count(r)))

	ui.appsBtn.Importance = widget.LowImportance
	ui.widgetsBtn.Importance = widget.LowImportance
	if r == model.RangeA {
		ui.appsBtn.Importance = widget.HighImportance
	} else {
		ui.widgetsBtn.Importance = widget.HighImportance
	}
	ui.appsBtn.Refresh()
	ui.widgetsBtn.Refresh()
	if m.Count(model.RangeB) == 0 {
		ui.widgetsBtn.Disable()
	} else {
		ui.widgetsBtn.Enable()
	}
	if m.Count(model.RangeA) == 0 {
		ui.appsBtn.Disable()
	} else {
		ui.appsBtn.Enable()
	}
}

// watchQueue shows a spinner while previews are being rendered. Job updates
// arrive from worker goroutines.
func (ui *RootUI) watchQueue() {
	ui.engine().Queue().SetUpdateCallback(func(*model.PrefetchJob) {
		fyne.Do(ui.updateRenderingStatus)
	})
}

func (ui *RootUI) updateRenderingStatus() {
	active := 0
	for _, job := range ui.engine().Queue().Jobs() {
		if job.Status.IsActive() {
			active++
		}
	}
	if active == 0 {
		if ui.notificationSpinner.Visible() {
			ui.hideNotification()
		}
		return
	}
	ui.showNotification(fmt.Sprintf("%s (%d)", ui.localization.GetText(KeyRendering), active), true)
}

// showNotification displays a message in the notification panel under the
// toolbar. When spinning is true, a spinner is shown to indicate background
// activity; otherwise the panel hides itself after NotificationAutoHide.
func (ui *RootUI) showNotification(message string, spinning bool) {
	if ui.notificationHide != nil {
		ui.notificationHide.Stop()
		ui.notificationHide = nil
	}
	ui.notificationLabel.SetText(message)
	if spinning {
		ui.notificationSpinner.Show()
	} else {
		ui.notificationSpinner.Hide()
		ui.notificationHide = time.AfterFunc(NotificationAutoHide, func() {
			fyne.Do(ui.hideNotification)
		})
	}
	ui.notificationContainer.Show()
	ui.notificationContainer.Refresh()
}

// hideNotification hides the notification panel
func (ui *RootUI) hideNotification() {
	ui.notificationSpinner.Hide()
	ui.notificationContainer.Hide()
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, ui.onSettingsSaved).Show()
}

func (ui *RootUI) onSettingsSaved() {
	if err := ui.rebuild(); err != nil {
		log.Printf("Failed to apply settings: %v", err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyRebuildFailed), err), ui.window)
		return
	}
	ui.showNotification(ui.localization.GetText(KeySettingsSaved), false)
}

// rebuild replaces the browser with one built from the stored settings. The
// page order survives through the order file.
func (ui *RootUI) rebuild() error {
	ui.savePageOrder()
	old, oldViews := ui.customize, ui.views
	cellsX, cellsY := ui.cellsX, ui.cellsY
	customize, err := ui.newCustomize()
	if err != nil {
		ui.views, ui.cellsX, ui.cellsY = oldViews, cellsX, cellsY
		return err
	}

	ui.customize = customize
	ui.pager.SetEngine(customize.Engine(), ui.pageObject)
	old.Close()
	ui.watchQueue()
	customize.Start()
	ui.updatePageLabel()
	return nil
}

func (ui *RootUI) savePageOrder() {
	pages := ui.engine().Pages()
	ids := make([]string, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
	}
	if err := platform.SavePageOrder(ui.orderPath, ids); err != nil {
		log.Printf("Failed to save page order: %v", err)
	}
}
