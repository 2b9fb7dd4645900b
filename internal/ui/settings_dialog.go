package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/pager/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings *config.Settings
	loc      *Localization
	window   fyne.Window
	dialog   *dialog.ConfirmDialog
	onSaved  func()

	// UI components
	spacingEntry     *widget.Entry
	aheadEntry       *widget.Entry
	behindEntry      *widget.Entry
	velocityEntry    *widget.Entry
	overscrollSelect *widget.Select
	circularCheck    *widget.Check
	delayEntry       *widget.Entry
	workersEntry     *widget.Entry
	solverSelect     *widget.Select
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// values were stored.
func NewSettingsDialog(settings *config.Settings, loc *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings: settings,
		loc:      loc,
		window:   window,
		onSaved:  onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	sd.spacingEntry = numberEntry("0-64")
	sd.aheadEntry = numberEntry(fmt.Sprintf("0-%d", config.MaxLookDistance))
	sd.behindEntry = numberEntry(fmt.Sprintf("0-%d", config.MaxLookDistance))
	sd.velocityEntry = numberEntry(strconv.Itoa(int(config.DefaultSnapVelocity)))
	sd.delayEntry = numberEntry(strconv.Itoa(int(config.DefaultPrefetchDelay / time.Millisecond)))
	sd.workersEntry = numberEntry(fmt.Sprintf("1-%d", config.MaxPrefetchWorkers))

	curves := []string{}
	for _, c := range sd.settings.GetOverscrollOptions() {
		curves = append(curves, string(c))
	}
	sd.overscrollSelect = widget.NewSelect(curves, nil)
	sd.solverSelect = widget.NewSelect(sd.settings.GetOverviewSolverOptions(), nil)
	sd.circularCheck = widget.NewCheck(sd.loc.GetText(KeyCircular), nil)

	form := container.NewVBox(
		widget.NewLabel(sd.loc.GetText(KeyPagerSection)),
		widget.NewSeparator(),

		widget.NewLabel(sd.loc.GetText(KeyPageSpacing)),
		sd.spacingEntry,

		widget.NewLabel(sd.loc.GetText(KeySnapVelocity)),
		sd.velocityEntry,

		widget.NewLabel(sd.loc.GetText(KeyOverscroll)),
		sd.overscrollSelect,

		sd.circularCheck,

		widget.NewLabel(sd.loc.GetText(KeyOverviewSolver)),
		sd.solverSelect,

		widget.NewSeparator(),
		widget.NewLabel(sd.loc.GetText(KeyPrefetchSection)),
		widget.NewSeparator(),

		container.NewGridWithColumns(2,
			widget.NewLabel(sd.loc.GetText(KeyLookAhead)), sd.aheadEntry,
			widget.NewLabel(sd.loc.GetText(KeyLookBehind)), sd.behindEntry,
			widget.NewLabel(sd.loc.GetText(KeyPrefetchDelay)), sd.delayEntry,
			widget.NewLabel(sd.loc.GetText(KeyPrefetchWorkers)), sd.workersEntry,
		),
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.loc.GetText(KeySettings),
		sd.loc.GetText(KeySave),
		sd.loc.GetText(KeyCancel),
		container.NewVScroll(form),
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

func numberEntry(placeholder string) *widget.Entry {
	entry := widget.NewEntry()
	entry.SetPlaceHolder(placeholder)
	return entry
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.spacingEntry.SetText(formatFloat(sd.settings.GetPageSpacing()))
	sd.aheadEntry.SetText(strconv.Itoa(sd.settings.GetLookAhead()))
	sd.behindEntry.SetText(strconv.Itoa(sd.settings.GetLookBehind()))
	sd.velocityEntry.SetText(formatFloat(sd.settings.GetSnapVelocity()))
	sd.overscrollSelect.SetSelected(string(sd.settings.GetOverscrollCurve()))
	sd.circularCheck.SetChecked(sd.settings.Options().Circular)
	sd.delayEntry.SetText(strconv.FormatInt(sd.settings.GetPrefetchDelay().Milliseconds(), 10))
	sd.workersEntry.SetText(strconv.Itoa(sd.settings.GetPrefetchWorkers()))
	sd.solverSelect.SetSelected(sd.settings.GetOverviewSolver())
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	opts, err := sd.parse()
	if err != nil {
		dialog.ShowError(err, sd.window)
		return
	}
	if sd.overscrollSelect.Selected != "" {
		opts.Overscroll = config.OverscrollCurve(sd.overscrollSelect.Selected)
	}
	if sd.solverSelect.Selected != "" {
		opts.OverviewSolver = sd.solverSelect.Selected
	}
	opts.Circular = sd.circularCheck.Checked
	sd.settings.Store(opts)

	if sd.onSaved != nil {
		sd.onSaved()
	}
}

// parse reads the numeric entries; empty entries keep the stored value
func (sd *SettingsDialog) parse() (config.Options, error) {
	opts := sd.settings.Options()
	invalid := func(label string) error {
		return errors.New(sd.loc.GetText(KeyInvalidNumber) + ": " + strings.TrimSuffix(sd.loc.GetText(label), ":"))
	}

	if v, ok, err := parseFloat(sd.spacingEntry.Text); err != nil || (ok && v < 0) {
		return opts, invalid(KeyPageSpacing)
	} else if ok {
		opts.PageSpacing = v
	}
	if v, ok, err := parseFloat(sd.velocityEntry.Text); err != nil || (ok && v <= 0) {
		return opts, invalid(KeySnapVelocity)
	} else if ok {
		opts.SnapVelocity = v
	}
	if v, ok, err := parseInt(sd.aheadEntry.Text); err != nil {
		return opts, invalid(KeyLookAhead)
	} else if ok {
		opts.LookAhead = v
	}
	if v, ok, err := parseInt(sd.behindEntry.Text); err != nil {
		return opts, invalid(KeyLookBehind)
	} else if ok {
		opts.LookBehind = v
	}
	if v, ok, err := parseInt(sd.delayEntry.Text); err != nil || (ok && v < 0) {
		return opts, invalid(KeyPrefetchDelay)
	} else if ok {
		opts.PrefetchDelay = config.Duration{Duration: time.Duration(v) * time.Millisecond}
	}
	if v, ok, err := parseInt(sd.workersEntry.Text); err != nil {
		return opts, invalid(KeyPrefetchWorkers)
	} else if ok {
		opts.PrefetchWorkers = v
	}
	return opts, nil
}

func parseFloat(text string) (float32, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(text, 32)
	return float32(v), err == nil, err
}

func parseInt(text string) (int, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(text)
	return v, err == nil, err
}
