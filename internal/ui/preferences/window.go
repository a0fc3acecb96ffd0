package preferences

import (
	"strconv"
	"strings"

	"watchface/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window      fyne.Window
	settings    Settings
	onSave      func(Settings)
	clock24h    *widget.Check
	latitude    *widget.Entry
	longitude   *widget.Entry
	pollMinutes *widget.Entry
	rollover    *widget.Select
	provider    *widget.Select
	bridgeAddr  *widget.Entry
	login       *widget.Check
	onStart     *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Watchface Settings")

	prefs := &Window{
		window:      window,
		onSave:      onSave,
		clock24h:    widget.NewCheck("24-hour clock", nil),
		latitude:    widget.NewEntry(),
		longitude:   widget.NewEntry(),
		pollMinutes: widget.NewEntry(),
		rollover: widget.NewSelect([]string{
			string(model.RolloverMidnight),
			string(model.RolloverDayChange),
		}, nil),
		provider:   widget.NewSelect([]string{ProviderOpenMeteo, ProviderStatic, ProviderBridge}, nil),
		bridgeAddr: widget.NewEntry(),
		login:      widget.NewCheck("Start at login", nil),
		onStart:    widget.NewCheck("Request weather at startup", nil),
	}
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Face", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.clock24h,
		container.NewHBox(widget.NewLabel("Date refresh"), prefs.rollover),
		widget.NewLabelWithStyle("Weather", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Request every"), prefs.pollMinutes, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Source"), prefs.provider),
		prefs.onStart,
		container.NewGridWithColumns(2, widget.NewLabel("Latitude"), prefs.latitude),
		container.NewGridWithColumns(2, widget.NewLabel("Longitude"), prefs.longitude),
		container.NewGridWithColumns(2, widget.NewLabel("Bridge address"), prefs.bridgeAddr),
		prefs.login,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 420))
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.clock24h.SetChecked(settings.Clock24h)
	prefs.latitude.SetText(formatCoordinate(settings.Latitude))
	prefs.longitude.SetText(formatCoordinate(settings.Longitude))
	prefs.pollMinutes.SetText(strconv.Itoa(settings.PollMinutes))
	prefs.rollover.SetSelected(string(settings.DateRollover))
	prefs.provider.SetSelected(settings.Provider)
	prefs.bridgeAddr.SetText(settings.BridgeAddr)
	prefs.login.SetChecked(settings.StartAtLogin)
	prefs.onStart.SetChecked(settings.RequestOnStart)
}

// Settings returns the last saved values.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	settings.Clock24h = prefs.clock24h.Checked
	if value, ok := parseFloat(prefs.latitude.Text); ok {
		settings.Latitude = value
	}
	if value, ok := parseFloat(prefs.longitude.Text); ok {
		settings.Longitude = value
	}
	if minutes, ok := parsePositiveInt(prefs.pollMinutes.Text); ok {
		settings.PollMinutes = minutes
	}
	settings.DateRollover = model.DateRollover(prefs.rollover.Selected)
	settings.Provider = prefs.provider.Selected
	if addr := strings.TrimSpace(prefs.bridgeAddr.Text); addr != "" {
		settings.BridgeAddr = addr
	}
	settings.StartAtLogin = prefs.login.Checked
	settings.RequestOnStart = prefs.onStart.Checked

	settings = settings.Normalized()
	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', 4, 64)
}

func parseFloat(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
