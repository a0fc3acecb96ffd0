package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "Watchface"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowWatch      func()
	OnPreferences    func()
	OnRefreshWeather func()
	OnToggle24Hour   func(enabled bool)
	OnQuit           func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	clockItem   *fyne.MenuItem
	callbacks   Callbacks
	use24Hour   bool
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks, use24Hour bool) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		use24Hour: use24Hour,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.clockItem = fyne.NewMenuItem("24-hour clock", func() {
		manager.use24Hour = !manager.use24Hour
		manager.clockItem.Checked = manager.use24Hour
		if manager.callbacks.OnToggle24Hour != nil {
			manager.callbacks.OnToggle24Hour(manager.use24Hour)
		}
		manager.refreshMenu()
	})
	manager.clockItem.Checked = use24Hour

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

// Set24Hour syncs the clock toggle with saved settings.
func (manager *Manager) Set24Hour(enabled bool) {
	manager.use24Hour = enabled
	manager.clockItem.Checked = enabled
	manager.refreshMenu()
}

// Menu returns the menu currently installed in the tray.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItem("Show watch", manager.call(manager.callbacks.OnShowWatch)),
		fyne.NewMenuItem("Refresh weather now", manager.call(manager.callbacks.OnRefreshWeather)),
		manager.clockItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", manager.call(manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", manager.call(manager.callbacks.OnQuit)),
	)
}

func (manager *Manager) call(callback func()) func() {
	return func() {
		if callback != nil {
			callback()
		}
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}
