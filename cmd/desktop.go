package main

import (
	"context"
	"fmt"
	"log"

	"watchface/internal/platform"
	"watchface/internal/render"
	"watchface/internal/storage"
	"watchface/internal/ui/preferences"
	"watchface/internal/ui/tray"
	"watchface/internal/ui/watch"
	"watchface/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

func runDesktop(ctx context.Context, stop context.CancelFunc, host *watchHost, guard *platform.InstanceGuard, displays render.Multi) {
	fyneApp := app.NewWithID("com.watchface.app")
	icon := resources.MustLogo(resources.IconFile)
	fyneApp.SetIcon(icon)

	watchWindow := watch.New(fyneApp, watch.Config{Title: "Watchface"})
	host.start(ctx, append(render.Multi{watchWindow}, displays...))

	go guard.Serve(func() {
		fyne.Do(watchWindow.Show)
	})

	var trayManager *tray.Manager
	prefsWindow := preferences.New(fyneApp, host.settings, func(updated preferences.Settings) {
		saveSettings(host, updated)
		if trayManager != nil {
			trayManager.Set24Hour(updated.Clock24h)
			trayManager.SetStatus(statusLine(updated))
		}
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShowWatch:      watchWindow.Show,
			OnPreferences:    prefsWindow.Show,
			OnRefreshWeather: host.requestWeather,
			OnToggle24Hour: func(enabled bool) {
				settings := host.settings
				settings.Clock24h = enabled
				saveSettings(host, settings)
				prefsWindow.UpdateSettings(settings)
			},
			OnQuit: func() {
				stop()
				fyneApp.Quit()
			},
		}, host.settings.Clock24h)
		trayManager.SetStatus(statusLine(host.settings))
		desktopApp.SetSystemTrayIcon(icon)
	} else {
		log.Printf("system tray unsupported on this platform")
	}

	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	watchWindow.Show()
	fyneApp.Run()
}

func saveSettings(host *watchHost, settings preferences.Settings) {
	if err := storage.SaveSettings(appName, settings); err != nil {
		log.Printf("settings: %v", err)
	}
	host.apply(settings)
}

func statusLine(settings preferences.Settings) string {
	return fmt.Sprintf("%s, every %d min", settings.Provider, settings.FaceConfig().PollMinutes)
}
