package main

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchface/internal/core/clock"
	"watchface/internal/core/face"
	"watchface/internal/platform"
	"watchface/internal/render"
	"watchface/internal/ui/preferences"
)

// startHeadless starts a host whose clock always reads at.
func startHeadless(t *testing.T, settings preferences.Settings, at time.Time) (*watchHost, *render.Bitmap) {
	t.Helper()
	host := newHost(settings, log.New(io.Discard, "", 0))
	host.clock = clock.New(clock.Config{
		Location: time.Local,
		Now:      func() time.Time { return at },
	}, host.events)
	bitmap := render.NewBitmap(nil)

	ctx, cancel := context.WithCancel(context.Background())
	host.start(ctx, bitmap)
	t.Cleanup(func() {
		cancel()
		host.close()
	})
	return host, bitmap
}

func staticSettings() preferences.Settings {
	settings := preferences.DefaultSettings()
	settings.Provider = preferences.ProviderStatic
	settings.Clock24h = true
	return settings
}

func TestHeadlessHostPollsOnStartupTick(t *testing.T) {
	at := time.Date(2026, time.October, 19, 10, 30, 0, 0, time.Local)
	_, bitmap := startHeadless(t, staticSettings(), at)

	require.Eventually(t, func() bool {
		return bitmap.Text(render.RegionTime) == "10:30"
	}, 2*time.Second, 10*time.Millisecond)
	assert.NotEmpty(t, bitmap.Text(render.RegionDate))

	require.Eventually(t, func() bool {
		return bitmap.Text(render.RegionWeather) == "72F, Clear"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHeadlessHostWaitsForPollMinute(t *testing.T) {
	at := time.Date(2026, time.October, 19, 10, 17, 0, 0, time.Local)
	_, bitmap := startHeadless(t, staticSettings(), at)

	require.Eventually(t, func() bool {
		return bitmap.Text(render.RegionTime) == "10:17"
	}, 2*time.Second, 10*time.Millisecond)
	require.Never(t, func() bool {
		return bitmap.Text(render.RegionWeather) != face.LoadingText
	}, 200*time.Millisecond, 10*time.Millisecond)
}

func TestHeadlessHostRequestsOnStart(t *testing.T) {
	settings := staticSettings()
	settings.RequestOnStart = true
	at := time.Date(2026, time.October, 19, 10, 17, 0, 0, time.Local)
	_, bitmap := startHeadless(t, settings, at)

	require.Eventually(t, func() bool {
		return bitmap.Text(render.RegionWeather) == "72F, Clear"
	}, 2*time.Second, 10*time.Millisecond)
}

type recordingAutostart struct {
	enabled  []platform.LaunchEntry
	disabled []string
}

func (service *recordingAutostart) GetConfigDir() (string, error) { return "", nil }

func (service *recordingAutostart) EnableAutostart(entry platform.LaunchEntry) error {
	service.enabled = append(service.enabled, entry)
	return nil
}

func (service *recordingAutostart) DisableAutostart(name string) error {
	service.disabled = append(service.disabled, name)
	return nil
}

func TestApplyPassesLaunchFlagsToAutostart(t *testing.T) {
	service := &recordingAutostart{}
	host := newHost(preferences.DefaultSettings(), log.New(io.Discard, "", 0))
	host.autostart = service
	host.launchArgs = hostFlags{headless: true, snapshot: "/tmp/face.png"}.launchArgs()

	updated := host.settings
	updated.StartAtLogin = true
	host.apply(updated)

	require.Len(t, service.enabled, 1)
	assert.Equal(t, appName, service.enabled[0].Name)
	assert.Equal(t, []string{"-headless", "-snapshot", "/tmp/face.png"}, service.enabled[0].Args)

	updated.StartAtLogin = false
	host.apply(updated)
	assert.Equal(t, []string{appName}, service.disabled)
}

func TestLaunchArgs(t *testing.T) {
	assert.Empty(t, hostFlags{}.launchArgs())
	assert.Equal(t, []string{"-epaper", "-env", "watch.env"}, hostFlags{epaper: true, envFile: "watch.env"}.launchArgs())
}

func TestApplyUpdatesClockStyle(t *testing.T) {
	host := newHost(preferences.DefaultSettings(), log.New(io.Discard, "", 0))
	assert.False(t, host.style.Is24Hour())

	updated := host.settings
	updated.Clock24h = true
	host.apply(updated)

	assert.True(t, host.style.Is24Hour())
	assert.Equal(t, updated, host.settings)
}

func TestStatusLine(t *testing.T) {
	settings := preferences.DefaultSettings()
	assert.Equal(t, "open-meteo, every 30 min", statusLine(settings))
}
