package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"watchface/internal/appmsg"
	"watchface/internal/bridge"
	"watchface/internal/companion"
	"watchface/internal/config"
	"watchface/internal/core/clock"
	"watchface/internal/core/face"
	"watchface/internal/core/loop"
	"watchface/internal/core/power"
	"watchface/internal/platform"
	"watchface/internal/render"
	"watchface/internal/storage"
	"watchface/internal/ui/preferences"
	"watchface/resources"
)

const appName = "watchface"

type hostFlags struct {
	headless bool
	snapshot string
	epaper   bool
	envFile  string
}

// launchArgs repeats the output flags so a login launch runs the same way.
func (flags hostFlags) launchArgs() []string {
	var args []string
	if flags.headless {
		args = append(args, "-headless")
	}
	if flags.snapshot != "" {
		args = append(args, "-snapshot", flags.snapshot)
	}
	if flags.epaper {
		args = append(args, "-epaper")
	}
	if flags.envFile != "" {
		args = append(args, "-env", flags.envFile)
	}
	return args
}

func main() {
	var flags hostFlags
	flag.BoolVar(&flags.headless, "headless", false, "run without the desktop window and tray")
	flag.StringVar(&flags.snapshot, "snapshot", "", "write every rendered frame to this PNG file")
	flag.BoolVar(&flags.epaper, "epaper", false, "push frames to a Waveshare 2.13\" v4 e-paper HAT")
	flag.StringVar(&flags.envFile, "env", "", "load environment overrides from this file instead of ./.env")
	flag.Parse()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) && !flags.headless {
			if err := platform.ActivateRunning(appName); err != nil {
				log.Printf("single instance: %v", err)
			}
		}
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	envFiles := []string{}
	if flags.envFile != "" {
		envFiles = append(envFiles, flags.envFile)
	}
	if err := config.LoadDotEnv(envFiles...); err != nil {
		log.Printf("config: %v", err)
	}

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		log.Printf("settings: %v", err)
	}
	settings, err = config.Apply(settings)
	if err != nil {
		log.Printf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := newHost(settings, log.Default())
	host.launchArgs = flags.launchArgs()
	defer host.close()

	var displays render.Multi
	if flags.headless || flags.snapshot != "" || flags.epaper {
		displays = append(displays, host.openBitmap(flags))
	}

	if flags.headless {
		host.start(ctx, displays)
		log.Printf("watchface running headless")
		<-ctx.Done()
		return
	}

	runDesktop(ctx, stop, host, guard, displays)
}

// watchHost holds everything that runs the face independent of the UI.
type watchHost struct {
	settings  preferences.Settings
	logger    *log.Logger
	events    *loop.Loop
	watchEnd  *appmsg.Endpoint
	phoneEnd  *appmsg.Endpoint
	style     *clock.Style
	clock     *clock.Clock
	battery   *power.Monitor
	companion *companion.Companion
	autostart platform.Service
	// launchArgs are passed to the login entry written by apply.
	launchArgs []string
	closers    []func()
}

func newHost(settings preferences.Settings, logger *log.Logger) *watchHost {
	events := loop.New(64)
	watchEnd, phoneEnd := appmsg.NewPipe(appmsg.DefaultConfig())
	return &watchHost{
		settings:  settings,
		logger:    logger,
		events:    events,
		watchEnd:  watchEnd,
		phoneEnd:  phoneEnd,
		style:     clock.NewStyle(settings.Clock24h),
		clock:     clock.New(clock.Config{Location: time.Local}, events),
		battery:   power.NewMonitor(platform.NewBatteryProvider(), power.Config{}, events),
		autostart: platform.NewService(),
	}
}

func (host *watchHost) openBitmap(flags hostFlags) *render.Bitmap {
	background, err := resources.BackgroundImage(resources.BackgroundFile)
	if err != nil {
		host.logger.Printf("render: %v", err)
	}
	bitmap := render.NewBitmap(background)
	if flags.snapshot != "" {
		bitmap.AddSink(render.PNGSink(flags.snapshot))
	}
	if flags.epaper {
		paper, err := render.OpenEPaper(host.logger)
		if err != nil {
			host.logger.Printf("render: e-paper disabled: %v", err)
		} else {
			bitmap.AddSink(paper.Push)
			host.closers = append(host.closers, func() {
				if err := paper.Close(); err != nil {
					host.logger.Printf("render: close e-paper: %v", err)
				}
			})
		}
	}
	return bitmap
}

// start wires the face to display and starts every producer.
func (host *watchHost) start(ctx context.Context, display face.Display) {
	watchFace := face.New(face.Options{
		Config:  host.settings.FaceConfig(),
		Display: display,
		Outbox:  host.watchEnd,
		Style:   host.style,
		Logger:  host.logger,
	})
	watchFace.Register(host.events)
	if err := host.watchEnd.Open(host.events); err != nil {
		host.logger.Printf("appmsg: %v", err)
	}

	host.startCompanion(ctx)

	go func() {
		if err := host.events.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			host.logger.Printf("loop: %v", err)
		}
	}()

	if err := host.clock.Start(); err != nil {
		host.logger.Printf("clock: %v", err)
	}
	host.closers = append(host.closers, host.clock.Stop)

	// The startup tick already polls on a poll minute.
	if host.settings.RequestOnStart && host.clock.Now().Minute()%host.settings.FaceConfig().PollMinutes != 0 {
		host.requestWeather()
	}

	charge, err := host.battery.Peek()
	switch {
	case err == nil:
		host.events.Post(loop.Event{Kind: loop.KindBattery, Payload: charge})
	case errors.Is(err, power.ErrUnsupported):
		host.logger.Printf("battery: %v", err)
	default:
		host.logger.Printf("battery: peek failed: %v", err)
	}
	host.battery.Start()
	host.closers = append(host.closers, host.battery.Stop)
}

func (host *watchHost) startCompanion(ctx context.Context) {
	if host.settings.Provider == preferences.ProviderBridge {
		messageBridge := bridge.New(host.phoneEnd, host.logger)
		if err := messageBridge.Open(); err != nil {
			host.logger.Printf("bridge: %v", err)
		}
		go func() {
			if err := messageBridge.Run(ctx, host.settings.BridgeAddr); err != nil {
				host.logger.Printf("bridge: %v", err)
			}
		}()
		host.logger.Printf("bridge: listening on %s", host.settings.BridgeAddr)
		return
	}

	var provider companion.Provider
	switch host.settings.Provider {
	case preferences.ProviderStatic:
		provider = companion.StaticProvider{Reading: companion.Reading{TemperatureF: 72, Conditions: "Clear"}}
	default:
		provider = companion.NewOpenMeteoProvider(companion.DefaultHTTPClientConfig(), "")
	}
	host.companion = companion.New(host.phoneEnd, provider, companion.Config{
		Location: host.settings.Location(),
	}, host.logger)
	if err := host.companion.Open(); err != nil {
		host.logger.Printf("companion: %v", err)
	}
	go func() {
		if err := host.companion.Run(ctx); err != nil {
			host.logger.Printf("companion: %v", err)
		}
	}()
}

// apply pushes saved settings into the running producers.
func (host *watchHost) apply(settings preferences.Settings) {
	previous := host.settings
	host.settings = settings

	host.style.Set24Hour(settings.Clock24h)
	host.events.Post(loop.Event{Kind: loop.KindConfigChanged, Payload: settings.FaceConfig()})
	if host.companion != nil {
		host.companion.SetLocation(settings.Location())
	}
	if settings.Provider != previous.Provider || settings.BridgeAddr != previous.BridgeAddr {
		host.logger.Printf("settings: weather source change applies after restart")
	}
	if settings.StartAtLogin != previous.StartAtLogin {
		if err := platform.SetAutostart(host.autostart, appName, settings.StartAtLogin, host.launchArgs...); err != nil {
			host.logger.Printf("autostart: %v", err)
		}
	}
}

func (host *watchHost) requestWeather() {
	host.events.Post(loop.Event{Kind: loop.KindWeatherRequest})
}

func (host *watchHost) close() {
	for i := len(host.closers) - 1; i >= 0; i-- {
		host.closers[i]()
	}
}
