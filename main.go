package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"golang.org/x/sync/errgroup"

	"github.com/smazurov/videodev/cmd"
	"github.com/smazurov/videodev/internal/api"
	"github.com/smazurov/videodev/internal/config"
	"github.com/smazurov/videodev/internal/devices"
	"github.com/smazurov/videodev/internal/events"
	"github.com/smazurov/videodev/internal/logging"
	"github.com/smazurov/videodev/internal/metrics/exporters"
	"github.com/smazurov/videodev/internal/systemd"
	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

// Options for the server - flat structure with toml mapping.
type Options struct {
	Config string `doc:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `doc:"Address to listen on" short:"p" default:":8091" toml:"server.port" env:"SERVER_PORT"`

	// Auth settings
	AuthUsername string `doc:"Basic auth username, empty disables auth" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `doc:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Device settings
	DevicesBufferType    string `doc:"Buffer type devices are probed for" default:"capture" toml:"devices.buffer_type" env:"DEVICES_BUFFER_TYPE"`
	DevicesHotplug       bool   `doc:"Re-probe devices on udev hotplug events" default:"true" toml:"devices.hotplug" env:"DEVICES_HOTPLUG"`
	DevicesSettleDelayMs int    `doc:"Delay after a hotplug event before re-probing, in milliseconds" default:"500" toml:"devices.settle_delay_ms" env:"DEVICES_SETTLE_DELAY_MS"`

	// Metrics settings
	MetricsEnabled bool `doc:"Serve Prometheus metrics at /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// Logging settings
	LoggingLevel   string `doc:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `doc:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingJournal bool   `doc:"Also log to the systemd journal when available" default:"false" toml:"logging.journal" env:"LOGGING_JOURNAL"`
	LoggingDevices string `doc:"Devices logging level" default:"" toml:"logging.devices" env:"LOGGING_DEVICES"`
	LoggingV4L2    string `doc:"V4L2 logging level" default:"" toml:"logging.v4l2" env:"LOGGING_V4L2"`
	LoggingAPI     string `doc:"API logging level" default:"" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `doc:"HTTP request logging level" default:"" toml:"logging.http" env:"LOGGING_HTTP"`
}

func (o *Options) loggingConfig() logging.Config {
	modules := map[string]string{}
	for module, level := range map[string]string{
		"devices": o.LoggingDevices,
		"v4l2":    o.LoggingV4L2,
		"api":     o.LoggingAPI,
		"http":    o.LoggingHTTP,
	} {
		if level != "" {
			modules[module] = level
		}
	}
	return logging.Config{
		Level:   o.LoggingLevel,
		Format:  o.LoggingFormat,
		Journal: o.LoggingJournal,
		Modules: modules,
	}
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		configErr := config.LoadConfig(opts, cli.Root())

		logging.Initialize(opts.loggingConfig())
		logger := logging.GetLogger("main")
		if configErr != nil {
			logger.Warn("Failed to load config", "error", configErr)
		}

		bufType, err := v4l2.ParseBufType(opts.DevicesBufferType)
		if err != nil {
			logger.Error("Invalid buffer type", "error", err)
			os.Exit(1)
		}

		eventBus := events.New()
		registry := devices.NewRegistry(
			devices.WithBus(eventBus),
			devices.WithBufType(bufType),
			devices.WithSettleDelay(time.Duration(opts.DevicesSettleDelayMs)*time.Millisecond),
		)

		apiOpts := &api.Options{
			AuthUsername: opts.AuthUsername,
			AuthPassword: opts.AuthPassword,
			Registry:     registry,
			EventBus:     eventBus,
			OpenOptions:  []v4l2.OpenOption{v4l2.WithLogger(logging.GetLogger("v4l2"))},
		}
		if opts.MetricsEnabled {
			apiOpts.MetricsHandler = exporters.HTTPHandler()
		}
		server := api.NewServer(apiOpts)

		// Logging levels follow the config file without a restart.
		watcher := config.NewConfigWatcher(opts.Config, config.ReadLoggingConfig, logging.GetLogger("config"),
			config.WithErrorHandler[logging.Config](func(err error) {
				logger.Warn("Ignoring invalid logging config", "error", err)
			}))
		watcher.OnReload(func(cfg logging.Config) {
			logger.Info("Logging levels reloaded", "level", cfg.Level, "modules", cfg.Modules)
			logging.SetLevels(cfg.Level, cfg.Modules)
		})

		notifier := systemd.NewNotifier(logging.GetLogger("systemd"))
		unsubscribe := eventBus.Subscribe(func(e events.RegistryRefreshedEvent) {
			notifier.Status(e.Devices)
		})

		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			defer cancel()

			if _, err := registry.Refresh(ctx); err != nil {
				logger.Warn("Initial device scan failed", "error", err)
			}

			if err := watcher.Start(ctx); err != nil {
				logger.Warn("Config file watching disabled", "path", opts.Config, "error", err)
			}
			notifier.Ready(len(registry.List()))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.Start(opts.Port)
			})
			if opts.DevicesHotplug {
				g.Go(func() error {
					err := registry.WatchHotplug(gctx)
					var re *devices.RegistryError
					if errors.As(err, &re) && re.Code == devices.ErrCodeHotplugUnavailable {
						logger.Warn("Hotplug monitoring unavailable, use POST /api/devices/refresh", "error", err)
						return nil
					}
					return err
				})
			}
			g.Go(func() error {
				<-gctx.Done()
				stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer stopCancel()
				return server.Stop(stopCtx)
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Server failed", "error", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			notifier.Stopping()
			unsubscribe()
			cancel()
			if err := watcher.Stop(); err != nil {
				logger.Warn("Error stopping config watcher", "error", err)
			}
		})
	})

	root := cli.Root()
	root.Use = "videodev"
	root.Short = "Inventory and inspect V4L2 video devices"
	root.AddCommand(
		cmd.CreateListCmd(),
		cmd.CreateInfoCmd(),
		cmd.CreateIntervalsCmd(),
		cmd.CreateFPSCmd(),
		cmd.CreateCtrlCmd(),
		cmd.CreateFormatCmd(),
		cmd.CreateWatchCmd(),
		cmd.CreateVersionCmd(),
	)

	cli.Run()
}
