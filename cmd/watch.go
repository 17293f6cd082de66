package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/smazurov/videodev/internal/devices"
	"github.com/smazurov/videodev/internal/events"
)

// hotplugWatcher is replaced in tests.
var hotplugWatcher = func(ctx context.Context, reg *devices.Registry) error {
	return reg.WatchHotplug(ctx)
}

// CreateWatchCmd creates the watch command.
func CreateWatchCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print device events as video nodes come and go",
		Long: "Probes every device once, then listens for udev hotplug events and prints the " +
			"resulting discovery and probe events until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bt, err := setup(cmd, &opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			bus := events.New()
			ch := make(chan events.Event, 64)
			unsubscribers := []func(){
				events.SubscribeToChannel[events.DeviceDiscoveryEvent](bus, ch),
				events.SubscribeToChannel[events.DeviceProbedEvent](bus, ch),
				events.SubscribeToChannel[events.DeviceProbeFailedEvent](bus, ch),
			}
			defer func() {
				for _, unsub := range unsubscribers {
					unsub()
				}
			}()

			reg := newRegistry(bt, devices.WithBus(bus))
			if _, err := reg.Refresh(ctx); err != nil {
				return err
			}

			errc := make(chan error, 1)
			go func() { errc <- hotplugWatcher(ctx, reg) }()

			out := cmd.OutOrStdout()
			for {
				select {
				case e := <-ch:
					if err := printEvent(out, e, opts.JSON); err != nil {
						return err
					}
				case err := <-errc:
					return err
				}
			}
		},
	}
	addCommonFlags(cmd, &opts)
	return cmd
}

func printEvent(w io.Writer, e events.Event, asJSON bool) error {
	if asJSON {
		return writeJSON(w, e)
	}

	var err error
	switch ev := e.(type) {
	case events.DeviceDiscoveryEvent:
		_, err = fmt.Fprintf(w, "%s %-8s %s %s\n", ev.Timestamp.Format(time.TimeOnly), ev.Action, ev.DevicePath, ev.DeviceID)
	case events.DeviceProbedEvent:
		_, err = fmt.Fprintf(w, "%s %-8s %s %s (%s, %d formats, %s)\n", ev.Timestamp.Format(time.TimeOnly), "probed",
			ev.DevicePath, ev.Card, ev.Driver, ev.Formats, ev.Duration.Round(time.Microsecond))
	case events.DeviceProbeFailedEvent:
		_, err = fmt.Fprintf(w, "%s %-8s %s %s\n", ev.Timestamp.Format(time.TimeOnly), "failed", ev.DevicePath, ev.Error)
	}
	return err
}
