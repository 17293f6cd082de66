package devices

import (
	"context"
	"errors"
	"time"

	"github.com/smazurov/videodev/internal/events"
	"github.com/smazurov/videodev/internal/metrics"
	"github.com/smazurov/videodev/pkg/linuxav/hotplug"
)

// Monitor delivers hotplug events until ctx is done, closing out on return.
type Monitor interface {
	Run(ctx context.Context, out chan<- hotplug.Event) error
}

// WatchHotplug listens on the udev netlink group for video4linux events and
// keeps the registry current. It blocks until ctx is done.
func (r *Registry) WatchHotplug(ctx context.Context) error {
	mon, err := hotplug.NewMonitor(hotplug.GroupUdev)
	if err != nil {
		return newRegistryError(ErrCodeHotplugUnavailable, "failed to open hotplug monitor", err)
	}
	defer mon.Close()
	mon.AddSubsystemFilter(hotplug.SubsystemVideo4Linux)
	return r.Watch(ctx, mon)
}

// Watch consumes events from mon. Add and remove events of video nodes
// trigger a Refresh once the settle delay passes without further events;
// change events re-probe the affected node.
func (r *Registry) Watch(ctx context.Context, mon Monitor) error {
	ch := make(chan hotplug.Event, 16)
	errc := make(chan error, 1)
	go func() { errc <- mon.Run(ctx, ch) }()

	timer := time.NewTimer(r.settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				err := <-errc
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				return err
			}
			if !ev.IsVideoNode() {
				continue
			}
			metrics.IncHotplugEvent(string(ev.Action))
			r.logger.Debug("Hotplug event", "action", ev.Action, "node", ev.DeviceNode())

			switch ev.Action {
			case hotplug.ActionAdd, hotplug.ActionRemove:
				timer.Reset(r.settle)
			case hotplug.ActionChange:
				if _, err := r.Get(ev.DeviceNode()); err != nil {
					continue
				}
				report, err := r.Probe(ev.DeviceNode())
				if err != nil {
					r.logger.Warn("Re-probe after change failed", "node", ev.DeviceNode(), "error", err)
				}
				r.publish(events.DeviceDiscoveryEvent{
					DevicePath: ev.DeviceNode(),
					DeviceID:   report.DeviceID,
					Action:     events.ActionChanged,
					Timestamp:  time.Now(),
				})
			}
		case <-timer.C:
			if _, err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("Refresh after hotplug failed", "error", err)
			}
		}
	}
}
