// Package devices keeps an inventory of the V4L2 nodes on the host, probing
// each through the v4l2 package and tracking hotplug changes.
package devices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/smazurov/videodev/internal/events"
	"github.com/smazurov/videodev/internal/logging"
	"github.com/smazurov/videodev/internal/metrics"
	"github.com/smazurov/videodev/pkg/linuxav/v4l2"
)

// Finder lists the device nodes present on the system.
type Finder interface {
	FindDevices() ([]v4l2.DeviceInfo, error)
}

// FinderFunc adapts a function to Finder.
type FinderFunc func() ([]v4l2.DeviceInfo, error)

// FindDevices calls f.
func (f FinderFunc) FindDevices() ([]v4l2.DeviceInfo, error) { return f() }

// Prober opens a node for a buffer type and snapshots it.
type Prober interface {
	Probe(info v4l2.DeviceInfo, bt v4l2.BufType) (Report, error)
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(info v4l2.DeviceInfo, bt v4l2.BufType) (Report, error)

// Probe calls f.
func (f ProberFunc) Probe(info v4l2.DeviceInfo, bt v4l2.BufType) (Report, error) {
	return f(info, bt)
}

// Opener probes devices through v4l2.Open.
type Opener struct {
	Options []v4l2.OpenOption
}

// Probe opens the node, snapshots it, and closes it again.
func (o Opener) Probe(info v4l2.DeviceInfo, bt v4l2.BufType) (Report, error) {
	dev, err := v4l2.Open(info.DevicePath, bt, o.Options...)
	if err != nil {
		return Report{}, err
	}
	defer dev.Close()
	return NewReport(dev, info.DeviceID, time.Now()), nil
}

// Registry holds the last known state of every device node.
type Registry struct {
	finder  Finder
	prober  Prober
	bus     *events.Bus
	bufType v4l2.BufType
	settle  time.Duration
	logger  *slog.Logger

	refreshMu sync.Mutex
	mu        sync.RWMutex
	devices   map[string]Report
}

// Option configures a Registry.
type Option func(*Registry)

// WithFinder replaces the device enumerator.
func WithFinder(f Finder) Option {
	return func(r *Registry) { r.finder = f }
}

// WithProber replaces the device prober.
func WithProber(p Prober) Option {
	return func(r *Registry) { r.prober = p }
}

// WithBus publishes registry events on bus.
func WithBus(bus *events.Bus) Option {
	return func(r *Registry) { r.bus = bus }
}

// WithBufType sets the buffer type devices are probed for.
func WithBufType(bt v4l2.BufType) Option {
	return func(r *Registry) { r.bufType = bt }
}

// WithSettleDelay sets how long Watch waits after a hotplug event before
// refreshing, so udev can finish creating links.
func WithSettleDelay(d time.Duration) Option {
	return func(r *Registry) { r.settle = d }
}

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry returns an empty registry. Call Refresh to populate it.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		finder:  FinderFunc(v4l2.FindDevices),
		bufType: v4l2.BufTypeVideoCapture,
		settle:  500 * time.Millisecond,
		devices: make(map[string]Report),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.GetLogger("devices")
	}
	if r.prober == nil {
		r.prober = Opener{Options: []v4l2.OpenOption{v4l2.WithLogger(logging.GetLogger("v4l2"))}}
	}
	return r
}

// BufType returns the buffer type devices are probed for.
func (r *Registry) BufType() v4l2.BufType {
	return r.bufType
}

// Refresh enumerates devices, probes each one, and replaces the registry
// contents. A device that fails to probe is kept with its error recorded.
// Only an enumeration failure is returned.
func (r *Registry) Refresh(ctx context.Context) ([]Report, error) {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	infos, err := r.finder.FindDevices()
	if err != nil {
		return nil, newRegistryError(ErrCodeEnumerationFailed, "failed to enumerate devices", err)
	}

	next := make(map[string]Report, len(infos))
	failed := 0
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report := r.probe(info)
		if !report.OK() {
			failed++
		}
		next[info.DevicePath] = report
	}

	r.mu.Lock()
	prev := r.devices
	r.devices = next
	r.mu.Unlock()

	now := time.Now()
	for path, report := range next {
		if _, ok := prev[path]; !ok {
			r.logger.Info("Device added", "path", path, "card", report.Card)
			r.publish(events.DeviceDiscoveryEvent{
				DevicePath: path,
				DeviceID:   report.DeviceID,
				Action:     events.ActionAdded,
				Timestamp:  now,
			})
		}
	}
	for path, report := range prev {
		if _, ok := next[path]; !ok {
			r.logger.Info("Device removed", "path", path)
			metrics.DeleteDevice(path)
			r.publish(events.DeviceDiscoveryEvent{
				DevicePath: path,
				DeviceID:   report.DeviceID,
				Action:     events.ActionRemoved,
				Timestamp:  now,
			})
		}
	}

	metrics.SetDeviceCount(len(next))
	r.publish(events.RegistryRefreshedEvent{Devices: len(next), Failed: failed, Timestamp: now})
	r.logger.Debug("Registry refreshed", "devices", len(next), "failed", failed)

	return r.List(), nil
}

// Probe re-probes a single device and updates its entry.
func (r *Registry) Probe(ref string) (Report, error) {
	info, err := r.resolve(ref)
	if err != nil {
		return Report{}, err
	}
	path := info.DevicePath

	r.mu.RLock()
	existing, known := r.devices[path]
	r.mu.RUnlock()

	if known {
		info.DeviceID = existing.DeviceID
		info.DeviceName = existing.Card
		info.Driver = existing.Driver
		info.BusInfo = existing.BusInfo
	}

	report := r.probe(info)
	r.mu.Lock()
	r.devices[path] = report
	r.mu.Unlock()

	if !report.OK() {
		return report, newRegistryError(ErrCodeProbeFailed, fmt.Sprintf("failed to probe %s", path), errors.New(report.Error))
	}
	return report, nil
}

func (r *Registry) probe(info v4l2.DeviceInfo) Report {
	start := time.Now()
	report, err := r.prober.Probe(info, r.bufType)
	elapsed := time.Since(start)

	if err != nil {
		report = failedReport(info, r.bufType, err, start)
		result := metrics.ProbeFailed
		if report.NotCapable {
			result = metrics.ProbeNotCapable
			r.logger.Debug("Device lacks buffer type", "path", info.DevicePath, "buffer_type", r.bufType.String())
		} else {
			r.logger.Warn("Device probe failed", "path", info.DevicePath, "error", err)
		}
		metrics.ObserveProbe(result, elapsed)
		metrics.DeleteDevice(info.DevicePath)
		r.publish(events.DeviceProbeFailedEvent{
			DevicePath: info.DevicePath,
			Error:      err.Error(),
			NotCapable: report.NotCapable,
			Timestamp:  start,
		})
		return report
	}

	if report.DeviceID == "" {
		report.DeviceID = info.DeviceID
	}
	metrics.ObserveProbe(metrics.ProbeOK, elapsed)
	metrics.SetDevice(report.Path, report.Driver, report.Card, len(report.Formats))
	r.publish(events.DeviceProbedEvent{
		DevicePath: report.Path,
		Card:       report.Card,
		Driver:     report.Driver,
		Formats:    len(report.Formats),
		Duration:   elapsed,
		Timestamp:  start,
	})
	return report
}

// List returns every known device sorted by path.
func (r *Registry) List() []Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := slices.Sorted(maps.Keys(r.devices))
	out := make([]Report, 0, len(paths))
	for _, p := range paths {
		out = append(out, r.devices[p])
	}
	return out
}

// Get returns the device at path.
func (r *Registry) Get(path string) (Report, error) {
	r.mu.RLock()
	report, ok := r.devices[path]
	r.mu.RUnlock()
	if !ok {
		return Report{}, newRegistryError(ErrCodeDeviceNotFound, fmt.Sprintf("device %s not found", path), nil)
	}
	return report, nil
}

// Lookup finds a device by path, node name, or stable identifier.
func (r *Registry) Lookup(ref string) (Report, error) {
	info, err := r.resolve(ref)
	if err != nil {
		return Report{}, err
	}
	return r.Get(info.DevicePath)
}

// resolve matches ref against the inventory, then device nodes and v4l
// links, then the stable ids of a fresh enumeration. The last step finds
// synthetic ids of devices udev gave no by-id link.
func (r *Registry) resolve(ref string) (v4l2.DeviceInfo, error) {
	r.mu.RLock()
	for path, report := range r.devices {
		if ref == path || ref == filepath.Base(path) || (report.DeviceID != "" && ref == report.DeviceID) {
			r.mu.RUnlock()
			return v4l2.DeviceInfo{DevicePath: path}, nil
		}
	}
	r.mu.RUnlock()

	path, err := ResolveDevicePath(ref)
	if err == nil {
		return v4l2.DeviceInfo{DevicePath: path}, nil
	}
	infos, ferr := r.finder.FindDevices()
	if ferr != nil {
		r.logger.Debug("Enumeration during lookup failed", "ref", ref, "error", ferr)
		return v4l2.DeviceInfo{}, err
	}
	if info, ok := v4l2.DeviceByID(infos, ref); ok {
		return info, nil
	}
	return v4l2.DeviceInfo{}, err
}

func (r *Registry) publish(e events.Event) {
	if r.bus != nil {
		r.bus.Publish(e)
	}
}
