// Package metrics holds the Prometheus metrics for device discovery and
// probing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Probe results.
const (
	ProbeOK         = "ok"
	ProbeFailed     = "failed"
	ProbeNotCapable = "not_capable"
)

var (
	deviceProbes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "videodev",
		Subsystem: "device",
		Name:      "probes_total",
		Help:      "Device probes by result",
	}, []string{"result"})

	deviceProbeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "videodev",
		Subsystem: "device",
		Name:      "probe_duration_seconds",
		Help:      "Time spent opening and querying a device",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	devicesPresent = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "videodev",
		Name:      "devices",
		Help:      "Video devices currently in the registry",
	})

	deviceFormats = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "videodev",
		Subsystem: "device",
		Name:      "formats",
		Help:      "Formats in the device catalog",
	}, []string{"device"})

	deviceInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "videodev",
		Subsystem: "device",
		Name:      "info",
		Help:      "Identity of a probed device, always 1",
	}, []string{"device", "driver", "card"})

	hotplugEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "videodev",
		Subsystem: "hotplug",
		Name:      "events_total",
		Help:      "Video node hotplug events by action",
	}, []string{"action"})
)

// ObserveProbe records one probe and its duration.
func ObserveProbe(result string, d time.Duration) {
	deviceProbes.WithLabelValues(result).Inc()
	deviceProbeDuration.Observe(d.Seconds())
}

// SetDeviceCount sets the number of devices in the registry.
func SetDeviceCount(n int) {
	devicesPresent.Set(float64(n))
}

// SetDevice records the identity and format count of a probed device.
func SetDevice(path, driver, card string, formats int) {
	deviceInfo.DeletePartialMatch(prometheus.Labels{"device": path})
	deviceInfo.WithLabelValues(path, driver, card).Set(1)
	deviceFormats.WithLabelValues(path).Set(float64(formats))
}

// DeleteDevice removes all per-device series for path.
func DeleteDevice(path string) {
	deviceInfo.DeletePartialMatch(prometheus.Labels{"device": path})
	deviceFormats.DeleteLabelValues(path)
}

// IncHotplugEvent counts a hotplug event.
func IncHotplugEvent(action string) {
	hotplugEvents.WithLabelValues(action).Inc()
}
