//go:build !linux

package hotplug

import (
	"context"
	"errors"
)

// Netlink multicast groups of NETLINK_KOBJECT_UEVENT.
const (
	GroupKernel = 1
	GroupUdev   = 2
)

// ErrUnsupportedPlatform is returned by NewMonitor outside Linux.
var ErrUnsupportedPlatform = errors.New("hotplug monitoring is only available on linux")

// Monitor is unavailable on this platform.
type Monitor struct {
	filter subsystemFilter
}

// NewMonitor always fails on this platform.
func NewMonitor(uint32) (*Monitor, error) {
	return nil, ErrUnsupportedPlatform
}

// AddSubsystemFilter restricts delivered events to the given subsystems.
func (m *Monitor) AddSubsystemFilter(subsystem string) {
	m.filter.add(subsystem)
}

// Close is a no-op.
func (m *Monitor) Close() error { return nil }

// Run returns ErrUnsupportedPlatform.
func (m *Monitor) Run(_ context.Context, events chan<- Event) error {
	close(events)
	return ErrUnsupportedPlatform
}
