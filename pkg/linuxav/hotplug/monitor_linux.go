//go:build linux

package hotplug

import (
	"context"
	"errors"

	"golang.org/x/sys/unix"
)

// Netlink multicast groups of NETLINK_KOBJECT_UEVENT.
const (
	GroupKernel = 1
	GroupUdev   = 2
)

const pollInterval = 1000 // ms

// Monitor receives uevents from a netlink socket.
type Monitor struct {
	fd     int
	filter subsystemFilter
}

// NewMonitor opens a netlink socket bound to group. Kernel events arrive as
// soon as the node exists; udev events arrive after rules have run and the
// /dev/v4l symlinks are in place.
func NewMonitor(group uint32) (*Monitor, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK, unix.NETLINK_KOBJECT_UEVENT)
	if err != nil {
		return nil, err
	}

	if err := unix.Bind(fd, &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Groups: group}); err != nil {
		unix.Close(fd)
		return nil, err
	}

	return &Monitor{fd: fd}, nil
}

// AddSubsystemFilter restricts delivered events to the given subsystems. It
// is safe to call while Run is active.
func (m *Monitor) AddSubsystemFilter(subsystem string) {
	m.filter.add(subsystem)
}

// Close releases the socket.
func (m *Monitor) Close() error {
	return unix.Close(m.fd)
}

// Run delivers matching events until ctx is done. The events channel is
// closed when Run returns.
func (m *Monitor) Run(ctx context.Context, events chan<- Event) error {
	defer close(events)

	buf := make([]byte, 16384)
	fds := []unix.PollFd{{Fd: int32(m.fd), Events: unix.POLLIN}}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := unix.Poll(fds, pollInterval)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		if n == 0 {
			continue
		}

		size, _, err := unix.Recvfrom(m.fd, buf, 0)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			// Receive queue overflowed; some events were lost.
			if errors.Is(err, unix.ENOBUFS) {
				continue
			}
			return err
		}

		event := ParseUEvent(buf[:size])
		if event == nil || !m.filter.matches(event) {
			continue
		}

		select {
		case events <- *event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
