// Package systemd reports service state to the systemd service manager.
package systemd

import (
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier sends sd_notify state updates. Outside a systemd unit
// (NOTIFY_SOCKET unset) every call is a no-op.
type Notifier struct {
	logger *slog.Logger
	send   func(state string) (bool, error)
}

// NewNotifier creates a notifier using the process NOTIFY_SOCKET.
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{
		logger: logger,
		send: func(state string) (bool, error) {
			return daemon.SdNotify(false, state)
		},
	}
}

// Ready signals that startup finished, with a status line for systemctl status.
func (n *Notifier) Ready(deviceCount int) {
	n.notify(daemon.SdNotifyReady + "\n" + status(deviceCount))
}

// Status updates the free-form status line.
func (n *Notifier) Status(deviceCount int) {
	n.notify(status(deviceCount))
}

// Stopping signals that shutdown began.
func (n *Notifier) Stopping() {
	n.notify(daemon.SdNotifyStopping)
}

func (n *Notifier) notify(state string) {
	sent, err := n.send(state)
	if err != nil {
		n.logger.Warn("sd_notify failed", "state", state, "error", err)
		return
	}
	if sent {
		n.logger.Debug("sd_notify sent", "state", state)
	}
}

func status(deviceCount int) string {
	return fmt.Sprintf("STATUS=%d video device(s) available", deviceCount)
}
