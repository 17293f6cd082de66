//go:build linux

package hotplug

import (
	"context"
	"errors"
	"testing"
)

func TestNewMonitor(t *testing.T) {
	m, err := NewMonitor(GroupKernel)
	if err != nil {
		t.Skipf("netlink unavailable: %v", err)
	}
	defer func() { _ = m.Close() }()

	if m.fd <= 0 {
		t.Errorf("expected valid fd, got %d", m.fd)
	}
}

func TestMonitorRunCancellation(t *testing.T) {
	m, err := NewMonitor(GroupKernel)
	if err != nil {
		t.Skipf("netlink unavailable: %v", err)
	}
	defer func() { _ = m.Close() }()
	m.AddSubsystemFilter(SubsystemVideo4Linux)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := make(chan Event, 1)
	if runErr := m.Run(ctx, events); !errors.Is(runErr, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", runErr)
	}
	if _, open := <-events; open {
		t.Error("events channel should be closed after Run returns")
	}
}
