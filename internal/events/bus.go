// Package events is the in-process publish/subscribe bus for device events.
package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher. Each subscriber receives events on
// its own goroutine, in publish order.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates an event bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// Publish sends ev to every subscriber of its concrete type.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case DeviceDiscoveryEvent:
		event.Publish(b.dispatcher, e)
	case DeviceProbedEvent:
		event.Publish(b.dispatcher, e)
	case DeviceProbeFailedEvent:
		event.Publish(b.dispatcher, e)
	case RegistryRefreshedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers a handler; its parameter type selects the events it
// receives. The returned function unsubscribes. Handlers of unknown types
// are ignored.
//
//	unsub := bus.Subscribe(func(e DeviceProbedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(DeviceDiscoveryEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(DeviceProbedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(DeviceProbeFailedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(RegistryRefreshedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}

// SubscribeToChannel forwards events of type T into ch without blocking;
// events are dropped while ch is full.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- Event) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
