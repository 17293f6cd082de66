package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/videodev/internal/events"
)

// registerSSERoutes registers the device event stream.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Device Events",
		Description: "Real-time stream of device discovery, probe, and registry refresh events",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"device-discovery":    events.DeviceDiscoveryEvent{},
		"device-probed":       events.DeviceProbedEvent{},
		"device-probe-failed": events.DeviceProbeFailedEvent{},
		"registry-refreshed":  events.RegistryRefreshedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan events.Event, 32)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.DeviceDiscoveryEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.DeviceProbedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.DeviceProbeFailedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.RegistryRefreshedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}
