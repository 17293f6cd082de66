package events

import "time"

// Event type identifiers for kelindar/event.
const (
	TypeDeviceDiscovery uint32 = iota + 1
	TypeDeviceProbed
	TypeDeviceProbeFailed
	TypeRegistryRefreshed
)

// Event is the interface kelindar/event dispatches on.
type Event interface {
	Type() uint32
}

// Discovery actions.
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
	ActionChanged = "changed"
)

// DeviceDiscoveryEvent reports a video node appearing or disappearing.
type DeviceDiscoveryEvent struct {
	DevicePath string    `json:"device_path" example:"/dev/video0" doc:"Path to the video device"`
	DeviceID   string    `json:"device_id,omitempty" example:"usb-046d_HD_Webcam_C615-video-index0" doc:"Stable device identifier"`
	Action     string    `json:"action" example:"added" doc:"Action type: added, removed, changed"`
	Timestamp  time.Time `json:"timestamp" doc:"Event timestamp"`
}

// Type implements Event.
func (e DeviceDiscoveryEvent) Type() uint32 { return TypeDeviceDiscovery }

// DeviceProbedEvent reports a device that was opened and queried.
type DeviceProbedEvent struct {
	DevicePath string        `json:"device_path" example:"/dev/video0" doc:"Path to the video device"`
	Card       string        `json:"card" example:"HD Webcam C615" doc:"Device name reported by the driver"`
	Driver     string        `json:"driver" example:"uvcvideo" doc:"Driver name"`
	Formats    int           `json:"formats" example:"2" doc:"Number of formats in the catalog"`
	Duration   time.Duration `json:"duration" doc:"Time spent probing"`
	Timestamp  time.Time     `json:"timestamp" doc:"Event timestamp"`
}

// Type implements Event.
func (e DeviceProbedEvent) Type() uint32 { return TypeDeviceProbed }

// DeviceProbeFailedEvent reports a device that could not be probed.
type DeviceProbeFailedEvent struct {
	DevicePath string    `json:"device_path" example:"/dev/video1" doc:"Path to the video device"`
	Error      string    `json:"error" example:"device does not support buffer type" doc:"Failure description"`
	NotCapable bool      `json:"not_capable" doc:"True when the device lacks the requested buffer type"`
	Timestamp  time.Time `json:"timestamp" doc:"Event timestamp"`
}

// Type implements Event.
func (e DeviceProbeFailedEvent) Type() uint32 { return TypeDeviceProbeFailed }

// RegistryRefreshedEvent is published after a full rescan.
type RegistryRefreshedEvent struct {
	Devices   int       `json:"devices" doc:"Devices in the registry after the scan"`
	Failed    int       `json:"failed" doc:"Devices that failed to probe"`
	Timestamp time.Time `json:"timestamp" doc:"Event timestamp"`
}

// Type implements Event.
func (e RegistryRefreshedEvent) Type() uint32 { return TypeRegistryRefreshed }
