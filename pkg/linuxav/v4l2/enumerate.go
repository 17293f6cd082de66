package v4l2

import (
	"bytes"
	"fmt"
	"strings"
)

// DeviceInfo identifies a V4L2 device node found on the system.
type DeviceInfo struct {
	DevicePath string
	DeviceName string
	DeviceID   string // Stable identifier (from /dev/v4l/by-id/ or synthetic)
	Driver     string
	BusInfo    string
	Caps       CapabilitySet
}

// DeviceByID returns the entry of devices carrying the stable deviceID.
func DeviceByID(devices []DeviceInfo, deviceID string) (DeviceInfo, bool) {
	if deviceID == "" {
		return DeviceInfo{}, false
	}
	for _, device := range devices {
		if device.DeviceID == deviceID {
			return device, true
		}
	}
	return DeviceInfo{}, false
}

// syntheticID builds an ID from the bus location when udev provides none.
func syntheticID(busInfo string, index int) string {
	if strings.HasPrefix(busInfo, "usb-") {
		return fmt.Sprintf("%s-video-index%d", busInfo, index)
	}
	return fmt.Sprintf("platform-%s-video-index%d", busInfo, index)
}

// cstr converts a null-terminated byte slice to a Go string.
func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
